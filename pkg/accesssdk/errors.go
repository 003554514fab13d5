package accesssdk

import "fmt"

// Error codes used in the error envelope.
const (
	ErrorCodeInvalidRequest = "invalid_request"
	ErrorCodeUnauthorized   = "unauthorized"
	ErrorCodeForbidden      = "forbidden"
	ErrorCodeNotFound       = "not_found"
	ErrorCodeConflict       = "conflict"
	ErrorCodeQuotaExhausted = "quota_exhausted"
	ErrorCodeServerError    = "server_error"
)

// APIError is a decoded error envelope plus the HTTP status it arrived with.
// It implements the error interface so SDK callers can inspect failures
// with errors.As.
type APIError struct {
	// StatusCode is the HTTP status code of the response
	StatusCode int

	// Code is the machine-readable error code from the envelope
	Code string

	// Description is the human-readable description from the envelope
	Description string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Description)
}

// IsNotFound reports whether the error is a 404 envelope.
func (e *APIError) IsNotFound() bool {
	return e.StatusCode == 404 || e.Code == ErrorCodeNotFound
}
