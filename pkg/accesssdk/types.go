package accesssdk

// ErrorResponse is the standard error envelope returned by every endpoint.
type ErrorResponse struct {
	// Error is the machine-readable error code (e.g. "invalid_request",
	// "unauthorized", "conflict")
	Error string `json:"error"`

	// ErrorDescription is a human-readable description of the error
	ErrorDescription string `json:"error_description"`
}

// RegisterEntitlementRequest is the body for POST /v1/entitlements.
type RegisterEntitlementRequest struct {
	// UserID identifies the user being granted access
	UserID string `json:"user_id"`

	// Code is the delivery code to register or extend. A human-readable
	// hint is normalized server-side; empty means the server generates one.
	Code string `json:"code,omitempty"`

	// Days is the access window length. Zero means the server default.
	Days int `json:"days,omitempty"`
}

// RegisterEntitlementResponse is returned from POST /v1/entitlements.
type RegisterEntitlementResponse struct {
	OK bool `json:"ok"`

	UserID string `json:"user_id"`

	// Code is the registered delivery code, normalized
	Code string `json:"code"`

	// ExpiresAt is the resulting expiry as a Unix timestamp
	ExpiresAt int64 `json:"expires_at"`
}

// StatusResponse is returned from GET /v1/entitlements/{user_id}.
type StatusResponse struct {
	OK bool `json:"ok"`

	// Exists reports whether the user has ever been registered
	Exists bool `json:"exists"`

	// Code is the user's most recently created delivery code, if any
	Code string `json:"code,omitempty"`

	// ExpiresAt is the current expiry as a Unix timestamp, zero when unset
	ExpiresAt int64 `json:"expires_at,omitempty"`

	// DaysLeft is the whole days of access remaining, rounded up;
	// zero once expired
	DaysLeft int `json:"days_left,omitempty"`
}

// ClaimRequest is the body for POST /v1/bindings/claim.
type ClaimRequest struct {
	// Reference is a bare code or a delivery URL carrying one
	Reference string `json:"reference"`

	// UserID is the new owner
	UserID string `json:"user_id"`
}

// BindingResponse describes a delivery code and its routing target. It is
// returned from GET /v1/bindings/{identifier} and POST /v1/bindings/claim.
type BindingResponse struct {
	OK bool `json:"ok"`

	// Code is the delivery code (also the URL path segment under /r/)
	Code string `json:"code"`

	// OwnerUserID is the user deliveries for this code route to
	OwnerUserID string `json:"owner_user_id"`

	// CreatedBy is the user the code was originally minted for
	CreatedBy string `json:"created_by"`

	// CreatedAt is the mint time as a Unix timestamp
	CreatedAt int64 `json:"created_at"`
}

// HealthResponse is returned from the /livez and /readyz probes.
type HealthResponse struct {
	Status  string `json:"status"`
	Uptime  string `json:"uptime"`
	Version string `json:"version"`

	// Checks is only populated by the readiness probe
	Checks *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks reports the status of critical dependencies.
type HealthChecks struct {
	Database string `json:"database"`
}
