package http

import (
	"net/http"

	"github.com/oneclicklabs/oneclick-access/internal/access/service"
	"github.com/oneclicklabs/oneclick-access/pkg/accesssdk"
	"github.com/oneclicklabs/oneclick-access/pkg/httpx"
	"github.com/oneclicklabs/oneclick-access/pkg/slogx"
)

type EntitlementStatusHandler struct {
	RegistrationService *service.RegistrationService
}

// ServeHTTP godoc
//
//	@Summary		Entitlement Status Endpoint
//	@Description	Project a user's access window and most recent delivery code for a trusted
//	@Description	backend. Unknown users yield exists=false rather than an error.
//	@Tags			Entitlements
//	@Produce		json
//	@Param			user_id	path		string					true	"User identifier"
//	@Success		200		{object}	accesssdk.StatusResponse	"ok, exists, code, expires_at, days_left"
//	@Failure		400		{object}	accesssdk.ErrorResponse		"error, error_description"
//	@Failure		401		{object}	accesssdk.ErrorResponse		"error, error_description"
//	@Failure		500		{object}	accesssdk.ErrorResponse		"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/entitlements/{user_id} [get].
func (h *EntitlementStatusHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	userID := r.PathValue("user_id")
	if userID == "" {
		httpx.WriteJSON(w, http.StatusBadRequest, accesssdk.ErrorResponse{
			Error:            accesssdk.ErrorCodeInvalidRequest,
			ErrorDescription: "user_id is required",
		})
		return
	}

	status, err := h.RegistrationService.QueryStatus(ctx, userID)
	if err != nil {
		log.Error("failed to query entitlement status", "user_id", userID, "err", err)
		httpx.WriteJSON(w, http.StatusInternalServerError, accesssdk.ErrorResponse{
			Error:            accesssdk.ErrorCodeServerError,
			ErrorDescription: "Failed to query status",
		})
		return
	}

	response := accesssdk.StatusResponse{
		OK:       true,
		Exists:   status.Exists,
		Code:     status.Slug,
		DaysLeft: status.DaysLeft,
	}
	if status.ExpiresAt != nil {
		response.ExpiresAt = status.ExpiresAt.Unix()
	}

	httpx.WriteJSON(w, http.StatusOK, response)
}
