package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/oneclicklabs/oneclick-access/internal/access/metrics"
	"github.com/oneclicklabs/oneclick-access/internal/access/service"
	"github.com/oneclicklabs/oneclick-access/pkg/accesssdk"
	"github.com/oneclicklabs/oneclick-access/pkg/httpx"
	"github.com/oneclicklabs/oneclick-access/pkg/slogx"
)

type EntitlementRegisterHandler struct {
	RegistrationService *service.RegistrationService
	Metrics             *metrics.Metrics
}

// ServeHTTP godoc
//
//	@Summary		Register Entitlement Endpoint
//	@Description	Register or extend an entitlement on behalf of a trusted backend that has
//	@Description	already verified payment. Ensures a delivery code exists for the user and
//	@Description	applies the renewal rule to their access window.
//	@Tags			Entitlements
//	@Accept			json
//	@Produce		json
//	@Param			request	body		accesssdk.RegisterEntitlementRequest	true	"Registration request"
//	@Success		200		{object}	accesssdk.RegisterEntitlementResponse	"ok, user_id, code, expires_at"
//	@Failure		400		{object}	accesssdk.ErrorResponse					"error, error_description"
//	@Failure		401		{object}	accesssdk.ErrorResponse					"error, error_description"
//	@Failure		409		{object}	accesssdk.ErrorResponse					"error, error_description"
//	@Failure		500		{object}	accesssdk.ErrorResponse					"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/entitlements [post].
func (h *EntitlementRegisterHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req accesssdk.RegisterEntitlementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, accesssdk.ErrorResponse{
			Error:            accesssdk.ErrorCodeInvalidRequest,
			ErrorDescription: "Invalid JSON body",
		})
		return
	}

	if req.UserID == "" {
		httpx.WriteJSON(w, http.StatusBadRequest, accesssdk.ErrorResponse{
			Error:            accesssdk.ErrorCodeInvalidRequest,
			ErrorDescription: "user_id is required",
		})
		return
	}
	if req.Days < 0 {
		httpx.WriteJSON(w, http.StatusBadRequest, accesssdk.ErrorResponse{
			Error:            accesssdk.ErrorCodeInvalidRequest,
			ErrorDescription: "days must not be negative",
		})
		return
	}

	window := time.Duration(req.Days) * 24 * time.Hour
	binding, entitlement, err := h.RegistrationService.RegisterOrExtend(ctx, req.Code, req.UserID, window)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCodeOwnedByOther):
			httpx.WriteJSON(w, http.StatusConflict, accesssdk.ErrorResponse{
				Error:            accesssdk.ErrorCodeConflict,
				ErrorDescription: "Code is bound to another user",
			})
		default:
			log.Error("failed to register entitlement", "err", err)
			httpx.WriteJSON(w, http.StatusInternalServerError, accesssdk.ErrorResponse{
				Error:            accesssdk.ErrorCodeServerError,
				ErrorDescription: "Failed to register entitlement",
			})
		}
		return
	}

	h.Metrics.IncrementRegistrations()

	response := accesssdk.RegisterEntitlementResponse{
		OK:     true,
		UserID: req.UserID,
		Code:   binding.Slug,
	}
	if entitlement.ExpiresAt != nil {
		response.ExpiresAt = entitlement.ExpiresAt.Unix()
	}

	httpx.WriteJSON(w, http.StatusOK, response)
}
