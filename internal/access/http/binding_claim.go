package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/oneclicklabs/oneclick-access/internal/access/metrics"
	"github.com/oneclicklabs/oneclick-access/internal/access/service"
	"github.com/oneclicklabs/oneclick-access/pkg/accesssdk"
	"github.com/oneclicklabs/oneclick-access/pkg/httpx"
	"github.com/oneclicklabs/oneclick-access/pkg/slogx"
)

type BindingClaimHandler struct {
	IssuanceService *service.IssuanceService
	Metrics         *metrics.Metrics
}

// ServeHTTP godoc
//
//	@Summary		Claim Binding Endpoint
//	@Description	Re-bind an existing delivery code to a new owner. The reference may be the
//	@Description	bare code or a delivery URL carrying it; the last claim wins.
//	@Tags			Bindings
//	@Accept			json
//	@Produce		json
//	@Param			request	body		accesssdk.ClaimRequest		true	"Claim request"
//	@Success		200		{object}	accesssdk.BindingResponse	"ok, code, owner_user_id, created_by, created_at"
//	@Failure		400		{object}	accesssdk.ErrorResponse		"error, error_description"
//	@Failure		401		{object}	accesssdk.ErrorResponse		"error, error_description"
//	@Failure		404		{object}	accesssdk.ErrorResponse		"error, error_description"
//	@Failure		500		{object}	accesssdk.ErrorResponse		"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/bindings/claim [post].
func (h *BindingClaimHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req accesssdk.ClaimRequest
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

	binding, err := h.IssuanceService.Claim(ctx, req.Reference, req.UserID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidReference):
			h.Metrics.IncrementClaim("invalid_reference")
			httpx.WriteJSON(w, http.StatusBadRequest, accesssdk.ErrorResponse{
				Error:            accesssdk.ErrorCodeInvalidRequest,
				ErrorDescription: "Reference does not contain a delivery code",
			})
		case errors.Is(err, service.ErrSlugNotFound):
			h.Metrics.IncrementClaim("not_found")
			httpx.WriteJSON(w, http.StatusNotFound, accesssdk.ErrorResponse{
				Error:            accesssdk.ErrorCodeNotFound,
				ErrorDescription: "Code is not registered",
			})
		default:
			log.Error("failed to claim binding", "user_id", req.UserID, "err", err)
			httpx.WriteJSON(w, http.StatusInternalServerError, accesssdk.ErrorResponse{
				Error:            accesssdk.ErrorCodeServerError,
				ErrorDescription: "Failed to claim binding",
			})
		}
		return
	}

	h.Metrics.IncrementClaim("claimed")

	httpx.WriteJSON(w, http.StatusOK, accesssdk.BindingResponse{
		OK:          true,
		Code:        binding.Slug,
		OwnerUserID: binding.OwnerUserID,
		CreatedBy:   binding.CreatedBy,
		CreatedAt:   binding.CreatedAt.Unix(),
	})
}
