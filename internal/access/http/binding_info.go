package http

import (
	"errors"
	"net/http"

	"github.com/oneclicklabs/oneclick-access/internal/access/service"
	"github.com/oneclicklabs/oneclick-access/pkg/accesssdk"
	"github.com/oneclicklabs/oneclick-access/pkg/httpx"
	"github.com/oneclicklabs/oneclick-access/pkg/slogx"
)

type BindingInfoHandler struct {
	RegistrationService *service.RegistrationService
}

// ServeHTTP godoc
//
//	@Summary		Binding Lookup Endpoint
//	@Description	Resolve a delivery code to its owning user, for routing deliveries.
//	@Tags			Bindings
//	@Produce		json
//	@Param			identifier	path		string					true	"Delivery code"
//	@Success		200			{object}	accesssdk.BindingResponse	"ok, code, owner_user_id, created_by, created_at"
//	@Failure		401			{object}	accesssdk.ErrorResponse		"error, error_description"
//	@Failure		404			{object}	accesssdk.ErrorResponse		"error, error_description"
//	@Failure		500			{object}	accesssdk.ErrorResponse		"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/bindings/{identifier} [get].
func (h *BindingInfoHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	identifier := r.PathValue("identifier")

	binding, err := h.RegistrationService.LookupBinding(ctx, identifier)
	if err != nil {
		if errors.Is(err, service.ErrSlugNotFound) {
			httpx.WriteJSON(w, http.StatusNotFound, accesssdk.ErrorResponse{
				Error:            accesssdk.ErrorCodeNotFound,
				ErrorDescription: "Code is not registered",
			})
			return
		}
		log.Error("failed to look up binding", "identifier", identifier, "err", err)
		httpx.WriteJSON(w, http.StatusInternalServerError, accesssdk.ErrorResponse{
			Error:            accesssdk.ErrorCodeServerError,
			ErrorDescription: "Failed to look up binding",
		})
		return
	}

	httpx.WriteJSON(w, http.StatusOK, accesssdk.BindingResponse{
		OK:          true,
		Code:        binding.Slug,
		OwnerUserID: binding.OwnerUserID,
		CreatedBy:   binding.CreatedBy,
		CreatedAt:   binding.CreatedAt.Unix(),
	})
}
