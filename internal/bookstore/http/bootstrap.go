package http

import (
	"net/http"

	"github.com/aussiebroadwan/bookstore/internal/bookstore/service"
	"github.com/aussiebroadwan/bookstore/pkg/httpx"
	"github.com/aussiebroadwan/bookstore/pkg/slogx"
	"github.com/aussiebroadwan/bookstore/pkg/storesdk"
)

// BootstrapHeader carries the one-time bootstrap token.
const BootstrapHeader = "X-Bootstrap-Token"

type BootstrapHandler struct {
	Bootstrap *service.BootstrapService
	Errors    ErrorWriter
}

// ServeHTTP creates the first administrator.
//
//	@Summary		Bootstrap the first administrator
//	@Description	Only available when a bootstrap token is configured, and only until an administrator exists. The administrator enrolls TOTP on first login.
//	@Tags			Bootstrap
//	@Accept			json
//	@Produce		json
//	@Param			X-Bootstrap-Token	header		string						true	"Bootstrap token"
//	@Param			request				body		storesdk.BootstrapRequest	true	"Administrator credentials"
//	@Success		201					{object}	storesdk.BootstrapResponse	"Administrator created"
//	@Failure		400					{object}	storesdk.ErrorResponse		"Validation failed"
//	@Failure		401					{object}	storesdk.ErrorResponse		"Missing or invalid token, or already bootstrapped"
//	@Failure		404					{object}	storesdk.ErrorResponse		"Bootstrap not enabled"
//	@Failure		409					{object}	storesdk.ErrorResponse		"Username or email already taken"
//	@Router			/v1/bootstrap [post].
func (h *BootstrapHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !h.Bootstrap.Enabled() {
		httpx.WriteError(w, http.StatusNotFound, httpx.CodeNotFound, "Bootstrap endpoint is not enabled")
		return
	}

	token := r.Header.Get(BootstrapHeader)
	if token == "" {
		httpx.WriteError(w, http.StatusUnauthorized, httpx.CodeUnauthenticated,
			"Bootstrap token is required in "+BootstrapHeader+" header")
		return
	}

	var req storesdk.BootstrapRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		badRequest(w, err)
		return
	}

	slogx.FromContext(r.Context()).Info("bootstrap requested")
	admin, err := h.Bootstrap.Bootstrap(r.Context(), token, service.BootstrapInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.Errors.Write(w, r, err)
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusCreated, storesdk.BootstrapResponse{
		Message: "Administrator created",
		User:    toUser(admin),
	})
}
