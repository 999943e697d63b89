package http

import (
	"net/http"

	"github.com/aussiebroadwan/bookstore/internal/bookstore/domain"
	"github.com/aussiebroadwan/bookstore/internal/bookstore/service"
	"github.com/aussiebroadwan/bookstore/pkg/httpx"
	"github.com/aussiebroadwan/bookstore/pkg/storesdk"
)

// UsersHandler serves account administration.
type UsersHandler struct {
	Accounts *service.AccountService
	Errors   ErrorWriter
}

// HandleList handles GET /users
//
//	@Summary	List accounts
//	@Tags		Users
//	@Security	BearerAuth
//	@Produce	json
//	@Success	200	{array}		storesdk.User			"All accounts"
//	@Failure	401	{object}	storesdk.ErrorResponse	"Missing or invalid token"
//	@Failure	403	{object}	storesdk.ErrorResponse	"Administrator role required"
//	@Router		/users [get].
func (h *UsersHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.Accounts.ListAccounts(r.Context())
	if err != nil {
		h.Errors.Write(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toUsers(accounts))
}

// HandleGet handles GET /users/{id}
//
//	@Summary		Get an account
//	@Description	Callers may read their own account. Reading any other account requires the administrator role.
//	@Tags			Users
//	@Security		BearerAuth
//	@Produce		json
//	@Param			id	path		string					true	"Account ID"
//	@Success		200	{object}	storesdk.User			"Account"
//	@Failure		403	{object}	storesdk.ErrorResponse	"Not permitted"
//	@Failure		404	{object}	storesdk.ErrorResponse	"User not found"
//	@Router			/users/{id} [get].
func (h *UsersHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	profile, err := h.Accounts.GetAccount(ctx,
		httpx.AccountIDFromContext(ctx),
		domain.Role(httpx.RoleFromContext(ctx)),
		r.PathValue("id"),
	)
	if err != nil {
		h.Errors.Write(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toUser(profile))
}

// HandleSetRole handles PUT /users/{id}/role
//
//	@Summary		Change an account's role
//	@Description	Demoting an administrator to user clears their TOTP enrollment.
//	@Tags			Users
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string						true	"Account ID"
//	@Param			request	body		storesdk.RoleUpdateRequest	true	"New role"
//	@Success		200		{object}	storesdk.User				"Updated account"
//	@Failure		400		{object}	storesdk.ErrorResponse		"Unknown role"
//	@Failure		404		{object}	storesdk.ErrorResponse		"User not found"
//	@Router			/users/{id}/role [put].
func (h *UsersHandler) HandleSetRole(w http.ResponseWriter, r *http.Request) {
	var req storesdk.RoleUpdateRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		badRequest(w, err)
		return
	}

	profile, err := h.Accounts.SetRole(r.Context(), r.PathValue("id"), domain.Role(req.Role))
	if err != nil {
		h.Errors.Write(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toUser(profile))
}

// HandleDelete handles DELETE /users/{id}
//
//	@Summary	Delete an account
//	@Tags		Users
//	@Security	BearerAuth
//	@Produce	json
//	@Param		id	path		string						true	"Account ID"
//	@Success	200	{object}	storesdk.MessageResponse	"Deleted"
//	@Failure	404	{object}	storesdk.ErrorResponse		"User not found"
//	@Router		/users/{id} [delete].
func (h *UsersHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.Accounts.DeleteAccount(r.Context(), r.PathValue("id")); err != nil {
		h.Errors.Write(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, storesdk.MessageResponse{Message: "User deleted successfully"})
}
