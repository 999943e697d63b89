package http

import (
	"net/http"

	"github.com/aussiebroadwan/bookstore/internal/bookstore/service"
	"github.com/aussiebroadwan/bookstore/pkg/httpx"
	"github.com/aussiebroadwan/bookstore/pkg/slogx"
	"github.com/aussiebroadwan/bookstore/pkg/storesdk"
)

// AuthHandler serves signup, login and the TOTP step-up ceremony.
type AuthHandler struct {
	Accounts *service.AccountService
	Sessions *service.SessionService
	Errors   ErrorWriter
}

// HandleSignup handles POST /auth/signup
//
//	@Summary		Register a standard account
//	@Description	Creates a standard account and returns a full session token.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		storesdk.SignupRequest	true	"Signup request"
//	@Success		201		{object}	storesdk.AuthResponse	"Account created"
//	@Failure		400		{object}	storesdk.ErrorResponse	"Validation failed"
//	@Failure		409		{object}	storesdk.ErrorResponse	"Username or email already taken"
//	@Failure		429		{object}	storesdk.ErrorResponse	"Rate limit exceeded"
//	@Router			/auth/signup [post].
func (h *AuthHandler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	var req storesdk.SignupRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		badRequest(w, err)
		return
	}

	session, err := h.Accounts.Signup(r.Context(), service.SignupInput{
		Username:        req.Username,
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		h.Errors.Write(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, fullSessionResponse("User created successfully", session))
}

// HandleLogin handles POST /auth/login
//
//	@Summary		Log in
//	@Description	Standard accounts receive a full session token. Administrators receive a short-lived tempToken and totpRequired set to "setup" or "verify".
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		storesdk.LoginRequest	true	"Credentials; email may also be a username"
//	@Success		200		{object}	storesdk.AuthResponse	"Full or step-up token"
//	@Failure		400		{object}	storesdk.ErrorResponse	"Missing email or password"
//	@Failure		401		{object}	storesdk.ErrorResponse	"Invalid password"
//	@Failure		404		{object}	storesdk.ErrorResponse	"User not found"
//	@Failure		429		{object}	storesdk.ErrorResponse	"Rate limit exceeded"
//	@Router			/auth/login [post].
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req storesdk.LoginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		badRequest(w, err)
		return
	}

	res, err := h.Sessions.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.Errors.Write(w, r, err)
		return
	}

	var resp storesdk.AuthResponse
	switch res := res.(type) {
	case service.FullSession:
		resp = fullSessionResponse("Login successful", res)
	case service.SetupRequired:
		resp = storesdk.AuthResponse{
			Message:      "TOTP setup required",
			TOTPRequired: storesdk.TOTPSetup,
			TempToken:    res.Token.Raw,
			ExpiresAt:    res.Token.ExpiresAt,
			User:         toUser(res.Account),
		}
	case service.VerifyRequired:
		resp = storesdk.AuthResponse{
			Message:      "TOTP verification required",
			TOTPRequired: storesdk.TOTPVerify,
			TempToken:    res.Token.Raw,
			ExpiresAt:    res.Token.ExpiresAt,
			User:         toUser(res.Account),
		}
	default:
		slogx.FromContext(r.Context()).Error("unhandled login result", "type", res)
		h.Errors.Write(w, r, errUnexpectedLoginResult)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, resp)
}

// HandleMe handles GET /auth/me
//
//	@Summary		Current account
//	@Tags			Auth
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	storesdk.User			"Profile of the caller"
//	@Failure		401	{object}	storesdk.ErrorResponse	"Missing or invalid token"
//	@Failure		403	{object}	storesdk.ErrorResponse	"Step-up token used"
//	@Router			/auth/me [get].
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	profile, err := h.Accounts.Me(r.Context(), httpx.AccountIDFromContext(r.Context()))
	if err != nil {
		h.Errors.Write(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toUser(profile))
}

// HandleTOTPSetup handles GET /auth/totp/setup
//
//	@Summary		Generate a TOTP secret
//	@Description	Returns a fresh secret, its otpauth URI and a QR code. Nothing is stored until verify-setup succeeds.
//	@Tags			TOTP
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	storesdk.TOTPSetupResponse	"New secret"
//	@Failure		401	{object}	storesdk.ErrorResponse		"Missing or invalid token"
//	@Failure		403	{object}	storesdk.ErrorResponse		"Not a setup token or not an administrator"
//	@Router			/auth/totp/setup [get].
func (h *AuthHandler) HandleTOTPSetup(w http.ResponseWriter, r *http.Request) {
	enrollment, err := h.Sessions.BeginTOTPSetup(r.Context(), httpx.AccountIDFromContext(r.Context()))
	if err != nil {
		h.Errors.Write(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, storesdk.TOTPSetupResponse{
		Message:     "TOTP secret generated",
		Secret:      enrollment.Secret,
		URI:         enrollment.URI,
		QRCode:      enrollment.QRCode,
		ManualEntry: enrollment.Secret,
	})
}

// HandleVerifySetup handles POST /auth/totp/verify-setup
//
//	@Summary		Confirm TOTP enrollment
//	@Description	Stores the secret once the code proves possession and returns a full session token.
//	@Tags			TOTP
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		storesdk.TOTPVerifySetupRequest	true	"Secret and current code"
//	@Success		200		{object}	storesdk.AuthResponse			"TOTP enabled"
//	@Failure		400		{object}	storesdk.ErrorResponse			"Invalid code or request"
//	@Failure		401		{object}	storesdk.ErrorResponse			"Missing or invalid token"
//	@Failure		403		{object}	storesdk.ErrorResponse			"Not a setup token or not an administrator"
//	@Router			/auth/totp/verify-setup [post].
func (h *AuthHandler) HandleVerifySetup(w http.ResponseWriter, r *http.Request) {
	var req storesdk.TOTPVerifySetupRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		badRequest(w, err)
		return
	}

	session, err := h.Sessions.ConfirmTOTPSetup(r.Context(), httpx.AccountIDFromContext(r.Context()), req.Secret, req.Code)
	if err != nil {
		h.Errors.Write(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, fullSessionResponse("TOTP enabled successfully", session))
}

// HandleVerifyLogin handles POST /auth/totp/verify-login
//
//	@Summary		Complete an administrator login
//	@Tags			TOTP
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		storesdk.TOTPVerifyLoginRequest	true	"Current code"
//	@Success		200		{object}	storesdk.AuthResponse			"Full session token"
//	@Failure		400		{object}	storesdk.ErrorResponse			"TOTP not enabled or missing code"
//	@Failure		401		{object}	storesdk.ErrorResponse			"Invalid code or token"
//	@Failure		403		{object}	storesdk.ErrorResponse			"Not a verify token"
//	@Router			/auth/totp/verify-login [post].
func (h *AuthHandler) HandleVerifyLogin(w http.ResponseWriter, r *http.Request) {
	var req storesdk.TOTPVerifyLoginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		badRequest(w, err)
		return
	}

	session, err := h.Sessions.VerifyTOTPLogin(r.Context(), httpx.AccountIDFromContext(r.Context()), req.Code)
	if err != nil {
		h.Errors.Write(w, r, err, invalidOTPOnLogin)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, fullSessionResponse("Login successful", session))
}
