package http_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/aussiebroadwan/bookstore/pkg/httpx"
	"github.com/aussiebroadwan/bookstore/pkg/jwtx"
	"github.com/aussiebroadwan/bookstore/pkg/storesdk"
	"github.com/stretchr/testify/require"
)

func TestSignup(t *testing.T) {
	s := newServer(t)
	ctx := t.Context()

	session, user := s.signup(t, "reader")
	require.Equal(t, "user", user.Role)
	require.False(t, user.OTPEnabled)

	me, err := session.Me(ctx)
	require.NoError(t, err)
	require.Equal(t, user.ID, me.ID)
	require.Equal(t, "reader@example.com", me.Email)

	t.Run("duplicate", func(t *testing.T) {
		_, err := s.client.Signup(ctx, storesdk.SignupRequest{
			Username:        "someone",
			Email:           "READER@example.com",
			Password:        userPassword,
			ConfirmPassword: userPassword,
		})
		requireStatus(t, err, http.StatusConflict, httpx.CodeConflict)
	})

	t.Run("password mismatch", func(t *testing.T) {
		_, err := s.client.Signup(ctx, storesdk.SignupRequest{
			Username:        "other",
			Email:           "other@example.com",
			Password:        userPassword,
			ConfirmPassword: "different",
		})
		requireStatus(t, err, http.StatusBadRequest, httpx.CodeValidation)
	})

	t.Run("bad email", func(t *testing.T) {
		_, err := s.client.Signup(ctx, storesdk.SignupRequest{
			Username:        "other",
			Email:           "not-an-email",
			Password:        userPassword,
			ConfirmPassword: userPassword,
		})
		requireStatus(t, err, http.StatusBadRequest, httpx.CodeValidation)
	})
}

func TestLogin(t *testing.T) {
	s := newServer(t)
	ctx := t.Context()
	_, user := s.signup(t, "reader")

	t.Run("by email", func(t *testing.T) {
		resp, err := s.client.Login(ctx, "reader@example.com", userPassword)
		require.NoError(t, err)
		require.NotEmpty(t, resp.Token)
		require.Empty(t, resp.TOTPRequired)
		require.Empty(t, resp.TempToken)
		require.Equal(t, user.ID, resp.User.ID)

		claims, err := s.tokens.Verify(resp.Token)
		require.NoError(t, err)
		require.Equal(t, jwtx.KindSession, claims.Kind)
		require.Equal(t, user.ID, claims.Subject)
	})

	t.Run("by username", func(t *testing.T) {
		resp, err := s.client.Login(ctx, "reader", userPassword)
		require.NoError(t, err)
		require.NotEmpty(t, resp.Token)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := s.client.Login(ctx, "reader@example.com", "wrong-password")
		requireStatus(t, err, http.StatusUnauthorized, httpx.CodeUnauthenticated)
	})

	t.Run("unknown account", func(t *testing.T) {
		_, err := s.client.Login(ctx, "nobody@example.com", userPassword)
		requireStatus(t, err, http.StatusNotFound, httpx.CodeNotFound)
	})

	t.Run("missing fields", func(t *testing.T) {
		_, err := s.client.Login(ctx, "", "")
		requireStatus(t, err, http.StatusBadRequest, httpx.CodeValidation)
	})
}

func TestAuthenticationErrors(t *testing.T) {
	s := newServer(t)

	t.Run("missing token", func(t *testing.T) {
		resp := rawRequest(t, http.MethodGet, s.url+"/auth/me", "")
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		require.Contains(t, resp.Header.Get("WWW-Authenticate"), "Bearer")
	})

	t.Run("garbage token", func(t *testing.T) {
		resp := rawRequest(t, http.MethodGet, s.url+"/auth/me", "not-a-jwt")
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("expired token", func(t *testing.T) {
		expired, err := jwtx.NewManager(jwtx.Options{
			Secret: []byte("0123456789abcdef0123456789abcdef"),
			Issuer: "bookstore-test",
			Now:    func() time.Time { return time.Now().Add(-48 * time.Hour) },
		})
		require.NoError(t, err)
		tok, err := expired.Issue("someone", "user", jwtx.KindSession, time.Hour)
		require.NoError(t, err)

		resp := rawRequest(t, http.MethodGet, s.url+"/auth/me", tok.Raw)
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("standard account cannot enroll", func(t *testing.T) {
		_, user := s.signup(t, "reader")
		tok, err := s.tokens.Issue(user.ID, "user", jwtx.KindSetup, jwtx.SetupTTL)
		require.NoError(t, err)

		_, err = s.client.NewSession(tok.Raw).TOTPSetup(t.Context())
		requireStatus(t, err, http.StatusForbidden, httpx.CodeForbidden)
	})
}

func TestStepUpTokensAreScoped(t *testing.T) {
	s := newServer(t)
	ctx := t.Context()
	admin, secret := s.enrolledAdmin(t)

	login, err := s.client.Login(ctx, "root", adminPassword)
	require.NoError(t, err)
	require.Equal(t, storesdk.TOTPVerify, login.TOTPRequired)
	require.Empty(t, login.Token)
	verify := s.client.NewSession(login.TempToken)

	t.Run("step-up token rejected by resource routes", func(t *testing.T) {
		_, err := verify.Me(ctx)
		requireStatus(t, err, http.StatusForbidden, httpx.CodeForbidden)

		_, err = verify.ListUsers(ctx)
		requireStatus(t, err, http.StatusForbidden, httpx.CodeForbidden)
	})

	t.Run("verify token rejected by setup routes", func(t *testing.T) {
		_, err := verify.TOTPSetup(ctx)
		requireStatus(t, err, http.StatusForbidden, httpx.CodeForbidden)
	})

	t.Run("full token rejected by step-up routes", func(t *testing.T) {
		_, err := admin.TOTPSetup(ctx)
		requireStatus(t, err, http.StatusForbidden, httpx.CodeForbidden)

		_, err = admin.VerifyTOTPLogin(ctx, s.code(t, secret))
		requireStatus(t, err, http.StatusForbidden, httpx.CodeForbidden)
	})

	t.Run("wrong code", func(t *testing.T) {
		_, err := verify.VerifyTOTPLogin(ctx, "000000")
		if err == nil {
			t.Skip("000000 happened to be the current code")
		}
		requireStatus(t, err, http.StatusUnauthorized, httpx.CodeInvalidOTP)
	})

	t.Run("missing code", func(t *testing.T) {
		_, err := verify.VerifyTOTPLogin(ctx, "")
		requireStatus(t, err, http.StatusBadRequest, httpx.CodeValidation)
	})

	t.Run("correct code", func(t *testing.T) {
		full, err := verify.VerifyTOTPLogin(ctx, s.code(t, secret))
		require.NoError(t, err)
		require.NotEmpty(t, full.Token)
		require.True(t, full.User.OTPEnabled)

		me, err := s.client.NewSession(full.Token).Me(ctx)
		require.NoError(t, err)
		require.Equal(t, "admin", me.Role)
	})
}

func TestTOTPSetupRejectsBadCode(t *testing.T) {
	s := newServer(t)
	ctx := t.Context()

	_, err := s.client.Bootstrap(ctx, bootstrapToken, storesdk.BootstrapRequest{
		Username: "root",
		Email:    "root@example.com",
		Password: adminPassword,
	})
	require.NoError(t, err)

	login, err := s.client.Login(ctx, "root", adminPassword)
	require.NoError(t, err)
	setup := s.client.NewSession(login.TempToken)

	enrollment, err := setup.TOTPSetup(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, enrollment.Secret)
	require.Equal(t, enrollment.Secret, enrollment.ManualEntry)
	require.Contains(t, enrollment.URI, "otpauth://totp/")
	require.Contains(t, enrollment.QRCode, "data:image/png;base64,")

	_, err = setup.VerifyTOTPSetup(ctx, enrollment.Secret, "abc")
	requireStatus(t, err, http.StatusBadRequest, httpx.CodeInvalidOTP)

	_, err = setup.VerifyTOTPSetup(ctx, "", "")
	requireStatus(t, err, http.StatusBadRequest, httpx.CodeValidation)

	// Nothing was stored, so the next login still asks for setup.
	again, err := s.client.Login(ctx, "root", adminPassword)
	require.NoError(t, err)
	require.Equal(t, storesdk.TOTPSetup, again.TOTPRequired)
}
