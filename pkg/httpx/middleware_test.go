package httpx_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aussiebroadwan/bookstore/pkg/httpx"
	"github.com/aussiebroadwan/bookstore/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T) *jwtx.Manager {
	t.Helper()
	m, err := jwtx.NewManager(jwtx.Options{Secret: []byte("0123456789abcdef0123456789abcdef")})
	require.NoError(t, err)
	return m
}

func issue(t *testing.T, m *jwtx.Manager, role string, kind jwtx.Kind) string {
	t.Helper()
	tok, err := m.Issue("acc-1", role, kind, time.Hour)
	require.NoError(t, err)
	return tok.Raw
}

func serve(h http.Handler, authz string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/resource", nil)
	if authz != "" {
		req.Header.Set("Authorization", authz)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body httpx.ErrorBody
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body.Error
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		want   string
		ok     bool
	}{
		{"Bearer abc.def.ghi", "abc.def.ghi", true},
		{"bearer abc", "abc", true},
		{"BEARER   abc  ", "abc", true},
		{"Bearer ", "", false},
		{"Basic dXNlcjpwYXNz", "", false},
		{"abc.def.ghi", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		got, ok := httpx.BearerToken(tt.header)
		require.Equal(t, tt.ok, ok, tt.header)
		require.Equal(t, tt.want, got, tt.header)
	}
}

func TestAuthenticate(t *testing.T) {
	m := newTestManager(t)

	var seen jwtx.Claims
	h := httpx.Authenticate(m, jwtx.KindSession)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, ok := httpx.ClaimsFromContext(r.Context())
		require.True(t, ok)
		seen = c
		require.Equal(t, "acc-1", httpx.AccountIDFromContext(r.Context()))
		require.Equal(t, "user", httpx.RoleFromContext(r.Context()))
		w.WriteHeader(http.StatusNoContent)
	}))

	t.Run("valid session token", func(t *testing.T) {
		rec := serve(h, "Bearer "+issue(t, m, "user", jwtx.KindSession))
		require.Equal(t, http.StatusNoContent, rec.Code)
		require.Equal(t, jwtx.KindSession, seen.Kind)
	})

	t.Run("missing header", func(t *testing.T) {
		rec := serve(h, "")
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Contains(t, rec.Header().Get("WWW-Authenticate"), `error="invalid_token"`)
		require.Equal(t, httpx.CodeUnauthenticated, errorCode(t, rec))
	})

	t.Run("garbage token", func(t *testing.T) {
		rec := serve(h, "Bearer nope")
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("token from another secret", func(t *testing.T) {
		other, err := jwtx.NewManager(jwtx.Options{Secret: []byte("ffffffffffffffffffffffffffffffff")})
		require.NoError(t, err)
		rec := serve(h, "Bearer "+issue(t, other, "user", jwtx.KindSession))
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	for _, kind := range []jwtx.Kind{jwtx.KindSetup, jwtx.KindVerify} {
		t.Run("step-up token rejected: "+string(kind), func(t *testing.T) {
			rec := serve(h, "Bearer "+issue(t, m, "admin", kind))
			require.Equal(t, http.StatusForbidden, rec.Code)
			require.Equal(t, httpx.CodeForbidden, errorCode(t, rec))
		})
	}
}

func TestAuthenticate_StepUpRoutesRejectSessions(t *testing.T) {
	m := newTestManager(t)

	setup := httpx.Authenticate(m, jwtx.KindSetup)(okHandler)
	verify := httpx.Authenticate(m, jwtx.KindVerify)(okHandler)

	require.Equal(t, http.StatusOK, serve(setup, "Bearer "+issue(t, m, "admin", jwtx.KindSetup)).Code)
	require.Equal(t, http.StatusForbidden, serve(setup, "Bearer "+issue(t, m, "admin", jwtx.KindSession)).Code)
	require.Equal(t, http.StatusForbidden, serve(setup, "Bearer "+issue(t, m, "admin", jwtx.KindVerify)).Code)

	require.Equal(t, http.StatusOK, serve(verify, "Bearer "+issue(t, m, "admin", jwtx.KindVerify)).Code)
	require.Equal(t, http.StatusForbidden, serve(verify, "Bearer "+issue(t, m, "admin", jwtx.KindSession)).Code)
	require.Equal(t, http.StatusForbidden, serve(verify, "Bearer "+issue(t, m, "admin", jwtx.KindSetup)).Code)
}

func TestAuthenticate_RequiresKinds(t *testing.T) {
	require.Panics(t, func() { httpx.Authenticate(newTestManager(t)) })
}

func TestRequireRole(t *testing.T) {
	m := newTestManager(t)
	h := httpx.Chain(okHandler,
		httpx.Authenticate(m, jwtx.KindSession),
		httpx.RequireRole("admin"),
	)

	require.Equal(t, http.StatusOK, serve(h, "Bearer "+issue(t, m, "admin", jwtx.KindSession)).Code)

	rec := serve(h, "Bearer "+issue(t, m, "user", jwtx.KindSession))
	require.Equal(t, http.StatusForbidden, rec.Code)
	require.Equal(t, httpx.CodeForbidden, errorCode(t, rec))

	require.Equal(t, http.StatusUnauthorized, serve(h, "").Code)
}

func TestChainOrder(t *testing.T) {
	var order []string
	mw := func(name string) httpx.Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	serve(httpx.Chain(okHandler, mw("a"), mw("b"), mw("c")), "")
	require.Equal(t, []string{"a", "b", "c"}, order)
}

func TestRecoverer(t *testing.T) {
	h := httpx.Recoverer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic(errors.New("boom"))
	}))

	rec := serve(h, "")
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Equal(t, httpx.CodeInternal, errorCode(t, rec))
	require.NotContains(t, rec.Body.String(), "boom")
}
