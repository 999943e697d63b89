package http_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	bookhttp "github.com/aussiebroadwan/bookstore/internal/bookstore/http"
	"github.com/aussiebroadwan/bookstore/internal/bookstore/service"
	"github.com/aussiebroadwan/bookstore/internal/bookstore/store/drivers/sqlite"
	"github.com/aussiebroadwan/bookstore/pkg/cryptox"
	"github.com/aussiebroadwan/bookstore/pkg/jwtx"
	"github.com/aussiebroadwan/bookstore/pkg/slogx"
	"github.com/aussiebroadwan/bookstore/pkg/storesdk"
	"github.com/aussiebroadwan/bookstore/pkg/totpx"
	"github.com/stretchr/testify/require"
)

const (
	bootstrapToken = "test-bootstrap-token"
	adminPassword  = "Admin123!"
	userPassword   = "reader-pass"
)

type server struct {
	client *storesdk.Client
	tokens *jwtx.Manager
	otp    *totpx.Engine
	store  *sqlite.Store
	url    string
}

func newServer(t *testing.T) *server {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	require.NoError(t, st.ApplyMigrations())

	tokens, err := jwtx.NewManager(jwtx.Options{
		Secret: []byte("0123456789abcdef0123456789abcdef"),
		Issuer: "bookstore-test",
	})
	require.NoError(t, err)

	hasher := cryptox.NewPasswordHasher("test-pepper")
	otp := totpx.NewEngine("Bookstore")

	router := bookhttp.NewRouter(tokens, "test", st, slogx.Discard())
	router.Errors = bookhttp.ErrorWriter{ExposeDetail: true}
	router.AccountService = &service.AccountService{Store: st, Hasher: hasher, Tokens: tokens}
	router.SessionService = &service.SessionService{Store: st, Hasher: hasher, Tokens: tokens, OTP: otp}
	router.BootstrapService = &service.BootstrapService{Store: st, Hasher: hasher, Token: bootstrapToken}
	router.CatalogService = &service.CatalogService{Store: st}
	router.OrderService = &service.OrderService{Store: st}
	router.ApplyRoutes()

	ts := httptest.NewServer(router)
	t.Cleanup(func() {
		ts.Close()
		_ = st.Close()
	})

	return &server{
		client: storesdk.NewClient(ts.URL),
		tokens: tokens,
		otp:    otp,
		store:  st,
		url:    ts.URL,
	}
}

func (s *server) signup(t *testing.T, username string) (*storesdk.Session, storesdk.User) {
	t.Helper()
	resp, err := s.client.Signup(t.Context(), storesdk.SignupRequest{
		Username:        username,
		Email:           username + "@example.com",
		Password:        userPassword,
		ConfirmPassword: userPassword,
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Token)
	return s.client.NewSession(resp.Token), resp.User
}

func (s *server) code(t *testing.T, secret string) string {
	t.Helper()
	c, err := s.otp.GenerateCode(secret, time.Now())
	require.NoError(t, err)
	return c
}

// enrolledAdmin bootstraps an administrator, enrolls TOTP and returns a full
// session plus the enrolled secret.
func (s *server) enrolledAdmin(t *testing.T) (*storesdk.Session, string) {
	t.Helper()
	ctx := t.Context()

	_, err := s.client.Bootstrap(ctx, bootstrapToken, storesdk.BootstrapRequest{
		Username: "root",
		Email:    "root@example.com",
		Password: adminPassword,
	})
	require.NoError(t, err)

	login, err := s.client.Login(ctx, "root@example.com", adminPassword)
	require.NoError(t, err)
	require.Equal(t, storesdk.TOTPSetup, login.TOTPRequired)

	setup := s.client.NewSession(login.TempToken)
	secret, err := setup.TOTPSetup(ctx)
	require.NoError(t, err)

	full, err := setup.VerifyTOTPSetup(ctx, secret.Secret, s.code(t, secret.Secret))
	require.NoError(t, err)
	require.NotEmpty(t, full.Token)
	return s.client.NewSession(full.Token), secret.Secret
}

func requireStatus(t *testing.T, err error, status int, code string) {
	t.Helper()
	require.Error(t, err)
	require.True(t, storesdk.IsStatus(err, status), "expected %d, got %v", status, err)
	if code != "" {
		var apiErr *storesdk.APIError
		require.ErrorAs(t, err, &apiErr)
		require.Equal(t, code, apiErr.Code)
	}
}

func rawRequest(t *testing.T, method, url, token string) *http.Response {
	t.Helper()
	req, err := http.NewRequestWithContext(t.Context(), method, url, nil)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func TestHealth(t *testing.T) {
	s := newServer(t)

	live, err := s.client.GetLiveness(t.Context())
	require.NoError(t, err)
	require.Equal(t, "ok", live.Status)
	require.Equal(t, "test", live.Version)

	ready, err := s.client.GetReadiness(t.Context())
	require.NoError(t, err)
	require.Equal(t, "ok", ready.Status)
	require.NotNil(t, ready.Checks)
	require.Equal(t, "ok", ready.Checks.Database)
}

func TestReadyzDegradedWhenDatabaseClosed(t *testing.T) {
	s := newServer(t)
	require.NoError(t, s.store.Close())

	resp := rawRequest(t, http.MethodGet, s.url+"/readyz", "")
	require.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestSwaggerServed(t *testing.T) {
	s := newServer(t)
	resp := rawRequest(t, http.MethodGet, s.url+"/swagger/doc.json", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
}
