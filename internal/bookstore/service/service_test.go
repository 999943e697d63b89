package service

import (
	"context"
	"testing"
	"time"

	"github.com/aussiebroadwan/bookstore/internal/bookstore/domain"
	"github.com/aussiebroadwan/bookstore/internal/bookstore/store/drivers/sqlite"
	"github.com/aussiebroadwan/bookstore/pkg/cryptox"
	"github.com/aussiebroadwan/bookstore/pkg/idx"
	"github.com/aussiebroadwan/bookstore/pkg/jwtx"
	"github.com/aussiebroadwan/bookstore/pkg/totpx"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

type fixture struct {
	store     *sqlite.Store
	hasher    *cryptox.PasswordHasher
	tokens    *jwtx.Manager
	otp       *totpx.Engine
	accounts  *AccountService
	sessions  *SessionService
	bootstrap *BootstrapService
	catalog   *CatalogService
	orders    *OrderService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	require.NoError(t, st.ApplyMigrations())
	t.Cleanup(func() { _ = st.Close() })

	tokens, err := jwtx.NewManager(jwtx.Options{Secret: testSecret, Issuer: "bookstore-test"})
	require.NoError(t, err)

	f := &fixture{
		store:  st,
		hasher: cryptox.NewPasswordHasher("test-pepper"),
		tokens: tokens,
		otp:    totpx.NewEngine("Bookstore"),
	}
	f.accounts = &AccountService{Store: st, Hasher: f.hasher, Tokens: tokens, SessionTTL: time.Hour}
	f.sessions = &SessionService{Store: st, Hasher: f.hasher, Tokens: tokens, OTP: f.otp, SessionTTL: time.Hour}
	f.bootstrap = &BootstrapService{Store: st, Hasher: f.hasher, Token: "bootstrap-token"}
	f.catalog = &CatalogService{Store: st}
	f.orders = &OrderService{Store: st}
	return f
}

// signup registers a standard account and returns its profile.
func (f *fixture) signup(t *testing.T, username, password string) domain.AccountProfile {
	t.Helper()
	s, err := f.accounts.Signup(context.Background(), SignupInput{
		Username:        username,
		Email:           username + "@example.com",
		Password:        password,
		ConfirmPassword: password,
	})
	require.NoError(t, err)
	return s.Account
}

// admin registers an account and promotes it.
func (f *fixture) admin(t *testing.T, username, password string) domain.AccountProfile {
	t.Helper()
	p := f.signup(t, username, password)
	p, err := f.accounts.SetRole(context.Background(), p.ID, domain.RoleAdmin)
	require.NoError(t, err)
	return p
}

func (f *fixture) code(t *testing.T, secret string) string {
	t.Helper()
	c, err := f.otp.GenerateCode(secret, time.Now())
	require.NoError(t, err)
	return c
}

func (f *fixture) claims(t *testing.T, tok jwtx.Token) jwtx.Claims {
	t.Helper()
	c, err := f.tokens.Verify(tok.Raw)
	require.NoError(t, err)
	return c
}

func (f *fixture) book(t *testing.T, title string) domain.Book {
	t.Helper()
	b, err := f.catalog.CreateBook(context.Background(), BookInput{
		Title:         title,
		Author:        "Author of " + title,
		Genre:         "fiction",
		YearPublished: 2001,
		PriceCents:    999,
	})
	require.NoError(t, err)
	return b
}

func missingID() string { return idx.New().String() }
