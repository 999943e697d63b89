package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aussiebroadwan/bookstore/internal/bookstore/domain"
	"github.com/aussiebroadwan/bookstore/internal/bookstore/store"
	"github.com/aussiebroadwan/bookstore/pkg/cryptox"
	"github.com/aussiebroadwan/bookstore/pkg/idx"
	"github.com/aussiebroadwan/bookstore/pkg/slogx"
)

var (
	ErrBootstrapDisabled     = errors.New("bootstrap is disabled")
	ErrBootstrapAlready      = errors.New("an administrator already exists")
	ErrBootstrapUnauthorized = errors.New("unauthorized bootstrap attempt")
)

// BootstrapInput describes the first administrator.
type BootstrapInput struct {
	Username string
	Email    string
	Password string
}

// BootstrapService creates the first administrator on an empty system.
type BootstrapService struct {
	Store  store.Store
	Hasher *cryptox.PasswordHasher
	Token  string // pre-configured bootstrap token, empty disables bootstrap
}

// Enabled reports whether a bootstrap token is configured.
func (s *BootstrapService) Enabled() bool { return s.Token != "" }

// IsBootstrapped reports whether any administrator exists.
func (s *BootstrapService) IsBootstrapped(ctx context.Context) (bool, error) {
	n, err := s.Store.Accounts().CountAdmins(ctx)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Bootstrap creates an administrator when token matches and none exists yet.
// The new account has no TOTP and will be sent through setup on first login.
func (s *BootstrapService) Bootstrap(ctx context.Context, token string, in BootstrapInput) (domain.AccountProfile, error) {
	l := slogx.FromContext(ctx)

	if !s.Enabled() {
		return domain.AccountProfile{}, ErrBootstrapDisabled
	}
	if !cryptox.EqualTokens(token, s.Token) {
		l.Warn("unauthorized bootstrap attempt")
		return domain.AccountProfile{}, ErrBootstrapUnauthorized
	}

	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if in.Username == "" || in.Email == "" || in.Password == "" {
		return domain.AccountProfile{}, invalid("All fields are required")
	}
	if err := validateCredentials(in.Username, in.Email, in.Password); err != nil {
		return domain.AccountProfile{}, err
	}

	hash, err := s.Hasher.Hash(in.Password)
	if err != nil {
		return domain.AccountProfile{}, fmt.Errorf("hash password: %w", err)
	}

	account := domain.Account{
		ID:           idx.New().String(),
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         domain.RoleAdmin,
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		n, err := tx.Accounts().CountAdmins(ctx)
		if err != nil {
			return fmt.Errorf("count admins: %w", err)
		}
		if n > 0 {
			return ErrBootstrapAlready
		}
		if err := createAccount(ctx, tx, account); err != nil {
			return err
		}
		account, err = tx.Accounts().GetAccountByID(ctx, account.ID)
		return err
	})
	if err != nil {
		if errors.Is(err, ErrBootstrapAlready) {
			l.Warn("attempted bootstrap on already-bootstrapped system")
		}
		return domain.AccountProfile{}, err
	}

	l.Info("bootstrapped administrator",
		slog.String("account_id", account.ID),
		slog.String("username", account.Username),
	)
	return account.Profile(), nil
}
