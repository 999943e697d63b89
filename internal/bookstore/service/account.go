package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"regexp"
	"strings"
	"time"

	"github.com/aussiebroadwan/bookstore/internal/bookstore/domain"
	"github.com/aussiebroadwan/bookstore/internal/bookstore/store"
	"github.com/aussiebroadwan/bookstore/pkg/cryptox"
	"github.com/aussiebroadwan/bookstore/pkg/idx"
	"github.com/aussiebroadwan/bookstore/pkg/jwtx"
	"github.com/aussiebroadwan/bookstore/pkg/slogx"
)

const (
	MinPasswordLength = 6
	MaxPasswordLength = 256
	MaxUsernameLength = 64
)

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

// TokenIssuer signs session tokens. *jwtx.Manager implements it.
type TokenIssuer interface {
	Issue(subject, role string, kind jwtx.Kind, ttl time.Duration) (jwtx.Token, error)
}

// SignupInput is the self-service registration request.
type SignupInput struct {
	Username        string
	Email           string
	Password        string
	ConfirmPassword string
}

func (in *SignupInput) normalize() error {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))

	if in.Username == "" || in.Email == "" || in.Password == "" || in.ConfirmPassword == "" {
		return invalid("All fields are required")
	}
	if in.Password != in.ConfirmPassword {
		return invalid("Passwords do not match")
	}
	return validateCredentials(in.Username, in.Email, in.Password)
}

func validateCredentials(username, email, password string) error {
	if len(username) > MaxUsernameLength || !usernamePattern.MatchString(username) {
		return invalidf("Username must be 1-%d letters, digits, '.', '_' or '-'", MaxUsernameLength)
	}
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		return invalid("Email address is not valid")
	}
	if len(password) < MinPasswordLength {
		return invalidf("Password must be at least %d characters", MinPasswordLength)
	}
	if len(password) > MaxPasswordLength {
		return invalidf("Password must be at most %d characters", MaxPasswordLength)
	}
	return nil
}

// AccountService owns registration and the administrative account
// operations.
type AccountService struct {
	Store      store.Store
	Hasher     *cryptox.PasswordHasher
	Tokens     TokenIssuer
	SessionTTL time.Duration
}

// Signup creates a standard account and signs it straight in.
func (s *AccountService) Signup(ctx context.Context, in SignupInput) (FullSession, error) {
	l := slogx.FromContext(ctx)

	if err := in.normalize(); err != nil {
		return FullSession{}, err
	}

	hash, err := s.Hasher.Hash(in.Password)
	if err != nil {
		return FullSession{}, fmt.Errorf("hash password: %w", err)
	}

	account := domain.Account{
		ID:           idx.New().String(),
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         domain.RoleUser,
	}
	if err := createAccount(ctx, s.Store, account); err != nil {
		return FullSession{}, err
	}

	// Read back for the stored timestamps.
	account, err = s.Store.Accounts().GetAccountByID(ctx, account.ID)
	if err != nil {
		return FullSession{}, fmt.Errorf("reload account: %w", err)
	}

	session, err := issueFull(s.Tokens, account, s.SessionTTL)
	if err != nil {
		return FullSession{}, err
	}

	l.Info("account created", slog.String("account_id", account.ID), slog.String("username", account.Username))
	return session, nil
}

// Me returns the profile of the calling account.
func (s *AccountService) Me(ctx context.Context, accountID string) (domain.AccountProfile, error) {
	a, err := getAccount(ctx, s.Store, accountID)
	if err != nil {
		return domain.AccountProfile{}, err
	}
	return a.Profile(), nil
}

// ListAccounts returns every account profile.
func (s *AccountService) ListAccounts(ctx context.Context) ([]domain.AccountProfile, error) {
	profiles, err := s.Store.Accounts().ListProfiles(ctx)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	if profiles == nil {
		profiles = []domain.AccountProfile{}
	}
	return profiles, nil
}

// GetAccount returns the profile of id. Callers may read their own profile;
// reading anyone else's requires the administrator role.
func (s *AccountService) GetAccount(ctx context.Context, callerID string, callerRole domain.Role, id string) (domain.AccountProfile, error) {
	if callerID != id && callerRole != domain.RoleAdmin {
		return domain.AccountProfile{}, ErrForbidden
	}
	a, err := getAccount(ctx, s.Store, id)
	if err != nil {
		return domain.AccountProfile{}, err
	}
	return a.Profile(), nil
}

// SetRole changes the role of id. Demotion to RoleUser wipes any enrolled
// TOTP secret.
func (s *AccountService) SetRole(ctx context.Context, id string, role domain.Role) (domain.AccountProfile, error) {
	if !role.Valid() {
		return domain.AccountProfile{}, invalidf("Role must be %q or %q", domain.RoleUser, domain.RoleAdmin)
	}

	if err := s.Store.Accounts().SetRole(ctx, id, role); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.AccountProfile{}, ErrAccountNotFound
		}
		return domain.AccountProfile{}, fmt.Errorf("set role: %w", err)
	}

	slogx.FromContext(ctx).Info("account role changed",
		slog.String("account_id", id),
		slog.String("role", string(role)),
	)
	return s.Me(ctx, id)
}

// DeleteAccount removes id along with its orders.
func (s *AccountService) DeleteAccount(ctx context.Context, id string) error {
	if err := s.Store.Accounts().DeleteAccount(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrAccountNotFound
		}
		return fmt.Errorf("delete account: %w", err)
	}
	slogx.FromContext(ctx).Info("account deleted", slog.String("account_id", id))
	return nil
}

func getAccount(ctx context.Context, st store.Store, id string) (domain.Account, error) {
	a, err := st.Accounts().GetAccountByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Account{}, ErrAccountNotFound
		}
		return domain.Account{}, fmt.Errorf("get account: %w", err)
	}
	return a, nil
}

func createAccount(ctx context.Context, accounts interface{ Accounts() store.Accounts }, a domain.Account) error {
	if err := a.Validate(); err != nil {
		return fmt.Errorf("create account: %w", err)
	}
	if err := accounts.Accounts().CreateAccount(ctx, a); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return ErrDuplicateCredential
		}
		return fmt.Errorf("create account: %w", err)
	}
	return nil
}
