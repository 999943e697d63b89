package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aussiebroadwan/bookstore/internal/bookstore/domain"
	"github.com/aussiebroadwan/bookstore/internal/bookstore/store"
	"github.com/aussiebroadwan/bookstore/pkg/cryptox"
	"github.com/aussiebroadwan/bookstore/pkg/jwtx"
	"github.com/aussiebroadwan/bookstore/pkg/slogx"
	"github.com/aussiebroadwan/bookstore/pkg/totpx"
)

// LoginResult is the outcome of a successful password check. It is exactly
// one of FullSession, SetupRequired or VerifyRequired.
type LoginResult interface {
	loginResult()
}

// FullSession grants access to every route the account's role allows.
type FullSession struct {
	Token   jwtx.Token
	Account domain.AccountProfile
}

// SetupRequired is returned to administrators without TOTP. The token only
// unlocks the enrollment routes.
type SetupRequired struct {
	Token   jwtx.Token
	Account domain.AccountProfile
}

// VerifyRequired is returned to enrolled administrators. The token only
// unlocks the login verification route.
type VerifyRequired struct {
	Token   jwtx.Token
	Account domain.AccountProfile
}

func (FullSession) loginResult()    {}
func (SetupRequired) loginResult()  {}
func (VerifyRequired) loginResult() {}

// SessionService runs the password login and the TOTP step-up ceremony.
type SessionService struct {
	Store      store.Store
	Hasher     *cryptox.PasswordHasher
	Tokens     TokenIssuer
	OTP        *totpx.Engine
	SessionTTL time.Duration
}

// Login checks the password of the account matching login (email or
// username) and decides which token the caller gets.
func (s *SessionService) Login(ctx context.Context, login, password string) (LoginResult, error) {
	l := slogx.FromContext(ctx)

	login = strings.TrimSpace(login)
	if login == "" || password == "" {
		return nil, invalid("Email and password are required")
	}

	account, err := s.Store.Accounts().GetAccountByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			l.Info("login for unknown account")
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("lookup account: %w", err)
	}

	if !s.Hasher.Verify(password, account.PasswordHash) {
		l.Info("login with wrong password", slog.String("account_id", account.ID))
		return nil, ErrInvalidCredential
	}

	if account.Role != domain.RoleAdmin {
		session, err := issueFull(s.Tokens, account, s.SessionTTL)
		if err != nil {
			return nil, err
		}
		return session, nil
	}

	if !account.OTPEnabled {
		tok, err := s.Tokens.Issue(account.ID, string(account.Role), jwtx.KindSetup, jwtx.SetupTTL)
		if err != nil {
			return nil, fmt.Errorf("issue setup token: %w", err)
		}
		l.Info("totp setup required", slog.String("account_id", account.ID))
		return SetupRequired{Token: tok, Account: account.Profile()}, nil
	}

	tok, err := s.Tokens.Issue(account.ID, string(account.Role), jwtx.KindVerify, jwtx.VerifyTTL)
	if err != nil {
		return nil, fmt.Errorf("issue verify token: %w", err)
	}
	return VerifyRequired{Token: tok, Account: account.Profile()}, nil
}

// BeginTOTPSetup generates a fresh secret for an administrator. Nothing is
// stored until ConfirmTOTPSetup sees a valid code for it.
func (s *SessionService) BeginTOTPSetup(ctx context.Context, accountID string) (totpx.Enrollment, error) {
	account, err := getAccount(ctx, s.Store, accountID)
	if err != nil {
		return totpx.Enrollment{}, err
	}
	if account.Role != domain.RoleAdmin {
		return totpx.Enrollment{}, detail(ErrForbidden, "Only admins can set up TOTP")
	}

	enrollment, err := s.OTP.GenerateSecret(account.Email)
	if err != nil {
		return totpx.Enrollment{}, fmt.Errorf("generate totp secret: %w", err)
	}
	return enrollment, nil
}

// ConfirmTOTPSetup stores secret once code proves the caller holds it, then
// issues a full session. Concurrent confirmations for one account are
// last-writer-wins.
func (s *SessionService) ConfirmTOTPSetup(ctx context.Context, accountID, secret, code string) (FullSession, error) {
	l := slogx.FromContext(ctx)

	secret = strings.TrimSpace(secret)
	code = strings.TrimSpace(code)
	if secret == "" || code == "" {
		return FullSession{}, invalid("Secret and code are required")
	}

	account, err := getAccount(ctx, s.Store, accountID)
	if err != nil {
		return FullSession{}, err
	}
	if account.Role != domain.RoleAdmin {
		return FullSession{}, detail(ErrForbidden, "Only admins can set up TOTP")
	}

	if !s.OTP.VerifyCode(secret, code) {
		l.Info("totp setup code rejected", slog.String("account_id", accountID))
		return FullSession{}, ErrInvalidOTPCode
	}

	if err := s.Store.Accounts().SetOTP(ctx, accountID, secret); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return FullSession{}, ErrAccountNotFound
		}
		return FullSession{}, fmt.Errorf("store totp secret: %w", err)
	}
	account.OTPEnabled = true
	account.OTPSecret = secret

	l.Info("totp enabled", slog.String("account_id", accountID))
	return issueFull(s.Tokens, account, s.SessionTTL)
}

// VerifyTOTPLogin completes the login of an enrolled administrator. There is
// no lockout after repeated failures.
func (s *SessionService) VerifyTOTPLogin(ctx context.Context, accountID, code string) (FullSession, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return FullSession{}, invalid("TOTP code is required")
	}

	account, err := getAccount(ctx, s.Store, accountID)
	if err != nil {
		return FullSession{}, err
	}
	if !account.OTPEnabled || account.OTPSecret == "" {
		return FullSession{}, ErrOTPNotEnabled
	}

	if !s.OTP.VerifyCode(account.OTPSecret, code) {
		slogx.FromContext(ctx).Info("totp login code rejected", slog.String("account_id", accountID))
		return FullSession{}, ErrInvalidOTPCode
	}
	return issueFull(s.Tokens, account, s.SessionTTL)
}

func issueFull(tokens TokenIssuer, a domain.Account, ttl time.Duration) (FullSession, error) {
	if ttl <= 0 {
		ttl = jwtx.DefaultSessionTTL
	}
	tok, err := tokens.Issue(a.ID, string(a.Role), jwtx.KindSession, ttl)
	if err != nil {
		return FullSession{}, fmt.Errorf("issue session token: %w", err)
	}
	return FullSession{Token: tok, Account: a.Profile()}, nil
}
