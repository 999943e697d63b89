package jwtx

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// MinSecretLength is the shortest HMAC secret a Manager accepts.
const MinSecretLength = 32

// Options configure a Manager.
type Options struct {
	// Secret is the HS256 signing key. Required, at least MinSecretLength bytes.
	Secret []byte

	// Issuer is written to and enforced on the "iss" claim. Empty disables the check.
	Issuer string

	// Leeway allows small clock skew when validating exp/nbf.
	Leeway time.Duration

	// Now overrides the clock, mostly for tests.
	Now func() time.Time
}

// Token is a freshly signed token together with its claims.
type Token struct {
	Raw       string
	Claims    Claims
	ExpiresAt time.Time
}

// Manager issues and verifies HS256 session tokens. It holds no mutable
// state and is safe for concurrent use.
type Manager struct {
	secret []byte
	issuer string
	leeway time.Duration
	now    func() time.Time
}

var _ Verifier = (*Manager)(nil)

// NewManager validates opts and returns a ready Manager.
func NewManager(opts Options) (*Manager, error) {
	if len(opts.Secret) < MinSecretLength {
		return nil, fmt.Errorf("jwtx: secret must be at least %d bytes, got %d", MinSecretLength, len(opts.Secret))
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	secret := make([]byte, len(opts.Secret))
	copy(secret, opts.Secret)

	return &Manager{
		secret: secret,
		issuer: opts.Issuer,
		leeway: opts.Leeway,
		now:    now,
	}, nil
}

// Issue signs a token of the given kind for subject.
func (m *Manager) Issue(subject, role string, kind Kind, ttl time.Duration) (Token, error) {
	if !kind.Valid() {
		return Token{}, fmt.Errorf("jwtx: unknown token kind %q", kind)
	}
	if subject == "" || role == "" {
		return Token{}, errors.New("jwtx: subject and role are required")
	}
	if ttl <= 0 {
		return Token{}, fmt.Errorf("jwtx: ttl must be positive, got %s", ttl)
	}

	claims := NewClaims(subject, role, kind, m.issuer, ttl, m.now().UTC())
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return Token{}, fmt.Errorf("jwtx: sign: %w", err)
	}
	return Token{Raw: raw, Claims: claims, ExpiresAt: claims.ExpiresAt.Time}, nil
}

// Verify parses raw, checks the signature and the time window, and returns
// the claims. Failures wrap exactly one of ErrMalformed, ErrInvalidSignature,
// ErrExpired, ErrNotYetValid or ErrIssuer.
func (m *Manager) Verify(raw string) (Claims, error) {
	if raw == "" {
		return Claims{}, ErrMalformed
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(m.now),
		jwt.WithLeeway(m.leeway),
		jwt.WithExpirationRequired(),
	)

	var claims Claims
	token, err := parser.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) {
		return m.secret, nil
	})
	if err != nil {
		return Claims{}, classify(err)
	}
	if !token.Valid {
		return Claims{}, ErrMalformed
	}
	if err := claims.ValidateIssuer(m.issuer); err != nil {
		return Claims{}, err
	}
	if err := claims.Validate(); err != nil {
		return Claims{}, err
	}
	return claims, nil
}

func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	case errors.Is(err, jwt.ErrTokenExpired):
		return fmt.Errorf("%w: %v", ErrExpired, err)
	case errors.Is(err, jwt.ErrTokenNotValidYet), errors.Is(err, jwt.ErrTokenUsedBeforeIssued):
		return fmt.Errorf("%w: %v", ErrNotYetValid, err)
	default:
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
}
