package jwtx

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Default lifetimes for each token kind. The step-up windows are fixed; the
// session lifetime is configurable per deployment.
const (
	DefaultSessionTTL = 24 * time.Hour
	SetupTTL          = 15 * time.Minute
	VerifyTTL         = 5 * time.Minute
)

// Kind identifies what a token may be used for. The set is closed: any value
// other than the constants below fails verification.
type Kind string

const (
	// KindSession is a full session that grants access to protected resources.
	KindSession Kind = "session"
	// KindSetup only allows an administrator to enroll a TOTP authenticator.
	KindSetup Kind = "totp_setup"
	// KindVerify only allows an administrator to present a TOTP code.
	KindVerify Kind = "totp_verify"
)

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindSession, KindSetup, KindVerify:
		return true
	}
	return false
}

// StepUp reports whether tokens of this kind are pending a second factor.
func (k Kind) StepUp() bool {
	return k == KindSetup || k == KindVerify
}

// Claims are the session-token claims shared by all token kinds.
type Claims struct {
	jwt.RegisteredClaims

	// Role of the account at issuance ("user" or "admin").
	Role string `json:"role"`

	// Kind is the token purpose.
	Kind Kind `json:"kind"`

	// PendingStepUp marks tokens that only unlock the TOTP ceremony. It must
	// agree with Kind.
	PendingStepUp bool `json:"pending_step_up"`
}

// NewClaims builds claims for subject valid from now until now+ttl.
func NewClaims(subject, role string, kind Kind, issuer string, ttl time.Duration, now time.Time) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
		Role:          role,
		Kind:          kind,
		PendingStepUp: kind.StepUp(),
	}
}

// Validate checks the structural invariants that the signature alone cannot
// guarantee.
func (c *Claims) Validate() error {
	if c.Subject == "" || c.Role == "" {
		return ErrMalformed
	}
	if !c.Kind.Valid() {
		return ErrMalformed
	}
	if c.PendingStepUp != c.Kind.StepUp() {
		return ErrMalformed
	}
	if c.ExpiresAt == nil {
		return ErrMalformed
	}
	return nil
}

// ValidateIssuer checks if the issuer matches expected value.
func (c *Claims) ValidateIssuer(expected string) error {
	if expected == "" {
		return nil
	}
	if c.Issuer != expected {
		return ErrIssuer
	}
	return nil
}
