package domain

import (
	"errors"
	"time"
)

// Role is the coarse authorization level of an account.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// ErrOTPOnStandardAccount is returned by Account.Validate when OTP state is
// present on a non-administrator.
var ErrOTPOnStandardAccount = errors.New("domain: standard accounts cannot hold otp state")

// ErrOTPWithoutSecret is returned by Account.Validate when OTP is enabled but
// no secret is stored.
var ErrOTPWithoutSecret = errors.New("domain: otp enabled without a secret")

type Account struct {
	ID           string
	Username     string
	Email        string // stored lower-cased
	PasswordHash string // argon2id PHC string
	Role         Role
	OTPEnabled   bool
	OTPSecret    string // base32, empty unless OTPEnabled
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Validate checks the invariants shared by every persisted account.
func (a Account) Validate() error {
	if !a.Role.Valid() {
		return errors.New("domain: invalid role")
	}
	if a.OTPEnabled && a.OTPSecret == "" {
		return ErrOTPWithoutSecret
	}
	if a.Role != RoleAdmin && (a.OTPEnabled || a.OTPSecret != "") {
		return ErrOTPOnStandardAccount
	}
	return nil
}

// IsAdmin reports whether the account has the administrator role.
func (a Account) IsAdmin() bool { return a.Role == RoleAdmin }

// Profile returns the caller-safe projection of a.
func (a Account) Profile() AccountProfile {
	return AccountProfile{
		ID:         a.ID,
		Username:   a.Username,
		Email:      a.Email,
		Role:       a.Role,
		OTPEnabled: a.OTPEnabled,
		CreatedAt:  a.CreatedAt,
		UpdatedAt:  a.UpdatedAt,
	}
}

// AccountProfile is an Account without credential material.
type AccountProfile struct {
	ID         string
	Username   string
	Email      string
	Role       Role
	OTPEnabled bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
