package service

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks every input problem. The wrapping error's message
	// is safe to show to the caller.
	ErrValidation = errors.New("validation failed")

	ErrDuplicateCredential = errors.New("user with this email or username already exists")
	ErrAccountNotFound     = errors.New("user not found")
	ErrInvalidCredential   = errors.New("invalid password")
	ErrForbidden           = errors.New("forbidden")
	ErrNotFound            = errors.New("not found")

	ErrInvalidOTPCode = errors.New("invalid TOTP code")
	ErrOTPNotEnabled  = errors.New("TOTP not enabled for this user")
)

// DetailedError attaches a caller-facing message to one of the sentinels
// above.
type DetailedError struct {
	Kind    error
	Message string
}

func (e *DetailedError) Error() string { return e.Message }

func (e *DetailedError) Unwrap() error { return e.Kind }

func detail(kind error, msg string) error {
	return &DetailedError{Kind: kind, Message: msg}
}

func invalid(msg string) error { return detail(ErrValidation, msg) }

func invalidf(format string, args ...any) error {
	return detail(ErrValidation, fmt.Sprintf(format, args...))
}

// notFound reports a missing resource; what is capitalised by the caller.
func notFound(what string) error { return detail(ErrNotFound, what+" not found") }
