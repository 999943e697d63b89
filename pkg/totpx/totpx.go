// Package totpx wraps RFC 6238 time-based one-time passwords for the
// administrator step-up ceremony.
package totpx

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image/png"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

// Defaults match common authenticator apps.
const (
	DefaultIssuer     = "Bookstore"
	DefaultPeriod     = 30
	DefaultSkew       = 1
	DefaultSecretSize = 20
	DefaultQRSize     = 200
)

// Enrollment is a freshly generated secret that has not been persisted yet.
type Enrollment struct {
	Secret string
	URI    string
	QRCode string // PNG image as a data URL
}

// Engine generates and verifies TOTP codes. The zero value is not usable;
// build one with NewEngine.
type Engine struct {
	Issuer     string
	Period     uint
	Skew       uint
	Digits     otp.Digits
	SecretSize uint
	QRSize     int
	Now        func() time.Time
}

// NewEngine returns an Engine with six digit SHA1 codes, a 30 second period
// and one step of tolerance either side.
func NewEngine(issuer string) *Engine {
	if issuer == "" {
		issuer = DefaultIssuer
	}
	return &Engine{
		Issuer:     issuer,
		Period:     DefaultPeriod,
		Skew:       DefaultSkew,
		Digits:     otp.DigitsSix,
		SecretSize: DefaultSecretSize,
		QRSize:     DefaultQRSize,
		Now:        time.Now,
	}
}

// AccountLabel is the label shown in the authenticator app for email.
func (e *Engine) AccountLabel(email string) string {
	return fmt.Sprintf("%s Admin (%s)", e.Issuer, email)
}

// GenerateSecret creates a new random secret for the account identified by
// email, along with its provisioning URI and a scannable QR code.
func (e *Engine) GenerateSecret(email string) (Enrollment, error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      e.Issuer,
		AccountName: e.AccountLabel(email),
		Period:      e.Period,
		SecretSize:  e.SecretSize,
		Digits:      e.Digits,
		Algorithm:   otp.AlgorithmSHA1,
	})
	if err != nil {
		return Enrollment{}, fmt.Errorf("generate totp key: %w", err)
	}

	img, err := key.Image(e.QRSize, e.QRSize)
	if err != nil {
		return Enrollment{}, fmt.Errorf("render qr code: %w", err)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return Enrollment{}, fmt.Errorf("encode qr code: %w", err)
	}

	return Enrollment{
		Secret: key.Secret(),
		URI:    key.URL(),
		QRCode: "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()),
	}, nil
}

// VerifyCode reports whether code is valid for secret in the current window
// or the ones adjacent to it. Codes of the wrong length or containing
// non-digits are rejected before any HMAC is computed.
func (e *Engine) VerifyCode(secret, code string) bool {
	if secret == "" || !wellFormed(code, e.Digits.Length()) {
		return false
	}
	ok, err := totp.ValidateCustom(code, secret, e.Now().UTC(), e.validateOpts())
	return err == nil && ok
}

// GenerateCode returns the code for secret at t.
func (e *Engine) GenerateCode(secret string, t time.Time) (string, error) {
	return totp.GenerateCodeCustom(secret, t, e.validateOpts())
}

func (e *Engine) validateOpts() totp.ValidateOpts {
	return totp.ValidateOpts{
		Period:    e.Period,
		Skew:      e.Skew,
		Digits:    e.Digits,
		Algorithm: otp.AlgorithmSHA1,
	}
}

func wellFormed(code string, digits int) bool {
	if len(code) != digits {
		return false
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
