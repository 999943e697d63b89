package cryptox

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// Argon2id parameters used for newly created hashes. Existing hashes carry
// their own parameters in the PHC string and are verified with those.
const (
	memory      = 19 * 1024 // KiB
	iterations  = 2
	parallelism = 1
	keyLength   = 32
	saltLength  = 16
)

// ErrMalformedHash is returned by ParseHash when the encoded value is not a
// PHC-style Argon2id string.
var ErrMalformedHash = errors.New("cryptox: malformed password hash")

// PasswordHasher turns plaintext passwords into salted, peppered Argon2id
// digests. The zero value hashes without a pepper.
type PasswordHasher struct {
	Pepper string
}

// NewPasswordHasher returns a hasher that mixes pepper into every digest.
func NewPasswordHasher(pepper string) *PasswordHasher {
	return &PasswordHasher{Pepper: pepper}
}

// Hash generates a PHC-format Argon2id hash string including salt and parameters.
func (h *PasswordHasher) Hash(password string) (string, error) {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}
	sum := argon2.IDKey([]byte(password+h.Pepper), salt, iterations, memory, parallelism, keyLength)

	return fmt.Sprintf(
		"$argon2id$v=19$m=%d,t=%d,p=%d$%s$%s",
		memory,
		iterations,
		parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(sum),
	), nil
}

// Verify reports whether password matches the encoded hash. A malformed hash
// never matches.
func (h *PasswordHasher) Verify(password, encodedHash string) bool {
	p, err := ParseHash(encodedHash)
	if err != nil {
		return false
	}
	computed := argon2.IDKey(
		[]byte(password+h.Pepper),
		p.Salt,
		p.Iterations,
		p.Memory,
		p.Parallelism,
		uint32(len(p.Key)), // #nosec G115 - key length is bounded by the decoded hash
	)
	return subtle.ConstantTimeCompare(computed, p.Key) == 1
}

// HashParams is the decoded form of a PHC Argon2id string.
type HashParams struct {
	Memory      uint32
	Iterations  uint32
	Parallelism uint8
	Salt        []byte
	Key         []byte
}

// ParseHash decodes $argon2id$v=19$m=X,t=Y,p=Z$salt$hash.
func ParseHash(encodedHash string) (HashParams, error) {
	parts := strings.Split(encodedHash, "$")
	if len(parts) != 6 || parts[0] != "" {
		return HashParams{}, fmt.Errorf("%w: expected 6 parts", ErrMalformedHash)
	}
	if parts[1] != "argon2id" {
		return HashParams{}, fmt.Errorf("%w: not argon2id", ErrMalformedHash)
	}
	if parts[2] != "v=19" {
		return HashParams{}, fmt.Errorf("%w: wrong version", ErrMalformedHash)
	}

	var p HashParams
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &p.Memory, &p.Iterations, &p.Parallelism); err != nil {
		return HashParams{}, fmt.Errorf("%w: parameters: %v", ErrMalformedHash, err)
	}
	if p.Memory == 0 || p.Iterations == 0 || p.Parallelism == 0 {
		return HashParams{}, fmt.Errorf("%w: zero parameter", ErrMalformedHash)
	}

	var err error
	if p.Salt, err = base64.RawStdEncoding.DecodeString(parts[4]); err != nil {
		return HashParams{}, fmt.Errorf("%w: salt: %v", ErrMalformedHash, err)
	}
	if p.Key, err = base64.RawStdEncoding.DecodeString(parts[5]); err != nil {
		return HashParams{}, fmt.Errorf("%w: key: %v", ErrMalformedHash, err)
	}
	if len(p.Key) == 0 {
		return HashParams{}, fmt.Errorf("%w: empty key", ErrMalformedHash)
	}
	return p, nil
}
