package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

const (
	// SaltSize is the length in bytes of every generated salt.
	SaltSize = 32
	// KeySize is the length in bytes of every derived key.
	KeySize = 32
	// DefaultIterations is the PBKDF2-HMAC-SHA256 work factor for new credentials.
	DefaultIterations = 600_000
)

// Secret is the derived login material of one credential.
type Secret struct {
	Iterations int
	Salt       string
	StoredKey  string
}

// Hasher derives and verifies PBKDF2-HMAC-SHA256 keys.
type Hasher struct {
	iterations int
	random     io.Reader
	dummy      Secret
}

// NewHasher returns a Hasher deriving new secrets with the given iteration count.
func NewHasher(iterations int) (*Hasher, error) {
	return newHasher(iterations, rand.Reader)
}

func newHasher(iterations int, random io.Reader) (*Hasher, error) {
	if iterations <= 0 {
		return nil, fmt.Errorf("auth: iterations must be positive, got %d", iterations)
	}
	h := &Hasher{iterations: iterations, random: random}
	dummy, err := h.Generate("not a real password")
	if err != nil {
		return nil, err
	}
	h.dummy = dummy
	return h, nil
}

// Iterations returns the work factor applied to new secrets.
func (h *Hasher) Iterations() int {
	return h.iterations
}

// Derive computes the raw derived key for password under salt.
func Derive(password string, salt []byte, iterations int) []byte {
	return pbkdf2.Key([]byte(password), salt, iterations, KeySize, sha256.New)
}

// Generate draws a fresh salt and derives a key for password.
func (h *Hasher) Generate(password string) (Secret, error) {
	salt := make([]byte, SaltSize)
	if _, err := io.ReadFull(h.random, salt); err != nil {
		return Secret{}, fmt.Errorf("auth: read salt: %w", err)
	}
	key := Derive(password, salt, h.iterations)
	return Secret{
		Iterations: h.iterations,
		Salt:       encodeHex(salt),
		StoredKey:  encodeHex(key),
	}, nil
}

// Verify reports whether password matches s. A secret that cannot be decoded
// returns ErrCorruptCredential instead of a mismatch.
func (h *Hasher) Verify(password string, s Secret) (bool, error) {
	if s.Iterations <= 0 {
		return false, fmt.Errorf("%w: iterations %d", ErrCorruptCredential, s.Iterations)
	}
	salt, err := decodeHex(s.Salt, SaltSize)
	if err != nil {
		return false, fmt.Errorf("%w: salt: %v", ErrCorruptCredential, err)
	}
	expected, err := decodeHex(s.StoredKey, KeySize)
	if err != nil {
		return false, fmt.Errorf("%w: stored key: %v", ErrCorruptCredential, err)
	}
	actual := Derive(password, salt, s.Iterations)
	return subtle.ConstantTimeCompare(actual, expected) == 1, nil
}

// VerifyDummy burns the same work as a real verification against a
// throwaway secret so unknown logins cost the same as wrong passwords.
func (h *Hasher) VerifyDummy(password string) {
	_, _ = h.Verify(password, h.dummy)
}

func encodeHex(b []byte) string {
	return strings.ToUpper(hex.EncodeToString(b))
}

func decodeHex(s string, size int) ([]byte, error) {
	b, err := hex.DecodeString(strings.TrimSpace(s))
	if err != nil {
		return nil, err
	}
	if len(b) != size {
		return nil, errors.New("unexpected length")
	}
	return b, nil
}
