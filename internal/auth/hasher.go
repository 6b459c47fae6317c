package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"

	"golang.org/x/crypto/argon2"
)

// Hasher derives and verifies salted one-way password hashes. The salt is
// stored per user alongside the hash, never inside it.
type Hasher interface {
	// GenerateSalt returns a new random salt, encoded for storage.
	GenerateSalt() (string, error)

	// Hash returns the encoded hash of password under the given salt.
	Hash(password, salt string) (string, error)

	// Verify reports whether password hashed under salt matches the stored
	// hash. The comparison is constant-time.
	Verify(password, salt, hash string) bool
}

// Argon2Hasher implements Hasher using argon2id.
// Defaults follow OWASP recommendations: time=1, memory=64MB, threads=4.
type Argon2Hasher struct {
	time    uint32
	memory  uint32
	threads uint8
	keyLen  uint32
	saltLen int
}

// Argon2Option configures the argon2id hasher.
type Argon2Option func(*Argon2Hasher)

// WithArgon2Time sets the number of iterations (default: 1).
func WithArgon2Time(t uint32) Argon2Option {
	return func(h *Argon2Hasher) { h.time = t }
}

// WithArgon2Memory sets the memory usage in KiB (default: 64*1024 = 64MB).
func WithArgon2Memory(m uint32) Argon2Option {
	return func(h *Argon2Hasher) { h.memory = m }
}

// WithArgon2Threads sets the parallelism (default: 4).
func WithArgon2Threads(t uint8) Argon2Option {
	return func(h *Argon2Hasher) { h.threads = t }
}

// NewArgon2Hasher creates an argon2id-based password hasher.
func NewArgon2Hasher(opts ...Argon2Option) *Argon2Hasher {
	h := &Argon2Hasher{
		time:    1,
		memory:  64 * 1024,
		threads: 4,
		keyLen:  32,
		saltLen: 16,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// GenerateSalt returns a base64-encoded random salt of the configured length.
func (h *Argon2Hasher) GenerateSalt() (string, error) {
	salt := make([]byte, h.saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("auth: generate salt: %w", err)
	}
	return base64.RawStdEncoding.EncodeToString(salt), nil
}

// Hash derives the argon2id key of password under the decoded salt.
func (h *Argon2Hasher) Hash(password, salt string) (string, error) {
	rawSalt, err := base64.RawStdEncoding.DecodeString(salt)
	if err != nil {
		return "", fmt.Errorf("auth: decode salt: %w", err)
	}
	key := argon2.IDKey([]byte(password), rawSalt, h.time, h.memory, h.threads, h.keyLen)
	return base64.RawStdEncoding.EncodeToString(key), nil
}

// Verify re-derives the hash and compares in constant time.
func (h *Argon2Hasher) Verify(password, salt, hash string) bool {
	expected, err := base64.RawStdEncoding.DecodeString(hash)
	if err != nil {
		return false
	}
	rawSalt, err := base64.RawStdEncoding.DecodeString(salt)
	if err != nil {
		return false
	}
	key := argon2.IDKey([]byte(password), rawSalt, h.time, h.memory, h.threads, uint32(len(expected)))
	return subtle.ConstantTimeCompare(key, expected) == 1
}
