package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

const (
	Iterations = 210000 // PBKDF2 iterations (OWASP minimum)
	SaltSize   = 32     // Salt size in bytes
	KeySize    = 32     // AES-256 key size
	IvSize     = 12     // GCM nonce size
	TagSize    = 16     // GCM authentication tag size
	HashSize   = 32     // Password verifier size
)

var (
	ErrInvalidArgument       = errors.New("invalid argument")
	ErrRandomnessUnavailable = errors.New("randomness unavailable")
	ErrAuthFailed            = errors.New("authentication failed")
)

// Domain separation labels mixed into the salt, so the stored password
// verifier can never be used to reconstruct the encryption key.
var (
	keyContext      = []byte("ledgerfile.key")
	verifierContext = []byte("ledgerfile.verifier")
)

// GenerateSalt returns SaltSize cryptographically random bytes
func GenerateSalt() ([]byte, error) {
	return generateRandom(SaltSize)
}

// GenerateNonce returns IvSize cryptographically random bytes.
// A fresh nonce must be generated for every encryption; the same
// (key, nonce) pair must never encrypt two different plaintexts.
func GenerateNonce() ([]byte, error) {
	return generateRandom(IvSize)
}

func generateRandom(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRandomnessUnavailable, err)
	}
	return b, nil
}

// derive runs PBKDF2-HMAC-SHA256 over the password with the context label
// appended to the salt
func derive(password, salt, context []byte, size int) []byte {
	salted := make([]byte, 0, len(salt)+len(context))
	salted = append(salted, salt...)
	salted = append(salted, context...)
	key := pbkdf2.Key(password, salted, Iterations, size, sha256.New)
	ClearBytes(salted)
	return key
}

// DeriveKey derives the encryption key from a password and salt.
// Deterministic: the same (password, salt) always yields the same key.
func DeriveKey(password, salt []byte) ([]byte, error) {
	if len(password) == 0 {
		return nil, fmt.Errorf("%w: empty password", ErrInvalidArgument)
	}
	if len(salt) < SaltSize {
		return nil, fmt.Errorf("%w: salt must be at least %d bytes", ErrInvalidArgument, SaltSize)
	}
	return derive(password, salt, keyContext, KeySize), nil
}

// ComputePasswordHash derives the password verifier from a password and
// salt. Same construction as DeriveKey under a distinct context label.
func ComputePasswordHash(password, salt []byte) ([]byte, error) {
	if len(password) == 0 {
		return nil, fmt.Errorf("%w: empty password", ErrInvalidArgument)
	}
	if len(salt) < SaltSize {
		return nil, fmt.Errorf("%w: salt must be at least %d bytes", ErrInvalidArgument, SaltSize)
	}
	return derive(password, salt, verifierContext, HashSize), nil
}

// VerifyPassword recomputes the verifier and compares it to storedHash in
// constant time. A mismatch returns (false, nil), never an error.
func VerifyPassword(password, storedHash, salt []byte) (bool, error) {
	if len(storedHash) == 0 {
		return false, fmt.Errorf("%w: empty stored hash", ErrInvalidArgument)
	}
	computed, err := ComputePasswordHash(password, salt)
	if err != nil {
		return false, err
	}
	defer ClearBytes(computed)
	return ConstantTimeCompare(computed, storedHash), nil
}

// DeriveKeyBase64 is DeriveKey with a base64 salt and base64 key output
func DeriveKeyBase64(password []byte, saltB64 string) (string, error) {
	salt, err := base64.StdEncoding.DecodeString(saltB64)
	if err != nil {
		return "", fmt.Errorf("%w: malformed base64 salt", ErrInvalidArgument)
	}
	key, err := DeriveKey(password, salt)
	if err != nil {
		return "", err
	}
	defer ClearBytes(key)
	return base64.StdEncoding.EncodeToString(key), nil
}

// ComputePasswordHashBase64 is ComputePasswordHash with base64 in and out
func ComputePasswordHashBase64(password []byte, saltB64 string) (string, error) {
	salt, err := base64.StdEncoding.DecodeString(saltB64)
	if err != nil {
		return "", fmt.Errorf("%w: malformed base64 salt", ErrInvalidArgument)
	}
	hash, err := ComputePasswordHash(password, salt)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(hash), nil
}

// VerifyPasswordBase64 is VerifyPassword with a base64 hash and salt
func VerifyPasswordBase64(password []byte, storedHashB64, saltB64 string) (bool, error) {
	storedHash, err := base64.StdEncoding.DecodeString(storedHashB64)
	if err != nil {
		return false, fmt.Errorf("%w: malformed base64 hash", ErrInvalidArgument)
	}
	salt, err := base64.StdEncoding.DecodeString(saltB64)
	if err != nil {
		return false, fmt.Errorf("%w: malformed base64 salt", ErrInvalidArgument)
	}
	return VerifyPassword(password, storedHash, salt)
}

// Encrypt encrypts plaintext using AES-256-GCM, returning the ciphertext
// and authentication tag separately. additionalData is authenticated but
// not encrypted and may be nil.
func Encrypt(plaintext, key, nonce, additionalData []byte) ([]byte, []byte, error) {
	if len(key) != KeySize {
		return nil, nil, fmt.Errorf("%w: key must be %d bytes", ErrInvalidArgument, KeySize)
	}
	if len(nonce) != IvSize {
		return nil, nil, fmt.Errorf("%w: nonce must be %d bytes", ErrInvalidArgument, IvSize)
	}

	gcm, err := newGCM(key)
	if err != nil {
		return nil, nil, err
	}

	sealed := gcm.Seal(nil, nonce, plaintext, additionalData)

	// GCM appends the tag to the ciphertext
	split := len(sealed) - TagSize
	return sealed[:split], sealed[split:], nil
}

// Decrypt decrypts ciphertext using AES-256-GCM, verifying the tag against
// (ciphertext, key, nonce, additionalData). Any mismatch fails with
// ErrAuthFailed; wrong key, tampered data and wrong additional data are
// deliberately indistinguishable.
func Decrypt(ciphertext, tag, key, nonce, additionalData []byte) ([]byte, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("%w: key must be %d bytes", ErrInvalidArgument, KeySize)
	}
	if len(nonce) != IvSize {
		return nil, fmt.Errorf("%w: nonce must be %d bytes", ErrInvalidArgument, IvSize)
	}
	if len(tag) != TagSize {
		return nil, fmt.Errorf("%w: tag must be %d bytes", ErrInvalidArgument, TagSize)
	}

	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	sealed := make([]byte, 0, len(ciphertext)+len(tag))
	sealed = append(sealed, ciphertext...)
	sealed = append(sealed, tag...)

	plaintext, err := gcm.Open(nil, nonce, sealed, additionalData)
	if err != nil {
		return nil, ErrAuthFailed
	}

	return plaintext, nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}
	return gcm, nil
}

// ClearBytes securely clears a byte slice
func ClearBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// ConstantTimeCompare performs a constant-time comparison of two byte slices
func ConstantTimeCompare(a, b []byte) bool {
	return subtle.ConstantTimeCompare(a, b) == 1
}
