package crypto

import (
	"bytes"
	"encoding/base64"
	"errors"
	"testing"
)

func mustSalt(t *testing.T) []byte {
	t.Helper()
	salt, err := GenerateSalt()
	if err != nil {
		t.Fatalf("GenerateSalt failed: %v", err)
	}
	return salt
}

func TestGenerateSizes(t *testing.T) {
	salt := mustSalt(t)
	if len(salt) != SaltSize {
		t.Errorf("salt length: got %d, want %d", len(salt), SaltSize)
	}

	nonce, err := GenerateNonce()
	if err != nil {
		t.Fatalf("GenerateNonce failed: %v", err)
	}
	if len(nonce) != IvSize {
		t.Errorf("nonce length: got %d, want %d", len(nonce), IvSize)
	}
}

func TestGenerateUniqueness(t *testing.T) {
	seen := make(map[string]bool, 1000)
	for i := 0; i < 1000; i++ {
		salt := mustSalt(t)
		if seen[string(salt)] {
			t.Fatalf("duplicate salt after %d draws", i)
		}
		seen[string(salt)] = true
	}

	seen = make(map[string]bool, 1000)
	for i := 0; i < 1000; i++ {
		nonce, err := GenerateNonce()
		if err != nil {
			t.Fatalf("GenerateNonce failed: %v", err)
		}
		if seen[string(nonce)] {
			t.Fatalf("duplicate nonce after %d draws", i)
		}
		seen[string(nonce)] = true
	}
}

func TestDeriveKeyDeterministic(t *testing.T) {
	password := []byte("test123")
	salt := mustSalt(t)

	k1, err := DeriveKey(password, salt)
	if err != nil {
		t.Fatalf("DeriveKey failed: %v", err)
	}
	k2, err := DeriveKey(password, salt)
	if err != nil {
		t.Fatalf("DeriveKey failed: %v", err)
	}

	if len(k1) != KeySize {
		t.Errorf("key length: got %d, want %d", len(k1), KeySize)
	}
	if !bytes.Equal(k1, k2) {
		t.Error("expected deterministic key derivation")
	}
}

func TestDeriveKeySensitivity(t *testing.T) {
	salt := mustSalt(t)

	k1, err := DeriveKey([]byte("password-one"), salt)
	if err != nil {
		t.Fatalf("DeriveKey failed: %v", err)
	}
	k2, err := DeriveKey([]byte("password-two"), salt)
	if err != nil {
		t.Fatalf("DeriveKey failed: %v", err)
	}
	if bytes.Equal(k1, k2) {
		t.Error("expected different keys for different passwords")
	}

	otherSalt := mustSalt(t)
	k3, err := DeriveKey([]byte("password-one"), otherSalt)
	if err != nil {
		t.Fatalf("DeriveKey failed: %v", err)
	}
	if bytes.Equal(k1, k3) {
		t.Error("expected different keys for different salts")
	}
}

func TestDeriveKeyInvalidInput(t *testing.T) {
	salt := mustSalt(t)

	if _, err := DeriveKey(nil, salt); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("nil password: expected ErrInvalidArgument, got %v", err)
	}
	if _, err := DeriveKey([]byte{}, salt); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("empty password: expected ErrInvalidArgument, got %v", err)
	}
	if _, err := DeriveKey([]byte("pw"), nil); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("nil salt: expected ErrInvalidArgument, got %v", err)
	}
	if _, err := DeriveKey([]byte("pw"), salt[:SaltSize-1]); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("short salt: expected ErrInvalidArgument, got %v", err)
	}
}

func TestKeyVerifierSeparation(t *testing.T) {
	password := []byte("test123")
	salt := mustSalt(t)

	key, err := DeriveKey(password, salt)
	if err != nil {
		t.Fatalf("DeriveKey failed: %v", err)
	}
	hash, err := ComputePasswordHash(password, salt)
	if err != nil {
		t.Fatalf("ComputePasswordHash failed: %v", err)
	}

	if len(hash) != HashSize {
		t.Errorf("hash length: got %d, want %d", len(hash), HashSize)
	}
	if bytes.Equal(key, hash) {
		t.Error("verifier hash must not equal the encryption key")
	}
}

func TestVerifyPassword(t *testing.T) {
	password := []byte("Secret1")
	salt := mustSalt(t)

	hash, err := ComputePasswordHash(password, salt)
	if err != nil {
		t.Fatalf("ComputePasswordHash failed: %v", err)
	}

	ok, err := VerifyPassword(password, hash, salt)
	if err != nil {
		t.Fatalf("VerifyPassword failed: %v", err)
	}
	if !ok {
		t.Error("correct password should verify")
	}

	// Case-sensitive
	ok, err = VerifyPassword([]byte("secret1"), hash, salt)
	if err != nil {
		t.Fatalf("VerifyPassword failed: %v", err)
	}
	if ok {
		t.Error("password verification must be case-sensitive")
	}

	ok, err = VerifyPassword([]byte("wrong"), hash, salt)
	if err != nil {
		t.Fatalf("VerifyPassword failed: %v", err)
	}
	if ok {
		t.Error("wrong password should not verify")
	}

	if _, err := VerifyPassword(password, nil, salt); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("nil hash: expected ErrInvalidArgument, got %v", err)
	}
}

func TestBase64RoundTrip(t *testing.T) {
	password := []byte("test123")
	salt := mustSalt(t)
	saltB64 := base64.StdEncoding.EncodeToString(salt)

	keyB64, err := DeriveKeyBase64(password, saltB64)
	if err != nil {
		t.Fatalf("DeriveKeyBase64 failed: %v", err)
	}
	key, err := DeriveKey(password, salt)
	if err != nil {
		t.Fatalf("DeriveKey failed: %v", err)
	}
	decoded, err := base64.StdEncoding.DecodeString(keyB64)
	if err != nil {
		t.Fatalf("key is not valid base64: %v", err)
	}
	if !bytes.Equal(decoded, key) {
		t.Error("base64 variant must produce the same key bytes")
	}

	hashB64, err := ComputePasswordHashBase64(password, saltB64)
	if err != nil {
		t.Fatalf("ComputePasswordHashBase64 failed: %v", err)
	}
	ok, err := VerifyPasswordBase64(password, hashB64, saltB64)
	if err != nil {
		t.Fatalf("VerifyPasswordBase64 failed: %v", err)
	}
	if !ok {
		t.Error("base64 verify should succeed for the correct password")
	}

	// Malformed base64
	if _, err := DeriveKeyBase64(password, "!!not-base64!!"); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("malformed salt: expected ErrInvalidArgument, got %v", err)
	}
	if _, err := VerifyPasswordBase64(password, "!!not-base64!!", saltB64); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("malformed hash: expected ErrInvalidArgument, got %v", err)
	}
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	key, err := DeriveKey([]byte("test123"), mustSalt(t))
	if err != nil {
		t.Fatalf("DeriveKey failed: %v", err)
	}
	nonce, err := GenerateNonce()
	if err != nil {
		t.Fatalf("GenerateNonce failed: %v", err)
	}

	plaintext := []byte("the books are balanced")
	additionalData := []byte("header-v1")

	ciphertext, tag, err := Encrypt(plaintext, key, nonce, additionalData)
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}
	if len(tag) != TagSize {
		t.Errorf("tag length: got %d, want %d", len(tag), TagSize)
	}
	if bytes.Equal(ciphertext, plaintext) {
		t.Error("ciphertext must differ from plaintext")
	}

	decrypted, err := Decrypt(ciphertext, tag, key, nonce, additionalData)
	if err != nil {
		t.Fatalf("Decrypt failed: %v", err)
	}
	if !bytes.Equal(decrypted, plaintext) {
		t.Errorf("round trip mismatch: got %q, want %q", decrypted, plaintext)
	}
}

func TestDecryptFailures(t *testing.T) {
	key, err := DeriveKey([]byte("test123"), mustSalt(t))
	if err != nil {
		t.Fatalf("DeriveKey failed: %v", err)
	}
	nonce, err := GenerateNonce()
	if err != nil {
		t.Fatalf("GenerateNonce failed: %v", err)
	}

	plaintext := []byte("sensitive payload")
	ciphertext, tag, err := Encrypt(plaintext, key, nonce, []byte("aad"))
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}

	// Tampered ciphertext
	tampered := append([]byte(nil), ciphertext...)
	tampered[0] ^= 0x01
	if _, err := Decrypt(tampered, tag, key, nonce, []byte("aad")); !errors.Is(err, ErrAuthFailed) {
		t.Errorf("tampered ciphertext: expected ErrAuthFailed, got %v", err)
	}

	// Tampered tag
	badTag := append([]byte(nil), tag...)
	badTag[0] ^= 0x01
	if _, err := Decrypt(ciphertext, badTag, key, nonce, []byte("aad")); !errors.Is(err, ErrAuthFailed) {
		t.Errorf("tampered tag: expected ErrAuthFailed, got %v", err)
	}

	// Wrong additional data
	if _, err := Decrypt(ciphertext, tag, key, nonce, []byte("other")); !errors.Is(err, ErrAuthFailed) {
		t.Errorf("wrong additional data: expected ErrAuthFailed, got %v", err)
	}

	// Wrong key
	otherKey, err := DeriveKey([]byte("other-password"), mustSalt(t))
	if err != nil {
		t.Fatalf("DeriveKey failed: %v", err)
	}
	if _, err := Decrypt(ciphertext, tag, otherKey, nonce, []byte("aad")); !errors.Is(err, ErrAuthFailed) {
		t.Errorf("wrong key: expected ErrAuthFailed, got %v", err)
	}

	// Bad lengths are caller bugs, not authentication failures
	if _, err := Decrypt(ciphertext, tag, key[:KeySize-1], nonce, []byte("aad")); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("short key: expected ErrInvalidArgument, got %v", err)
	}
	if _, err := Decrypt(ciphertext, tag[:TagSize-1], key, nonce, []byte("aad")); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("short tag: expected ErrInvalidArgument, got %v", err)
	}
}

func TestClearBytes(t *testing.T) {
	data := []byte("sensitive")
	ClearBytes(data)
	for i, b := range data {
		if b != 0 {
			t.Fatalf("byte %d not cleared", i)
		}
	}
}
