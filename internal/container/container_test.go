package container

import (
	"bytes"
	"errors"
	"testing"

	"github.com/ledgerfile/ledgerfile/internal/crypto"
)

func TestProtectUnprotectRoundTrip(t *testing.T) {
	payloads := [][]byte{
		[]byte("{}"),
		[]byte(`{"customers":[{"name":"Ada"}]}`),
		{0x00, 0xff, 0x10, 0x80}, // binary payload
		bytes.Repeat([]byte("invoice "), 1024),
	}
	password := []byte("test123")

	for _, payload := range payloads {
		data, err := Protect(payload, password)
		if err != nil {
			t.Fatalf("Protect failed: %v", err)
		}

		plaintext, err := Unprotect(data, password)
		if err != nil {
			t.Fatalf("Unprotect failed: %v", err)
		}
		if !bytes.Equal(plaintext, payload) {
			t.Errorf("round trip mismatch for %d-byte payload", len(payload))
		}
	}
}

func TestFreshSaltAndNoncePerProtect(t *testing.T) {
	password := []byte("test123")
	payload := []byte("same payload")

	c1, err := Protect(payload, password)
	if err != nil {
		t.Fatalf("Protect failed: %v", err)
	}
	c2, err := Protect(payload, password)
	if err != nil {
		t.Fatalf("Protect failed: %v", err)
	}

	h1, err := Inspect(c1)
	if err != nil {
		t.Fatalf("Inspect failed: %v", err)
	}
	h2, err := Inspect(c2)
	if err != nil {
		t.Fatalf("Inspect failed: %v", err)
	}

	if bytes.Equal(h1.Salt, h2.Salt) {
		t.Error("two Protect calls must not share a salt")
	}
	if bytes.Equal(h1.Nonce, h2.Nonce) {
		t.Error("two Protect calls must not share a nonce")
	}
}

func TestWrongPassword(t *testing.T) {
	data, err := Protect([]byte("books"), []byte("Tr0ub4dor&3"))
	if err != nil {
		t.Fatalf("Protect failed: %v", err)
	}

	if _, err := Unprotect(data, []byte("wrong-password")); !errors.Is(err, ErrWrongPassword) {
		t.Errorf("expected ErrWrongPassword, got %v", err)
	}

	if err := CheckPassword(data, []byte("wrong-password")); !errors.Is(err, ErrWrongPassword) {
		t.Errorf("CheckPassword: expected ErrWrongPassword, got %v", err)
	}
	if err := CheckPassword(data, []byte("Tr0ub4dor&3")); err != nil {
		t.Errorf("CheckPassword with correct password failed: %v", err)
	}
}

func TestTamperDetection(t *testing.T) {
	password := []byte("test123")
	data, err := Protect([]byte("ledger payload"), password)
	if err != nil {
		t.Fatalf("Protect failed: %v", err)
	}

	// One flipped bit per region. Whatever the region, Unprotect must fail
	// with a recognized error and never return plaintext silently.
	regions := []struct {
		name   string
		offset int
	}{
		{"magic", 0},
		{"version", versionOffset},
		{"salt", saltOffset},
		{"nonce", nonceOffset},
		{"verifier", hashOffset},
		{"cipherLen", lenOffset},
		{"ciphertext", headerSize},
		{"tag", len(data) - 1},
	}

	for _, region := range regions {
		tampered := append([]byte(nil), data...)
		tampered[region.offset] ^= 0x01

		plaintext, err := Unprotect(tampered, password)
		if err == nil {
			t.Errorf("%s: tampering went undetected", region.name)
			continue
		}
		if plaintext != nil {
			t.Errorf("%s: plaintext returned alongside error", region.name)
		}
		if !errors.Is(err, ErrWrongPassword) && !errors.Is(err, crypto.ErrAuthFailed) &&
			!errors.Is(err, ErrMalformed) && !errors.Is(err, ErrVersionUnsupported) {
			t.Errorf("%s: unexpected error kind: %v", region.name, err)
		}
	}
}

func TestMalformedContainer(t *testing.T) {
	if _, err := Unprotect(nil, []byte("pw")); !errors.Is(err, ErrMalformed) {
		t.Errorf("nil data: expected ErrMalformed, got %v", err)
	}
	if _, err := Unprotect([]byte("short"), []byte("pw")); !errors.Is(err, ErrMalformed) {
		t.Errorf("short data: expected ErrMalformed, got %v", err)
	}

	data, err := Protect([]byte("payload"), []byte("pw"))
	if err != nil {
		t.Fatalf("Protect failed: %v", err)
	}

	// Unknown magic
	bad := append([]byte(nil), data...)
	copy(bad, []byte("XXXX"))
	if _, err := Unprotect(bad, []byte("pw")); !errors.Is(err, ErrMalformed) {
		t.Errorf("bad magic: expected ErrMalformed, got %v", err)
	}

	// Future version
	bad = append([]byte(nil), data...)
	bad[versionOffset] = 99
	if _, err := Unprotect(bad, []byte("pw")); !errors.Is(err, ErrVersionUnsupported) {
		t.Errorf("future version: expected ErrVersionUnsupported, got %v", err)
	}

	// Truncated ciphertext
	if _, err := Unprotect(data[:len(data)-8], []byte("pw")); !errors.Is(err, ErrMalformed) {
		t.Errorf("truncated data: expected ErrMalformed, got %v", err)
	}
}

func TestChangePassword(t *testing.T) {
	oldPassword := []byte("old-password")
	newPassword := []byte("new-password")
	payload := []byte(`{"invoices":[]}`)

	original, err := Protect(payload, oldPassword)
	if err != nil {
		t.Fatalf("Protect failed: %v", err)
	}

	changed, err := ChangePassword(original, oldPassword, newPassword)
	if err != nil {
		t.Fatalf("ChangePassword failed: %v", err)
	}

	// New password opens it, old does not
	plaintext, err := Unprotect(changed, newPassword)
	if err != nil {
		t.Fatalf("Unprotect with new password failed: %v", err)
	}
	if !bytes.Equal(plaintext, payload) {
		t.Error("payload lost across password change")
	}
	if _, err := Unprotect(changed, oldPassword); !errors.Is(err, ErrWrongPassword) {
		t.Errorf("old password: expected ErrWrongPassword, got %v", err)
	}

	// Salt and nonce must rotate
	oldHdr, err := Inspect(original)
	if err != nil {
		t.Fatalf("Inspect failed: %v", err)
	}
	newHdr, err := Inspect(changed)
	if err != nil {
		t.Fatalf("Inspect failed: %v", err)
	}
	if bytes.Equal(oldHdr.Salt, newHdr.Salt) {
		t.Error("salt not rotated on password change")
	}
	if bytes.Equal(oldHdr.Nonce, newHdr.Nonce) {
		t.Error("nonce not rotated on password change")
	}

	// Wrong current password
	if _, err := ChangePassword(original, []byte("nope"), newPassword); !errors.Is(err, ErrWrongPassword) {
		t.Errorf("expected ErrWrongPassword, got %v", err)
	}
}

func TestInspect(t *testing.T) {
	payload := []byte("0123456789")
	data, err := Protect(payload, []byte("pw"))
	if err != nil {
		t.Fatalf("Protect failed: %v", err)
	}

	hdr, err := Inspect(data)
	if err != nil {
		t.Fatalf("Inspect failed: %v", err)
	}
	if hdr.Version != Version {
		t.Errorf("version: got %d, want %d", hdr.Version, Version)
	}
	if len(hdr.Salt) != crypto.SaltSize {
		t.Errorf("salt length: got %d, want %d", len(hdr.Salt), crypto.SaltSize)
	}
	if len(hdr.Nonce) != crypto.IvSize {
		t.Errorf("nonce length: got %d, want %d", len(hdr.Nonce), crypto.IvSize)
	}
	if len(hdr.Verifier) != crypto.HashSize {
		t.Errorf("verifier length: got %d, want %d", len(hdr.Verifier), crypto.HashSize)
	}
	if hdr.CipherSize != len(payload) {
		t.Errorf("cipher size: got %d, want %d", hdr.CipherSize, len(payload))
	}
}
