package container

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/ledgerfile/ledgerfile/internal/crypto"
)

// Version is the current container format version
const Version = 1

// magic identifies a ledgerfile container
var magic = []byte("LDGR")

const (
	magicSize     = 4
	versionOffset = magicSize
	saltOffset    = versionOffset + 1
	nonceOffset   = saltOffset + crypto.SaltSize
	hashOffset    = nonceOffset + crypto.IvSize
	lenOffset     = hashOffset + crypto.HashSize
	headerSize    = lenOffset + 4
	minSize       = headerSize + crypto.TagSize
)

var (
	ErrMalformed          = errors.New("malformed container")
	ErrVersionUnsupported = errors.New("unsupported container version")
	ErrWrongPassword      = errors.New("wrong password")
)

// Header holds the fixed-size fields of a container, parsed without a password
type Header struct {
	Version    byte
	Salt       []byte
	Nonce      []byte
	Verifier   []byte
	CipherSize int
}

// Protect encrypts plaintext under the password and serializes the result
// into a container. Every call generates a fresh salt and nonce.
func Protect(plaintext, password []byte) ([]byte, error) {
	salt, err := crypto.GenerateSalt()
	if err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}
	nonce, err := crypto.GenerateNonce()
	if err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	key, err := crypto.DeriveKey(password, salt)
	if err != nil {
		return nil, err
	}
	defer crypto.ClearBytes(key)

	verifier, err := crypto.ComputePasswordHash(password, salt)
	if err != nil {
		return nil, err
	}

	ciphertext, tag, err := crypto.Encrypt(plaintext, key, nonce, additionalData())
	if err != nil {
		return nil, err
	}

	out := make([]byte, 0, headerSize+len(ciphertext)+crypto.TagSize)
	out = append(out, magic...)
	out = append(out, Version)
	out = append(out, salt...)
	out = append(out, nonce...)
	out = append(out, verifier...)
	out = binary.BigEndian.AppendUint32(out, uint32(len(ciphertext)))
	out = append(out, ciphertext...)
	out = append(out, tag...)

	return out, nil
}

// Unprotect parses a container and decrypts its payload with the password.
//
// Errors distinguish three states the caller cares about: ErrMalformed /
// ErrVersionUnsupported (not a usable container), ErrWrongPassword (verifier
// mismatch, prompt again), and crypto.ErrAuthFailed (verifier passed but the
// data fails authentication, i.e. corrupted or tampered). Plaintext is never
// released without the tag validating.
func Unprotect(data, password []byte) ([]byte, error) {
	hdr, ciphertext, tag, err := parse(data)
	if err != nil {
		return nil, err
	}

	key, err := crypto.DeriveKey(password, hdr.Salt)
	if err != nil {
		return nil, err
	}
	defer crypto.ClearBytes(key)

	ok, err := crypto.VerifyPassword(password, hdr.Verifier, hdr.Salt)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrWrongPassword
	}

	return crypto.Decrypt(ciphertext, tag, key, hdr.Nonce, additionalData())
}

// ChangePassword re-protects the payload under a new password. The returned
// container carries a fresh salt and nonce; the old ones are never reused.
func ChangePassword(data, oldPassword, newPassword []byte) ([]byte, error) {
	plaintext, err := Unprotect(data, oldPassword)
	if err != nil {
		return nil, err
	}
	defer crypto.ClearBytes(plaintext)

	return Protect(plaintext, newPassword)
}

// CheckPassword verifies the password against the container's stored
// verifier without attempting decryption. Returns ErrWrongPassword on
// mismatch.
func CheckPassword(data, password []byte) error {
	hdr, _, _, err := parse(data)
	if err != nil {
		return err
	}
	ok, err := crypto.VerifyPassword(password, hdr.Verifier, hdr.Salt)
	if err != nil {
		return err
	}
	if !ok {
		return ErrWrongPassword
	}
	return nil
}

// Inspect parses the fixed-size container fields without a password
func Inspect(data []byte) (*Header, error) {
	hdr, _, _, err := parse(data)
	if err != nil {
		return nil, err
	}
	return hdr, nil
}

func parse(data []byte) (*Header, []byte, []byte, error) {
	if len(data) < minSize {
		return nil, nil, nil, fmt.Errorf("%w: %d bytes is below minimum size", ErrMalformed, len(data))
	}
	if !crypto.ConstantTimeCompare(data[:magicSize], magic) {
		return nil, nil, nil, fmt.Errorf("%w: bad magic", ErrMalformed)
	}
	version := data[versionOffset]
	if version != Version {
		return nil, nil, nil, fmt.Errorf("%w: version %d", ErrVersionUnsupported, version)
	}

	cipherLen := binary.BigEndian.Uint32(data[lenOffset:headerSize])
	if int(cipherLen) != len(data)-headerSize-crypto.TagSize {
		return nil, nil, nil, fmt.Errorf("%w: ciphertext length mismatch", ErrMalformed)
	}

	hdr := &Header{
		Version:    version,
		Salt:       append([]byte(nil), data[saltOffset:nonceOffset]...),
		Nonce:      append([]byte(nil), data[nonceOffset:hashOffset]...),
		Verifier:   append([]byte(nil), data[hashOffset:lenOffset]...),
		CipherSize: int(cipherLen),
	}

	ciphertext := data[headerSize : headerSize+int(cipherLen)]
	tag := data[headerSize+int(cipherLen):]

	return hdr, ciphertext, tag, nil
}

// additionalData binds the non-secret header identity to the tag, so
// tampering with magic or version is detected at decryption time too
func additionalData() []byte {
	ad := make([]byte, 0, magicSize+1)
	ad = append(ad, magic...)
	ad = append(ad, Version)
	return ad
}
