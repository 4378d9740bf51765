// Package crypto provides the cryptographic primitives for ledgerfile.
//
// Encryption uses AES-256-GCM with:
//   - 32-byte key derived from password via PBKDF2
//   - 12-byte random nonce per encryption operation
//   - 16-byte authentication tag, optionally binding additional data
//
// Key derivation uses PBKDF2-HMAC-SHA256 with:
//   - 32-byte random salt (stored unencrypted)
//   - 210,000 iterations (OWASP minimum recommendation)
//   - distinct context labels for the encryption key and the password
//     verifier, so the stored verifier reveals nothing about the key
//
// Memory safety:
//   - Use ClearBytes() to zero sensitive data after use
package crypto
