// Package container implements the on-disk envelope that protects the
// ledgerfile payload.
//
// Byte layout (all integers big-endian):
//
//	magic      4 bytes  "LDGR"
//	version    1 byte
//	salt       32 bytes
//	nonce      12 bytes
//	verifier   32 bytes  password hash, derived independently from the key
//	cipherLen  4 bytes
//	ciphertext cipherLen bytes
//	tag        16 bytes
//
// The magic and version are bound to the authentication tag as additional
// data, so tampering with them invalidates the container even though they
// are stored in the clear.
package container
