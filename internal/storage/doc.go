// Package storage provides the BBolt database interface for ledgerfile.
//
// Database structure uses three buckets:
//   - config: format version, timestamps, ledger ID (unencrypted)
//   - vault: the encrypted container envelope holding the books
//   - index: record-count summary (unencrypted, for status)
//
// The unencrypted index bucket enables ledgerfile status to work without
// requiring a password, improving UX for common operations.
//
// BBolt provides ACID transactions, file locking, and corruption detection;
// replacing the container after a save or password change is a single
// transaction and therefore atomic.
package storage
