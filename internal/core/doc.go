// Package core provides the main ledgerfile operations.
//
// Core operations include:
//   - Init: create a new ledger with password-protected empty books
//   - Load/Save/Update: decrypt, modify and re-protect the books
//   - ChangePassword: re-encrypt the ledger under a new password
//   - Backup/Restore: export and reinstall the encrypted container
//   - Diff: compare current books against a backup
//   - Status: ledger overview without a password
//
// Key derivation is deliberately CPU-bound; Load, Save, ChangePassword and
// friends can take hundreds of milliseconds and should not be called from
// latency-sensitive paths. All operations are stateless and safe to run
// concurrently on different ledger files.
package core
