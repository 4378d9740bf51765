package core

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ledgerfile/ledgerfile/internal/container"
	"github.com/ledgerfile/ledgerfile/internal/crypto"
	"github.com/ledgerfile/ledgerfile/internal/model"
	"github.com/ledgerfile/ledgerfile/internal/storage"
)

const (
	LedgerFile     = ".ledger"
	FilePermSecure = 0600 // File: owner rw only
)

var (
	ErrNotInitialized   = errors.New("ledger not initialized")
	ErrAlreadyExists    = errors.New("ledger already exists")
	ErrPasswordRequired = errors.New("password required")

	// ErrWrongPassword is the container's verifier mismatch surfaced to
	// callers; the persistence layer should prompt for the password again.
	ErrWrongPassword = container.ErrWrongPassword
)

// Ledger manages the encrypted business books stored in a single file
type Ledger struct {
	path string
}

// New creates a Ledger instance rooted at the given directory
func New(path string) *Ledger {
	return &Ledger{path: filepath.Join(path, LedgerFile)}
}

// Path returns the ledger file path
func (l *Ledger) Path() string {
	return l.path
}

func (l *Ledger) open() (*storage.Storage, error) {
	if _, err := os.Stat(l.path); err != nil {
		return nil, ErrNotInitialized
	}
	db, err := storage.Open(l.path)
	if err != nil {
		return nil, ErrNotInitialized
	}
	return db, nil
}

// Init creates a new ledger file holding empty, password-protected books
func (l *Ledger) Init(password []byte) error {
	if _, err := os.Stat(l.path); err == nil {
		return ErrAlreadyExists
	}
	if len(password) == 0 {
		return ErrPasswordRequired
	}

	db, err := storage.Open(l.path)
	if err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}
	defer db.Close()

	if err := db.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	books := model.NewBooks()
	if err := writeBooks(db, books, password); err != nil {
		return err
	}

	if _, err := db.GetOrCreateLedgerID(); err != nil {
		return fmt.Errorf("failed to create ledger ID: %w", err)
	}

	return nil
}

// Load decrypts and returns the current books
func (l *Ledger) Load(ctx context.Context, password []byte) (*model.Books, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(password) == 0 {
		return nil, ErrPasswordRequired
	}

	db, err := l.open()
	if err != nil {
		return nil, err
	}
	defer db.Close()

	return readBooks(db, password)
}

// Save encrypts and stores the books, refreshing salt and nonce
func (l *Ledger) Save(ctx context.Context, books *model.Books, password []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(password) == 0 {
		return ErrPasswordRequired
	}

	db, err := l.open()
	if err != nil {
		return err
	}
	defer db.Close()

	return writeBooks(db, books, password)
}

// Update loads the books, applies fn, and saves the result. The password is
// verified before fn runs; fn returning an error aborts without writing.
func (l *Ledger) Update(ctx context.Context, password []byte, fn func(*model.Books) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(password) == 0 {
		return ErrPasswordRequired
	}

	db, err := l.open()
	if err != nil {
		return err
	}
	defer db.Close()

	books, err := readBooks(db, password)
	if err != nil {
		return err
	}

	if err := fn(books); err != nil {
		return err
	}

	return writeBooks(db, books, password)
}

// ChangePassword re-protects the books under a new password. The container
// is rebuilt with a fresh salt and nonce; the old ones are never reused.
func (l *Ledger) ChangePassword(currentPassword, newPassword []byte) error {
	if len(newPassword) == 0 {
		return ErrPasswordRequired
	}

	db, err := l.open()
	if err != nil {
		return err
	}
	defer db.Close()

	data, err := db.GetContainer()
	if err != nil {
		return fmt.Errorf("failed to read container: %w", err)
	}

	changed, err := container.ChangePassword(data, currentPassword, newPassword)
	if err != nil {
		return err
	}

	if err := db.SetContainer(changed); err != nil {
		return fmt.Errorf("failed to store container: %w", err)
	}
	return db.UpdateModified()
}

// VerifyPassword checks the password against the stored verifier without
// decrypting the books
func (l *Ledger) VerifyPassword(password []byte) error {
	if len(password) == 0 {
		return ErrPasswordRequired
	}

	db, err := l.open()
	if err != nil {
		return err
	}
	defer db.Close()

	data, err := db.GetContainer()
	if err != nil {
		return fmt.Errorf("failed to read container: %w", err)
	}

	return container.CheckPassword(data, password)
}

// StatusInfo contains ledger status available without a password
type StatusInfo struct {
	Summary          model.Summary
	LastModified     time.Time
	Algorithm        string
	KDFIterations    int
	ContainerVersion int
	PayloadSize      int
}

// Status returns the current status (no password required)
func (l *Ledger) Status(ctx context.Context) (*StatusInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	db, err := l.open()
	if err != nil {
		return nil, err
	}
	defer db.Close()

	status := &StatusInfo{
		Algorithm:     "AES-256-GCM",
		KDFIterations: crypto.Iterations,
	}

	if modified, err := db.GetModified(); err == nil {
		status.LastModified = modified
	}
	if summary, err := db.GetSummary(); err == nil {
		status.Summary = summary
	}

	data, err := db.GetContainer()
	if err != nil {
		return nil, fmt.Errorf("failed to read container: %w", err)
	}
	hdr, err := container.Inspect(data)
	if err != nil {
		return nil, err
	}
	status.ContainerVersion = int(hdr.Version)
	status.PayloadSize = hdr.CipherSize

	return status, nil
}

// Backup writes the encrypted container envelope to destPath. The write
// goes to a temporary file first, is flushed, then renamed into place, so
// a crash mid-write cannot leave a half-written backup.
func (l *Ledger) Backup(ctx context.Context, destPath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	db, err := l.open()
	if err != nil {
		return err
	}
	defer db.Close()

	data, err := db.GetContainer()
	if err != nil {
		return fmt.Errorf("failed to read container: %w", err)
	}

	return atomicWriteFile(destPath, data, FilePermSecure)
}

// Restore replaces the current books with a backup container, after
// validating the backup decrypts with the given password
func (l *Ledger) Restore(ctx context.Context, srcPath string, password []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(password) == 0 {
		return ErrPasswordRequired
	}

	data, err := os.ReadFile(srcPath)
	if err != nil {
		return fmt.Errorf("failed to read backup: %w", err)
	}

	// Full decryption, not just the verifier check: a restore must never
	// install a container whose payload cannot be authenticated.
	payload, err := container.Unprotect(data, password)
	if err != nil {
		return err
	}
	defer crypto.ClearBytes(payload)

	books, err := model.Decode(payload)
	if err != nil {
		return err
	}

	db, err := l.open()
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.SetContainer(data); err != nil {
		return fmt.Errorf("failed to store container: %w", err)
	}
	if err := db.SetSummary(books.Summarize()); err != nil {
		return fmt.Errorf("failed to store summary: %w", err)
	}
	return db.UpdateModified()
}

// Export returns the decrypted books as indented JSON
func (l *Ledger) Export(ctx context.Context, password []byte) ([]byte, error) {
	books, err := l.Load(ctx, password)
	if err != nil {
		return nil, err
	}
	return renderBooks(books)
}

// GetLedgerID retrieves the ledger ID from storage
func (l *Ledger) GetLedgerID() (string, error) {
	db, err := l.open()
	if err != nil {
		return "", err
	}
	defer db.Close()

	return db.GetLedgerID()
}

// GetOrCreateLedgerID retrieves the existing ledger ID or generates a new one
func (l *Ledger) GetOrCreateLedgerID() (string, error) {
	db, err := l.open()
	if err != nil {
		return "", err
	}
	defer db.Close()

	return db.GetOrCreateLedgerID()
}

// Compact compacts the database to reclaim unused space. This is useful
// after password changes rewrite the container.
func (l *Ledger) Compact() error {
	db, err := l.open()
	if err != nil {
		return err
	}
	defer db.Close()

	return db.Compact()
}

func readBooks(db *storage.Storage, password []byte) (*model.Books, error) {
	data, err := db.GetContainer()
	if err != nil {
		return nil, fmt.Errorf("failed to read container: %w", err)
	}

	payload, err := container.Unprotect(data, password)
	if err != nil {
		return nil, err
	}
	defer crypto.ClearBytes(payload)

	return model.Decode(payload)
}

func writeBooks(db *storage.Storage, books *model.Books, password []byte) error {
	books.Modified = time.Now()

	payload, err := books.Encode()
	if err != nil {
		return err
	}
	defer crypto.ClearBytes(payload)

	data, err := container.Protect(payload, password)
	if err != nil {
		return err
	}

	if err := db.SetContainer(data); err != nil {
		return fmt.Errorf("failed to store container: %w", err)
	}
	if err := db.SetSummary(books.Summarize()); err != nil {
		return fmt.Errorf("failed to store summary: %w", err)
	}
	return db.UpdateModified()
}

// atomicWriteFile writes data to a temporary file in the destination
// directory, syncs it, then renames it over the destination
func atomicWriteFile(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	tmpPath := tmp.Name()

	if err := tmp.Chmod(perm); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to sync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}
