package core

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/ledgerfile/ledgerfile/internal/container"
	"github.com/ledgerfile/ledgerfile/internal/crypto"
	"github.com/ledgerfile/ledgerfile/internal/model"
)

// Diff compares the current books with those in a backup container file and
// returns a unified diff of their JSON renderings. Both containers are
// decrypted with the same password. Returns "" when identical.
func (l *Ledger) Diff(ctx context.Context, backupPath string, password []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	current, err := l.Load(ctx, password)
	if err != nil {
		return "", err
	}

	backupData, err := os.ReadFile(backupPath)
	if err != nil {
		return "", fmt.Errorf("failed to read backup: %w", err)
	}
	payload, err := container.Unprotect(backupData, password)
	if err != nil {
		return "", err
	}
	defer crypto.ClearBytes(payload)

	backup, err := model.Decode(payload)
	if err != nil {
		return "", err
	}

	backupJSON, err := renderBooks(backup)
	if err != nil {
		return "", err
	}
	currentJSON, err := renderBooks(current)
	if err != nil {
		return "", err
	}

	return generateUnifiedDiff(backupPath, backupJSON, currentJSON), nil
}

// renderBooks produces a stable indented JSON rendering used for export
// and diffing. The volatile Modified timestamp is excluded so a diff only
// shows record changes.
func renderBooks(books *model.Books) ([]byte, error) {
	copied := *books
	copied.Modified = books.Created

	data, err := json.MarshalIndent(&copied, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to render books: %w", err)
	}
	return append(data, '\n'), nil
}

// compareContent checks if two renderings are identical (based on SHA-256)
func compareContent(a, b []byte) bool {
	hashA := sha256.Sum256(a)
	hashB := sha256.Sum256(b)
	return bytes.Equal(hashA[:], hashB[:])
}

// generateUnifiedDiff generates a unified diff using the go-diff library.
// Returns the diff output, or empty string if the renderings are identical.
func generateUnifiedDiff(label string, backup, current []byte) string {
	if compareContent(backup, current) {
		return ""
	}

	dmp := diffmatchpatch.New()

	// Line-mode diff for better output
	backupStr, currentStr := string(backup), string(current)
	a, b, lineArray := dmp.DiffLinesToChars(backupStr, currentStr)
	diffs := dmp.DiffMain(a, b, false)
	diffs = dmp.DiffCharsToLines(diffs, lineArray)

	patches := dmp.PatchMake(backupStr, diffs)
	if len(patches) == 0 {
		return ""
	}

	var result strings.Builder
	result.WriteString(fmt.Sprintf("--- %s\n", label))
	result.WriteString("+++ current\n")
	result.WriteString(dmp.PatchToText(patches))

	return result.String()
}
