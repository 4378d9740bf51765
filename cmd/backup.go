package cmd

import (
	"context"
	"fmt"

	"github.com/ledgerfile/ledgerfile/internal/core"
	"github.com/ledgerfile/ledgerfile/internal/crypto"
)

// Backup writes the encrypted container to the given path. No password is
// required: the backup stays encrypted.
func Backup(ctx context.Context, destPath string) {
	ledger := core.New(".")

	if err := ledger.Backup(ctx, destPath); err != nil {
		HandleError(err)
	}

	fmt.Printf("backup written: %s\n", destPath)
}

// Restore replaces the current books with an encrypted backup
func Restore(ctx context.Context, srcPath string) {
	ledger := core.New(".")

	// The backup may carry an older password than the live ledger, so the
	// password is validated against the backup inside Restore, not here.
	ledgerID, _ := ledger.GetLedgerID()
	password, source, err := GetPassword("Enter backup password: ", ledgerID)
	if err != nil {
		HandleError(err)
	}
	defer crypto.ClearBytes(password)

	if err := ledger.Restore(ctx, srcPath, password); err != nil {
		HandleError(err)
	}

	fmt.Printf("restored from %s\n", srcPath)

	if source == SourcePrompt {
		if ledgerID, err := ledger.GetOrCreateLedgerID(); err == nil {
			OfferToSavePassword(ledgerID, password)
		}
	}
}
