package cmd

import (
	"fmt"
	"os"

	"github.com/ledgerfile/ledgerfile/internal/core"
	"github.com/ledgerfile/ledgerfile/internal/crypto"
	"github.com/ledgerfile/ledgerfile/internal/keyring"
)

// Passwd changes the ledger password, re-encrypting the books
func Passwd() {
	ledger := core.New(".")

	currentPassword, _, err := GetVerifiedPassword("Enter current password: ", ledger)
	if err != nil {
		HandleError(err)
	}
	defer crypto.ClearBytes(currentPassword)

	newPassword, err := core.ReadPasswordConfirm()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
	defer crypto.ClearBytes(newPassword)

	if err := ledger.ChangePassword(currentPassword, newPassword); err != nil {
		HandleError(err)
	}

	// Update the keyring if an entry exists for this ledger
	if ledgerID, err := ledger.GetLedgerID(); err == nil && keyring.HasPassword(ledgerID) {
		if err := keyring.SavePassword(ledgerID, string(newPassword)); err == nil {
			fmt.Println("Keyring updated with new password")
		}
	}

	// Compact database after rewriting the container
	if err := ledger.Compact(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: compaction failed: %s\n", err)
	}

	fmt.Println("password changed successfully")
}
