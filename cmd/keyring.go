package cmd

import (
	"fmt"
	"os"

	"github.com/ledgerfile/ledgerfile/internal/core"
	"github.com/ledgerfile/ledgerfile/internal/crypto"
	"github.com/ledgerfile/ledgerfile/internal/keyring"
)

// KeyringSave saves the password to the OS keyring
func KeyringSave() {
	ledger := core.New(".")

	password, err := core.ReadPassword("Enter password: ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
	defer crypto.ClearBytes(password)

	// Verify password is correct
	if err := ledger.VerifyPassword(password); err != nil {
		HandleError(err)
	}

	ledgerID, err := ledger.GetOrCreateLedgerID()
	if err != nil {
		HandleError(err)
	}

	if err := keyring.SavePassword(ledgerID, string(password)); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to save to keyring: %s\n", err)
		os.Exit(1)
	}

	fmt.Println("Password saved to keyring")
}

// KeyringDelete removes the password from the OS keyring
func KeyringDelete() {
	ledger := core.New(".")

	ledgerID, err := ledger.GetLedgerID()
	if err != nil {
		fmt.Println("No password stored in keyring")
		return
	}

	if err := keyring.DeletePassword(ledgerID); err != nil {
		fmt.Println("No password stored in keyring")
		return
	}

	fmt.Println("Password removed from keyring")
}

// KeyringStatus checks if a password is stored in the keyring
func KeyringStatus() {
	ledger := core.New(".")

	ledgerID, err := ledger.GetLedgerID()
	if err != nil {
		fmt.Println("Password: not stored")
		return
	}

	if keyring.HasPassword(ledgerID) {
		fmt.Println("Password: stored in keyring")
	} else {
		fmt.Println("Password: not stored")
	}
}
