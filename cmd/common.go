package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/ledgerfile/ledgerfile/internal/core"
	"github.com/ledgerfile/ledgerfile/internal/crypto"
	"github.com/ledgerfile/ledgerfile/internal/keyring"
)

// PasswordSource indicates where a password came from
type PasswordSource int

const (
	SourceEnv PasswordSource = iota
	SourceKeyring
	SourcePrompt
)

// GetPassword retrieves a password from the environment, the OS keyring
// (when a ledger ID is known), or an interactive prompt, in that order.
// The caller is responsible for calling crypto.ClearBytes on the result.
func GetPassword(prompt, ledgerID string) ([]byte, PasswordSource, error) {
	if password := core.GetPasswordFromEnv(); password != nil {
		return password, SourceEnv, nil
	}

	if ledgerID != "" {
		if stored, err := keyring.GetPassword(ledgerID); err == nil {
			return []byte(stored), SourceKeyring, nil
		}
	}

	password, err := core.ReadPassword(prompt)
	if err != nil {
		return nil, SourcePrompt, fmt.Errorf("failed to read password: %w", err)
	}
	return password, SourcePrompt, nil
}

// GetVerifiedPassword is GetPassword plus verification against the ledger.
// A stale keyring entry is deleted and the user is prompted once more.
func GetVerifiedPassword(prompt string, ledger *core.Ledger) ([]byte, PasswordSource, error) {
	ledgerID, _ := ledger.GetLedgerID()

	password, source, err := GetPassword(prompt, ledgerID)
	if err != nil {
		return nil, source, err
	}

	if err := ledger.VerifyPassword(password); err != nil {
		crypto.ClearBytes(password)

		// Stale keyring entry: drop it and fall back to prompting
		if source == SourceKeyring && errors.Is(err, core.ErrWrongPassword) {
			_ = keyring.DeletePassword(ledgerID)
			password, err = core.ReadPassword(prompt)
			if err != nil {
				return nil, SourcePrompt, fmt.Errorf("failed to read password: %w", err)
			}
			if err := ledger.VerifyPassword(password); err != nil {
				crypto.ClearBytes(password)
				return nil, SourcePrompt, err
			}
			return password, SourcePrompt, nil
		}

		return nil, source, err
	}

	return password, source, nil
}

// GetPasswordForInit retrieves a password for the init command: environment
// variable first, then a prompt with confirmation
func GetPasswordForInit() ([]byte, error) {
	if password := core.GetPasswordFromEnv(); password != nil {
		return password, nil
	}
	return core.ReadPasswordConfirm()
}

// OfferToSavePassword asks whether a manually entered password should go
// into the OS keyring
func OfferToSavePassword(ledgerID string, password []byte) {
	fmt.Print("Save password to OS keyring? [y/N]: ")
	var answer string
	if _, err := fmt.Scanln(&answer); err != nil {
		return
	}
	if strings.ToLower(strings.TrimSpace(answer)) != "y" {
		return
	}
	if err := keyring.SavePassword(ledgerID, string(password)); err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to save to keyring: %s\n", err)
		return
	}
	fmt.Println("Password saved to keyring")
}

// HandleError handles common errors consistently and exits
func HandleError(err error) {
	switch {
	case errors.Is(err, core.ErrNotInitialized):
		fmt.Fprintf(os.Stderr, "Error: ledger not initialized\n")
		fmt.Fprintf(os.Stderr, "Run 'ledgerfile init' first\n")
	case errors.Is(err, core.ErrAlreadyExists):
		fmt.Fprintf(os.Stderr, "Error: %s already exists in this directory\n", core.LedgerFile)
		fmt.Fprintf(os.Stderr, "Use 'ledgerfile status' to see current state\n")
	case errors.Is(err, core.ErrWrongPassword):
		fmt.Fprintf(os.Stderr, "Error: wrong password\n")
	case errors.Is(err, crypto.ErrAuthFailed):
		fmt.Fprintf(os.Stderr, "Error: file could not be opened - incorrect password or corrupted data\n")
	default:
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
	os.Exit(1)
}
