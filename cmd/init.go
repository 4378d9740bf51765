package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/ledgerfile/ledgerfile/internal/core"
	"github.com/ledgerfile/ledgerfile/internal/crypto"
)

// Init creates a new ledger file in the current directory
func Init() {
	ledger := core.New(".")

	// Read password (env var or prompt with confirmation)
	password, err := GetPasswordForInit()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
	defer crypto.ClearBytes(password)

	if err := ledger.Init(password); err != nil {
		if errors.Is(err, core.ErrAlreadyExists) {
			fmt.Fprintf(os.Stderr, "Error: %s already exists in this directory\n", core.LedgerFile)
			fmt.Fprintf(os.Stderr, "Use 'ledgerfile status' to see current state\n")
		} else {
			fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		}
		os.Exit(1)
	}

	fmt.Printf("initialized %s\n", core.LedgerFile)
}
