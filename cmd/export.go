package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/ledgerfile/ledgerfile/internal/core"
	"github.com/ledgerfile/ledgerfile/internal/crypto"
)

// Export prints the decrypted books as JSON to stdout
func Export(ctx context.Context) {
	ledger := core.New(".")

	password, _, err := GetVerifiedPassword("Enter password: ", ledger)
	if err != nil {
		HandleError(err)
	}
	defer crypto.ClearBytes(password)

	data, err := ledger.Export(ctx, password)
	if err != nil {
		HandleError(err)
	}
	defer crypto.ClearBytes(data)

	if _, err := os.Stdout.Write(data); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}
