package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/ledgerfile/ledgerfile/internal/core"
)

// Status shows the current state of the ledger (no password required)
func Status(ctx context.Context) {
	ledger := core.New(".")

	if _, err := os.Stat(core.LedgerFile); err != nil {
		if os.IsNotExist(err) {
			fmt.Printf("No %s file found in current directory\n", core.LedgerFile)
			fmt.Println("Run 'ledgerfile init' to create one")
			return
		}
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}

	status, err := ledger.Status(ctx)
	if err != nil {
		HandleError(err)
	}

	fmt.Println("Records:")
	fmt.Printf("  customers: %d\n", status.Summary.Customers)
	fmt.Printf("  invoices:  %d\n", status.Summary.Invoices)
	fmt.Printf("  items:     %d\n", status.Summary.Items)
	fmt.Printf("  rentals:   %d (%d open)\n", status.Summary.Rentals, status.Summary.Open)

	fmt.Println("\nEncryption:")
	fmt.Printf("  algorithm:  %s\n", status.Algorithm)
	fmt.Printf("  kdf:        PBKDF2-HMAC-SHA256, %d iterations\n", status.KDFIterations)
	fmt.Printf("  container:  version %d, %d byte payload\n", status.ContainerVersion, status.PayloadSize)

	fmt.Printf("\n%s: present (last modified: %s)\n", core.LedgerFile, status.LastModified.Format(time.RFC3339))
}
