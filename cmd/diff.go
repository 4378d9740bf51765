package cmd

import (
	"context"
	"fmt"

	"github.com/ledgerfile/ledgerfile/internal/core"
	"github.com/ledgerfile/ledgerfile/internal/crypto"
)

// Diff compares the current books with a backup container file
func Diff(ctx context.Context, backupPath string) {
	ledger := core.New(".")

	password, _, err := GetVerifiedPassword("Enter password: ", ledger)
	if err != nil {
		HandleError(err)
	}
	defer crypto.ClearBytes(password)

	diff, err := ledger.Diff(ctx, backupPath, password)
	if err != nil {
		HandleError(err)
	}

	if diff == "" {
		fmt.Println("No changes detected")
		return
	}
	fmt.Print(diff)
}
