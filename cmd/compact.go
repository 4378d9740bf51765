package cmd

import (
	"context"
	"fmt"

	"github.com/ledgerfile/ledgerfile/internal/core"
)

// Compact compacts the ledger database to reclaim disk space.
// Does not require a password.
func Compact(ctx context.Context) {
	if err := ctx.Err(); err != nil {
		HandleError(err)
	}

	ledger := core.New(".")
	if err := ledger.Compact(); err != nil {
		HandleError(err)
	}

	fmt.Println("ledger compacted")
}
