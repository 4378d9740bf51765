package cmd

import (
	"context"
	"fmt"

	"github.com/ledgerfile/ledgerfile/internal/core"
	"github.com/ledgerfile/ledgerfile/internal/crypto"
	"github.com/ledgerfile/ledgerfile/internal/model"
)

// ItemAdd adds an inventory item
func ItemAdd(ctx context.Context, sku, name string, stock, priceCents int64) {
	ledger := core.New(".")

	password, _, err := GetVerifiedPassword("Enter password: ", ledger)
	if err != nil {
		HandleError(err)
	}
	defer crypto.ClearBytes(password)

	var added model.InventoryItem
	err = ledger.Update(ctx, password, func(books *model.Books) error {
		if books.FindItem(sku) != nil {
			return fmt.Errorf("item %q already exists", sku)
		}
		added = books.AddItem(model.InventoryItem{
			SKU:        sku,
			Name:       name,
			Stock:      stock,
			PriceCents: priceCents,
		})
		return nil
	})
	if err != nil {
		HandleError(err)
	}

	fmt.Printf("added item %s (%s), stock %d\n", added.SKU, added.Name, added.Stock)
}

// ItemList lists all inventory items
func ItemList(ctx context.Context) {
	ledger := core.New(".")

	password, _, err := GetVerifiedPassword("Enter password: ", ledger)
	if err != nil {
		HandleError(err)
	}
	defer crypto.ClearBytes(password)

	books, err := ledger.Load(ctx, password)
	if err != nil {
		HandleError(err)
	}

	if len(books.Items) == 0 {
		fmt.Println("No items")
		return
	}
	for _, item := range books.Items {
		fmt.Printf("%-12s  %-24s  stock %4d  %10s\n", item.SKU, item.Name, item.Stock, formatCents(item.PriceCents))
	}
}

// ItemAdjust changes an item's stock level by delta
func ItemAdjust(ctx context.Context, idOrSKU string, delta int64) {
	ledger := core.New(".")

	password, _, err := GetVerifiedPassword("Enter password: ", ledger)
	if err != nil {
		HandleError(err)
	}
	defer crypto.ClearBytes(password)

	var stock int64
	err = ledger.Update(ctx, password, func(books *model.Books) error {
		if err := books.AdjustStock(idOrSKU, delta); err != nil {
			return err
		}
		stock = books.FindItem(idOrSKU).Stock
		return nil
	})
	if err != nil {
		HandleError(err)
	}

	fmt.Printf("item %s stock now %d\n", idOrSKU, stock)
}
