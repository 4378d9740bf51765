package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/ledgerfile/ledgerfile/internal/core"
	"github.com/ledgerfile/ledgerfile/internal/crypto"
	"github.com/ledgerfile/ledgerfile/internal/model"
)

// RentalOpen books an item out to a customer
func RentalOpen(ctx context.Context, customer, item string, days int) {
	ledger := core.New(".")

	password, _, err := GetVerifiedPassword("Enter password: ", ledger)
	if err != nil {
		HandleError(err)
	}
	defer crypto.ClearBytes(password)

	var opened model.Rental
	err = ledger.Update(ctx, password, func(books *model.Books) error {
		cust := books.FindCustomer(customer)
		if cust == nil {
			return fmt.Errorf("customer %q not found", customer)
		}
		it := books.FindItem(item)
		if it == nil {
			return fmt.Errorf("item %q not found", item)
		}
		due := time.Now().AddDate(0, 0, days)
		rental, err := books.OpenRental(cust.ID, it.ID, due)
		if err != nil {
			return err
		}
		opened = rental
		return nil
	})
	if err != nil {
		HandleError(err)
	}

	fmt.Printf("opened rental %s, due %s\n", opened.ID, opened.Due.Format("2006-01-02"))
}

// RentalList lists rentals, open ones first
func RentalList(ctx context.Context) {
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

	if len(books.Rentals) == 0 {
		fmt.Println("No rentals")
		return
	}
	for i := range books.Rentals {
		r := &books.Rentals[i]
		name := r.CustomerID
		if cust := books.FindCustomer(r.CustomerID); cust != nil {
			name = cust.Name
		}
		itemName := r.ItemID
		if it := books.FindItem(r.ItemID); it != nil {
			itemName = it.Name
		}
		state := fmt.Sprintf("due %s", r.Due.Format("2006-01-02"))
		if r.Returned != nil {
			state = fmt.Sprintf("returned %s", r.Returned.Format("2006-01-02"))
		}
		fmt.Printf("%s  %-20s  %-24s  %s\n", r.ID, name, itemName, state)
	}
}

// RentalReturn marks a rental as returned
func RentalReturn(ctx context.Context, id string) {
	ledger := core.New(".")

	password, _, err := GetVerifiedPassword("Enter password: ", ledger)
	if err != nil {
		HandleError(err)
	}
	defer crypto.ClearBytes(password)

	err = ledger.Update(ctx, password, func(books *model.Books) error {
		return books.CloseRental(id)
	})
	if err != nil {
		HandleError(err)
	}

	fmt.Printf("rental %s returned\n", id)
}
