package cmd

import (
	"context"
	"fmt"

	"github.com/ledgerfile/ledgerfile/internal/core"
	"github.com/ledgerfile/ledgerfile/internal/crypto"
	"github.com/ledgerfile/ledgerfile/internal/model"
)

// CustomerAdd adds a customer to the books
func CustomerAdd(ctx context.Context, name, email, phone, address string) {
	ledger := core.New(".")

	password, _, err := GetVerifiedPassword("Enter password: ", ledger)
	if err != nil {
		HandleError(err)
	}
	defer crypto.ClearBytes(password)

	var added model.Customer
	err = ledger.Update(ctx, password, func(books *model.Books) error {
		if books.FindCustomer(name) != nil {
			return fmt.Errorf("customer %q already exists", name)
		}
		added = books.AddCustomer(model.Customer{
			Name:    name,
			Email:   email,
			Phone:   phone,
			Address: address,
		})
		return nil
	})
	if err != nil {
		HandleError(err)
	}

	fmt.Printf("added customer %s (%s)\n", added.Name, added.ID)
}

// CustomerList lists all customers
func CustomerList(ctx context.Context) {
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

	if len(books.Customers) == 0 {
		fmt.Println("No customers")
		return
	}
	for _, c := range books.Customers {
		fmt.Printf("%s  %s", c.ID, c.Name)
		if c.Email != "" {
			fmt.Printf("  <%s>", c.Email)
		}
		fmt.Println()
	}
}

// CustomerRemove removes a customer by ID or name
func CustomerRemove(ctx context.Context, idOrName string) {
	ledger := core.New(".")

	password, _, err := GetVerifiedPassword("Enter password: ", ledger)
	if err != nil {
		HandleError(err)
	}
	defer crypto.ClearBytes(password)

	err = ledger.Update(ctx, password, func(books *model.Books) error {
		customer := books.FindCustomer(idOrName)
		if customer == nil {
			return fmt.Errorf("customer %q not found", idOrName)
		}
		books.RemoveCustomer(customer.ID)
		return nil
	})
	if err != nil {
		HandleError(err)
	}

	fmt.Printf("removed customer %s\n", idOrName)
}
