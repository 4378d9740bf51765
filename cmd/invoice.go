package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/ledgerfile/ledgerfile/internal/core"
	"github.com/ledgerfile/ledgerfile/internal/crypto"
	"github.com/ledgerfile/ledgerfile/internal/model"
)

// InvoiceAdd creates an invoice with a single line item
func InvoiceAdd(ctx context.Context, number, customer, description string, quantity, unitCents int64, dueDays int) {
	ledger := core.New(".")

	password, _, err := GetVerifiedPassword("Enter password: ", ledger)
	if err != nil {
		HandleError(err)
	}
	defer crypto.ClearBytes(password)

	var added model.Invoice
	err = ledger.Update(ctx, password, func(books *model.Books) error {
		if books.FindInvoice(number) != nil {
			return fmt.Errorf("invoice %q already exists", number)
		}
		cust := books.FindCustomer(customer)
		if cust == nil {
			return fmt.Errorf("customer %q not found", customer)
		}
		added = books.AddInvoice(model.Invoice{
			Number:     number,
			CustomerID: cust.ID,
			Due:        time.Now().AddDate(0, 0, dueDays),
			Lines: []model.InvoiceLine{
				{Description: description, Quantity: quantity, UnitCents: unitCents},
			},
		})
		return nil
	})
	if err != nil {
		HandleError(err)
	}

	fmt.Printf("added invoice %s, total %s\n", added.Number, formatCents(added.TotalCents()))
}

// InvoiceList lists all invoices
func InvoiceList(ctx context.Context) {
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

	if len(books.Invoices) == 0 {
		fmt.Println("No invoices")
		return
	}
	for i := range books.Invoices {
		inv := &books.Invoices[i]
		state := "open"
		if inv.Paid {
			state = "paid"
		}
		name := inv.CustomerID
		if cust := books.FindCustomer(inv.CustomerID); cust != nil {
			name = cust.Name
		}
		fmt.Printf("%-12s  %-20s  %10s  %s\n", inv.Number, name, formatCents(inv.TotalCents()), state)
	}
}

// InvoicePay marks an invoice as paid
func InvoicePay(ctx context.Context, idOrNumber string) {
	ledger := core.New(".")

	password, _, err := GetVerifiedPassword("Enter password: ", ledger)
	if err != nil {
		HandleError(err)
	}
	defer crypto.ClearBytes(password)

	err = ledger.Update(ctx, password, func(books *model.Books) error {
		if !books.MarkInvoicePaid(idOrNumber) {
			return fmt.Errorf("invoice %q not found", idOrNumber)
		}
		return nil
	})
	if err != nil {
		HandleError(err)
	}

	fmt.Printf("invoice %s marked paid\n", idOrNumber)
}

func formatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}
