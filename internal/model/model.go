package model

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Customer is a business contact invoices and rentals are booked against
type Customer struct {
	ID      string    `json:"id"`
	Name    string    `json:"name"`
	Email   string    `json:"email,omitempty"`
	Phone   string    `json:"phone,omitempty"`
	Address string    `json:"address,omitempty"`
	Created time.Time `json:"created"`
}

// InvoiceLine is a single billed position
type InvoiceLine struct {
	Description string `json:"description"`
	Quantity    int64  `json:"quantity"`
	UnitCents   int64  `json:"unitCents"`
}

// Invoice is a bill issued to a customer. Amounts are integer cents.
type Invoice struct {
	ID         string        `json:"id"`
	Number     string        `json:"number"`
	CustomerID string        `json:"customerId"`
	Issued     time.Time     `json:"issued"`
	Due        time.Time     `json:"due"`
	Lines      []InvoiceLine `json:"lines"`
	Paid       bool          `json:"paid"`
}

// TotalCents returns the invoice total across all lines
func (i *Invoice) TotalCents() int64 {
	var total int64
	for _, line := range i.Lines {
		total += line.Quantity * line.UnitCents
	}
	return total
}

// InventoryItem is a stocked article
type InventoryItem struct {
	ID         string `json:"id"`
	SKU        string `json:"sku"`
	Name       string `json:"name"`
	Stock      int64  `json:"stock"`
	PriceCents int64  `json:"priceCents"`
}

// Rental tracks an inventory item lent to a customer
type Rental struct {
	ID         string     `json:"id"`
	CustomerID string     `json:"customerId"`
	ItemID     string     `json:"itemId"`
	Start      time.Time  `json:"start"`
	Due        time.Time  `json:"due"`
	Returned   *time.Time `json:"returned,omitempty"`
}

// Books is the complete business state. It is serialized to JSON and
// stored as the encrypted container payload.
type Books struct {
	Version   int             `json:"version"`
	Created   time.Time       `json:"created"`
	Modified  time.Time       `json:"modified"`
	Customers []Customer      `json:"customers"`
	Invoices  []Invoice       `json:"invoices"`
	Items     []InventoryItem `json:"items"`
	Rentals   []Rental        `json:"rentals"`
}

// NewBooks creates an empty business state
func NewBooks() *Books {
	now := time.Now()
	return &Books{
		Version:   1,
		Created:   now,
		Modified:  now,
		Customers: make([]Customer, 0),
		Invoices:  make([]Invoice, 0),
		Items:     make([]InventoryItem, 0),
		Rentals:   make([]Rental, 0),
	}
}

// Encode serializes the books to the plaintext payload bytes
func (b *Books) Encode() ([]byte, error) {
	data, err := json.Marshal(b)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal books: %w", err)
	}
	return data, nil
}

// Decode parses payload bytes produced by Encode
func Decode(data []byte) (*Books, error) {
	var books Books
	if err := json.Unmarshal(data, &books); err != nil {
		return nil, fmt.Errorf("failed to unmarshal books: %w", err)
	}
	return &books, nil
}

// AddCustomer adds a customer and returns it with a generated ID
func (b *Books) AddCustomer(c Customer) Customer {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.Created.IsZero() {
		c.Created = time.Now()
	}
	b.Customers = append(b.Customers, c)
	b.Modified = time.Now()
	return c
}

// RemoveCustomer removes a customer by ID
func (b *Books) RemoveCustomer(id string) bool {
	for i, c := range b.Customers {
		if c.ID == id {
			b.Customers = append(b.Customers[:i], b.Customers[i+1:]...)
			b.Modified = time.Now()
			return true
		}
	}
	return false
}

// FindCustomer finds a customer by ID or exact name
func (b *Books) FindCustomer(idOrName string) *Customer {
	for i := range b.Customers {
		if b.Customers[i].ID == idOrName || b.Customers[i].Name == idOrName {
			return &b.Customers[i]
		}
	}
	return nil
}

// AddInvoice adds an invoice and returns it with a generated ID
func (b *Books) AddInvoice(inv Invoice) Invoice {
	if inv.ID == "" {
		inv.ID = uuid.NewString()
	}
	if inv.Issued.IsZero() {
		inv.Issued = time.Now()
	}
	b.Invoices = append(b.Invoices, inv)
	b.Modified = time.Now()
	return inv
}

// FindInvoice finds an invoice by ID or number
func (b *Books) FindInvoice(idOrNumber string) *Invoice {
	for i := range b.Invoices {
		if b.Invoices[i].ID == idOrNumber || b.Invoices[i].Number == idOrNumber {
			return &b.Invoices[i]
		}
	}
	return nil
}

// MarkInvoicePaid marks an invoice as paid by ID or number
func (b *Books) MarkInvoicePaid(idOrNumber string) bool {
	inv := b.FindInvoice(idOrNumber)
	if inv == nil {
		return false
	}
	inv.Paid = true
	b.Modified = time.Now()
	return true
}

// AddItem adds an inventory item and returns it with a generated ID
func (b *Books) AddItem(item InventoryItem) InventoryItem {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	b.Items = append(b.Items, item)
	b.Modified = time.Now()
	return item
}

// FindItem finds an inventory item by ID or SKU
func (b *Books) FindItem(idOrSKU string) *InventoryItem {
	for i := range b.Items {
		if b.Items[i].ID == idOrSKU || b.Items[i].SKU == idOrSKU {
			return &b.Items[i]
		}
	}
	return nil
}

// AdjustStock changes an item's stock level by delta. Fails if the
// adjustment would drive stock negative.
func (b *Books) AdjustStock(idOrSKU string, delta int64) error {
	item := b.FindItem(idOrSKU)
	if item == nil {
		return fmt.Errorf("item %s not found", idOrSKU)
	}
	if item.Stock+delta < 0 {
		return fmt.Errorf("stock for %s cannot go below zero", item.SKU)
	}
	item.Stock += delta
	b.Modified = time.Now()
	return nil
}

// OpenRental books an item out to a customer, decrementing stock
func (b *Books) OpenRental(customerID, itemID string, due time.Time) (Rental, error) {
	if b.FindCustomer(customerID) == nil {
		return Rental{}, fmt.Errorf("customer %s not found", customerID)
	}
	if err := b.AdjustStock(itemID, -1); err != nil {
		return Rental{}, err
	}
	rental := Rental{
		ID:         uuid.NewString(),
		CustomerID: customerID,
		ItemID:     itemID,
		Start:      time.Now(),
		Due:        due,
	}
	b.Rentals = append(b.Rentals, rental)
	b.Modified = time.Now()
	return rental, nil
}

// CloseRental marks a rental as returned and restores stock
func (b *Books) CloseRental(id string) error {
	for i := range b.Rentals {
		if b.Rentals[i].ID != id {
			continue
		}
		if b.Rentals[i].Returned != nil {
			return fmt.Errorf("rental %s already returned", id)
		}
		now := time.Now()
		b.Rentals[i].Returned = &now
		if err := b.AdjustStock(b.Rentals[i].ItemID, 1); err != nil {
			return err
		}
		b.Modified = now
		return nil
	}
	return fmt.Errorf("rental %s not found", id)
}

// Summary is the unencrypted record-count index stored alongside the
// container so status works without a password
type Summary struct {
	Customers int `json:"customers"`
	Invoices  int `json:"invoices"`
	Items     int `json:"items"`
	Rentals   int `json:"rentals"`
	Open      int `json:"openRentals"`
}

// Summarize computes the unencrypted index counts
func (b *Books) Summarize() Summary {
	s := Summary{
		Customers: len(b.Customers),
		Invoices:  len(b.Invoices),
		Items:     len(b.Items),
		Rentals:   len(b.Rentals),
	}
	for _, r := range b.Rentals {
		if r.Returned == nil {
			s.Open++
		}
	}
	return s
}
