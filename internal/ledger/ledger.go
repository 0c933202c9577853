package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductStatus flags whether a product is offered. No query filters on it.
type ProductStatus string

const (
	ProductActive   ProductStatus = "active"
	ProductInactive ProductStatus = "inactive"
)

// Product is a stock-keeping item. Code is meant to be unique but the ledger does not enforce it.
type Product struct {
	ID       uuid.UUID
	Code     string
	Name     string
	Category string
	Price    decimal.Decimal
	Stock    int
	MinStock int
	Status   ProductStatus
}

// LowStock reports whether the product is at or below its minimum threshold.
func (p Product) LowStock() bool {
	return p.Stock <= p.MinStock
}

// TransactionType represents the direction of a stock movement.
type TransactionType string

const (
	TypeSale     TransactionType = "sale"
	TypePurchase TransactionType = "purchase"
)

// Delta returns the signed stock change a movement of this type and quantity causes.
func (t TransactionType) Delta(quantity int) int {
	switch t {
	case TypeSale:
		return -quantity
	case TypePurchase:
		return quantity
	}

	return 0
}

// Transaction is an immutable stock movement. ProductName is a copy taken when it was recorded.
type Transaction struct {
	ID          uuid.UUID
	ProductID   uuid.UUID
	ProductName string
	Type        TransactionType
	Quantity    int
	Date        time.Time
	UserID      string
}

// InvoiceStatus is set by whoever issued the invoice and never transitioned by the ledger.
type InvoiceStatus string

const (
	InvoicePending InvoiceStatus = "pending"
	InvoicePaid    InvoiceStatus = "paid"
	InvoiceOverdue InvoiceStatus = "overdue"
)

// Invoice is a payable document tracked alongside the inventory.
type Invoice struct {
	ID      uuid.UUID
	Number  string
	DueDate time.Time
	Amount  decimal.Decimal
	Status  InvoiceStatus
}

// DueState classifies an invoice's due date relative to a point in time.
type DueState string

const (
	DueOverdue   DueState = "overdue"
	DueSoon      DueState = "due_soon"
	DueScheduled DueState = "scheduled"
)

// ClassifyDue tells whether an invoice is past due, due within window, or further out.
// It looks at dates only; the invoice status is left to the caller.
func ClassifyDue(inv Invoice, now time.Time, window time.Duration) DueState {
	switch {
	case inv.DueDate.Before(now):
		return DueOverdue
	case !inv.DueDate.After(now.Add(window)):
		return DueSoon
	default:
		return DueScheduled
	}
}
