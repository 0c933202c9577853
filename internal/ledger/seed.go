package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Fixed ids so seeded records are addressable across restarts.
var (
	SeedLaptopID   = uuid.MustParse("7a0f6a52-3c1e-4c36-9f0b-2a1d5b9e0001")
	SeedMouseID    = uuid.MustParse("7a0f6a52-3c1e-4c36-9f0b-2a1d5b9e0002")
	SeedMonitorID  = uuid.MustParse("7a0f6a52-3c1e-4c36-9f0b-2a1d5b9e0003")
	SeedKeyboardID = uuid.MustParse("7a0f6a52-3c1e-4c36-9f0b-2a1d5b9e0004")
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// SeedState returns the demo catalogue. Product stock already reflects the seeded sale, so the
// transaction is placed in the log directly instead of being applied.
func SeedState() *State {
	return &State{
		Products: []Product{
			{
				ID:       SeedLaptopID,
				Code:     "P001",
				Name:     "Laptop Dell XPS 13",
				Category: "Electrónicos",
				Price:    decimal.RequireFromString("1299.99"),
				Stock:    5,
				MinStock: 3,
				Status:   ProductActive,
			},
			{
				ID:       SeedMouseID,
				Code:     "P002",
				Name:     "Mouse Inalámbrico",
				Category: "Accesorios",
				Price:    decimal.RequireFromString("25.99"),
				Stock:    2,
				MinStock: 10,
				Status:   ProductActive,
			},
			{
				ID:       SeedMonitorID,
				Code:     "P003",
				Name:     "Monitor 4K Samsung",
				Category: "Electrónicos",
				Price:    decimal.RequireFromString("399.99"),
				Stock:    15,
				MinStock: 5,
				Status:   ProductActive,
			},
			{
				ID:       SeedKeyboardID,
				Code:     "P004",
				Name:     "Teclado Mecánico",
				Category: "Accesorios",
				Price:    decimal.RequireFromString("89.99"),
				Stock:    1,
				MinStock: 5,
				Status:   ProductActive,
			},
		},
		Transactions: []Transaction{
			{
				ID:          uuid.MustParse("5d2c8e1b-8f4a-4e0c-b7a1-6c3e9d0f0001"),
				ProductID:   SeedLaptopID,
				ProductName: "Laptop Dell XPS 13",
				Type:        TypeSale,
				Quantity:    2,
				Date:        day(2024, time.January, 15),
				UserID:      "2",
			},
		},
		Invoices: []Invoice{
			{
				ID:      uuid.MustParse("c4b1e7d9-2a6f-4b3e-8d5c-1f0a9e7b0001"),
				Number:  "INV-001",
				DueDate: day(2024, time.February, 1),
				Amount:  decimal.RequireFromString("2599.98"),
				Status:  InvoicePending,
			},
			{
				ID:      uuid.MustParse("c4b1e7d9-2a6f-4b3e-8d5c-1f0a9e7b0002"),
				Number:  "INV-002",
				DueDate: day(2024, time.January, 20),
				Amount:  decimal.RequireFromString("399.99"),
				Status:  InvoiceOverdue,
			},
		},
	}
}
