package report

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/stockroom/internal/ledger"
)

// Period bounds a transaction report in time, relative to now.
type Period string

const (
	PeriodAll   Period = "all"
	PeriodToday Period = "today"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
)

func (p Period) Valid() bool {
	switch p {
	case PeriodAll, PeriodToday, PeriodWeek, PeriodMonth, "":
		return true
	}

	return false
}

// Filter narrows a transaction report. Zero values mean no restriction.
type Filter struct {
	Type     ledger.TransactionType
	Period   Period
	Category string
}

type Summary struct {
	TotalSales        int
	TotalPurchases    int
	SaleCount         int
	PurchaseCount     int
	TotalTransactions int
}

type TransactionReport struct {
	Filter       Filter
	GeneratedAt  time.Time
	Transactions []ledger.Transaction
	Summary      Summary
}

type Dashboard struct {
	TotalProducts    int
	TotalStock       int
	UnitsSold        int
	Available        []ledger.Product
	LowStock         []ledger.Product
	UpcomingInvoices []ledger.Invoice
}

type Query struct {
	Search   string
	Category string
}

type InventoryRow struct {
	Product  ledger.Product
	LowStock bool
}

type InventoryReport struct {
	Rows          []InventoryRow
	Categories    []string
	TotalProducts int
	TotalStock    int
	LowStockCount int
}

type InvoiceRow struct {
	Invoice      ledger.Invoice
	DaysUntilDue int
	DueState     ledger.DueState
}

type InvoiceReport struct {
	Rows        []InvoiceRow
	Total       int
	Pending     int
	Overdue     int
	PastDue     int
	TotalAmount decimal.Decimal
}
