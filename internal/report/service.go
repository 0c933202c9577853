package report

import (
	"context"
	"fmt"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/MrJamesThe3rd/stockroom/internal/ledger"
)

const (
	week  = 7 * 24 * time.Hour
	month = 30 * 24 * time.Hour
)

// Service derives read-only views from the ledger.
type Service struct {
	ledger *ledger.Service
}

func NewService(ledgerSvc *ledger.Service) *Service {
	return &Service{ledger: ledgerSvc}
}

// Dashboard derives every figure from one ledger snapshot, so a sale and its stock change are
// always counted together.
func (s *Service) Dashboard(ctx context.Context) (*Dashboard, error) {
	st, err := s.ledger.State(ctx)
	if err != nil {
		return nil, fmt.Errorf("building dashboard: %w", err)
	}

	now := s.ledger.Now()
	d := Dashboard{TotalProducts: len(st.Products)}

	var g errgroup.Group

	g.Go(func() error {
		d.Available = make([]ledger.Product, 0, len(st.Products))

		for _, p := range st.Products {
			d.TotalStock += p.Stock

			if p.Stock > 0 {
				d.Available = append(d.Available, p)
			}
		}

		return nil
	})

	g.Go(func() error {
		for _, tx := range st.Transactions {
			if tx.Type == ledger.TypeSale {
				d.UnitsSold += tx.Quantity
			}
		}

		return nil
	})

	g.Go(func() error {
		d.LowStock = ledger.LowStock(st.Products)
		return nil
	})

	g.Go(func() error {
		d.UpcomingInvoices = ledger.Upcoming(st.Invoices, now, s.ledger.UpcomingWindow())
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("building dashboard: %w", err)
	}

	return &d, nil
}

// Transactions filters the log by type, period and the referenced product's current category.
func (s *Service) Transactions(ctx context.Context, f Filter) (*TransactionReport, error) {
	st, err := s.ledger.State(ctx)
	if err != nil {
		return nil, err
	}

	now := s.ledger.Now()

	categories := make(map[uuid.UUID]string, len(st.Products))
	for _, p := range st.Products {
		categories[p.ID] = p.Category
	}

	report := &TransactionReport{
		Filter:       f,
		GeneratedAt:  now,
		Transactions: make([]ledger.Transaction, 0),
	}

	for _, tx := range st.Transactions {
		if f.Type != "" && tx.Type != f.Type {
			continue
		}

		if !inPeriod(tx.Date, now, f.Period) {
			continue
		}

		if f.Category != "" {
			category, ok := categories[tx.ProductID]
			if !ok || category != f.Category {
				continue
			}
		}

		report.Transactions = append(report.Transactions, tx)
	}

	report.Summary = summarize(report.Transactions)

	return report, nil
}

func inPeriod(date, now time.Time, p Period) bool {
	switch p {
	case PeriodToday:
		y1, m1, d1 := date.In(now.Location()).Date()
		y2, m2, d2 := now.Date()

		return y1 == y2 && m1 == m2 && d1 == d2
	case PeriodWeek:
		return !date.Before(now.Add(-week))
	case PeriodMonth:
		return !date.Before(now.Add(-month))
	default:
		return true
	}
}

func summarize(txs []ledger.Transaction) Summary {
	sum := Summary{TotalTransactions: len(txs)}

	for _, tx := range txs {
		switch tx.Type {
		case ledger.TypeSale:
			sum.SaleCount++
			sum.TotalSales += tx.Quantity
		case ledger.TypePurchase:
			sum.PurchaseCount++
			sum.TotalPurchases += tx.Quantity
		}
	}

	return sum
}

// Inventory lists products matching q. Search is a case-insensitive substring of name or code.
func (s *Service) Inventory(ctx context.Context, q Query) (*InventoryReport, error) {
	products, err := s.ledger.Products(ctx)
	if err != nil {
		return nil, err
	}

	report := &InventoryReport{
		Rows:       make([]InventoryRow, 0, len(products)),
		Categories: Categories(products),
	}

	for _, p := range Search(products, q) {
		low := p.LowStock()

		report.Rows = append(report.Rows, InventoryRow{Product: p, LowStock: low})
		report.TotalStock += p.Stock

		if low {
			report.LowStockCount++
		}
	}

	report.TotalProducts = len(report.Rows)

	return report, nil
}

// Search filters products by name or code substring and exact category.
func Search(products []ledger.Product, q Query) []ledger.Product {
	needle := strings.ToLower(strings.TrimSpace(q.Search))

	out := make([]ledger.Product, 0, len(products))
	for _, p := range products {
		if q.Category != "" && p.Category != q.Category {
			continue
		}

		if needle != "" &&
			!strings.Contains(strings.ToLower(p.Name), needle) &&
			!strings.Contains(strings.ToLower(p.Code), needle) {
			continue
		}

		out = append(out, p)
	}

	return out
}

// Categories returns the distinct product categories in first-seen order.
func Categories(products []ledger.Product) []string {
	out := make([]string, 0)
	for _, p := range products {
		if p.Category != "" && !slices.Contains(out, p.Category) {
			out = append(out, p.Category)
		}
	}

	return out
}

// Invoices lists invoices whose number contains search, case-insensitively.
func (s *Service) Invoices(ctx context.Context, search string) (*InvoiceReport, error) {
	invoices, err := s.ledger.Invoices(ctx)
	if err != nil {
		return nil, err
	}

	var (
		now    = s.ledger.Now()
		window = s.ledger.UpcomingWindow()
		needle = strings.ToLower(strings.TrimSpace(search))
	)

	report := &InvoiceReport{
		Rows:        make([]InvoiceRow, 0, len(invoices)),
		TotalAmount: decimal.Zero,
	}

	for _, inv := range invoices {
		if needle != "" && !strings.Contains(strings.ToLower(inv.Number), needle) {
			continue
		}

		row := InvoiceRow{
			Invoice:      inv,
			DaysUntilDue: DaysUntil(inv.DueDate, now),
			DueState:     ledger.ClassifyDue(inv, now, window),
		}
		report.Rows = append(report.Rows, row)
		report.TotalAmount = report.TotalAmount.Add(inv.Amount)

		switch inv.Status {
		case ledger.InvoicePending:
			report.Pending++
		case ledger.InvoiceOverdue:
			report.Overdue++
		}

		if row.DueState == ledger.DueOverdue {
			report.PastDue++
		}
	}

	report.Total = len(report.Rows)

	return report, nil
}

// DaysUntil is the number of days from now to due, rounded up. Past dates give zero or less.
func DaysUntil(due, now time.Time) int {
	return int(math.Ceil(due.Sub(now).Hours() / 24))
}
