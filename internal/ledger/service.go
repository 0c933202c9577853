package ledger

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultUpcomingWindow is how far ahead UpcomingInvoices looks.
const DefaultUpcomingWindow = 7 * 24 * time.Hour

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=ledger
type Repository interface {
	// Append applies all events as one transition.
	Append(ctx context.Context, events ...Event) error
	// Snapshot returns a copy of the current state that the caller may keep.
	Snapshot(ctx context.Context) (*State, error)
}

// Clock supplies the current time for transaction timestamps and due-date queries.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

type Service struct {
	repo   Repository
	clock  Clock
	window time.Duration
}

type Option func(*Service)

func WithClock(c Clock) Option {
	return func(s *Service) { s.clock = c }
}

// WithUpcomingWindow overrides DefaultUpcomingWindow. Non-positive values are ignored.
func WithUpcomingWindow(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.window = d
		}
	}
}

func NewService(repo Repository, opts ...Option) *Service {
	s := &Service{
		repo:   repo,
		clock:  systemClock{},
		window: DefaultUpcomingWindow,
	}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Now is the service clock's current time.
func (s *Service) Now() time.Time {
	return s.clock.Now()
}

// UpcomingWindow is the look-ahead used by UpcomingInvoices.
func (s *Service) UpcomingWindow() time.Duration {
	return s.window
}

type ProductParams struct {
	Code     string
	Name     string
	Category string
	Price    decimal.Decimal
	Stock    int
	MinStock int
	Status   ProductStatus
}

func (p ProductParams) product(id uuid.UUID) Product {
	return Product{
		ID:       id,
		Code:     p.Code,
		Name:     p.Name,
		Category: p.Category,
		Price:    p.Price,
		Stock:    p.Stock,
		MinStock: p.MinStock,
		Status:   p.Status,
	}
}

type TransactionParams struct {
	ProductID   uuid.UUID
	ProductName string
	Type        TransactionType
	Quantity    int
	UserID      string
}

// AddProduct stores a new product under a fresh id. Codes are not checked for uniqueness.
func (s *Service) AddProduct(ctx context.Context, params ProductParams) (*Product, error) {
	p := params.product(uuid.New())
	if err := s.repo.Append(ctx, ProductAdded{Product: p}); err != nil {
		return nil, fmt.Errorf("adding product: %w", err)
	}

	return &p, nil
}

// UpdateProduct merges patch into the product. An unknown id is a no-op.
func (s *Service) UpdateProduct(ctx context.Context, id uuid.UUID, patch ProductPatch) error {
	if err := s.repo.Append(ctx, ProductUpdated{ID: id, Patch: patch}); err != nil {
		return fmt.Errorf("updating product: %w", err)
	}

	return nil
}

// DeleteProduct removes the product. Transactions referencing it are kept.
func (s *Service) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Append(ctx, ProductDeleted{ID: id}); err != nil {
		return fmt.Errorf("deleting product: %w", err)
	}

	return nil
}

// AddTransaction logs a movement stamped with the current time and adjusts stock in the same
// transition. Sales may take stock below zero.
func (s *Service) AddTransaction(ctx context.Context, params TransactionParams) (*Transaction, error) {
	tx := Transaction{
		ID:          uuid.New(),
		ProductID:   params.ProductID,
		ProductName: params.ProductName,
		Type:        params.Type,
		Quantity:    params.Quantity,
		Date:        s.clock.Now(),
		UserID:      params.UserID,
	}
	if err := s.repo.Append(ctx, TransactionRecorded{Transaction: tx}); err != nil {
		return nil, fmt.Errorf("recording transaction: %w", err)
	}

	return &tx, nil
}

type ImportResult struct {
	Imported  []Product
	Conflicts []Conflict
}

// Conflict is an incoming product whose code already belongs to Existing.
type Conflict struct {
	Incoming ProductParams
	Existing Product
}

// ImportBatch adds every product whose code is not taken yet, in one transition.
// Codes repeated inside the batch keep their first occurrence.
func (s *Service) ImportBatch(ctx context.Context, params []ProductParams) (*ImportResult, error) {
	if len(params) == 0 {
		return &ImportResult{}, nil
	}

	st, err := s.repo.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading ledger: %w", err)
	}

	byCode := make(map[string]Product, len(st.Products))
	for _, p := range st.Products {
		if _, seen := byCode[p.Code]; !seen {
			byCode[p.Code] = p
		}
	}

	result := &ImportResult{}
	events := make([]Event, 0, len(params))

	for _, p := range params {
		if existing, found := byCode[p.Code]; found {
			result.Conflicts = append(result.Conflicts, Conflict{Incoming: p, Existing: existing})
			continue
		}

		product := p.product(uuid.New())
		byCode[product.Code] = product
		result.Imported = append(result.Imported, product)
		events = append(events, ProductAdded{Product: product})
	}

	if len(events) == 0 {
		return result, nil
	}

	if err := s.repo.Append(ctx, events...); err != nil {
		return nil, fmt.Errorf("importing products: %w", err)
	}

	return result, nil
}

func (s *Service) State(ctx context.Context) (*State, error) {
	st, err := s.repo.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading ledger: %w", err)
	}

	return st, nil
}

func (s *Service) Products(ctx context.Context) ([]Product, error) {
	st, err := s.State(ctx)
	if err != nil {
		return nil, err
	}

	return st.Products, nil
}

func (s *Service) Product(ctx context.Context, id uuid.UUID) (*Product, error) {
	st, err := s.State(ctx)
	if err != nil {
		return nil, err
	}

	p, ok := st.Product(id)
	if !ok {
		return nil, ErrNotFound
	}

	return &p, nil
}

func (s *Service) Transactions(ctx context.Context) ([]Transaction, error) {
	st, err := s.State(ctx)
	if err != nil {
		return nil, err
	}

	return st.Transactions, nil
}

func (s *Service) Invoices(ctx context.Context) ([]Invoice, error) {
	st, err := s.State(ctx)
	if err != nil {
		return nil, err
	}

	return st.Invoices, nil
}

// LowStockProducts returns the products whose stock is at or below their minimum.
func (s *Service) LowStockProducts(ctx context.Context) ([]Product, error) {
	products, err := s.Products(ctx)
	if err != nil {
		return nil, err
	}

	return LowStock(products), nil
}

// UpcomingInvoices returns pending invoices due no later than now plus the upcoming window.
// Pending invoices whose due date already passed are included.
func (s *Service) UpcomingInvoices(ctx context.Context) ([]Invoice, error) {
	invoices, err := s.Invoices(ctx)
	if err != nil {
		return nil, err
	}

	return Upcoming(invoices, s.clock.Now(), s.window), nil
}

// LowStock filters products with Stock <= MinStock, preserving order.
func LowStock(products []Product) []Product {
	out := make([]Product, 0)
	for _, p := range products {
		if p.LowStock() {
			out = append(out, p)
		}
	}

	return out
}

// Upcoming filters pending invoices due at or before now+window, preserving order.
func Upcoming(invoices []Invoice, now time.Time, window time.Duration) []Invoice {
	limit := now.Add(window)

	return slices.DeleteFunc(slices.Clone(invoices), func(inv Invoice) bool {
		return inv.Status != InvoicePending || inv.DueDate.After(limit)
	})
}
