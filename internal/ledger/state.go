package ledger

import (
	"slices"

	"github.com/google/uuid"
)

// State is the full ledger: products in insertion order, the transaction log and the invoices.
type State struct {
	Products     []Product
	Transactions []Transaction
	Invoices     []Invoice
}

// Apply folds events into the state in order. Callers that need several events to be observed
// together must apply them under a single lock.
func (s *State) Apply(events ...Event) {
	for _, e := range events {
		e.apply(s)
	}
}

// Clone returns a copy that shares no slices with s.
func (s *State) Clone() *State {
	return &State{
		Products:     slices.Clone(s.Products),
		Transactions: slices.Clone(s.Transactions),
		Invoices:     slices.Clone(s.Invoices),
	}
}

func (s *State) productIndex(id uuid.UUID) int {
	return slices.IndexFunc(s.Products, func(p Product) bool { return p.ID == id })
}

// Product returns the product with the given id.
func (s *State) Product(id uuid.UUID) (Product, bool) {
	i := s.productIndex(id)
	if i < 0 {
		return Product{}, false
	}

	return s.Products[i], true
}

// HasCode reports whether any product carries the given code.
func (s *State) HasCode(code string) bool {
	return slices.ContainsFunc(s.Products, func(p Product) bool { return p.Code == code })
}
