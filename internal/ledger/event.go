package ledger

import (
	"slices"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Event is a logged ledger mutation. Only this package defines events.
type Event interface {
	apply(s *State)
}

// ProductAdded appends a product.
type ProductAdded struct {
	Product Product
}

func (e ProductAdded) apply(s *State) {
	s.Products = append(s.Products, e.Product)
}

// ProductPatch carries the fields to overwrite on update. Nil fields are left alone.
type ProductPatch struct {
	Code     *string
	Name     *string
	Category *string
	Price    *decimal.Decimal
	Stock    *int
	MinStock *int
	Status   *ProductStatus
}

// Merge returns p with the non-nil patch fields applied.
func (pp ProductPatch) Merge(p Product) Product {
	if pp.Code != nil {
		p.Code = *pp.Code
	}

	if pp.Name != nil {
		p.Name = *pp.Name
	}

	if pp.Category != nil {
		p.Category = *pp.Category
	}

	if pp.Price != nil {
		p.Price = *pp.Price
	}

	if pp.Stock != nil {
		p.Stock = *pp.Stock
	}

	if pp.MinStock != nil {
		p.MinStock = *pp.MinStock
	}

	if pp.Status != nil {
		p.Status = *pp.Status
	}

	return p
}

// ProductUpdated merges a patch into the product with ID. Unknown ids are ignored.
type ProductUpdated struct {
	ID    uuid.UUID
	Patch ProductPatch
}

func (e ProductUpdated) apply(s *State) {
	i := s.productIndex(e.ID)
	if i < 0 {
		return
	}

	s.Products[i] = e.Patch.Merge(s.Products[i])
}

// ProductDeleted removes the product with ID. Its transactions stay in the log.
type ProductDeleted struct {
	ID uuid.UUID
}

func (e ProductDeleted) apply(s *State) {
	s.Products = slices.DeleteFunc(s.Products, func(p Product) bool { return p.ID == e.ID })
}

// TransactionRecorded appends the transaction and moves the referenced product's stock.
// Both effects come from this one event, so no reader sees one without the other.
type TransactionRecorded struct {
	Transaction Transaction
}

func (e TransactionRecorded) apply(s *State) {
	s.Transactions = append(s.Transactions, e.Transaction)

	i := s.productIndex(e.Transaction.ProductID)
	if i < 0 {
		return
	}

	s.Products[i].Stock += e.Transaction.Type.Delta(e.Transaction.Quantity)
}
