package product

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/stockroom/internal/ledger"
)

// Response is the JSON shape of a product.
type Response struct {
	ID       uuid.UUID            `json:"id"`
	Code     string               `json:"code"`
	Name     string               `json:"name"`
	Category string               `json:"category"`
	Price    decimal.Decimal      `json:"price"`
	Stock    int                  `json:"stock"`
	MinStock int                  `json:"min_stock"`
	Status   ledger.ProductStatus `json:"status"`
	LowStock bool                 `json:"low_stock"`
}

func ToResponse(p ledger.Product) Response {
	return Response{
		ID:       p.ID,
		Code:     p.Code,
		Name:     p.Name,
		Category: p.Category,
		Price:    p.Price,
		Stock:    p.Stock,
		MinStock: p.MinStock,
		Status:   p.Status,
		LowStock: p.LowStock(),
	}
}

func ToResponseList(products []ledger.Product) []Response {
	out := make([]Response, 0, len(products))
	for _, p := range products {
		out = append(out, ToResponse(p))
	}

	return out
}
