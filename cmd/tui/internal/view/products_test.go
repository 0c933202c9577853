package view

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/stockroom/internal/ledger"
)

func TestProductForm_RoundTrip(t *testing.T) {
	p := ledger.Product{
		Code:     "P001",
		Name:     "Laptop",
		Category: "Electrónicos",
		Price:    decimal.RequireFromString("1299.99"),
		Stock:    5,
		MinStock: 3,
		Status:   ledger.ProductActive,
	}

	got := formFor(p).params()

	assert.Equal(t, p.Code, got.Code)
	assert.Equal(t, p.Stock, got.Stock)
	assert.Equal(t, p.MinStock, got.MinStock)
	assert.True(t, p.Price.Equal(got.Price))
	assert.Equal(t, p.Status, got.Status)
}

func TestProductForm_Validators(t *testing.T) {
	assert.NoError(t, validPrice("10.50"))
	assert.EqualError(t, validPrice("-1"), "price must not be negative")
	assert.EqualError(t, validPrice("abc"), "price must be a number")

	assert.NoError(t, validCount("stock")("0"))
	assert.Error(t, validCount("stock")("-2"))
	assert.Error(t, validCount("stock")("1.5"))

	assert.EqualError(t, required("code")("  "), "code is required")
}
