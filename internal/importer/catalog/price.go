package catalog

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

var errEmptyPrice = errors.New("empty price")

// parsePrice accepts "1234.56", "1,234.56", "1.234,56" and "1234,56". When both separators appear
// the last one is the decimal mark; a lone comma is a decimal comma.
func parsePrice(s string) (decimal.Decimal, error) {
	clean := strings.NewReplacer("$", "", "€", "", " ", "", "\u00a0", "").Replace(s)
	if clean == "" {
		return decimal.Decimal{}, errEmptyPrice
	}

	dot := strings.LastIndex(clean, ".")
	comma := strings.LastIndex(clean, ",")

	switch {
	case comma > dot:
		clean = strings.ReplaceAll(clean, ".", "")
		clean = strings.Replace(clean, ",", ".", 1)
	case dot > comma && comma >= 0:
		clean = strings.ReplaceAll(clean, ",", "")
	}

	return decimal.NewFromString(clean)
}
