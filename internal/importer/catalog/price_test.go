package catalog

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePrice(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "1234.56", want: "1234.56"},
		{in: "1,234.56", want: "1234.56"},
		{in: "1.234,56", want: "1234.56"},
		{in: "1234,56", want: "1234.56"},
		{in: "$ 25.99", want: "25.99"},
		{in: "89,99 €", want: "89.99"},
		{in: "10", want: "10"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parsePrice(tt.in)
			require.NoError(t, err)
			assert.True(t, decimal.RequireFromString(tt.want).Equal(got), "got %s", got)
		})
	}
}

func TestParsePrice_Invalid(t *testing.T) {
	_, err := parsePrice("")
	assert.ErrorIs(t, err, errEmptyPrice)

	_, err = parsePrice("twelve")
	assert.Error(t, err)
}
