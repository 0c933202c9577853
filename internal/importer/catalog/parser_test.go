package catalog_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"github.com/MrJamesThe3rd/stockroom/internal/importer/catalog"
	"github.com/MrJamesThe3rd/stockroom/internal/ledger"
)

func TestParser_English(t *testing.T) {
	csv := `code,name,category,price,stock,min_stock,status
P005,Docking Station,Accesorios,150.00,7,2,active
P006,"Cable HDMI, 2m",Accesorios,"1,299.50",0,5,inactive
`

	products, err := catalog.NewParser().Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, products, 2)

	assert.Equal(t, "P005", products[0].Code)
	assert.Equal(t, "Docking Station", products[0].Name)
	assert.True(t, decimal.RequireFromString("150").Equal(products[0].Price))
	assert.Equal(t, 7, products[0].Stock)
	assert.Equal(t, 2, products[0].MinStock)
	assert.Equal(t, ledger.ProductActive, products[0].Status)

	assert.Equal(t, "Cable HDMI, 2m", products[1].Name)
	assert.True(t, decimal.RequireFromString("1299.50").Equal(products[1].Price))
	assert.Equal(t, ledger.ProductInactive, products[1].Status)
}

func TestParser_SpanishWithPreamble(t *testing.T) {
	csv := `Inventario exportado;2024-01-15

Código;Nombre;Categoría;Precio;Stock;Stock Mínimo
P001;Laptop Dell XPS 13;Electrónicos;1.299,99;5;3

P002;Mouse Inalámbrico;Accesorios;25,99;2;10
`

	products, err := catalog.NewParser().Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, products, 2)

	assert.Equal(t, "Electrónicos", products[0].Category)
	assert.True(t, decimal.RequireFromString("1299.99").Equal(products[0].Price))
	assert.Equal(t, "Mouse Inalámbrico", products[1].Name)
	assert.True(t, decimal.RequireFromString("25.99").Equal(products[1].Price))
	assert.Equal(t, ledger.ProductActive, products[1].Status)
}

func TestParser_Windows1252(t *testing.T) {
	csv := "Código;Nombre;Categoría;Precio;Stock;Stock Mínimo;Estado\nP004;Teclado Mecánico;Accesorios;89,99;1;5;Activo\n"

	encoded, err := charmap.Windows1252.NewEncoder().String(csv)
	require.NoError(t, err)

	products, err := catalog.NewParser().Parse(bytes.NewReader([]byte(encoded)))
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Teclado Mecánico", products[0].Name)
}

func TestParser_Errors(t *testing.T) {
	tests := []struct {
		name    string
		csv     string
		wantErr string
	}{
		{
			name:    "UnknownHeader",
			csv:     "sku,title\nA,B\n",
			wantErr: "no matching catalog format",
		},
		{
			name:    "BadStock",
			csv:     "code,name,category,price,stock,min_stock\nP1,Item,Cat,1.00,five,1\n",
			wantErr: "row 2: invalid stock",
		},
		{
			name:    "BadPriceAfterBlankRow",
			csv:     "code,name,category,price,stock,min_stock\nP1,Item,Cat,1.00,1,1\n\nP2,Item,Cat,abc,1,1\n",
			wantErr: "row 4: invalid price",
		},
		{
			name:    "NegativeMinimum",
			csv:     "code,name,category,price,stock,min_stock\nP1,Item,Cat,1.00,1,-2\n",
			wantErr: "row 2: invalid minimum stock",
		},
		{
			name:    "MissingCode",
			csv:     "code,name,category,price,stock,min_stock\n,Item,Cat,1.00,1,1\n",
			wantErr: "row 2: missing code",
		},
		{
			name:    "UnknownStatus",
			csv:     "code,name,category,price,stock,min_stock,status\nP1,Item,Cat,1.00,1,1,archived\n",
			wantErr: "row 2: unknown status",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := catalog.NewParser().Parse(strings.NewReader(tt.csv))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
