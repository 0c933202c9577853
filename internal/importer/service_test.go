package importer_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/stockroom/internal/importer"
)

func TestService_Import(t *testing.T) {
	svc := importer.NewService()
	csv := "code,name,category,price,stock,min_stock\nP9,Hub USB,Accesorios,19.90,4,2\n"

	for _, format := range []importer.Format{"", importer.FormatCatalog} {
		products, err := svc.Import(format, strings.NewReader(csv))
		require.NoError(t, err)
		require.Len(t, products, 1)
		assert.Equal(t, "P9", products[0].Code)
	}
}

func TestService_Import_UnknownFormat(t *testing.T) {
	_, err := importer.NewService().Import("xlsx", strings.NewReader(""))
	assert.ErrorContains(t, err, "unknown format")
}
