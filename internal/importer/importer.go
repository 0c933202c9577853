package importer

import (
	"io"

	"github.com/MrJamesThe3rd/stockroom/internal/ledger"
)

// Format names a supported upload layout.
type Format string

const (
	FormatCatalog Format = "catalog"
)

type Importer interface {
	Parse(r io.Reader) ([]ledger.ProductParams, error)
}
