package importer

import (
	"fmt"
	"io"

	"github.com/MrJamesThe3rd/stockroom/internal/importer/catalog"
	"github.com/MrJamesThe3rd/stockroom/internal/ledger"
)

type Service struct {
	importers map[Format]Importer
}

func NewService() *Service {
	return &Service{
		importers: map[Format]Importer{
			FormatCatalog: catalog.NewParser(),
		},
	}
}

// Import parses r with the importer registered for format. An empty format means catalog.
func (s *Service) Import(format Format, r io.Reader) ([]ledger.ProductParams, error) {
	if format == "" {
		format = FormatCatalog
	}

	importer, ok := s.importers[format]
	if !ok {
		return nil, fmt.Errorf("unknown format: %s", format)
	}

	return importer.Parse(r)
}
