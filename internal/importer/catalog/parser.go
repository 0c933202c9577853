package catalog

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	enc "github.com/MrJamesThe3rd/stockroom/internal/encoding"
	"github.com/MrJamesThe3rd/stockroom/internal/ledger"
)

// delimiters are tried in order until one yields a known header.
var delimiters = []rune{';', ','}

// Parser reads product catalog CSV files in any of the known column profiles.
type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

func (p *Parser) Parse(r io.Reader) ([]ledger.ProductParams, error) {
	utf8r, err := enc.NewUTF8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	data, err := io.ReadAll(utf8r)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}

	for _, comma := range delimiters {
		rows, err := readRows(data, comma)
		if err != nil {
			continue
		}

		profile, cols, headerIdx := detectProfile(rows)
		if profile == nil {
			continue
		}

		return parseRows(profile, cols, rows[headerIdx+1:])
	}

	return nil, fmt.Errorf("no matching catalog format found: expected columns %s",
		strings.Join(profiles[0].requiredCols(), ","))
}

// row is a CSV record with the 1-based line it started on. The csv reader drops blank lines,
// so the slice index alone would misreport positions.
type row struct {
	line  int
	cells []string
}

func readRows(data []byte, comma rune) ([]row, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = comma
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var rows []row

	for {
		cells, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return rows, nil
		}

		if err != nil {
			return nil, err
		}

		line, _ := reader.FieldPos(0)
		rows = append(rows, row{line: line, cells: cells})
	}
}

type colIndex map[string]int

func detectProfile(rows []row) (*Profile, colIndex, int) {
	for rowIdx, r := range rows {
		cols := make(colIndex)

		for i, cell := range r.cells {
			name := strings.ToLower(strings.TrimSpace(cell))
			if name != "" {
				cols[name] = i
			}
		}

		for i := range profiles {
			if matchesProfile(&profiles[i], cols) {
				return &profiles[i], cols, rowIdx
			}
		}
	}

	return nil, nil, 0
}

func matchesProfile(p *Profile, cols colIndex) bool {
	for _, name := range p.requiredCols() {
		if _, ok := cols[name]; !ok {
			return false
		}
	}

	return true
}

func parseRows(p *Profile, cols colIndex, rows []row) ([]ledger.ProductParams, error) {
	statusIdx, hasStatus := cols[p.StatusCol]
	if !hasStatus {
		statusIdx = -1
	}

	products := make([]ledger.ProductParams, 0, len(rows))

	for _, r := range rows {
		rowNum, cells := r.line, r.cells

		if blank(cells) {
			continue
		}

		code := cellValue(cells, cols[p.CodeCol])
		if code == "" {
			return nil, fmt.Errorf("row %d: missing code", rowNum)
		}

		name := cellValue(cells, cols[p.NameCol])
		if name == "" {
			return nil, fmt.Errorf("row %d: missing name", rowNum)
		}

		price, err := parsePrice(cellValue(cells, cols[p.PriceCol]))
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid price: %w", rowNum, err)
		}

		if price.IsNegative() {
			return nil, fmt.Errorf("row %d: negative price", rowNum)
		}

		stock, err := parseCount(cellValue(cells, cols[p.StockCol]))
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid stock: %w", rowNum, err)
		}

		minStock, err := parseCount(cellValue(cells, cols[p.MinStockCol]))
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid minimum stock: %w", rowNum, err)
		}

		status, ok := statuses[strings.ToLower(cellValue(cells, statusIdx))]
		if !ok {
			return nil, fmt.Errorf("row %d: unknown status %q", rowNum, cellValue(cells, statusIdx))
		}

		products = append(products, ledger.ProductParams{
			Code:     code,
			Name:     name,
			Category: cellValue(cells, cols[p.CategoryCol]),
			Price:    price,
			Stock:    stock,
			MinStock: minStock,
			Status:   ledger.ProductStatus(status),
		})
	}

	return products, nil
}

func parseCount(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}

	if n < 0 {
		return 0, fmt.Errorf("negative value %d", n)
	}

	return n, nil
}

func blank(cells []string) bool {
	for _, cell := range cells {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}

	return true
}

func cellValue(cells []string, idx int) string {
	if idx < 0 || idx >= len(cells) {
		return ""
	}

	return strings.TrimSpace(cells[idx])
}
