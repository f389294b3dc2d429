// Package importer reads and writes the bulk promo price CSV format.
package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/GTDGit/promo_api/internal/pricing"
)

var (
	ErrEmptyFile      = errors.New("EMPTY_FILE")
	ErrMissingColumns = errors.New("MISSING_COLUMNS")
)

// PriceRow is one accepted line of an import file.
type PriceRow struct {
	Line  int             `json:"line"`
	Token string          `json:"token"`
	SKU   string          `json:"sku"`
	Price decimal.Decimal `json:"price"`
	Known bool            `json:"known"`
}

// RowError is a line that was dropped.
type RowError struct {
	Line   int    `json:"line"`
	Token  string `json:"token"`
	Value  string `json:"value"`
	Reason string `json:"reason"`
}

// ImportResult holds the accepted rows, one per resolved SKU, in file order.
// A SKU repeated later in the file replaces the earlier price.
type ImportResult struct {
	SKUColumn   string     `json:"skuColumn"`
	PriceColumn string     `json:"priceColumn"`
	Rows        []PriceRow `json:"rows"`
	Invalid     []RowError `json:"invalid"`
}

// Unknown lists the SKUs that did not resolve against the catalog.
func (r *ImportResult) Unknown() []string {
	var out []string
	for _, row := range r.Rows {
		if !row.Known {
			out = append(out, row.SKU)
		}
	}
	return out
}

// ParsePriceCSV reads a header row, locates the SKU column (header containing
// "sku") and the price column (header containing "promo", else "price"), and
// returns the parsed rows. Prices may carry a currency symbol and thousands
// separators.
func ParsePriceCSV(r io.Reader, resolver SKUResolver) (*ImportResult, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmptyFile
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	skuCol, priceCol := locateColumns(header)
	if skuCol < 0 || priceCol < 0 {
		return nil, fmt.Errorf("%w: need a sku column and a promo or price column", ErrMissingColumns)
	}

	res := &ImportResult{
		SKUColumn:   strings.TrimSpace(header[skuCol]),
		PriceColumn: strings.TrimSpace(header[priceCol]),
		Rows:        []PriceRow{},
		Invalid:     []RowError{},
	}
	position := make(map[string]int)

	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if blank(rec) {
			continue
		}

		token := field(rec, skuCol)
		value := field(rec, priceCol)
		if token == "" {
			res.Invalid = append(res.Invalid, RowError{Line: line, Value: value, Reason: "missing sku"})
			continue
		}
		price, ok := pricing.ParseOverride(value)
		if !ok {
			res.Invalid = append(res.Invalid, RowError{Line: line, Token: token, Value: value, Reason: "invalid price"})
			continue
		}

		sku, known := resolver.Resolve(token)
		row := PriceRow{Line: line, Token: token, SKU: sku, Price: price, Known: known}
		key := pricing.CanonicalSKU(sku)
		if i, seen := position[key]; seen {
			res.Rows[i] = row
			continue
		}
		position[key] = len(res.Rows)
		res.Rows = append(res.Rows, row)
	}
	return res, nil
}

func locateColumns(header []string) (skuCol, priceCol int) {
	skuCol, promoCol, plainCol := -1, -1, -1
	for i, h := range header {
		name := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		switch {
		case skuCol < 0 && strings.Contains(name, "sku"):
			skuCol = i
		case promoCol < 0 && strings.Contains(name, "promo"):
			promoCol = i
		case plainCol < 0 && strings.Contains(name, "price"):
			plainCol = i
		}
	}
	if promoCol >= 0 {
		return skuCol, promoCol
	}
	return skuCol, plainCol
}

func field(rec []string, i int) string {
	if i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}

func blank(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// ExportRow is one line of a price export.
type ExportRow struct {
	SKU           string
	Name          string
	BasePrice     decimal.Decimal
	PromoPrice    decimal.Decimal
	DiscountType  string
	DiscountValue decimal.Decimal
	MarginPct     decimal.Decimal
}

var exportHeader = []string{"SKU", "Name", "Base Price", "Promo Price", "Discount Type", "Discount Value", "Margin %"}

// WritePriceCSV writes rows in a layout that ParsePriceCSV reads back through
// the Promo Price column.
func WritePriceCSV(w io.Writer, rows []ExportRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return err
	}
	for _, r := range rows {
		rec := []string{
			r.SKU,
			r.Name,
			r.BasePrice.StringFixed(2),
			r.PromoPrice.StringFixed(2),
			r.DiscountType,
			r.DiscountValue.String(),
			r.MarginPct.StringFixed(2),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
