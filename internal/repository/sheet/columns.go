// Package sheet implements the inventory, sales and purchase repositories
// over a port.Sheet, addressing columns by header name.
package sheet

import (
	"strings"

	"github.com/shopspring/decimal"

	"tiendapos/internal/domain"
)

// columns maps header name to 1-based column number. The first occurrence
// of a repeated header wins.
type columns map[string]int

func indexHeader(header []string) columns {
	cols := make(columns, len(header))
	for i, h := range header {
		if _, dup := cols[h]; !dup && h != "" {
			cols[h] = i + 1
		}
	}
	return cols
}

// require fails with a SchemaMismatchError naming the first absent column.
func (c columns) require(table string, names ...string) error {
	for _, n := range names {
		if _, ok := c[n]; !ok {
			return &domain.SchemaMismatchError{Table: table, Column: n}
		}
	}
	return nil
}

func (c columns) get(row []string, name string) string {
	col, ok := c[name]
	if !ok || col > len(row) {
		return ""
	}
	return strings.TrimSpace(row[col-1])
}

// row lays values out in header order. Unknown headers stay blank.
func (c columns) row(width int, values map[string]string) []string {
	out := make([]string, width)
	for name, v := range values {
		if col, ok := c[name]; ok {
			out[col-1] = v
		}
	}
	return out
}

// amount reads a numeric cell. Blank and non-numeric cells are zero.
func amount(s string) decimal.Decimal {
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func optionalAmount(s string) *decimal.Decimal {
	if s == "" {
		return nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil
	}
	return &d
}

func blankRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
