package port

import "context"

// Table is a full read of one sheet. Rows excludes the header row; Rows[i]
// lives on sheet row i+2.
type Table struct {
	Header []string
	Rows   [][]string
}

// CellUpdate addresses one cell by 1-based sheet row and column.
type CellUpdate struct {
	Row   int
	Col   int
	Value string
}

// Sheet is the low-level tabular store a spreadsheet backend exposes.
type Sheet interface {
	ReadAll(ctx context.Context) (*Table, error)
	UpdateCell(ctx context.Context, row, col int, value string) error
	UpdateCells(ctx context.Context, updates []CellUpdate) error
	AppendRows(ctx context.Context, rows [][]string) error
}
