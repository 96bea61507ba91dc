// Package memory is an in-process port.Sheet used by tests and dry runs.
package memory

import (
	"context"
	"fmt"
	"sync"

	"tiendapos/internal/port"
)

// Sheet keeps a table in memory. Row and column addressing matches a real
// spreadsheet: the header is row 1 and columns start at 1.
type Sheet struct {
	mu     sync.Mutex
	header []string
	rows   [][]string
	writes int

	// FailUpdate and FailAppend make the next matching call fail.
	FailUpdate error
	FailAppend error
}

// New returns a sheet holding a copy of header and rows.
func New(header []string, rows ...[]string) *Sheet {
	s := &Sheet{header: append([]string(nil), header...)}
	for _, r := range rows {
		s.rows = append(s.rows, append([]string(nil), r...))
	}
	return s
}

// Writes counts successful write calls.
func (s *Sheet) Writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}

// Snapshot returns a copy of the current rows, header excluded.
func (s *Sheet) Snapshot() [][]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([][]string, len(s.rows))
	for i, r := range s.rows {
		out[i] = append([]string(nil), r...)
	}
	return out
}

func (s *Sheet) ReadAll(ctx context.Context) (*port.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &port.Table{Header: append([]string(nil), s.header...)}
	for _, r := range s.rows {
		t.Rows = append(t.Rows, append([]string(nil), r...))
	}
	return t, nil
}

func (s *Sheet) UpdateCell(ctx context.Context, row, col int, value string) error {
	return s.UpdateCells(ctx, []port.CellUpdate{{Row: row, Col: col, Value: value}})
}

func (s *Sheet) UpdateCells(ctx context.Context, updates []port.CellUpdate) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailUpdate != nil {
		err := s.FailUpdate
		s.FailUpdate = nil
		return err
	}
	for _, u := range updates {
		if u.Row < 2 || u.Col < 1 {
			return fmt.Errorf("memory sheet: invalid cell (%d,%d)", u.Row, u.Col)
		}
		for len(s.rows) < u.Row-1 {
			s.rows = append(s.rows, nil)
		}
		r := s.rows[u.Row-2]
		for len(r) < u.Col {
			r = append(r, "")
		}
		r[u.Col-1] = u.Value
		s.rows[u.Row-2] = r
	}
	s.writes++
	return nil
}

func (s *Sheet) AppendRows(ctx context.Context, rows [][]string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailAppend != nil {
		err := s.FailAppend
		s.FailAppend = nil
		return err
	}
	for _, r := range rows {
		// On an empty sheet the first appended row lands on row 1.
		if len(s.header) == 0 && len(s.rows) == 0 {
			s.header = append([]string(nil), r...)
			continue
		}
		s.rows = append(s.rows, append([]string(nil), r...))
	}
	s.writes++
	return nil
}
