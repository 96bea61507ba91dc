// Package xlsx implements port.Sheet on top of a local Excel workbook.
package xlsx

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/xuri/excelize/v2"

	"tiendapos/internal/port"
)

// Workbook is a workbook file on disk. Every operation opens the file,
// applies its change and saves, so external edits between calls are seen.
// Writes from this process are serialized.
type Workbook struct {
	path string
	mu   sync.Mutex
}

// Open returns a Workbook for an existing file.
func Open(path string) (*Workbook, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("xlsx.Open: %w", err)
	}
	return &Workbook{path: path}, nil
}

// OpenOrCreate opens path, creating an empty workbook when it does not exist.
func OpenOrCreate(path string) (*Workbook, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		f := excelize.NewFile()
		defer func() { _ = f.Close() }()
		if err := f.SaveAs(path); err != nil {
			return nil, fmt.Errorf("xlsx.OpenOrCreate: %w", err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("xlsx.OpenOrCreate: %w", err)
	}
	return &Workbook{path: path}, nil
}

// Path returns the file location.
func (w *Workbook) Path() string {
	return w.path
}

// Sheet returns a handle to one worksheet. The worksheet need not exist yet.
func (w *Workbook) Sheet(name string) port.Sheet {
	return &sheet{wb: w, name: name}
}

// EnsureSheet creates the worksheet with the given header row when it is
// missing. An existing worksheet is left untouched.
func (w *Workbook) EnsureSheet(name string, header []string) error {
	return w.update(func(f *excelize.File) error {
		idx, err := f.GetSheetIndex(name)
		if err != nil {
			return err
		}
		if idx >= 0 {
			return nil
		}
		if _, err := f.NewSheet(name); err != nil {
			return err
		}
		row := make([]interface{}, len(header))
		for i, h := range header {
			row[i] = h
		}
		if err := f.SetSheetRow(name, "A1", &row); err != nil {
			return err
		}
		// Drop the placeholder sheet a fresh workbook carries.
		if def, _ := f.GetSheetIndex("Sheet1"); def >= 0 && name != "Sheet1" {
			rows, _ := f.GetRows("Sheet1")
			if len(rows) == 0 {
				return f.DeleteSheet("Sheet1")
			}
		}
		return nil
	})
}

func (w *Workbook) read(fn func(f *excelize.File) error) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	f, err := excelize.OpenFile(w.path)
	if err != nil {
		return fmt.Errorf("opening workbook: %w", err)
	}
	defer func() { _ = f.Close() }()
	return fn(f)
}

func (w *Workbook) update(fn func(f *excelize.File) error) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	f, err := excelize.OpenFile(w.path)
	if err != nil {
		return fmt.Errorf("opening workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	if err := fn(f); err != nil {
		return err
	}
	if err := f.Save(); err != nil {
		return fmt.Errorf("saving workbook: %w", err)
	}
	return nil
}

type sheet struct {
	wb   *Workbook
	name string
}

func (s *sheet) ReadAll(ctx context.Context) (*port.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var table port.Table
	err := s.wb.read(func(f *excelize.File) error {
		rows, err := f.GetRows(s.name, excelize.Options{RawCellValue: true})
		if err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		table.Header = rows[0]
		table.Rows = rows[1:]
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("xlsx.ReadAll %s: %w", s.name, err)
	}
	return &table, nil
}

func (s *sheet) UpdateCell(ctx context.Context, row, col int, value string) error {
	return s.UpdateCells(ctx, []port.CellUpdate{{Row: row, Col: col, Value: value}})
}

func (s *sheet) UpdateCells(ctx context.Context, updates []port.CellUpdate) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(updates) == 0 {
		return nil
	}
	err := s.wb.update(func(f *excelize.File) error {
		for _, u := range updates {
			cell, err := excelize.CoordinatesToCellName(u.Col, u.Row)
			if err != nil {
				return err
			}
			if err := f.SetCellStr(s.name, cell, u.Value); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("xlsx.UpdateCells %s: %w", s.name, err)
	}
	return nil
}

func (s *sheet) AppendRows(ctx context.Context, rows [][]string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}
	err := s.wb.update(func(f *excelize.File) error {
		existing, err := f.GetRows(s.name)
		if err != nil {
			return err
		}
		next := len(existing) + 1
		for i, r := range rows {
			cell, err := excelize.CoordinatesToCellName(1, next+i)
			if err != nil {
				return err
			}
			values := make([]interface{}, len(r))
			for j, v := range r {
				values[j] = v
			}
			if err := f.SetSheetRow(s.name, cell, &values); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("xlsx.AppendRows %s: %w", s.name, err)
	}
	return nil
}
