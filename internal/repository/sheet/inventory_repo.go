package sheet

import (
	"context"
	"fmt"
	"strconv"

	"tiendapos/internal/domain"
	"tiendapos/internal/port"
)

const inventoryTable = "inventory"

type inventoryRepo struct {
	sheet port.Sheet
}

// NewInventoryRepo creates a sheet-backed InventoryRepository.
func NewInventoryRepo(sheet port.Sheet) port.InventoryRepository {
	return &inventoryRepo{sheet: sheet}
}

func (r *inventoryRepo) ListRecords(ctx context.Context) ([]domain.InventoryRecord, error) {
	table, cols, err := r.readChecked(ctx)
	if err != nil {
		return nil, err
	}

	records := make([]domain.InventoryRecord, 0, len(table.Rows))
	for i, row := range table.Rows {
		if blankRow(row) {
			continue
		}
		records = append(records, domain.InventoryRecord{
			RowKey:      strconv.Itoa(i + 2),
			ProductID:   cols.get(row, domain.ColProductID),
			Name:        cols.get(row, domain.ColName),
			Price:       optionalAmount(cols.get(row, domain.ColPrice)),
			Stock:       amount(cols.get(row, domain.ColStock)),
			Cost:        amount(cols.get(row, domain.ColCost)),
			SupplierSKU: cols.get(row, domain.ColSupplierSKU),
		})
	}
	return records, nil
}

func (r *inventoryRepo) UpdateFields(ctx context.Context, updates []domain.FieldUpdate) error {
	if len(updates) == 0 {
		return nil
	}
	table, err := r.sheet.ReadAll(ctx)
	if err != nil {
		return fmt.Errorf("inventoryRepo.UpdateFields: %w", err)
	}
	cols := indexHeader(table.Header)

	cells := make([]port.CellUpdate, 0, len(updates)*2)
	for _, u := range updates {
		row, err := strconv.Atoi(u.RowKey)
		if err != nil || row < 2 {
			return fmt.Errorf("inventoryRepo.UpdateFields: invalid row key %q", u.RowKey)
		}
		for name, value := range u.Fields {
			col, ok := cols[name]
			if !ok {
				return fmt.Errorf("inventoryRepo.UpdateFields: %w", &domain.SchemaMismatchError{Table: inventoryTable, Column: name})
			}
			cells = append(cells, port.CellUpdate{Row: row, Col: col, Value: value})
		}
	}

	if err := r.sheet.UpdateCells(ctx, cells); err != nil {
		return fmt.Errorf("inventoryRepo.UpdateFields: %w", err)
	}
	return nil
}

func (r *inventoryRepo) InsertRecords(ctx context.Context, records []domain.InventoryRecord) error {
	if len(records) == 0 {
		return nil
	}
	table, cols, err := r.readChecked(ctx)
	if err != nil {
		return err
	}

	rows := make([][]string, 0, len(records))
	for i := range records {
		rec := &records[i]
		price := ""
		if rec.Price != nil {
			price = rec.Price.String()
		}
		rows = append(rows, cols.row(len(table.Header), map[string]string{
			domain.ColProductID:   rec.ProductID,
			domain.ColName:        rec.Name,
			domain.ColPrice:       price,
			domain.ColStock:       rec.Stock.String(),
			domain.ColCost:        rec.Cost.String(),
			domain.ColSupplierSKU: rec.SupplierSKU,
		}))
	}

	if err := r.sheet.AppendRows(ctx, rows); err != nil {
		return fmt.Errorf("inventoryRepo.InsertRecords: %w", err)
	}
	return nil
}

func (r *inventoryRepo) readChecked(ctx context.Context) (*port.Table, columns, error) {
	table, err := r.sheet.ReadAll(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("inventoryRepo: reading sheet: %w", err)
	}
	cols := indexHeader(table.Header)
	if err := cols.require(inventoryTable, domain.RequiredInventoryColumns...); err != nil {
		return nil, nil, fmt.Errorf("inventoryRepo: %w", err)
	}
	return table, cols, nil
}
