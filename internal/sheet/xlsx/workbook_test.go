package xlsx_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"tiendapos/internal/port"
	"tiendapos/internal/sheet/xlsx"
)

func newWorkbook(t *testing.T) *xlsx.Workbook {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tienda.xlsx")
	wb, err := xlsx.OpenOrCreate(path)
	require.NoError(t, err)
	require.NoError(t, wb.EnsureSheet("Inventario", []string{"ID_Producto", "Nombre", "Precio", "Stock", "Costo", "SKU_Proveedor"}))
	return wb
}

func TestWorkbook_EnsureSheetWritesHeaderOnce(t *testing.T) {
	wb := newWorkbook(t)
	ctx := context.Background()

	require.NoError(t, wb.Sheet("Inventario").AppendRows(ctx, [][]string{{"P-1", "Arroz", "", "10", "100", "A1"}}))
	require.NoError(t, wb.EnsureSheet("Inventario", []string{"other"}))

	table, err := wb.Sheet("Inventario").ReadAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"ID_Producto", "Nombre", "Precio", "Stock", "Costo", "SKU_Proveedor"}, table.Header)
	require.Len(t, table.Rows, 1)

	f, err := excelize.OpenFile(wb.Path())
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	assert.Equal(t, []string{"Inventario"}, f.GetSheetList())
}

func TestWorkbook_AppendAndUpdate(t *testing.T) {
	wb := newWorkbook(t)
	sh := wb.Sheet("Inventario")
	ctx := context.Background()

	require.NoError(t, sh.AppendRows(ctx, [][]string{
		{"P-1", "Arroz", "1500", "10", "100", "A1"},
		{"P-2", "Frijol", "", "4", "80", "B2"},
	}))
	require.NoError(t, sh.UpdateCells(ctx, []port.CellUpdate{
		{Row: 2, Col: 4, Value: "15"},
		{Row: 2, Col: 5, Value: "110"},
	}))
	require.NoError(t, sh.UpdateCell(ctx, 3, 2, "Frijol rojo"))
	require.NoError(t, sh.AppendRows(ctx, [][]string{{"B9", "Lenteja", "", "3", "50", "B9"}}))

	table, err := sh.ReadAll(ctx)
	require.NoError(t, err)
	require.Len(t, table.Rows, 3)
	assert.Equal(t, []string{"P-1", "Arroz", "1500", "15", "110", "A1"}, table.Rows[0])
	assert.Equal(t, "Frijol rojo", table.Rows[1][1])
	assert.Equal(t, "B9", table.Rows[2][0])
}

func TestWorkbook_ReadsNumericCellsRaw(t *testing.T) {
	wb := newWorkbook(t)

	f, err := excelize.OpenFile(wb.Path())
	require.NoError(t, err)
	require.NoError(t, f.SetCellValue("Inventario", "A2", "P-9"))
	require.NoError(t, f.SetCellValue("Inventario", "D2", 12))
	require.NoError(t, f.SetCellValue("Inventario", "E2", 99.5))
	require.NoError(t, f.Save())
	require.NoError(t, f.Close())

	table, err := wb.Sheet("Inventario").ReadAll(context.Background())
	require.NoError(t, err)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, "12", table.Rows[0][3])
	assert.Equal(t, "99.5", table.Rows[0][4])
}

func TestWorkbook_MissingSheet(t *testing.T) {
	wb := newWorkbook(t)
	_, err := wb.Sheet("Nope").ReadAll(context.Background())
	assert.Error(t, err)
}

func TestWorkbook_CancelledContext(t *testing.T) {
	wb := newWorkbook(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, wb.Sheet("Inventario").AppendRows(ctx, [][]string{{"x"}}), context.Canceled)
}

func TestOpen_MissingFile(t *testing.T) {
	_, err := xlsx.Open(filepath.Join(t.TempDir(), "missing.xlsx"))
	assert.Error(t, err)
}
