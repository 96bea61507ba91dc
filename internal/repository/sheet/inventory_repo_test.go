package sheet_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tiendapos/internal/domain"
	"tiendapos/internal/repository/sheet"
	"tiendapos/internal/sheet/memory"
)

var inventoryHeader = []string{"ID_Producto", "Nombre", "Precio", "Stock", "Costo", "SKU_Proveedor"}

func TestInventoryRepo_ListRecords(t *testing.T) {
	sh := memory.New(inventoryHeader,
		[]string{"P-1", "Arroz 500g", "1500", "10", "100", "A1"},
		[]string{"", "", "", "", "", ""},
		[]string{"P-2", "Frijol", "", "x", "", "B2"},
	)
	repo := sheet.NewInventoryRepo(sh)

	recs, err := repo.ListRecords(context.Background())
	require.NoError(t, err)
	require.Len(t, recs, 2)

	assert.Equal(t, "2", recs[0].RowKey)
	assert.Equal(t, "A1", recs[0].SupplierSKU)
	require.NotNil(t, recs[0].Price)
	assert.True(t, decimal.NewFromInt(1500).Equal(*recs[0].Price))
	assert.True(t, decimal.NewFromInt(10).Equal(recs[0].Stock))

	assert.Equal(t, "4", recs[1].RowKey, "blank rows keep their sheet position")
	assert.Nil(t, recs[1].Price)
	assert.True(t, recs[1].Stock.IsZero(), "non-numeric stock reads as zero")
	assert.True(t, recs[1].Cost.IsZero(), "blank cost reads as zero")
}

func TestInventoryRepo_ColumnsByHeaderName(t *testing.T) {
	sh := memory.New([]string{"SKU_Proveedor", "Costo", "Extra", "Stock", "Nombre"},
		[]string{"A1", "100", "ignored", "7", "Arroz"},
	)
	recs, err := sheet.NewInventoryRepo(sh).ListRecords(context.Background())
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "A1", recs[0].SupplierSKU)
	assert.Equal(t, "Arroz", recs[0].Name)
	assert.Empty(t, recs[0].ProductID)
	assert.True(t, decimal.NewFromInt(7).Equal(recs[0].Stock))
}

func TestInventoryRepo_MissingRequiredColumn(t *testing.T) {
	for _, missing := range []string{"Stock", "Costo", "SKU_Proveedor"} {
		t.Run(missing, func(t *testing.T) {
			var header []string
			for _, h := range inventoryHeader {
				if h != missing {
					header = append(header, h)
				}
			}
			repo := sheet.NewInventoryRepo(memory.New(header))

			_, err := repo.ListRecords(context.Background())
			var sme *domain.SchemaMismatchError
			require.True(t, errors.As(err, &sme))
			assert.Equal(t, missing, sme.Column)
			assert.ErrorIs(t, err, domain.ErrSchemaMismatch)
		})
	}
}

func TestInventoryRepo_HeaderMatchIsExact(t *testing.T) {
	repo := sheet.NewInventoryRepo(memory.New([]string{"ID_Producto", "Nombre", "Precio", "stock", "Costo", "SKU_Proveedor"}))
	_, err := repo.ListRecords(context.Background())
	assert.ErrorIs(t, err, domain.ErrSchemaMismatch)
}

func TestInventoryRepo_UpdateFieldsIsOneBatch(t *testing.T) {
	sh := memory.New(inventoryHeader,
		[]string{"P-1", "Arroz", "", "10", "100", "A1"},
		[]string{"P-2", "Frijol", "", "4", "80", "B2"},
	)
	repo := sheet.NewInventoryRepo(sh)

	err := repo.UpdateFields(context.Background(), []domain.FieldUpdate{
		{RowKey: "2", Fields: map[string]string{"Stock": "15", "Costo": "110"}},
		{RowKey: "3", Fields: map[string]string{"Stock": "5"}},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, sh.Writes())

	rows := sh.Snapshot()
	assert.Equal(t, []string{"P-1", "Arroz", "", "15", "110", "A1"}, rows[0])
	assert.Equal(t, "5", rows[1][3])
}

func TestInventoryRepo_UpdateFieldsRejectsUnknownColumn(t *testing.T) {
	sh := memory.New(inventoryHeader, []string{"P-1", "Arroz", "", "10", "100", "A1"})
	err := sheet.NewInventoryRepo(sh).UpdateFields(context.Background(), []domain.FieldUpdate{
		{RowKey: "2", Fields: map[string]string{"Margen": "1"}},
	})
	assert.ErrorIs(t, err, domain.ErrSchemaMismatch)
	assert.Equal(t, 0, sh.Writes())
}

func TestInventoryRepo_InsertRecords(t *testing.T) {
	sh := memory.New(inventoryHeader, []string{"P-1", "Arroz", "", "10", "100", "A1"})
	repo := sheet.NewInventoryRepo(sh)

	err := repo.InsertRecords(context.Background(), []domain.InventoryRecord{
		{ProductID: "B9", Name: "Lenteja", Stock: decimal.NewFromInt(3), Cost: decimal.NewFromInt(50), SupplierSKU: "B9"},
	})
	require.NoError(t, err)

	rows := sh.Snapshot()
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"B9", "Lenteja", "", "3", "50", "B9"}, rows[1])
}

func TestSalesRepo_AppendWritesHeaderOnEmptySheet(t *testing.T) {
	sh := memory.New(nil)
	repo := sheet.NewSalesRepo(sh)

	sale := &domain.Sale{
		ID:          "sale-1",
		CreatedAt:   time.Date(2024, 5, 1, 14, 30, 0, 0, time.UTC),
		CustomerRef: "Mostrador",
		Total:       decimal.RequireFromString("45.5"),
		Summary:     "2 x Arroz; 1 x Frijol",
	}
	require.NoError(t, repo.Append(context.Background(), sale))
	require.NoError(t, repo.Append(context.Background(), sale))

	table, err := sh.ReadAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.SalesColumns, table.Header)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, []string{"sale-1", "2024-05-01T14:30:00Z", "Mostrador", "45.50", "2 x Arroz; 1 x Frijol"}, table.Rows[0])
}

func TestPurchaseRepo_Append(t *testing.T) {
	sh := memory.New(domain.PurchaseColumns)
	repo := sheet.NewPurchaseRepo(sh)

	err := repo.Append(context.Background(), &domain.Purchase{
		ID:           "p-1",
		ReceivedAt:   time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC),
		SupplierName: "Andina",
		Folio:        "FE-1",
		Subtotal:     decimal.NewFromInt(700),
		TaxTotal:     decimal.NewFromInt(133),
		GrandTotal:   decimal.NewFromInt(833),
		LineCount:    2,
	})
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"p-1", "2024-03-15T09:00:00Z", "Andina", "FE-1", "700.00", "133.00", "833.00", "2"}}, sh.Snapshot())
}

func TestPurchaseRepo_RejectsForeignHeader(t *testing.T) {
	sh := memory.New([]string{"ID_Compra", "Fecha"})
	err := sheet.NewPurchaseRepo(sh).Append(context.Background(), &domain.Purchase{ID: "p-1"})
	assert.ErrorIs(t, err, domain.ErrSchemaMismatch)
	assert.Equal(t, 0, sh.Writes())
}
