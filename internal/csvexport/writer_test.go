package csvexport

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tiendapos/internal/domain"
)

func TestWriteHeader(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.WriteHeader())
	w.Flush()
	require.NoError(t, w.Error())

	r := csv.NewReader(&buf)
	row, err := r.Read()
	require.NoError(t, err)

	assert.Len(t, row, 11)
	assert.Equal(t, "Seq", row[0])
	assert.Equal(t, "Discrepancia", row[7])
	assert.Equal(t, "Variacion_Pct", row[10])
}

func TestWriteReport(t *testing.T) {
	lines := []domain.ReconciledLine{
		{
			InvoiceLine: domain.InvoiceLine{
				Seq: 1, SupplierSKU: "A1", Description: "Arroz",
				Quantity: decimal.NewFromInt(5), UnitCost: decimal.NewFromInt(110),
			},
			Status:       domain.LineStatusExisting,
			DisplayName:  "Arroz 500g",
			PreviousCost: decimal.NewFromInt(100),
			VariancePct:  decimal.NewFromInt(10),
			ReceivedQty:  decimal.NewFromInt(4),
		},
		{
			InvoiceLine: domain.InvoiceLine{
				Seq: 2, SupplierSKU: "B9", Description: "Frijol, rojo",
				Quantity: decimal.NewFromInt(3), UnitCost: decimal.RequireFromString("50.5"),
			},
			Status:      domain.LineStatusNew,
			DisplayName: "Frijol, rojo",
			ReceivedQty: decimal.NewFromInt(3),
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteReport(&buf, lines))
	require.True(t, bytes.HasPrefix(buf.Bytes(), BOM))

	rows, err := csv.NewReader(bytes.NewReader(buf.Bytes()[len(BOM):])).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, []string{"1", "A1", "Arroz 500g", "EXISTING", "5", "4", "-1", "SHORTAGE", "110.00", "100.00", "10.00"}, rows[1])
	assert.Equal(t, []string{"2", "B9", "Frijol, rojo", "NEW", "3", "3", "0", "OK", "50.50", "0.00", "0.00"}, rows[2])
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Distribuidora Andina S.A.S.", "Distribuidora_Andina_S_A_S"},
		{"FE-1001", "FE-1001"},
		{"  ñandú  ", "and"},
		{strings.Repeat("a", 150), strings.Repeat("a", 100)},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SanitizeFilename(tt.in))
	}
}

func TestBuildFilename(t *testing.T) {
	name := BuildFilename("Andina SAS", "FE 1")
	assert.Equal(t, "recepcion_Andina_SAS_FE_1_"+time.Now().Format("2006-01-02")+".csv", name)
}
