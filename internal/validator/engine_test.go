package validator_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tiendapos/internal/domain"
	"tiendapos/internal/logger"
	"tiendapos/internal/validator"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func consistentInvoice() *domain.ParsedInvoice {
	return &domain.ParsedInvoice{
		Header: domain.InvoiceHeader{
			SupplierName: "Distribuidora Andina",
			Folio:        "FE-1001",
			IssueDate:    "2024-03-01",
			Subtotal:     d("700"),
			TaxTotal:     d("133"),
			GrandTotal:   d("833"),
		},
		Lines: []domain.InvoiceLine{
			{Seq: 1, SupplierSKU: "A1", Quantity: d("5"), UnitCost: d("110"), Subtotal: d("550")},
			{Seq: 2, SupplierSKU: "B9", Quantity: d("3"), UnitCost: d("50"), Subtotal: d("150")},
		},
	}
}

func failuresByKey(r *validator.Report) map[string][]validator.Result {
	out := make(map[string][]validator.Result)
	for _, f := range r.Failures {
		out[f.RuleKey] = append(out[f.RuleKey], f)
	}
	return out
}

func TestEngine_CleanInvoice(t *testing.T) {
	engine := validator.NewEngine(validator.DefaultRegistry(), logger.Discard())
	report := engine.Run(context.Background(), consistentInvoice())
	assert.True(t, report.Clean(), "%+v", report.Failures)
	assert.Empty(t, report.Failures)
}

func TestEngine_RoundingWithinTolerance(t *testing.T) {
	inv := consistentInvoice()
	inv.Lines[0].Subtotal = d("550.60")
	inv.Header.GrandTotal = d("833.90")

	report := validator.NewEngine(validator.DefaultRegistry(), logger.Discard()).Run(context.Background(), inv)
	assert.True(t, report.Clean(), "%+v", report.Failures)
}

func TestEngine_Mismatches(t *testing.T) {
	inv := consistentInvoice()
	inv.Lines[1].Subtotal = d("100")
	inv.Header.GrandTotal = d("900")

	report := validator.NewEngine(validator.DefaultRegistry(), logger.Discard()).Run(context.Background(), inv)
	byKey := failuresByKey(report)

	require.Len(t, byKey["math.line.subtotal"], 1)
	line := byKey["math.line.subtotal"][0]
	assert.Equal(t, "lines[2].subtotal", line.Field)
	assert.Equal(t, "150.00", line.Expected)
	assert.Equal(t, "100.00", line.Actual)
	assert.Equal(t, validator.SeverityWarning, line.Severity)

	require.Len(t, byKey["math.header.subtotal"], 1)
	require.Len(t, byKey["math.header.total"], 1)
	assert.Equal(t, validator.SeverityError, byKey["math.header.total"][0].Severity)
	assert.Equal(t, 1, report.Errors)
	assert.Equal(t, 2, report.Warnings)
}

func TestEngine_PlaceholdersAndSkippedLines(t *testing.T) {
	inv := consistentInvoice()
	inv.Header.SupplierName = "Unknown Supplier"
	inv.Header.Folio = "Unknown Folio"
	inv.Header.IssueDate = "01/03/2024"
	inv.Lines[1].Quantity = decimal.Zero
	inv.Lines[1].Subtotal = decimal.Zero
	inv.Header.Subtotal = d("550")
	inv.Header.GrandTotal = d("683")
	inv.Skipped = []domain.SkippedLine{{Seq: 3, Field: "line.quantity", Reason: "missing"}}

	report := validator.NewEngine(validator.DefaultRegistry(), logger.Discard()).Run(context.Background(), inv)
	byKey := failuresByKey(report)

	assert.Len(t, byKey["required.supplier_name"], 1)
	assert.Len(t, byKey["required.folio"], 1)
	assert.Len(t, byKey["format.issue_date"], 1)
	assert.Len(t, byKey["logical.line.zero_quantity"], 1)
	require.Len(t, byKey["logical.skipped_lines"], 1)
	assert.Equal(t, "lines[3]", byKey["logical.skipped_lines"][0].Field)
	assert.Empty(t, byKey["math.header.total"])
}

func TestEngine_NoLines(t *testing.T) {
	inv := consistentInvoice()
	inv.Lines = nil
	inv.Header.Subtotal = decimal.Zero
	inv.Header.TaxTotal = decimal.Zero
	inv.Header.GrandTotal = decimal.Zero

	report := validator.NewEngine(validator.DefaultRegistry(), logger.Discard()).Run(context.Background(), inv)
	byKey := failuresByKey(report)
	assert.Len(t, byKey["logical.has_lines"], 1)
	assert.Equal(t, 1, report.Errors)
}

func TestRegistry_KeepsOrderAndReplaces(t *testing.T) {
	r := validator.DefaultRegistry()
	all := r.All()
	require.NotEmpty(t, all)
	assert.Equal(t, "required.supplier_name", all[0].RuleKey())

	first := r.Get("math.header.total")
	require.NotNil(t, first)
	r.Register(first)
	assert.Len(t, r.All(), len(all))
	assert.Nil(t, r.Get("nope"))
}
