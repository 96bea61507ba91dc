package sheet

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"tiendapos/internal/domain"
	"tiendapos/internal/port"
)

type salesRepo struct {
	sheet port.Sheet
}

// NewSalesRepo creates a sheet-backed SalesRepository.
func NewSalesRepo(sheet port.Sheet) port.SalesRepository {
	return &salesRepo{sheet: sheet}
}

func (r *salesRepo) Append(ctx context.Context, sale *domain.Sale) error {
	return appendLogRow(ctx, r.sheet, "sales", domain.SalesColumns, map[string]string{
		domain.ColSaleID:   sale.ID,
		domain.ColDate:     sale.CreatedAt.UTC().Format(time.RFC3339),
		domain.ColCustomer: sale.CustomerRef,
		domain.ColTotal:    sale.Total.StringFixed(2),
		domain.ColDetail:   sale.Summary,
	})
}

type purchaseRepo struct {
	sheet port.Sheet
}

// NewPurchaseRepo creates a sheet-backed PurchaseRepository.
func NewPurchaseRepo(sheet port.Sheet) port.PurchaseRepository {
	return &purchaseRepo{sheet: sheet}
}

func (r *purchaseRepo) Append(ctx context.Context, p *domain.Purchase) error {
	return appendLogRow(ctx, r.sheet, "purchases", domain.PurchaseColumns, map[string]string{
		domain.ColPurchaseID: p.ID,
		domain.ColDate:       p.ReceivedAt.UTC().Format(time.RFC3339),
		domain.ColSupplier:   p.SupplierName,
		domain.ColFolio:      p.Folio,
		domain.ColSubtotal:   p.Subtotal.StringFixed(2),
		domain.ColTaxes:      p.TaxTotal.StringFixed(2),
		domain.ColTotal:      p.GrandTotal.StringFixed(2),
		domain.ColLines:      strconv.Itoa(p.LineCount),
	})
}

// appendLogRow writes one row to an append-only log sheet. An empty sheet
// gets its header first.
func appendLogRow(ctx context.Context, sh port.Sheet, table string, header []string, values map[string]string) error {
	t, err := sh.ReadAll(ctx)
	if err != nil {
		return fmt.Errorf("%sRepo.Append: reading sheet: %w", table, err)
	}

	var rows [][]string
	if len(t.Header) == 0 {
		t.Header = header
		rows = append(rows, append([]string(nil), header...))
	}
	cols := indexHeader(t.Header)
	if err := cols.require(table, header...); err != nil {
		return fmt.Errorf("%sRepo.Append: %w", table, err)
	}
	rows = append(rows, cols.row(len(t.Header), values))

	if err := sh.AppendRows(ctx, rows); err != nil {
		return fmt.Errorf("%sRepo.Append: %w", table, err)
	}
	return nil
}
