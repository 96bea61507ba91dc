package port

import (
	"context"

	"tiendapos/internal/domain"
)

// InventoryRepository is the narrow contract the reconciliation and sales
// cores use against the product store.
type InventoryRepository interface {
	// ListRecords reads the store fresh. It fails with a
	// *domain.SchemaMismatchError when a required column is absent.
	ListRecords(ctx context.Context) ([]domain.InventoryRecord, error)
	UpdateFields(ctx context.Context, updates []domain.FieldUpdate) error
	InsertRecords(ctx context.Context, records []domain.InventoryRecord) error
}

// SalesRepository is the append-only sales log.
type SalesRepository interface {
	Append(ctx context.Context, sale *domain.Sale) error
}

// PurchaseRepository is the append-only log of applied invoices.
type PurchaseRepository interface {
	Append(ctx context.Context, purchase *domain.Purchase) error
}
