package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"tiendapos/internal/domain"
	"tiendapos/internal/port"
)

type saleRepo struct {
	db *sqlx.DB
}

// NewSaleRepo creates a PostgreSQL-backed SalesRepository.
func NewSaleRepo(db *sqlx.DB) port.SalesRepository {
	return &saleRepo{db: db}
}

func (r *saleRepo) Append(ctx context.Context, sale *domain.Sale) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("saleRepo.Append: begin: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	_, err = tx.ExecContext(ctx,
		`INSERT INTO sales (id, created_at, customer_ref, total, summary) VALUES ($1, $2, $3, $4, $5)`,
		sale.ID, sale.CreatedAt, sale.CustomerRef, sale.Total, sale.Summary)
	if err != nil {
		return fmt.Errorf("saleRepo.Append: %w", err)
	}

	for i := range sale.Items {
		it := &sale.Items[i]
		_, err := tx.ExecContext(ctx,
			`INSERT INTO sale_items (sale_id, position, product_id, name, quantity, unit_price, total)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			sale.ID, i+1, it.ProductID, it.Name, it.Quantity, it.UnitPrice, it.Total)
		if err != nil {
			return fmt.Errorf("saleRepo.Append: item %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("saleRepo.Append: commit: %w", err)
	}
	return nil
}

type purchaseRepo struct {
	db *sqlx.DB
}

// NewPurchaseRepo creates a PostgreSQL-backed PurchaseRepository.
func NewPurchaseRepo(db *sqlx.DB) port.PurchaseRepository {
	return &purchaseRepo{db: db}
}

func (r *purchaseRepo) Append(ctx context.Context, p *domain.Purchase) error {
	query := `INSERT INTO purchases (id, received_at, supplier_name, folio, subtotal, tax_total, grand_total, line_count)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.db.ExecContext(ctx, query,
		p.ID, p.ReceivedAt, p.SupplierName, p.Folio, p.Subtotal, p.TaxTotal, p.GrandTotal, p.LineCount)
	if err != nil {
		return fmt.Errorf("purchaseRepo.Append: %w", err)
	}
	return nil
}
