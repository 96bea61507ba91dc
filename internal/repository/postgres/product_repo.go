package postgres

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"tiendapos/internal/domain"
	"tiendapos/internal/port"
)

const productsTable = "products"

// productColumns maps inventory header names to table columns.
var productColumns = map[string]string{
	domain.ColProductID:   "product_id",
	domain.ColName:        "name",
	domain.ColPrice:       "price",
	domain.ColStock:       "stock",
	domain.ColCost:        "cost",
	domain.ColSupplierSKU: "supplier_sku",
}

// Values arrive as strings; numeric columns are cast in SQL.
var numericColumns = map[string]bool{"price": true, "stock": true, "cost": true}

type productRow struct {
	RowID       int64               `db:"row_id"`
	ProductID   string              `db:"product_id"`
	Name        string              `db:"name"`
	Price       decimal.NullDecimal `db:"price"`
	Stock       decimal.Decimal     `db:"stock"`
	Cost        decimal.Decimal     `db:"cost"`
	SupplierSKU string              `db:"supplier_sku"`
}

func (p *productRow) toDomain() domain.InventoryRecord {
	rec := domain.InventoryRecord{
		RowKey:      strconv.FormatInt(p.RowID, 10),
		ProductID:   p.ProductID,
		Name:        p.Name,
		Stock:       p.Stock,
		Cost:        p.Cost,
		SupplierSKU: p.SupplierSKU,
	}
	if p.Price.Valid {
		price := p.Price.Decimal
		rec.Price = &price
	}
	return rec
}

type productRepo struct {
	db *sqlx.DB
}

// NewProductRepo creates a PostgreSQL-backed InventoryRepository.
func NewProductRepo(db *sqlx.DB) port.InventoryRepository {
	return &productRepo{db: db}
}

func (r *productRepo) ListRecords(ctx context.Context) ([]domain.InventoryRecord, error) {
	var rows []productRow
	err := r.db.SelectContext(ctx, &rows,
		`SELECT row_id, product_id, name, price, stock, cost, supplier_sku
		 FROM products ORDER BY row_id`)
	if err != nil {
		return nil, fmt.Errorf("productRepo.ListRecords: %w", err)
	}
	records := make([]domain.InventoryRecord, 0, len(rows))
	for i := range rows {
		records = append(records, rows[i].toDomain())
	}
	return records, nil
}

// UpdateFields applies the whole batch in one transaction.
func (r *productRepo) UpdateFields(ctx context.Context, updates []domain.FieldUpdate) error {
	if len(updates) == 0 {
		return nil
	}
	stmts := make([]updateStmt, 0, len(updates))
	for _, u := range updates {
		st, err := buildUpdate(u)
		if err != nil {
			return fmt.Errorf("productRepo.UpdateFields: %w", err)
		}
		stmts = append(stmts, st)
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("productRepo.UpdateFields: begin: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	for _, st := range stmts {
		res, err := tx.ExecContext(ctx, st.query, st.args...)
		if err != nil {
			return fmt.Errorf("productRepo.UpdateFields: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return fmt.Errorf("productRepo.UpdateFields: row %v: %w", st.args[len(st.args)-1], domain.ErrNotFound)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("productRepo.UpdateFields: commit: %w", err)
	}
	return nil
}

func (r *productRepo) InsertRecords(ctx context.Context, records []domain.InventoryRecord) error {
	if len(records) == 0 {
		return nil
	}
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("productRepo.InsertRecords: begin: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	query := `INSERT INTO products (product_id, name, price, stock, cost, supplier_sku, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())`
	for i := range records {
		rec := &records[i]
		price := decimal.NullDecimal{}
		if rec.Price != nil {
			price = decimal.NewNullDecimal(*rec.Price)
		}
		if _, err := tx.ExecContext(ctx, query,
			rec.ProductID, rec.Name, price, rec.Stock, rec.Cost, rec.SupplierSKU); err != nil {
			return fmt.Errorf("productRepo.InsertRecords: %s: %w", rec.ProductID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("productRepo.InsertRecords: commit: %w", err)
	}
	return nil
}

type updateStmt struct {
	query string
	args  []any
}

// buildUpdate turns a FieldUpdate into a parameterised UPDATE. Fields are
// emitted in name order so the statement is stable.
func buildUpdate(u domain.FieldUpdate) (updateStmt, error) {
	rowID, err := strconv.ParseInt(u.RowKey, 10, 64)
	if err != nil {
		return updateStmt{}, fmt.Errorf("invalid row key %q", u.RowKey)
	}
	names := make([]string, 0, len(u.Fields))
	for name := range u.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	sets := make([]string, 0, len(names)+1)
	args := make([]any, 0, len(names)+1)
	for _, name := range names {
		col, ok := productColumns[name]
		if !ok {
			return updateStmt{}, &domain.SchemaMismatchError{Table: productsTable, Column: name}
		}
		args = append(args, u.Fields[name])
		placeholder := fmt.Sprintf("$%d", len(args))
		if numericColumns[col] {
			placeholder = fmt.Sprintf("NULLIF($%d, '')::numeric", len(args))
		}
		sets = append(sets, col+" = "+placeholder)
	}
	sets = append(sets, "updated_at = NOW()")
	args = append(args, rowID)

	query := fmt.Sprintf("UPDATE products SET %s WHERE row_id = $%d", strings.Join(sets, ", "), len(args))
	return updateStmt{query: query, args: args}, nil
}
