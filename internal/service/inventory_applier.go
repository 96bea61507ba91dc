package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"tiendapos/internal/domain"
	"tiendapos/internal/port"
	"tiendapos/internal/reconcile"
)

// InventoryApplier turns finalized reception lines into store mutations.
type InventoryApplier interface {
	// Apply increments stock and overwrites cost for known products and
	// inserts unknown ones. Lines with received quantity <= 0 are skipped.
	// It is not idempotent: repeating a successful call applies twice.
	Apply(ctx context.Context, lines []domain.ReconciledLine) (*domain.ApplyResult, error)
}

type inventoryApplier struct {
	inventory port.InventoryRepository
	log       logrus.FieldLogger
}

// NewInventoryApplier creates a new InventoryApplier implementation.
func NewInventoryApplier(inventory port.InventoryRepository, log logrus.FieldLogger) InventoryApplier {
	return &inventoryApplier{inventory: inventory, log: log}
}

type pendingUpdate struct {
	record *domain.InventoryRecord
	stock  decimal.Decimal
	cost   decimal.Decimal
}

func (a *inventoryApplier) Apply(ctx context.Context, lines []domain.ReconciledLine) (*domain.ApplyResult, error) {
	eligible := make([]*domain.ReconciledLine, 0, len(lines))
	for i := range lines {
		if lines[i].ReceivedQty.IsPositive() {
			eligible = append(eligible, &lines[i])
		}
	}
	result := &domain.ApplyResult{Log: []domain.ApplyLogEntry{}}
	if len(eligible) == 0 {
		return result, nil
	}

	// Always work from a fresh read; the reconciliation snapshot may be stale.
	records, err := a.inventory.ListRecords(ctx)
	if err != nil {
		return nil, fmt.Errorf("inventoryApplier.Apply: %w", err)
	}
	idx := reconcile.BuildIndex(records)

	var (
		updateOrder []int
		updates     = make(map[int]*pendingUpdate)
		insertOrder []string
		inserts     = make(map[string]*domain.InventoryRecord)
	)

	for _, l := range eligible {
		if hits := idx[l.SupplierSKU]; len(hits) > 0 {
			pos := hits[0]
			pu, ok := updates[pos]
			if !ok {
				pu = &pendingUpdate{record: &records[pos], stock: records[pos].Stock}
				updates[pos] = pu
				updateOrder = append(updateOrder, pos)
			}
			pu.stock = pu.stock.Add(l.ReceivedQty)
			pu.cost = l.UnitCost
			result.Log = append(result.Log, domain.ApplyLogEntry{
				Action:   domain.ApplyActionUpdated,
				Seq:      l.Seq,
				SKU:      l.SupplierSKU,
				Name:     pu.record.Name,
				Quantity: l.ReceivedQty,
				NewStock: pu.stock,
				Cost:     l.UnitCost,
			})
			continue
		}

		rec, ok := inserts[l.SupplierSKU]
		if !ok {
			rec = &domain.InventoryRecord{
				ProductID:   l.SupplierSKU,
				Name:        l.Description,
				Stock:       decimal.Zero,
				SupplierSKU: l.SupplierSKU,
			}
			inserts[l.SupplierSKU] = rec
			insertOrder = append(insertOrder, l.SupplierSKU)
		}
		rec.Stock = rec.Stock.Add(l.ReceivedQty)
		rec.Cost = l.UnitCost
		result.Log = append(result.Log, domain.ApplyLogEntry{
			Action:   domain.ApplyActionNew,
			Seq:      l.Seq,
			SKU:      l.SupplierSKU,
			Name:     rec.Name,
			Quantity: l.ReceivedQty,
			NewStock: rec.Stock,
			Cost:     l.UnitCost,
		})
	}

	if len(updateOrder) > 0 {
		batch := make([]domain.FieldUpdate, 0, len(updateOrder))
		for _, pos := range updateOrder {
			pu := updates[pos]
			batch = append(batch, domain.FieldUpdate{
				RowKey: pu.record.RowKey,
				Fields: map[string]string{
					domain.ColStock: pu.stock.String(),
					domain.ColCost:  pu.cost.String(),
				},
			})
		}
		if err := a.inventory.UpdateFields(ctx, batch); err != nil {
			a.log.WithField("rows", len(batch)).Errorf("inventoryApplier.Apply: update batch failed: %v", err)
			return nil, &domain.StoreWriteError{Op: domain.StoreOpUpdate, Err: err}
		}
		result.Updated = len(batch)
	}

	if len(insertOrder) > 0 {
		batch := make([]domain.InventoryRecord, 0, len(insertOrder))
		for _, sku := range insertOrder {
			batch = append(batch, *inserts[sku])
		}
		if err := a.inventory.InsertRecords(ctx, batch); err != nil {
			a.log.WithFields(logrus.Fields{
				"rows":    len(batch),
				"updated": result.Updated,
			}).Errorf("inventoryApplier.Apply: insert batch failed after updates were committed: %v", err)
			return nil, &domain.StoreWriteError{Op: domain.StoreOpInsert, Err: err}
		}
		result.Created = len(batch)
	}

	a.log.WithFields(logrus.Fields{
		"updated": result.Updated,
		"created": result.Created,
	}).Info("inventoryApplier.Apply: inventory updated")
	return result, nil
}
