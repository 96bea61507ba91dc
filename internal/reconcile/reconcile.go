// Package reconcile joins parsed invoice lines against an inventory snapshot
// and tracks the quantities a person actually counted.
package reconcile

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"tiendapos/internal/domain"
)

// ReceivedInit selects the starting received quantity of a fresh line.
type ReceivedInit string

const (
	ReceivedFromInvoice ReceivedInit = "invoice"
	ReceivedZero        ReceivedInit = "zero"
)

// DuplicateSKUPolicy decides what happens when several inventory records
// share one supplier SKU.
type DuplicateSKUPolicy string

const (
	DuplicateFirstMatch DuplicateSKUPolicy = "first_match"
	DuplicateReject     DuplicateSKUPolicy = "reject"
)

// Options controls a reconciliation run. The zero value initialises
// received quantities from the invoice and joins on the first match.
type Options struct {
	ReceivedInit ReceivedInit
	DuplicateSKU DuplicateSKUPolicy
}

// DuplicateSKUError names a supplier SKU that matched more than one record.
type DuplicateSKUError struct {
	SKU     string
	RowKeys []string
}

func (e *DuplicateSKUError) Error() string {
	return fmt.Sprintf("supplier sku %q matches %d products (rows %s)", e.SKU, len(e.RowKeys), strings.Join(e.RowKeys, ", "))
}

func (e *DuplicateSKUError) Is(target error) bool {
	return target == domain.ErrDuplicateSKU
}

var hundred = decimal.NewFromInt(100)

// Index maps supplier SKU to every snapshot position carrying it, in
// snapshot order. Keys are compared exactly.
type Index map[string][]int

// BuildIndex indexes a snapshot by supplier SKU. Records with a blank SKU
// are not indexed.
func BuildIndex(snapshot []domain.InventoryRecord) Index {
	idx := make(Index, len(snapshot))
	for i := range snapshot {
		sku := snapshot[i].SupplierSKU
		if sku == "" {
			continue
		}
		idx[sku] = append(idx[sku], i)
	}
	return idx
}

// Reconcile joins every line against the snapshot.
func Reconcile(lines []domain.InvoiceLine, snapshot []domain.InventoryRecord, opts Options) ([]domain.ReconciledLine, error) {
	idx := BuildIndex(snapshot)
	if err := checkDuplicates(lines, snapshot, idx, opts); err != nil {
		return nil, err
	}

	out := make([]domain.ReconciledLine, 0, len(lines))
	for i := range lines {
		rl := join(lines[i], snapshot, idx)
		if opts.ReceivedInit == ReceivedZero {
			rl.ReceivedQty = decimal.Zero
		} else {
			rl.ReceivedQty = lines[i].Quantity
		}
		out = append(out, rl)
	}
	return out, nil
}

// Refresh re-joins previously reconciled lines against a newer snapshot.
// Received quantities are carried over by sequence number.
func Refresh(prev []domain.ReconciledLine, snapshot []domain.InventoryRecord, opts Options) ([]domain.ReconciledLine, error) {
	lines := make([]domain.InvoiceLine, len(prev))
	received := make(map[int]decimal.Decimal, len(prev))
	for i := range prev {
		lines[i] = prev[i].InvoiceLine
		received[prev[i].Seq] = prev[i].ReceivedQty
	}

	out, err := Reconcile(lines, snapshot, opts)
	if err != nil {
		return nil, err
	}
	for i := range out {
		if qty, ok := received[out[i].Seq]; ok {
			out[i].ReceivedQty = qty
		}
	}
	return out, nil
}

func checkDuplicates(lines []domain.InvoiceLine, snapshot []domain.InventoryRecord, idx Index, opts Options) error {
	if opts.DuplicateSKU != DuplicateReject {
		return nil
	}
	for i := range lines {
		hits := idx[lines[i].SupplierSKU]
		if len(hits) < 2 {
			continue
		}
		keys := make([]string, len(hits))
		for j, pos := range hits {
			keys[j] = snapshot[pos].RowKey
		}
		return &DuplicateSKUError{SKU: lines[i].SupplierSKU, RowKeys: keys}
	}
	return nil
}

func join(line domain.InvoiceLine, snapshot []domain.InventoryRecord, idx Index) domain.ReconciledLine {
	rl := domain.ReconciledLine{
		InvoiceLine:  line,
		Status:       domain.LineStatusNew,
		DisplayName:  line.Description,
		PreviousCost: decimal.Zero,
	}
	if hits := idx[line.SupplierSKU]; len(hits) > 0 {
		rec := snapshot[hits[0]]
		rl.Match = &rec
		rl.Status = domain.LineStatusExisting
		rl.DisplayName = rec.Name
		rl.PreviousCost = rec.Cost
	}
	rl.VariancePct = Variance(line.UnitCost, rl.PreviousCost)
	return rl
}

// Variance returns the percentage change from previous to current cost.
// It is exactly zero when previous is zero, which also hides a real change
// on zero-cost records.
func Variance(current, previous decimal.Decimal) decimal.Decimal {
	if previous.IsZero() {
		return decimal.Zero
	}
	return current.Sub(previous).Div(previous).Mul(hundred)
}
