package reconcile

import (
	"fmt"

	"github.com/shopspring/decimal"

	"tiendapos/internal/domain"
)

// AcceptAll sets every received quantity to the invoiced quantity.
func AcceptAll(lines []domain.ReconciledLine) {
	for i := range lines {
		lines[i].ReceivedQty = lines[i].Quantity
	}
}

// SetReceived records the counted quantity for the line with the given
// sequence number.
func SetReceived(lines []domain.ReconciledLine, seq int, qty decimal.Decimal) error {
	if qty.IsNegative() {
		return fmt.Errorf("seq %d: %w", seq, domain.ErrInvalidQuantity)
	}
	for i := range lines {
		if lines[i].Seq == seq {
			lines[i].ReceivedQty = qty
			return nil
		}
	}
	return fmt.Errorf("seq %d: %w", seq, domain.ErrLineNotFound)
}

// Diff is received minus invoiced.
func Diff(line *domain.ReconciledLine) decimal.Decimal {
	return line.ReceivedQty.Sub(line.Quantity)
}

// Classify compares received against invoiced by exact signed difference.
func Classify(line *domain.ReconciledLine) domain.Discrepancy {
	switch Diff(line).Sign() {
	case 0:
		return domain.DiscrepancyOK
	case -1:
		return domain.DiscrepancyShortage
	default:
		return domain.DiscrepancyOverage
	}
}

// Summary aggregates a reconciliation for display.
type Summary struct {
	Lines         int             `json:"lines"`
	Existing      int             `json:"existing"`
	New           int             `json:"new"`
	OK            int             `json:"ok"`
	Shortage      int             `json:"shortage"`
	Overage       int             `json:"overage"`
	Eligible      int             `json:"eligible"`
	InvoicedUnits decimal.Decimal `json:"invoiced_units"`
	ReceivedUnits decimal.Decimal `json:"received_units"`
	ReceivedCost  decimal.Decimal `json:"received_cost"`
}

// Summarize counts statuses and discrepancies. Eligible counts lines that an
// apply would touch.
func Summarize(lines []domain.ReconciledLine) Summary {
	s := Summary{
		Lines:         len(lines),
		InvoicedUnits: decimal.Zero,
		ReceivedUnits: decimal.Zero,
		ReceivedCost:  decimal.Zero,
	}
	for i := range lines {
		l := &lines[i]
		if l.Status == domain.LineStatusExisting {
			s.Existing++
		} else {
			s.New++
		}
		switch Classify(l) {
		case domain.DiscrepancyOK:
			s.OK++
		case domain.DiscrepancyShortage:
			s.Shortage++
		case domain.DiscrepancyOverage:
			s.Overage++
		}
		if l.ReceivedQty.IsPositive() {
			s.Eligible++
		}
		s.InvoicedUnits = s.InvoicedUnits.Add(l.Quantity)
		s.ReceivedUnits = s.ReceivedUnits.Add(l.ReceivedQty)
		s.ReceivedCost = s.ReceivedCost.Add(l.ReceivedQty.Mul(l.UnitCost))
	}
	return s
}
