// Package workflow holds the reception state machine: an invoice is loaded,
// counted, finalized and then either applied or cancelled.
package workflow

import (
	"fmt"
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"tiendapos/internal/domain"
	"tiendapos/internal/reconcile"
)

// Reception is one invoice reception owned by its caller. It is not safe for
// concurrent use.
type Reception struct {
	s    domain.ReceptionSession
	opts reconcile.Options
	now  func() time.Time
}

// New reconciles a parsed invoice against the snapshot and returns a
// reception in the Loaded state.
func New(id string, invoice *domain.ParsedInvoice, snapshot []domain.InventoryRecord, opts reconcile.Options) (*Reception, error) {
	lines, err := reconcile.Reconcile(invoice.Lines, snapshot, opts)
	if err != nil {
		return nil, err
	}
	r := &Reception{opts: opts, now: time.Now}
	ts := r.now().UTC()
	r.s = domain.ReceptionSession{
		ID:        id,
		State:     domain.ReceptionLoaded,
		Invoice:   *invoice,
		Lines:     lines,
		CreatedAt: ts,
		UpdatedAt: ts,
	}
	return r, nil
}

// Restore rebuilds a reception from its persisted session.
func Restore(s *domain.ReceptionSession, opts reconcile.Options) *Reception {
	return &Reception{s: *cloneSession(s), opts: opts, now: time.Now}
}

// Session returns a copy of the persistable state; changing it does not
// affect the reception.
func (r *Reception) Session() *domain.ReceptionSession {
	return cloneSession(&r.s)
}

func cloneSession(src *domain.ReceptionSession) *domain.ReceptionSession {
	s := *src
	s.Invoice.Lines = slices.Clone(src.Invoice.Lines)
	s.Invoice.Skipped = slices.Clone(src.Invoice.Skipped)
	s.Lines = slices.Clone(src.Lines)
	for i := range s.Lines {
		if m := s.Lines[i].Match; m != nil {
			rec := *m
			if m.Price != nil {
				p := *m.Price
				rec.Price = &p
			}
			s.Lines[i].Match = &rec
		}
	}
	if src.Result != nil {
		res := *src.Result
		res.Log = slices.Clone(src.Result.Log)
		s.Result = &res
	}
	return &s
}

func (r *Reception) ID() string                     { return r.s.ID }
func (r *Reception) State() domain.ReceptionState   { return r.s.State }
func (r *Reception) Invoice() *domain.ParsedInvoice { return &r.s.Invoice }
func (r *Reception) Lines() []domain.ReconciledLine { return r.s.Lines }
func (r *Reception) Summary() reconcile.Summary     { return reconcile.Summarize(r.s.Lines) }

// SetArchiveKey records where the source document was archived.
func (r *Reception) SetArchiveKey(key string) {
	r.s.ArchiveKey = key
	r.touch()
}

// StartCounting moves Loaded to Counting.
func (r *Reception) StartCounting() error {
	if err := r.require("start counting", domain.ReceptionLoaded); err != nil {
		return err
	}
	r.s.State = domain.ReceptionCounting
	r.touch()
	return nil
}

// SetReceived records a counted quantity. Only valid while counting.
func (r *Reception) SetReceived(seq int, qty decimal.Decimal) error {
	if err := r.require("set received", domain.ReceptionCounting); err != nil {
		return err
	}
	if err := reconcile.SetReceived(r.s.Lines, seq, qty); err != nil {
		return err
	}
	r.touch()
	return nil
}

// AcceptAll copies invoiced into received for every line. Valid any time
// before finalization.
func (r *Reception) AcceptAll() error {
	if err := r.require("accept all", domain.ReceptionLoaded, domain.ReceptionCounting); err != nil {
		return err
	}
	reconcile.AcceptAll(r.s.Lines)
	r.touch()
	return nil
}

// Refresh re-joins the lines against a newer snapshot, keeping counts.
func (r *Reception) Refresh(snapshot []domain.InventoryRecord) error {
	if err := r.require("refresh", domain.ReceptionLoaded, domain.ReceptionCounting); err != nil {
		return err
	}
	lines, err := reconcile.Refresh(r.s.Lines, snapshot, r.opts)
	if err != nil {
		return err
	}
	r.s.Lines = lines
	r.touch()
	return nil
}

// Finalize freezes the counts.
func (r *Reception) Finalize() error {
	if err := r.require("finalize", domain.ReceptionCounting); err != nil {
		return err
	}
	r.s.State = domain.ReceptionFinalized
	r.touch()
	return nil
}

// Reopen returns a finalized reception to counting.
func (r *Reception) Reopen() error {
	if err := r.require("reopen", domain.ReceptionFinalized); err != nil {
		return err
	}
	r.s.State = domain.ReceptionCounting
	r.touch()
	return nil
}

// CanApply reports whether MarkApplied would be accepted.
func (r *Reception) CanApply() error {
	return r.require("apply", domain.ReceptionFinalized)
}

// MarkApplied records a successful apply and ends the workflow.
func (r *Reception) MarkApplied(result *domain.ApplyResult) error {
	if err := r.CanApply(); err != nil {
		return err
	}
	r.s.State = domain.ReceptionApplied
	r.s.Result = result
	r.touch()
	return nil
}

// Cancel abandons the reception. Nothing has been written at this point.
func (r *Reception) Cancel() error {
	if r.s.State.IsTerminal() {
		return fmt.Errorf("cancel from %s: %w", r.s.State, domain.ErrInvalidTransition)
	}
	r.s.State = domain.ReceptionCancelled
	r.touch()
	return nil
}

func (r *Reception) require(action string, allowed ...domain.ReceptionState) error {
	for _, st := range allowed {
		if r.s.State == st {
			return nil
		}
	}
	return fmt.Errorf("%s from %s: %w", action, r.s.State, domain.ErrInvalidTransition)
}

func (r *Reception) touch() {
	r.s.UpdatedAt = r.now().UTC()
}
