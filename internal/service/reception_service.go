package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"tiendapos/internal/config"
	"tiendapos/internal/csvexport"
	"tiendapos/internal/domain"
	"tiendapos/internal/parser"
	"tiendapos/internal/port"
	"tiendapos/internal/reconcile"
	"tiendapos/internal/validator"
	"tiendapos/internal/workflow"
)

const applyLockKey = "lock:inventory-apply"

// StartReceptionInput is the DTO for loading an invoice document.
type StartReceptionInput struct {
	FileName string
	Data     []byte
}

// ReceptionView is a reception session with its derived figures.
type ReceptionView struct {
	*domain.ReceptionSession
	Summary reconcile.Summary `json:"summary"`
	Checks  *validator.Report `json:"checks"`
}

// ReceptionService drives invoice receptions across requests. Sessions are
// persisted after every successful step.
type ReceptionService interface {
	Start(ctx context.Context, input StartReceptionInput) (*ReceptionView, error)
	Get(ctx context.Context, id string) (*ReceptionView, error)
	StartCounting(ctx context.Context, id string) (*ReceptionView, error)
	SetReceived(ctx context.Context, id string, seq int, qty decimal.Decimal) (*ReceptionView, error)
	AcceptAll(ctx context.Context, id string) (*ReceptionView, error)
	Refresh(ctx context.Context, id string) (*ReceptionView, error)
	Finalize(ctx context.Context, id string) (*ReceptionView, error)
	Reopen(ctx context.Context, id string) (*ReceptionView, error)
	Apply(ctx context.Context, id string) (*ReceptionView, error)
	Cancel(ctx context.Context, id string) error
	ArchiveURL(ctx context.Context, id string) (string, error)
}

type receptionService struct {
	inventory port.InventoryRepository
	purchases port.PurchaseRepository
	sessions  port.ReceptionSessionStore
	locker    port.Locker
	storage   port.ObjectStorage
	applier   InventoryApplier
	checks    *validator.Engine
	cfg       *config.ReceptionConfig
	bucket    string
	log       logrus.FieldLogger
	now       func() time.Time
}

// NewReceptionService creates a new ReceptionService. storage may be nil, in
// which case invoices are not archived.
func NewReceptionService(
	inventory port.InventoryRepository,
	purchases port.PurchaseRepository,
	sessions port.ReceptionSessionStore,
	locker port.Locker,
	storage port.ObjectStorage,
	applier InventoryApplier,
	checks *validator.Engine,
	cfg *config.ReceptionConfig,
	bucket string,
	log logrus.FieldLogger,
) ReceptionService {
	return &receptionService{
		inventory: inventory,
		purchases: purchases,
		sessions:  sessions,
		locker:    locker,
		storage:   storage,
		applier:   applier,
		checks:    checks,
		cfg:       cfg,
		bucket:    bucket,
		log:       log,
		now:       time.Now,
	}
}

func (s *receptionService) options() reconcile.Options {
	opts := reconcile.Options{
		ReceivedInit: reconcile.ReceivedFromInvoice,
		DuplicateSKU: reconcile.DuplicateSKUPolicy(s.cfg.DuplicateSKU),
	}
	if s.cfg.BlindCount {
		opts.ReceivedInit = reconcile.ReceivedZero
	}
	return opts
}

func (s *receptionService) Start(ctx context.Context, input StartReceptionInput) (*ReceptionView, error) {
	if s.cfg.MaxUploadMB > 0 && int64(len(input.Data)) > s.cfg.MaxUploadMB*1024*1024 {
		return nil, domain.ErrFileTooLarge
	}

	invoice, err := parser.Parse(input.Data)
	if err != nil {
		s.log.WithField("file", input.FileName).Warnf("receptionService.Start: %v", err)
		return nil, err
	}

	snapshot, err := s.inventory.ListRecords(ctx)
	if err != nil {
		return nil, fmt.Errorf("receptionService.Start: %w", err)
	}

	id := uuid.New().String()
	r, err := workflow.New(id, invoice, snapshot, s.options())
	if err != nil {
		return nil, fmt.Errorf("receptionService.Start: %w", err)
	}

	if key, ok := s.archive(ctx, id, invoice, input.Data); ok {
		r.SetArchiveKey(key)
	}

	if err := s.save(ctx, r); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"session_id": id,
		"supplier":   invoice.Header.SupplierName,
		"folio":      invoice.Header.Folio,
		"lines":      len(invoice.Lines),
		"skipped":    len(invoice.Skipped),
		"wrapped":    invoice.Wrapped,
	}).Info("receptionService.Start: invoice loaded")
	return s.view(ctx, r), nil
}

// archive stores the source document. Failures are logged and never block
// the reception.
func (s *receptionService) archive(ctx context.Context, id string, inv *domain.ParsedInvoice, data []byte) (string, bool) {
	if s.storage == nil || !s.cfg.ArchiveInvoices {
		return "", false
	}
	key := fmt.Sprintf("invoices/%s/%s-%s.xml", keyPart(inv.Header.SupplierName), keyPart(inv.Header.Folio), id)
	_, err := s.storage.Upload(ctx, port.UploadInput{
		Bucket:      s.bucket,
		Key:         key,
		Body:        bytes.NewReader(data),
		ContentType: "application/xml",
		Size:        int64(len(data)),
	})
	if err != nil {
		s.log.WithFields(logrus.Fields{"session_id": id, "key": key}).Warnf("receptionService.archive: upload failed: %v", err)
		return "", false
	}
	return key, true
}

// keyPart makes s safe for an object key segment.
func keyPart(s string) string {
	if p := csvexport.SanitizeFilename(s); p != "" {
		return p
	}
	return "unknown"
}

func (s *receptionService) Get(ctx context.Context, id string) (*ReceptionView, error) {
	r, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, r), nil
}

func (s *receptionService) StartCounting(ctx context.Context, id string) (*ReceptionView, error) {
	return s.step(ctx, id, (*workflow.Reception).StartCounting)
}

func (s *receptionService) SetReceived(ctx context.Context, id string, seq int, qty decimal.Decimal) (*ReceptionView, error) {
	return s.step(ctx, id, func(r *workflow.Reception) error {
		return r.SetReceived(seq, qty)
	})
}

func (s *receptionService) AcceptAll(ctx context.Context, id string) (*ReceptionView, error) {
	return s.step(ctx, id, (*workflow.Reception).AcceptAll)
}

func (s *receptionService) Refresh(ctx context.Context, id string) (*ReceptionView, error) {
	r, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	snapshot, err := s.inventory.ListRecords(ctx)
	if err != nil {
		return nil, fmt.Errorf("receptionService.Refresh: %w", err)
	}
	if err := r.Refresh(snapshot); err != nil {
		return nil, err
	}
	if err := s.save(ctx, r); err != nil {
		return nil, err
	}
	return s.view(ctx, r), nil
}

func (s *receptionService) Finalize(ctx context.Context, id string) (*ReceptionView, error) {
	return s.step(ctx, id, (*workflow.Reception).Finalize)
}

func (s *receptionService) Reopen(ctx context.Context, id string) (*ReceptionView, error) {
	return s.step(ctx, id, (*workflow.Reception).Reopen)
}

func (s *receptionService) Apply(ctx context.Context, id string) (*ReceptionView, error) {
	r, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := r.CanApply(); err != nil {
		return nil, err
	}
	logger := s.log.WithField("session_id", id)

	var dedupKey string
	if s.cfg.DedupApply {
		h := r.Invoice().Header
		dedupKey = fmt.Sprintf("applied:%s|%s", h.SupplierName, h.Folio)
		claimed, err := s.locker.Claim(ctx, dedupKey, s.cfg.DedupTTL)
		if err != nil {
			return nil, fmt.Errorf("receptionService.Apply: claiming invoice: %w", err)
		}
		if !claimed {
			return nil, fmt.Errorf("%w: %s %s", domain.ErrAlreadyApplied, h.SupplierName, h.Folio)
		}
	}

	release, err := s.locker.Obtain(ctx, applyLockKey, s.cfg.ApplyLockTTL)
	if err != nil {
		s.unclaim(ctx, dedupKey, logger)
		return nil, err
	}
	defer func() {
		if rerr := release(context.WithoutCancel(ctx)); rerr != nil {
			logger.Warnf("receptionService.Apply: releasing lock: %v", rerr)
		}
	}()

	// Another apply may have finished between the first load and the lock.
	r, err = s.load(ctx, id)
	if err == nil {
		err = r.CanApply()
	}
	if err != nil {
		s.unclaim(ctx, dedupKey, logger)
		return nil, err
	}

	result, err := s.applier.Apply(ctx, r.Lines())
	if err != nil {
		// Once updates are committed a retry would double-apply them, so the
		// claim stays.
		var swe *domain.StoreWriteError
		if !(errors.As(err, &swe) && swe.Op == domain.StoreOpInsert) {
			s.unclaim(ctx, dedupKey, logger)
		}
		logger.Errorf("receptionService.Apply: %v", err)
		return nil, err
	}

	if err := r.MarkApplied(result); err != nil {
		return nil, err
	}
	if err := s.save(ctx, r); err != nil {
		logger.Errorf("receptionService.Apply: inventory applied but session not saved: %v", err)
		return nil, err
	}

	s.logPurchase(ctx, r, logger)

	logger.WithFields(logrus.Fields{
		"updated": result.Updated,
		"created": result.Created,
	}).Info("receptionService.Apply: reception applied")
	return s.view(ctx, r), nil
}

func (s *receptionService) unclaim(ctx context.Context, key string, logger logrus.FieldLogger) {
	if key == "" {
		return
	}
	if err := s.locker.Unclaim(context.WithoutCancel(ctx), key); err != nil {
		logger.Warnf("receptionService.Apply: releasing claim %s: %v", key, err)
	}
}

// logPurchase appends the applied invoice to the purchases log. It is
// best-effort: the inventory is already updated.
func (s *receptionService) logPurchase(ctx context.Context, r *workflow.Reception, logger logrus.FieldLogger) {
	if s.purchases == nil {
		return
	}
	h := r.Invoice().Header
	p := &domain.Purchase{
		ID:           uuid.New().String(),
		ReceivedAt:   s.now().UTC(),
		SupplierName: h.SupplierName,
		Folio:        h.Folio,
		Subtotal:     h.Subtotal,
		TaxTotal:     h.TaxTotal,
		GrandTotal:   h.GrandTotal,
		LineCount:    len(r.Lines()),
	}
	if err := s.purchases.Append(ctx, p); err != nil {
		logger.Warnf("receptionService.Apply: purchases log not written: %v", err)
	}
}

func (s *receptionService) Cancel(ctx context.Context, id string) error {
	r, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if err := r.Cancel(); err != nil {
		return err
	}
	if err := s.sessions.Delete(ctx, id); err != nil {
		return fmt.Errorf("receptionService.Cancel: %w", err)
	}
	s.log.WithField("session_id", id).Info("receptionService.Cancel: reception cancelled")
	return nil
}

func (s *receptionService) ArchiveURL(ctx context.Context, id string) (string, error) {
	r, err := s.load(ctx, id)
	if err != nil {
		return "", err
	}
	key := r.Session().ArchiveKey
	if s.storage == nil || key == "" {
		return "", domain.ErrNotFound
	}
	url, err := s.storage.GetPresignedURL(ctx, s.bucket, key, s.cfg.ArchivePresignTTL)
	if err != nil {
		return "", fmt.Errorf("receptionService.ArchiveURL: %w", err)
	}
	return url, nil
}

func (s *receptionService) step(ctx context.Context, id string, fn func(*workflow.Reception) error) (*ReceptionView, error) {
	r, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(r); err != nil {
		return nil, err
	}
	if err := s.save(ctx, r); err != nil {
		return nil, err
	}
	return s.view(ctx, r), nil
}

func (s *receptionService) load(ctx context.Context, id string) (*workflow.Reception, error) {
	sess, err := s.sessions.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return workflow.Restore(sess, s.options()), nil
}

func (s *receptionService) save(ctx context.Context, r *workflow.Reception) error {
	if err := s.sessions.Save(ctx, r.Session(), s.cfg.SessionTTL); err != nil {
		return fmt.Errorf("receptionService.save: %w", err)
	}
	return nil
}

func (s *receptionService) view(ctx context.Context, r *workflow.Reception) *ReceptionView {
	v := &ReceptionView{ReceptionSession: r.Session(), Summary: r.Summary()}
	if s.checks != nil {
		v.Checks = s.checks.Run(ctx, r.Invoice())
	}
	return v
}
