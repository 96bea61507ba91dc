// Package app assembles stores, services and their dependencies from
// configuration. It is shared by the HTTP server and the CLI.
package app

import (
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"tiendapos/internal/config"
	"tiendapos/internal/domain"
	"tiendapos/internal/handler"
	"tiendapos/internal/port"
	"tiendapos/internal/repository/memory"
	"tiendapos/internal/repository/postgres"
	redisrepo "tiendapos/internal/repository/redis"
	sheetrepo "tiendapos/internal/repository/sheet"
	"tiendapos/internal/service"
	"tiendapos/internal/sheet/xlsx"
	s3storage "tiendapos/internal/storage/s3"
	"tiendapos/internal/validator"
)

// App holds the wired services.
type App struct {
	Inventory port.InventoryRepository
	Reception service.ReceptionService
	Sales     service.SalesService
	// Checks are readiness probes for the configured backends.
	Checks map[string]handler.Check

	closers []func() error
}

// Close releases every backend connection.
func (a *App) Close() error {
	var first error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// New wires stores and services for cfg.
func New(ctx context.Context, cfg *config.Config, log *logrus.Logger) (*App, error) {
	a := &App{Checks: make(map[string]handler.Check)}

	var (
		inventory port.InventoryRepository
		sales     port.SalesRepository
		purchases port.PurchaseRepository
	)

	switch cfg.Store.Driver {
	case config.StoreDriverPostgres:
		db, err := postgres.NewDB(ctx, &cfg.DB)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		a.closers = append(a.closers, db.Close)
		a.Checks["database"] = db.PingContext

		inventory = postgres.NewProductRepo(db)
		sales = postgres.NewSaleRepo(db)
		purchases = postgres.NewPurchaseRepo(db)
	case config.StoreDriverXLSX:
		wb, err := xlsx.OpenOrCreate(cfg.Store.WorkbookPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open workbook: %w", err)
		}
		sheets := []struct {
			name   string
			header []string
		}{
			{cfg.Store.InventorySheet, domain.InventoryColumns},
			{cfg.Store.SalesSheet, domain.SalesColumns},
			{cfg.Store.PurchasesSheet, domain.PurchaseColumns},
		}
		for _, s := range sheets {
			if err := wb.EnsureSheet(s.name, s.header); err != nil {
				return nil, fmt.Errorf("failed to prepare sheet %q: %w", s.name, err)
			}
		}
		a.Checks["workbook"] = func(_ context.Context) error {
			_, err := os.Stat(wb.Path())
			return err
		}

		inventory = sheetrepo.NewInventoryRepo(wb.Sheet(cfg.Store.InventorySheet))
		sales = sheetrepo.NewSalesRepo(wb.Sheet(cfg.Store.SalesSheet))
		purchases = sheetrepo.NewPurchaseRepo(wb.Sheet(cfg.Store.PurchasesSheet))
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}

	var (
		sessions port.ReceptionSessionStore
		locker   port.Locker
	)
	if cfg.Redis.Enabled() {
		rdb, err := redisrepo.NewClient(ctx, &cfg.Redis)
		if err != nil {
			_ = a.Close()
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		a.closers = append(a.closers, rdb.Close)
		a.Checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }

		sessions = redisrepo.NewSessionStore(rdb, cfg.Redis.KeyPrefix)
		locker = redisrepo.NewLocker(rdb, cfg.Redis.KeyPrefix)
	} else {
		log.Warn("app.New: redis not configured, reception sessions and apply locks are in-process only")
		sessions = memory.NewSessionStore()
		locker = memory.NewLocker()
	}

	var storage port.ObjectStorage
	if cfg.Reception.ArchiveInvoices {
		s, err := s3storage.NewArchive(ctx, &cfg.S3)
		if err != nil {
			_ = a.Close()
			return nil, fmt.Errorf("failed to initialize S3 archive: %w", err)
		}
		storage = s
	}

	applier := service.NewInventoryApplier(inventory, log)
	checks := validator.NewEngine(validator.DefaultRegistry(), log)

	a.Inventory = inventory
	a.Reception = service.NewReceptionService(inventory, purchases, sessions, locker, storage, applier, checks, &cfg.Reception, cfg.S3.Bucket, log)
	a.Sales = service.NewSalesService(inventory, sales, log)

	log.WithFields(logrus.Fields{
		"store":   cfg.Store.Driver,
		"redis":   cfg.Redis.Enabled(),
		"archive": storage != nil,
	}).Info("app.New: services ready")
	return a, nil
}
