package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"tiendapos/internal/app"
	"tiendapos/internal/config"
	"tiendapos/internal/handler"
	"tiendapos/internal/logger"
	"tiendapos/internal/router"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logr := logger.New(&cfg.Log)
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stopSignals()

	a, err := app.New(sigCtx, cfg, logr)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := a.Close(); cerr != nil {
			logr.WithError(cerr).Warn("server: closing backends")
		}
	}()

	// Initialize handlers
	handlers := router.Handlers{
		Health:    handler.NewHealthHandler(a.Checks),
		Reception: handler.NewReceptionHandler(a.Reception, cfg.Reception.MaxUploadMB),
		Sales:     handler.NewSalesHandler(a.Sales),
		Inventory: handler.NewInventoryHandler(a.Inventory),
	}

	// Setup router
	r := router.Setup(logr, cfg.CORS.AllowedOrigins, handlers)

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	serverErrCh := make(chan error, 1)
	go func() {
		logr.Infof("Server starting on %s", cfg.Server.Port)
		serverErrCh <- srv.ListenAndServe()
	}()

	select {
	case <-sigCtx.Done():
		logr.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown: %w", err)
		}
	case err := <-serverErrCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
	}

	return nil
}
