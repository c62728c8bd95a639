// Package app wires configuration, logging, the connection manager and the
// document store into a running process.
package app

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/docstore/internal/config"
	"github.com/dmitrijs2005/docstore/internal/connmgr"
	"github.com/dmitrijs2005/docstore/internal/filex"
	"github.com/dmitrijs2005/docstore/internal/logging"
	"github.com/dmitrijs2005/docstore/internal/services"
	"github.com/dmitrijs2005/docstore/internal/storage"
	"github.com/dmitrijs2005/docstore/internal/storage/postgres"
	"github.com/dmitrijs2005/docstore/internal/storage/sqlite"
)

type App struct {
	config  *config.Config
	logger  logging.Logger
	manager *connmgr.Manager
	store   *services.DocumentStore
	out     io.Writer
}

// NewApp builds the preferred and fallback adapters from cfg. Nothing is
// connected until Run or Start. With cfg.AllowFallback off only the
// preferred backend is tried.
func NewApp(cfg *config.Config, logger logging.Logger, out io.Writer) *App {
	primary := newAdapter(cfg.PreferredBackend, cfg, logger)
	var fallback storage.Adapter
	if cfg.AllowFallback {
		fallback = newAdapter(cfg.FallbackBackend(), cfg, logger)
	}

	m := connmgr.NewManager(primary, fallback, connmgr.Options{
		MaxAttempts: cfg.ConnectAttempts,
		BaseDelay:   cfg.ConnectBaseDelay,
	}, logger.With("component", "connmgr"))

	return &App{
		config:  cfg,
		logger:  logger,
		manager: m,
		store:   services.NewDocumentStore(m, logger.With("component", "store")),
		out:     out,
	}
}

func newAdapter(backend string, cfg *config.Config, logger logging.Logger) storage.Adapter {
	if backend == config.BackendSQLite {
		return sqlite.NewAdapter(sqlite.Options{
			Path:       cfg.EmbeddedPath,
			Passphrase: cfg.EmbeddedPassphrase,
		}, logger)
	}
	return postgres.NewAdapter(postgres.Options{
		DSN:              cfg.DatabaseDSN,
		ConnectTimeout:   cfg.ConnectTimeout,
		StatementTimeout: cfg.StatementTimeout,
		MaxOpenConns:     cfg.MaxOpenConns,
	}, logger)
}

// Store returns the document store for an embedding transport layer.
func (app *App) Store() *services.DocumentStore { return app.store }

// Start connects a backend and writes the health report to the app output.
func (app *App) Start(ctx context.Context) error {
	if _, err := filex.EnsureParentDir(app.config.EmbeddedPath); err != nil {
		return fmt.Errorf("embedded store: %w", err)
	}
	if _, err := app.manager.Initialize(ctx); err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	h, err := app.store.HealthCheck(ctx)
	if err != nil {
		return fmt.Errorf("health check: %w", err)
	}

	enc := json.NewEncoder(app.out)
	enc.SetIndent("", "  ")
	return enc.Encode(h)
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run starts the store and keeps the backend open until ctx is cancelled or
// the process is signalled.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting docstore...", "backend", app.config.PreferredBackend)
	app.initSignalHandler(cancelFunc)

	if err := app.Start(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		return err
	}

	<-ctx.Done()

	// the run context is gone; disconnect with a fresh one
	if err := app.manager.Close(context.Background()); err != nil {
		app.logger.Error(ctx, "shutdown failed", "error", err)
		return err
	}
	app.logger.Info(ctx, "docstore stopped")
	return nil
}
