// Tally - User Engagement Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tally

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/tally/internal/analytics"
	"github.com/tomtom215/tally/internal/api"
	"github.com/tomtom215/tally/internal/config"
	"github.com/tomtom215/tally/internal/database"
	"github.com/tomtom215/tally/internal/ingest"
	"github.com/tomtom215/tally/internal/logging"
	"github.com/tomtom215/tally/internal/supervisor"
	"github.com/tomtom215/tally/internal/supervisor/services"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := run(); err != nil {
		logging.Fatal().Err(err).Msg("Tally stopped with an error")
	}
	logging.Info().Msg("Application stopped gracefully")
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
	})

	logging.Info().
		Str("version", version).
		Str("environment", cfg.Server.Environment).
		Str("db_path", cfg.Database.Path).
		Msg("Starting Tally")
	if cfg.ShouldWarnAboutCORS() {
		logging.Warn().Msg("CORS allows any origin; set CORS_ORIGINS to restrict it")
	}

	dateFormat, err := ingest.ParseDateFormat(cfg.Import.DateFormat)
	if err != nil {
		return fmt.Errorf("import date format: %w", err)
	}

	db, err := database.New(&cfg.Database)
	if err != nil {
		return fmt.Errorf("initialize database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()
	logging.Info().Msg("Database initialized successfully")

	service := analytics.NewService(analytics.ServiceConfig{
		CacheEnabled: cfg.Cache.Enabled,
		CacheSize:    cfg.Cache.Size,
		CacheTTL:     cfg.Cache.TTL,

		MaxRollingDays: cfg.Server.MaxRollingDays,
	})
	importer := ingest.NewImporter(db, ingest.Options{
		BatchSize:  cfg.Import.BatchSize,
		DateFormat: dateFormat,
	})

	handler := api.NewHandler(db, service, importer, cfg, version)
	router := api.NewRouter(handler, api.NewChiMiddleware(api.ChiMiddlewareConfigFrom(cfg.Security)))

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router.Setup(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       60 * time.Second,
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		return fmt.Errorf("create supervisor tree: %w", err)
	}

	if cfg.Database.CheckpointInterval > 0 {
		tree.AddDataService(services.NewCheckpointService(db, cfg.Database.CheckpointInterval))
		logging.Info().Dur("interval", cfg.Database.CheckpointInterval).Msg("Checkpoint service added")
	}
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logging.Info().Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	var serveErr error
	select {
	case <-ctx.Done():
		logging.Info().Msg("Received shutdown signal, waiting for supervisor to finish...")
		serveErr = <-errCh
	case serveErr = <-errCh:
	}
	if serveErr != nil && !errors.Is(serveErr, context.Canceled) {
		return fmt.Errorf("supervisor tree: %w", serveErr)
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}
	return nil
}

