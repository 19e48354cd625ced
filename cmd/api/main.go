package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/avandenberg/tally/internal/config"
	"github.com/avandenberg/tally/internal/database"
	tallyHttp "github.com/avandenberg/tally/internal/http"
	dataHandler "github.com/avandenberg/tally/internal/http/data"
	healthHandler "github.com/avandenberg/tally/internal/http/health"
	reconcileHandler "github.com/avandenberg/tally/internal/http/reconcile"
	reportingHandler "github.com/avandenberg/tally/internal/http/reporting"
	"github.com/avandenberg/tally/internal/importer"
	"github.com/avandenberg/tally/internal/ledger"
	ledgerStore "github.com/avandenberg/tally/internal/ledger/store"
	"github.com/avandenberg/tally/internal/recon"
	"github.com/avandenberg/tally/internal/report"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	db, err := database.New(ctx, cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	store := ledgerStore.New(db)
	if err := store.Migrate(ctx); err != nil {
		slog.Error("failed to migrate database", "error", err)
		os.Exit(1)
	}

	var (
		ledgerService = ledger.NewService(store)
		importService = importer.NewService(cfg.App.DataDir)
		reportService = report.NewService(ledgerService)
		engine        = recon.New()
	)

	var (
		healthH    = healthHandler.NewHandler(ledgerService)
		dataH      = dataHandler.NewHandler(importService, ledgerService)
		reconcileH = reconcileHandler.NewHandler(engine, ledgerService, cfg.ReconDefaults())
		reportingH = reportingHandler.NewHandler(reportService)
	)

	router := tallyHttp.New(tallyHttp.Config{
		AuthSecret:     cfg.Auth.Secret,
		AllowedOrigins: cfg.Server.AllowedOrigins,
	}, healthH, dataH, reconcileH, reportingH)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	slog.Info("starting server", "port", port)

	if err := http.ListenAndServe(port, router); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
