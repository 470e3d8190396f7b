package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/tallyapp/tally/internal/category"
	"github.com/tallyapp/tally/internal/config"
	"github.com/tallyapp/tally/internal/database"
	"github.com/tallyapp/tally/internal/export"
	tallyHttp "github.com/tallyapp/tally/internal/http"
	exportHandler "github.com/tallyapp/tally/internal/http/exportcsv"
	importHandler "github.com/tallyapp/tally/internal/http/importcsv"
	summaryHandler "github.com/tallyapp/tally/internal/http/summary"
	txHandler "github.com/tallyapp/tally/internal/http/transaction"
	"github.com/tallyapp/tally/internal/importer"
	"github.com/tallyapp/tally/internal/ledger"
	ledgerStore "github.com/tallyapp/tally/internal/ledger/store"
	"github.com/tallyapp/tally/internal/validate"
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
	if err := store.EnsureSchema(ctx); err != nil {
		slog.Error("failed to ensure schema", "error", err)
		os.Exit(1)
	}

	taxonomy := category.Default()

	if cfg.Taxonomy.Path != "" {
		taxonomy, err = category.LoadFile(cfg.Taxonomy.Path)
		if err != nil {
			slog.Error("failed to load taxonomy", "path", cfg.Taxonomy.Path, "error", err)
			os.Exit(1)
		}
	}

	var (
		resolver      = category.NewResolver(taxonomy)
		validator     = validate.New(resolver, cfg.Import.MaxDescription)
		ledgerService = ledger.NewService(store)
		importService = importer.NewService(validator, ledgerService, cfg.Import.MaxRows)
		exportService = export.NewService(ledgerService)
	)

	var (
		transactionH = txHandler.NewHandler(ledgerService, validator)
		importH      = importHandler.NewHandler(importService)
		exportH      = exportHandler.NewHandler(exportService)
		summaryH     = summaryHandler.NewHandler(ledgerService, taxonomy)
	)

	router := tallyHttp.New(transactionH, importH, exportH, summaryH)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	slog.Info("starting server", "app", cfg.App.Name, "port", port)

	if err := http.ListenAndServe(port, router); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
