package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/europemission/martha/internal/backup"
	"github.com/europemission/martha/internal/circuit"
	circuitStore "github.com/europemission/martha/internal/circuit/store"
	"github.com/europemission/martha/internal/config"
	"github.com/europemission/martha/internal/database"
	"github.com/europemission/martha/internal/document"
	documentStore "github.com/europemission/martha/internal/document/store"
	"github.com/europemission/martha/internal/event"
	eventStore "github.com/europemission/martha/internal/event/store"
	marthaHttp "github.com/europemission/martha/internal/http"
	backupHandler "github.com/europemission/martha/internal/http/backup"
	circuitHandler "github.com/europemission/martha/internal/http/circuit"
	eventHandler "github.com/europemission/martha/internal/http/event"
	inventoryHandler "github.com/europemission/martha/internal/http/inventory"
	reportHandler "github.com/europemission/martha/internal/http/report"
	txHandler "github.com/europemission/martha/internal/http/transaction"
	"github.com/europemission/martha/internal/inventory"
	inventoryStore "github.com/europemission/martha/internal/inventory/store"
	"github.com/europemission/martha/internal/report"
	"github.com/europemission/martha/internal/transaction"
	txStore "github.com/europemission/martha/internal/transaction/store"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := database.Open(cfg.DB.Path)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	logger := slog.Default()

	var (
		transactionRepo = txStore.New(db)
		circuitRepo     = circuitStore.New(db)
		inventoryRepo   = inventoryStore.New(db)
		eventRepo       = eventStore.New(db)
		documentRepo    = documentStore.New(db)
	)

	var (
		transactionService = transaction.NewService(transactionRepo)
		circuitService     = circuit.NewService(circuitRepo)
		inventoryService   = inventory.NewService(inventoryRepo)
		eventService       = event.NewService(eventRepo)
		documentService    = document.NewService(documentRepo)
		reportService      = report.NewService(
			transactionService,
			circuitService,
			documentService,
			report.NewBuilder(cfg.Org.Name, cfg.Org.Currency),
			logger,
		)
		backupService = backup.NewService(
			transactionRepo,
			circuitRepo,
			inventoryRepo,
			eventRepo,
			documentRepo,
			logger,
		)
	)

	var (
		transactionH = txHandler.NewHandler(transactionService)
		circuitH     = circuitHandler.NewHandler(circuitService)
		inventoryH   = inventoryHandler.NewHandler(inventoryService)
		eventH       = eventHandler.NewHandler(eventService)
		reportH      = reportHandler.NewHandler(reportService, documentService)
		backupH      = backupHandler.NewHandler(backupService)
	)

	router := marthaHttp.New(transactionH, circuitH, inventoryH, eventH, reportH, backupH)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
	}

	slog.Info("starting server", "app", cfg.App.Name, "addr", srv.Addr, "db", cfg.DB.Path)

	if err := srv.ListenAndServe(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
