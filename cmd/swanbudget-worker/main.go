package main

import (
	"context"
	"errors"
	"os"

	"golang.org/x/sync/errgroup"

	"github.com/uson1004/SwanBudget/internal/cli"
	applog "github.com/uson1004/SwanBudget/internal/log"
	gsheet "github.com/uson1004/SwanBudget/internal/sheets/google"
	"github.com/uson1004/SwanBudget/internal/worker"
)

func main() {
	cfg, logger := cli.Bootstrap(applog.ComponentWorker)

	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the mirror worker")
		os.Exit(1)
	}
	if !cfg.SheetsEnabled() {
		logger.Error("GOOGLE_SPREADSHEET_ID is required for the mirror worker")
		os.Exit(1)
	}

	ctx, cancel := cli.SignalContext(logger)
	defer cancel()

	res := cli.OpenBackend(ctx, cfg, logger)
	defer func() {
		if err := res.Cleanup(); err != nil {
			logger.Error("Backend cleanup failed", "error", err)
		}
	}()

	// The backend only warns when the broker is down; the worker has
	// nothing to do without it.
	if res.Publisher == nil {
		logger.Error("Failed to connect to AMQP broker", "url", cfg.AMQPURL)
		os.Exit(1)
	}
	consumer := res.Publisher

	sheetsClient, err := gsheet.New(ctx, gsheet.Options{
		SpreadsheetID:     cfg.GoogleSpreadsheetID,
		TransactionsSheet: os.Getenv("GOOGLE_TRANSACTIONS_SHEET_NAME"),
		CardsSheet:        os.Getenv("GOOGLE_CARDS_SHEET_NAME"),
		CategoriesSheet:   os.Getenv("GOOGLE_CATEGORIES_SHEET_NAME"),
		SummarySheet:      os.Getenv("GOOGLE_SUMMARY_SHEET_NAME"),
		Location:          cfg.Location(),
	})
	if err != nil {
		logger.Error("Failed to initialize Google Sheets client", "error", err)
		os.Exit(1)
	}

	w := worker.NewMirrorWorker(res.Store, sheetsClient)

	logger.Info("Starting swanbudget mirror worker",
		"exchange", cfg.AMQPExchange,
		"queue", cfg.AMQPQueue,
		"sync_interval", cfg.SyncInterval)

	// Catch up on anything that changed while the worker was down.
	if err := w.SyncAll(ctx); err != nil {
		logger.Error("Initial sync failed", "error", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return consumer.ConsumeChanges(gctx, w.HandleChange)
	})
	g.Go(func() error {
		return w.RunPeriodic(gctx, cfg.SyncInterval)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Worker stopped with error", "error", err)
		os.Exit(1)
	}
	logger.Info("Worker stopped gracefully")
}
