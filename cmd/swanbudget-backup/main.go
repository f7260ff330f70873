package main

import (
	"flag"
	"os"

	"github.com/uson1004/SwanBudget/internal/backup"
	"github.com/uson1004/SwanBudget/internal/cli"
	applog "github.com/uson1004/SwanBudget/internal/log"
)

func main() {
	once := flag.Bool("once", false, "write a single backup and exit")
	restore := flag.String("restore", "", "restore from a backup file path or gs://bucket/object URI")
	flag.Parse()

	cfg, logger := cli.Bootstrap(applog.ComponentBackup)

	ctx, cancel := cli.SignalContext(logger)
	defer cancel()

	res := cli.OpenBackend(ctx, cfg, logger)
	defer func() {
		if err := res.Cleanup(); err != nil {
			logger.Error("Backend cleanup failed", "error", err)
		}
	}()

	if *restore != "" {
		data, err := backup.Fetch(ctx, *restore)
		if err != nil {
			logger.Error("Failed to read backup", "error", err, "source", *restore)
			os.Exit(1)
		}
		if err := res.Store.Restore(ctx, data); err != nil {
			logger.Error("Restore failed", "error", err, "source", *restore)
			os.Exit(1)
		}
		logger.Info("Restore completed",
			"source", *restore,
			"transactions", len(res.Store.Transactions()),
			"cards", len(res.Store.Cards()),
			"categories", len(res.Store.Categories()))
		return
	}

	sinks, closeSinks, err := cli.BackupSinks(ctx, cfg)
	if err != nil {
		logger.Error("Failed to set up backup sinks", "error", err)
		os.Exit(1)
	}
	defer closeSinks()

	runner := backup.NewRunner(res.Store, cfg.BackupPrefix, sinks...)
	// The server owns the ledger; pick up its latest writes before each run.
	runner.Reload = true

	if *once || cfg.BackupSchedule == "" {
		if _, err := runner.RunOnce(ctx); err != nil {
			logger.Error("Backup failed", "error", err)
			os.Exit(1)
		}
		return
	}

	sched, err := backup.NewScheduler(cfg.BackupSchedule, runner, cfg.Location())
	if err != nil {
		logger.Error("Invalid backup schedule", "error", err, "schedule", cfg.BackupSchedule)
		os.Exit(1)
	}
	if err := sched.Run(ctx); err != nil {
		logger.Error("Backup scheduler stopped with error", "error", err)
		os.Exit(1)
	}
}
