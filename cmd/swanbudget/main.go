package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/uson1004/SwanBudget/internal/backup"
	"github.com/uson1004/SwanBudget/internal/cli"
	"github.com/uson1004/SwanBudget/internal/config"
	apphttp "github.com/uson1004/SwanBudget/internal/http"
	applog "github.com/uson1004/SwanBudget/internal/log"
)

const shutdownTimeout = 30 * time.Second

func main() {
	cfg, logger := cli.Bootstrap(applog.ComponentApp)

	ctx, cancel := cli.SignalContext(logger)
	defer cancel()

	res := cli.OpenBackend(ctx, cfg, logger)
	defer func() {
		if err := res.Cleanup(); err != nil {
			logger.Error("Backend cleanup failed", "error", err)
		}
	}()

	srv := apphttp.NewServer(":"+cfg.Port, res.Store, apphttp.Options{
		Logger:             logger,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
		BackupPrefix:       cfg.BackupPrefix,
		Checks:             res.Checks,
	})
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Starting swanbudget server",
			"port", cfg.Port,
			"backend", cfg.DataBackend,
			"timezone", cfg.Timezone)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
			return err
		}
		return nil
	})

	if cfg.BackupSchedule != "" {
		sched, closeSinks, err := newScheduler(ctx, cfg, res.Store)
		if err != nil {
			logger.Error("Failed to set up backup scheduler", "error", err)
			os.Exit(1)
		}
		defer closeSinks()
		g.Go(func() error {
			return sched.Run(gctx)
		})
	}

	if err := g.Wait(); err != nil {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}

// newScheduler backs up the in-process store, so the snapshot always
// reflects what the server has accepted.
func newScheduler(ctx context.Context, cfg *config.Config, store backup.Source) (*backup.Scheduler, func(), error) {
	sinks, closeSinks, err := cli.BackupSinks(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	sched, err := backup.NewScheduler(cfg.BackupSchedule, backup.NewRunner(store, cfg.BackupPrefix, sinks...), cfg.Location())
	if err != nil {
		closeSinks()
		return nil, nil, err
	}
	return sched, closeSinks, nil
}
