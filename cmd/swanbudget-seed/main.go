package main

import (
	"flag"
	"os"
	"time"

	"github.com/uson1004/SwanBudget/internal/cli"
	applog "github.com/uson1004/SwanBudget/internal/log"
	"github.com/uson1004/SwanBudget/internal/seed"
)

func main() {
	n := flag.Int("n", 120, "number of transactions to generate")
	months := flag.Int("months", 6, "spread transactions over this many months, the current one included")
	cards := flag.Int("cards", 2, "number of demo cards to register first")
	seedValue := flag.Int64("seed", time.Now().UnixNano(), "random seed")
	reset := flag.Bool("reset", false, "wipe the ledger before seeding")
	flag.Parse()

	cfg, logger := cli.Bootstrap(applog.ComponentApp)

	ctx, cancel := cli.SignalContext(logger)
	defer cancel()

	res := cli.OpenBackend(ctx, cfg, logger)
	defer func() {
		if err := res.Cleanup(); err != nil {
			logger.Error("Backend cleanup failed", "error", err)
		}
	}()
	store := res.Store

	if *reset {
		if err := store.ResetAllData(ctx); err != nil {
			logger.Error("Reset failed", "error", err)
			os.Exit(1)
		}
	}

	gen := seed.NewGenerator(*seedValue, cfg.Location())
	now := time.Now()

	for i := 0; i < *cards; i++ {
		if _, err := store.AddCard(ctx, gen.Card(now)); err != nil {
			logger.Error("Failed to add card", "error", err)
			os.Exit(1)
		}
	}

	added := 0
	for _, in := range gen.Transactions(*n, *months, now, store.Categories(), store.Cards()) {
		if ctx.Err() != nil {
			break
		}
		if _, err := store.AddTransaction(ctx, in); err != nil {
			logger.Error("Failed to add transaction", "error", err, "added", added)
			os.Exit(1)
		}
		added++
	}

	logger.Info("Seed completed",
		"seed", *seedValue,
		"transactions", added,
		"cards", *cards,
		"backend", cfg.DataBackend,
		"balance", store.Balance())
}
