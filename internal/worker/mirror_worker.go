package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/uson1004/SwanBudget/internal/amqp"
	"github.com/uson1004/SwanBudget/internal/core"
	"github.com/uson1004/SwanBudget/internal/sheets"
)

// SnapshotSource reloads the persisted ledger and snapshots it.
// *finance.Store satisfies it.
type SnapshotSource interface {
	Load(ctx context.Context) error
	Backup() core.Snapshot
}

// MirrorWorker keeps a spreadsheet in step with the ledger. Each change
// message triggers a full rewrite; messages older than the last successful
// mirror are skipped since the sheet already reflects them.
type MirrorWorker struct {
	source SnapshotSource
	writer sheets.SnapshotWriter
	now    func() time.Time

	mu       sync.Mutex
	lastSync time.Time
}

func NewMirrorWorker(source SnapshotSource, writer sheets.SnapshotWriter) *MirrorWorker {
	return &MirrorWorker{source: source, writer: writer, now: time.Now}
}

// HandleChange processes a single change message from AMQP.
func (w *MirrorWorker) HandleChange(ctx context.Context, msg *amqp.ChangeMessage) error {
	if last := w.LastSync(); !msg.Timestamp.IsZero() && msg.Timestamp.Before(last) {
		slog.DebugContext(ctx, "Change already mirrored, skipping",
			"operation", msg.Operation,
			"collection", msg.Collection,
			"timestamp", msg.Timestamp,
			"last_sync", last)
		return nil
	}

	slog.InfoContext(ctx, "Processing change message",
		"operation", msg.Operation,
		"collection", msg.Collection,
		"entity_id", msg.EntityID)
	return w.SyncAll(ctx)
}

// SyncAll reloads the ledger and rewrites the mirror.
func (w *MirrorWorker) SyncAll(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	started := w.now()
	if err := w.source.Load(ctx); err != nil {
		return fmt.Errorf("load ledger: %w", err)
	}
	snap := w.source.Backup()
	if err := w.writer.WriteSnapshot(ctx, snap); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	w.lastSync = started

	slog.InfoContext(ctx, "Mirror synced",
		"transactions", len(snap.Transactions),
		"duration", w.now().Sub(started))
	return nil
}

func (w *MirrorWorker) LastSync() time.Time {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastSync
}

// RunPeriodic re-syncs every interval to recover from missed messages. It
// blocks until ctx is done.
func (w *MirrorWorker) RunPeriodic(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		<-ctx.Done()
		return ctx.Err()
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := w.SyncAll(ctx); err != nil {
				slog.ErrorContext(ctx, "Periodic sync failed", "error", err)
			}
		}
	}
}
