package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/uson1004/SwanBudget/internal/amqp"
	"github.com/uson1004/SwanBudget/internal/core"
	"github.com/uson1004/SwanBudget/internal/finance"
	"github.com/uson1004/SwanBudget/internal/storage/memory"
)

type fakeWriter struct {
	writes []core.Snapshot
	err    error
}

func (f *fakeWriter) WriteSnapshot(_ context.Context, snap core.Snapshot) error {
	if f.err != nil {
		return f.err
	}
	f.writes = append(f.writes, snap)
	return nil
}

func TestMirrorWorkerSyncsPersistedState(t *testing.T) {
	ctx := context.Background()
	kv := memory.New()

	// The server process writes through its own store...
	writerStore := finance.New(kv)
	if _, err := writerStore.AddTransaction(ctx, core.TransactionInput{
		Date: time.Now(), Description: "커피", Amount: 4500, Type: core.Expense, Category: "식비",
	}); err != nil {
		t.Fatalf("AddTransaction: %v", err)
	}

	// ...and the worker sees it through a separate one.
	out := &fakeWriter{}
	w := NewMirrorWorker(finance.New(kv), out)

	msg := &amqp.ChangeMessage{Operation: core.OpAdd, Collection: finance.KeyTransactions, Timestamp: time.Now()}
	if err := w.HandleChange(ctx, msg); err != nil {
		t.Fatalf("HandleChange: %v", err)
	}
	if len(out.writes) != 1 || len(out.writes[0].Transactions) != 1 {
		t.Fatalf("writes = %+v", out.writes)
	}
	if w.LastSync().IsZero() {
		t.Fatal("last sync not recorded")
	}
}

func TestMirrorWorkerSkipsStaleMessages(t *testing.T) {
	out := &fakeWriter{}
	w := NewMirrorWorker(finance.New(memory.New()), out)
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	w.now = func() time.Time { return now }

	if err := w.SyncAll(context.Background()); err != nil {
		t.Fatalf("SyncAll: %v", err)
	}
	stale := &amqp.ChangeMessage{Operation: core.OpDelete, Collection: finance.KeyCards, Timestamp: now.Add(-time.Minute)}
	if err := w.HandleChange(context.Background(), stale); err != nil {
		t.Fatalf("HandleChange: %v", err)
	}
	if len(out.writes) != 1 {
		t.Fatalf("stale message triggered a write: %d writes", len(out.writes))
	}

	fresh := &amqp.ChangeMessage{Operation: core.OpDelete, Collection: finance.KeyCards, Timestamp: now.Add(time.Minute)}
	_ = w.HandleChange(context.Background(), fresh)
	if len(out.writes) != 2 {
		t.Fatalf("fresh message ignored: %d writes", len(out.writes))
	}
}

func TestMirrorWorkerWriteError(t *testing.T) {
	boom := errors.New("quota exceeded")
	w := NewMirrorWorker(finance.New(memory.New()), &fakeWriter{err: boom})
	err := w.HandleChange(context.Background(), &amqp.ChangeMessage{Operation: core.OpReset, Collection: "all"})
	if !errors.Is(err, boom) {
		t.Fatalf("want write error, got %v", err)
	}
	if !w.LastSync().IsZero() {
		t.Fatal("failed sync should not advance last sync")
	}
}

func TestRunPeriodicStopsOnCancel(t *testing.T) {
	out := &fakeWriter{}
	w := NewMirrorWorker(finance.New(memory.New()), out)
	ctx, cancel := context.WithTimeout(context.Background(), 80*time.Millisecond)
	defer cancel()

	err := w.RunPeriodic(ctx, 20*time.Millisecond)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("RunPeriodic = %v", err)
	}
	if len(out.writes) == 0 {
		t.Fatal("expected at least one periodic sync")
	}
}
