package backup

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/uson1004/SwanBudget/internal/core"
	"github.com/uson1004/SwanBudget/internal/finance"
	"github.com/uson1004/SwanBudget/internal/storage/memory"
)

type failingSink struct{}

func (failingSink) Put(context.Context, string, []byte) (string, error) {
	return "", errors.New("disk full")
}

func testStore(t *testing.T) *finance.Store {
	t.Helper()
	now := time.Date(2025, 3, 5, 8, 0, 0, 0, time.UTC)
	s := finance.New(memory.New(),
		finance.WithClock(func() time.Time { return now }),
		finance.WithLocation(time.UTC))
	if _, err := s.AddTransaction(context.Background(), core.TransactionInput{
		Date: now, Description: "월급", Amount: 100, Type: core.Income, Category: "급여",
	}); err != nil {
		t.Fatal(err)
	}
	return s
}

func TestRunOnceWritesToDir(t *testing.T) {
	dir := t.TempDir()
	r := NewRunner(testStore(t), "", DirSink{Dir: filepath.Join(dir, "nested")})

	locs, err := r.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("RunOnce: %v", err)
	}
	want := filepath.Join(dir, "nested", "백조_백업_2025-03-05.json")
	if len(locs) != 1 || locs[0] != want {
		t.Fatalf("locations = %v, want %s", locs, want)
	}

	data, err := Fetch(context.Background(), want)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	var snap core.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		t.Fatalf("backup is not a snapshot: %v", err)
	}
	if len(snap.Transactions) != 1 || len(snap.Categories) != 13 {
		t.Fatalf("snapshot = %+v", snap)
	}

	entries, _ := os.ReadDir(filepath.Join(dir, "nested"))
	if len(entries) != 1 {
		t.Fatalf("temp files left behind: %v", entries)
	}
}

func TestRunOnceCollectsSinkErrors(t *testing.T) {
	dir := t.TempDir()
	r := NewRunner(testStore(t), "ledger", failingSink{}, DirSink{Dir: dir})

	locs, err := r.RunOnce(context.Background())
	if err == nil || !strings.Contains(err.Error(), "disk full") {
		t.Fatalf("want sink error, got %v", err)
	}
	if len(locs) != 1 || filepath.Base(locs[0]) != "ledger_2025-03-05.json" {
		t.Fatalf("healthy sink should still run: %v", locs)
	}
}

func TestRunOnceWithoutSinks(t *testing.T) {
	if _, err := NewRunner(testStore(t), "").RunOnce(context.Background()); err == nil {
		t.Fatal("expected error without sinks")
	}
}

func TestRunOnceReload(t *testing.T) {
	ctx := context.Background()
	kv := memory.New()
	server := finance.New(kv)
	backupView := finance.New(kv)
	_, _ = server.AddCard(ctx, core.CardInput{CardNumber: "4111111111111111"})

	dir := t.TempDir()
	r := NewRunner(backupView, "b", DirSink{Dir: dir})
	r.Reload = true
	locs, err := r.RunOnce(ctx)
	if err != nil {
		t.Fatalf("RunOnce: %v", err)
	}
	data, _ := os.ReadFile(locs[0])
	var snap core.Snapshot
	_ = json.Unmarshal(data, &snap)
	if len(snap.Cards) != 1 {
		t.Fatalf("reload did not pick up persisted card: %+v", snap.Cards)
	}
}

func TestParseGCSURI(t *testing.T) {
	tests := []struct {
		uri    string
		bucket string
		object string
		ok     bool
	}{
		{"gs://bucket/a/b.json", "bucket", "a/b.json", true},
		{"gs://bucket/", "", "", false},
		{"gs://bucket", "", "", false},
		{"s3://bucket/a", "", "", false},
	}
	for _, tt := range tests {
		b, o, err := ParseGCSURI(tt.uri)
		if (err == nil) != tt.ok || b != tt.bucket || o != tt.object {
			t.Fatalf("ParseGCSURI(%q) = %q %q %v", tt.uri, b, o, err)
		}
	}
}

func TestFetchMissingFile(t *testing.T) {
	if _, err := Fetch(context.Background(), filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestGCSSinkObjectName(t *testing.T) {
	s := &GCSSink{bucket: "b", prefix: "swan/backups"}
	if got := s.objectName("x.json"); got != "swan/backups/x.json" {
		t.Fatalf("objectName = %q", got)
	}
	s.prefix = ""
	if got := s.objectName("x.json"); got != "x.json" {
		t.Fatalf("objectName = %q", got)
	}
}

func TestScheduler(t *testing.T) {
	r := NewRunner(testStore(t), "", DirSink{Dir: t.TempDir()})
	if _, err := NewScheduler("not a schedule", r, time.UTC); err == nil {
		t.Fatal("expected error for invalid spec")
	}

	s, err := NewScheduler("@daily", r, time.UTC)
	if err != nil {
		t.Fatalf("NewScheduler: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	deadline := time.Now().Add(time.Second)
	for s.Next().IsZero() && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if s.Next().IsZero() {
		t.Fatal("scheduler did not compute a next run")
	}
	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
