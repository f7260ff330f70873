package storage

import (
	"context"
	"path/filepath"
	"testing"
)

func newTestRepo(t *testing.T) (*SQLiteRepository, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data", "swan.db")
	repo, err := NewSQLiteRepository(path)
	if err != nil {
		t.Fatalf("NewSQLiteRepository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo, path
}

func TestSQLiteRepository_RoundTrip(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	if _, ok, err := repo.Get(ctx, "cards"); err != nil || ok {
		t.Fatalf("expected missing key, ok=%v err=%v", ok, err)
	}

	if err := repo.Set(ctx, "cards", []byte(`[{"id":"1"}]`)); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := repo.Set(ctx, "cards", []byte(`[]`)); err != nil {
		t.Fatalf("Set overwrite: %v", err)
	}
	v, ok, err := repo.Get(ctx, "cards")
	if err != nil || !ok {
		t.Fatalf("Get: ok=%v err=%v", ok, err)
	}
	if string(v) != "[]" {
		t.Fatalf("expected overwritten value, got %s", v)
	}

	if err := repo.Set(ctx, "transactions", []byte(`[]`)); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := repo.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	for _, key := range []string{"cards", "transactions"} {
		if _, ok, _ := repo.Get(ctx, key); ok {
			t.Fatalf("%s still present after Clear", key)
		}
	}
}

func TestSQLiteRepository_Migrations(t *testing.T) {
	repo, path := newTestRepo(t)

	// Re-running is a no-op and leaves the table usable.
	if err := RunMigrations(path); err != nil {
		t.Fatalf("second RunMigrations: %v", err)
	}
	if err := repo.Set(context.Background(), "cards", []byte(`[]`)); err != nil {
		t.Fatalf("Set after re-migrate: %v", err)
	}
}
