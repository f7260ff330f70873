// Package memory provides an in-process KeyValueStore, optionally seeded from
// JSON files on disk.
package memory

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/uson1004/SwanBudget/internal/storage"
)

// Store is a map guarded by a mutex. Values are copied on the way in and out.
type Store struct {
	mu      sync.Mutex
	entries map[string][]byte
	closed  bool
}

var _ storage.KeyValueStore = (*Store)(nil)

func New() *Store {
	return &Store{entries: make(map[string][]byte)}
}

// NewFromFiles seeds a store with every <key>.json file found in dir.
// A missing directory yields an empty store.
func NewFromFiles(dir string) *Store {
	s := New()
	matches, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		slog.Warn("Invalid seed directory pattern", "dir", dir, "error", err)
		return s
	}
	for _, path := range matches {
		b, err := os.ReadFile(path)
		if err != nil {
			slog.Warn("Skipping unreadable seed file", "path", path, "error", err)
			continue
		}
		key := strings.TrimSuffix(filepath.Base(path), ".json")
		s.entries[key] = b
	}
	if len(s.entries) > 0 {
		slog.Info("Seeded memory store", "dir", dir, "keys", len(s.entries))
	}
	return s
}

func (s *Store) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, false, storage.ErrClosed
	}
	v, ok := s.entries[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

func (s *Store) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return storage.ErrClosed
	}
	s.entries[key] = append([]byte(nil), value...)
	return nil
}

func (s *Store) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return storage.ErrClosed
	}
	s.entries = make(map[string][]byte)
	return nil
}

func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *Store) Ping(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return storage.ErrClosed
	}
	return nil
}
