package finance

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"

	"github.com/uson1004/SwanBudget/internal/core"
)

// Storage keys, one per collection.
const (
	KeyTransactions = "transactions"
	KeyCards        = "cards"
	KeyCategories   = "categories"
	KeyUserSettings = "userSettings"
)

var collectionKeys = []string{KeyTransactions, KeyCards, KeyCategories, KeyUserSettings}

// persistLocked writes the collection stored under key. Empty collections
// are written too, so a deletion that empties a list survives a reload.
func (s *Store) persistLocked(ctx context.Context, key string) error {
	s.revision++

	var v any
	switch key {
	case KeyTransactions:
		v = s.transactions
	case KeyCards:
		v = s.cards
	case KeyCategories:
		v = s.categories
	case KeyUserSettings:
		v = s.settings
	default:
		return fmt.Errorf("unknown collection %q", key)
	}

	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := s.kv.Set(ctx, key, data); err != nil {
		s.logger.ErrorContext(ctx, "Failed to persist collection", "key", key, "error", err)
		return fmt.Errorf("persist %s: %w", key, err)
	}
	return nil
}

// Load replaces the in-memory state with what is persisted. Missing keys and
// unparsable values fall back to the defaults. Only storage read failures are
// returned, and even then every readable key is still applied.
func (s *Store) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.resetLocked()

	var firstErr error
	for _, key := range collectionKeys {
		data, ok, err := s.kv.Get(ctx, key)
		if err != nil {
			s.logger.WarnContext(ctx, "Failed to read collection", "key", key, "error", err)
			if firstErr == nil {
				firstErr = fmt.Errorf("read %s: %w", key, err)
			}
			continue
		}
		if !ok {
			continue
		}
		if err := s.decodeLocked(key, data); err != nil {
			s.logger.WarnContext(ctx, "Ignoring unparsable collection", "key", key, "error", err)
		}
	}

	s.logger.InfoContext(ctx, "Ledger loaded",
		"transactions", len(s.transactions),
		"cards", len(s.cards),
		"categories", len(s.categories))
	return firstErr
}

// decodeLocked parses data into the collection for key. The collection is
// only replaced when parsing succeeds.
func (s *Store) decodeLocked(key string, data []byte) error {
	switch key {
	case KeyTransactions:
		var v []core.Transaction
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		if v == nil {
			v = []core.Transaction{}
		}
		s.transactions = v
	case KeyCards:
		var v []core.Card
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		if v == nil {
			v = []core.Card{}
		}
		s.cards = v
	case KeyCategories:
		var v []core.Category
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		if v == nil {
			v = []core.Category{}
		}
		s.categories = v
	case KeyUserSettings:
		var v core.UserSettings
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		s.settings = v
	default:
		return fmt.Errorf("unknown collection %q", key)
	}
	return nil
}
