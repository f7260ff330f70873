package finance

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/uson1004/SwanBudget/internal/core"
	"github.com/uson1004/SwanBudget/internal/storage"
)

// Store is the default Manager. Operations are serialized by a mutex so each
// one observes the result of the previous one.
type Store struct {
	mu sync.Mutex

	kv        storage.KeyValueStore
	newID     IDGenerator
	now       func() time.Time
	loc       *time.Location
	publisher ChangePublisher
	logger    *slog.Logger

	transactions []core.Transaction // newest first
	cards        []core.Card        // oldest first
	categories   []core.Category
	settings     core.UserSettings

	revision uint64
}

var _ Manager = (*Store)(nil)

type Option func(*Store)

func WithIDGenerator(gen IDGenerator) Option {
	return func(s *Store) {
		if gen != nil {
			s.newID = gen
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLocation sets the zone used for calendar filters.
func WithLocation(loc *time.Location) Option {
	return func(s *Store) {
		if loc != nil {
			s.loc = loc
		}
	}
}

func WithPublisher(p ChangePublisher) Option {
	return func(s *Store) { s.publisher = p }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// New returns a store holding the default state. Call Load to read the
// persisted collections.
func New(kv storage.KeyValueStore, opts ...Option) *Store {
	s := &Store{
		kv:     kv,
		newID:  uuid.NewString,
		now:    time.Now,
		loc:    time.Local,
		logger: slog.Default().With("component", "finance"),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.resetLocked()
	return s
}

func (s *Store) resetLocked() {
	s.revision++
	s.transactions = []core.Transaction{}
	s.cards = []core.Card{}
	s.categories = core.DefaultCategories()
	s.settings = core.DefaultUserSettings()
}

func (s *Store) Location() *time.Location {
	return s.loc
}

// Revision changes whenever the ledger state changes. Callers use it to
// invalidate derived data.
func (s *Store) Revision() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.revision
}

func (s *Store) AddTransaction(ctx context.Context, in core.TransactionInput) (core.Transaction, error) {
	s.mu.Lock()
	tx := in.WithID(s.newID())
	s.transactions = append([]core.Transaction{tx}, s.transactions...)
	err := s.persistLocked(ctx, KeyTransactions)
	s.mu.Unlock()

	s.publish(ctx, core.OpAdd, KeyTransactions, tx.ID)
	return tx, err
}

// UpdateTransaction replaces every field of the matching entry in place.
// Unknown ids are ignored.
func (s *Store) UpdateTransaction(ctx context.Context, id string, in core.TransactionInput) error {
	s.mu.Lock()
	idx := -1
	for i := range s.transactions {
		if s.transactions[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return nil
	}
	s.transactions[idx] = in.WithID(id)
	err := s.persistLocked(ctx, KeyTransactions)
	s.mu.Unlock()

	s.publish(ctx, core.OpUpdate, KeyTransactions, id)
	return err
}

func (s *Store) DeleteTransaction(ctx context.Context, id string) error {
	s.mu.Lock()
	next, removed := removeByID(s.transactions, id, func(t core.Transaction) string { return t.ID })
	if !removed {
		s.mu.Unlock()
		return nil
	}
	s.transactions = next
	err := s.persistLocked(ctx, KeyTransactions)
	s.mu.Unlock()

	s.publish(ctx, core.OpDelete, KeyTransactions, id)
	return err
}

func (s *Store) AddCard(ctx context.Context, in core.CardInput) (core.Card, error) {
	s.mu.Lock()
	c := in.WithID(s.newID())
	s.cards = append(s.cards, c)
	err := s.persistLocked(ctx, KeyCards)
	s.mu.Unlock()

	s.publish(ctx, core.OpAdd, KeyCards, c.ID)
	return c, err
}

// DeleteCard leaves transactions that reference the card untouched.
func (s *Store) DeleteCard(ctx context.Context, id string) error {
	s.mu.Lock()
	next, removed := removeByID(s.cards, id, func(c core.Card) string { return c.ID })
	if !removed {
		s.mu.Unlock()
		return nil
	}
	s.cards = next
	err := s.persistLocked(ctx, KeyCards)
	s.mu.Unlock()

	s.publish(ctx, core.OpDelete, KeyCards, id)
	return err
}

// AddCategory does not check for duplicates; see HasCategory.
func (s *Store) AddCategory(ctx context.Context, in core.CategoryInput) (core.Category, error) {
	s.mu.Lock()
	c := in.WithID(s.newID())
	s.categories = append(s.categories, c)
	err := s.persistLocked(ctx, KeyCategories)
	s.mu.Unlock()

	s.publish(ctx, core.OpAdd, KeyCategories, c.ID)
	return c, err
}

func (s *Store) DeleteCategory(ctx context.Context, id string) error {
	s.mu.Lock()
	next, removed := removeByID(s.categories, id, func(c core.Category) string { return c.ID })
	if !removed {
		s.mu.Unlock()
		return nil
	}
	s.categories = next
	err := s.persistLocked(ctx, KeyCategories)
	s.mu.Unlock()

	s.publish(ctx, core.OpDelete, KeyCategories, id)
	return err
}

func (s *Store) UpdateUserSettings(ctx context.Context, patch core.SettingsPatch) (core.UserSettings, error) {
	s.mu.Lock()
	s.settings = patch.Apply(s.settings)
	updated := s.settings
	err := s.persistLocked(ctx, KeyUserSettings)
	s.mu.Unlock()

	s.publish(ctx, core.OpUpdate, KeyUserSettings, "")
	return updated, err
}

// ResetAllData wipes the persisted store and returns every collection to its
// default. The defaults are written back so a reload sees the same state.
func (s *Store) ResetAllData(ctx context.Context) error {
	s.mu.Lock()
	s.resetLocked()
	err := s.kv.Clear(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to clear persisted store", "error", err)
	}
	for _, key := range collectionKeys {
		if perr := s.persistLocked(ctx, key); perr != nil && err == nil {
			err = perr
		}
	}
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "All data reset")
	s.publish(ctx, core.OpReset, "all", "")
	return err
}

func (s *Store) publish(ctx context.Context, op, collection, id string) {
	if s.publisher == nil {
		return
	}
	ev := core.ChangeEvent{Operation: op, Collection: collection, EntityID: id, At: s.now()}
	if err := s.publisher.PublishChange(ctx, ev); err != nil {
		s.logger.WarnContext(ctx, "Failed to publish change event",
			"error", err,
			"operation", op,
			"collection", collection,
			"entity_id", id)
	}
}

func removeByID[T any](items []T, id string, key func(T) string) ([]T, bool) {
	out := make([]T, 0, len(items))
	removed := false
	for _, it := range items {
		if key(it) == id {
			removed = true
			continue
		}
		out = append(out, it)
	}
	return out, removed
}
