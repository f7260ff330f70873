// Package finance owns the ledger state: transactions, cards, categories and
// the user settings singleton. Every mutation is written through to a
// storage.KeyValueStore, one key per collection.
package finance

import (
	"context"
	"time"

	"github.com/uson1004/SwanBudget/internal/core"
)

// Manager is the operation set exposed to the HTTP layer and the tools.
type Manager interface {
	AddTransaction(ctx context.Context, in core.TransactionInput) (core.Transaction, error)
	UpdateTransaction(ctx context.Context, id string, in core.TransactionInput) error
	DeleteTransaction(ctx context.Context, id string) error

	AddCard(ctx context.Context, in core.CardInput) (core.Card, error)
	DeleteCard(ctx context.Context, id string) error

	AddCategory(ctx context.Context, in core.CategoryInput) (core.Category, error)
	DeleteCategory(ctx context.Context, id string) error

	UpdateUserSettings(ctx context.Context, patch core.SettingsPatch) (core.UserSettings, error)

	ResetAllData(ctx context.Context) error
	Restore(ctx context.Context, data []byte) error
	Backup() core.Snapshot
	BackupFilename(prefix string) string

	Transactions() []core.Transaction
	Cards() []core.Card
	Categories() []core.Category
	UserSettings() core.UserSettings
	CardByID(id string) (core.Card, bool)
	HasCategory(name string, t core.TransactionType) bool

	MonthlyTransactions(year int, month time.Month) []core.Transaction
	YearlyTransactions(year int) []core.Transaction
	DailyTransactions(day time.Time) []core.Transaction
	TotalIncome() float64
	TotalExpense() float64
	Balance() float64

	Location() *time.Location
	Revision() uint64
}

// ChangePublisher receives an event after every committed mutation.
type ChangePublisher interface {
	PublishChange(ctx context.Context, ev core.ChangeEvent) error
}

// IDGenerator returns a fresh entity identifier.
type IDGenerator func() string
