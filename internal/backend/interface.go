package backend

import (
	"context"
	"time"

	"github.com/uson1004/SwanBudget/internal/amqp"
	"github.com/uson1004/SwanBudget/internal/finance"
	"github.com/uson1004/SwanBudget/internal/storage"
)

// CleanupFunc releases what CreateBackend opened.
type CleanupFunc func() error

// BackendResult is a loaded finance store together with the resources
// backing it.
type BackendResult struct {
	Store *finance.Store
	KV    storage.KeyValueStore
	// Publisher is nil when AMQP is disabled or unreachable at startup.
	Publisher *amqp.Client
	// Checks are readiness probes keyed by dependency name.
	Checks  map[string]storage.Pinger
	Cleanup CleanupFunc
}

// Factory opens the ledger for one process.
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}

type Config struct {
	Type BackendType

	// Memory backend seed directory; empty starts blank.
	DataDirectory string

	SQLiteDBPath string
	PostgresDSN  string

	// Optional change events
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	Location *time.Location
}

// BackendType names a KeyValueStore implementation.
type BackendType string

const (
	MemoryBackend   BackendType = "memory"
	SQLiteBackend   BackendType = "sqlite"
	PostgresBackend BackendType = "postgres"
)

func (bt BackendType) String() string {
	return string(bt)
}

func (bt BackendType) IsValid() bool {
	switch bt {
	case MemoryBackend, SQLiteBackend, PostgresBackend:
		return true
	default:
		return false
	}
}
