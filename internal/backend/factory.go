package backend

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/uson1004/SwanBudget/internal/amqp"
	"github.com/uson1004/SwanBudget/internal/finance"
	"github.com/uson1004/SwanBudget/internal/storage"
	"github.com/uson1004/SwanBudget/internal/storage/memory"
	"github.com/uson1004/SwanBudget/internal/storage/postgres"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *slog.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{logger: logger}
}

// CreateBackend opens the key-value store, dials AMQP when configured and
// loads the finance store from whatever is persisted.
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	kv, err := f.openKV(ctx, config)
	if err != nil {
		return nil, err
	}

	result := &BackendResult{
		KV:     kv,
		Checks: map[string]storage.Pinger{},
	}
	if p, ok := kv.(storage.Pinger); ok {
		result.Checks[config.Type.String()] = p
	}

	opts := []finance.Option{finance.WithLogger(f.logger)}
	if config.Location != nil {
		opts = append(opts, finance.WithLocation(config.Location))
	}

	if config.AMQPURL != "" {
		client, err := amqp.NewClient(config.AMQPURL, config.AMQPExchange, config.AMQPQueue)
		if err != nil {
			f.logger.Warn("Failed to initialize AMQP client, continuing without change events", "error", err)
		} else {
			f.logger.Info("Initialized AMQP client",
				"exchange", config.AMQPExchange,
				"queue", config.AMQPQueue)
			result.Publisher = client
			result.Checks["amqp"] = client
			opts = append(opts, finance.WithPublisher(client))
		}
	}

	result.Cleanup = func() error {
		var errs []error
		if result.Publisher != nil {
			errs = append(errs, result.Publisher.Close())
		}
		errs = append(errs, kv.Close())
		return errors.Join(errs...)
	}

	store := finance.New(kv, opts...)
	if err := store.Load(ctx); err != nil {
		_ = result.Cleanup()
		return nil, fmt.Errorf("failed to load ledger: %w", err)
	}
	result.Store = store

	f.logger.Info("Initialized backend",
		"type", config.Type,
		"amqp_enabled", result.Publisher != nil,
		"transactions", len(store.Transactions()))

	return result, nil
}

func (f *DefaultFactory) openKV(ctx context.Context, config Config) (storage.KeyValueStore, error) {
	switch config.Type {
	case SQLiteBackend:
		repo, err := storage.NewSQLiteRepository(config.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
		}
		f.logger.Info("Opened SQLite store", "db_path", config.SQLiteDBPath)
		return repo, nil
	case PostgresBackend:
		store, err := postgres.Open(ctx, config.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		f.logger.Info("Opened postgres store")
		return store, nil
	case MemoryBackend:
		if config.DataDirectory == "" {
			f.logger.Info("Opened memory store")
			return memory.New(), nil
		}
		f.logger.Info("Opened memory store", "data_directory", config.DataDirectory)
		return memory.NewFromFiles(config.DataDirectory), nil
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}
