package backend

import (
	"errors"
	"fmt"

	"github.com/uson1004/SwanBudget/internal/config"
)

// FromAppConfig picks the backend settings out of the process config.
func FromAppConfig(appConfig *config.Config) (Config, error) {
	if appConfig == nil {
		return Config{}, errors.New("nil config")
	}

	backendType := BackendType(appConfig.DataBackend)
	if !backendType.IsValid() {
		return Config{}, fmt.Errorf("unknown DATA_BACKEND %q", appConfig.DataBackend)
	}

	return Config{
		Type:          backendType,
		DataDirectory: appConfig.DataDir,
		SQLiteDBPath:  appConfig.SQLiteDBPath,
		PostgresDSN:   appConfig.PostgresDSN,
		AMQPURL:       appConfig.AMQPURL,
		AMQPExchange:  appConfig.AMQPExchange,
		AMQPQueue:     appConfig.AMQPQueue,
		Location:      appConfig.Location(),
	}, nil
}

// Validate checks that the selected backend has what it needs to open.
func (c Config) Validate() error {
	switch c.Type {
	case SQLiteBackend:
		if c.SQLiteDBPath == "" {
			return errors.New("sqlite backend needs SQLITE_DB_PATH")
		}
	case PostgresBackend:
		if c.PostgresDSN == "" {
			return errors.New("postgres backend needs POSTGRES_DSN")
		}
	case MemoryBackend:
		// nothing required; an empty DataDirectory starts blank
	default:
		return fmt.Errorf("unknown backend %q", c.Type)
	}
	if c.AMQPURL != "" && (c.AMQPExchange == "" || c.AMQPQueue == "") {
		return errors.New("AMQP_URL set without AMQP_EXCHANGE and AMQP_QUEUE")
	}
	return nil
}

// GetBackendTypes lists the supported backends in preference order.
func GetBackendTypes() []BackendType {
	return []BackendType{MemoryBackend, SQLiteBackend, PostgresBackend}
}

func GetBackendTypeStrings() []string {
	types := GetBackendTypes()
	out := make([]string, len(types))
	for i, t := range types {
		out[i] = t.String()
	}
	return out
}
