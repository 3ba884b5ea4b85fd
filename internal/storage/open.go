package storage

import (
	"fmt"

	"go.uber.org/zap"
)

// Options selects and configures a backend for Open
type Options struct {
	Backend    string
	SQLitePath string
	Postgres   DatabaseConfig
}

// Open returns the configured backend
func Open(opts Options, logger *zap.Logger) (KV, error) {
	switch opts.Backend {
	case BackendMemory, "":
		logger.Info("Using in-memory storage")
		return NewMemoryStorage(), nil
	case BackendSQLite:
		logger.Info("Using SQLite storage")
		return NewSQLiteStorage(opts.SQLitePath, logger)
	case BackendPostgres:
		logger.Info("Using PostgreSQL storage")
		return NewPostgresStorage(opts.Postgres, logger)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", opts.Backend)
	}
}
