package storage

import "context"

// KV is the process-wide key-value store the assistant keeps its state in.
// Single-key Get and Set are atomic; nothing else is.
type KV interface {
	// Get returns the value for key and whether it was present
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	// MultiRemove deletes every listed key; missing keys are ignored
	MultiRemove(ctx context.Context, keys ...string) error
	Close() error
}

// Backend names accepted by Open
const (
	BackendMemory   = "memory"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)
