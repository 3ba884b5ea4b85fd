package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func backends(t *testing.T) map[string]KV {
	t.Helper()

	sqliteMem, err := NewSQLiteStorage(":memory:", zap.NewNop())
	require.NoError(t, err)
	sqliteFile, err := NewSQLiteStorage(filepath.Join(t.TempDir(), "nested", "kv.db"), zap.NewNop())
	require.NoError(t, err)

	kvs := map[string]KV{
		"memory":      NewMemoryStorage(),
		"sqlite":      sqliteMem,
		"sqlite-file": sqliteFile,
		"namespaced":  WithPrefix(NewMemoryStorage(), "chat:42:"),
	}
	t.Cleanup(func() {
		for _, kv := range kvs {
			kv.Close()
		}
	})
	return kvs
}

func TestKV_GetSetRemove(t *testing.T) {
	ctx := context.Background()

	for name, kv := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, ok, err := kv.Get(ctx, "userToken")
			require.NoError(t, err)
			assert.False(t, ok)

			require.NoError(t, kv.Set(ctx, "userToken", "demo_token_123"))
			require.NoError(t, kv.Set(ctx, "userRole", "patient"))
			require.NoError(t, kv.Set(ctx, "userRole", "doctor"))

			value, ok, err := kv.Get(ctx, "userRole")
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, "doctor", value)

			require.NoError(t, kv.Set(ctx, "empty", ""))
			value, ok, err = kv.Get(ctx, "empty")
			require.NoError(t, err)
			assert.True(t, ok, "an empty value is still present")
			assert.Empty(t, value)

			require.NoError(t, kv.MultiRemove(ctx, "userToken", "userRole", "missing"))
			require.NoError(t, kv.MultiRemove(ctx))

			_, ok, err = kv.Get(ctx, "userToken")
			require.NoError(t, err)
			assert.False(t, ok)
			_, ok, err = kv.Get(ctx, "userRole")
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestNamespaced_IsolatesPrefixes(t *testing.T) {
	ctx := context.Background()
	shared := NewMemoryStorage()

	alice := WithPrefix(shared, "chat:1:")
	bob := WithPrefix(shared, "chat:2:")

	require.NoError(t, alice.Set(ctx, "userRole", "patient"))
	require.NoError(t, bob.Set(ctx, "userRole", "doctor"))

	value, _, err := alice.Get(ctx, "userRole")
	require.NoError(t, err)
	assert.Equal(t, "patient", value)

	raw, ok, err := shared.Get(ctx, "chat:2:userRole")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "doctor", raw)

	require.NoError(t, alice.MultiRemove(ctx, "userRole"))
	_, ok, _ = alice.Get(ctx, "userRole")
	assert.False(t, ok)
	_, ok, _ = bob.Get(ctx, "userRole")
	assert.True(t, ok)

	// Closing a view leaves the backend usable.
	require.NoError(t, alice.Close())
	require.NoError(t, shared.Set(ctx, "k", "v"))
}

func TestSQLiteStorage_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "kv.db")

	first, err := NewSQLiteStorage(path, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, first.Set(ctx, "userReports", `[{"id":"1"}]`))
	require.NoError(t, first.Close())

	second, err := NewSQLiteStorage(path, zap.NewNop())
	require.NoError(t, err)
	defer second.Close()

	value, ok, err := second.Get(ctx, "userReports")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[{"id":"1"}]`, value)
}

func TestOpen(t *testing.T) {
	kv, err := Open(Options{Backend: BackendMemory}, zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &MemoryStorage{}, kv)

	kv, err = Open(Options{Backend: BackendSQLite, SQLitePath: ":memory:"}, zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &SQLiteStorage{}, kv)
	require.NoError(t, kv.Close())

	_, err = Open(Options{Backend: "redis"}, zap.NewNop())
	assert.Error(t, err)
}

func TestDatabaseConfig_DSN(t *testing.T) {
	cfg := DatabaseConfig{Host: "db", Port: 5433, User: "health", Password: "secret", DBName: "healthdesk", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5433 user=health password=secret dbname=healthdesk sslmode=disable", cfg.DSN())
}
