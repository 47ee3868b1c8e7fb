package storage_test

import (
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/pawhub/communitystore/internal/storage"
	"github.com/redis/rueidis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// adapterUnderTest builds one adapter per backend so every backend runs
// the same contract tests.
func adaptersUnderTest(t *testing.T) map[string]storage.Adapter {
	t.Helper()

	logger, err := zap.NewDevelopment()
	require.NoError(t, err)

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client, err := rueidis.NewClient(rueidis.ClientOption{
		InitAddress:  []string{mr.Addr()},
		DisableCache: true,
	})
	require.NoError(t, err)
	t.Cleanup(client.Close)

	sqliteAdapter, err := storage.NewSQLite(filepath.Join(t.TempDir(), "store.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { sqliteAdapter.Close() })

	return map[string]storage.Adapter{
		"memory": storage.NewMemory(),
		"redis":  storage.NewRedisWithClient(client, logger),
		"sqlite": sqliteAdapter,
	}
}

func TestAdapterReadMissing(t *testing.T) {
	t.Parallel()

	for name, adapter := range adaptersUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			ctx := t.Context()

			value, found, err := adapter.Read(ctx, "community:absent")
			require.NoError(t, err)
			assert.False(t, found)
			assert.Nil(t, value)
		})
	}
}

func TestAdapterWriteReadRoundTrip(t *testing.T) {
	t.Parallel()

	for name, adapter := range adaptersUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			ctx := t.Context()

			require.NoError(t, adapter.Write(ctx, "community:groups", []byte(`[{"id":"grp_1"}]`)))

			value, found, err := adapter.Read(ctx, "community:groups")
			require.NoError(t, err)
			assert.True(t, found)
			assert.Equal(t, []byte(`[{"id":"grp_1"}]`), value)
		})
	}
}

func TestAdapterOverwrite(t *testing.T) {
	t.Parallel()

	for name, adapter := range adaptersUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			ctx := t.Context()

			require.NoError(t, adapter.Write(ctx, "community:users", []byte("first")))
			require.NoError(t, adapter.Write(ctx, "community:users", []byte("second")))

			value, found, err := adapter.Read(ctx, "community:users")
			require.NoError(t, err)
			assert.True(t, found)
			assert.Equal(t, []byte("second"), value)
		})
	}
}

func TestAdapterRemove(t *testing.T) {
	t.Parallel()

	for name, adapter := range adaptersUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			ctx := t.Context()

			require.NoError(t, adapter.Write(ctx, "community:posts", []byte("payload")))
			require.NoError(t, adapter.Remove(ctx, "community:posts"))

			_, found, err := adapter.Read(ctx, "community:posts")
			require.NoError(t, err)
			assert.False(t, found)

			// Removing an absent key is not an error.
			require.NoError(t, adapter.Remove(ctx, "community:posts"))
		})
	}
}
