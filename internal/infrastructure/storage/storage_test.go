package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SportsFeed/internal/ports"
)

func stores(t *testing.T) map[string]ports.StateStore {
	t.Helper()

	files, err := NewFileStore(filepath.Join(t.TempDir(), "state"))
	require.NoError(t, err)

	db, err := OpenSQL(context.Background(), DriverSQLite, filepath.Join(t.TempDir(), "state.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return map[string]ports.StateStore{
		"memory": NewMemoryStore(),
		"file":   files,
		"sqlite": db,
	}
}

func TestStateStores(t *testing.T) {
	t.Parallel()

	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			_, err := store.Load(ctx, "news")
			assert.ErrorIs(t, err, ports.ErrNotFound)

			require.NoError(t, store.Save(ctx, "news", []byte(`[{"id":"a"}]`)))
			data, err := store.Load(ctx, "news")
			require.NoError(t, err)
			assert.JSONEq(t, `[{"id":"a"}]`, string(data))

			require.NoError(t, store.Save(ctx, "news", []byte(`[]`)))
			data, err = store.Load(ctx, "news")
			require.NoError(t, err)
			assert.Equal(t, "[]", string(data))

			_, err = store.Load(ctx, "other")
			assert.ErrorIs(t, err, ports.ErrNotFound)
		})
	}
}

func TestMemoryStoreCopiesValues(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	value := []byte("abc")
	require.NoError(t, store.Save(context.Background(), "k", value))
	value[0] = 'x'

	data, err := store.Load(context.Background(), "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(data))
}

func TestFileStoreRejectsPathKeys(t *testing.T) {
	t.Parallel()

	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	assert.Error(t, store.Save(context.Background(), "../escape", []byte("x")))
	_, err = store.Load(context.Background(), "a/b")
	assert.Error(t, err)
}

func TestOpenSQLUnknownDriver(t *testing.T) {
	t.Parallel()

	_, err := OpenSQL(context.Background(), "oracle", "x")
	assert.Error(t, err)
}
