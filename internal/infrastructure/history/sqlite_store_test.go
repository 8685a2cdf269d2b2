package history

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteStoreAppendAndLoadInOrder(t *testing.T) {
	store, err := OpenSQLiteStore(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	defer store.Close()
	ctx := context.Background()

	records, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, records)

	for _, rec := range sample() {
		require.NoError(t, store.Append(ctx, rec))
	}

	records, err = store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, sample(), records)
}

func TestSQLiteStoreSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "history.db")
	store, err := OpenSQLiteStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Append(context.Background(), sample()[0]))
	require.NoError(t, store.Close())

	reopened, err := OpenSQLiteStore(path)
	require.NoError(t, err)
	defer reopened.Close()

	records, err := reopened.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, sample()[:1], records)
	assert.Equal(t, path, reopened.Path())
}
