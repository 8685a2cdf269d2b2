package lock

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doeshing/mastopoll/internal/domain"
)

func TestLockIsExclusive(t *testing.T) {
	historyPath := filepath.Join(t.TempDir(), "history.json")
	first := ForHistory(historyPath, 200*time.Millisecond)
	second := ForHistory(historyPath, 200*time.Millisecond)

	unlock, err := first.Lock(context.Background())
	require.NoError(t, err)

	_, err = second.Lock(context.Background())
	require.ErrorIs(t, err, domain.ErrStorage)
	assert.ErrorContains(t, err, "another run holds")

	require.NoError(t, unlock())

	unlockAgain, err := second.Lock(context.Background())
	require.NoError(t, err)
	assert.NoError(t, unlockAgain())
}

func TestLockPath(t *testing.T) {
	assert.Equal(t, "/tmp/h.json.lock", ForHistory("/tmp/h.json", 0).Path())
}

func TestLockReportsOpenFailure(t *testing.T) {
	historyPath := filepath.Join(t.TempDir(), "history.json")
	require.NoError(t, os.Mkdir(historyPath+".lock", 0o755))

	_, err := ForHistory(historyPath, 200*time.Millisecond).Lock(context.Background())
	require.ErrorIs(t, err, domain.ErrStorage)
	assert.NotContains(t, err.Error(), "another run holds")
	assert.Contains(t, err.Error(), historyPath+".lock")
}
