// Package lock keeps two batch passes from interleaving their history load and save.
package lock

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"github.com/doeshing/mastopoll/internal/domain"
	"github.com/doeshing/mastopoll/internal/ports"
)

const retryDelay = 100 * time.Millisecond

// FileLock is an advisory lock on a file next to the history store.
type FileLock struct {
	path    string
	timeout time.Duration
}

// ForHistory locks <historyPath>.lock.
func ForHistory(historyPath string, timeout time.Duration) *FileLock {
	if timeout <= 0 {
		timeout = domain.DefaultLockTimeout
	}
	return &FileLock{path: historyPath + ".lock", timeout: timeout}
}

// Path returns the lock file path.
func (l *FileLock) Path() string {
	return l.path
}

// Lock implements ports.RunLocker. It waits up to the configured timeout.
func (l *FileLock) Lock(ctx context.Context) (func() error, error) {
	if err := os.MkdirAll(filepath.Dir(l.path), domain.DirectoryPermissions); err != nil {
		return nil, domain.NewError(domain.KindStorage, "create lock dir", err)
	}
	fl := flock.New(l.path)

	lockCtx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()
	ok, err := fl.TryLockContext(lockCtx, retryDelay)
	switch {
	case err != nil && ctx.Err() != nil:
		return nil, ctx.Err()
	case errors.Is(err, context.DeadlineExceeded), err == nil && !ok:
		return nil, domain.NewError(domain.KindStorage, "acquire run lock",
			fmt.Errorf("another run holds %s", l.path))
	case err != nil:
		return nil, domain.NewError(domain.KindStorage, "acquire run lock",
			fmt.Errorf("lock %s: %w", l.path, err))
	}
	return fl.Unlock, nil
}

var _ ports.RunLocker = (*FileLock)(nil)
