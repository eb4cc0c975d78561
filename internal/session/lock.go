package session

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"subtitlecat/internal/services"
)

// Lock guards the state directory against a second interactive session.
type Lock struct {
	lock *flock.Flock
}

// AcquireLock takes the session lock at path without blocking.
func AcquireLock(path string) (*Lock, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create lock directory: %w", err)
	}
	lock := flock.New(path)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire session lock: %w", err)
	}
	if !ok {
		return nil, services.Wrap(services.ErrBusy, "session", "lock", "another subtitlecat shell is already running ("+path+")", nil)
	}
	return &Lock{lock: lock}, nil
}

// Release drops the lock.
func (l *Lock) Release() error {
	if l == nil || l.lock == nil {
		return nil
	}
	return l.lock.Unlock()
}
