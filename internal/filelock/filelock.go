// Package filelock guards a data directory so only one backend serves it.
package filelock

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

const lockName = "filefinder.lock"

var ErrInstanceRunning = errors.New("another filefinder backend holds the data directory")

// FileLock wraps a flock file lock.
type FileLock struct {
	flock *flock.Flock
	path  string
}

func NewFileLock(path string) *FileLock {
	return &FileLock{
		flock: flock.New(path),
		path:  path,
	}
}

// Acquire creates dataPath if needed and takes its instance lock without
// blocking. It returns ErrInstanceRunning when the lock is already held.
func Acquire(dataPath string) (*FileLock, error) {
	if err := os.MkdirAll(dataPath, 0o755); err != nil {
		return nil, fmt.Errorf("create data directory %s: %w", dataPath, err)
	}
	fl := NewFileLock(filepath.Join(dataPath, lockName))
	acquired, err := fl.TryLock()
	if err != nil {
		return nil, err
	}
	if !acquired {
		return nil, fmt.Errorf("%w: %s", ErrInstanceRunning, fl.path)
	}
	return fl, nil
}

// TryLock attempts to acquire an exclusive lock without blocking.
func (fl *FileLock) TryLock() (bool, error) {
	acquired, err := fl.flock.TryLock()
	if err != nil {
		return false, fmt.Errorf("failed to try lock on %s: %w", fl.path, err)
	}
	return acquired, nil
}

// Unlock releases the lock.
func (fl *FileLock) Unlock() error {
	if err := fl.flock.Unlock(); err != nil {
		return fmt.Errorf("failed to release lock on %s: %w", fl.path, err)
	}
	return nil
}

func (fl *FileLock) Path() string {
	return fl.path
}
