// OS-level advisory locking for cross-process coordination.
//
// FileLock wraps flock(2) / LockFileEx on a dedicated lock file. Acquisition
// is non-blocking at the syscall level; callers implement their own retry
// policy on ErrLocked so a wedged peer surfaces as a bounded, reported
// failure instead of an indefinite hang.
package fsutil

import (
	"errors"
	"fmt"
	"os"
)

// ErrLocked is returned by TryLock when another process holds the lock.
var ErrLocked = errors.New("lock held by another process")

// FileLock is an advisory exclusive lock backed by a lock file.
type FileLock struct {
	path string
	f    *os.File
}

// NewFileLock prepares a lock at path. The file is created on first use and
// intentionally never removed; its existence carries no meaning, only the
// flock state does.
func NewFileLock(path string) *FileLock {
	return &FileLock{path: path}
}

// TryLock attempts to acquire the exclusive lock without blocking.
// Returns ErrLocked if another process holds it.
func (l *FileLock) TryLock() error {
	if l.f != nil {
		return fmt.Errorf("lock %s already held by this process", l.path)
	}
	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return fmt.Errorf("open lock file %s: %w", l.path, err)
	}
	if err := tryLock(f); err != nil {
		f.Close()
		return err
	}
	l.f = f
	return nil
}

// Unlock releases the lock. Safe to call when the lock is not held.
func (l *FileLock) Unlock() error {
	if l.f == nil {
		return nil
	}
	err := unlock(l.f)
	closeErr := l.f.Close()
	l.f = nil
	if err != nil {
		return err
	}
	return closeErr
}
