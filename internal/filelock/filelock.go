// Package filelock provides the exclusive lock guarding a database file.
//
// A FileLock excludes other goroutines of the process with a mutex and other
// processes with an advisory lock on a sidecar file. The lock is not
// reentrant: a holder calling Lock again deadlocks.
package filelock

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/gofrs/flock"
)

// Locker is an exclusive, blocking, non-reentrant lock.
type Locker interface {
	// Lock blocks until the lock is held.
	Lock() error
	// Unlock releases a held lock.
	Unlock() error
	// Path returns the lock file path, or "" when there is none.
	Path() string
}

// FileLock locks both in-process and across processes.
type FileLock struct {
	mu   sync.Mutex
	file *flock.Flock
}

// New returns a FileLock backed by the file at path. The file is created on
// first Lock and is left in place afterward.
func New(path string) *FileLock {
	return &FileLock{file: flock.New(path)}
}

// Lock implements Locker.
func (l *FileLock) Lock() error {
	l.mu.Lock()
	if err := os.MkdirAll(filepath.Dir(l.file.Path()), 0o755); err != nil {
		l.mu.Unlock()
		return fmt.Errorf("failed to create lock directory: %w", err)
	}
	if err := l.file.Lock(); err != nil {
		l.mu.Unlock()
		return fmt.Errorf("failed to lock %s: %w", l.file.Path(), err)
	}
	return nil
}

// Unlock implements Locker.
func (l *FileLock) Unlock() error {
	defer l.mu.Unlock()
	if err := l.file.Unlock(); err != nil {
		return fmt.Errorf("failed to unlock %s: %w", l.file.Path(), err)
	}
	return nil
}

// Path implements Locker.
func (l *FileLock) Path() string {
	return l.file.Path()
}

type nop struct{}

// NewNop returns a Locker that never blocks and grants no exclusivity.
func NewNop() Locker {
	return nop{}
}

func (nop) Lock() error   { return nil }
func (nop) Unlock() error { return nil }
func (nop) Path() string  { return "" }

// PathFor returns the lock file path for the data file at dataPath:
// <dir>/<base name>.lock. An empty dir means os.TempDir().
func PathFor(dir, dataPath string) string {
	if dir == "" {
		dir = os.TempDir()
	}
	return filepath.Join(dir, filepath.Base(dataPath)+".lock")
}

// With runs fn while holding l. The lock is released even when fn fails; a
// release failure is joined with fn's error.
func With(l Locker, fn func() error) error {
	if err := l.Lock(); err != nil {
		return err
	}
	err := fn()
	if uerr := l.Unlock(); uerr != nil {
		return errors.Join(err, uerr)
	}
	return err
}
