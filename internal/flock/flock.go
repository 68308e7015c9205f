// Package flock serializes linekit processes editing the same file.
//
// The lock is advisory and taken on the target file itself. Rewrites keep
// the inode, so a lock taken before an edit still covers the file after it.
package flock

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// Lock is a held advisory lock. The zero Lock holds nothing.
type Lock struct {
	path string
	f    *os.File
}

// Acquire blocks until it holds an exclusive lock on path. A missing path
// is not locked and yields an empty Lock.
func Acquire(path string) (*Lock, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &Lock{path: path}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open %s for locking: %w", path, err)
	}
	if err := osLock(f); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to lock %s: %w", path, err)
	}
	return &Lock{path: path, f: f}, nil
}

// TryAcquire is Acquire without blocking. It returns false when another
// process holds the lock.
func TryAcquire(path string) (*Lock, bool, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &Lock{path: path}, true, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to open %s for locking: %w", path, err)
	}
	ok, err := tryLock(f)
	if err != nil || !ok {
		_ = f.Close()
		if err != nil {
			return nil, false, fmt.Errorf("failed to lock %s: %w", path, err)
		}
		return nil, false, nil
	}
	return &Lock{path: path, f: f}, true, nil
}

// Held reports whether the lock covers a file.
func (l *Lock) Held() bool {
	return l != nil && l.f != nil
}

// Release drops the lock. Releasing twice is a no-op.
func (l *Lock) Release() error {
	if !l.Held() {
		return nil
	}
	f := l.f
	l.f = nil
	err := osUnlock(f)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("failed to unlock %s: %w", l.path, err)
	}
	return nil
}

// With runs fn while holding the lock on path.
func With(path string, fn func() error) (err error) {
	l, err := Acquire(path)
	if err != nil {
		return err
	}
	defer func() {
		if rerr := l.Release(); err == nil {
			err = rerr
		}
	}()
	return fn()
}
