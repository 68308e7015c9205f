// Package lineerr defines the failure kinds reported by the line store,
// the line editor and the table view.
//
// Every failure is one of three kinds, tested with errors.Is:
//
//   - ErrNotFound: a file could not be opened, read or written.
//   - ErrOutOfRange: a line address, range bound or column index is outside
//     the valid bound for the file at the time of the call.
//   - ErrLengthMismatch: a replacement sequence is shorter than the range it
//     replaces.
//
// The concrete types carry the context needed to diagnose the failure.
package lineerr

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a file cannot be opened for the requested read or write.
	ErrNotFound = errors.New("not found")
	// ErrOutOfRange is returned when an address falls outside the valid bound.
	ErrOutOfRange = errors.New("out of range")
	// ErrLengthMismatch is returned when a replacement is shorter than the addressed range.
	ErrLengthMismatch = errors.New("length mismatch")
)

// PathError records a file that could not be opened, read or written.
type PathError struct {
	Op   string
	Path string
	Err  error
}

// NewPathError creates a PathError.
func NewPathError(op, path string, err error) *PathError {
	return &PathError{Op: op, Path: path, Err: err}
}

func (e *PathError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Path, ErrNotFound)
	}
	return fmt.Sprintf("%s %s: %v: %v", e.Op, e.Path, ErrNotFound, e.Err)
}

// Unwrap returns the underlying I/O error.
func (e *PathError) Unwrap() error { return e.Err }

// Is reports ErrNotFound as a match in addition to the wrapped cause.
func (e *PathError) Is(target error) bool { return target == ErrNotFound }

// RangeError records an address outside [Min, Max].
type RangeError struct {
	Op    string
	Unit  string // "line", "row", "column", "section"
	Index int
	Min   int
	Max   int
}

// NewRangeError creates a RangeError.
func NewRangeError(op, unit string, index, lo, hi int) *RangeError {
	return &RangeError{Op: op, Unit: unit, Index: index, Min: lo, Max: hi}
}

func (e *RangeError) Error() string {
	if e.Max < e.Min {
		return fmt.Sprintf("%s: %s %d %v (file is empty)", e.Op, e.Unit, e.Index, ErrOutOfRange)
	}
	return fmt.Sprintf("%s: %s %d %v [%d, %d]", e.Op, e.Unit, e.Index, ErrOutOfRange, e.Min, e.Max)
}

// Is reports ErrOutOfRange as a match.
func (e *RangeError) Is(target error) bool { return target == ErrOutOfRange }

// LengthError records a replacement of Got lines for a range of Want lines.
type LengthError struct {
	Op   string
	Want int
	Got  int
}

func (e *LengthError) Error() string {
	return fmt.Sprintf("%s: %v: need %d lines, got %d", e.Op, ErrLengthMismatch, e.Want, e.Got)
}

// Is reports ErrLengthMismatch as a match.
func (e *LengthError) Is(target error) bool { return target == ErrLengthMismatch }

// IsNotFound returns true if err is or wraps ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsOutOfRange returns true if err is or wraps ErrOutOfRange.
func IsOutOfRange(err error) bool {
	return errors.Is(err, ErrOutOfRange)
}

// IsLengthMismatch returns true if err is or wraps ErrLengthMismatch.
func IsLengthMismatch(err error) bool {
	return errors.Is(err, ErrLengthMismatch)
}
