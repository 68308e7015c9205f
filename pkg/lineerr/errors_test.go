package lineerr

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPathError(t *testing.T) {
	err := NewPathError("read", "/data/a.csv", fs.ErrNotExist)

	assert.Equal(t, "read /data/a.csv: not found: file does not exist", err.Error())
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.True(t, errors.Is(err, fs.ErrNotExist), "cause should stay reachable")
	assert.False(t, errors.Is(err, ErrOutOfRange))

	noCause := &PathError{Op: "write", Path: "x"}
	assert.Equal(t, "write x: not found", noCause.Error())
}

func TestRangeError(t *testing.T) {
	err := NewRangeError("GetLine", "line", 7, 1, 5)
	assert.Equal(t, "GetLine: line 7 out of range [1, 5]", err.Error())
	assert.True(t, IsOutOfRange(err))
	assert.False(t, IsNotFound(err))

	empty := NewRangeError("InsertLine", "line", 1, 1, 0)
	assert.Equal(t, "InsertLine: line 1 out of range (file is empty)", empty.Error())
}

func TestLengthError(t *testing.T) {
	err := &LengthError{Op: "OverrideSection", Want: 3, Got: 1}
	assert.Equal(t, "OverrideSection: length mismatch: need 3 lines, got 1", err.Error())
	assert.True(t, IsLengthMismatch(err))
}

func TestHelpersSeeThroughWrapping(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		check func(error) bool
	}{
		{"not found", NewPathError("open", "p", nil), IsNotFound},
		{"out of range", NewRangeError("op", "row", 0, 1, 2), IsOutOfRange},
		{"length", &LengthError{Op: "op", Want: 2, Got: 1}, IsLengthMismatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := fmt.Errorf("failed to edit: %w", tt.err)
			assert.True(t, tt.check(wrapped))
		})
	}
}

func TestKindsAreDistinct(t *testing.T) {
	kinds := []error{ErrNotFound, ErrOutOfRange, ErrLengthMismatch}
	for i, a := range kinds {
		for j, b := range kinds {
			if i != j {
				assert.False(t, errors.Is(a, b), "%v should not match %v", a, b)
			}
		}
	}
}
