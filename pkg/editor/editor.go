// Package editor addresses a text file by 1-based line number and edits it
// in place.
//
// Every mutating call reads the whole file, changes the line sequence in
// memory and rewrites the file, so its cost grows with the file size.
// Two calls are never atomic with respect to each other; callers that share
// a file must serialize access themselves.
package editor

import (
	"slices"

	"linekit/pkg/lineerr"
	"linekit/pkg/linestore"
)

// Editor performs line-addressed reads and edits through a linestore.Store.
type Editor struct {
	store *linestore.Store
}

// New creates an Editor. A nil store means linestore.New(nil).
func New(store *linestore.Store) *Editor {
	if store == nil {
		store = linestore.New(nil)
	}
	return &Editor{store: store}
}

// Store returns the underlying line store.
func (e *Editor) Store() *linestore.Store {
	return e.store
}

// GetLines returns every line of the file.
func (e *Editor) GetLines(path string) ([]string, error) {
	return e.store.ReadAll(path)
}

// GetLine returns line n.
func (e *Editor) GetLine(path string, n int) (string, error) {
	lines, err := e.store.ReadAll(path)
	if err != nil {
		return "", err
	}
	if err := checkLine("get line", n, len(lines)); err != nil {
		return "", err
	}
	return lines[n-1], nil
}

// GetRange returns lines start through end inclusive.
func (e *Editor) GetRange(path string, start, end int) ([]string, error) {
	lines, err := e.store.ReadAll(path)
	if err != nil {
		return nil, err
	}
	if err := checkRange("get range", start, end, len(lines)); err != nil {
		return nil, err
	}
	return slices.Clone(lines[start-1 : end]), nil
}

// GetLinesBelow returns the lines from the 0-based index idx to the end of
// the file. It is empty when idx is negative or past the last line.
func (e *Editor) GetLinesBelow(path string, idx int) ([]string, error) {
	lines, err := e.store.ReadAll(path)
	if err != nil {
		return nil, err
	}
	if idx < 0 || idx >= len(lines) {
		return []string{}, nil
	}
	return lines[idx:], nil
}

// GetLinesAbove returns the lines before the 0-based index idx. It is the
// whole file when idx is at or past the end.
func (e *Editor) GetLinesAbove(path string, idx int) ([]string, error) {
	lines, err := e.store.ReadAll(path)
	if err != nil {
		return nil, err
	}
	switch {
	case idx <= 0:
		return []string{}, nil
	case idx >= len(lines):
		return lines, nil
	}
	return lines[:idx], nil
}

// CountLines returns the number of lines in the file.
func (e *Editor) CountLines(path string) (int, error) {
	return e.store.LineCount(path)
}

// AppendLine adds line after the last line, creating the file if needed.
func (e *Editor) AppendLine(path, line string) error {
	return e.store.WriteAll(path, []string{line}, true)
}

// AppendLines adds lines after the last line in one write.
func (e *Editor) AppendLines(path string, lines []string) error {
	return e.store.WriteAll(path, lines, true)
}

// AppendFile appends every line of other to path.
func (e *Editor) AppendFile(path, other string) error {
	lines, err := e.store.ReadAll(other)
	if err != nil {
		return err
	}
	return e.store.WriteAll(path, lines, true)
}

// OverrideFile replaces the whole content of the file with lines.
func (e *Editor) OverrideFile(path string, lines []string) error {
	return e.store.WriteAll(path, lines, false)
}

// OverrideWithFile replaces the content of path with the lines of other.
func (e *Editor) OverrideWithFile(path, other string) error {
	lines, err := e.store.ReadAll(other)
	if err != nil {
		return err
	}
	return e.store.WriteAll(path, lines, false)
}

// OverrideLine replaces line n.
func (e *Editor) OverrideLine(path string, n int, line string) error {
	return e.edit(path, func(lines []string) ([]string, error) {
		if err := checkLine("override line", n, len(lines)); err != nil {
			return nil, err
		}
		lines[n-1] = line
		return lines, nil
	})
}

// OverrideSection replaces lines start through end with the first
// end-start+1 entries of repl. Extra entries are ignored.
func (e *Editor) OverrideSection(path string, start, end int, repl []string) error {
	return e.edit(path, func(lines []string) ([]string, error) {
		if err := checkRange("override section", start, end, len(lines)); err != nil {
			return nil, err
		}
		want := end - start + 1
		if len(repl) < want {
			return nil, &lineerr.LengthError{Op: "override section", Want: want, Got: len(repl)}
		}
		copy(lines[start-1:end], repl[:want])
		return lines, nil
	})
}

// InsertLine inserts line so that it becomes line n. The old line n and
// everything after it move down by one. Use AppendLine to add past the end.
func (e *Editor) InsertLine(path string, n int, line string) error {
	return e.InsertLines(path, n, []string{line})
}

// InsertLines inserts lines so that the first of them becomes line n.
func (e *Editor) InsertLines(path string, n int, ins []string) error {
	return e.edit(path, func(lines []string) ([]string, error) {
		if err := checkLine("insert", n, len(lines)); err != nil {
			return nil, err
		}
		return slices.Insert(lines, n-1, ins...), nil
	})
}

// InsertFile inserts every line of other so that its first line becomes line n of path.
func (e *Editor) InsertFile(path, other string, n int) error {
	ins, err := e.store.ReadAll(other)
	if err != nil {
		return err
	}
	return e.InsertLines(path, n, ins)
}

// DeleteLine removes line n.
func (e *Editor) DeleteLine(path string, n int) error {
	return e.edit(path, func(lines []string) ([]string, error) {
		if err := checkLine("delete line", n, len(lines)); err != nil {
			return nil, err
		}
		return slices.Delete(lines, n-1, n), nil
	})
}

// DeleteSection removes lines start through end inclusive.
func (e *Editor) DeleteSection(path string, start, end int) error {
	return e.edit(path, func(lines []string) ([]string, error) {
		if err := checkRange("delete section", start, end, len(lines)); err != nil {
			return nil, err
		}
		return slices.Delete(lines, start-1, end), nil
	})
}

// DeleteLines removes every listed line in one rewrite.
//
// Addresses refer to the file as it was before the call: each must be in
// [1, count] of the original file, duplicates are removed once, and if any
// address is invalid nothing is written.
func (e *Editor) DeleteLines(path string, ns ...int) error {
	return e.edit(path, func(lines []string) ([]string, error) {
		drop := make(map[int]struct{}, len(ns))
		for _, n := range ns {
			if err := checkLine("delete lines", n, len(lines)); err != nil {
				return nil, err
			}
			drop[n-1] = struct{}{}
		}
		kept := lines[:0]
		for i, line := range lines {
			if _, ok := drop[i]; !ok {
				kept = append(kept, line)
			}
		}
		return kept, nil
	})
}

// edit reads the file, applies fn and rewrites the file with its result.
// Nothing is written when fn fails.
func (e *Editor) edit(path string, fn func(lines []string) ([]string, error)) error {
	lines, err := e.store.ReadAll(path)
	if err != nil {
		return err
	}
	out, err := fn(lines)
	if err != nil {
		return err
	}
	return e.store.WriteAll(path, out, false)
}

func checkLine(op string, n, count int) error {
	if n < 1 || n > count {
		return lineerr.NewRangeError(op, "line", n, 1, count)
	}
	return nil
}

func checkRange(op string, start, end, count int) error {
	if err := checkLine(op, start, count); err != nil {
		return err
	}
	if err := checkLine(op, end, count); err != nil {
		return err
	}
	if start > end {
		return lineerr.NewRangeError(op, "section", end, start, count)
	}
	return nil
}
