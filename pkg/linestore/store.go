// Package linestore reads a file as an ordered sequence of lines and rewrites
// a file from one.
//
// These are the only storage primitives the editor uses: every structural
// edit is ReadAll, an in-memory change, then WriteAll. Nothing is cached
// between calls and every handle is closed before a call returns.
//
// Lines are split on '\n' and a '\r' before it is dropped, so a line written
// with a trailing '\r' reads back without it.
package linestore

import (
	"bufio"
	"io/fs"
	"os"

	"linekit/pkg/fsys"
	"linekit/pkg/lineerr"
)

const (
	// DefaultPerm is the mode given to files created by WriteAll.
	DefaultPerm fs.FileMode = 0o644
	// DefaultMaxLineSize bounds the length of a single line.
	DefaultMaxLineSize = 16 << 20

	initialBufSize = 64 * 1024
)

// Store reads and writes whole files as line sequences.
type Store struct {
	fs          fsys.FileSystem
	perm        fs.FileMode
	maxLineSize int
}

// Option configures a Store.
type Option func(*Store)

// WithPerm sets the mode of files created by WriteAll.
func WithPerm(perm fs.FileMode) Option {
	return func(s *Store) {
		s.perm = perm
	}
}

// WithMaxLineSize sets the longest line ReadAll accepts. Longer lines fail
// the read with a NotFound error wrapping bufio.ErrTooLong.
func WithMaxLineSize(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.maxLineSize = n
		}
	}
}

// New creates a Store on the given file system. A nil file system means fsys.Local.
func New(filesystem fsys.FileSystem, opts ...Option) *Store {
	if filesystem == nil {
		filesystem = fsys.Local{}
	}
	s := &Store{
		fs:          filesystem,
		perm:        DefaultPerm,
		maxLineSize: DefaultMaxLineSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FS returns the file system the store resolves paths against.
func (s *Store) FS() fsys.FileSystem {
	return s.fs
}

// ReadAll returns every line of the file without its terminator.
// An empty file has no lines.
func (s *Store) ReadAll(path string) ([]string, error) {
	lines := []string{}
	err := s.scan("read", path, func(line []byte) {
		lines = append(lines, string(line))
	})
	if err != nil {
		return nil, err
	}
	return lines, nil
}

// LineCount returns the number of lines in the file. It scans the file
// without keeping the lines.
func (s *Store) LineCount(path string) (int, error) {
	n := 0
	if err := s.scan("count", path, func([]byte) { n++ }); err != nil {
		return 0, err
	}
	return n, nil
}

func (s *Store) scan(op, path string, fn func(line []byte)) error {
	f, err := s.fs.Open(path)
	if err != nil {
		return lineerr.NewPathError(op, path, err)
	}
	defer func() {
		_ = f.Close()
	}()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, min(initialBufSize, s.maxLineSize)), s.maxLineSize)
	for scanner.Scan() {
		fn(scanner.Bytes())
	}
	if err := scanner.Err(); err != nil {
		return lineerr.NewPathError(op, path, err)
	}
	return nil
}

// WriteAll writes lines to the file, each followed by '\n'.
//
// With appendMode the lines go after the existing content; if that content
// does not end in '\n' one is written first so the previous last line is
// terminated but otherwise unchanged. Without appendMode the file is
// truncated. Either way the file is created if missing and always ends in a
// newline afterwards.
func (s *Store) WriteAll(path string, lines []string, appendMode bool) error {
	op := "write"
	flag := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if appendMode {
		op = "append"
		flag = os.O_RDWR | os.O_CREATE | os.O_APPEND
	}

	f, err := s.fs.OpenFile(path, flag, s.perm)
	if err != nil {
		return lineerr.NewPathError(op, path, err)
	}
	if err := writeLines(f, lines, appendMode); err != nil {
		_ = f.Close()
		return lineerr.NewPathError(op, path, err)
	}
	if err := f.Close(); err != nil {
		return lineerr.NewPathError(op, path, err)
	}
	return nil
}

func writeLines(f fsys.File, lines []string, terminateFirst bool) error {
	w := bufio.NewWriter(f)
	if terminateFirst {
		terminated, err := endsWithNewline(f)
		if err != nil {
			return err
		}
		if !terminated {
			if err := w.WriteByte('\n'); err != nil {
				return err
			}
		}
	}
	for _, line := range lines {
		if _, err := w.WriteString(line); err != nil {
			return err
		}
		if err := w.WriteByte('\n'); err != nil {
			return err
		}
	}
	return w.Flush()
}

// endsWithNewline reports whether f is empty or its last byte is '\n'.
func endsWithNewline(f fsys.File) (bool, error) {
	info, err := f.Stat()
	if err != nil {
		return false, err
	}
	size := info.Size()
	if size == 0 {
		return true, nil
	}
	last := make([]byte, 1)
	if _, err := f.ReadAt(last, size-1); err != nil {
		return false, err
	}
	return last[0] == '\n', nil
}
