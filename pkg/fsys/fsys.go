// Package fsys abstracts the file system the line store reads and rewrites.
//
// Local uses the operating system; MemFS keeps files in memory and is used
// for tests and for dry runs that must not touch the disk.
package fsys

import (
	"io"
	"io/fs"
	"os"
)

// File is an open file handle. *os.File satisfies it.
type File interface {
	io.Reader
	io.Writer
	io.ReaderAt
	io.Closer
	Stat() (fs.FileInfo, error)
}

// FileSystem opens files for sequential read and write.
type FileSystem interface {
	// Open opens the named file for reading.
	Open(name string) (File, error)

	// OpenFile opens the named file with the given os.O_* flags.
	OpenFile(name string, flag int, perm fs.FileMode) (File, error)

	// Stat returns file information.
	Stat(name string) (fs.FileInfo, error)
}

// Local implements FileSystem using the os package.
type Local struct{}

// Ensure Local implements FileSystem.
var _ FileSystem = Local{}

func (Local) Open(name string) (File, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	return f, nil
}

func (Local) OpenFile(name string, flag int, perm fs.FileMode) (File, error) {
	f, err := os.OpenFile(name, flag, perm)
	if err != nil {
		return nil, err
	}
	return f, nil
}

func (Local) Stat(name string) (fs.FileInfo, error) { return os.Stat(name) }

// IsRegular reports whether name exists on fsys and is a regular file.
func IsRegular(fsys FileSystem, name string) bool {
	info, err := fsys.Stat(name)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}
