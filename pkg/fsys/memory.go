package fsys

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"sync"
	"syscall"
	"time"
)

var (
	errNotReadable = errors.New("file not opened for reading")
	errNotWritable = errors.New("file not opened for writing")
)

// MemFS implements FileSystem in memory.
//
// MemFS is safe for concurrent use. Handles share the underlying file, so a
// write through one handle is visible to every other handle on the same name.
type MemFS struct {
	mu    sync.RWMutex
	files map[string]*memNode
	dirs  map[string]bool
}

type memNode struct {
	mu      sync.Mutex
	data    []byte
	mode    fs.FileMode
	modTime time.Time
}

// NewMemFS creates an empty in-memory file system.
func NewMemFS() *MemFS {
	return &MemFS{
		files: make(map[string]*memNode),
		dirs:  map[string]bool{"/": true, ".": true},
	}
}

// Ensure MemFS implements FileSystem.
var _ FileSystem = (*MemFS)(nil)

// Open opens a file for reading.
func (m *MemFS) Open(name string) (File, error) {
	return m.OpenFile(name, os.O_RDONLY, 0)
}

// OpenFile opens a file with os.O_* flags.
func (m *MemFS) OpenFile(name string, flag int, perm fs.FileMode) (File, error) {
	name = cleanPath(name)

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.dirs[name] {
		return nil, &fs.PathError{Op: "open", Path: name, Err: syscall.EISDIR}
	}
	node, ok := m.files[name]
	switch {
	case !ok && flag&os.O_CREATE == 0:
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	case ok && flag&os.O_CREATE != 0 && flag&os.O_EXCL != 0:
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrExist}
	case !ok:
		if perm == 0 {
			perm = 0o644
		}
		node = &memNode{mode: perm, modTime: time.Now()}
		m.files[name] = node
	}

	h := &memHandle{name: name, node: node, flag: flag}
	if flag&os.O_TRUNC != 0 && h.writable() {
		node.mu.Lock()
		node.data = node.data[:0]
		node.modTime = time.Now()
		node.mu.Unlock()
	}
	return h, nil
}

// Stat returns file information.
func (m *MemFS) Stat(name string) (fs.FileInfo, error) {
	name = cleanPath(name)

	m.mu.RLock()
	defer m.mu.RUnlock()

	if node, ok := m.files[name]; ok {
		node.mu.Lock()
		defer node.mu.Unlock()
		return memFileInfo{name: path.Base(name), size: int64(len(node.data)), mode: node.mode, modTime: node.modTime}, nil
	}
	if m.dirs[name] {
		return memFileInfo{name: path.Base(name), mode: fs.ModeDir | 0o755, modTime: time.Now()}, nil
	}
	return nil, &fs.PathError{Op: "stat", Path: name, Err: fs.ErrNotExist}
}

// Mkdir registers a directory. Opening a directory fails like it does on disk.
func (m *MemFS) Mkdir(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dirs[cleanPath(name)] = true
}

// AddFile creates or replaces a file with the given content.
func (m *MemFS) AddFile(name, content string) {
	m.WriteFile(name, []byte(content))
}

// WriteFile creates or replaces a file.
func (m *MemFS) WriteFile(name string, data []byte) {
	name = cleanPath(name)
	buf := make([]byte, len(data))
	copy(buf, data)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[name] = &memNode{data: buf, mode: 0o644, modTime: time.Now()}
}

// ReadFile returns a copy of a file's content.
func (m *MemFS) ReadFile(name string) ([]byte, error) {
	name = cleanPath(name)

	m.mu.RLock()
	node, ok := m.files[name]
	m.mu.RUnlock()
	if !ok {
		return nil, &fs.PathError{Op: "read", Path: name, Err: fs.ErrNotExist}
	}

	node.mu.Lock()
	defer node.mu.Unlock()
	out := make([]byte, len(node.data))
	copy(out, node.data)
	return out, nil
}

// Names returns every file name, sorted.
func (m *MemFS) Names() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.files))
	for name := range m.files {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func cleanPath(name string) string {
	return path.Clean(filepath.ToSlash(name))
}

// memHandle is an open file on a MemFS.
type memHandle struct {
	name   string
	node   *memNode
	flag   int
	pos    int64
	closed bool
}

func (h *memHandle) readable() bool {
	return h.flag&(os.O_WRONLY|os.O_RDWR) != os.O_WRONLY
}

func (h *memHandle) writable() bool {
	return h.flag&(os.O_WRONLY|os.O_RDWR) != 0
}

func (h *memHandle) Read(p []byte) (int, error) {
	if h.closed {
		return 0, &fs.PathError{Op: "read", Path: h.name, Err: fs.ErrClosed}
	}
	if !h.readable() {
		return 0, &fs.PathError{Op: "read", Path: h.name, Err: errNotReadable}
	}
	h.node.mu.Lock()
	defer h.node.mu.Unlock()
	if h.pos >= int64(len(h.node.data)) {
		return 0, io.EOF
	}
	n := copy(p, h.node.data[h.pos:])
	h.pos += int64(n)
	return n, nil
}

func (h *memHandle) ReadAt(p []byte, off int64) (int, error) {
	if h.closed {
		return 0, &fs.PathError{Op: "read", Path: h.name, Err: fs.ErrClosed}
	}
	if !h.readable() {
		return 0, &fs.PathError{Op: "read", Path: h.name, Err: errNotReadable}
	}
	if off < 0 {
		return 0, &fs.PathError{Op: "readat", Path: h.name, Err: fs.ErrInvalid}
	}
	h.node.mu.Lock()
	defer h.node.mu.Unlock()
	if off >= int64(len(h.node.data)) {
		return 0, io.EOF
	}
	n := copy(p, h.node.data[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

func (h *memHandle) Write(p []byte) (int, error) {
	if h.closed {
		return 0, &fs.PathError{Op: "write", Path: h.name, Err: fs.ErrClosed}
	}
	if !h.writable() {
		return 0, &fs.PathError{Op: "write", Path: h.name, Err: errNotWritable}
	}
	h.node.mu.Lock()
	defer h.node.mu.Unlock()
	if h.flag&os.O_APPEND != 0 {
		h.pos = int64(len(h.node.data))
	}
	end := h.pos + int64(len(p))
	if end > int64(len(h.node.data)) {
		grown := make([]byte, end)
		copy(grown, h.node.data)
		h.node.data = grown
	}
	copy(h.node.data[h.pos:], p)
	h.pos = end
	h.node.modTime = time.Now()
	return len(p), nil
}

func (h *memHandle) Close() error {
	if h.closed {
		return &fs.PathError{Op: "close", Path: h.name, Err: fs.ErrClosed}
	}
	h.closed = true
	return nil
}

func (h *memHandle) Stat() (fs.FileInfo, error) {
	h.node.mu.Lock()
	defer h.node.mu.Unlock()
	return memFileInfo{name: path.Base(h.name), size: int64(len(h.node.data)), mode: h.node.mode, modTime: h.node.modTime}, nil
}

type memFileInfo struct {
	name    string
	size    int64
	mode    fs.FileMode
	modTime time.Time
}

func (fi memFileInfo) Name() string       { return fi.name }
func (fi memFileInfo) Size() int64        { return fi.size }
func (fi memFileInfo) Mode() fs.FileMode  { return fi.mode }
func (fi memFileInfo) ModTime() time.Time { return fi.modTime }
func (fi memFileInfo) IsDir() bool        { return fi.mode.IsDir() }
func (fi memFileInfo) Sys() any           { return nil }
