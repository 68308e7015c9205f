package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// Store abstracts checkpoint persistence for testability.
type Store interface {
	Load() ([]Checkpoint, error)
	Save([]Checkpoint) error
}

// FileStore keeps checkpoints as indented JSON in one file.
type FileStore struct {
	File string
}

func NewFileStore(file string) *FileStore {
	return &FileStore{File: file}
}

// Load returns the stored checkpoints. A missing or empty file holds none.
func (s *FileStore) Load() ([]Checkpoint, error) {
	f, err := os.Open(s.File)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open state file: %w", err)
	}
	defer func() { _ = f.Close() }()

	var cps []Checkpoint
	if err := json.NewDecoder(f).Decode(&cps); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to decode state file %s: %w", s.File, err)
	}
	return cps, nil
}

// Save replaces the stored checkpoints. The file is written next to its
// final name and renamed into place.
func (s *FileStore) Save(cps []Checkpoint) error {
	dir := filepath.Dir(s.File)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(s.File)+".*")
	if err != nil {
		return fmt.Errorf("failed to create state file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	enc := json.NewEncoder(tmp)
	enc.SetIndent("", "  ")
	if err := enc.Encode(cps); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to encode state: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write state file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.File); err != nil {
		return fmt.Errorf("failed to replace state file: %w", err)
	}
	return nil
}

// MemoryStore implements Store without disk I/O.
type MemoryStore struct {
	mu  sync.Mutex
	cps []Checkpoint
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Load() ([]Checkpoint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cps == nil {
		return nil, nil
	}
	cpy := make([]Checkpoint, len(s.cps))
	copy(cpy, s.cps)
	return cpy, nil
}

func (s *MemoryStore) Save(cps []Checkpoint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cps = make([]Checkpoint, len(cps))
	copy(s.cps, cps)
	return nil
}
