// ABOUTME: Metadata store and serialized idea ID allocator
// ABOUTME: Persists the nextId counter and cached total count in meta.json

package meta

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/ideaforge/ideastore/internal/metrics"
	"github.com/ideaforge/ideastore/pkg/storage"
)

// FileName is the metadata record file name inside the data directory.
const FileName = "meta.json"

// Store manages the singleton metadata record. All read-modify-write
// cycles hold the store mutex, so concurrent AllocateIdeaID calls never
// observe the same counter value.
type Store struct {
	path string
	mu   sync.Mutex
}

// Open returns a metadata store rooted at dir, creating dir if needed.
// The metadata file itself is created lazily on first allocation.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("meta: create %s: %w", dir, err)
	}
	return &Store{path: filepath.Join(dir, FileName)}, nil
}

// AllocateIdeaID hands out the next idea ID and durably advances the
// counter. Returned values are strictly increasing and never reused,
// even after the idea they named is deleted.
func (s *Store) AllocateIdeaID() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.load()
	if err != nil {
		return 0, err
	}

	id := m.NextID
	m.NextID++
	if err := s.save(m); err != nil {
		return 0, err
	}

	metrics.Default().RecordIDAllocation()
	return id, nil
}

// Counts returns the current metadata record without rewriting it.
func (s *Store) Counts() (Meta, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// SetTotalIdeas writes a freshly computed idea count into the record.
func (s *Store) SetTotalIdeas(n int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.load()
	if err != nil {
		return err
	}

	m.TotalIdeas = n
	return s.save(m)
}

// load reads the record from disk. A missing file initializes a fresh
// counter; a present but unparsable file is a hard error, so corruption
// can never silently reset the counter and reissue existing idea IDs.
func (s *Store) load() (Meta, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return Meta{NextID: 1, TotalIdeas: 0}, nil
	}
	if err != nil {
		return Meta{}, fmt.Errorf("meta: read %s: %w", s.path, err)
	}

	var m Meta
	if err := json.Unmarshal(data, &m); err != nil {
		return Meta{}, fmt.Errorf("%w: %s: %s", storage.ErrCorrupted, FileName, err)
	}
	if m.NextID < 1 {
		return Meta{}, fmt.Errorf("%w: %s: nextId %d out of range", storage.ErrCorrupted, FileName, m.NextID)
	}
	return m, nil
}

func (s *Store) save(m Meta) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("meta: encode: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("meta: write %s: %w", s.path, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("meta: write %s: %w", s.path, err)
	}
	return nil
}
