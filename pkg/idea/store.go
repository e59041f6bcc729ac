// ABOUTME: Idea repository over a JSON document collection
// ABOUTME: One idea-<id>.json file per idea, hard delete, full-overwrite update

package idea

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/ideaforge/ideastore/internal/logger"
	"github.com/ideaforge/ideastore/pkg/meta"
	"github.com/ideaforge/ideastore/pkg/storage"
)

// CollectionName labels the idea collection in metrics and logs.
const CollectionName = "ideas"

// FilePrefix is the idea record file name prefix.
const FilePrefix = "idea-"

// Store persists Idea documents, one file per idea, keyed by ID.
type Store struct {
	coll *storage.Collection
	meta *meta.Store
}

// NewStore returns an idea store over coll. The metadata store backs
// ID allocation and the cached total count.
func NewStore(coll *storage.Collection, ms *meta.Store) *Store {
	return &Store{coll: coll, meta: ms}
}

// AllocateID hands out the next idea ID from the metadata counter.
func (s *Store) AllocateID() (int, error) {
	return s.meta.AllocateIdeaID()
}

// Create persists a new idea document. The caller supplies every field
// including a pre-allocated ID; zero timestamps and an empty status are
// stamped with defaults.
func (s *Store) Create(i *Idea) (*Idea, error) {
	if i.ID < 1 {
		return nil, fmt.Errorf("idea: create: id %d not allocated", i.ID)
	}
	if i.Status == "" {
		i.Status = StatusSubmitted
	}
	now := time.Now().UTC()
	if i.CreatedAt.IsZero() {
		i.CreatedAt = now
	}
	if i.UpdatedAt.IsZero() {
		i.UpdatedAt = i.CreatedAt
	}

	if err := s.coll.Write(strconv.Itoa(i.ID), i); err != nil {
		return nil, err
	}
	return i, nil
}

// Get reads one idea by ID. A missing file reports storage.ErrNotFound;
// an unparsable one storage.ErrCorrupted.
func (s *Store) Get(id int) (*Idea, error) {
	var i Idea
	if err := s.coll.Read(strconv.Itoa(id), &i); err != nil {
		return nil, err
	}
	return &i, nil
}

// ListAll enumerates every idea in the collection. Records that fail to
// read or parse are skipped with a warning so one bad file never empties
// a listing; the result order is unspecified.
func (s *Store) ListAll() ([]*Idea, error) {
	start := time.Now()
	slog := logger.GetGlobalLogger().StoreLogger(CollectionName)

	keys, err := s.coll.Keys()
	if err != nil {
		return nil, err
	}

	ideas := make([]*Idea, 0, len(keys))
	for _, key := range keys {
		var i Idea
		if err := s.coll.Read(key, &i); err != nil {
			slog.Warn("Skipping unreadable idea record").
				Str("key", key).
				Err(err).
				Send()
			continue
		}
		ideas = append(ideas, &i)
	}
	logger.GetGlobalLogger().LogStoreOperation(CollectionName, "list", time.Since(start), len(ideas), nil)
	return ideas, nil
}

// Update overwrites the document at its key with i, refreshing UpdatedAt.
// There is no partial merge at this layer; callers merge fields first.
// A missing record reports storage.ErrNotFound.
func (s *Store) Update(i *Idea) (*Idea, error) {
	key := strconv.Itoa(i.ID)

	var existing Idea
	if err := s.coll.Read(key, &existing); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, err
		}
		// A corrupt record is still overwritable; the caller holds the
		// replacement document.
		if !errors.Is(err, storage.ErrCorrupted) {
			return nil, err
		}
	}

	i.UpdatedAt = time.Now().UTC()
	if err := s.coll.Write(key, i); err != nil {
		return nil, err
	}
	return i, nil
}

// Delete removes the idea file. This is a hard delete: Get afterward
// reports storage.ErrNotFound and the ID is never reused.
func (s *Store) Delete(id int) error {
	return s.coll.Delete(strconv.Itoa(id))
}

// RefreshTotalCount recomputes the cached idea total with a full scan
// and writes it into the metadata record.
func (s *Store) RefreshTotalCount() (int, error) {
	ideas, err := s.ListAll()
	if err != nil {
		return 0, err
	}
	if err := s.meta.SetTotalIdeas(len(ideas)); err != nil {
		return 0, err
	}
	return len(ideas), nil
}
