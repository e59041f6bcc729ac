// ABOUTME: Comment repository over a JSON document collection
// ABOUTME: Soft deletes, partial-merge updates, and full-scan listings

package comment

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ideaforge/ideastore/internal/logger"
	"github.com/ideaforge/ideastore/pkg/storage"
)

// CollectionName labels the comment collection in metrics and logs.
const CollectionName = "comments"

// FilePrefix is the comment record file name prefix.
const FilePrefix = "comment-"

// ErrDeleted reports an update attempted against a soft-deleted comment.
// It matches storage.ErrNotFound under errors.Is so callers keep the
// not-found external behavior while logs can tell the cases apart.
var ErrDeleted = deletedError{}

type deletedError struct{}

func (deletedError) Error() string { return "comment: record is soft-deleted" }

func (deletedError) Is(target error) bool { return target == storage.ErrNotFound }

// Store persists Comment documents, one file per comment, keyed by an
// opaque random ID. Read-modify-write operations hold the store mutex.
type Store struct {
	coll *storage.Collection
	mu   sync.Mutex

	// Insertion sequence counter, recovered from the existing records
	// on first use after open. Guarded by mu.
	seq       int64
	seqLoaded bool
}

// NewStore returns a comment store over coll.
func NewStore(coll *storage.Collection) *Store {
	return &Store{coll: coll}
}

// Create persists a new comment. The ID is a fresh random token with no
// ordering guarantee; Seq carries the insertion order instead. CreatedAt
// and UpdatedAt are stamped equal and the moderation and deletion flags
// start false.
func (s *Store) Create(c *Comment) (*Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	seq, err := s.nextSeq()
	if err != nil {
		return nil, err
	}

	c.ID = uuid.New().String()
	c.Seq = seq
	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now
	c.IsDeleted = false
	c.IsModerated = false

	if err := s.coll.Write(c.ID, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Get reads one comment by ID. Soft-deleted comments are returned like
// any other record; only listings exclude them.
func (s *Store) Get(id string) (*Comment, error) {
	var c Comment
	if err := s.coll.Read(id, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// Update merges patch onto the stored comment and refreshes UpdatedAt.
// The merge is refused with ErrDeleted if the record is already
// soft-deleted.
func (s *Store) Update(id string, patch Patch) (*Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if c.IsDeleted {
		return nil, ErrDeleted
	}

	if patch.Content != nil {
		c.Content = *patch.Content
	}
	if patch.AuthorName != nil {
		c.AuthorName = *patch.AuthorName
	}
	if patch.AuthorEmail != nil {
		c.AuthorEmail = *patch.AuthorEmail
	}
	if patch.IsModerated != nil {
		c.IsModerated = *patch.IsModerated
	}
	c.UpdatedAt = time.Now().UTC()

	if err := s.coll.Write(id, c); err != nil {
		return nil, err
	}
	return c, nil
}

// SoftDelete marks the comment deleted and refreshes UpdatedAt. The
// record file is retained forever; listings exclude it from now on.
func (s *Store) SoftDelete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.Get(id)
	if err != nil {
		return err
	}

	c.IsDeleted = true
	c.UpdatedAt = time.Now().UTC()
	return s.coll.Write(id, c)
}

// ListByIdea returns the live top-level comments for an idea, newest
// first. Replies are reached through ListReplies or Threads.
func (s *Store) ListByIdea(ideaID int) ([]*Comment, error) {
	comments, err := s.scan(func(c *Comment) bool {
		return c.IdeaID == ideaID && c.ParentID == nil && !c.IsDeleted
	})
	if err != nil {
		return nil, err
	}
	sortByCreatedAt(comments, true)
	return comments, nil
}

// ListReplies returns the live direct replies to a comment, oldest first
// so a reply chain reads as a chronological conversation.
func (s *Store) ListReplies(parentID string) ([]*Comment, error) {
	comments, err := s.scan(func(c *Comment) bool {
		return c.ParentID != nil && *c.ParentID == parentID && !c.IsDeleted
	})
	if err != nil {
		return nil, err
	}
	sortByCreatedAt(comments, false)
	return comments, nil
}

// ListAll returns every live comment across all ideas, newest first.
func (s *Store) ListAll() ([]*Comment, error) {
	comments, err := s.scan(func(c *Comment) bool {
		return !c.IsDeleted
	})
	if err != nil {
		return nil, err
	}
	sortByCreatedAt(comments, true)
	return comments, nil
}

// CountForIdea returns the number of live top-level comments on an idea.
func (s *Store) CountForIdea(ideaID int) (int, error) {
	comments, err := s.ListByIdea(ideaID)
	if err != nil {
		return 0, err
	}
	return len(comments), nil
}

// scan walks the whole collection and keeps records matching keep.
// Unreadable records are skipped with a warning, never aborting the
// listing.
func (s *Store) scan(keep func(*Comment) bool) ([]*Comment, error) {
	start := time.Now()
	slog := logger.GetGlobalLogger().StoreLogger(CollectionName)

	keys, err := s.coll.Keys()
	if err != nil {
		return nil, err
	}

	var comments []*Comment
	for _, key := range keys {
		var c Comment
		if err := s.coll.Read(key, &c); err != nil {
			slog.Warn("Skipping unreadable comment record").
				Str("key", key).
				Err(err).
				Send()
			continue
		}
		if keep(&c) {
			comments = append(comments, &c)
		}
	}
	logger.GetGlobalLogger().LogStoreOperation(CollectionName, "scan", time.Since(start), len(comments), nil)
	return comments, nil
}

// nextSeq hands out the next insertion sequence number, recovering the
// counter from the stored records the first time. Callers hold mu.
func (s *Store) nextSeq() (int64, error) {
	if !s.seqLoaded {
		all, err := s.scan(func(*Comment) bool { return true })
		if err != nil {
			return 0, err
		}
		for _, c := range all {
			if c.Seq > s.seq {
				s.seq = c.Seq
			}
		}
		s.seqLoaded = true
	}
	s.seq++
	return s.seq, nil
}

func sortByCreatedAt(comments []*Comment, newestFirst bool) {
	sort.SliceStable(comments, func(i, j int) bool {
		a, b := comments[i], comments[j]
		// Equal stamps fall back to insertion order in either direction.
		if a.CreatedAt.Equal(b.CreatedAt) {
			return a.Seq < b.Seq
		}
		if newestFirst {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.CreatedAt.Before(b.CreatedAt)
	})
}

// IsNotFound reports whether err denotes a missing or soft-deleted record.
func IsNotFound(err error) bool {
	return errors.Is(err, storage.ErrNotFound)
}
