// ABOUTME: Vote service composing a ledger with the idea store
// ABOUTME: Mirrors the resulting vote count onto the Idea document

package vote

import (
	"context"
	"time"

	"github.com/ideaforge/ideastore/internal/logger"
	"github.com/ideaforge/ideastore/internal/metrics"
	"github.com/ideaforge/ideastore/pkg/idea"
)

// Service ties a Ledger to the idea store so every toggle persists the
// derived vote count onto the Idea document, the only durable home the
// count has when the ledger is in-memory.
type Service struct {
	ledger Ledger
	ideas  *idea.Store
}

// NewService returns a vote service over the given ledger and idea store.
func NewService(ledger Ledger, ideas *idea.Store) *Service {
	return &Service{ledger: ledger, ideas: ideas}
}

// Ledger exposes the underlying ledger for direct queries.
func (s *Service) Ledger() Ledger {
	return s.ledger
}

// Toggle flips the voter's vote on the idea and writes the resulting
// count onto the Idea document.
func (s *Service) Toggle(ctx context.Context, ideaID int, voterID string) (Result, error) {
	start := time.Now()

	// The idea is read first so a vote on a missing idea never lands
	// in the ledger.
	i, err := s.ideas.Get(ideaID)
	if err != nil {
		return Result{}, err
	}

	res, err := s.ledger.Toggle(ctx, ideaID, voterID)
	if err != nil {
		return Result{}, err
	}

	direction := "removed"
	if res.DidVote {
		direction = "added"
	}
	metrics.Default().RecordVoteToggle(direction)

	i.VoteCount = res.VoteCount
	if _, err := s.ideas.Update(i); err != nil {
		return Result{}, err
	}

	logger.GetGlobalLogger().Debug("Vote toggled").
		Int("idea_id", ideaID).
		Str("direction", direction).
		Int("vote_count", res.VoteCount).
		Dur("duration_ms", time.Since(start)).
		Send()

	return res, nil
}

// Resync rewrites each idea's mirrored vote count from the ledger.
// Useful after restarting with a durable ledger, whose counts survive
// while the mirrors may be stale.
func (s *Service) Resync(ctx context.Context) error {
	rlog := logger.GetGlobalLogger().WithFields(map[string]interface{}{
		"component": "vote_resync",
	})

	ideas, err := s.ideas.ListAll()
	if err != nil {
		return err
	}

	for _, i := range ideas {
		count, err := s.ledger.Count(ctx, i.ID)
		if err != nil {
			return err
		}
		if count == i.VoteCount {
			continue
		}

		i.VoteCount = count
		if _, err := s.ideas.Update(i); err != nil {
			return err
		}
		rlog.Info("Resynced mirrored vote count").
			Int("idea_id", i.ID).
			Int("vote_count", count).
			Send()
	}
	return nil
}
