// ABOUTME: In-memory vote ledger
// ABOUTME: Process-lifetime voter sets; a restart forgets who voted

package vote

import (
	"context"
	"sync"
)

// MemoryLedger keeps voter sets purely in process memory. It matches the
// portal's original behavior: durable vote counts live on the Idea
// document while voter identities are forgotten on restart, so a voter
// from before a restart can vote again. Use SQLiteLedger when that
// durability gap matters.
type MemoryLedger struct {
	mu     sync.Mutex
	voters map[int]map[string]struct{}
}

// NewMemoryLedger returns an empty in-memory ledger.
func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{voters: make(map[int]map[string]struct{})}
}

// Toggle flips the voter's membership in the idea's voter set.
func (l *MemoryLedger) Toggle(ctx context.Context, ideaID int, voterID string) (Result, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	set := l.voters[ideaID]
	if set == nil {
		set = make(map[string]struct{})
		l.voters[ideaID] = set
	}

	if _, ok := set[voterID]; ok {
		delete(set, voterID)
		return Result{VoteCount: len(set), DidVote: false}, nil
	}

	set[voterID] = struct{}{}
	return Result{VoteCount: len(set), DidVote: true}, nil
}

// Count returns the idea's voter-set cardinality.
func (l *MemoryLedger) Count(ctx context.Context, ideaID int) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.voters[ideaID]), nil
}

// HasVoted reports whether the voter currently holds a vote on the idea.
func (l *MemoryLedger) HasVoted(ctx context.Context, ideaID int, voterID string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.voters[ideaID][voterID]
	return ok, nil
}

// TotalVotes returns the number of recorded votes across all ideas.
func (l *MemoryLedger) TotalVotes(ctx context.Context) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	total := 0
	for _, set := range l.voters {
		total += len(set)
	}
	return total, nil
}

// Close is a no-op for the in-memory ledger.
func (l *MemoryLedger) Close() error {
	return nil
}
