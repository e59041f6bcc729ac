// ABOUTME: Vote ledger data model and interface
// ABOUTME: Set-per-idea voter tracking with toggle semantics

package vote

import "context"

// Result reports the outcome of a toggle: the idea's vote count after
// the mutation and whether the voter now holds a vote.
type Result struct {
	VoteCount int  `json:"voteCount"`
	DidVote   bool `json:"didVote"`
}

// Ledger tracks which voters have voted on which ideas. Toggle flips
// the (idea, voter) pair between NotVoted and Voted; calling it twice
// restores the original state. There is no separate remove operation.
type Ledger interface {
	Toggle(ctx context.Context, ideaID int, voterID string) (Result, error)
	Count(ctx context.Context, ideaID int) (int, error)
	HasVoted(ctx context.Context, ideaID int, voterID string) (bool, error)
	TotalVotes(ctx context.Context) (int, error)
	Close() error
}
