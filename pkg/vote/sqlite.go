// ABOUTME: Durable vote ledger backed by a sqlite table
// ABOUTME: One row per (idea_id, voter_id); survives process restarts

package vote

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteLedger persists votes in a sqlite table keyed (idea_id, voter_id),
// closing the durability gap of MemoryLedger: voter identities survive a
// restart, so nobody can double-increment an already-counted vote.
type SQLiteLedger struct {
	db *sql.DB
}

// NewSQLiteLedger opens (or creates) the vote database at path.
func NewSQLiteLedger(path string) (*SQLiteLedger, error) {
	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("vote: open %s: %w", path, err)
	}

	ledger := &SQLiteLedger{db: db}
	if err := ledger.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return ledger, nil
}

func (l *SQLiteLedger) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS votes (
		idea_id INTEGER NOT NULL,
		voter_id TEXT NOT NULL,
		created_at DATETIME NOT NULL,
		PRIMARY KEY (idea_id, voter_id)
	);

	CREATE INDEX IF NOT EXISTS idx_votes_idea_id ON votes(idea_id);
	`

	if _, err := l.db.Exec(schema); err != nil {
		return fmt.Errorf("vote: migrate: %w", err)
	}
	return nil
}

// Toggle flips the (idea, voter) row inside a transaction and returns
// the resulting count.
func (l *SQLiteLedger) Toggle(ctx context.Context, ideaID int, voterID string) (Result, error) {
	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return Result{}, fmt.Errorf("vote: toggle: %w", err)
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM votes WHERE idea_id = ? AND voter_id = ?
	`, ideaID, voterID).Scan(&exists)
	if err != nil {
		return Result{}, fmt.Errorf("vote: toggle: %w", err)
	}

	didVote := exists == 0
	if didVote {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO votes (idea_id, voter_id, created_at) VALUES (?, ?, ?)
		`, ideaID, voterID, time.Now().UTC())
	} else {
		_, err = tx.ExecContext(ctx, `
			DELETE FROM votes WHERE idea_id = ? AND voter_id = ?
		`, ideaID, voterID)
	}
	if err != nil {
		return Result{}, fmt.Errorf("vote: toggle: %w", err)
	}

	var count int
	err = tx.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM votes WHERE idea_id = ?
	`, ideaID).Scan(&count)
	if err != nil {
		return Result{}, fmt.Errorf("vote: toggle: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return Result{}, fmt.Errorf("vote: toggle: %w", err)
	}
	return Result{VoteCount: count, DidVote: didVote}, nil
}

// Count returns the number of votes recorded for an idea.
func (l *SQLiteLedger) Count(ctx context.Context, ideaID int) (int, error) {
	var count int
	err := l.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM votes WHERE idea_id = ?
	`, ideaID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("vote: count: %w", err)
	}
	return count, nil
}

// HasVoted reports whether the voter currently holds a vote on the idea.
func (l *SQLiteLedger) HasVoted(ctx context.Context, ideaID int, voterID string) (bool, error) {
	var exists int
	err := l.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM votes WHERE idea_id = ? AND voter_id = ?
	`, ideaID, voterID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("vote: has voted: %w", err)
	}
	return exists > 0, nil
}

// TotalVotes returns the number of recorded votes across all ideas.
func (l *SQLiteLedger) TotalVotes(ctx context.Context) (int, error) {
	var count int
	err := l.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM votes`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("vote: total: %w", err)
	}
	return count, nil
}

// Close closes the vote database.
func (l *SQLiteLedger) Close() error {
	return l.db.Close()
}
