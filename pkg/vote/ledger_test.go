// ABOUTME: Tests for the vote ledgers and the mirroring service
// ABOUTME: Verifies toggle pairing, per-voter sets, and count mirroring

package vote

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/ideaforge/ideastore/pkg/idea"
	"github.com/ideaforge/ideastore/pkg/meta"
	"github.com/ideaforge/ideastore/pkg/storage"
)

func setupTestIdeas(t *testing.T) *idea.Store {
	dir := t.TempDir()

	ms, err := meta.Open(dir)
	if err != nil {
		t.Fatalf("Failed to open meta store: %v", err)
	}
	coll, err := storage.OpenCollection(idea.CollectionName, filepath.Join(dir, "ideas"), idea.FilePrefix)
	if err != nil {
		t.Fatalf("Failed to open collection: %v", err)
	}
	return idea.NewStore(coll, ms)
}

func mustIdea(t *testing.T, ideas *idea.Store) *idea.Idea {
	t.Helper()

	id, err := ideas.AllocateID()
	if err != nil {
		t.Fatalf("Failed to allocate ID: %v", err)
	}
	created, err := ideas.Create(&idea.Idea{ID: id, Title: "votable", Description: "d"})
	if err != nil {
		t.Fatalf("Failed to create idea: %v", err)
	}
	return created
}

func TestMemoryTogglePairing(t *testing.T) {
	ledger := NewMemoryLedger()
	ctx := context.Background()

	res, err := ledger.Toggle(ctx, 1, "u1")
	if err != nil {
		t.Fatalf("Failed to toggle: %v", err)
	}
	if !res.DidVote || res.VoteCount != 1 {
		t.Errorf("Expected {1 true}, got %+v", res)
	}

	res, err = ledger.Toggle(ctx, 1, "u1")
	if err != nil {
		t.Fatalf("Failed to toggle: %v", err)
	}
	if res.DidVote || res.VoteCount != 0 {
		t.Errorf("Expected toggle pair to restore {0 false}, got %+v", res)
	}
}

func TestMemoryPerVoterSets(t *testing.T) {
	ledger := NewMemoryLedger()
	ctx := context.Background()

	ledger.Toggle(ctx, 1, "u1")
	ledger.Toggle(ctx, 1, "u2")
	ledger.Toggle(ctx, 2, "u1")

	count, err := ledger.Count(ctx, 1)
	if err != nil {
		t.Fatalf("Failed to count: %v", err)
	}
	if count != 2 {
		t.Errorf("Expected 2 votes on idea 1, got %d", count)
	}

	voted, err := ledger.HasVoted(ctx, 1, "u1")
	if err != nil {
		t.Fatalf("Failed to check: %v", err)
	}
	if !voted {
		t.Errorf("Expected u1 to have voted on idea 1")
	}
	voted, err = ledger.HasVoted(ctx, 2, "u2")
	if err != nil {
		t.Fatalf("Failed to check: %v", err)
	}
	if voted {
		t.Errorf("Expected u2 not to have voted on idea 2")
	}

	total, err := ledger.TotalVotes(ctx)
	if err != nil {
		t.Fatalf("Failed to total: %v", err)
	}
	if total != 3 {
		t.Errorf("Expected 3 votes total, got %d", total)
	}
}

func TestServiceMirrorsVoteCount(t *testing.T) {
	ideas := setupTestIdeas(t)
	svc := NewService(NewMemoryLedger(), ideas)
	ctx := context.Background()

	i := mustIdea(t, ideas)

	res, err := svc.Toggle(ctx, i.ID, "u1")
	if err != nil {
		t.Fatalf("Failed to toggle: %v", err)
	}
	if res.VoteCount != 1 {
		t.Errorf("Expected count 1, got %d", res.VoteCount)
	}

	got, err := ideas.Get(i.ID)
	if err != nil {
		t.Fatalf("Failed to get idea: %v", err)
	}
	if got.VoteCount != 1 {
		t.Errorf("Expected mirrored count 1 on the document, got %d", got.VoteCount)
	}

	// Toggle again restores the original count on the document too.
	if _, err := svc.Toggle(ctx, i.ID, "u1"); err != nil {
		t.Fatalf("Failed to toggle: %v", err)
	}
	got, err = ideas.Get(i.ID)
	if err != nil {
		t.Fatalf("Failed to get idea: %v", err)
	}
	if got.VoteCount != 0 {
		t.Errorf("Expected mirrored count 0, got %d", got.VoteCount)
	}

	// A second voter brings it back to 1.
	if _, err := svc.Toggle(ctx, i.ID, "u2"); err != nil {
		t.Fatalf("Failed to toggle: %v", err)
	}
	got, err = ideas.Get(i.ID)
	if err != nil {
		t.Fatalf("Failed to get idea: %v", err)
	}
	if got.VoteCount != 1 {
		t.Errorf("Expected mirrored count 1, got %d", got.VoteCount)
	}
}

func TestServiceToggleUnknownIdea(t *testing.T) {
	ideas := setupTestIdeas(t)
	ledger := NewMemoryLedger()
	svc := NewService(ledger, ideas)
	ctx := context.Background()

	if _, err := svc.Toggle(ctx, 404, "u1"); err == nil {
		t.Errorf("Expected error toggling a vote on a missing idea")
	}

	// The failed toggle must not leave a phantom vote behind.
	voted, err := ledger.HasVoted(ctx, 404, "u1")
	if err != nil {
		t.Fatalf("Failed to check vote: %v", err)
	}
	if voted {
		t.Errorf("Expected no vote recorded for the missing idea")
	}
	total, err := ledger.TotalVotes(ctx)
	if err != nil {
		t.Fatalf("Failed to total votes: %v", err)
	}
	if total != 0 {
		t.Errorf("Expected an empty ledger, got %d votes", total)
	}
}

func TestServiceResync(t *testing.T) {
	ideas := setupTestIdeas(t)
	ledger := NewMemoryLedger()
	ctx := context.Background()

	i := mustIdea(t, ideas)

	// Votes recorded directly in the ledger, bypassing the mirror.
	ledger.Toggle(ctx, i.ID, "u1")
	ledger.Toggle(ctx, i.ID, "u2")

	svc := NewService(ledger, ideas)
	if err := svc.Resync(ctx); err != nil {
		t.Fatalf("Failed to resync: %v", err)
	}

	got, err := ideas.Get(i.ID)
	if err != nil {
		t.Fatalf("Failed to get idea: %v", err)
	}
	if got.VoteCount != 2 {
		t.Errorf("Expected resynced count 2, got %d", got.VoteCount)
	}
}
