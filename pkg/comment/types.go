// ABOUTME: Comment data model for threaded idea discussions
// ABOUTME: Flat parent-reference records with soft-delete semantics

package comment

import "time"

// Comment is a discussion message attached to exactly one idea. A nil
// ParentID marks a top-level comment; otherwise ParentID references
// another comment on the same idea.
type Comment struct {
	ID string `json:"id"`
	// Seq records insertion order within the collection. Listings use it
	// to break ties between comments stamped with the same CreatedAt,
	// since the random IDs carry no ordering.
	Seq         int64     `json:"seq"`
	IdeaID      int       `json:"ideaId"`
	ParentID    *string   `json:"parentId,omitempty"`
	AuthorName  string    `json:"authorName,omitempty"`
	AuthorEmail string    `json:"authorEmail,omitempty"`
	Content     string    `json:"content"`
	IsDeleted   bool      `json:"isDeleted"`
	IsModerated bool      `json:"isModerated"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Patch carries a partial update for a comment. Nil fields are left
// untouched by the merge. IdeaID and ParentID are immutable after
// creation and deliberately absent.
type Patch struct {
	Content     *string
	AuthorName  *string
	AuthorEmail *string
	IsModerated *bool
}

// Thread is a comment with its nested replies assembled from the flat
// parent-reference list.
type Thread struct {
	*Comment
	Replies []*Thread `json:"replies,omitempty"`
}
