// ABOUTME: Idea data model for the submission portal
// ABOUTME: Defines Idea, workflow Status, and Attachment descriptors

package idea

import "time"

// Status is the triage workflow state of an idea.
type Status string

const (
	StatusSubmitted   Status = "submitted"
	StatusUnderReview Status = "under_review"
	StatusApproved    Status = "approved"
	StatusInProgress  Status = "in_progress"
	StatusCompleted   Status = "completed"
	StatusParked      Status = "parked"
	StatusDeclined    Status = "declined"
)

// Valid reports whether s is a known workflow status.
func (s Status) Valid() bool {
	switch s {
	case StatusSubmitted, StatusUnderReview, StatusApproved,
		StatusInProgress, StatusCompleted, StatusParked, StatusDeclined:
		return true
	}
	return false
}

// Statuses returns every known workflow status in triage order.
func Statuses() []Status {
	return []Status{
		StatusSubmitted, StatusUnderReview, StatusApproved,
		StatusInProgress, StatusCompleted, StatusParked, StatusDeclined,
	}
}

// Attachment describes an uploaded file linked to an idea. The store
// treats it as opaque; upload handling lives outside this core.
type Attachment struct {
	ID         string    `json:"id"`
	FileName   string    `json:"fileName"`
	MimeType   string    `json:"mimeType,omitempty"`
	Size       int64     `json:"size,omitempty"`
	UploadedAt time.Time `json:"uploadedAt"`
}

// Idea is a submitted proposal document, one JSON file per idea.
type Idea struct {
	ID          int          `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Category    string       `json:"category,omitempty"`
	Source      string       `json:"source,omitempty"`
	AuthorName  string       `json:"authorName,omitempty"`
	AuthorEmail string       `json:"authorEmail,omitempty"`
	Status      Status       `json:"status"`
	VoteCount   int          `json:"voteCount"`
	Attachments []Attachment `json:"attachments,omitempty"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}
