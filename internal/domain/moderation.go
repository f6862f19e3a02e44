package domain

import (
	"errors"
	"time"
)

var ErrQueueEntryNotFound = errors.New("moderation queue entry not found")

// ErrReviewConflict is returned when a review transition lost a race against
// another reviewer of the same card.
var ErrReviewConflict = errors.New("moderation queue entry was modified concurrently")

// ModerationStatus is the moderation state of a card and of its queue entry.
type ModerationStatus string

const (
	ModerationStatusPending     ModerationStatus = "pending"
	ModerationStatusApproved    ModerationStatus = "approved"
	ModerationStatusRejected    ModerationStatus = "rejected"
	ModerationStatusNeedsReview ModerationStatus = "needs_review"
)

// Terminal reports whether a queue entry in this status is closed.
// needs_review stays open and may be re-reviewed.
func (s ModerationStatus) Terminal() bool {
	return s == ModerationStatusApproved || s == ModerationStatusRejected
}

// ReviewAction is a human reviewer's decision on a queued card.
type ReviewAction string

const (
	ReviewActionApprove     ReviewAction = "approve"
	ReviewActionReject      ReviewAction = "reject"
	ReviewActionNeedsReview ReviewAction = "needs_review"
)

// Status maps a review action to the status it leaves behind.
func (a ReviewAction) Status() (ModerationStatus, error) {
	switch a {
	case ReviewActionApprove:
		return ModerationStatusApproved, nil
	case ReviewActionReject:
		return ModerationStatusRejected, nil
	case ReviewActionNeedsReview:
		return ModerationStatusNeedsReview, nil
	default:
		return "", errors.New("unknown review action: " + string(a))
	}
}

type ModerationQueueEntry struct {
	ID          int64            `json:"id"`
	CardID      int64            `json:"card_id"`
	SubmittedBy string           `json:"submitted_by"`
	Status      ModerationStatus `json:"status"`
	Score       float64          `json:"auto_moderation_score"`
	Flags       []string         `json:"flags"`
	ReviewerID  *string          `json:"reviewer_id,omitempty"`
	ReviewNotes *string          `json:"review_notes,omitempty"`
	// Version increments on every review transition and guards against
	// two reviewers racing on the same entry.
	Version    int64      `json:"-"`
	CreatedAt  time.Time  `json:"created_at"`
	ReviewedAt *time.Time `json:"reviewed_at,omitempty"`

	CardTitle       string   `json:"card_title"`
	CardDescription string   `json:"card_description"`
	CardTags        []string `json:"card_tags"`
}

type ModerationQueueFilters struct {
	Status *ModerationStatus
}

type ModerationStats struct {
	Pending     int64   `json:"pending"`
	Approved    int64   `json:"approved"`
	Rejected    int64   `json:"rejected"`
	NeedsReview int64   `json:"needs_review"`
	AvgHours    float64 `json:"avg_processing_hours"`
}
