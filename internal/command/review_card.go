package command

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/toolgrove/marketplace/internal/datasources"
	"github.com/toolgrove/marketplace/internal/domain"
	"github.com/toolgrove/marketplace/internal/events"
)

// ReviewCardRequest is the request for the ReviewCard command.
type ReviewCardRequest struct {
	CardID     int64
	Action     domain.ReviewAction
	ReviewerID string
	Notes      string
}

// ReviewCard applies a human review decision to a card's queue entry,
// mirrors the status onto the card and publishes the transition event.
//
// The queue write is version-guarded: two reviewers racing on the same card
// surface as domain.ErrReviewConflict for the loser. Re-reviewing a settled
// entry is allowed and overwrites the previous decision.
type ReviewCard struct {
	EntryGetter   datasources.QueueEntryByCardGetter
	ReviewApplier datasources.ReviewApplier
	Publisher     events.Publisher
}

// NewReviewCard creates a properly initialized ReviewCard command.
func NewReviewCard(
	entryGetter datasources.QueueEntryByCardGetter,
	reviewApplier datasources.ReviewApplier,
	publisher events.Publisher,
) *ReviewCard {
	return &ReviewCard{
		EntryGetter:   entryGetter,
		ReviewApplier: reviewApplier,
		Publisher:     publisher,
	}
}

func (c *ReviewCard) Execute(ctx context.Context, req ReviewCardRequest) (Empty, error) {
	status, err := req.Action.Status()
	if err != nil {
		return Empty{}, err
	}

	entry, err := c.EntryGetter.GetQueueEntryByCard(ctx, req.CardID)
	if err != nil {
		return Empty{}, fmt.Errorf("fetching queue entry: %w", err)
	}

	if err := c.ReviewApplier.ApplyReview(
		ctx, entry.ID, status, req.ReviewerID, req.Notes, entry.Version,
	); err != nil {
		return Empty{}, fmt.Errorf("applying review: %w", err)
	}

	c.Publisher.PublishModeration(ctx, domain.ModerationEvent{
		EventID:       uuid.NewString(),
		CardID:        req.CardID,
		CardTitle:     entry.CardTitle,
		SubmittedBy:   entry.SubmittedBy,
		EventType:     moderationEventForStatus(status),
		ReviewerNotes: req.Notes,
		Timestamp:     time.Now(),
	})

	return Empty{}, nil
}

func moderationEventForStatus(status domain.ModerationStatus) domain.ModerationEventType {
	switch status {
	case domain.ModerationStatusApproved:
		return domain.ModerationEventApproved
	case domain.ModerationStatusRejected:
		return domain.ModerationEventRejected
	default:
		return domain.ModerationEventNeedsReview
	}
}
