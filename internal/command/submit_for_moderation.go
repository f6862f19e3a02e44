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

// SubmitForModerationRequest is the request for the SubmitForModeration command.
type SubmitForModerationRequest struct {
	CardID      int64
	SubmittedBy string
}

// SubmitForModerationResponse is the response from the SubmitForModeration command.
type SubmitForModerationResponse struct {
	Result domain.ModerationResult
	// QueueEntryID is zero when the card auto-passed and no queue entry
	// was needed.
	QueueEntryID int64
}

// SubmitForModeration runs the auto-moderation scorer against a card,
// persists the outcome and publishes the submission event.
type SubmitForModeration struct {
	CardFetcher   datasources.CardFetcher
	ResultApplier datasources.ModerationResultApplier
	Publisher     events.Publisher
}

// NewSubmitForModeration creates a properly initialized SubmitForModeration command.
func NewSubmitForModeration(
	cardFetcher datasources.CardFetcher,
	resultApplier datasources.ModerationResultApplier,
	publisher events.Publisher,
) *SubmitForModeration {
	return &SubmitForModeration{
		CardFetcher:   cardFetcher,
		ResultApplier: resultApplier,
		Publisher:     publisher,
	}
}

func (c *SubmitForModeration) Execute(
	ctx context.Context, req SubmitForModerationRequest,
) (SubmitForModerationResponse, error) {
	cards, err := c.CardFetcher.FetchCardsByID(ctx, []int64{req.CardID})
	if err != nil {
		return SubmitForModerationResponse{}, fmt.Errorf("fetching card: %w", err)
	}
	if len(cards) == 0 {
		return SubmitForModerationResponse{}, domain.ErrCardNotFound
	}
	card := cards[0]

	result := domain.ModerateContent(domain.ModerationInput{
		Title:       card.Title,
		Description: card.Description,
		Tags:        card.Tags,
	})

	queueEntryID, err := c.ResultApplier.ApplyAutoModeration(ctx, card.ID, req.SubmittedBy, result)
	if err != nil {
		return SubmitForModerationResponse{}, fmt.Errorf("applying auto-moderation result: %w", err)
	}

	c.Publisher.PublishModeration(ctx, domain.ModerationEvent{
		EventID:     uuid.NewString(),
		CardID:      card.ID,
		CardTitle:   card.Title,
		SubmittedBy: req.SubmittedBy,
		EventType:   domain.ModerationEventSubmitted,
		Timestamp:   time.Now(),
	})

	return SubmitForModerationResponse{
		Result:       result,
		QueueEntryID: queueEntryID,
	}, nil
}
