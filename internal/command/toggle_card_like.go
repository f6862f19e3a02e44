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

// ToggleCardLikeRequest is the request for the ToggleCardLike command.
type ToggleCardLikeRequest struct {
	UserID string
	CardID int64
}

// ToggleCardLikeResponse is the response from the ToggleCardLike command.
type ToggleCardLikeResponse struct {
	Liked      bool
	LikesCount int64
}

// ToggleCardLike flips a user's like on a card and, on a new like, publishes
// the interaction event so the card owner gets notified. Unliking stays
// silent.
type ToggleCardLike struct {
	CardFetcher datasources.CardFetcher
	Toggler     datasources.CardLikeToggler
	Publisher   events.Publisher
}

// NewToggleCardLike creates a properly initialized ToggleCardLike command.
func NewToggleCardLike(
	cardFetcher datasources.CardFetcher,
	toggler datasources.CardLikeToggler,
	publisher events.Publisher,
) *ToggleCardLike {
	return &ToggleCardLike{
		CardFetcher: cardFetcher,
		Toggler:     toggler,
		Publisher:   publisher,
	}
}

func (c *ToggleCardLike) Execute(
	ctx context.Context, req ToggleCardLikeRequest,
) (ToggleCardLikeResponse, error) {
	cards, err := c.CardFetcher.FetchCardsByID(ctx, []int64{req.CardID})
	if err != nil {
		return ToggleCardLikeResponse{}, fmt.Errorf("fetching card: %w", err)
	}
	if len(cards) == 0 {
		return ToggleCardLikeResponse{}, domain.ErrCardNotFound
	}
	card := cards[0]

	liked, count, err := c.Toggler.ToggleCardLike(ctx, req.UserID, req.CardID)
	if err != nil {
		return ToggleCardLikeResponse{}, fmt.Errorf("toggling like: %w", err)
	}

	if liked && card.OwnerID != req.UserID {
		c.Publisher.PublishCardInteraction(ctx, domain.CardInteractionEvent{
			EventID:   uuid.NewString(),
			CardID:    card.ID,
			CardTitle: card.Title,
			OwnerID:   card.OwnerID,
			ActorID:   req.UserID,
			Type:      domain.InteractionLike,
			Timestamp: time.Now(),
		})
	}

	return ToggleCardLikeResponse{
		Liked:      liked,
		LikesCount: count,
	}, nil
}
