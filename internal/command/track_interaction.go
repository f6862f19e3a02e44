package command

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/toolgrove/marketplace/internal/datasources"
	"github.com/toolgrove/marketplace/internal/domain"
	"github.com/toolgrove/marketplace/internal/events"
)

// TrackInteractionRequest is the request for the TrackInteraction command.
type TrackInteractionRequest struct {
	UserID          string
	CardID          int64
	Type            domain.InteractionType
	DurationSeconds *int64
}

// notifiableInteractions are the interactions that generate a notification
// for the card owner. Views and shares are logged but stay silent.
var notifiableInteractions = []domain.InteractionType{
	domain.InteractionLike,
	domain.InteractionBookmark,
	domain.InteractionPurchase,
	domain.InteractionDownload,
}

// TrackInteraction appends to the interaction log, folds the card into the
// user's preference row and publishes the interaction event.
type TrackInteraction struct {
	CardFetcher datasources.CardFetcher
	Recorder    datasources.InteractionRecorder
	PrefsGetter datasources.PreferencesGetter
	PrefsWriter datasources.PreferencesUpserter
	Publisher   events.Publisher
}

// NewTrackInteraction creates a properly initialized TrackInteraction command.
func NewTrackInteraction(
	cardFetcher datasources.CardFetcher,
	recorder datasources.InteractionRecorder,
	prefsGetter datasources.PreferencesGetter,
	prefsWriter datasources.PreferencesUpserter,
	publisher events.Publisher,
) *TrackInteraction {
	return &TrackInteraction{
		CardFetcher: cardFetcher,
		Recorder:    recorder,
		PrefsGetter: prefsGetter,
		PrefsWriter: prefsWriter,
		Publisher:   publisher,
	}
}

func (c *TrackInteraction) Execute(ctx context.Context, req TrackInteractionRequest) (Empty, error) {
	cards, err := c.CardFetcher.FetchCardsByID(ctx, []int64{req.CardID})
	if err != nil {
		return Empty{}, fmt.Errorf("fetching card: %w", err)
	}
	if len(cards) == 0 {
		return Empty{}, domain.ErrCardNotFound
	}
	card := cards[0]

	err = c.Recorder.RecordInteraction(ctx, domain.UserInteraction{
		UserID:          req.UserID,
		CardID:          req.CardID,
		Type:            req.Type,
		DurationSeconds: req.DurationSeconds,
		CreatedAt:       time.Now(),
	})
	if err != nil {
		return Empty{}, fmt.Errorf("recording interaction: %w", err)
	}

	if err := c.updatePreferences(ctx, req.UserID, card); err != nil {
		return Empty{}, err
	}

	if slices.Contains(notifiableInteractions, req.Type) && card.OwnerID != req.UserID {
		c.Publisher.PublishCardInteraction(ctx, domain.CardInteractionEvent{
			EventID:   uuid.NewString(),
			CardID:    card.ID,
			CardTitle: card.Title,
			OwnerID:   card.OwnerID,
			ActorID:   req.UserID,
			Type:      req.Type,
			Timestamp: time.Now(),
		})
	}

	return Empty{}, nil
}

func (c *TrackInteraction) updatePreferences(ctx context.Context, userID string, card domain.Card) error {
	prefs, err := c.PrefsGetter.GetUserPreferences(ctx, userID)
	switch {
	case errors.Is(err, domain.ErrPreferencesNotFound):
		prefs = domain.PreferencesFromCard(userID, card)
	case err != nil:
		return fmt.Errorf("fetching preferences: %w", err)
	default:
		prefs = prefs.ApplyInteraction(card)
	}

	if err := c.PrefsWriter.UpsertUserPreferences(ctx, prefs); err != nil {
		return fmt.Errorf("upserting preferences: %w", err)
	}
	return nil
}
