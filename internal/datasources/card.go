package datasources

import (
	"context"

	"github.com/toolgrove/marketplace/internal/domain"
)

// CardIDsLister lists card IDs matching filters, ordered and paginated.
type CardIDsLister interface {
	ListCardIDs(ctx context.Context, filters domain.CardFilters, options domain.CardListOptions) ([]int64, error)
}

// CardFetcher fetches full card rows by ID, preserving input order.
type CardFetcher interface {
	FetchCardsByID(ctx context.Context, ids []int64) ([]domain.Card, error)
}

// CardCounter counts cards matching filters.
type CardCounter interface {
	TotalMatchingCards(ctx context.Context, filters domain.CardFilters) (int64, error)
}

// CardCreator inserts a new card in pending moderation state.
type CardCreator interface {
	CreateCard(ctx context.Context, draft domain.NewCardDraft, slug string) (int64, error)
}

// CardLikeToggler toggles a user's like on a card and maintains the
// denormalized likes counter. Returns the resulting liked state and count.
type CardLikeToggler interface {
	ToggleCardLike(ctx context.Context, userID string, cardID int64) (liked bool, likesCount int64, err error)
}

// CardViewCounter bumps the denormalized views counter.
type CardViewCounter interface {
	IncrementCardViews(ctx context.Context, cardID int64) error
}

// CardRepository combines all card persistence operations.
type CardRepository interface {
	CardIDsLister
	CardFetcher
	CardCounter
	CardCreator
	CardLikeToggler
	CardViewCounter
}
