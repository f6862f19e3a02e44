package datasources

import (
	"context"

	"github.com/toolgrove/marketplace/internal/domain"
)

// InteractionRecorder appends one row to the interaction log.
type InteractionRecorder interface {
	RecordInteraction(ctx context.Context, interaction domain.UserInteraction) error
}

// InteractedCardIDsLister lists the distinct card IDs a user has interacted
// with, in any way.
type InteractedCardIDsLister interface {
	ListInteractedCardIDs(ctx context.Context, userID string) ([]int64, error)
}

// StrongInteractionCardsLister lists the cards behind a user's most recent
// strong interactions (like, bookmark, purchase), most recent first.
type StrongInteractionCardsLister interface {
	ListRecentStrongInteractionCards(ctx context.Context, userID string, limit int) ([]domain.Card, error)
}

// PreferencesGetter fetches a user's preference row. Returns
// domain.ErrPreferencesNotFound when none exists.
type PreferencesGetter interface {
	GetUserPreferences(ctx context.Context, userID string) (domain.UserPreferences, error)
}

// PreferencesUpserter creates or replaces a user's preference row.
type PreferencesUpserter interface {
	UpsertUserPreferences(ctx context.Context, prefs domain.UserPreferences) error
}

// CandidateFilters narrows the recommendation candidate pool. Candidates are
// always approved cards, newest first.
type CandidateFilters struct {
	ExcludeCardIDs []int64
	CategoryIDs    []int64
	Limit          int
}

// RecommendationCandidateLister fetches the candidate pool scored by the
// recommendation strategies.
type RecommendationCandidateLister interface {
	ListCandidateCards(ctx context.Context, filters CandidateFilters) ([]domain.Card, error)
}

// InteractionRepository combines interaction and preference persistence.
type InteractionRepository interface {
	InteractionRecorder
	InteractedCardIDsLister
	StrongInteractionCardsLister
	PreferencesGetter
	PreferencesUpserter
	RecommendationCandidateLister
}
