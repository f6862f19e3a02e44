package command

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/toolgrove/marketplace/internal/datasources"
	"github.com/toolgrove/marketplace/internal/domain"
)

// RecommendCardsRequest is the request for the RecommendCards command.
type RecommendCardsRequest struct {
	UserID   string
	Strategy domain.RecommendationStrategy
	Limit    int
}

// RecommendCardsConfig holds configuration for recommendation generation.
type RecommendCardsConfig struct {
	// CandidatePoolSize caps how many approved cards are fetched and
	// scored per request.
	CandidatePoolSize int

	// SimilarSeedSize is how many recent strong interactions seed the
	// similar strategy.
	SimilarSeedSize int
}

// RecommendCards computes recommendations with one of four strategies.
// All strategies are read-only: preferences are re-derived per call and the
// interaction log is never written.
type RecommendCards struct {
	Candidates         datasources.RecommendationCandidateLister
	Preferences        datasources.PreferencesGetter
	Interacted         datasources.InteractedCardIDsLister
	StrongInteractions datasources.StrongInteractionCardsLister
	Config             RecommendCardsConfig
}

// NewRecommendCards creates a properly initialized RecommendCards command.
func NewRecommendCards(
	candidates datasources.RecommendationCandidateLister,
	preferences datasources.PreferencesGetter,
	interacted datasources.InteractedCardIDsLister,
	strongInteractions datasources.StrongInteractionCardsLister,
	config RecommendCardsConfig,
) *RecommendCards {
	return &RecommendCards{
		Candidates:         candidates,
		Preferences:        preferences,
		Interacted:         interacted,
		StrongInteractions: strongInteractions,
		Config:             config,
	}
}

func (c *RecommendCards) Execute(
	ctx context.Context, req RecommendCardsRequest,
) ([]domain.RecommendedCard, error) {
	switch req.Strategy {
	case domain.StrategyPersonalized:
		return c.personalized(ctx, req.UserID, req.Limit)
	case domain.StrategySimilar:
		return c.similar(ctx, req.UserID, req.Limit)
	case domain.StrategyTrending:
		return c.trending(ctx, req.Limit)
	case domain.StrategyCategoryBased:
		return c.categoryBased(ctx, req.UserID, req.Limit)
	default:
		return nil, domain.ErrUnknownStrategy
	}
}

func (c *RecommendCards) personalized(
	ctx context.Context, userID string, limit int,
) ([]domain.RecommendedCard, error) {
	prefs, err := c.Preferences.GetUserPreferences(ctx, userID)
	if errors.Is(err, domain.ErrPreferencesNotFound) {
		// New users see trending until preferences accumulate.
		return c.trending(ctx, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("fetching preferences: %w", err)
	}

	interactedIDs, err := c.Interacted.ListInteractedCardIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing interacted cards: %w", err)
	}

	candidates, err := c.Candidates.ListCandidateCards(ctx, datasources.CandidateFilters{
		ExcludeCardIDs: interactedIDs,
		Limit:          c.Config.CandidatePoolSize,
	})
	if err != nil {
		return nil, fmt.Errorf("listing candidates: %w", err)
	}

	recs := make([]domain.RecommendedCard, 0, len(candidates))
	for _, card := range candidates {
		recs = append(recs, domain.RecommendedCard{
			Card:   card,
			Score:  domain.PersonalizedScore(card, prefs),
			Reason: domain.PersonalizedReason(card, prefs),
		})
	}

	return topRecommendations(recs, limit), nil
}

func (c *RecommendCards) similar(
	ctx context.Context, userID string, limit int,
) ([]domain.RecommendedCard, error) {
	seedCards, err := c.StrongInteractions.ListRecentStrongInteractionCards(
		ctx, userID, c.Config.SimilarSeedSize,
	)
	if err != nil {
		return nil, fmt.Errorf("listing strong interactions: %w", err)
	}
	if len(seedCards) == 0 {
		return c.trending(ctx, limit)
	}

	seed := domain.MakeSimilarSeed(seedCards)

	candidates, err := c.Candidates.ListCandidateCards(ctx, datasources.CandidateFilters{
		ExcludeCardIDs: seed.CardIDs,
		Limit:          c.Config.CandidatePoolSize,
	})
	if err != nil {
		return nil, fmt.Errorf("listing candidates: %w", err)
	}

	recs := make([]domain.RecommendedCard, 0, len(candidates))
	for _, card := range candidates {
		if !seed.Matches(card) {
			continue
		}
		recs = append(recs, domain.RecommendedCard{
			Card:   card,
			Score:  domain.SimilarityScore(card, seed),
			Reason: "Similar to items you liked",
		})
	}

	return topRecommendations(recs, limit), nil
}

func (c *RecommendCards) trending(ctx context.Context, limit int) ([]domain.RecommendedCard, error) {
	candidates, err := c.Candidates.ListCandidateCards(ctx, datasources.CandidateFilters{
		Limit: c.Config.CandidatePoolSize,
	})
	if err != nil {
		return nil, fmt.Errorf("listing candidates: %w", err)
	}

	now := time.Now()
	recs := make([]domain.RecommendedCard, 0, len(candidates))
	for _, card := range candidates {
		recs = append(recs, domain.RecommendedCard{
			Card:   card,
			Score:  domain.TrendingScore(card, now),
			Reason: "Trending now",
		})
	}

	return topRecommendations(recs, limit), nil
}

func (c *RecommendCards) categoryBased(
	ctx context.Context, userID string, limit int,
) ([]domain.RecommendedCard, error) {
	prefs, err := c.Preferences.GetUserPreferences(ctx, userID)
	if errors.Is(err, domain.ErrPreferencesNotFound) {
		return c.trending(ctx, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("fetching preferences: %w", err)
	}
	if !prefs.HasCategories() {
		return c.trending(ctx, limit)
	}

	candidates, err := c.Candidates.ListCandidateCards(ctx, datasources.CandidateFilters{
		CategoryIDs: prefs.PreferredCategories,
		Limit:       c.Config.CandidatePoolSize,
	})
	if err != nil {
		return nil, fmt.Errorf("listing candidates: %w", err)
	}

	recs := make([]domain.RecommendedCard, 0, len(candidates))
	for _, card := range candidates {
		recs = append(recs, domain.RecommendedCard{
			Card:   card,
			Score:  domain.CategoryScore(card),
			Reason: "Popular in " + card.CategoryName,
		})
	}

	return topRecommendations(recs, limit), nil
}

func topRecommendations(recs []domain.RecommendedCard, limit int) []domain.RecommendedCard {
	domain.SortRecommendations(recs)
	if limit > 0 && len(recs) > limit {
		recs = recs[:limit]
	}
	return recs
}
