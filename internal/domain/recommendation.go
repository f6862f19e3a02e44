package domain

import (
	"errors"
	"slices"
	"sort"
	"strings"
	"time"
)

// RecommendationStrategy selects one of the four scoring functions.
type RecommendationStrategy string

const (
	StrategyPersonalized  RecommendationStrategy = "personalized"
	StrategySimilar       RecommendationStrategy = "similar"
	StrategyTrending      RecommendationStrategy = "trending"
	StrategyCategoryBased RecommendationStrategy = "category_based"
)

var ErrUnknownStrategy = errors.New("unknown recommendation strategy")

func ParseStrategy(s string) (RecommendationStrategy, error) {
	switch RecommendationStrategy(s) {
	case StrategyPersonalized, StrategySimilar, StrategyTrending, StrategyCategoryBased:
		return RecommendationStrategy(s), nil
	default:
		return "", ErrUnknownStrategy
	}
}

// RecommendedCard is a candidate card with its strategy score attached.
type RecommendedCard struct {
	Card   Card    `json:"card"`
	Score  float64 `json:"recommendation_score"`
	Reason string  `json:"recommendation_reason"`
}

// Personalized strategy weights.
const (
	personalizedCategoryWeight = 3.0
	personalizedTagWeight      = 2.0
	personalizedPriceWeight    = 1.0
	personalizedLikesWeight    = 0.1
	personalizedViewsWeight    = 0.01
)

// PersonalizedScore scores a candidate against stored preferences.
func PersonalizedScore(card Card, prefs UserPreferences) float64 {
	score := personalizedLikesWeight*float64(card.LikesCount) +
		personalizedViewsWeight*float64(card.ViewsCount)

	if slices.Contains(prefs.PreferredCategories, card.CategoryID) {
		score += personalizedCategoryWeight
	}
	if tagsOverlap(card.Tags, prefs.PreferredTags) {
		score += personalizedTagWeight
	}
	if prefs.PriceInRange(card.Price) {
		score += personalizedPriceWeight
	}

	return score
}

// PersonalizedReason explains which preference signals matched.
func PersonalizedReason(card Card, prefs UserPreferences) string {
	var reasons []string
	if slices.Contains(prefs.PreferredCategories, card.CategoryID) {
		reasons = append(reasons, "matches your interests")
	}
	if tagsOverlap(card.Tags, prefs.PreferredTags) {
		reasons = append(reasons, "similar tags")
	}
	if card.LikesCount > 100 {
		reasons = append(reasons, "highly rated")
	}
	if len(reasons) == 0 {
		return "recommended for you"
	}
	return strings.Join(reasons, ", ")
}

// SimilarSeed is the category/tag profile extracted from a user's most
// recent strong interactions.
type SimilarSeed struct {
	Categories []int64
	Tags       []string
	CardIDs    []int64
}

// MakeSimilarSeed deduplicates categories and tags across the seed cards.
func MakeSimilarSeed(cards []Card) SimilarSeed {
	var seed SimilarSeed
	for _, card := range cards {
		if !slices.Contains(seed.Categories, card.CategoryID) {
			seed.Categories = append(seed.Categories, card.CategoryID)
		}
		for _, tag := range card.Tags {
			if !slices.Contains(seed.Tags, tag) {
				seed.Tags = append(seed.Tags, tag)
			}
		}
		seed.CardIDs = append(seed.CardIDs, card.ID)
	}
	return seed
}

// Matches reports whether a candidate shares a category or tag with the
// seed profile. Candidates with no overlap are excluded from the similar
// strategy entirely rather than scored on popularity alone.
func (s SimilarSeed) Matches(card Card) bool {
	return slices.Contains(s.Categories, card.CategoryID) || tagsOverlap(card.Tags, s.Tags)
}

// Similar strategy weights.
const (
	similarCategoryWeight = 5.0
	similarTagWeight      = 3.0
	similarLikesWeight    = 0.1
)

// SimilarityScore scores a candidate against a seed profile.
func SimilarityScore(card Card, seed SimilarSeed) float64 {
	score := similarLikesWeight * float64(card.LikesCount)
	if slices.Contains(seed.Categories, card.CategoryID) {
		score += similarCategoryWeight
	}
	if tagsOverlap(card.Tags, seed.Tags) {
		score += similarTagWeight
	}
	return score
}

// Trending strategy weights. Trending depends only on the card row, never
// on user identity.
const (
	trendingLikesWeight = 0.3
	trendingViewsWeight = 0.1

	recencyBonusWeek  = 2.0
	recencyBonusMonth = 1.0
)

// TrendingScore scores a card by popularity and recency.
func TrendingScore(card Card, now time.Time) float64 {
	return trendingLikesWeight*float64(card.LikesCount) +
		trendingViewsWeight*float64(card.ViewsCount) +
		RecencyBonus(card.CreatedAt, now)
}

// RecencyBonus rewards newly created cards.
func RecencyBonus(createdAt, now time.Time) float64 {
	age := now.Sub(createdAt)
	switch {
	case age < 7*24*time.Hour:
		return recencyBonusWeek
	case age < 30*24*time.Hour:
		return recencyBonusMonth
	default:
		return 0
	}
}

const categoryViewsWeight = 0.1

// CategoryScore orders preferred-category candidates by popularity.
func CategoryScore(card Card) float64 {
	return float64(card.LikesCount) + categoryViewsWeight*float64(card.ViewsCount)
}

// SortRecommendations orders by score descending, breaking ties by card
// creation time, newest first.
func SortRecommendations(recs []RecommendedCard) {
	sort.SliceStable(recs, func(i, j int) bool {
		if recs[i].Score != recs[j].Score {
			return recs[i].Score > recs[j].Score
		}
		return recs[i].Card.CreatedAt.After(recs[j].Card.CreatedAt)
	})
}

func tagsOverlap(a, b []string) bool {
	for _, tag := range a {
		if slices.Contains(b, tag) {
			return true
		}
	}
	return false
}
