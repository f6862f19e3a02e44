package app

import (
	"github.com/toolgrove/marketplace/internal/command"
)

const roleCacheMaxEntries = 10000

// DefaultRecommendCardsConfig returns the default config for serving
// recommendations.
func DefaultRecommendCardsConfig() command.RecommendCardsConfig {
	return command.RecommendCardsConfig{
		CandidatePoolSize: 200,
		SimilarSeedSize:   5,
	}
}
