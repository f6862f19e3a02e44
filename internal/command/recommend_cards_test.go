package command

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/toolgrove/marketplace/internal/datasources"
	"github.com/toolgrove/marketplace/internal/datasources/mocks"
	"github.com/toolgrove/marketplace/internal/domain"
)

func testRecommendCardsConfig() RecommendCardsConfig {
	return RecommendCardsConfig{
		CandidatePoolSize: 100,
		SimilarSeedSize:   5,
	}
}

type recommendMocks struct {
	candidates *mocks.MockRecommendationCandidateLister
	prefs      *mocks.MockPreferencesGetter
	interacted *mocks.MockInteractedCardIDsLister
	strong     *mocks.MockStrongInteractionCardsLister
}

func newRecommendCards() (*RecommendCards, recommendMocks) {
	m := recommendMocks{
		candidates: &mocks.MockRecommendationCandidateLister{},
		prefs:      &mocks.MockPreferencesGetter{},
		interacted: &mocks.MockInteractedCardIDsLister{},
		strong:     &mocks.MockStrongInteractionCardsLister{},
	}
	cmd := NewRecommendCards(m.candidates, m.prefs, m.interacted, m.strong, testRecommendCardsConfig())
	return cmd, m
}

func TestRecommendCards_Personalized(t *testing.T) {
	cmd, m := newRecommendCards()

	min, max := 0.0, 20.0
	prefs := domain.UserPreferences{
		UserID:              "user1",
		PreferredCategories: []int64{2},
		PreferredTags:       []string{"prompts"},
		PriceRangeMin:       &min,
		PriceRangeMax:       &max,
	}

	// Full preference match beats a more popular card outside the
	// preference profile.
	matching := domain.Card{ID: 1, CategoryID: 2, Tags: []string{"prompts"}, Price: 10, LikesCount: 10}
	popular := domain.Card{ID: 2, CategoryID: 9, Tags: []string{"other"}, Price: 500, LikesCount: 50}

	m.prefs.On("GetUserPreferences", mock.Anything, "user1").
		Return(prefs, nil)
	m.interacted.On("ListInteractedCardIDs", mock.Anything, "user1").
		Return([]int64{3, 4}, nil)
	m.candidates.On("ListCandidateCards", mock.Anything, datasources.CandidateFilters{
		ExcludeCardIDs: []int64{3, 4},
		Limit:          100,
	}).
		Return([]domain.Card{popular, matching}, nil)

	recs, err := cmd.Execute(context.Background(), RecommendCardsRequest{
		UserID:   "user1",
		Strategy: domain.StrategyPersonalized,
		Limit:    10,
	})
	require.NoError(t, err)
	require.Len(t, recs, 2)

	// matching: 3 + 2 + 1 + 0.1*10 = 7; popular: 0.1*50 = 5
	assert.Equal(t, int64(1), recs[0].Card.ID)
	assert.InDelta(t, 7.0, recs[0].Score, 0.001)
	assert.Equal(t, "matches your interests, similar tags", recs[0].Reason)
	assert.Equal(t, int64(2), recs[1].Card.ID)
	assert.InDelta(t, 5.0, recs[1].Score, 0.001)
	assert.Equal(t, "recommended for you", recs[1].Reason)
}

func TestRecommendCards_Personalized_FallsBackToTrending(t *testing.T) {
	cmd, m := newRecommendCards()

	m.prefs.On("GetUserPreferences", mock.Anything, "newuser").
		Return(domain.UserPreferences{}, domain.ErrPreferencesNotFound)
	m.candidates.On("ListCandidateCards", mock.Anything, datasources.CandidateFilters{Limit: 100}).
		Return([]domain.Card{{ID: 1, LikesCount: 10}}, nil)

	recs, err := cmd.Execute(context.Background(), RecommendCardsRequest{
		UserID:   "newuser",
		Strategy: domain.StrategyPersonalized,
		Limit:    10,
	})
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "Trending now", recs[0].Reason)
	m.interacted.AssertNotCalled(t, "ListInteractedCardIDs", mock.Anything, mock.Anything)
}

func TestRecommendCards_Similar(t *testing.T) {
	cmd, m := newRecommendCards()

	seedCards := []domain.Card{
		{ID: 10, CategoryID: 2, Tags: []string{"prompts"}},
		{ID: 11, CategoryID: 3, Tags: []string{"agents"}},
	}
	m.strong.On("ListRecentStrongInteractionCards", mock.Anything, "user1", 5).
		Return(seedCards, nil)

	sameCategory := domain.Card{ID: 20, CategoryID: 2, Tags: []string{"misc"}, LikesCount: 10}
	sameTag := domain.Card{ID: 21, CategoryID: 9, Tags: []string{"agents"}, LikesCount: 0}
	unrelated := domain.Card{ID: 22, CategoryID: 9, Tags: []string{"misc"}, LikesCount: 100}

	m.candidates.On("ListCandidateCards", mock.Anything, datasources.CandidateFilters{
		ExcludeCardIDs: []int64{10, 11},
		Limit:          100,
	}).
		Return([]domain.Card{sameCategory, sameTag, unrelated}, nil)

	recs, err := cmd.Execute(context.Background(), RecommendCardsRequest{
		UserID:   "user1",
		Strategy: domain.StrategySimilar,
		Limit:    10,
	})
	require.NoError(t, err)
	require.Len(t, recs, 2, "candidates sharing nothing with the seed are dropped")

	// sameCategory: 5 + 0.1*10 = 6; sameTag: 3
	assert.Equal(t, int64(20), recs[0].Card.ID)
	assert.InDelta(t, 6.0, recs[0].Score, 0.001)
	assert.Equal(t, int64(21), recs[1].Card.ID)
	assert.InDelta(t, 3.0, recs[1].Score, 0.001)
	assert.Equal(t, "Similar to items you liked", recs[0].Reason)
}

func TestRecommendCards_Similar_NoHistoryFallsBackToTrending(t *testing.T) {
	cmd, m := newRecommendCards()

	m.strong.On("ListRecentStrongInteractionCards", mock.Anything, "user1", 5).
		Return([]domain.Card{}, nil)
	m.candidates.On("ListCandidateCards", mock.Anything, datasources.CandidateFilters{Limit: 100}).
		Return([]domain.Card{{ID: 1}}, nil)

	recs, err := cmd.Execute(context.Background(), RecommendCardsRequest{
		UserID:   "user1",
		Strategy: domain.StrategySimilar,
		Limit:    10,
	})
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "Trending now", recs[0].Reason)
}

func TestRecommendCards_Trending(t *testing.T) {
	cmd, m := newRecommendCards()

	now := time.Now()
	fresh := domain.Card{ID: 1, LikesCount: 10, ViewsCount: 100, CreatedAt: now.Add(-24 * time.Hour)}
	old := domain.Card{ID: 2, LikesCount: 10, ViewsCount: 100, CreatedAt: now.Add(-90 * 24 * time.Hour)}

	m.candidates.On("ListCandidateCards", mock.Anything, datasources.CandidateFilters{Limit: 100}).
		Return([]domain.Card{old, fresh}, nil)

	recs, err := cmd.Execute(context.Background(), RecommendCardsRequest{
		Strategy: domain.StrategyTrending,
		Limit:    10,
	})
	require.NoError(t, err)
	require.Len(t, recs, 2)

	// Same popularity, the week-old recency bonus breaks the tie.
	assert.Equal(t, int64(1), recs[0].Card.ID)
	assert.InDelta(t, 15.0, recs[0].Score, 0.001)
	assert.InDelta(t, 13.0, recs[1].Score, 0.001)
}

func TestRecommendCards_Trending_LimitApplied(t *testing.T) {
	cmd, m := newRecommendCards()

	m.candidates.On("ListCandidateCards", mock.Anything, datasources.CandidateFilters{Limit: 100}).
		Return([]domain.Card{{ID: 1}, {ID: 2}, {ID: 3}}, nil)

	recs, err := cmd.Execute(context.Background(), RecommendCardsRequest{
		Strategy: domain.StrategyTrending,
		Limit:    2,
	})
	require.NoError(t, err)
	assert.Len(t, recs, 2)
}

func TestRecommendCards_CategoryBased(t *testing.T) {
	cmd, m := newRecommendCards()

	prefs := domain.UserPreferences{
		UserID:              "user1",
		PreferredCategories: []int64{2, 3},
	}
	m.prefs.On("GetUserPreferences", mock.Anything, "user1").
		Return(prefs, nil)
	m.candidates.On("ListCandidateCards", mock.Anything, datasources.CandidateFilters{
		CategoryIDs: []int64{2, 3},
		Limit:       100,
	}).
		Return([]domain.Card{
			{ID: 1, CategoryID: 2, CategoryName: "Prompts", LikesCount: 5, ViewsCount: 10},
		}, nil)

	recs, err := cmd.Execute(context.Background(), RecommendCardsRequest{
		UserID:   "user1",
		Strategy: domain.StrategyCategoryBased,
		Limit:    10,
	})
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.InDelta(t, 6.0, recs[0].Score, 0.001)
	assert.Equal(t, "Popular in Prompts", recs[0].Reason)
}

func TestRecommendCards_CategoryBased_NoCategoriesFallsBackToTrending(t *testing.T) {
	cmd, m := newRecommendCards()

	m.prefs.On("GetUserPreferences", mock.Anything, "user1").
		Return(domain.UserPreferences{UserID: "user1"}, nil)
	m.candidates.On("ListCandidateCards", mock.Anything, datasources.CandidateFilters{Limit: 100}).
		Return([]domain.Card{{ID: 1}}, nil)

	recs, err := cmd.Execute(context.Background(), RecommendCardsRequest{
		UserID:   "user1",
		Strategy: domain.StrategyCategoryBased,
		Limit:    10,
	})
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "Trending now", recs[0].Reason)
}

func TestRecommendCards_UnknownStrategy(t *testing.T) {
	cmd, _ := newRecommendCards()

	_, err := cmd.Execute(context.Background(), RecommendCardsRequest{Strategy: "psychic"})
	assert.ErrorIs(t, err, domain.ErrUnknownStrategy)
}
