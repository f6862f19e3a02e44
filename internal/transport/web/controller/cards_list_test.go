package controller

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/toolgrove/marketplace/internal/datasources/mocks"
	"github.com/toolgrove/marketplace/internal/domain"
)

func testContext() func(r *http.Request) *http.Request {
	return func(r *http.Request) *http.Request {
		ctx := domain.ContextWithLogger(r.Context(), slog.New(slog.DiscardHandler))
		return r.WithContext(ctx)
	}
}

func testContextWithUserID(userID string) func(r *http.Request) *http.Request {
	return func(r *http.Request) *http.Request {
		ctx := domain.ContextWithLogger(r.Context(), slog.New(slog.DiscardHandler))
		ctx = domain.ContextWithUserID(ctx, userID)
		return r.WithContext(ctx)
	}
}

type mockCardsListLister struct {
	*mocks.MockCardIDsLister
	*mocks.MockCardFetcher
	*mocks.MockCardCounter
}

func TestCardsList_ServeHTTP(t *testing.T) {
	testTime := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name        string
		queryString string
		cardIDs     []int64
		listIDsErr  error
		cards       []domain.Card
		total       int64
		wantStatus  int
		wantCards   []domain.Card
		wantFilters *domain.CardFilters
		skipList    bool
		skipFetch   bool
	}{
		{
			name:        "successful_list",
			queryString: "",
			cardIDs:     []int64{1, 2},
			cards: []domain.Card{
				{ID: 1, Title: "Card 1", CreatedAt: testTime},
				{ID: 2, Title: "Card 2", CreatedAt: testTime},
			},
			total:      2,
			wantStatus: http.StatusOK,
			wantCards: []domain.Card{
				{ID: 1, Title: "Card 1", CreatedAt: testTime},
				{ID: 2, Title: "Card 2", CreatedAt: testTime},
			},
		},
		{
			name:        "empty_list",
			queryString: "",
			cardIDs:     []int64{},
			cards:       []domain.Card{},
			total:       0,
			wantStatus:  http.StatusOK,
			wantCards:   []domain.Card{},
		},
		{
			name:        "with_filters",
			queryString: "search=prompt&categories=2,3&tags=agents&price_min=5&price_max=50",
			cardIDs:     []int64{1},
			cards:       []domain.Card{{ID: 1, Title: "Card 1", CreatedAt: testTime}},
			total:       1,
			wantStatus:  http.StatusOK,
			wantCards:   []domain.Card{{ID: 1, Title: "Card 1", CreatedAt: testTime}},
			wantFilters: &domain.CardFilters{
				TitleFulltext: "prompt",
				CategoryIDs:   []int64{2, 3},
				Tags:          []string{"agents"},
				PriceMin:      float64Ptr(5),
				PriceMax:      float64Ptr(50),
				OnlyApproved:  true,
			},
		},
		{
			name:        "invalid_category",
			queryString: "categories=abc",
			wantStatus:  http.StatusBadRequest,
			skipList:    true,
			skipFetch:   true,
		},
		{
			name:        "invalid_sort_field",
			queryString: "sort=popularity_desc",
			wantStatus:  http.StatusBadRequest,
			skipList:    true,
			skipFetch:   true,
		},
		{
			name:        "invalid_page_size",
			queryString: "page_size=9000",
			wantStatus:  http.StatusBadRequest,
			skipList:    true,
			skipFetch:   true,
		},
		{
			name:        "list_ids_error",
			queryString: "",
			listIDsErr:  errors.New("database error"),
			wantStatus:  http.StatusInternalServerError,
			skipFetch:   true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			lister := &mocks.MockCardIDsLister{}
			fetcher := &mocks.MockCardFetcher{}
			counter := &mocks.MockCardCounter{}

			if !tc.skipList {
				lister.On("ListCardIDs", mock.Anything, mock.MatchedBy(func(f domain.CardFilters) bool {
					if tc.wantFilters != nil {
						return assert.ObjectsAreEqual(*tc.wantFilters, f)
					}
					return f.OnlyApproved
				}), mock.Anything).
					Return(tc.cardIDs, tc.listIDsErr)
			}
			if !tc.skipFetch && tc.listIDsErr == nil {
				fetcher.On("FetchCardsByID", mock.Anything, tc.cardIDs).
					Return(tc.cards, nil)
				counter.On("TotalMatchingCards", mock.Anything, mock.Anything).
					Return(tc.total, nil)
			}

			controller := CardsList{
				Lister: &mockCardsListLister{
					MockCardIDsLister: lister,
					MockCardFetcher:   fetcher,
					MockCardCounter:   counter,
				},
				CacheMaxAge: time.Hour,
			}

			req := httptest.NewRequest(http.MethodGet, "/v1/cards?"+tc.queryString, nil)
			req = testContext()(req)
			rec := httptest.NewRecorder()

			controller.ServeHTTP(rec, req)

			assert.Equal(t, tc.wantStatus, rec.Code)

			if tc.wantStatus == http.StatusOK {
				assert.Equal(t, "max-age=3600", rec.Header().Get("Cache-Control"))

				var response CardsListResponse
				err := json.NewDecoder(rec.Body).Decode(&response)
				require.NoError(t, err)
				assert.Equal(t, tc.wantCards, response.Data)
				assert.Equal(t, tc.total, response.Metadata.TotalCount)
			}
		})
	}
}

func float64Ptr(f float64) *float64 { return &f }
