package controller

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/toolgrove/marketplace/internal/command"
	"github.com/toolgrove/marketplace/internal/domain"
)

const (
	defaultRecommendationLimit = 20
	maxRecommendationLimit     = 100
)

type RecommendationsList struct {
	RecommendCmd command.Command[command.RecommendCardsRequest, []domain.RecommendedCard]
}

type RecommendationsListResponse struct {
	Data     []domain.RecommendedCard    `json:"data"`
	Metadata RecommendationsListMetadata `json:"metadata"`
}

type RecommendationsListMetadata struct {
	Strategy domain.RecommendationStrategy `json:"strategy"`
}

func (c RecommendationsList) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	logger := domain.LoggerFromContext(r.Context())

	strategy := domain.StrategyPersonalized
	if param := strategyFromQuery(r); param != "" {
		parsed, err := domain.ParseStrategy(param)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		strategy = parsed
	}

	limit, err := recommendationLimitFromQuery(r)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	recs, err := c.RecommendCmd.Execute(r.Context(), command.RecommendCardsRequest{
		UserID:   domain.UserIDFromContext(r.Context()),
		Strategy: strategy,
		Limit:    limit,
	})
	if errors.Is(err, domain.ErrUnknownStrategy) {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	if err != nil {
		logger.ErrorContext(r.Context(), "failed to generate recommendations", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	if recs == nil {
		recs = []domain.RecommendedCard{}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(RecommendationsListResponse{
		Data:     recs,
		Metadata: RecommendationsListMetadata{Strategy: strategy},
	}); err != nil {
		logger.ErrorContext(r.Context(), "unable to write recommendations to response", "error", err)
	}
}

// strategyFromQuery reads the strategy selector. The public parameter is
// "type"; "strategy" is accepted as an alias.
func strategyFromQuery(r *http.Request) string {
	if param := r.URL.Query().Get("type"); param != "" {
		return param
	}
	return r.URL.Query().Get("strategy")
}

func recommendationLimitFromQuery(r *http.Request) (int, error) {
	if !r.URL.Query().Has("limit") {
		return defaultRecommendationLimit, nil
	}

	limit, err := strconv.ParseInt(r.URL.Query().Get("limit"), 10, 32)
	if err != nil {
		return 0, fmt.Errorf("unable to parse limit from query: %w", err)
	}
	if limit < 1 || limit > maxRecommendationLimit {
		return 0, fmt.Errorf("invalid limit value [%d]", limit)
	}
	return int(limit), nil
}
