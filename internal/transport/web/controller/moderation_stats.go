package controller

import (
	"encoding/json"
	"net/http"

	"github.com/toolgrove/marketplace/internal/datasources"
	"github.com/toolgrove/marketplace/internal/domain"
)

type ModerationStats struct {
	Getter datasources.ModerationStatsGetter
}

func (c ModerationStats) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	logger := domain.LoggerFromContext(r.Context())

	stats, err := c.Getter.GetModerationStats(r.Context())
	if err != nil {
		logger.ErrorContext(r.Context(), "unable to fetch moderation stats", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(stats); err != nil {
		logger.ErrorContext(r.Context(), "unable to write moderation stats to response", "error", err)
	}
}
