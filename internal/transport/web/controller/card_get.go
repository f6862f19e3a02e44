package controller

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/toolgrove/marketplace/internal/datasources"
	"github.com/toolgrove/marketplace/internal/domain"
)

type CardGet struct {
	Fetcher     datasources.CardFetcher
	ViewCounter datasources.CardViewCounter
	CacheMaxAge time.Duration
}

func (c CardGet) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	cardID, err := cardIDFromPath(r)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	cards, err := c.Fetcher.FetchCardsByID(r.Context(), []int64{cardID})
	if err != nil {
		ctx := r.Context()
		logger := domain.LoggerFromContext(ctx)
		logger.ErrorContext(ctx, "unable to fetch card", "error", err)

		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	if len(cards) == 0 {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	// View counting is best effort; a failed bump never fails the read.
	if err := c.ViewCounter.IncrementCardViews(r.Context(), cardID); err != nil {
		ctx := r.Context()
		logger := domain.LoggerFromContext(ctx)
		logger.WarnContext(ctx, "unable to increment card views", "error", err)
	}

	w.Header().Set("Content-Type", "application/json")
	if domain.UserIDFromContext(r.Context()) == "" {
		w.Header().Set("Cache-Control", fmt.Sprintf("max-age=%d", int(c.CacheMaxAge.Seconds())))
	}

	if err := json.NewEncoder(w).Encode(cards[0]); err != nil {
		ctx := r.Context()
		logger := domain.LoggerFromContext(ctx)
		logger.ErrorContext(ctx, "unable to write card to response", "error", err)
	}
}

func cardIDFromPath(r *http.Request) (int64, error) {
	return strconv.ParseInt(mux.Vars(r)["card_id"], 10, 64)
}
