package controller

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/toolgrove/marketplace/internal/command"
	"github.com/toolgrove/marketplace/internal/domain"
)

type CardLike struct {
	ToggleCmd command.Command[command.ToggleCardLikeRequest, command.ToggleCardLikeResponse]
}

type CardLikeResponse struct {
	Liked      bool  `json:"liked"`
	LikesCount int64 `json:"likes_count"`
}

func (c CardLike) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	cardID, err := cardIDFromPath(r)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	res, err := c.ToggleCmd.Execute(r.Context(), command.ToggleCardLikeRequest{
		UserID: domain.UserIDFromContext(r.Context()),
		CardID: cardID,
	})
	if errors.Is(err, domain.ErrCardNotFound) {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	if err != nil {
		ctx := r.Context()
		logger := domain.LoggerFromContext(ctx)
		logger.ErrorContext(ctx, "unable to toggle card like", "error", err)

		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(CardLikeResponse{
		Liked:      res.Liked,
		LikesCount: res.LikesCount,
	}); err != nil {
		ctx := r.Context()
		logger := domain.LoggerFromContext(ctx)
		logger.ErrorContext(ctx, "unable to write like response", "error", err)
	}
}
