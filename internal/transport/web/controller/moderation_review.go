package controller

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/toolgrove/marketplace/internal/command"
	"github.com/toolgrove/marketplace/internal/domain"
)

type ModerationReview struct {
	ReviewCmd command.Command[command.ReviewCardRequest, command.Empty]
}

type ModerationReviewRequest struct {
	Action string `json:"action"`
	Notes  string `json:"notes"`
}

func (c ModerationReview) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	cardID, err := cardIDFromPath(r)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	logger := domain.LoggerFromContext(r.Context())

	var body ModerationReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		logger.ErrorContext(r.Context(), "unable to decode review request", "error", err)
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	action := domain.ReviewAction(body.Action)
	if _, err := action.Status(); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	_, err = c.ReviewCmd.Execute(r.Context(), command.ReviewCardRequest{
		CardID:     cardID,
		Action:     action,
		ReviewerID: domain.UserIDFromContext(r.Context()),
		Notes:      body.Notes,
	})
	switch {
	case errors.Is(err, domain.ErrQueueEntryNotFound):
		w.WriteHeader(http.StatusNotFound)
	case errors.Is(err, domain.ErrReviewConflict):
		w.WriteHeader(http.StatusConflict)
	case err != nil:
		logger.ErrorContext(r.Context(), "failed to apply review", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
	default:
		w.WriteHeader(http.StatusNoContent)
	}
}
