package controller

import (
	"encoding/json"
	"errors"
	"net/http"
	"slices"

	"github.com/toolgrove/marketplace/internal/command"
	"github.com/toolgrove/marketplace/internal/domain"
)

type InteractionTrack struct {
	TrackCmd command.Command[command.TrackInteractionRequest, command.Empty]
}

type InteractionTrackRequest struct {
	Type            string `json:"type"`
	DurationSeconds *int64 `json:"duration_seconds,omitempty"`
}

func (c InteractionTrack) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	cardID, err := cardIDFromPath(r)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	logger := domain.LoggerFromContext(r.Context())

	var body InteractionTrackRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		logger.ErrorContext(r.Context(), "unable to decode interaction request", "error", err)
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	interactionType := domain.InteractionType(body.Type)
	if !slices.Contains(domain.ValidInteractionTypes, interactionType) {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	_, err = c.TrackCmd.Execute(r.Context(), command.TrackInteractionRequest{
		UserID:          domain.UserIDFromContext(r.Context()),
		CardID:          cardID,
		Type:            interactionType,
		DurationSeconds: body.DurationSeconds,
	})
	if errors.Is(err, domain.ErrCardNotFound) {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	if err != nil {
		logger.ErrorContext(r.Context(), "failed to track interaction", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
