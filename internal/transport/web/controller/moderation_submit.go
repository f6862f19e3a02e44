package controller

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/toolgrove/marketplace/internal/command"
	"github.com/toolgrove/marketplace/internal/datasources"
	"github.com/toolgrove/marketplace/internal/domain"
)

// ModerationSubmit re-runs auto-moderation for a card, typically after the
// owner edited it following a rejection. Only the owner may resubmit.
type ModerationSubmit struct {
	Fetcher   datasources.CardFetcher
	SubmitCmd command.Command[command.SubmitForModerationRequest, command.SubmitForModerationResponse]
}

type ModerationSubmitResponse struct {
	Result       domain.ModerationResult `json:"result"`
	QueueEntryID int64                   `json:"queue_entry_id,omitempty"`
}

func (c ModerationSubmit) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	cardID, err := cardIDFromPath(r)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	logger := domain.LoggerFromContext(r.Context())
	userID := domain.UserIDFromContext(r.Context())

	cards, err := c.Fetcher.FetchCardsByID(r.Context(), []int64{cardID})
	if err != nil {
		logger.ErrorContext(r.Context(), "unable to fetch card", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	if len(cards) == 0 {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	if cards[0].OwnerID != userID {
		w.WriteHeader(http.StatusForbidden)
		return
	}

	res, err := c.SubmitCmd.Execute(r.Context(), command.SubmitForModerationRequest{
		CardID:      cardID,
		SubmittedBy: userID,
	})
	if errors.Is(err, domain.ErrCardNotFound) {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	if err != nil {
		logger.ErrorContext(r.Context(), "failed to submit card for moderation", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(ModerationSubmitResponse{
		Result:       res.Result,
		QueueEntryID: res.QueueEntryID,
	}); err != nil {
		logger.ErrorContext(r.Context(), "unable to write moderation submit response", "error", err)
	}
}
