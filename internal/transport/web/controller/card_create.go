package controller

import (
	"encoding/json"
	"net/http"

	"github.com/toolgrove/marketplace/internal/command"
	"github.com/toolgrove/marketplace/internal/domain"
)

type CardCreate struct {
	CreateCmd command.Command[command.CreateCardRequest, command.CreateCardResponse]
}

type CardCreateRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	CategoryID  int64    `json:"category_id"`
	Price       float64  `json:"price"`
	IsPremium   bool     `json:"is_premium"`
}

type CardCreateResponse struct {
	ID         int64                   `json:"id"`
	Slug       string                  `json:"slug"`
	Moderation domain.ModerationResult `json:"moderation"`
}

func (c CardCreate) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	logger := domain.LoggerFromContext(r.Context())

	var body CardCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		logger.ErrorContext(r.Context(), "unable to decode card create request", "error", err)
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	if body.Title == "" || body.Description == "" || body.CategoryID == 0 {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	res, err := c.CreateCmd.Execute(r.Context(), command.CreateCardRequest{
		Draft: domain.NewCardDraft{
			Title:       body.Title,
			Description: body.Description,
			Tags:        body.Tags,
			CategoryID:  body.CategoryID,
			Price:       body.Price,
			IsPremium:   body.IsPremium,
			OwnerID:     domain.UserIDFromContext(r.Context()),
		},
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "failed to create card", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(CardCreateResponse{
		ID:         res.CardID,
		Slug:       res.Slug,
		Moderation: res.Moderation,
	}); err != nil {
		logger.ErrorContext(r.Context(), "unable to write card create response", "error", err)
	}
}
