package command

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/toolgrove/marketplace/internal/datasources"
	"github.com/toolgrove/marketplace/internal/domain"
)

// CreateCardRequest is the request for the CreateCard command.
type CreateCardRequest struct {
	Draft domain.NewCardDraft
}

// CreateCardResponse is the response from the CreateCard command.
type CreateCardResponse struct {
	CardID     int64
	Slug       string
	Moderation domain.ModerationResult
}

// CreateCard inserts a new card and immediately runs it through
// auto-moderation, so a card is never listed without a moderation verdict.
type CreateCard struct {
	Creator   datasources.CardCreator
	SubmitCmd Command[SubmitForModerationRequest, SubmitForModerationResponse]
}

// NewCreateCard creates a properly initialized CreateCard command.
func NewCreateCard(
	creator datasources.CardCreator,
	submitCmd Command[SubmitForModerationRequest, SubmitForModerationResponse],
) *CreateCard {
	return &CreateCard{
		Creator:   creator,
		SubmitCmd: submitCmd,
	}
}

func (c *CreateCard) Execute(ctx context.Context, req CreateCardRequest) (CreateCardResponse, error) {
	slug := Slugify(req.Draft.Title)

	cardID, err := c.Creator.CreateCard(ctx, req.Draft, slug)
	if err != nil {
		return CreateCardResponse{}, fmt.Errorf("creating card: %w", err)
	}

	submitRes, err := c.SubmitCmd.Execute(ctx, SubmitForModerationRequest{
		CardID:      cardID,
		SubmittedBy: req.Draft.OwnerID,
	})
	if err != nil {
		return CreateCardResponse{}, fmt.Errorf("submitting card for moderation: %w", err)
	}

	return CreateCardResponse{
		CardID:     cardID,
		Slug:       slug,
		Moderation: submitRes.Result,
	}, nil
}

var slugStripPattern = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify derives a URL slug from a card title.
func Slugify(title string) string {
	slug := slugStripPattern.ReplaceAllString(strings.ToLower(title), "-")
	return strings.Trim(slug, "-")
}
