package command

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/toolgrove/marketplace/internal/datasources/mocks"
	"github.com/toolgrove/marketplace/internal/domain"
)

// stubSubmit satisfies the submit command interface without a real scorer.
type stubSubmit struct {
	gotReq SubmitForModerationRequest
	res    SubmitForModerationResponse
	err    error
}

func (s *stubSubmit) Execute(
	_ context.Context, req SubmitForModerationRequest,
) (SubmitForModerationResponse, error) {
	s.gotReq = req
	return s.res, s.err
}

func TestCreateCard_Execute(t *testing.T) {
	draft := domain.NewCardDraft{
		Title:       "GPT Prompt Pack!",
		Description: "A pack of prompts.",
		Tags:        []string{"prompts"},
		CategoryID:  2,
		Price:       9.99,
		OwnerID:     "owner1",
	}

	creator := &mocks.MockCardCreator{}
	creator.On("CreateCard", mock.Anything, draft, "gpt-prompt-pack").
		Return(int64(42), nil)

	submit := &stubSubmit{
		res: SubmitForModerationResponse{
			Result:       domain.ModerationResult{Score: 90, Recommendation: domain.RecommendationApprove},
			QueueEntryID: 0,
		},
	}

	cmd := NewCreateCard(creator, submit)

	res, err := cmd.Execute(context.Background(), CreateCardRequest{Draft: draft})
	require.NoError(t, err)
	assert.Equal(t, int64(42), res.CardID)
	assert.Equal(t, "gpt-prompt-pack", res.Slug)
	assert.Equal(t, domain.RecommendationApprove, res.Moderation.Recommendation)
	assert.Equal(t, SubmitForModerationRequest{CardID: 42, SubmittedBy: "owner1"}, submit.gotReq)

	creator.AssertExpectations(t)
}

func TestCreateCard_Execute_SubmitError(t *testing.T) {
	draft := domain.NewCardDraft{Title: "Some Tool", OwnerID: "owner1"}

	creator := &mocks.MockCardCreator{}
	creator.On("CreateCard", mock.Anything, draft, "some-tool").
		Return(int64(1), nil)

	cmd := NewCreateCard(creator, &stubSubmit{err: errors.New("scorer down")})

	_, err := cmd.Execute(context.Background(), CreateCardRequest{Draft: draft})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "submitting card for moderation")
}

func TestSlugify(t *testing.T) {
	cases := []struct {
		title string
		want  string
	}{
		{"GPT Prompt Pack!", "gpt-prompt-pack"},
		{"  leading and trailing  ", "leading-and-trailing"},
		{"already-slugged", "already-slugged"},
		{"Números & Symbols™", "n-meros-symbols"},
		{"UPPER", "upper"},
		{"", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Slugify(tc.title), "title %q", tc.title)
	}
}
