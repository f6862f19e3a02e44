package command

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/toolgrove/marketplace/internal/datasources/mocks"
	"github.com/toolgrove/marketplace/internal/domain"
	eventmocks "github.com/toolgrove/marketplace/internal/events/mocks"
)

func TestSubmitForModeration_Execute(t *testing.T) {
	cleanCard := domain.Card{
		ID:          42,
		Title:       "Prompt library for code review",
		Description: strings.Repeat("A detailed, useful description of the tool. ", 3),
		Tags:        []string{"prompts", "code-review"},
		OwnerID:     "owner1",
	}
	spamCard := domain.Card{
		ID:          43,
		Title:       "spam",
		Description: "short",
		Tags:        []string{"x"},
		OwnerID:     "owner1",
	}

	cases := []struct {
		name          string
		card          domain.Card
		applierID     int64
		wantApproved  bool
		wantQueueID   int64
		wantPublished bool
	}{
		{
			name:          "clean_card_auto_approves",
			card:          cleanCard,
			applierID:     0,
			wantApproved:  true,
			wantQueueID:   0,
			wantPublished: true,
		},
		{
			name:          "flagged_card_gets_queue_entry",
			card:          spamCard,
			applierID:     7,
			wantApproved:  false,
			wantQueueID:   7,
			wantPublished: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fetcher := &mocks.MockCardFetcher{}
			applier := &mocks.MockModerationResultApplier{}
			publisher := &eventmocks.MockPublisher{}

			fetcher.On("FetchCardsByID", mock.Anything, []int64{tc.card.ID}).
				Return([]domain.Card{tc.card}, nil)
			applier.On("ApplyAutoModeration", mock.Anything, tc.card.ID, "owner1",
				mock.MatchedBy(func(result domain.ModerationResult) bool {
					return result.Approved() == tc.wantApproved
				})).
				Return(tc.applierID, nil)
			publisher.On("PublishModeration", mock.Anything,
				mock.MatchedBy(func(event domain.ModerationEvent) bool {
					return event.CardID == tc.card.ID &&
						event.EventType == domain.ModerationEventSubmitted &&
						event.EventID != ""
				})).
				Return()

			cmd := NewSubmitForModeration(fetcher, applier, publisher)

			res, err := cmd.Execute(context.Background(), SubmitForModerationRequest{
				CardID:      tc.card.ID,
				SubmittedBy: "owner1",
			})
			require.NoError(t, err)
			assert.Equal(t, tc.wantApproved, res.Result.Approved())
			assert.Equal(t, tc.wantQueueID, res.QueueEntryID)

			fetcher.AssertExpectations(t)
			applier.AssertExpectations(t)
			publisher.AssertExpectations(t)
		})
	}
}

func TestSubmitForModeration_Execute_CardMissing(t *testing.T) {
	fetcher := &mocks.MockCardFetcher{}
	applier := &mocks.MockModerationResultApplier{}
	publisher := &eventmocks.MockPublisher{}

	fetcher.On("FetchCardsByID", mock.Anything, []int64{99}).
		Return([]domain.Card{}, nil)

	cmd := NewSubmitForModeration(fetcher, applier, publisher)

	_, err := cmd.Execute(context.Background(), SubmitForModerationRequest{CardID: 99})
	assert.ErrorIs(t, err, domain.ErrCardNotFound)
	applier.AssertNotCalled(t, "ApplyAutoModeration", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	publisher.AssertNotCalled(t, "PublishModeration", mock.Anything, mock.Anything)
}

func TestSubmitForModeration_Execute_ApplierError(t *testing.T) {
	fetcher := &mocks.MockCardFetcher{}
	applier := &mocks.MockModerationResultApplier{}
	publisher := &eventmocks.MockPublisher{}

	fetcher.On("FetchCardsByID", mock.Anything, []int64{1}).
		Return([]domain.Card{{ID: 1, Title: "A tool", Description: "d"}}, nil)
	applier.On("ApplyAutoModeration", mock.Anything, int64(1), "u", mock.Anything).
		Return(int64(0), errors.New("db gone"))

	cmd := NewSubmitForModeration(fetcher, applier, publisher)

	_, err := cmd.Execute(context.Background(), SubmitForModerationRequest{CardID: 1, SubmittedBy: "u"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "applying auto-moderation result")
	publisher.AssertNotCalled(t, "PublishModeration", mock.Anything, mock.Anything)
}
