package command

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/toolgrove/marketplace/internal/datasources/mocks"
	"github.com/toolgrove/marketplace/internal/domain"
	eventmocks "github.com/toolgrove/marketplace/internal/events/mocks"
)

func TestReviewCard_Execute(t *testing.T) {
	entry := domain.ModerationQueueEntry{
		ID:          5,
		CardID:      42,
		SubmittedBy: "owner1",
		Status:      domain.ModerationStatusPending,
		Version:     3,
		CardTitle:   "Prompt library",
	}

	cases := []struct {
		name       string
		action     domain.ReviewAction
		wantStatus domain.ModerationStatus
		wantEvent  domain.ModerationEventType
	}{
		{
			name:       "approve",
			action:     domain.ReviewActionApprove,
			wantStatus: domain.ModerationStatusApproved,
			wantEvent:  domain.ModerationEventApproved,
		},
		{
			name:       "reject",
			action:     domain.ReviewActionReject,
			wantStatus: domain.ModerationStatusRejected,
			wantEvent:  domain.ModerationEventRejected,
		},
		{
			name:       "needs_review",
			action:     domain.ReviewActionNeedsReview,
			wantStatus: domain.ModerationStatusNeedsReview,
			wantEvent:  domain.ModerationEventNeedsReview,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			getter := &mocks.MockQueueEntryByCardGetter{}
			applier := &mocks.MockReviewApplier{}
			publisher := &eventmocks.MockPublisher{}

			getter.On("GetQueueEntryByCard", mock.Anything, int64(42)).
				Return(entry, nil)
			applier.On("ApplyReview", mock.Anything, entry.ID, tc.wantStatus,
				"mod1", "looks fine", int64(3)).
				Return(nil)
			publisher.On("PublishModeration", mock.Anything,
				mock.MatchedBy(func(event domain.ModerationEvent) bool {
					return event.CardID == 42 &&
						event.EventType == tc.wantEvent &&
						event.CardTitle == "Prompt library" &&
						event.ReviewerNotes == "looks fine"
				})).
				Return()

			cmd := NewReviewCard(getter, applier, publisher)

			_, err := cmd.Execute(context.Background(), ReviewCardRequest{
				CardID:     42,
				Action:     tc.action,
				ReviewerID: "mod1",
				Notes:      "looks fine",
			})
			require.NoError(t, err)

			getter.AssertExpectations(t)
			applier.AssertExpectations(t)
			publisher.AssertExpectations(t)
		})
	}
}

func TestReviewCard_Execute_UnknownAction(t *testing.T) {
	cmd := NewReviewCard(
		&mocks.MockQueueEntryByCardGetter{},
		&mocks.MockReviewApplier{},
		&eventmocks.MockPublisher{},
	)

	_, err := cmd.Execute(context.Background(), ReviewCardRequest{CardID: 1, Action: "escalate"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown review action")
}

func TestReviewCard_Execute_EntryMissing(t *testing.T) {
	getter := &mocks.MockQueueEntryByCardGetter{}
	applier := &mocks.MockReviewApplier{}
	publisher := &eventmocks.MockPublisher{}

	getter.On("GetQueueEntryByCard", mock.Anything, int64(7)).
		Return(domain.ModerationQueueEntry{}, domain.ErrQueueEntryNotFound)

	cmd := NewReviewCard(getter, applier, publisher)

	_, err := cmd.Execute(context.Background(), ReviewCardRequest{
		CardID: 7,
		Action: domain.ReviewActionApprove,
	})
	assert.ErrorIs(t, err, domain.ErrQueueEntryNotFound)
	applier.AssertNotCalled(t, "ApplyReview",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestReviewCard_Execute_Conflict(t *testing.T) {
	getter := &mocks.MockQueueEntryByCardGetter{}
	applier := &mocks.MockReviewApplier{}
	publisher := &eventmocks.MockPublisher{}

	getter.On("GetQueueEntryByCard", mock.Anything, int64(42)).
		Return(domain.ModerationQueueEntry{ID: 9, CardID: 42, Version: 1}, nil)
	applier.On("ApplyReview", mock.Anything, int64(9), domain.ModerationStatusApproved,
		"mod1", "", int64(1)).
		Return(domain.ErrReviewConflict)

	cmd := NewReviewCard(getter, applier, publisher)

	_, err := cmd.Execute(context.Background(), ReviewCardRequest{
		CardID:     42,
		Action:     domain.ReviewActionApprove,
		ReviewerID: "mod1",
	})
	assert.ErrorIs(t, err, domain.ErrReviewConflict)
	publisher.AssertNotCalled(t, "PublishModeration", mock.Anything, mock.Anything)
}
