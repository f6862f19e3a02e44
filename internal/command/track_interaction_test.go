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

type trackMocks struct {
	fetcher   *mocks.MockCardFetcher
	recorder  *mocks.MockInteractionRecorder
	getter    *mocks.MockPreferencesGetter
	writer    *mocks.MockPreferencesUpserter
	publisher *eventmocks.MockPublisher
}

func newTrackInteraction() (*TrackInteraction, trackMocks) {
	m := trackMocks{
		fetcher:   &mocks.MockCardFetcher{},
		recorder:  &mocks.MockInteractionRecorder{},
		getter:    &mocks.MockPreferencesGetter{},
		writer:    &mocks.MockPreferencesUpserter{},
		publisher: &eventmocks.MockPublisher{},
	}
	cmd := NewTrackInteraction(m.fetcher, m.recorder, m.getter, m.writer, m.publisher)
	return cmd, m
}

func TestTrackInteraction_Execute_NotifiableTypes(t *testing.T) {
	card := domain.Card{
		ID:         42,
		Title:      "Prompt library",
		CategoryID: 2,
		Tags:       []string{"prompts"},
		Price:      10,
		OwnerID:    "owner1",
	}

	cases := []struct {
		interaction domain.InteractionType
		wantEvent   bool
	}{
		{domain.InteractionView, false},
		{domain.InteractionShare, false},
		{domain.InteractionLike, true},
		{domain.InteractionBookmark, true},
		{domain.InteractionPurchase, true},
		{domain.InteractionDownload, true},
	}

	for _, tc := range cases {
		t.Run(string(tc.interaction), func(t *testing.T) {
			cmd, m := newTrackInteraction()

			m.fetcher.On("FetchCardsByID", mock.Anything, []int64{42}).
				Return([]domain.Card{card}, nil)
			m.recorder.On("RecordInteraction", mock.Anything,
				mock.MatchedBy(func(i domain.UserInteraction) bool {
					return i.UserID == "user1" && i.CardID == 42 && i.Type == tc.interaction
				})).
				Return(nil)
			m.getter.On("GetUserPreferences", mock.Anything, "user1").
				Return(domain.UserPreferences{}, domain.ErrPreferencesNotFound)
			m.writer.On("UpsertUserPreferences", mock.Anything, mock.Anything).
				Return(nil)
			if tc.wantEvent {
				m.publisher.On("PublishCardInteraction", mock.Anything,
					mock.MatchedBy(func(event domain.CardInteractionEvent) bool {
						return event.CardID == 42 &&
							event.OwnerID == "owner1" &&
							event.ActorID == "user1" &&
							event.Type == tc.interaction
					})).
					Return()
			}

			_, err := cmd.Execute(context.Background(), TrackInteractionRequest{
				UserID: "user1",
				CardID: 42,
				Type:   tc.interaction,
			})
			require.NoError(t, err)

			if !tc.wantEvent {
				m.publisher.AssertNotCalled(t, "PublishCardInteraction", mock.Anything, mock.Anything)
			}
			m.publisher.AssertExpectations(t)
		})
	}
}

func TestTrackInteraction_Execute_OwnActionsStaySilent(t *testing.T) {
	cmd, m := newTrackInteraction()

	card := domain.Card{ID: 42, OwnerID: "user1"}
	m.fetcher.On("FetchCardsByID", mock.Anything, []int64{42}).
		Return([]domain.Card{card}, nil)
	m.recorder.On("RecordInteraction", mock.Anything, mock.Anything).Return(nil)
	m.getter.On("GetUserPreferences", mock.Anything, "user1").
		Return(domain.UserPreferences{}, domain.ErrPreferencesNotFound)
	m.writer.On("UpsertUserPreferences", mock.Anything, mock.Anything).Return(nil)

	_, err := cmd.Execute(context.Background(), TrackInteractionRequest{
		UserID: "user1",
		CardID: 42,
		Type:   domain.InteractionLike,
	})
	require.NoError(t, err)
	m.publisher.AssertNotCalled(t, "PublishCardInteraction", mock.Anything, mock.Anything)
}

func TestTrackInteraction_Execute_FirstInteractionSeedsPreferences(t *testing.T) {
	cmd, m := newTrackInteraction()

	card := domain.Card{
		ID:         42,
		CategoryID: 2,
		Tags:       []string{"prompts"},
		Price:      9.99,
		OwnerID:    "owner1",
	}
	m.fetcher.On("FetchCardsByID", mock.Anything, []int64{42}).
		Return([]domain.Card{card}, nil)
	m.recorder.On("RecordInteraction", mock.Anything, mock.Anything).Return(nil)
	m.getter.On("GetUserPreferences", mock.Anything, "user1").
		Return(domain.UserPreferences{}, domain.ErrPreferencesNotFound)
	m.writer.On("UpsertUserPreferences", mock.Anything,
		mock.MatchedBy(func(prefs domain.UserPreferences) bool {
			return prefs.UserID == "user1" &&
				len(prefs.PreferredCategories) == 1 &&
				prefs.PreferredCategories[0] == 2 &&
				prefs.PriceRangeMin != nil && *prefs.PriceRangeMin == 9.99
		})).
		Return(nil)

	_, err := cmd.Execute(context.Background(), TrackInteractionRequest{
		UserID: "user1",
		CardID: 42,
		Type:   domain.InteractionView,
	})
	require.NoError(t, err)
	m.writer.AssertExpectations(t)
}

func TestTrackInteraction_Execute_FoldsIntoExistingPreferences(t *testing.T) {
	cmd, m := newTrackInteraction()

	min, max := 5.0, 10.0
	existing := domain.UserPreferences{
		UserID:              "user1",
		PreferredCategories: []int64{1},
		PreferredTags:       []string{"agents"},
		PriceRangeMin:       &min,
		PriceRangeMax:       &max,
	}
	card := domain.Card{
		ID:         42,
		CategoryID: 2,
		Tags:       []string{"prompts"},
		Price:      20,
		OwnerID:    "owner1",
	}

	m.fetcher.On("FetchCardsByID", mock.Anything, []int64{42}).
		Return([]domain.Card{card}, nil)
	m.recorder.On("RecordInteraction", mock.Anything, mock.Anything).Return(nil)
	m.getter.On("GetUserPreferences", mock.Anything, "user1").
		Return(existing, nil)
	m.writer.On("UpsertUserPreferences", mock.Anything,
		mock.MatchedBy(func(prefs domain.UserPreferences) bool {
			return assert.ObjectsAreEqual([]int64{1, 2}, prefs.PreferredCategories) &&
				assert.ObjectsAreEqual([]string{"agents", "prompts"}, prefs.PreferredTags) &&
				*prefs.PriceRangeMin == 5.0 && *prefs.PriceRangeMax == 20.0
		})).
		Return(nil)

	_, err := cmd.Execute(context.Background(), TrackInteractionRequest{
		UserID: "user1",
		CardID: 42,
		Type:   domain.InteractionView,
	})
	require.NoError(t, err)
	m.writer.AssertExpectations(t)
}

func TestTrackInteraction_Execute_CardMissing(t *testing.T) {
	cmd, m := newTrackInteraction()

	m.fetcher.On("FetchCardsByID", mock.Anything, []int64{99}).
		Return([]domain.Card{}, nil)

	_, err := cmd.Execute(context.Background(), TrackInteractionRequest{
		UserID: "user1",
		CardID: 99,
		Type:   domain.InteractionView,
	})
	assert.ErrorIs(t, err, domain.ErrCardNotFound)
	m.recorder.AssertNotCalled(t, "RecordInteraction", mock.Anything, mock.Anything)
}
