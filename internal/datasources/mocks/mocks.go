// Package mocks contains hand-maintained testify mocks for the datasources
// interfaces.
package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/toolgrove/marketplace/internal/datasources"
	"github.com/toolgrove/marketplace/internal/domain"
)

type MockCardIDsLister struct{ mock.Mock }

func (m *MockCardIDsLister) ListCardIDs(
	ctx context.Context, filters domain.CardFilters, options domain.CardListOptions,
) ([]int64, error) {
	args := m.Called(ctx, filters, options)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

type MockCardFetcher struct{ mock.Mock }

func (m *MockCardFetcher) FetchCardsByID(ctx context.Context, ids []int64) ([]domain.Card, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Card), args.Error(1)
}

type MockCardCounter struct{ mock.Mock }

func (m *MockCardCounter) TotalMatchingCards(
	ctx context.Context, filters domain.CardFilters,
) (int64, error) {
	args := m.Called(ctx, filters)
	return args.Get(0).(int64), args.Error(1)
}

type MockCardCreator struct{ mock.Mock }

func (m *MockCardCreator) CreateCard(
	ctx context.Context, draft domain.NewCardDraft, slug string,
) (int64, error) {
	args := m.Called(ctx, draft, slug)
	return args.Get(0).(int64), args.Error(1)
}

type MockCardLikeToggler struct{ mock.Mock }

func (m *MockCardLikeToggler) ToggleCardLike(
	ctx context.Context, userID string, cardID int64,
) (bool, int64, error) {
	args := m.Called(ctx, userID, cardID)
	return args.Bool(0), args.Get(1).(int64), args.Error(2)
}

type MockCardViewCounter struct{ mock.Mock }

func (m *MockCardViewCounter) IncrementCardViews(ctx context.Context, cardID int64) error {
	args := m.Called(ctx, cardID)
	return args.Error(0)
}

type MockModerationResultApplier struct{ mock.Mock }

func (m *MockModerationResultApplier) ApplyAutoModeration(
	ctx context.Context, cardID int64, submittedBy string, result domain.ModerationResult,
) (int64, error) {
	args := m.Called(ctx, cardID, submittedBy, result)
	return args.Get(0).(int64), args.Error(1)
}

type MockQueueEntryByCardGetter struct{ mock.Mock }

func (m *MockQueueEntryByCardGetter) GetQueueEntryByCard(
	ctx context.Context, cardID int64,
) (domain.ModerationQueueEntry, error) {
	args := m.Called(ctx, cardID)
	return args.Get(0).(domain.ModerationQueueEntry), args.Error(1)
}

type MockReviewApplier struct{ mock.Mock }

func (m *MockReviewApplier) ApplyReview(
	ctx context.Context,
	entryID int64,
	status domain.ModerationStatus,
	reviewerID string,
	notes string,
	expectedVersion int64,
) error {
	args := m.Called(ctx, entryID, status, reviewerID, notes, expectedVersion)
	return args.Error(0)
}

type MockModerationQueueLister struct{ mock.Mock }

func (m *MockModerationQueueLister) ListModerationQueue(
	ctx context.Context, filters domain.ModerationQueueFilters, page, pageSize int,
) ([]domain.ModerationQueueEntry, int64, error) {
	args := m.Called(ctx, filters, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]domain.ModerationQueueEntry), args.Get(1).(int64), args.Error(2)
}

type MockModerationStatsGetter struct{ mock.Mock }

func (m *MockModerationStatsGetter) GetModerationStats(ctx context.Context) (domain.ModerationStats, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.ModerationStats), args.Error(1)
}

type MockInteractionRecorder struct{ mock.Mock }

func (m *MockInteractionRecorder) RecordInteraction(
	ctx context.Context, interaction domain.UserInteraction,
) error {
	args := m.Called(ctx, interaction)
	return args.Error(0)
}

type MockInteractedCardIDsLister struct{ mock.Mock }

func (m *MockInteractedCardIDsLister) ListInteractedCardIDs(
	ctx context.Context, userID string,
) ([]int64, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

type MockStrongInteractionCardsLister struct{ mock.Mock }

func (m *MockStrongInteractionCardsLister) ListRecentStrongInteractionCards(
	ctx context.Context, userID string, limit int,
) ([]domain.Card, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Card), args.Error(1)
}

type MockPreferencesGetter struct{ mock.Mock }

func (m *MockPreferencesGetter) GetUserPreferences(
	ctx context.Context, userID string,
) (domain.UserPreferences, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(domain.UserPreferences), args.Error(1)
}

type MockPreferencesUpserter struct{ mock.Mock }

func (m *MockPreferencesUpserter) UpsertUserPreferences(
	ctx context.Context, prefs domain.UserPreferences,
) error {
	args := m.Called(ctx, prefs)
	return args.Error(0)
}

type MockRecommendationCandidateLister struct{ mock.Mock }

func (m *MockRecommendationCandidateLister) ListCandidateCards(
	ctx context.Context, filters datasources.CandidateFilters,
) ([]domain.Card, error) {
	args := m.Called(ctx, filters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Card), args.Error(1)
}

type MockNotificationCreator struct{ mock.Mock }

func (m *MockNotificationCreator) CreateNotification(
	ctx context.Context, notification domain.NewNotification,
) (int64, error) {
	args := m.Called(ctx, notification)
	return args.Get(0).(int64), args.Error(1)
}

type MockNotificationLister struct{ mock.Mock }

func (m *MockNotificationLister) ListNotifications(
	ctx context.Context, userID string, page, pageSize int,
) ([]domain.Notification, int64, error) {
	args := m.Called(ctx, userID, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]domain.Notification), args.Get(1).(int64), args.Error(2)
}

type MockNotificationReadMarker struct{ mock.Mock }

func (m *MockNotificationReadMarker) MarkNotificationRead(
	ctx context.Context, userID string, notificationID int64,
) error {
	args := m.Called(ctx, userID, notificationID)
	return args.Error(0)
}

func (m *MockNotificationReadMarker) MarkAllNotificationsRead(
	ctx context.Context, userID string,
) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

type MockUnreadNotificationCounter struct{ mock.Mock }

func (m *MockUnreadNotificationCounter) CountUnreadNotifications(
	ctx context.Context, userID string,
) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

type MockUserRoleGetter struct{ mock.Mock }

func (m *MockUserRoleGetter) GetUserRole(ctx context.Context, userID string) (domain.UserRole, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(domain.UserRole), args.Error(1)
}

type MockRateLimitStore struct{ mock.Mock }

func (m *MockRateLimitStore) Increment(
	ctx context.Context, key string, window time.Duration,
) (int64, time.Duration, error) {
	args := m.Called(ctx, key, window)
	return args.Get(0).(int64), args.Get(1).(time.Duration), args.Error(2)
}
