package datasources

import (
	"context"

	"github.com/toolgrove/marketplace/internal/domain"
)

// NotificationCreator stores a new inbox notification.
type NotificationCreator interface {
	CreateNotification(ctx context.Context, notification domain.NewNotification) (int64, error)
}

// NotificationLister lists a user's notifications, newest first, with total.
type NotificationLister interface {
	ListNotifications(ctx context.Context, userID string, page, pageSize int) ([]domain.Notification, int64, error)
}

// NotificationReadMarker marks notifications read. MarkNotificationRead
// returns domain.ErrNotificationNotFound when the notification doesn't exist
// for that user; re-reading an already-read notification is a no-op.
type NotificationReadMarker interface {
	MarkNotificationRead(ctx context.Context, userID string, notificationID int64) error
	MarkAllNotificationsRead(ctx context.Context, userID string) error
}

// UnreadNotificationCounter counts a user's unread notifications.
type UnreadNotificationCounter interface {
	CountUnreadNotifications(ctx context.Context, userID string) (int64, error)
}

// NotificationRepository combines all notification persistence operations.
type NotificationRepository interface {
	NotificationCreator
	NotificationLister
	NotificationReadMarker
	UnreadNotificationCounter
}
