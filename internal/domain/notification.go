package domain

import (
	"errors"
	"time"
)

var ErrNotificationNotFound = errors.New("notification not found")

// NotificationType is the display category of an inbox notification.
type NotificationType string

const (
	NotificationInfo      NotificationType = "info"
	NotificationSuccess   NotificationType = "success"
	NotificationWarning   NotificationType = "warning"
	NotificationError     NotificationType = "error"
	NotificationPromotion NotificationType = "promotion"
)

// Notification is the persisted projection consumed by the user-facing inbox.
type Notification struct {
	ID        int64             `json:"id"`
	UserID    string            `json:"user_id"`
	Title     string            `json:"title"`
	Message   string            `json:"message"`
	Type      NotificationType  `json:"type"`
	IsRead    bool              `json:"is_read"`
	ActionURL string            `json:"action_url,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
	ReadAt    *time.Time        `json:"read_at,omitempty"`
}

// NewNotification is a notification about to be stored.
type NewNotification struct {
	UserID    string
	Title     string
	Message   string
	Type      NotificationType
	ActionURL string
	Metadata  map[string]string
}
