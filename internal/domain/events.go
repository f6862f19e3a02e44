package domain

import "time"

// ModerationEventType marks a queue-state transition.
type ModerationEventType string

const (
	ModerationEventSubmitted   ModerationEventType = "submitted"
	ModerationEventApproved    ModerationEventType = "approved"
	ModerationEventRejected    ModerationEventType = "rejected"
	ModerationEventNeedsReview ModerationEventType = "needs_review"
)

// ModerationEvent is published on every moderation queue transition.
type ModerationEvent struct {
	EventID       string
	CardID        int64
	CardTitle     string
	SubmittedBy   string
	EventType     ModerationEventType
	ReviewerNotes string
	Timestamp     time.Time
}

// CardInteractionEvent is published when a user likes, bookmarks, purchases
// or downloads a card. The owner gets notified.
type CardInteractionEvent struct {
	EventID   string
	CardID    int64
	CardTitle string
	OwnerID   string
	ActorID   string
	Type      InteractionType
	Timestamp time.Time
}

// SubscriptionEventType is a billing lifecycle transition published by the
// subscription service.
type SubscriptionEventType string

const (
	SubscriptionCreated  SubscriptionEventType = "created"
	SubscriptionRenewed  SubscriptionEventType = "renewed"
	SubscriptionCanceled SubscriptionEventType = "canceled"
	SubscriptionExpired  SubscriptionEventType = "expired"
)

// SubscriptionEvent feeds the notification fan-out. Billing itself lives
// outside this service.
type SubscriptionEvent struct {
	EventID   string
	UserID    string
	PlanName  string
	EventType SubscriptionEventType
	Timestamp time.Time
}
