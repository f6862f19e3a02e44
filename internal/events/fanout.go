package events

import (
	"context"
	"fmt"
	"strconv"

	"github.com/toolgrove/marketplace/internal/datasources"
	"github.com/toolgrove/marketplace/internal/domain"
)

// NotificationFanout projects bus events into stored inbox notifications.
// Failures are logged and dropped; the originating request has already
// completed by the time a handler runs.
type NotificationFanout struct {
	Notifications datasources.NotificationCreator
}

func NewNotificationFanout(notifications datasources.NotificationCreator) *NotificationFanout {
	return &NotificationFanout{Notifications: notifications}
}

// Register attaches the fan-out handlers to a bus.
func (f *NotificationFanout) Register(bus *Bus) {
	bus.SubscribeModeration(f.HandleModeration)
	bus.SubscribeCardInteraction(f.HandleCardInteraction)
	bus.SubscribeSubscription(f.HandleSubscription)
}

func (f *NotificationFanout) HandleModeration(ctx context.Context, event domain.ModerationEvent) {
	var title, message string
	var nType domain.NotificationType

	switch event.EventType {
	case domain.ModerationEventSubmitted:
		title = "Content Submitted for Review"
		message = fmt.Sprintf("Your card %q has been submitted for moderation review.", event.CardTitle)
		nType = domain.NotificationInfo
	case domain.ModerationEventApproved:
		title = "Content Approved"
		message = fmt.Sprintf("Great news! Your card %q has been approved and is now live.", event.CardTitle)
		nType = domain.NotificationSuccess
	case domain.ModerationEventRejected:
		title = "Content Requires Changes"
		message = fmt.Sprintf("Your card %q needs some adjustments before it can go live.", event.CardTitle)
		nType = domain.NotificationWarning
	case domain.ModerationEventNeedsReview:
		title = "Content Under Review"
		message = fmt.Sprintf("Your card %q was returned to the review queue.", event.CardTitle)
		nType = domain.NotificationInfo
	default:
		return
	}

	metadata := map[string]string{"card_id": strconv.FormatInt(event.CardID, 10)}
	if event.ReviewerNotes != "" {
		metadata["reviewer_notes"] = event.ReviewerNotes
	}

	f.store(ctx, domain.NewNotification{
		UserID:    event.SubmittedBy,
		Title:     title,
		Message:   message,
		Type:      nType,
		ActionURL: "/cards/" + strconv.FormatInt(event.CardID, 10),
		Metadata:  metadata,
	})
}

func (f *NotificationFanout) HandleCardInteraction(ctx context.Context, event domain.CardInteractionEvent) {
	var message string
	switch event.Type {
	case domain.InteractionLike:
		message = fmt.Sprintf("Your card %q received a new like!", event.CardTitle)
	case domain.InteractionBookmark:
		message = fmt.Sprintf("Your card %q was bookmarked!", event.CardTitle)
	case domain.InteractionPurchase:
		message = fmt.Sprintf("Your card %q was purchased!", event.CardTitle)
	case domain.InteractionDownload:
		message = fmt.Sprintf("Your card %q was downloaded!", event.CardTitle)
	default:
		// Views and shares don't notify the owner.
		return
	}

	f.store(ctx, domain.NewNotification{
		UserID:    event.OwnerID,
		Title:     "Card Activity",
		Message:   message,
		Type:      domain.NotificationInfo,
		ActionURL: "/cards/" + strconv.FormatInt(event.CardID, 10),
		Metadata:  map[string]string{"card_id": strconv.FormatInt(event.CardID, 10)},
	})
}

func (f *NotificationFanout) HandleSubscription(ctx context.Context, event domain.SubscriptionEvent) {
	var title, message string
	var nType domain.NotificationType

	switch event.EventType {
	case domain.SubscriptionCreated:
		title = "Subscription Activated"
		message = fmt.Sprintf("Welcome to %s! Your subscription is now active.", event.PlanName)
		nType = domain.NotificationSuccess
	case domain.SubscriptionRenewed:
		title = "Subscription Renewed"
		message = fmt.Sprintf("Your %s subscription has been renewed successfully.", event.PlanName)
		nType = domain.NotificationSuccess
	case domain.SubscriptionCanceled:
		title = "Subscription Canceled"
		message = fmt.Sprintf("Your %s subscription has been canceled.", event.PlanName)
		nType = domain.NotificationWarning
	case domain.SubscriptionExpired:
		title = "Subscription Expired"
		message = fmt.Sprintf("Your %s subscription has expired. Renew to continue enjoying premium features.", event.PlanName)
		nType = domain.NotificationError
	default:
		return
	}

	f.store(ctx, domain.NewNotification{
		UserID:    event.UserID,
		Title:     title,
		Message:   message,
		Type:      nType,
		ActionURL: "/dashboard/subscription",
	})
}

func (f *NotificationFanout) store(ctx context.Context, notification domain.NewNotification) {
	if _, err := f.Notifications.CreateNotification(ctx, notification); err != nil {
		logger := domain.LoggerFromContext(ctx)
		logger.ErrorContext(ctx, "failed to store notification",
			"user_id", notification.UserID,
			"error", err,
		)
	}
}
