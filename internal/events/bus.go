package events

import (
	"context"

	"github.com/toolgrove/marketplace/internal/domain"
)

// Publisher is the producer side of the event bus. Publishing is
// fire-and-forget: a dropped or failed event is logged, never surfaced to
// the caller.
type Publisher interface {
	PublishModeration(ctx context.Context, event domain.ModerationEvent)
	PublishCardInteraction(ctx context.Context, event domain.CardInteractionEvent)
	PublishSubscription(ctx context.Context, event domain.SubscriptionEvent)
}

// ModerationHandler consumes moderation queue transitions.
type ModerationHandler func(ctx context.Context, event domain.ModerationEvent)

// CardInteractionHandler consumes card interaction events.
type CardInteractionHandler func(ctx context.Context, event domain.CardInteractionEvent)

// SubscriptionHandler consumes subscription lifecycle events.
type SubscriptionHandler func(ctx context.Context, event domain.SubscriptionEvent)

const busBufferSize = 256

// Bus is an in-process pub/sub bus. Handlers are registered before Run is
// called; each published event is dispatched to every handler for its topic
// in its own goroutine. Publish never blocks: when the buffer is full the
// event is dropped and logged.
type Bus struct {
	moderation      chan domain.ModerationEvent
	cardInteraction chan domain.CardInteractionEvent
	subscription    chan domain.SubscriptionEvent

	moderationHandlers      []ModerationHandler
	cardInteractionHandlers []CardInteractionHandler
	subscriptionHandlers    []SubscriptionHandler
}

var _ Publisher = (*Bus)(nil)

func NewBus() *Bus {
	return &Bus{
		moderation:      make(chan domain.ModerationEvent, busBufferSize),
		cardInteraction: make(chan domain.CardInteractionEvent, busBufferSize),
		subscription:    make(chan domain.SubscriptionEvent, busBufferSize),
	}
}

func (b *Bus) SubscribeModeration(handler ModerationHandler) {
	b.moderationHandlers = append(b.moderationHandlers, handler)
}

func (b *Bus) SubscribeCardInteraction(handler CardInteractionHandler) {
	b.cardInteractionHandlers = append(b.cardInteractionHandlers, handler)
}

func (b *Bus) SubscribeSubscription(handler SubscriptionHandler) {
	b.subscriptionHandlers = append(b.subscriptionHandlers, handler)
}

func (b *Bus) PublishModeration(ctx context.Context, event domain.ModerationEvent) {
	select {
	case b.moderation <- event:
	default:
		logDroppedEvent(ctx, "moderation", event.EventID)
	}
}

func (b *Bus) PublishCardInteraction(ctx context.Context, event domain.CardInteractionEvent) {
	select {
	case b.cardInteraction <- event:
	default:
		logDroppedEvent(ctx, "card_interaction", event.EventID)
	}
}

func (b *Bus) PublishSubscription(ctx context.Context, event domain.SubscriptionEvent) {
	select {
	case b.subscription <- event:
	default:
		logDroppedEvent(ctx, "subscription", event.EventID)
	}
}

// Run dispatches events until the context is cancelled. Implements the app
// component interface.
func (b *Bus) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event := <-b.moderation:
			for _, handler := range b.moderationHandlers {
				go handler(context.WithoutCancel(ctx), event)
			}
		case event := <-b.cardInteraction:
			for _, handler := range b.cardInteractionHandlers {
				go handler(context.WithoutCancel(ctx), event)
			}
		case event := <-b.subscription:
			for _, handler := range b.subscriptionHandlers {
				go handler(context.WithoutCancel(ctx), event)
			}
		}
	}
}

func logDroppedEvent(ctx context.Context, topic, eventID string) {
	logger := domain.LoggerFromContext(ctx)
	logger.WarnContext(ctx, "event bus buffer full, dropping event",
		"topic", topic,
		"event_id", eventID,
	)
}
