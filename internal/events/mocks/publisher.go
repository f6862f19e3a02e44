// Package mocks contains a hand-maintained testify mock for the event bus
// publisher.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/toolgrove/marketplace/internal/domain"
)

type MockPublisher struct{ mock.Mock }

func (m *MockPublisher) PublishModeration(ctx context.Context, event domain.ModerationEvent) {
	m.Called(ctx, event)
}

func (m *MockPublisher) PublishCardInteraction(ctx context.Context, event domain.CardInteractionEvent) {
	m.Called(ctx, event)
}

func (m *MockPublisher) PublishSubscription(ctx context.Context, event domain.SubscriptionEvent) {
	m.Called(ctx, event)
}
