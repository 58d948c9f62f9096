package usecase

import (
	"context"

	"citapush/internal/domain/entity"
)

// SubscriptionUsecase defines the interface for subscription storage use cases
type SubscriptionUsecase interface {
	// Store validates and persists a submitted subscription record
	Store(ctx context.Context, record *entity.SubscriptionRecord) error

	// ListBySubscriber retrieves all stored subscriptions for a subscriber
	ListBySubscriber(ctx context.Context, subscriberID string) ([]*entity.SubscriptionRecord, error)

	// Remove drops the subscription stored under the given endpoint
	Remove(ctx context.Context, endpoint string) error
}
