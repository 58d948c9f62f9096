package repository

import (
	"context"

	"citapush/internal/domain/entity"
	"citapush/internal/errors"
)

// ErrSubscriptionNotFound is returned when no stored subscription matches
var ErrSubscriptionNotFound = errors.New("subscription not found")

// SubscriptionRepository persists subscription records keyed by endpoint.
// The storage implementation is deliberately out of scope; only the
// contract the pipeline needs is defined here.
type SubscriptionRepository interface {
	// Save stores a record, replacing any record with the same endpoint
	Save(ctx context.Context, record *entity.SubscriptionRecord) error

	// FindBySubscriber returns all records for a subscriber identity
	FindBySubscriber(ctx context.Context, subscriberID string) ([]*entity.SubscriptionRecord, error)

	// FindByEndpoint returns the record for an endpoint
	FindByEndpoint(ctx context.Context, endpoint string) (*entity.SubscriptionRecord, error)

	// Delete removes the record for an endpoint
	Delete(ctx context.Context, endpoint string) error

	// Count returns the number of stored records
	Count(ctx context.Context) (int, error)
}
