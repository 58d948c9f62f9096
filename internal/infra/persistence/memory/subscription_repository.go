// Package memory holds in-memory repository implementations. Durable
// storage is an external collaborator of this system; the pipeline only
// depends on the repository contract.
package memory

import (
	"context"
	"sync"
	"time"

	"citapush/internal/domain/entity"
	"citapush/internal/domain/repository"
)

type subscriptionRepository struct {
	mu         sync.RWMutex
	byEndpoint map[string]*entity.SubscriptionRecord
}

// NewSubscriptionRepository creates an empty in-memory subscription store.
func NewSubscriptionRepository() repository.SubscriptionRepository {
	return &subscriptionRepository{
		byEndpoint: make(map[string]*entity.SubscriptionRecord),
	}
}

// Save upserts by endpoint: re-submitting the same subscription, e.g.
// after a page reload, replaces the previous record instead of
// duplicating it.
func (r *subscriptionRepository) Save(_ context.Context, record *entity.SubscriptionRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *record
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now()
	}
	r.byEndpoint[record.Subscription.Endpoint] = &stored

	return nil
}

func (r *subscriptionRepository) FindBySubscriber(_ context.Context, subscriberID string) ([]*entity.SubscriptionRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var records []*entity.SubscriptionRecord
	for _, record := range r.byEndpoint {
		if record.SubscriberID == subscriberID {
			records = append(records, record)
		}
	}

	return records, nil
}

func (r *subscriptionRepository) FindByEndpoint(_ context.Context, endpoint string) (*entity.SubscriptionRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	record, ok := r.byEndpoint[endpoint]
	if !ok {
		return nil, repository.ErrSubscriptionNotFound
	}

	return record, nil
}

func (r *subscriptionRepository) Delete(_ context.Context, endpoint string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byEndpoint[endpoint]; !ok {
		return repository.ErrSubscriptionNotFound
	}
	delete(r.byEndpoint, endpoint)

	return nil
}

func (r *subscriptionRepository) Count(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.byEndpoint), nil
}
