package impl

import (
	"context"
	"testing"

	"citapush/internal/domain/entity"
	domainerrors "citapush/internal/domain/errors"
	"citapush/internal/infra/persistence/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRecord(endpoint, subscriberID string) *entity.SubscriptionRecord {
	return &entity.SubscriptionRecord{
		Subscription: entity.PushSubscription{
			Endpoint: endpoint,
			Keys:     entity.SubscriptionKeys{P256dh: "p256", Auth: "auth"},
		},
		SubscriberID: subscriberID,
	}
}

func TestSubscriptionService_StoreAndList(t *testing.T) {
	svc := NewSubscriptionService(memory.NewSubscriptionRepository(), newDiscardLogger())
	ctx := context.Background()

	require.NoError(t, svc.Store(ctx, validRecord("https://push.example/ep1", "42")))
	require.NoError(t, svc.Store(ctx, validRecord("https://push.example/ep2", "42")))

	records, err := svc.ListBySubscriber(ctx, "42")
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestSubscriptionService_StoreRejectsIncompleteRecords(t *testing.T) {
	svc := NewSubscriptionService(memory.NewSubscriptionRepository(), newDiscardLogger())
	ctx := context.Background()

	missingEndpoint := validRecord("", "42")
	missingKeys := validRecord("https://push.example/ep1", "42")
	missingKeys.Subscription.Keys.Auth = ""

	assert.ErrorIs(t, svc.Store(ctx, nil), domainerrors.ErrInvalidSubscription)
	assert.ErrorIs(t, svc.Store(ctx, missingEndpoint), domainerrors.ErrInvalidSubscription)
	assert.ErrorIs(t, svc.Store(ctx, missingKeys), domainerrors.ErrInvalidSubscription)
}

func TestSubscriptionService_RemoveUnknownEndpoint(t *testing.T) {
	svc := NewSubscriptionService(memory.NewSubscriptionRepository(), newDiscardLogger())

	err := svc.Remove(context.Background(), "https://push.example/gone")

	assert.ErrorIs(t, err, domainerrors.ErrSubscriptionNotFound)
}
