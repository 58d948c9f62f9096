package service

import (
	"context"

	"citapush/internal/domain/entity"
	"citapush/internal/errors"
)

// ErrSubscriptionGone is returned by a PushSender when the delivery
// service reports the subscription no longer exists; the caller should
// prune the stored record.
var ErrSubscriptionGone = errors.New("push subscription gone")

// PushSender delivers a payload to one subscription through the
// delivery service (VAPID-signed, encrypted web push).
type PushSender interface {
	Send(ctx context.Context, sub *entity.PushSubscription, payload *entity.PushPayload) error
}

// SubscriptionBackend submits a subscription record to the persistence
// backend. A single best-effort attempt; retry policy is the caller's
// concern and deliberately absent here.
type SubscriptionBackend interface {
	Submit(ctx context.Context, record *entity.SubscriptionRecord) error
}
