package usecase

import (
	"context"

	"citapush/internal/domain/entity"
)

// NotifyResult summarizes one fan-out to a subscriber's subscriptions.
type NotifyResult struct {
	Sent   int `json:"sent"`
	Failed int `json:"failed"`
	Pruned int `json:"pruned"`
}

// NotificationUsecase defines the interface for outbound push delivery
type NotificationUsecase interface {
	// Notify delivers the payload to every subscription stored for the
	// subscriber, pruning records the delivery service reports gone.
	Notify(ctx context.Context, subscriberID string, payload *entity.PushPayload) (*NotifyResult, error)
}
