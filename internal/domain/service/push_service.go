package service

import (
	"context"

	"citapush/internal/domain/entity"
)

// SubscribeOptions mirror the platform subscribe call: pushes must be
// user visible and the delivery service is identified by its VAPID
// public key as a raw uncompressed EC point.
type SubscribeOptions struct {
	UserVisibleOnly      bool
	ApplicationServerKey []byte
}

// PushService is the platform push manager attached to one worker
// registration. Implementations must hold at most one active
// subscription: Subscribe after a successful Subscribe without an
// intervening Unsubscribe returns the same subscription.
type PushService interface {
	// GetSubscription returns the existing subscription, or nil when none
	GetSubscription(ctx context.Context) (*entity.PushSubscription, error)

	// Subscribe creates a subscription, or returns the existing one
	Subscribe(ctx context.Context, opts SubscribeOptions) (*entity.PushSubscription, error)

	// Unsubscribe drops the active subscription if any
	Unsubscribe(ctx context.Context) error
}

// WorkerRegistrar registers the background worker at a fixed well-known
// script path and exposes the push manager of the resulting registration.
type WorkerRegistrar interface {
	// Supported reports whether worker and push capabilities exist at all
	Supported() bool

	// Register fetches and registers the worker script
	Register(ctx context.Context, scriptPath string) (PushService, error)
}
