package service

import (
	"context"

	"citapush/internal/domain/entity"
)

// Notifier renders notifications on the platform.
type Notifier interface {
	// Show renders a notification
	Show(ctx context.Context, intent *entity.NotificationIntent) error

	// Close dismisses a rendered notification by id
	Close(ctx context.Context, id string) error
}

// ClientRegistry is the platform window/client capability: navigating to
// a URL focuses an already open client instead of opening a duplicate.
type ClientRegistry interface {
	// OpenOrFocus opens url, or focuses the client already showing it
	OpenOrFocus(ctx context.Context, url string) error
}
