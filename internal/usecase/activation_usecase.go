package usecase

import "context"

// ActivationUsecase defines the interface for the push activation flow
type ActivationUsecase interface {
	// Initialize runs the full activation sequence for the given
	// subscriber: capability check, worker registration, permission
	// resolution, subscription creation and backend submission. It
	// reports whether push activation is in effect, so a call after the
	// flow already completed returns true without re-running anything.
	// Safe to call again after a retryable failure.
	Initialize(ctx context.Context, subscriberID string) (bool, error)
}
