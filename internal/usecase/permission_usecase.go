package usecase

import (
	"context"

	"citapush/internal/domain/entity"
)

// PermissionUsecase defines the interface for notification permission resolution
type PermissionUsecase interface {
	// Resolve reads the current permission state and prompts at most once
	// when it is still undecided. Granted resolves without a prompt; a
	// denied state fails without a prompt.
	Resolve(ctx context.Context) (entity.PermissionState, error)
}
