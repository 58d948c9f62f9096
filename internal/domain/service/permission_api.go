package service

import (
	"context"

	"citapush/internal/domain/entity"
)

// PermissionAPI is the platform notification permission primitive. The
// state is owned by the platform and must be re-read, never cached.
type PermissionAPI interface {
	// Current reads the permission state without prompting
	Current(ctx context.Context) (entity.PermissionState, error)

	// Request shows a single user-facing prompt and returns its outcome
	Request(ctx context.Context) (entity.PermissionState, error)
}
