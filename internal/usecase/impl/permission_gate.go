package impl

import (
	"context"
	"log/slog"
	"sync"

	"citapush/internal/domain/entity"
	domainerrors "citapush/internal/domain/errors"
	"citapush/internal/domain/service"
	"citapush/internal/usecase"
)

type permissionGate struct {
	api    service.PermissionAPI
	logger *slog.Logger

	// mu serializes prompting so concurrent activations collapse into a
	// single user-facing prompt.
	mu sync.Mutex
}

// NewPermissionGate creates the permission resolution gate over the
// platform permission primitive.
func NewPermissionGate(api service.PermissionAPI, logger *slog.Logger) usecase.PermissionUsecase {
	return &permissionGate{
		api:    api,
		logger: logger,
	}
}

// Resolve never caches the state: the platform owns it and the user can
// change it between calls.
func (g *permissionGate) Resolve(ctx context.Context) (entity.PermissionState, error) {
	state, err := g.api.Current(ctx)
	if err != nil {
		return "", err
	}

	switch state {
	case entity.PermissionGranted:
		return entity.PermissionGranted, nil
	case entity.PermissionDenied:
		return entity.PermissionDenied, domainerrors.ErrPermissionDenied
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	// Another caller may have prompted while we waited for the lock
	state, err = g.api.Current(ctx)
	if err != nil {
		return "", err
	}
	if state != entity.PermissionDefault {
		if state == entity.PermissionDenied {
			return entity.PermissionDenied, domainerrors.ErrPermissionDenied
		}

		return state, nil
	}

	g.logger.Info("Requesting notification permission")

	state, err = g.api.Request(ctx)
	if err != nil {
		return "", err
	}
	if state != entity.PermissionGranted {
		g.logger.Warn("Notification permission not granted", slog.String("state", string(state)))

		return state, domainerrors.ErrPermissionDenied
	}

	return entity.PermissionGranted, nil
}
