package worker

import (
	"context"
	"log/slog"

	"citapush/internal/assetcache"
	domainerrors "citapush/internal/domain/errors"
	"citapush/internal/domain/service"
	"citapush/internal/errors"
)

// Registrar registers an in-process worker: it verifies the worker
// script is reachable at its well-known path on the origin, then runs
// the install/activate chain before handing back the push manager.
type Registrar struct {
	registration *Registration
	fetcher      assetcache.Fetcher
	logger       *slog.Logger
}

// NewRegistrar creates a registrar for one registration.
func NewRegistrar(registration *Registration, fetcher assetcache.Fetcher, logger *slog.Logger) *Registrar {
	return &Registrar{
		registration: registration,
		fetcher:      fetcher,
		logger:       logger,
	}
}

// Supported reports worker/push capability. The in-process runtime
// always has it; other runtimes may not.
func (r *Registrar) Supported() bool {
	return r.registration != nil
}

// Register fetches the worker script from the origin and walks the
// lifecycle chain. A script fetch failure or a failed install aborts the
// registration; an already activated worker is reused as is.
func (r *Registrar) Register(ctx context.Context, scriptPath string) (service.PushService, error) {
	if r.registration == nil {
		return nil, domainerrors.ErrCapabilityUnsupported
	}

	if _, err := r.fetcher.Fetch(ctx, scriptPath); err != nil {
		return nil, errors.Wrapf(err, "fetch worker script %q", scriptPath)
	}

	switch r.registration.State() {
	case StateActivated:
		// Re-registering the same scope returns the existing registration
		return r.registration.PushManager(), nil
	case StateInstalling:
		if err := r.registration.Install(ctx); err != nil {
			return nil, err
		}
		if err := r.registration.Activate(ctx); err != nil {
			return nil, err
		}
	case StateInstalled:
		if err := r.registration.Activate(ctx); err != nil {
			return nil, err
		}
	default:
		return nil, errors.Errorf("worker registration in unexpected state %s", r.registration.State())
	}

	r.logger.Info("Worker registered", slog.String("script", scriptPath))

	return r.registration.PushManager(), nil
}
