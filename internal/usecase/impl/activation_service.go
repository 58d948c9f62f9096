package impl

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"citapush/config"
	"citapush/internal/domain/entity"
	domainerrors "citapush/internal/domain/errors"
	"citapush/internal/domain/service"
	"citapush/internal/keycodec"
	"citapush/internal/usecase"
)

type activationService struct {
	cfg        *config.Config
	registrar  service.WorkerRegistrar
	permission usecase.PermissionUsecase
	backend    service.SubscriptionBackend
	logger     *slog.Logger

	mu          sync.Mutex
	initialized bool
	pushSvc     service.PushService
}

// NewActivationService creates the activation flow use case.
func NewActivationService(
	cfg *config.Config,
	registrar service.WorkerRegistrar,
	permission usecase.PermissionUsecase,
	backend service.SubscriptionBackend,
	logger *slog.Logger,
) usecase.ActivationUsecase {
	return &activationService{
		cfg:        cfg,
		registrar:  registrar,
		permission: permission,
		backend:    backend,
		logger:     logger,
	}
}

// Initialize is idempotent per process: once the backend has confirmed
// the subscription, later calls return without touching the platform or
// the network. Any earlier failure leaves the flag unset so the whole
// flow can be retried.
func (s *activationService) Initialize(ctx context.Context, subscriberID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.initialized {
		s.logger.Debug("Push already initialized", slog.String("subscriber_id", subscriberID))

		return true, nil
	}

	if !s.registrar.Supported() {
		s.logger.Warn("Push capabilities unsupported in this runtime")

		return false, domainerrors.ErrCapabilityUnsupported
	}

	pushSvc, err := s.register(ctx)
	if err != nil {
		return false, err
	}

	if _, err := s.permission.Resolve(ctx); err != nil {
		return false, err
	}

	sub, err := s.subscription(ctx, pushSvc)
	if err != nil {
		return false, err
	}

	record := &entity.SubscriptionRecord{
		Subscription: *sub,
		SubscriberID: subscriberID,
		CreatedAt:    time.Now(),
	}
	if err := s.backend.Submit(ctx, record); err != nil {
		return false, err
	}

	s.initialized = true
	s.logger.Info("✅ Push notifications activadas",
		slog.String("subscriber_id", subscriberID),
		slog.String("endpoint", sub.Endpoint),
	)

	return true, nil
}

// register reuses the push manager from an earlier attempt; the worker
// script does not change between retries within one process.
func (s *activationService) register(ctx context.Context) (service.PushService, error) {
	if s.pushSvc != nil {
		return s.pushSvc, nil
	}

	pushSvc, err := s.registrar.Register(ctx, s.cfg.Worker.ScriptPath)
	if err != nil {
		s.logger.Error("Worker registration failed", slog.Any("error", err))

		return nil, domainerrors.ErrWorkerRegistrationFailed.WithDetails(err.Error())
	}
	s.pushSvc = pushSvc
	s.logger.Info("Service worker registrado", slog.String("script", s.cfg.Worker.ScriptPath))

	return pushSvc, nil
}

// subscription returns the existing subscription when one survives from
// an earlier session, otherwise creates a fresh one bound to the
// configured VAPID public key.
func (s *activationService) subscription(ctx context.Context, pushSvc service.PushService) (*entity.PushSubscription, error) {
	sub, err := pushSvc.GetSubscription(ctx)
	if err != nil {
		return nil, domainerrors.ErrSubscriptionCreationFailed.WithDetails(err.Error())
	}
	if sub != nil {
		s.logger.Debug("Reusing existing push subscription", slog.String("endpoint", sub.Endpoint))

		return sub, nil
	}

	serverKey, err := keycodec.Decode(s.cfg.Push.PublicKey)
	if err != nil {
		return nil, domainerrors.ErrSubscriptionCreationFailed.WithDetails(err.Error())
	}

	sub, err = pushSvc.Subscribe(ctx, service.SubscribeOptions{
		UserVisibleOnly:      true,
		ApplicationServerKey: serverKey,
	})
	if err != nil {
		s.logger.Error("Subscription creation failed", slog.Any("error", err))

		return nil, domainerrors.ErrSubscriptionCreationFailed.WithDetails(err.Error())
	}

	return sub, nil
}
