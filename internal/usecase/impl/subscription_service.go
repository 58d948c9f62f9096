package impl

import (
	"context"
	"log/slog"

	"citapush/internal/domain/entity"
	domainerrors "citapush/internal/domain/errors"
	"citapush/internal/domain/repository"
	"citapush/internal/errors"
	"citapush/internal/usecase"
)

type subscriptionService struct {
	repo   repository.SubscriptionRepository
	logger *slog.Logger
}

// NewSubscriptionService creates the subscription storage use case.
func NewSubscriptionService(
	repo repository.SubscriptionRepository,
	logger *slog.Logger,
) usecase.SubscriptionUsecase {
	return &subscriptionService{
		repo:   repo,
		logger: logger,
	}
}

func (s *subscriptionService) Store(ctx context.Context, record *entity.SubscriptionRecord) error {
	if record == nil || record.Subscription.Endpoint == "" ||
		record.Subscription.Keys.P256dh == "" || record.Subscription.Keys.Auth == "" {
		return domainerrors.ErrInvalidSubscription
	}

	if err := s.repo.Save(ctx, record); err != nil {
		return errors.Wrap(err, "save subscription")
	}

	s.logger.Info("Suscripción guardada",
		slog.String("subscriber_id", record.SubscriberID),
		slog.String("endpoint", record.Subscription.Endpoint),
	)

	return nil
}

func (s *subscriptionService) ListBySubscriber(ctx context.Context, subscriberID string) ([]*entity.SubscriptionRecord, error) {
	return s.repo.FindBySubscriber(ctx, subscriberID)
}

func (s *subscriptionService) Remove(ctx context.Context, endpoint string) error {
	if err := s.repo.Delete(ctx, endpoint); err != nil {
		if errors.Is(err, repository.ErrSubscriptionNotFound) {
			return domainerrors.ErrSubscriptionNotFound
		}

		return errors.Wrap(err, "delete subscription")
	}

	return nil
}
