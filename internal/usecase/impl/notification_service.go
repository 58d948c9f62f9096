package impl

import (
	"context"
	"log/slog"

	"citapush/internal/domain/entity"
	"citapush/internal/domain/repository"
	"citapush/internal/domain/service"
	"citapush/internal/errors"
	"citapush/internal/usecase"
)

type notificationService struct {
	repo   repository.SubscriptionRepository
	sender service.PushSender
	logger *slog.Logger
}

// NewNotificationService creates the outbound push delivery use case.
func NewNotificationService(
	repo repository.SubscriptionRepository,
	sender service.PushSender,
	logger *slog.Logger,
) usecase.NotificationUsecase {
	return &notificationService{
		repo:   repo,
		sender: sender,
		logger: logger,
	}
}

// Notify fans the payload out to every stored subscription of the
// subscriber. Subscriptions the delivery service reports gone are pruned
// on the spot; other delivery errors are counted and logged but do not
// abort the fan-out.
func (s *notificationService) Notify(ctx context.Context, subscriberID string, payload *entity.PushPayload) (*usecase.NotifyResult, error) {
	records, err := s.repo.FindBySubscriber(ctx, subscriberID)
	if err != nil {
		return nil, errors.Wrap(err, "find subscriptions")
	}

	result := &usecase.NotifyResult{}
	for _, record := range records {
		err := s.sender.Send(ctx, &record.Subscription, payload)
		switch {
		case err == nil:
			result.Sent++
		case errors.Is(err, service.ErrSubscriptionGone):
			result.Pruned++
			if delErr := s.repo.Delete(ctx, record.Subscription.Endpoint); delErr != nil {
				s.logger.Warn("Failed to prune gone subscription",
					slog.String("endpoint", record.Subscription.Endpoint),
					slog.Any("error", delErr),
				)
			} else {
				s.logger.Info("Pruned gone subscription",
					slog.String("endpoint", record.Subscription.Endpoint),
				)
			}
		default:
			result.Failed++
			s.logger.Error("Push delivery failed",
				slog.String("endpoint", record.Subscription.Endpoint),
				slog.Any("error", err),
			)
		}
	}

	s.logger.Info("Push fan-out completed",
		slog.String("subscriber_id", subscriberID),
		slog.Int("sent", result.Sent),
		slog.Int("failed", result.Failed),
		slog.Int("pruned", result.Pruned),
	)

	return result, nil
}
