// Package webpush delivers payloads to push subscriptions through the
// Web Push protocol with VAPID authorization.
package webpush

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"citapush/config"
	"citapush/internal/domain/entity"
	"citapush/internal/domain/service"
	"citapush/internal/errors"

	webpush "github.com/SherClockHolmes/webpush-go"
)

type sender struct {
	publicKey  string
	privateKey string
	subscriber string
	ttl        int
	logger     *slog.Logger
}

// NewSender creates a VAPID web push sender from config.
func NewSender(cfg *config.Config, logger *slog.Logger) (service.PushSender, error) {
	if cfg.Push == nil || cfg.Push.PublicKey == "" || cfg.Push.PrivateKey == "" {
		return nil, errors.New("web push sender requires a VAPID key pair")
	}

	return &sender{
		publicKey:  cfg.Push.PublicKey,
		privateKey: cfg.Push.PrivateKey,
		subscriber: cfg.Push.Subscriber,
		ttl:        cfg.Push.TTL,
		logger:     logger,
	}, nil
}

// Send encrypts and posts the payload to the subscription endpoint. A
// 404 or 410 from the delivery service means the subscription no longer
// exists and is reported as service.ErrSubscriptionGone for pruning.
func (s *sender) Send(ctx context.Context, sub *entity.PushSubscription, payload *entity.PushPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return errors.Wrap(err, "marshal push payload")
	}

	resp, err := webpush.SendNotificationWithContext(ctx, body, &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.Keys.P256dh,
			Auth:   sub.Keys.Auth,
		},
	}, &webpush.Options{
		Subscriber:      s.subscriber,
		VAPIDPublicKey:  s.publicKey,
		VAPIDPrivateKey: s.privateKey,
		TTL:             s.ttl,
	})
	if err != nil {
		return errors.Wrap(err, "send web push")
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
		return service.ErrSubscriptionGone
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return errors.Errorf("delivery service rejected push: status %d", resp.StatusCode)
	}

	s.logger.Debug("Push accepted by delivery service",
		slog.String("endpoint", sub.Endpoint),
		slog.Int("status", resp.StatusCode),
	)

	return nil
}

// GenerateVAPIDKeys mints a fresh VAPID key pair, both values URL-safe
// base64 without padding.
func GenerateVAPIDKeys() (privateKey, publicKey string, err error) {
	privateKey, publicKey, err = webpush.GenerateVAPIDKeys()
	if err != nil {
		return "", "", errors.Wrap(err, "generate VAPID keys")
	}

	return privateKey, publicKey, nil
}
