// Package pushservice provides a local stand-in for the platform push
// service: it mints subscriptions whose endpoints route to the worker's
// push delivery endpoint.
package pushservice

import (
	"context"
	"crypto/ecdh"
	"crypto/rand"
	"log/slog"
	"strings"
	"sync"

	"citapush/internal/domain/entity"
	domainerrors "citapush/internal/domain/errors"
	"citapush/internal/domain/service"
	"citapush/internal/keycodec"

	"github.com/google/uuid"
)

const authSecretLen = 16

// Local mints push subscriptions for one worker registration and holds
// at most one at a time: Subscribe with an existing subscription returns
// it unchanged, matching the platform idempotency contract.
type Local struct {
	endpointBase string
	logger       *slog.Logger

	mu      sync.Mutex
	current *entity.PushSubscription
}

// NewLocal creates a push service whose endpoints live under
// endpointBase, e.g. "http://localhost:8081/push".
func NewLocal(endpointBase string, logger *slog.Logger) *Local {
	return &Local{
		endpointBase: strings.TrimRight(endpointBase, "/"),
		logger:       logger,
	}
}

// GetSubscription returns the active subscription, or nil when none
// exists.
func (l *Local) GetSubscription(_ context.Context) (*entity.PushSubscription, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.current, nil
}

// Subscribe mints a subscription. The application server key must be an
// uncompressed P-256 point and pushes must be user visible, mirroring
// the platform constraints.
func (l *Local) Subscribe(_ context.Context, opts service.SubscribeOptions) (*entity.PushSubscription, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.current != nil {
		return l.current, nil
	}

	if !opts.UserVisibleOnly {
		return nil, domainerrors.ErrSubscriptionCreationFailed.WithDetails("silent pushes are not permitted")
	}
	if len(opts.ApplicationServerKey) != 65 || opts.ApplicationServerKey[0] != 0x04 {
		return nil, domainerrors.ErrSubscriptionCreationFailed.WithDetails("application server key is not an uncompressed P-256 point")
	}

	clientKey, err := ecdh.P256().GenerateKey(rand.Reader)
	if err != nil {
		return nil, domainerrors.ErrSubscriptionCreationFailed.WithDetails(err.Error())
	}

	auth := make([]byte, authSecretLen)
	if _, err := rand.Read(auth); err != nil {
		return nil, domainerrors.ErrSubscriptionCreationFailed.WithDetails(err.Error())
	}

	l.current = &entity.PushSubscription{
		Endpoint: l.endpointBase + "/" + uuid.New().String(),
		Keys: entity.SubscriptionKeys{
			P256dh: keycodec.Encode(clientKey.PublicKey().Bytes()),
			Auth:   keycodec.Encode(auth),
		},
	}

	l.logger.Info("Push subscription created",
		slog.String("endpoint", l.current.Endpoint),
	)

	return l.current, nil
}

// Unsubscribe drops the active subscription.
func (l *Local) Unsubscribe(_ context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.current = nil

	return nil
}
