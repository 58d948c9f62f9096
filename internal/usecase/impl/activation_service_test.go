package impl

import (
	"context"
	"encoding/base64"
	"testing"

	"citapush/config"
	"citapush/internal/domain/entity"
	domainerrors "citapush/internal/domain/errors"
	"citapush/internal/domain/service"
	"citapush/internal/errors"
	"citapush/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePushService struct {
	sub        *entity.PushSubscription
	subscribes int
	lastOpts   service.SubscribeOptions
}

func (f *fakePushService) GetSubscription(_ context.Context) (*entity.PushSubscription, error) {
	return f.sub, nil
}

func (f *fakePushService) Subscribe(_ context.Context, opts service.SubscribeOptions) (*entity.PushSubscription, error) {
	f.subscribes++
	f.lastOpts = opts
	f.sub = &entity.PushSubscription{
		Endpoint: "https://push.example/minted",
		Keys:     entity.SubscriptionKeys{P256dh: "p256", Auth: "auth"},
	}

	return f.sub, nil
}

func (f *fakePushService) Unsubscribe(_ context.Context) error {
	f.sub = nil

	return nil
}

type fakeRegistrar struct {
	supported   bool
	pushSvc     service.PushService
	registerErr error
	registers   int
	lastScript  string
}

func (f *fakeRegistrar) Supported() bool { return f.supported }

func (f *fakeRegistrar) Register(_ context.Context, scriptPath string) (service.PushService, error) {
	f.registers++
	f.lastScript = scriptPath
	if f.registerErr != nil {
		return nil, f.registerErr
	}

	return f.pushSvc, nil
}

type grantedGate struct{}

func (grantedGate) Resolve(_ context.Context) (entity.PermissionState, error) {
	return entity.PermissionGranted, nil
}

type deniedGate struct{ resolves int }

func (g *deniedGate) Resolve(_ context.Context) (entity.PermissionState, error) {
	g.resolves++

	return entity.PermissionDenied, domainerrors.ErrPermissionDenied
}

type fakeBackend struct {
	submits int
	err     error
	last    *entity.SubscriptionRecord
}

func (f *fakeBackend) Submit(_ context.Context, record *entity.SubscriptionRecord) error {
	f.submits++
	f.last = record

	return f.err
}

func activationConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Worker.ScriptPath = "/service-worker.js"
	cfg.Push = &config.PushConfig{
		PublicKey: base64.RawURLEncoding.EncodeToString([]byte("server-public-key")),
	}

	return cfg
}

func newActivation(registrar service.WorkerRegistrar, gate usecase.PermissionUsecase, backend service.SubscriptionBackend) usecase.ActivationUsecase {
	return NewActivationService(activationConfig(), registrar, gate, backend, newDiscardLogger())
}

func TestActivation_UnsupportedRuntime(t *testing.T) {
	registrar := &fakeRegistrar{supported: false}
	backend := &fakeBackend{}
	svc := newActivation(registrar, grantedGate{}, backend)

	_, err := svc.Initialize(context.Background(), "42")

	assert.ErrorIs(t, err, domainerrors.ErrCapabilityUnsupported)
	assert.False(t, domainerrors.Retryable(err))
	assert.Zero(t, registrar.registers)
	assert.Zero(t, backend.submits)
}

func TestActivation_RegistrationFailure(t *testing.T) {
	registrar := &fakeRegistrar{supported: true, registerErr: errors.New("fetch failed")}
	backend := &fakeBackend{}
	svc := newActivation(registrar, grantedGate{}, backend)

	_, err := svc.Initialize(context.Background(), "42")

	assert.ErrorIs(t, err, domainerrors.ErrWorkerRegistrationFailed)
	assert.True(t, domainerrors.Retryable(err))
	assert.Zero(t, backend.submits)
}

func TestActivation_DeniedStopsBeforeSubscribing(t *testing.T) {
	pushSvc := &fakePushService{}
	registrar := &fakeRegistrar{supported: true, pushSvc: pushSvc}
	backend := &fakeBackend{}
	gate := &deniedGate{}
	svc := newActivation(registrar, gate, backend)

	_, err := svc.Initialize(context.Background(), "42")

	assert.ErrorIs(t, err, domainerrors.ErrPermissionDenied)
	assert.Equal(t, 1, gate.resolves)
	assert.Zero(t, pushSvc.subscribes)
	assert.Zero(t, backend.submits)
}

func TestActivation_FullFlow(t *testing.T) {
	pushSvc := &fakePushService{}
	registrar := &fakeRegistrar{supported: true, pushSvc: pushSvc}
	backend := &fakeBackend{}
	svc := newActivation(registrar, grantedGate{}, backend)

	submitted, err := svc.Initialize(context.Background(), "42")

	require.NoError(t, err)
	assert.True(t, submitted)
	assert.Equal(t, "/service-worker.js", registrar.lastScript)
	assert.Equal(t, 1, pushSvc.subscribes)
	assert.True(t, pushSvc.lastOpts.UserVisibleOnly)
	assert.Equal(t, []byte("server-public-key"), pushSvc.lastOpts.ApplicationServerKey)

	require.NotNil(t, backend.last)
	assert.Equal(t, "42", backend.last.SubscriberID)
	assert.Equal(t, "https://push.example/minted", backend.last.Subscription.Endpoint)
}

func TestActivation_SecondCallIsNoOp(t *testing.T) {
	pushSvc := &fakePushService{}
	registrar := &fakeRegistrar{supported: true, pushSvc: pushSvc}
	backend := &fakeBackend{}
	svc := newActivation(registrar, grantedGate{}, backend)

	active, err := svc.Initialize(context.Background(), "42")
	require.NoError(t, err)
	assert.True(t, active)

	// Still reports active, but re-runs nothing
	active, err = svc.Initialize(context.Background(), "42")
	require.NoError(t, err)
	assert.True(t, active)

	assert.Equal(t, 1, registrar.registers)
	assert.Equal(t, 1, backend.submits)
}

func TestActivation_ReusesExistingSubscription(t *testing.T) {
	pushSvc := &fakePushService{sub: &entity.PushSubscription{
		Endpoint: "https://push.example/survivor",
		Keys:     entity.SubscriptionKeys{P256dh: "p", Auth: "a"},
	}}
	registrar := &fakeRegistrar{supported: true, pushSvc: pushSvc}
	backend := &fakeBackend{}
	svc := newActivation(registrar, grantedGate{}, backend)

	_, err := svc.Initialize(context.Background(), "42")

	require.NoError(t, err)
	assert.Zero(t, pushSvc.subscribes)
	assert.Equal(t, "https://push.example/survivor", backend.last.Subscription.Endpoint)
}

func TestActivation_BackendFailureLeavesFlowRetryable(t *testing.T) {
	pushSvc := &fakePushService{}
	registrar := &fakeRegistrar{supported: true, pushSvc: pushSvc}
	backend := &fakeBackend{err: domainerrors.ErrBackendSubmissionFailed}
	svc := newActivation(registrar, grantedGate{}, backend)

	_, err := svc.Initialize(context.Background(), "42")
	assert.ErrorIs(t, err, domainerrors.ErrBackendSubmissionFailed)
	assert.True(t, domainerrors.Retryable(err))

	// Retry succeeds, reusing the registration and the minted subscription
	backend.err = nil
	submitted, err := svc.Initialize(context.Background(), "42")
	require.NoError(t, err)
	assert.True(t, submitted)
	assert.Equal(t, 1, registrar.registers)
	assert.Equal(t, 1, pushSvc.subscribes)
	assert.Equal(t, 2, backend.submits)
}
