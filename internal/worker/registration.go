// Package worker models the background worker registration: the
// install/activate lifecycle, cache-first fetch handling and the push
// event pipeline, all independent of any page being open.
package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"citapush/config"
	"citapush/internal/assetcache"
	"citapush/internal/domain/entity"
	domainerrors "citapush/internal/domain/errors"
	"citapush/internal/domain/service"
	"citapush/internal/errors"

	"github.com/google/uuid"
)

// State is one phase of the worker lifecycle. Transitions are strictly
// ordered: installing -> installed -> activating -> activated. Fetch and
// push events are only handled once activated.
type State string

const (
	StateInstalling State = "installing"
	StateInstalled  State = "installed"
	StateActivating State = "activating"
	StateActivated  State = "activated"
)

var notificationVibrate = []int{200, 100, 200}

// Registration is the worker handle. Each lifecycle step and each push
// render runs under a lifetime-extending wait so the worker is not torn
// down with async work still pending.
type Registration struct {
	cfg      *config.Config
	cache    *assetcache.Cache
	registry *assetcache.Registry
	pushes   service.PushService
	notifier service.Notifier
	clients  service.ClientRegistry
	logger   *slog.Logger

	mu     sync.Mutex
	state  State
	shown  map[string]*entity.NotificationIntent
	extend sync.WaitGroup
}

// New creates a registration in the installing state.
func New(
	cfg *config.Config,
	cache *assetcache.Cache,
	registry *assetcache.Registry,
	pushes service.PushService,
	notifier service.Notifier,
	clients service.ClientRegistry,
	logger *slog.Logger,
) *Registration {
	return &Registration{
		cfg:      cfg,
		cache:    cache,
		registry: registry,
		pushes:   pushes,
		notifier: notifier,
		clients:  clients,
		logger:   logger,
		state:    StateInstalling,
		shown:    make(map[string]*entity.NotificationIntent),
	}
}

// State returns the current lifecycle state.
func (r *Registration) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.state
}

// PushManager exposes the push service attached to this registration.
func (r *Registration) PushManager() service.PushService {
	return r.pushes
}

// WaitIdle blocks until all lifetime-extended work has completed. Used
// on shutdown so pending notification renders are not dropped.
func (r *Registration) WaitIdle() {
	r.extend.Wait()
}

func (r *Registration) transition(from, to State) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != from {
		return errors.Errorf("worker lifecycle: cannot move to %s from %s", to, r.state)
	}
	r.state = to

	return nil
}

// Install populates the asset cache. The install step only completes,
// and the state only advances, once every manifest asset is stored.
func (r *Registration) Install(ctx context.Context) error {
	if err := r.transition(StateInstalling, StateInstalling); err != nil {
		return err
	}

	r.extend.Add(1)
	defer r.extend.Done()

	if err := r.cache.Populate(ctx); err != nil {
		return errors.Wrap(err, "worker install")
	}

	if err := r.transition(StateInstalling, StateInstalled); err != nil {
		return err
	}

	r.logger.Info("Worker installed", slog.String("cache", r.cache.Name()))

	return nil
}

// Activate claims control and drops superseded cache stores. Requires a
// completed install.
func (r *Registration) Activate(ctx context.Context) error {
	if err := r.transition(StateInstalled, StateActivating); err != nil {
		return err
	}

	r.extend.Add(1)
	defer r.extend.Done()

	dropped := r.registry.DropSuperseded(r.cfg.Cache.Prefix, r.cache.Name())
	if len(dropped) > 0 {
		r.logger.Info("Dropped superseded caches", slog.Any("caches", dropped))
	}

	if err := r.transition(StateActivating, StateActivated); err != nil {
		return err
	}

	r.logger.Info("Worker activated", slog.String("scope", r.cfg.Worker.Scope))

	return nil
}

func (r *Registration) requireActivated() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != StateActivated {
		return domainerrors.ErrWorkerNotActivated.WithDetails(string(r.state))
	}

	return nil
}

// HandleFetch answers an intercepted request cache-first with live
// network fallback.
func (r *Registration) HandleFetch(ctx context.Context, path string) (*assetcache.Entry, bool, error) {
	if err := r.requireActivated(); err != nil {
		return nil, false, err
	}

	return r.cache.Serve(ctx, path)
}

// HandlePush processes one inbound push message. A malformed or absent
// body degrades to a default-content notification; the message is never
// dropped and the parse error never propagates. The render runs as
// lifetime-extended work.
func (r *Registration) HandlePush(ctx context.Context, body []byte) (*entity.NotificationIntent, error) {
	if err := r.requireActivated(); err != nil {
		return nil, err
	}

	payload := DecodePayload(r.logger, body)
	intent := r.buildIntent(payload)

	r.mu.Lock()
	r.shown[intent.ID] = intent
	r.mu.Unlock()

	r.extend.Add(1)
	defer r.extend.Done()

	if err := r.notifier.Show(ctx, intent); err != nil {
		r.mu.Lock()
		delete(r.shown, intent.ID)
		r.mu.Unlock()

		return nil, errors.Wrap(err, "show notification")
	}

	r.logger.Info("Push rendered",
		slog.String("notification_id", intent.ID),
		slog.String("title", intent.Title),
	)

	return intent, nil
}

// HandleNotificationClick routes one user interaction. The notification
// is always closed first, whatever control was activated.
func (r *Registration) HandleNotificationClick(ctx context.Context, notificationID, action string) error {
	if err := r.requireActivated(); err != nil {
		return err
	}

	r.mu.Lock()
	intent := r.shown[notificationID]
	delete(r.shown, notificationID)
	r.mu.Unlock()

	if err := r.notifier.Close(ctx, notificationID); err != nil {
		r.logger.Warn("Failed to close notification",
			slog.String("notification_id", notificationID),
			slog.Any("error", err),
		)
	}

	if intent == nil {
		return domainerrors.ErrNotificationUnknown.WithDetails(notificationID)
	}

	switch {
	case action == entity.ActionView && intent.Data.CitaID != "":
		return r.clients.OpenOrFocus(ctx, r.cfg.Push.DefaultURL+"?cita="+intent.Data.CitaID.String())
	case action == entity.ActionDismiss:
		return nil
	default:
		// Plain click on the notification body
		return r.clients.OpenOrFocus(ctx, intent.Data.URL)
	}
}

// buildIntent resolves payload fields against the documented fallbacks
// and attaches the two named actions.
func (r *Registration) buildIntent(payload *entity.PushPayload) *entity.NotificationIntent {
	title := payload.Title
	if title == "" {
		title = entity.DefaultNotificationTitle
	}
	body := payload.Body
	if body == "" {
		body = entity.DefaultNotificationBody
	}
	url := payload.URL
	if url == "" {
		url = r.cfg.Push.DefaultURL
	}

	return &entity.NotificationIntent{
		ID:      uuid.New().String(),
		Title:   title,
		Body:    body,
		Icon:    entity.NotificationIcon,
		Badge:   entity.NotificationBadge,
		Vibrate: notificationVibrate,
		Data: entity.NotificationData{
			URL:       url,
			CitaID:    payload.CitaID,
			Timestamp: time.Now(),
		},
		Actions: []entity.NotificationAction{
			{Action: entity.ActionView, Title: "👁️ Ver", Icon: "/static/icons/eye-64.png"},
			{Action: entity.ActionDismiss, Title: "❌ Cerrar"},
		},
	}
}
