// Package notify implements the platform notification primitives: a
// notifier that renders to the structured log and a client registry with
// focus-if-open navigation semantics.
package notify

import (
	"context"
	"log/slog"
	"sync"

	"citapush/internal/domain/entity"
)

// LogNotifier renders notifications as structured log records. It stands
// in for the platform notification tray in a headless process.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier creates a log-backed notifier.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Show renders the notification.
func (n *LogNotifier) Show(_ context.Context, intent *entity.NotificationIntent) error {
	n.logger.Info("🔔 Notification",
		slog.String("id", intent.ID),
		slog.String("title", intent.Title),
		slog.String("body", intent.Body),
		slog.String("url", intent.Data.URL),
		slog.String("cita_id", intent.Data.CitaID.String()),
	)

	return nil
}

// Close dismisses the notification.
func (n *LogNotifier) Close(_ context.Context, id string) error {
	n.logger.Debug("Notification closed", slog.String("id", id))

	return nil
}

// ClientRegistry tracks which URLs have an open client. OpenOrFocus
// focuses an existing client instead of opening a duplicate, the way the
// platform windowing capability behaves.
type ClientRegistry struct {
	logger *slog.Logger

	mu   sync.Mutex
	open map[string]int
}

// NewClientRegistry creates an empty client registry.
func NewClientRegistry(logger *slog.Logger) *ClientRegistry {
	return &ClientRegistry{
		logger: logger,
		open:   make(map[string]int),
	}
}

// OpenOrFocus opens url, or focuses the already open client for it.
func (r *ClientRegistry) OpenOrFocus(_ context.Context, url string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.open[url] > 0 {
		r.logger.Info("Focused existing client", slog.String("url", url))

		return nil
	}

	r.open[url]++
	r.logger.Info("Opened client", slog.String("url", url))

	return nil
}

// OpenCount reports how many clients are open for url.
func (r *ClientRegistry) OpenCount(url string) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.open[url]
}
