// Package ui binds the activation flow to an activation control: a
// button-like element with a label and an enabled flag. The control
// reflects exactly one of four states and a retryable failure re-arms
// it for another attempt.
package ui

import (
	"context"
	"log/slog"
	"sync"

	domainerrors "citapush/internal/domain/errors"
	"citapush/internal/errors"
	"citapush/internal/usecase"
)

// Control labels, one per binding state.
const (
	LabelIdle        = "🔔 Activar Notificaciones Push"
	LabelBusy        = "⏳ Activando..."
	LabelActivated   = "🔔 Notificaciones Activadas ✅"
	LabelBlocked     = "🔔 Permiso Bloqueado 😞"
	LabelUnsupported = "🔔 Notificaciones No Soportadas 😞"
)

// State is the activation control's presentation state.
type State string

const (
	StateIdle        State = "idle"
	StateBusy        State = "busy"
	StateActivated   State = "activated"
	StateBlocked     State = "blocked"
	StateUnsupported State = "unsupported"
)

// Snapshot is one observable view of the control.
type Snapshot struct {
	State   State  `json:"state"`
	Label   string `json:"label"`
	Enabled bool   `json:"enabled"`
}

// Binding drives the activation control. Activate is what the click
// handler calls; the binding serializes clicks, so a second click while
// one activation is in flight is ignored.
type Binding struct {
	activation usecase.ActivationUsecase
	logger     *slog.Logger

	mu    sync.Mutex
	state State
}

// NewBinding creates the control binding in the idle state.
func NewBinding(activation usecase.ActivationUsecase, logger *slog.Logger) *Binding {
	return &Binding{
		activation: activation,
		logger:     logger,
		state:      StateIdle,
	}
}

// Snapshot returns the control's current presentation.
func (b *Binding) Snapshot() Snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case StateBusy:
		return Snapshot{State: StateBusy, Label: LabelBusy, Enabled: false}
	case StateActivated:
		return Snapshot{State: StateActivated, Label: LabelActivated, Enabled: false}
	case StateBlocked:
		return Snapshot{State: StateBlocked, Label: LabelBlocked, Enabled: false}
	case StateUnsupported:
		return Snapshot{State: StateUnsupported, Label: LabelUnsupported, Enabled: false}
	default:
		return Snapshot{State: StateIdle, Label: LabelIdle, Enabled: true}
	}
}

// Activate runs the activation flow for the subscriber and settles the
// control: activated on success, blocked on a terminal failure, back to
// idle on a retryable one. The flow error is returned so the caller can
// surface its message.
func (b *Binding) Activate(ctx context.Context, subscriberID string) error {
	b.mu.Lock()
	if b.state != StateIdle {
		state := b.state
		b.mu.Unlock()
		b.logger.Debug("Activation click ignored", slog.String("state", string(state)))

		return nil
	}
	b.state = StateBusy
	b.mu.Unlock()

	_, err := b.activation.Initialize(ctx, subscriberID)

	b.mu.Lock()
	defer b.mu.Unlock()

	if err == nil {
		b.state = StateActivated

		return nil
	}

	switch {
	case domainerrors.Retryable(err):
		// Re-arm so the user can try again
		b.state = StateIdle
	case errors.Is(err, domainerrors.ErrCapabilityUnsupported):
		b.state = StateUnsupported
	default:
		b.state = StateBlocked
	}

	return err
}
