// Package permission implements the notification permission primitive
// for a terminal session: the prompt is a line read from the terminal
// and the decision persists for the lifetime of the process.
package permission

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"citapush/internal/domain/entity"
)

// Terminal prompts on out and reads the decision from in. The state
// starts undecided unless seeded, and once decided it never reverts, the
// same way a platform permission sticks until changed in settings.
type Terminal struct {
	in  *bufio.Reader
	out io.Writer

	mu    sync.Mutex
	state entity.PermissionState
}

// NewTerminal creates an undecided terminal prompter.
func NewTerminal(in io.Reader, out io.Writer) *Terminal {
	return &Terminal{
		in:    bufio.NewReader(in),
		out:   out,
		state: entity.PermissionDefault,
	}
}

// NewSeeded creates a prompter with a predetermined state, for sessions
// where the decision was already made.
func NewSeeded(state entity.PermissionState) *Terminal {
	return &Terminal{state: state}
}

// Current reads the permission state without prompting.
func (t *Terminal) Current(_ context.Context) (entity.PermissionState, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.state, nil
}

// Request shows the prompt and records the answer. Anything other than
// an explicit yes is a denial.
func (t *Terminal) Request(_ context.Context) (entity.PermissionState, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state != entity.PermissionDefault {
		return t.state, nil
	}

	fmt.Fprint(t.out, "¿Permitir notificaciones de citas? [s/n]: ")

	line, err := t.in.ReadString('\n')
	if err != nil && line == "" {
		return t.state, err
	}

	answer := strings.ToLower(strings.TrimSpace(line))
	if answer == "s" || answer == "si" || answer == "sí" || answer == "y" || answer == "yes" {
		t.state = entity.PermissionGranted
	} else {
		t.state = entity.PermissionDenied
	}

	return t.state, nil
}
