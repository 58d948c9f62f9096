package permission

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"citapush/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTerminal_StartsUndecided(t *testing.T) {
	term := NewTerminal(strings.NewReader(""), &bytes.Buffer{})

	state, err := term.Current(context.Background())

	require.NoError(t, err)
	assert.Equal(t, entity.PermissionDefault, state)
}

func TestTerminal_AcceptsSpanishYes(t *testing.T) {
	var out bytes.Buffer
	term := NewTerminal(strings.NewReader("s\n"), &out)

	state, err := term.Request(context.Background())

	require.NoError(t, err)
	assert.Equal(t, entity.PermissionGranted, state)
	assert.Contains(t, out.String(), "¿Permitir notificaciones")

	// The decision sticks
	state, err = term.Current(context.Background())
	require.NoError(t, err)
	assert.Equal(t, entity.PermissionGranted, state)
}

func TestTerminal_AnythingElseDenies(t *testing.T) {
	term := NewTerminal(strings.NewReader("no gracias\n"), &bytes.Buffer{})

	state, err := term.Request(context.Background())

	require.NoError(t, err)
	assert.Equal(t, entity.PermissionDenied, state)
}

func TestTerminal_DecidedStateNeverRePrompts(t *testing.T) {
	var out bytes.Buffer
	term := NewSeeded(entity.PermissionGranted)
	term.out = &out

	state, err := term.Request(context.Background())

	require.NoError(t, err)
	assert.Equal(t, entity.PermissionGranted, state)
	assert.Empty(t, out.String())
}
