package manager

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adfharrison1/go-docsync/pkg/domain"
)

func TestRegistry_Open(t *testing.T) {
	engine := newFakeEngine()
	registry := NewRegistry(engine, nil)

	first, err := registry.Open("pets")
	require.NoError(t, err)
	assert.Equal(t, "pets", first.Name())
	assert.Equal(t, "pets", registry.CurrentName())

	second, err := registry.Open("pets")
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, 1, engine.opened["pets"], "second open must reuse the handle")
}

func TestRegistry_OpenSwitchesCurrent(t *testing.T) {
	registry := NewRegistry(newFakeEngine(), nil)

	_, err := registry.Open("a")
	require.NoError(t, err)
	_, err = registry.Open("b")
	require.NoError(t, err)

	current, err := registry.Current()
	require.NoError(t, err)
	assert.Equal(t, "b", current.Name())

	_, err = registry.Open("a")
	require.NoError(t, err)
	current, err = registry.Current()
	require.NoError(t, err)
	assert.Equal(t, "a", current.Name())
	assert.Equal(t, []string{"a", "b"}, registry.Names())
}

func TestRegistry_OpenErrors(t *testing.T) {
	t.Run("engine failure", func(t *testing.T) {
		engine := newFakeEngine()
		engine.openErr = errors.New("disk full")
		registry := NewRegistry(engine, nil)

		_, err := registry.Open("pets")
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrStorageOpen)
		assert.Contains(t, err.Error(), "disk full")
		assert.Equal(t, "", registry.CurrentName())
	})

	t.Run("empty name", func(t *testing.T) {
		registry := NewRegistry(newFakeEngine(), nil)
		_, err := registry.Open("")
		assert.ErrorIs(t, err, domain.ErrStorageOpen)
	})
}

func TestRegistry_CurrentBeforeOpen(t *testing.T) {
	registry := NewRegistry(newFakeEngine(), nil)
	_, err := registry.Current()
	assert.ErrorIs(t, err, domain.ErrNoCurrentDatabase)
}

func TestRegistry_Get(t *testing.T) {
	registry := NewRegistry(newFakeEngine(), nil)
	_, err := registry.Open("a")
	require.NoError(t, err)
	_, err = registry.Open("b")
	require.NoError(t, err)

	handle, ok := registry.Get("a")
	require.True(t, ok)
	assert.Equal(t, "a", handle.Name())
	assert.Equal(t, "b", registry.CurrentName(), "get must not change the current database")

	_, ok = registry.Get("missing")
	assert.False(t, ok)
}

func TestRegistry_Close(t *testing.T) {
	engine := newFakeEngine()
	registry := NewRegistry(engine, nil)
	_, err := registry.Open("a")
	require.NoError(t, err)

	require.NoError(t, registry.Close())
	assert.True(t, engine.handles["a"].closed)
	assert.Empty(t, registry.Names())

	_, err = registry.Current()
	assert.ErrorIs(t, err, domain.ErrNoCurrentDatabase)
}
