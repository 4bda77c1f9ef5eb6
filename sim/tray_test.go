package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrayRegistry_AcquireRelease_Lifecycle(t *testing.T) {
	// GIVEN two shelved trays
	r := NewTrayRegistry([]string{"a", "b"})
	assert.Equal(t, []string{"a", "b"}, r.Available())

	// WHEN a is acquired
	require.NoError(t, r.Acquire("a", TrayCarryingFromShelf))

	// THEN only b is available
	assert.False(t, r.IsAvailable("a"))
	assert.True(t, r.IsAvailable("b"))
	assert.Equal(t, []string{"b"}, r.Available())

	// WHEN a moves through its trip and is released
	require.NoError(t, r.SetState("a", TrayUsingMaterial))
	state, ok := r.State("a")
	require.True(t, ok)
	assert.Equal(t, TrayUsingMaterial, state)
	require.NoError(t, r.Release("a"))

	// THEN it is available again
	assert.True(t, r.IsAvailable("a"))
}

func TestTrayRegistry_AcquireHeldTray_Fails(t *testing.T) {
	r := NewTrayRegistry([]string{"a"})
	require.NoError(t, r.Acquire("a", TrayCarryingFromShelf))

	err := r.Acquire("a", TrayCarryingFromShelf)

	assert.ErrorIs(t, err, ErrTrayUnavailable)
}

func TestTrayRegistry_UnknownTray(t *testing.T) {
	r := NewTrayRegistry([]string{"a"})

	assert.False(t, r.IsAvailable("zzz"))
	assert.ErrorIs(t, r.Acquire("zzz", TrayCarryingFromShelf), ErrUnknownTray)
	assert.ErrorIs(t, r.Release("zzz"), ErrUnknownTray)
	assert.ErrorIs(t, r.SetState("zzz", TrayUsingMaterial), ErrUnknownTray)
	_, ok := r.State("zzz")
	assert.False(t, ok)
}

func TestTrayRegistry_Empty_NothingAvailable(t *testing.T) {
	r := NewTrayRegistry(nil)
	assert.Empty(t, r.Available())
	assert.Equal(t, 0, r.Len())
}

func TestTrayStateFor_MirrorsStudentState(t *testing.T) {
	assert.Equal(t, TrayOnShelf, TrayStateFor(StudentIdle))
	assert.Equal(t, TrayCarryingFromShelf, TrayStateFor(StudentCarryingFromShelf))
	assert.Equal(t, TrayUsingMaterial, TrayStateFor(StudentUsingMaterial))
	assert.Equal(t, TrayCarryingToShelf, TrayStateFor(StudentCarryingToShelf))
}

func TestStateStrings(t *testing.T) {
	assert.Equal(t, "on_shelf", TrayOnShelf.String())
	assert.Equal(t, "TrayState(5)", TrayState(5).String())
	assert.Equal(t, "using_material", StudentUsingMaterial.String())
	assert.Equal(t, "StudentState(-1)", StudentState(-1).String())
}
