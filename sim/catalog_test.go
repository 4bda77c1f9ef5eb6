package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCatalog_Bijective_SortedAndInvertible(t *testing.T) {
	c, err := NewCatalog(map[string]string{"tray-b": "mat-2", "tray-a": "mat-1", "tray-c": "mat-3"})
	require.NoError(t, err)

	assert.Equal(t, []string{"tray-a", "tray-b", "tray-c"}, c.Trays())
	assert.Equal(t, 3, c.Len())

	m, ok := c.MaterialFor("tray-b")
	assert.True(t, ok)
	assert.Equal(t, "mat-2", m)

	tr, ok := c.TrayFor("mat-3")
	assert.True(t, ok)
	assert.Equal(t, "tray-c", tr)

	_, ok = c.TrayFor("mat-9")
	assert.False(t, ok)
}

func TestNewCatalog_InvalidLookups_Rejected(t *testing.T) {
	tests := []struct {
		name   string
		lookup map[string]string
	}{
		{"shared material", map[string]string{"a": "m", "b": "m"}},
		{"empty tray id", map[string]string{"": "m"}},
		{"empty material id", map[string]string{"a": ""}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCatalog(tt.lookup)
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestNewCatalog_Empty_Allowed(t *testing.T) {
	c, err := NewCatalog(nil)
	require.NoError(t, err)
	assert.Equal(t, 0, c.Len())
	assert.Empty(t, c.Trays())
}

func TestCatalog_Trays_ReturnsCopy(t *testing.T) {
	c, err := NewCatalog(map[string]string{"a": "m"})
	require.NoError(t, err)

	trays := c.Trays()
	trays[0] = "mutated"

	assert.Equal(t, []string{"a"}, c.Trays())
}
