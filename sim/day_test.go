package sim

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inference-sim/classroom-sim/sim/internal/testutil"
)

func TestDayWindow_Resolve_DefaultHoursInZone(t *testing.T) {
	// GIVEN a winter day in Los Angeles
	day := NewDayWindow("2024-01-15", "America/Los_Angeles")

	// WHEN resolved
	start, end, err := day.Resolve()
	require.NoError(t, err)

	// THEN the window is 08:00-16:00 local (UTC-8)
	assert.Equal(t, time.Date(2024, 1, 15, 16, 0, 0, 0, time.UTC), start.UTC())
	assert.Equal(t, time.Date(2024, 1, 16, 0, 0, 0, 0, time.UTC), end.UTC())
	assert.Equal(t, "America/Los_Angeles", start.Location().String())
}

func TestDayWindow_Resolve_Invalid(t *testing.T) {
	tests := []struct {
		name string
		day  DayWindow
	}{
		{"unknown zone", DayWindow{Date: "2024-01-15", TimeZone: "Mars/Olympus", StartHour: 8, EndHour: 16}},
		{"bad date", DayWindow{Date: "15/01/2024", TimeZone: "UTC", StartHour: 8, EndHour: 16}},
		{"hour out of range", DayWindow{Date: "2024-01-15", TimeZone: "UTC", StartHour: 8, EndHour: 24}},
		{"end before start", DayWindow{Date: "2024-01-15", TimeZone: "UTC", StartHour: 16, EndHour: 8}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := tt.day.Resolve()
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestGenerateDay_ShortDay_ProducesRecordsInsideWindow(t *testing.T) {
	// GIVEN a one-hour day with busy students
	day := DayWindow{Date: "2024-03-04", TimeZone: "Europe/Berlin", StartHour: 9, EndHour: 10}
	cfg := busyConfig(3)

	// WHEN generated
	res, err := GenerateDay(day, testutil.StudentIDs(3), testutil.MaterialLookup(2), cfg)
	require.NoError(t, err)

	// THEN every record starts inside the window
	start, end, err := day.Resolve()
	require.NoError(t, err)
	require.NotEmpty(t, res.TrayInteractions)
	for _, ti := range res.TrayInteractions {
		assert.False(t, ti.Start.Before(start), ti.ID)
		assert.True(t, ti.Start.Before(end), ti.ID)
	}
	assertRecordsWellFormed(t, res)
}
