package sim

import (
	"fmt"
	"time"
)

// DateLayout is the calendar date format accepted by DayWindow.
const DateLayout = "2006-01-02"

// Default school-day hours.
const (
	DefaultStartHour = 8
	DefaultEndHour   = 16
)

// DayWindow describes a school day as a calendar date in a named time zone.
type DayWindow struct {
	Date      string // YYYY-MM-DD
	TimeZone  string // IANA name, e.g. "America/Los_Angeles"
	StartHour int
	EndHour   int
}

// NewDayWindow returns a window with the default 8:00-16:00 hours.
func NewDayWindow(date, timeZone string) DayWindow {
	return DayWindow{Date: date, TimeZone: timeZone, StartHour: DefaultStartHour, EndHour: DefaultEndHour}
}

// Resolve converts the window into absolute, zone-aware start and end times.
func (d DayWindow) Resolve() (start, end time.Time, err error) {
	loc, err := time.LoadLocation(d.TimeZone)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: time zone %q: %v", ErrInvalidConfig, d.TimeZone, err)
	}
	date, err := time.Parse(DateLayout, d.Date)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: date %q: %v", ErrInvalidConfig, d.Date, err)
	}
	if d.StartHour < 0 || d.StartHour > 23 || d.EndHour < 0 || d.EndHour > 23 {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: hours must be in [0, 23], got start=%d end=%d",
			ErrInvalidConfig, d.StartHour, d.EndHour)
	}
	if d.EndHour <= d.StartHour {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: end hour %d must be after start hour %d",
			ErrInvalidConfig, d.EndHour, d.StartHour)
	}
	y, m, day := date.Date()
	start = time.Date(y, m, day, d.StartHour, 0, 0, 0, loc)
	end = time.Date(y, m, day, d.EndHour, 0, 0, 0, loc)
	return start, end, nil
}

// GenerateDay resolves the day window and runs GenerateInteractions over it.
func GenerateDay(day DayWindow, studentIDs []string, materialByTray map[string]string, cfg Config) (*Result, error) {
	start, end, err := day.Resolve()
	if err != nil {
		return nil, err
	}
	return GenerateInteractions(start, end, studentIDs, materialByTray, cfg)
}
