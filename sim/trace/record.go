// Package trace provides transition-trace recording for simulation analysis.
// This package has no dependencies on sim/ — it stores pure data types.
package trace

import "time"

// TransitionRecord captures a single student state transition.
type TransitionRecord struct {
	StudentID     string
	Step          int
	Timestamp     time.Time
	From          string
	To            string
	TrayID        string
	InteractionID string // record opened by the transition, or closed when returning to idle
}
