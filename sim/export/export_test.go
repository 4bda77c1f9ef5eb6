package export

import (
	"time"

	"github.com/inference-sim/classroom-sim/sim"
)

var t0 = time.Date(2024, 1, 15, 8, 0, 0, 0, time.UTC)

func ptr(t time.Time) *time.Time { return &t }

// sampleResult has one closed and one open tray interaction and one closed
// material interaction.
func sampleResult() *sim.Result {
	return &sim.Result{
		TrayInteractions: []sim.TrayInteraction{
			{ID: "t-1", StudentID: "student-01", TrayID: "tray-01", Start: t0, End: ptr(t0.Add(2 * time.Second)), InteractionType: sim.CarryingFromShelf},
			{ID: "t-2", StudentID: "student-01", TrayID: "tray-01", Start: t0.Add(70 * time.Second), InteractionType: sim.CarryingToShelf},
		},
		MaterialInteractions: []sim.MaterialInteraction{
			{ID: "m-1", StudentID: "student-01", MaterialID: "material-01", Start: t0.Add(2 * time.Second), End: ptr(t0.Add(70 * time.Second))},
		},
	}
}
