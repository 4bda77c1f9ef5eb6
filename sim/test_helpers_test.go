package sim

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/inference-sim/classroom-sim/sim/internal/testutil"
)

// counterValue reads the current value of a single-metric collector.
func counterValue(c prometheus.Collector) float64 {
	return promtestutil.ToFloat64(c)
}

// forcedConfig returns a config where every transition fires on every 1s step.
func forcedConfig() Config {
	cfg := DefaultConfig()
	cfg.StepSizeSeconds = 1
	cfg.IdleDurationMinutes = 1.0 / 60
	cfg.TrayCarryDurationSeconds = 1
	cfg.MaterialUsageDurationMinutes = 1.0 / 60
	return cfg
}

// busyConfig returns short dwell times so a short window produces many cycles.
func busyConfig(seed int64) Config {
	cfg := DefaultConfig()
	cfg.Seed = seed
	cfg.IdleDurationMinutes = 0.5
	cfg.TrayCarryDurationSeconds = 3
	cfg.MaterialUsageDurationMinutes = 1
	cfg.StepSizeSeconds = 0.5
	return cfg
}

// newTestSimulator builds a simulator over a window of length d for n students
// and m trays, failing the test on construction errors.
func newTestSimulator(t *testing.T, d time.Duration, n, m int, cfg Config) *Simulator {
	t.Helper()
	start, end := testutil.Window(t, d)
	catalog, err := NewCatalog(testutil.MaterialLookup(m))
	if err != nil {
		t.Fatalf("NewCatalog: %v", err)
	}
	s, err := NewSimulator(start, end, testutil.StudentIDs(n), catalog, cfg)
	if err != nil {
		t.Fatalf("NewSimulator: %v", err)
	}
	return s
}

// assertStateInvariants checks that every student is in an enumerated state,
// holds exactly the record its state calls for, and that each tray agrees with
// the student holding it (or is on the shelf when nobody does).
func assertStateInvariants(t *testing.T, s *Simulator) {
	t.Helper()
	held := make(map[string]StudentState)
	for _, st := range s.students {
		switch st.State {
		case StudentIdle:
			if st.TrayInteractionID != "" || st.MaterialInteractionID != "" {
				t.Fatalf("step %d: idle student %s holds ids %q/%q", s.StepCount, st.ID, st.TrayInteractionID, st.MaterialInteractionID)
			}
		case StudentCarryingFromShelf, StudentCarryingToShelf:
			if st.MaterialInteractionID != "" {
				t.Fatalf("step %d: carrying student %s holds material id", s.StepCount, st.ID)
			}
			rec, ok := s.Ledger.TrayInteraction(st.TrayInteractionID)
			if !ok || !rec.IsOpen() || rec.StudentID != st.ID {
				t.Fatalf("step %d: student %s held tray interaction %q is not open and theirs", s.StepCount, st.ID, st.TrayInteractionID)
			}
			held[rec.TrayID] = st.State
		case StudentUsingMaterial:
			if st.TrayInteractionID != "" {
				t.Fatalf("step %d: using student %s holds tray id", s.StepCount, st.ID)
			}
			rec, ok := s.Ledger.MaterialInteraction(st.MaterialInteractionID)
			if !ok || !rec.IsOpen() || rec.StudentID != st.ID {
				t.Fatalf("step %d: student %s held material interaction %q is not open and theirs", s.StepCount, st.ID, st.MaterialInteractionID)
			}
			trayID, _ := s.Catalog.TrayFor(rec.MaterialID)
			held[trayID] = st.State
		default:
			t.Fatalf("step %d: student %s in unknown state %s", s.StepCount, st.ID, st.State)
		}
	}
	for _, tray := range s.Trays.Trays() {
		want := TrayOnShelf
		if st, ok := held[tray.ID]; ok {
			want = TrayStateFor(st)
		}
		if tray.State != want {
			t.Fatalf("step %d: tray %s is %s, want %s", s.StepCount, tray.ID, tray.State, want)
		}
	}
}

// assertRecordsWellFormed checks that no closed record ends before it starts.
func assertRecordsWellFormed(t *testing.T, res *Result) {
	t.Helper()
	for _, ti := range res.TrayInteractions {
		if ti.End != nil && ti.End.Before(ti.Start) {
			t.Errorf("tray interaction %s ends %s before start %s", ti.ID, ti.End, ti.Start)
		}
	}
	for _, mi := range res.MaterialInteractions {
		if mi.End != nil && mi.End.Before(mi.Start) {
			t.Errorf("material interaction %s ends %s before start %s", mi.ID, mi.End, mi.Start)
		}
	}
}
