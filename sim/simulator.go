// sim/simulator.go
package sim

import (
	"fmt"
	"math"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/tiendc/go-deepcopy"

	"github.com/inference-sim/classroom-sim/sim/trace"
)

// Result holds every interaction record generated by a run, open or closed,
// in creation order.
type Result struct {
	TrayInteractions     []TrayInteraction     `json:"tray_interactions"`
	MaterialInteractions []MaterialInteraction `json:"material_interactions"`
}

// TrayInteractionMap returns the tray interactions keyed by id.
func (r *Result) TrayInteractionMap() map[string]TrayInteraction {
	out := make(map[string]TrayInteraction, len(r.TrayInteractions))
	for _, ti := range r.TrayInteractions {
		out[ti.ID] = ti
	}
	return out
}

// MaterialInteractionMap returns the material interactions keyed by id.
func (r *Result) MaterialInteractionMap() map[string]MaterialInteraction {
	out := make(map[string]MaterialInteraction, len(r.MaterialInteractions))
	for _, mi := range r.MaterialInteractions {
		out[mi.ID] = mi
	}
	return out
}

// Simulator is the fixed-step clock that owns all student, tray and ledger state.
//
// Evaluation order: within every step, students are evaluated in the order
// their ids were passed to NewSimulator. A tray claimed by an earlier student
// is unavailable to later students in the same step, so this order decides
// contention and is part of the reproducibility contract.
type Simulator struct {
	Start    time.Time
	End      time.Time
	StepSize time.Duration
	NumSteps int
	// Clock is the timestamp of the step most recently evaluated.
	Clock     time.Time
	StepCount int

	Catalog *Catalog
	Trays   *TrayRegistry
	Ledger  *Ledger
	Metrics *Metrics
	// Trace is nil unless the config enables transition tracing.
	Trace *trace.SimulationTrace

	students     []Student
	studentIndex map[string]int
	durations    DurationModel
	rng          *PartitionedRNG
}

// NewSimulator validates inputs and builds a simulator with all students idle
// and all trays on the shelf.
func NewSimulator(start, end time.Time, studentIDs []string, catalog *Catalog, cfg Config) (*Simulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if catalog == nil {
		return nil, fmt.Errorf("%w: nil catalog", ErrInvalidConfig)
	}
	if end.Before(start) {
		return nil, fmt.Errorf("%w: end %s is before start %s", ErrInvalidConfig,
			end.Format(time.RFC3339), start.Format(time.RFC3339))
	}

	s := &Simulator{
		Start:        start,
		End:          end,
		StepSize:     cfg.StepDuration(),
		NumSteps:     int(math.RoundToEven(end.Sub(start).Seconds() / cfg.StepSizeSeconds)),
		Clock:        start,
		Catalog:      catalog,
		Trays:        NewTrayRegistry(catalog.Trays()),
		Metrics:      NewMetrics(),
		students:     make([]Student, 0, len(studentIDs)),
		studentIndex: make(map[string]int, len(studentIDs)),
		durations:    NewDurationModel(cfg),
		rng:          NewPartitionedRNG(NewSimulationKey(cfg.Seed)),
	}
	for _, id := range studentIDs {
		if id == "" {
			return nil, fmt.Errorf("%w: empty student id", ErrInvalidConfig)
		}
		if _, dup := s.studentIndex[id]; dup {
			return nil, fmt.Errorf("%w: duplicate student id %q", ErrInvalidConfig, id)
		}
		s.studentIndex[id] = len(s.students)
		s.students = append(s.students, Student{ID: id, State: StudentIdle})
	}
	s.Ledger = NewLedger(s.rng.ForSubsystem(SubsystemIDs))
	if cfg.Trace.Level == trace.TraceLevelTransitions {
		s.Trace = trace.NewSimulationTrace(cfg.Trace)
	}

	if len(s.students) == 0 {
		logrus.Warnf("no students configured; output will be empty")
	}
	if catalog.Len() == 0 {
		logrus.Warnf("no trays configured; every student will stay idle")
	}
	return s, nil
}

// Step evaluates every student once at the current step's timestamp and
// advances the step counter. A returned error is a defect; the simulator
// must not be stepped again afterwards.
func (sim *Simulator) Step() error {
	now := sim.Start.Add(time.Duration(sim.StepCount) * sim.StepSize)
	sim.Clock = now
	for i := range sim.students {
		if err := sim.evaluate(&sim.students[i], now); err != nil {
			return fmt.Errorf("step %d at %s: %w", sim.StepCount, now.Format(time.RFC3339Nano), err)
		}
	}
	sim.StepCount++
	sim.Metrics.StepsExecuted.Inc()
	return nil
}

// Run steps the clock from Start until NumSteps steps have been evaluated and
// returns a copy of the ledger.
func (sim *Simulator) Run() (*Result, error) {
	logrus.Infof("Generating data from %s to %s", sim.Start.Format(time.RFC3339), sim.End.Format(time.RFC3339))
	logrus.Infof("Generating data for %d students", len(sim.students))
	logrus.Infof("Generating data for %d trays/materials", sim.Catalog.Len())

	progressEvery := max(sim.NumSteps/10, 1)
	for sim.StepCount < sim.NumSteps {
		if err := sim.Step(); err != nil {
			return nil, err
		}
		if sim.StepCount%progressEvery == 0 {
			logrus.Debugf("[step %07d/%07d] %s", sim.StepCount, sim.NumSteps, sim.Clock.Format(time.RFC3339))
		}
	}

	trays, materials := sim.Ledger.Len()
	logrus.Infof("Simulation ended after %d steps: %d tray interactions, %d material interactions",
		sim.StepCount, trays, materials)
	return sim.Ledger.Snapshot(), nil
}

// Students returns a deep copy of all students in evaluation order.
func (sim *Simulator) Students() ([]Student, error) {
	var out []Student
	if err := deepcopy.Copy(&out, sim.students); err != nil {
		return nil, fmt.Errorf("copying students: %w", err)
	}
	return out, nil
}

// Student returns a copy of the student with the given id.
func (sim *Simulator) Student(id string) (Student, bool) {
	i, ok := sim.studentIndex[id]
	if !ok {
		return Student{}, false
	}
	return sim.students[i], true
}

// GenerateInteractions runs a simulation over [start, end) for the given
// students and tray -> material lookup.
func GenerateInteractions(start, end time.Time, studentIDs []string, materialByTray map[string]string, cfg Config) (*Result, error) {
	catalog, err := NewCatalog(materialByTray)
	if err != nil {
		return nil, err
	}
	s, err := NewSimulator(start, end, studentIDs, catalog, cfg)
	if err != nil {
		return nil, err
	}
	return s.Run()
}
