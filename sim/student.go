// Defines the Student record and the per-student state machine evaluated once per step.
// A student cycles idle -> carrying from shelf -> using material -> carrying to shelf -> idle,
// holding at most one open interaction record at a time.

package sim

import (
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/inference-sim/classroom-sim/sim/trace"
)

// ErrUnreachableState is returned when a student's state is outside the enumerated set.
// It always indicates a programming error.
var ErrUnreachableState = errors.New("unreachable student state")

// StudentState is the activity a student is currently engaged in.
type StudentState int

const (
	StudentIdle StudentState = iota
	StudentCarryingFromShelf
	StudentUsingMaterial
	StudentCarryingToShelf
)

func (s StudentState) String() string {
	switch s {
	case StudentIdle:
		return "idle"
	case StudentCarryingFromShelf:
		return "carrying_from_shelf"
	case StudentUsingMaterial:
		return "using_material"
	case StudentCarryingToShelf:
		return "carrying_to_shelf"
	default:
		return fmt.Sprintf("StudentState(%d)", int(s))
	}
}

// TrayStateFor returns the state a tray must be in while held by a student in s.
// Idle students hold no tray; TrayOnShelf is returned for them.
func TrayStateFor(s StudentState) TrayState {
	switch s {
	case StudentCarryingFromShelf:
		return TrayCarryingFromShelf
	case StudentUsingMaterial:
		return TrayUsingMaterial
	case StudentCarryingToShelf:
		return TrayCarryingToShelf
	default:
		return TrayOnShelf
	}
}

// From returns the state a transition leaves.
func (k TransitionKind) From() StudentState { return StudentState(k) }

// To returns the state a transition enters.
func (k TransitionKind) To() StudentState { return StudentState((int(k) + 1) % int(numTransitionKinds)) }

// Student is one simulated actor.
// At most one of TrayInteractionID and MaterialInteractionID is non-empty.
type Student struct {
	ID                    string
	State                 StudentState
	TrayInteractionID     string
	MaterialInteractionID string
}

// evaluate runs one step of the state machine for st.
func (sim *Simulator) evaluate(st *Student, now time.Time) error {
	switch st.State {
	case StudentIdle:
		return sim.pickUp(st, now)
	case StudentCarryingFromShelf:
		return sim.startUsing(st, now)
	case StudentUsingMaterial:
		return sim.finishUsing(st, now)
	case StudentCarryingToShelf:
		return sim.shelve(st, now)
	default:
		return fmt.Errorf("%w: student %q has state %s", ErrUnreachableState, st.ID, st.State)
	}
}

// pickUp checks tray availability before drawing, so an empty shelf consumes no randomness.
func (sim *Simulator) pickUp(st *Student, now time.Time) error {
	available := sim.Trays.Available()
	if len(available) == 0 {
		sim.Metrics.IdleWithoutTray.Inc()
		return nil
	}
	if !sim.fires(TransitionPickUp) {
		return nil
	}
	trayID := available[sim.rng.ForSubsystem(SubsystemTrays).Intn(len(available))]

	id, err := sim.Ledger.OpenTray(TrayInteraction{
		StudentID:       st.ID,
		TrayID:          trayID,
		Start:           now,
		InteractionType: CarryingFromShelf,
	})
	if err != nil {
		return err
	}
	if err := sim.Trays.Acquire(trayID, TrayCarryingFromShelf); err != nil {
		return err
	}
	st.State = StudentCarryingFromShelf
	st.TrayInteractionID = id
	sim.observe(st, TransitionPickUp, trayID, id, now)
	return nil
}

func (sim *Simulator) startUsing(st *Student, now time.Time) error {
	if !sim.fires(TransitionStartUsing) {
		return nil
	}
	held, err := sim.heldTrayInteraction(st)
	if err != nil {
		return err
	}
	materialID, ok := sim.Catalog.MaterialFor(held.TrayID)
	if !ok {
		return fmt.Errorf("%w: %q has no material", ErrUnknownTray, held.TrayID)
	}

	if err := sim.Ledger.CloseTray(held.ID, now); err != nil {
		return err
	}
	id, err := sim.Ledger.OpenMaterial(MaterialInteraction{
		StudentID:  st.ID,
		MaterialID: materialID,
		Start:      now,
	})
	if err != nil {
		return err
	}
	if err := sim.Trays.SetState(held.TrayID, TrayUsingMaterial); err != nil {
		return err
	}
	st.State = StudentUsingMaterial
	st.TrayInteractionID = ""
	st.MaterialInteractionID = id
	sim.observe(st, TransitionStartUsing, held.TrayID, id, now)
	return nil
}

func (sim *Simulator) finishUsing(st *Student, now time.Time) error {
	if !sim.fires(TransitionFinishUsing) {
		return nil
	}
	held, ok := sim.Ledger.MaterialInteraction(st.MaterialInteractionID)
	if !ok || !held.IsOpen() {
		return fmt.Errorf("%w: student %q holds no open material interaction (id %q)",
			ErrLedgerConsistency, st.ID, st.MaterialInteractionID)
	}
	trayID, ok := sim.Catalog.TrayFor(held.MaterialID)
	if !ok {
		return fmt.Errorf("%w: no tray holds material %q", ErrUnknownTray, held.MaterialID)
	}

	if err := sim.Ledger.CloseMaterial(held.ID, now); err != nil {
		return err
	}
	id, err := sim.Ledger.OpenTray(TrayInteraction{
		StudentID:       st.ID,
		TrayID:          trayID,
		Start:           now,
		InteractionType: CarryingToShelf,
	})
	if err != nil {
		return err
	}
	if err := sim.Trays.SetState(trayID, TrayCarryingToShelf); err != nil {
		return err
	}
	st.State = StudentCarryingToShelf
	st.MaterialInteractionID = ""
	st.TrayInteractionID = id
	sim.observe(st, TransitionFinishUsing, trayID, id, now)
	return nil
}

func (sim *Simulator) shelve(st *Student, now time.Time) error {
	if !sim.fires(TransitionShelve) {
		return nil
	}
	held, err := sim.heldTrayInteraction(st)
	if err != nil {
		return err
	}

	if err := sim.Ledger.CloseTray(held.ID, now); err != nil {
		return err
	}
	if err := sim.Trays.Release(held.TrayID); err != nil {
		return err
	}
	st.State = StudentIdle
	st.TrayInteractionID = ""
	sim.observe(st, TransitionShelve, held.TrayID, held.ID, now)
	return nil
}

func (sim *Simulator) fires(kind TransitionKind) bool {
	return sim.durations.Fires(kind, sim.rng.ForSubsystem(SubsystemTransitions))
}

func (sim *Simulator) heldTrayInteraction(st *Student) (TrayInteraction, error) {
	held, ok := sim.Ledger.TrayInteraction(st.TrayInteractionID)
	if !ok || !held.IsOpen() {
		return TrayInteraction{}, fmt.Errorf("%w: student %q holds no open tray interaction (id %q)",
			ErrLedgerConsistency, st.ID, st.TrayInteractionID)
	}
	return held, nil
}

// observe records a completed transition in metrics, the optional trace and the debug log.
func (sim *Simulator) observe(st *Student, kind TransitionKind, trayID, interactionID string, now time.Time) {
	sim.Metrics.recordTransition(kind)
	if sim.Trace != nil {
		sim.Trace.RecordTransition(trace.TransitionRecord{
			StudentID:     st.ID,
			Step:          sim.StepCount,
			Timestamp:     now,
			From:          kind.From().String(),
			To:            kind.To().String(),
			TrayID:        trayID,
			InteractionID: interactionID,
		})
	}
	logrus.Debugf("[step %07d] %s: %s -> %s (tray %s)", sim.StepCount, st.ID, kind.From(), kind.To(), trayID)
}
