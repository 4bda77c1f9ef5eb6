package sim

import (
	"errors"
	"fmt"
)

// TrayState mirrors what the student handling a tray is doing with it.
type TrayState int

const (
	TrayOnShelf TrayState = iota
	TrayCarryingFromShelf
	TrayUsingMaterial
	TrayCarryingToShelf
)

func (s TrayState) String() string {
	switch s {
	case TrayOnShelf:
		return "on_shelf"
	case TrayCarryingFromShelf:
		return "carrying_from_shelf"
	case TrayUsingMaterial:
		return "using_material"
	case TrayCarryingToShelf:
		return "carrying_to_shelf"
	default:
		return fmt.Sprintf("TrayState(%d)", int(s))
	}
}

var (
	// ErrUnknownTray is returned for a tray id the registry was not built with.
	ErrUnknownTray = errors.New("unknown tray")
	// ErrTrayUnavailable is returned when acquiring a tray that is not on the shelf.
	ErrTrayUnavailable = errors.New("tray not on shelf")
)

// Tray is one exclusively-held container.
type Tray struct {
	ID    string
	State TrayState
}

// TrayRegistry tracks the exclusive state of every tray.
// Trays live in an arena in construction order with an id -> index lookup.
//
// There is no rollback: once Acquire succeeds the tray is claimed, and any
// student evaluated later in the same step observes the new state.
type TrayRegistry struct {
	trays []Tray
	index map[string]int
}

// NewTrayRegistry creates a registry with every tray on the shelf.
func NewTrayRegistry(ids []string) *TrayRegistry {
	r := &TrayRegistry{
		trays: make([]Tray, len(ids)),
		index: make(map[string]int, len(ids)),
	}
	for i, id := range ids {
		r.trays[i] = Tray{ID: id, State: TrayOnShelf}
		r.index[id] = i
	}
	return r
}

// IsAvailable reports whether trayID is on the shelf.
func (r *TrayRegistry) IsAvailable(trayID string) bool {
	i, ok := r.index[trayID]
	return ok && r.trays[i].State == TrayOnShelf
}

// Available returns the ids of shelved trays in registry order.
func (r *TrayRegistry) Available() []string {
	var out []string
	for _, t := range r.trays {
		if t.State == TrayOnShelf {
			out = append(out, t.ID)
		}
	}
	return out
}

// Acquire takes a shelved tray into state.
func (r *TrayRegistry) Acquire(trayID string, state TrayState) error {
	t, err := r.lookup(trayID)
	if err != nil {
		return err
	}
	if t.State != TrayOnShelf {
		return fmt.Errorf("%w: tray %q is %s", ErrTrayUnavailable, trayID, t.State)
	}
	t.State = state
	return nil
}

// Release puts a tray back on the shelf.
func (r *TrayRegistry) Release(trayID string) error {
	return r.SetState(trayID, TrayOnShelf)
}

// SetState changes a tray's state without changing who holds it.
func (r *TrayRegistry) SetState(trayID string, state TrayState) error {
	t, err := r.lookup(trayID)
	if err != nil {
		return err
	}
	t.State = state
	return nil
}

// State returns the current state of trayID.
func (r *TrayRegistry) State(trayID string) (TrayState, bool) {
	i, ok := r.index[trayID]
	if !ok {
		return 0, false
	}
	return r.trays[i].State, true
}

// Trays returns a copy of all trays in registry order.
func (r *TrayRegistry) Trays() []Tray {
	out := make([]Tray, len(r.trays))
	copy(out, r.trays)
	return out
}

// Len returns the number of trays.
func (r *TrayRegistry) Len() int { return len(r.trays) }

func (r *TrayRegistry) lookup(trayID string) (*Tray, error) {
	i, ok := r.index[trayID]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTray, trayID)
	}
	return &r.trays[i], nil
}
