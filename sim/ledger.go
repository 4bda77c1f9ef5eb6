package sim

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
)

// ErrLedgerConsistency is returned when closing a record that is missing,
// already closed, or would end before it started.
var ErrLedgerConsistency = errors.New("ledger consistency violation")

// InteractionType tags the direction of a tray interaction.
type InteractionType string

const (
	CarryingFromShelf InteractionType = "CARRYING_FROM_SHELF"
	CarryingToShelf   InteractionType = "CARRYING_TO_SHELF"
)

// TrayInteraction is one leg of a tray trip between shelf and work area.
// End is nil while the interaction is open.
type TrayInteraction struct {
	ID              string          `json:"id"`
	StudentID       string          `json:"student_id"`
	TrayID          string          `json:"tray_id"`
	Start           time.Time       `json:"start"`
	End             *time.Time      `json:"end,omitempty"`
	InteractionType InteractionType `json:"interaction_type"`
}

// IsOpen reports whether the interaction has no end yet.
func (ti TrayInteraction) IsOpen() bool { return ti.End == nil }

// MaterialInteraction is one period of a student working with a material.
// End is nil while the interaction is open.
type MaterialInteraction struct {
	ID         string     `json:"id"`
	StudentID  string     `json:"student_id"`
	MaterialID string     `json:"material_id"`
	Start      time.Time  `json:"start"`
	End        *time.Time `json:"end,omitempty"`
}

// IsOpen reports whether the interaction has no end yet.
func (mi MaterialInteraction) IsOpen() bool { return mi.End == nil }

// Ledger is the append-only store of generated interaction records.
// Records are kept in creation order with an id -> index lookup; nothing is
// ever deleted.
type Ledger struct {
	ids io.Reader

	trays     []TrayInteraction
	trayIndex map[string]int

	materials     []MaterialInteraction
	materialIndex map[string]int
}

// NewLedger creates an empty ledger whose UUIDs are read from ids.
// Passing a seeded source makes ids reproducible across runs.
func NewLedger(ids io.Reader) *Ledger {
	return &Ledger{
		ids:           ids,
		trayIndex:     make(map[string]int),
		materialIndex: make(map[string]int),
	}
}

// OpenTray stores rec under a fresh id and returns the id.
// Any ID or End already set on rec is overwritten.
func (l *Ledger) OpenTray(rec TrayInteraction) (string, error) {
	id, err := l.newID()
	if err != nil {
		return "", err
	}
	rec.ID, rec.End = id, nil
	l.trayIndex[id] = len(l.trays)
	l.trays = append(l.trays, rec)
	return id, nil
}

// CloseTray sets the end of an open tray interaction.
func (l *Ledger) CloseTray(id string, end time.Time) error {
	i, ok := l.trayIndex[id]
	if !ok {
		return fmt.Errorf("%w: no tray interaction %q", ErrLedgerConsistency, id)
	}
	rec := &l.trays[i]
	if err := checkClose("tray", id, rec.Start, rec.End, end); err != nil {
		return err
	}
	rec.End = &end
	return nil
}

// OpenMaterial stores rec under a fresh id and returns the id.
func (l *Ledger) OpenMaterial(rec MaterialInteraction) (string, error) {
	id, err := l.newID()
	if err != nil {
		return "", err
	}
	rec.ID, rec.End = id, nil
	l.materialIndex[id] = len(l.materials)
	l.materials = append(l.materials, rec)
	return id, nil
}

// CloseMaterial sets the end of an open material interaction.
func (l *Ledger) CloseMaterial(id string, end time.Time) error {
	i, ok := l.materialIndex[id]
	if !ok {
		return fmt.Errorf("%w: no material interaction %q", ErrLedgerConsistency, id)
	}
	rec := &l.materials[i]
	if err := checkClose("material", id, rec.Start, rec.End, end); err != nil {
		return err
	}
	rec.End = &end
	return nil
}

// TrayInteraction returns a copy of the tray interaction with the given id.
func (l *Ledger) TrayInteraction(id string) (TrayInteraction, bool) {
	i, ok := l.trayIndex[id]
	if !ok {
		return TrayInteraction{}, false
	}
	return l.trays[i], true
}

// MaterialInteraction returns a copy of the material interaction with the given id.
func (l *Ledger) MaterialInteraction(id string) (MaterialInteraction, bool) {
	i, ok := l.materialIndex[id]
	if !ok {
		return MaterialInteraction{}, false
	}
	return l.materials[i], true
}

// Len returns the number of tray and material interactions recorded so far.
func (l *Ledger) Len() (trays, materials int) {
	return len(l.trays), len(l.materials)
}

// Snapshot copies every record, open or closed, in creation order.
// The returned Result shares no memory with the ledger.
func (l *Ledger) Snapshot() *Result {
	res := &Result{
		TrayInteractions:     make([]TrayInteraction, len(l.trays)),
		MaterialInteractions: make([]MaterialInteraction, len(l.materials)),
	}
	for i, rec := range l.trays {
		rec.End = cloneTime(rec.End)
		res.TrayInteractions[i] = rec
	}
	for i, rec := range l.materials {
		rec.End = cloneTime(rec.End)
		res.MaterialInteractions[i] = rec
	}
	return res
}

func (l *Ledger) newID() (string, error) {
	u, err := uuid.NewRandomFromReader(l.ids)
	if err != nil {
		return "", fmt.Errorf("generating interaction id: %w", err)
	}
	id := u.String()
	if _, dup := l.trayIndex[id]; dup {
		return "", fmt.Errorf("%w: duplicate id %q", ErrLedgerConsistency, id)
	}
	if _, dup := l.materialIndex[id]; dup {
		return "", fmt.Errorf("%w: duplicate id %q", ErrLedgerConsistency, id)
	}
	return id, nil
}

func checkClose(kind, id string, start time.Time, current *time.Time, end time.Time) error {
	if current != nil {
		return fmt.Errorf("%w: %s interaction %q already closed at %s", ErrLedgerConsistency, kind, id, current.Format(time.RFC3339Nano))
	}
	if end.Before(start) {
		return fmt.Errorf("%w: %s interaction %q would end at %s before its start %s",
			ErrLedgerConsistency, kind, id, end.Format(time.RFC3339Nano), start.Format(time.RFC3339Nano))
	}
	return nil
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}
