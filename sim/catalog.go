package sim

import (
	"fmt"
	"sort"
)

// Catalog is the fixed, bijective tray <-> material mapping for a run.
// Trays are kept in sorted id order; that order is the candidate order for
// random tray selection, so it must not depend on map iteration.
type Catalog struct {
	trays          []string
	materialByTray map[string]string
	trayByMaterial map[string]string
}

// NewCatalog validates a tray-id -> material-id lookup and freezes it.
// Every tray must map to a distinct, non-empty material.
func NewCatalog(materialByTray map[string]string) (*Catalog, error) {
	c := &Catalog{
		trays:          make([]string, 0, len(materialByTray)),
		materialByTray: make(map[string]string, len(materialByTray)),
		trayByMaterial: make(map[string]string, len(materialByTray)),
	}
	for trayID, materialID := range materialByTray {
		if trayID == "" {
			return nil, fmt.Errorf("%w: empty tray id", ErrInvalidConfig)
		}
		if materialID == "" {
			return nil, fmt.Errorf("%w: tray %q maps to an empty material id", ErrInvalidConfig, trayID)
		}
		if other, dup := c.trayByMaterial[materialID]; dup {
			return nil, fmt.Errorf("%w: material %q mapped from both tray %q and tray %q",
				ErrInvalidConfig, materialID, other, trayID)
		}
		c.trays = append(c.trays, trayID)
		c.materialByTray[trayID] = materialID
		c.trayByMaterial[materialID] = trayID
	}
	sort.Strings(c.trays)
	return c, nil
}

// Trays returns the tray ids in sorted order.
func (c *Catalog) Trays() []string {
	out := make([]string, len(c.trays))
	copy(out, c.trays)
	return out
}

// Len returns the number of tray/material pairs.
func (c *Catalog) Len() int { return len(c.trays) }

// MaterialFor returns the material carried on trayID.
func (c *Catalog) MaterialFor(trayID string) (string, bool) {
	m, ok := c.materialByTray[trayID]
	return m, ok
}

// TrayFor returns the tray holding materialID.
func (c *Catalog) TrayFor(materialID string) (string, bool) {
	t, ok := c.trayByMaterial[materialID]
	return t, ok
}
