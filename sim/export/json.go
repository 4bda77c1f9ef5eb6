// Package export writes simulation results to external sinks: a JSON
// document, a SQL database, or an S3-compatible bucket.
package export

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/inference-sim/classroom-sim/sim"
)

// WriteJSON encodes res as an indented JSON document with the keys
// "tray_interactions" and "material_interactions". Nil slices are written as
// empty arrays.
func WriteJSON(w io.Writer, res *sim.Result) error {
	doc := normalize(res)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encoding result: %w", err)
	}
	return nil
}

func normalize(res *sim.Result) sim.Result {
	var doc sim.Result
	if res != nil {
		doc = *res
	}
	if doc.TrayInteractions == nil {
		doc.TrayInteractions = []sim.TrayInteraction{}
	}
	if doc.MaterialInteractions == nil {
		doc.MaterialInteractions = []sim.MaterialInteraction{}
	}
	return doc
}
