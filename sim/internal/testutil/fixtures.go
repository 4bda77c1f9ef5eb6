// Package testutil provides shared test fixtures for the classroom simulator.
// It builds student rosters, tray catalogs and simulation windows.
package testutil

import (
	"fmt"
	"math"
	"testing"
	"time"
	_ "time/tzdata" // fixtures must not depend on the host zoneinfo
)

// StudentIDs returns n student ids "student-00", "student-01", ... in order.
func StudentIDs(n int) []string {
	ids := make([]string, n)
	for i := range ids {
		ids[i] = fmt.Sprintf("student-%02d", i)
	}
	return ids
}

// MaterialLookup returns a bijective tray -> material mapping with n pairs:
// "tray-00" -> "material-00", ...
func MaterialLookup(n int) map[string]string {
	lookup := make(map[string]string, n)
	for i := 0; i < n; i++ {
		lookup[fmt.Sprintf("tray-%02d", i)] = fmt.Sprintf("material-%02d", i)
	}
	return lookup
}

// Window returns a zone-aware window starting at 08:00 on 2024-01-15 in
// America/Los_Angeles and lasting d.
func Window(t *testing.T, d time.Duration) (start, end time.Time) {
	t.Helper()
	loc, err := time.LoadLocation("America/Los_Angeles")
	if err != nil {
		t.Fatalf("loading location: %v", err)
	}
	start = time.Date(2024, 1, 15, 8, 0, 0, 0, loc)
	return start, start.Add(d)
}

// AssertFloat64Equal compares two float64 values with relative tolerance.
func AssertFloat64Equal(t *testing.T, name string, want, got, relTol float64) {
	t.Helper()
	if want == 0 && got == 0 {
		return
	}
	diff := math.Abs(want - got)
	maxVal := math.Max(math.Abs(want), math.Abs(got))
	if diff/maxVal > relTol {
		t.Errorf("%s: got %v, want %v (diff=%v, relDiff=%v)", name, got, want, diff, diff/maxVal)
	}
}
