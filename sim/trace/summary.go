package trace

// TraceSummary aggregates statistics from a SimulationTrace.
type TraceSummary struct {
	TotalTransitions int
	UniqueStudents   int
	UniqueTrays      int
	EdgeCounts       map[string]int // "from->to" → count
	PickupsPerTray   map[string]int // tray ID → times taken off the shelf
}

// pickupFrom is the source state of a shelf pickup.
const pickupFrom = "idle"

// Summarize computes aggregate statistics from a SimulationTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(st *SimulationTrace) *TraceSummary {
	summary := &TraceSummary{
		EdgeCounts:     make(map[string]int),
		PickupsPerTray: make(map[string]int),
	}
	if st == nil {
		return summary
	}

	students := make(map[string]bool)
	trays := make(map[string]bool)
	for _, r := range st.Transitions {
		summary.EdgeCounts[r.From+"->"+r.To]++
		if r.From == pickupFrom {
			summary.PickupsPerTray[r.TrayID]++
		}
		students[r.StudentID] = true
		trays[r.TrayID] = true
	}
	summary.TotalTransitions = len(st.Transitions)
	summary.UniqueStudents = len(students)
	summary.UniqueTrays = len(trays)

	return summary
}
