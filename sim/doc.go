// Package sim provides the fixed-step classroom simulation engine.
//
// # Reading Guide
//
// Start with these three files to understand the simulation kernel:
//   - student.go: the four-state student cycle and the transition handlers
//   - ledger.go: tray and material interaction records, opened and closed by transitions
//   - simulator.go: the step loop and evaluation order
//
// # Architecture
//
// A Simulator owns every piece of mutable state: the students, the
// TrayRegistry (shelf state of each tray), the Ledger and the Metrics. Each
// Step evaluates every student once at the same timestamp; a transition fires
// with probability Δt/mean (DurationModel), drawn from a seeded
// PartitionedRNG so identical inputs yield identical records and ids.
//
// Sub-packages:
//   - sim/trace/: optional per-transition trace records
//   - sim/export/: JSON, SQL and S3 sinks for a Result
//
// GenerateInteractions and GenerateDay are the one-call entry points.
package sim
