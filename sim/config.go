package sim

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/inference-sim/classroom-sim/sim/trace"
)

// ErrInvalidConfig is returned when inputs are rejected before the step loop starts.
var ErrInvalidConfig = errors.New("invalid simulation config")

// Default dwell times and clock resolution.
const (
	DefaultIdleDurationMinutes          = 20.0
	DefaultTrayCarryDurationSeconds     = 10.0
	DefaultMaterialUsageDurationMinutes = 40.0
	DefaultStepSizeSeconds              = 0.1
	DefaultSeed                         = int64(42)
)

// Config groups the dwell-time means, the clock resolution and the seed.
type Config struct {
	IdleDurationMinutes          float64 // mean time a student stays idle before picking up a tray
	TrayCarryDurationSeconds     float64 // mean time to carry a tray in either direction
	MaterialUsageDurationMinutes float64 // mean time spent working with a material
	StepSizeSeconds              float64 // clock granularity (Δt)
	Seed                         int64
	Trace                        trace.TraceConfig // zero value disables tracing
}

// DefaultConfig returns the configuration used when no overrides are given.
func DefaultConfig() Config {
	return Config{
		IdleDurationMinutes:          DefaultIdleDurationMinutes,
		TrayCarryDurationSeconds:     DefaultTrayCarryDurationSeconds,
		MaterialUsageDurationMinutes: DefaultMaterialUsageDurationMinutes,
		StepSizeSeconds:              DefaultStepSizeSeconds,
		Seed:                         DefaultSeed,
	}
}

// Validate rejects non-positive or non-finite durations and step sizes.
func (c Config) Validate() error {
	fields := []struct {
		name  string
		value float64
	}{
		{"idle_duration_minutes", c.IdleDurationMinutes},
		{"tray_carry_duration_seconds", c.TrayCarryDurationSeconds},
		{"material_usage_duration_minutes", c.MaterialUsageDurationMinutes},
		{"step_size_seconds", c.StepSizeSeconds},
	}
	for _, f := range fields {
		if err := validateFinitePositive(f.name, f.value); err != nil {
			return err
		}
	}
	if c.StepDuration() <= 0 {
		return fmt.Errorf("%w: step_size_seconds %g is below clock resolution", ErrInvalidConfig, c.StepSizeSeconds)
	}
	if !trace.IsValidTraceLevel(string(c.Trace.Level)) {
		return fmt.Errorf("%w: unknown trace level %q", ErrInvalidConfig, c.Trace.Level)
	}
	return nil
}

// StepDuration returns Δt rounded to the nearest nanosecond.
func (c Config) StepDuration() time.Duration {
	return time.Duration(math.Round(c.StepSizeSeconds * float64(time.Second)))
}

// MeanSeconds returns the configured mean dwell time for a transition kind, in seconds.
func (c Config) MeanSeconds(kind TransitionKind) float64 {
	switch kind {
	case TransitionPickUp:
		return c.IdleDurationMinutes * 60
	case TransitionStartUsing, TransitionShelve:
		return c.TrayCarryDurationSeconds
	case TransitionFinishUsing:
		return c.MaterialUsageDurationMinutes * 60
	default:
		panic(fmt.Sprintf("unhandled transition kind %d", int(kind)))
	}
}

func validateFinitePositive(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("%w: %s must be finite, got %f", ErrInvalidConfig, name, v)
	}
	if v <= 0 {
		return fmt.Errorf("%w: %s must be positive, got %f", ErrInvalidConfig, name, v)
	}
	return nil
}
