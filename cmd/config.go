package cmd

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/inference-sim/classroom-sim/sim"
	"github.com/inference-sim/classroom-sim/sim/trace"
)

// ClassroomConfig is the YAML file passed with --config.
// All top-level sections must be listed to satisfy KnownFields(true).
type ClassroomConfig struct {
	Students   []string          `yaml:"students"`
	Trays      map[string]string `yaml:"trays"` // tray id -> material id
	Simulation SimulationConfig  `yaml:"simulation"`
	Day        DayConfig         `yaml:"day"`
}

// SimulationConfig holds the dwell-time means and the clock settings.
type SimulationConfig struct {
	IdleDurationMinutes          float64 `yaml:"idle_duration_minutes"`
	TrayCarryDurationSeconds     float64 `yaml:"tray_carry_duration_seconds"`
	MaterialUsageDurationMinutes float64 `yaml:"material_usage_duration_minutes"`
	StepSizeSeconds              float64 `yaml:"step_size_seconds"`
	Seed                         int64   `yaml:"seed"`
	TraceLevel                   string  `yaml:"trace_level"`
}

// DayConfig is the default window for the day subcommand.
type DayConfig struct {
	Date      string `yaml:"date"`
	TimeZone  string `yaml:"timezone"`
	StartHour int    `yaml:"start_hour"`
	EndHour   int    `yaml:"end_hour"`
}

func defaultClassroomConfig() ClassroomConfig {
	d := sim.DefaultConfig()
	return ClassroomConfig{
		Simulation: SimulationConfig{
			IdleDurationMinutes:          d.IdleDurationMinutes,
			TrayCarryDurationSeconds:     d.TrayCarryDurationSeconds,
			MaterialUsageDurationMinutes: d.MaterialUsageDurationMinutes,
			StepSizeSeconds:              d.StepSizeSeconds,
			Seed:                         d.Seed,
			TraceLevel:                   string(trace.TraceLevelNone),
		},
		Day: DayConfig{
			TimeZone:  "UTC",
			StartHour: sim.DefaultStartHour,
			EndHour:   sim.DefaultEndHour,
		},
	}
}

// LoadClassroomConfig reads a classroom file. Fields missing from the file
// keep their defaults; unknown fields are an error.
func LoadClassroomConfig(path string) (*ClassroomConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading classroom config: %w", err)
	}
	cfg := defaultClassroomConfig()
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("parsing classroom config %s: %w", path, err)
	}
	return &cfg, nil
}

// SimConfig converts the simulation section into a sim.Config.
func (c *ClassroomConfig) SimConfig() sim.Config {
	s := c.Simulation
	return sim.Config{
		IdleDurationMinutes:          s.IdleDurationMinutes,
		TrayCarryDurationSeconds:     s.TrayCarryDurationSeconds,
		MaterialUsageDurationMinutes: s.MaterialUsageDurationMinutes,
		StepSizeSeconds:              s.StepSizeSeconds,
		Seed:                         s.Seed,
		Trace:                        trace.TraceConfig{Level: trace.TraceLevel(s.TraceLevel)},
	}
}

// DayWindow converts the day section into a sim.DayWindow.
func (c *ClassroomConfig) DayWindow() sim.DayWindow {
	return sim.DayWindow{
		Date:      c.Day.Date,
		TimeZone:  c.Day.TimeZone,
		StartHour: c.Day.StartHour,
		EndHour:   c.Day.EndHour,
	}
}
