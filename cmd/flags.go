package cmd

import (
	"github.com/spf13/pflag"

	"github.com/inference-sim/classroom-sim/sim"
	"github.com/inference-sim/classroom-sim/sim/trace"
)

// simFlags holds the flags shared by run and day. Simulation overrides only
// take effect when the flag was set explicitly, so the YAML file governs
// otherwise.
type simFlags struct {
	seed         int64   // Seed for every random stream
	idleMinutes  float64 // Mean idle time before picking up a tray
	carrySeconds float64 // Mean time to carry a tray
	usageMinutes float64 // Mean time spent on a material
	stepSeconds  float64 // Clock granularity
	traceLevel   string  // Transition trace level

	output      string // JSON destination; "-" for stdout
	metricsFile string // Prometheus textfile destination
	sqlDriver   string
	sqlDSN      string
	s3Bucket    string
	s3Key       string
	s3Region    string
	s3Endpoint  string
	s3PathStyle bool
	s3AccessKey string
	s3Secret    string
}

func (f *simFlags) register(fs *pflag.FlagSet) {
	d := sim.DefaultConfig()
	fs.Int64Var(&f.seed, "seed", d.Seed, "Seed for random tray selection, transitions and record ids")
	fs.Float64Var(&f.idleMinutes, "idle-minutes", d.IdleDurationMinutes, "Mean idle time in minutes")
	fs.Float64Var(&f.carrySeconds, "carry-seconds", d.TrayCarryDurationSeconds, "Mean tray carry time in seconds")
	fs.Float64Var(&f.usageMinutes, "usage-minutes", d.MaterialUsageDurationMinutes, "Mean material usage time in minutes")
	fs.Float64Var(&f.stepSeconds, "step-seconds", d.StepSizeSeconds, "Clock step in seconds")
	fs.StringVar(&f.traceLevel, "trace", string(trace.TraceLevelNone), "Trace level (none, transitions)")

	fs.StringVarP(&f.output, "output", "o", "-", "Write interactions as JSON to this file (\"-\" for stdout, \"\" to skip)")
	fs.StringVar(&f.metricsFile, "metrics-file", "", "Write Prometheus counters to this textfile")
	fs.StringVar(&f.sqlDriver, "sql-driver", "sqlite", "database/sql driver for --sql-dsn (sqlite, pgx)")
	fs.StringVar(&f.sqlDSN, "sql-dsn", "", "Store interactions in this database")
	fs.StringVar(&f.s3Bucket, "s3-bucket", "", "Upload interactions JSON to this bucket")
	fs.StringVar(&f.s3Key, "s3-key", "interactions.json", "Object key for --s3-bucket")
	fs.StringVar(&f.s3Region, "s3-region", "", "S3 region (default us-east-1)")
	fs.StringVar(&f.s3Endpoint, "s3-endpoint", "", "Custom S3-compatible endpoint")
	fs.BoolVar(&f.s3PathStyle, "s3-path-style", false, "Use path-style S3 addressing")
	fs.StringVar(&f.s3AccessKey, "s3-access-key", "", "Static S3 access key id (default AWS credential chain)")
	fs.StringVar(&f.s3Secret, "s3-secret-key", "", "Static S3 secret access key")
}

// apply copies explicitly set simulation flags into cfg.
func (f *simFlags) apply(fs *pflag.FlagSet, cfg *sim.Config) {
	if fs.Changed("seed") {
		cfg.Seed = f.seed
	}
	if fs.Changed("idle-minutes") {
		cfg.IdleDurationMinutes = f.idleMinutes
	}
	if fs.Changed("carry-seconds") {
		cfg.TrayCarryDurationSeconds = f.carrySeconds
	}
	if fs.Changed("usage-minutes") {
		cfg.MaterialUsageDurationMinutes = f.usageMinutes
	}
	if fs.Changed("step-seconds") {
		cfg.StepSizeSeconds = f.stepSeconds
	}
	if fs.Changed("trace") {
		cfg.Trace.Level = trace.TraceLevel(f.traceLevel)
	}
}
