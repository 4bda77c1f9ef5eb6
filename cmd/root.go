package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"
	_ "time/tzdata" // zone database for --tz on hosts without one

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/inference-sim/classroom-sim/sim"
	"github.com/inference-sim/classroom-sim/sim/export"
	"github.com/inference-sim/classroom-sim/sim/trace"
)

var (
	configPath string // Path to the classroom YAML file
	logLevel   string // Log verbosity level
	flags      simFlags

	// run window
	startFlag string
	endFlag   string

	// day window
	dateFlag      string
	timeZoneFlag  string
	startHourFlag int
	endHourFlag   int
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:           "classroom-sim",
	Short:         "Fixed-step simulator of students moving material trays in a classroom",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// runCmd simulates an explicit [start, end) window
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Simulate interactions over an absolute time window",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := setupLogging(); err != nil {
			return err
		}
		classroom, err := loadClassroom()
		if err != nil {
			return err
		}
		if startFlag == "" || endFlag == "" {
			return fmt.Errorf("--start and --end are required")
		}
		start, err := time.Parse(time.RFC3339, startFlag)
		if err != nil {
			return fmt.Errorf("invalid --start: %w", err)
		}
		end, err := time.Parse(time.RFC3339, endFlag)
		if err != nil {
			return fmt.Errorf("invalid --end: %w", err)
		}
		return simulate(cmd, classroom, start, end)
	},
}

// dayCmd simulates one school day in a named time zone
var dayCmd = &cobra.Command{
	Use:   "day",
	Short: "Simulate interactions over one school day",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := setupLogging(); err != nil {
			return err
		}
		classroom, err := loadClassroom()
		if err != nil {
			return err
		}
		day := classroom.DayWindow()
		if cmd.Flags().Changed("date") {
			day.Date = dateFlag
		}
		if cmd.Flags().Changed("tz") {
			day.TimeZone = timeZoneFlag
		}
		if cmd.Flags().Changed("start-hour") {
			day.StartHour = startHourFlag
		}
		if cmd.Flags().Changed("end-hour") {
			day.EndHour = endHourFlag
		}
		if day.Date == "" {
			return fmt.Errorf("no date given: set day.date in the config or pass --date")
		}
		start, end, err := day.Resolve()
		if err != nil {
			return err
		}
		return simulate(cmd, classroom, start, end)
	},
}

func setupLogging() error {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", logLevel, err)
	}
	logrus.SetLevel(level)
	return nil
}

func loadClassroom() (*ClassroomConfig, error) {
	if configPath == "" {
		return nil, fmt.Errorf("--config is required")
	}
	return LoadClassroomConfig(configPath)
}

// simulate runs the simulator over [start, end) and sends the result to every
// configured sink.
func simulate(cmd *cobra.Command, classroom *ClassroomConfig, start, end time.Time) error {
	cfg := classroom.SimConfig()
	flags.apply(cmd.Flags(), &cfg)
	logrus.Infof("Starting simulation with seed=%d, step=%gs, idle=%gm, carry=%gs, usage=%gm",
		cfg.Seed, cfg.StepSizeSeconds, cfg.IdleDurationMinutes, cfg.TrayCarryDurationSeconds, cfg.MaterialUsageDurationMinutes)

	catalog, err := sim.NewCatalog(classroom.Trays)
	if err != nil {
		return err
	}
	s, err := sim.NewSimulator(start, end, classroom.Students, catalog, cfg)
	if err != nil {
		return err
	}

	startTime := time.Now()
	res, err := s.Run()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if err := writeOutputs(ctx, cmd, res); err != nil {
		return err
	}
	if s.Trace != nil {
		ts := trace.Summarize(s.Trace)
		logrus.Infof("Trace: %d transitions across %d students and %d trays",
			ts.TotalTransitions, ts.UniqueStudents, ts.UniqueTrays)
	}
	if flags.metricsFile != "" {
		if err := s.Metrics.WriteTextfile(flags.metricsFile); err != nil {
			return fmt.Errorf("writing metrics file: %w", err)
		}
	}
	if err := s.Metrics.Print(summaryWriter(cmd), res, startTime); err != nil {
		return err
	}

	logrus.Info("Simulation complete.")
	return nil
}

func writeOutputs(ctx context.Context, cmd *cobra.Command, res *sim.Result) error {
	switch flags.output {
	case "":
	case "-":
		if err := export.WriteJSON(cmd.OutOrStdout(), res); err != nil {
			return err
		}
	default:
		f, err := os.Create(flags.output)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		if err := export.WriteJSON(f, res); err != nil {
			_ = f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("closing output file: %w", err)
		}
		logrus.Infof("Wrote interactions to %s", flags.output)
	}

	if flags.sqlDSN != "" {
		sink, err := export.Open(ctx, flags.sqlDriver, flags.sqlDSN)
		if err != nil {
			return err
		}
		defer func() { _ = sink.Close() }()
		if err := sink.Write(ctx, res); err != nil {
			return err
		}
		logrus.Infof("Stored interactions via %s", flags.sqlDriver)
	}

	if flags.s3Bucket != "" {
		uploader, err := export.NewS3Uploader(ctx, export.S3Config{
			Bucket:          flags.s3Bucket,
			Region:          flags.s3Region,
			Endpoint:        flags.s3Endpoint,
			AccessKeyID:     flags.s3AccessKey,
			SecretAccessKey: flags.s3Secret,
			PathStyle:       flags.s3PathStyle,
		})
		if err != nil {
			return err
		}
		if err := uploader.Upload(ctx, flags.s3Key, res); err != nil {
			return err
		}
	}
	return nil
}

// summaryWriter keeps stdout a clean JSON document when the result is written there.
func summaryWriter(cmd *cobra.Command) io.Writer {
	if flags.output == "-" {
		return cmd.ErrOrStderr()
	}
	return cmd.OutOrStdout()
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logrus.Error(err)
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	for _, c := range []*cobra.Command{runCmd, dayCmd} {
		c.Flags().StringVar(&configPath, "config", "", "Path to the classroom YAML file")
		c.Flags().StringVar(&logLevel, "log", "warn", "Log level (trace, debug, info, warn, error, fatal, panic)")
		flags.register(c.Flags())
	}

	runCmd.Flags().StringVar(&startFlag, "start", "", "Window start (RFC 3339, e.g. 2024-01-15T08:00:00-08:00)")
	runCmd.Flags().StringVar(&endFlag, "end", "", "Window end (RFC 3339)")

	dayCmd.Flags().StringVar(&dateFlag, "date", "", "School day (YYYY-MM-DD); overrides day.date")
	dayCmd.Flags().StringVar(&timeZoneFlag, "tz", "UTC", "IANA time zone; overrides day.timezone")
	dayCmd.Flags().IntVar(&startHourFlag, "start-hour", sim.DefaultStartHour, "First hour of the school day")
	dayCmd.Flags().IntVar(&endHourFlag, "end-hour", sim.DefaultEndHour, "Hour the school day ends")

	rootCmd.AddCommand(runCmd, dayCmd)
}
