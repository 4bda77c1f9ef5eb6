package export

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" driver
	_ "modernc.org/sqlite"             // registers the "sqlite" driver

	"github.com/inference-sim/classroom-sim/sim"
)

// Supported database/sql driver names.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "pgx"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS tray_interactions (
		id TEXT PRIMARY KEY,
		student_id TEXT NOT NULL,
		tray_id TEXT NOT NULL,
		start_time TEXT NOT NULL,
		end_time TEXT,
		interaction_type TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS material_interactions (
		id TEXT PRIMARY KEY,
		student_id TEXT NOT NULL,
		material_id TEXT NOT NULL,
		start_time TEXT NOT NULL,
		end_time TEXT
	)`,
}

// SQLSink persists results into two tables, one per record kind.
// Timestamps are stored as RFC 3339 text with nanoseconds and the zone offset.
type SQLSink struct {
	db     *sql.DB
	driver string
}

// Open connects with the given driver and DSN and creates the tables if needed.
func Open(ctx context.Context, driver, dsn string) (*SQLSink, error) {
	if driver != DriverSQLite && driver != DriverPostgres {
		return nil, fmt.Errorf("unsupported sql driver %q (want %q or %q)", driver, DriverSQLite, DriverPostgres)
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", driver, err)
	}
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("create tables: %w", err)
		}
	}
	return &SQLSink{db: db, driver: driver}, nil
}

// DB exposes the underlying handle.
func (s *SQLSink) DB() *sql.DB { return s.db }

// Close releases the database handle.
func (s *SQLSink) Close() error { return s.db.Close() }

// Write inserts every record of res in a single transaction.
func (s *SQLSink) Write(ctx context.Context, res *sim.Result) (err error) {
	if res == nil {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	trayStmt, err := tx.PrepareContext(ctx, fmt.Sprintf(
		"INSERT INTO tray_interactions (id, student_id, tray_id, start_time, end_time, interaction_type) VALUES (%s)",
		s.placeholders(6)))
	if err != nil {
		return fmt.Errorf("prepare tray insert: %w", err)
	}
	defer func() { _ = trayStmt.Close() }()
	for _, ti := range res.TrayInteractions {
		if _, err = trayStmt.ExecContext(ctx, ti.ID, ti.StudentID, ti.TrayID,
			formatTime(ti.Start), nullableTime(ti.End), string(ti.InteractionType)); err != nil {
			return fmt.Errorf("insert tray interaction %s: %w", ti.ID, err)
		}
	}

	materialStmt, err := tx.PrepareContext(ctx, fmt.Sprintf(
		"INSERT INTO material_interactions (id, student_id, material_id, start_time, end_time) VALUES (%s)",
		s.placeholders(5)))
	if err != nil {
		return fmt.Errorf("prepare material insert: %w", err)
	}
	defer func() { _ = materialStmt.Close() }()
	for _, mi := range res.MaterialInteractions {
		if _, err = materialStmt.ExecContext(ctx, mi.ID, mi.StudentID, mi.MaterialID,
			formatTime(mi.Start), nullableTime(mi.End)); err != nil {
			return fmt.Errorf("insert material interaction %s: %w", mi.ID, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// placeholders returns n bind parameters in the syntax of the sink's driver.
func (s *SQLSink) placeholders(n int) string {
	params := make([]string, n)
	for i := range params {
		if s.driver == DriverPostgres {
			params[i] = fmt.Sprintf("$%d", i+1)
		} else {
			params[i] = "?"
		}
	}
	return strings.Join(params, ", ")
}

func formatTime(t time.Time) string {
	return t.Format(time.RFC3339Nano)
}

func nullableTime(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: formatTime(*t), Valid: true}
}
