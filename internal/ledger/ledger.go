// Package ledger keeps a history of transformed files in a SQL table so a
// batch can be audited after the fact.
package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	_ "modernc.org/sqlite"

	"curfmt/internal/transform"
)

// Entry is one row of the curfmt_runs table.
type Entry struct {
	RunID         string
	Input         string
	Output        string
	Status        string
	Kind          string
	Error         string
	Rows          int64
	InputColumns  int
	OutputColumns int
	Appended      []string
	Bytes         int64
	Checksum      string
	Started       time.Time
	Finished      time.Time
}

type Ledger interface {
	Record(ctx context.Context, e Entry) error
	Close() error
}

// FromOutcome converts a batch outcome into a ledger entry.
func FromOutcome(runID string, o transform.Outcome) Entry {
	e := Entry{
		RunID:    runID,
		Input:    o.Input,
		Output:   o.Output,
		Status:   o.Status,
		Kind:     string(o.Kind),
		Error:    o.Error,
		Started:  o.Started,
		Finished: time.Now(),
	}
	if r := o.Result; r != nil {
		e.Rows = r.Rows
		e.InputColumns = r.InputColumns
		e.OutputColumns = r.OutputColumns
		e.Appended = r.Appended
		e.Bytes = r.Bytes
		e.Checksum = r.Checksum
	}
	return e
}

// Open connects to driver ("sqlite" or "mysql") and ensures the table exists.
// An empty driver returns a ledger that discards entries.
func Open(ctx context.Context, driver, dsn string) (Ledger, error) {
	driver = strings.ToLower(strings.TrimSpace(driver))
	switch driver {
	case "":
		return nop{}, nil
	case "sqlite":
	case "mysql":
		cfg, err := mysql.ParseDSN(dsn)
		if err != nil {
			return nil, fmt.Errorf("ledger: mysql dsn: %w", err)
		}
		cfg.ParseTime = true
		dsn = cfg.FormatDSN()
	default:
		return nil, fmt.Errorf("ledger: unknown driver %q", driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("ledger: open %s: %w", driver, err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ledger: ping %s: %w", driver, err)
	}
	if driver == "sqlite" {
		db.SetMaxOpenConns(1)
	}
	if _, err := db.ExecContext(ctx, createTable[driver]); err != nil {
		db.Close()
		return nil, fmt.Errorf("ledger: create table: %w", err)
	}
	return &SQL{db: db, driver: driver}, nil
}

var createTable = map[string]string{
	"sqlite": `
		CREATE TABLE IF NOT EXISTS curfmt_runs (
			id             INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id         TEXT    NOT NULL,
			input_path     TEXT    NOT NULL,
			output_path    TEXT    NOT NULL,
			status         TEXT    NOT NULL,
			error_kind     TEXT    NOT NULL DEFAULT '',
			error          TEXT    NOT NULL DEFAULT '',
			rows_written   INTEGER NOT NULL DEFAULT 0,
			input_columns  INTEGER NOT NULL DEFAULT 0,
			output_columns INTEGER NOT NULL DEFAULT 0,
			appended       TEXT    NOT NULL DEFAULT '',
			bytes          INTEGER NOT NULL DEFAULT 0,
			checksum       TEXT    NOT NULL DEFAULT '',
			started_at     TIMESTAMP,
			finished_at    TIMESTAMP
		)`,
	"mysql": `
		CREATE TABLE IF NOT EXISTS curfmt_runs (
			id             BIGINT AUTO_INCREMENT PRIMARY KEY,
			run_id         CHAR(36)      NOT NULL,
			input_path     VARCHAR(1024) NOT NULL,
			output_path    VARCHAR(1024) NOT NULL,
			status         VARCHAR(16)   NOT NULL,
			error_kind     VARCHAR(32)   NOT NULL DEFAULT '',
			error          TEXT          NOT NULL,
			rows_written   BIGINT        NOT NULL DEFAULT 0,
			input_columns  INT           NOT NULL DEFAULT 0,
			output_columns INT           NOT NULL DEFAULT 0,
			appended       TEXT          NOT NULL,
			bytes          BIGINT        NOT NULL DEFAULT 0,
			checksum       CHAR(16)      NOT NULL DEFAULT '',
			started_at     DATETIME(6)   NULL,
			finished_at    DATETIME(6)   NULL,
			KEY idx_curfmt_runs_run_id (run_id)
		) DEFAULT CHARSET=utf8mb4`,
}

// SQL stores entries through database/sql.
type SQL struct {
	db     *sql.DB
	driver string
}

func (l *SQL) Record(ctx context.Context, e Entry) error {
	const q = `
		INSERT INTO curfmt_runs (
			run_id, input_path, output_path, status, error_kind, error,
			rows_written, input_columns, output_columns, appended, bytes, checksum,
			started_at, finished_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := l.db.ExecContext(ctx, q,
		e.RunID, e.Input, e.Output, e.Status, e.Kind, e.Error,
		e.Rows, e.InputColumns, e.OutputColumns, strings.Join(e.Appended, ","), e.Bytes, e.Checksum,
		e.Started.UTC(), e.Finished.UTC(),
	)
	if err != nil {
		return fmt.Errorf("ledger: insert %s: %w", e.Input, err)
	}
	return nil
}

// List returns the entries of one run in insertion order. Timestamps are not
// read back.
func (l *SQL) List(ctx context.Context, runID string) ([]Entry, error) {
	const q = `
		SELECT run_id, input_path, output_path, status, error_kind, error,
		       rows_written, input_columns, output_columns, appended, bytes, checksum
		FROM curfmt_runs
		WHERE run_id = ?
		ORDER BY id`
	rows, err := l.db.QueryContext(ctx, q, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var (
			e        Entry
			appended string
		)
		if err := rows.Scan(&e.RunID, &e.Input, &e.Output, &e.Status, &e.Kind, &e.Error,
			&e.Rows, &e.InputColumns, &e.OutputColumns, &appended, &e.Bytes, &e.Checksum); err != nil {
			return nil, err
		}
		if appended != "" {
			e.Appended = strings.Split(appended, ",")
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (l *SQL) Close() error { return l.db.Close() }

type nop struct{}

func (nop) Record(context.Context, Entry) error { return nil }
func (nop) Close() error                        { return nil }
