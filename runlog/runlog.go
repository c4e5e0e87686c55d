// CLAUDE:SUMMARY SQLite run event log: per-company stage/status rows so skips and degraded captures leave a queryable trace.
// Package runlog records per-company pipeline events (stage reached,
// status, failure detail) in SQLite, keyed by a run ID. Skipped
// companies contribute no manifest record, so this log is the only
// durable trace of why one went missing.
//
// Writes are non-blocking by contract: a failing log store logs via
// slog and never propagates an error into the pipeline.
package runlog

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS comparison_events (
	event_id   TEXT PRIMARY KEY,
	run_id     TEXT NOT NULL,
	company    TEXT NOT NULL,
	stage      TEXT NOT NULL,
	status     TEXT NOT NULL,
	detail     TEXT NOT NULL DEFAULT '',
	created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_comparison_events_run ON comparison_events (run_id, created_at);
`

// Log writes pipeline events for one run.
type Log struct {
	db    *sql.DB
	runID string
}

// Event is one recorded pipeline event.
type Event struct {
	RunID     string
	Company   string
	Stage     string
	Status    string
	Detail    string
	CreatedAt time.Time
}

// Open opens (creating if needed) the event database at path and
// starts a new run.
func Open(path string) (*Log, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("runlog: open %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("runlog: ensure schema: %w", err)
	}
	return &Log{db: db, runID: uuid.NewString()}, nil
}

// RunID identifies this run's events.
func (l *Log) RunID() string { return l.runID }

// Event records one pipeline event. Errors are logged, not returned.
func (l *Log) Event(ctx context.Context, company, stage, status, detail string) {
	_, err := l.db.ExecContext(ctx, `
		INSERT INTO comparison_events (
			event_id, run_id, company, stage, status, detail, created_at
		) VALUES (?,?,?,?,?,?,?)`,
		uuid.NewString(), l.runID, company, stage, status, detail, time.Now().Unix())
	if err != nil {
		slog.Warn("runlog: event write failed",
			"error", err, "company", company, "stage", stage)
	}
}

// Events returns the events of a run in insertion order.
func (l *Log) Events(ctx context.Context, runID string) ([]Event, error) {
	rows, err := l.db.QueryContext(ctx, `
		SELECT run_id, company, stage, status, detail, created_at
		FROM comparison_events WHERE run_id = ?
		ORDER BY created_at, rowid`, runID)
	if err != nil {
		return nil, fmt.Errorf("runlog: query events: %w", err)
	}
	defer rows.Close()

	var out []Event
	for rows.Next() {
		var e Event
		var ts int64
		if err := rows.Scan(&e.RunID, &e.Company, &e.Stage, &e.Status, &e.Detail, &ts); err != nil {
			return nil, fmt.Errorf("runlog: scan event: %w", err)
		}
		e.CreatedAt = time.Unix(ts, 0)
		out = append(out, e)
	}
	return out, rows.Err()
}

// Cleanup deletes events older than days. Zero days disables cleanup.
func (l *Log) Cleanup(ctx context.Context, days int) error {
	if days <= 0 {
		return nil
	}
	cutoff := time.Now().Unix() - int64(days*86400)
	if _, err := l.db.ExecContext(ctx,
		`DELETE FROM comparison_events WHERE created_at < ?`, cutoff); err != nil {
		return fmt.Errorf("runlog: cleanup: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (l *Log) Close() error {
	return l.db.Close()
}
