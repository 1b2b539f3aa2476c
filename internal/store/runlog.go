package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rotisserie/eris"

	"github.com/sells-group/airport-cli/internal/db"
)

// Run statuses.
const (
	StatusRunning  = "running"
	StatusComplete = "complete"
	StatusFailed   = "failed"
)

// RunEntry is one row of nasr.run_log.
type RunEntry struct {
	ID          string         `json:"id"`
	Source      string         `json:"source"`
	Status      string         `json:"status"`
	StartedAt   time.Time      `json:"started_at"`
	CompletedAt *time.Time     `json:"completed_at,omitempty"`
	Facilities  int            `json:"facilities"`
	Admitted    int            `json:"admitted"`
	RunwayEnds  int            `json:"runway_ends"`
	Error       string         `json:"error,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// RunResult holds the counts recorded when a run completes.
type RunResult struct {
	Facilities int
	Admitted   int
	RunwayEnds int
	Metadata   map[string]any
}

// RunLog reads and writes nasr.run_log.
type RunLog struct {
	pool db.Pool
}

// NewRunLog creates a RunLog backed by pool.
func NewRunLog(pool db.Pool) *RunLog {
	return &RunLog{pool: pool}
}

// Start records a new running entry and returns its id.
func (l *RunLog) Start(ctx context.Context, id uuid.UUID, source string, startedAt time.Time) error {
	_, err := l.pool.Exec(ctx,
		`INSERT INTO nasr.run_log (id, source, status, started_at) VALUES ($1, $2, $3, $4)`,
		id.String(), source, StatusRunning, startedAt,
	)
	if err != nil {
		return eris.Wrapf(err, "runlog: start %s", id)
	}
	return nil
}

// Complete marks a run as successfully completed.
func (l *RunLog) Complete(ctx context.Context, id uuid.UUID, completedAt time.Time, result RunResult) error {
	var meta []byte
	if result.Metadata != nil {
		var err error
		if meta, err = json.Marshal(result.Metadata); err != nil {
			return eris.Wrap(err, "runlog: marshal metadata")
		}
	}

	_, err := l.pool.Exec(ctx,
		`UPDATE nasr.run_log
		 SET status = $1, completed_at = $2, facilities = $3, admitted = $4, runway_ends = $5, metadata = $6
		 WHERE id = $7`,
		StatusComplete, completedAt, result.Facilities, result.Admitted, result.RunwayEnds, meta, id.String(),
	)
	if err != nil {
		return eris.Wrapf(err, "runlog: complete %s", id)
	}
	return nil
}

// Fail marks a run as failed.
func (l *RunLog) Fail(ctx context.Context, id uuid.UUID, completedAt time.Time, errMsg string) error {
	_, err := l.pool.Exec(ctx,
		`UPDATE nasr.run_log SET status = $1, completed_at = $2, error = $3 WHERE id = $4`,
		StatusFailed, completedAt, errMsg, id.String(),
	)
	if err != nil {
		return eris.Wrapf(err, "runlog: fail %s", id)
	}
	return nil
}

// LastSuccess returns the start time of the most recent completed run, or
// nil if there is none.
func (l *RunLog) LastSuccess(ctx context.Context) (*time.Time, error) {
	var t time.Time
	err := l.pool.QueryRow(ctx,
		`SELECT started_at FROM nasr.run_log WHERE status = $1 ORDER BY started_at DESC LIMIT 1`,
		StatusComplete,
	).Scan(&t)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "runlog: last success")
	}
	return &t, nil
}

// List returns up to limit entries, most recent first.
func (l *RunLog) List(ctx context.Context, limit int) ([]RunEntry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := l.pool.Query(ctx,
		`SELECT id, source, status, started_at, completed_at, facilities, admitted, runway_ends, error, metadata
		 FROM nasr.run_log ORDER BY started_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, eris.Wrap(err, "runlog: list")
	}
	defer rows.Close()

	var entries []RunEntry
	for rows.Next() {
		var e RunEntry
		var errStr *string
		var meta []byte
		if err := rows.Scan(&e.ID, &e.Source, &e.Status, &e.StartedAt, &e.CompletedAt,
			&e.Facilities, &e.Admitted, &e.RunwayEnds, &errStr, &meta); err != nil {
			return nil, eris.Wrap(err, "runlog: scan entry")
		}
		if errStr != nil {
			e.Error = *errStr
		}
		if meta != nil {
			_ = json.Unmarshal(meta, &e.Metadata)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
