// Package audit is an append-only trail of assembly runs, for the operator
// dashboard. Writes are best-effort: the pipeline never fails because an
// audit insert did.
package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"
)

type Event struct {
	Offset    int64  `json:"offset"`
	RunID     string `json:"run_id"`
	Type      string `json:"type"` // run_started, sampled, audio_generated, ...
	DataJSON  string `json:"data"`
	CreatedAt int64  `json:"created_at"`
}

type Repo struct{ db *sql.DB }

func NewRepo(db *sql.DB) *Repo { return &Repo{db: db} }

// Append records one run event. data is marshalled to JSON; a nil data
// stores an empty object.
func (r *Repo) Append(ctx context.Context, runID, typ string, data any) error {
	payload := []byte("{}")
	if data != nil {
		b, err := json.Marshal(data)
		if err != nil {
			return err
		}
		payload = b
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO run_events (run_id, typ, data, created_at)
		 VALUES ($1,$2,$3,$4)`,
		runID, typ, string(payload), time.Now().Unix())
	return err
}

// Recent returns the newest events first, capped at limit.
func (r *Repo) Recent(ctx context.Context, limit int) ([]Event, error) {
	if limit < 1 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT offset_id, run_id, typ, data, created_at
		 FROM run_events ORDER BY offset_id DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Event
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.Offset, &e.RunID, &e.Type, &e.DataJSON, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// ForRun returns a single run's events in insertion order.
func (r *Repo) ForRun(ctx context.Context, runID string) ([]Event, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT offset_id, run_id, typ, data, created_at
		 FROM run_events WHERE run_id=$1 ORDER BY offset_id ASC`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Event
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.Offset, &e.RunID, &e.Type, &e.DataJSON, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
