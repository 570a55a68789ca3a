// Package ledger keeps an append-only history of the writes huectl sent to the bridge.
package ledger

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/dokzlo13/huectl/internal/hue"
)

// Outcome of a recorded call
type Outcome string

const (
	OutcomeOK     Outcome = "ok"
	OutcomeFailed Outcome = "failed"
)

// Entry represents a single write in the ledger
type Entry struct {
	ID        int64     `json:"id" yaml:"id"`
	RunID     string    `json:"run_id" yaml:"run_id"`
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
	Method    string    `json:"method" yaml:"method"`
	Path      string    `json:"path" yaml:"path"`
	Body      string    `json:"body,omitempty" yaml:"body,omitempty"`
	Outcome   Outcome   `json:"outcome" yaml:"outcome"`
	Error     string    `json:"error,omitempty" yaml:"error,omitempty"`
}

// Ledger provides append-only write logging
type Ledger struct {
	db  *sql.DB
	now func() time.Time
}

// New creates a new Ledger using the provided database connection
func New(db *sql.DB) *Ledger {
	return &Ledger{db: db, now: time.Now}
}

// Append adds a new entry to the ledger
func (l *Ledger) Append(e Entry) error {
	if e.Timestamp.IsZero() {
		e.Timestamp = l.now()
	}
	_, err := l.db.Exec(
		`INSERT INTO write_ledger (run_id, timestamp, method, path, body, outcome, error) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.RunID, e.Timestamp.UTC().UnixNano(), e.Method, e.Path, e.Body, string(e.Outcome), e.Error,
	)
	return err
}

// Recent returns the newest entries first
func (l *Ledger) Recent(limit int) ([]*Entry, error) {
	rows, err := l.db.Query(`
		SELECT id, run_id, timestamp, method, path, body, outcome, error
		FROM write_ledger
		ORDER BY timestamp DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return l.scanEntries(rows)
}

// ByRun returns the entries written by one invocation in order
func (l *Ledger) ByRun(runID string) ([]*Entry, error) {
	rows, err := l.db.Query(`
		SELECT id, run_id, timestamp, method, path, body, outcome, error
		FROM write_ledger
		WHERE run_id = ?
		ORDER BY id ASC
	`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return l.scanEntries(rows)
}

// DeleteOlderThan removes entries older than the specified duration (retention policy)
func (l *Ledger) DeleteOlderThan(retention time.Duration) (int64, error) {
	cutoff := l.now().Add(-retention).UTC().UnixNano()
	result, err := l.db.Exec(`DELETE FROM write_ledger WHERE timestamp < ?`, cutoff)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (l *Ledger) scanEntries(rows *sql.Rows) ([]*Entry, error) {
	var entries []*Entry
	for rows.Next() {
		var entry Entry
		var body, errText sql.NullString
		var outcome string
		var timestamp int64

		if err := rows.Scan(
			&entry.ID, &entry.RunID, &timestamp, &entry.Method, &entry.Path, &body, &outcome, &errText,
		); err != nil {
			return nil, err
		}

		entry.Timestamp = time.Unix(0, timestamp).UTC()
		entry.Outcome = Outcome(outcome)
		if body.Valid {
			entry.Body = body.String
		}
		if errText.Valid {
			entry.Error = errText.String
		}
		entries = append(entries, &entry)
	}

	return entries, rows.Err()
}

// recorder is a hue.Transport that appends every PUT, POST and DELETE to a Ledger.
// GETs pass through untouched.
type recorder struct {
	next   hue.Transport
	ledger *Ledger
	runID  string
}

// Recording wraps next so that its writes are recorded under runID
func Recording(next hue.Transport, l *Ledger, runID string) hue.Transport {
	return &recorder{next: next, ledger: l, runID: runID}
}

func (r *recorder) Get(ctx context.Context, path string) ([]byte, error) {
	return r.next.Get(ctx, path)
}

func (r *recorder) Post(ctx context.Context, path string, body []byte) ([]byte, error) {
	resp, err := r.next.Post(ctx, path, body)
	r.record(ctx, http.MethodPost, path, body, err)
	return resp, err
}

func (r *recorder) Put(ctx context.Context, path string, body []byte) ([]byte, error) {
	resp, err := r.next.Put(ctx, path, body)
	r.record(ctx, http.MethodPut, path, body, err)
	return resp, err
}

func (r *recorder) Delete(ctx context.Context, path string) ([]byte, error) {
	resp, err := r.next.Delete(ctx, path)
	r.record(ctx, http.MethodDelete, path, nil, err)
	return resp, err
}

// record never fails the call it describes; a ledger problem is only logged
func (r *recorder) record(ctx context.Context, method, path string, body []byte, callErr error) {
	entry := Entry{
		RunID:   r.runID,
		Method:  method,
		Path:    path,
		Body:    string(body),
		Outcome: OutcomeOK,
	}
	if callErr != nil {
		entry.Outcome = OutcomeFailed
		entry.Error = callErr.Error()
	}
	if err := r.ledger.Append(entry); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("path", path).Msg("Failed to record write in ledger")
	}
}
