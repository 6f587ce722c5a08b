// Package sqlite records download attempts in a SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/savage13/fern/internal/domain"
)

const timeLayout = "2006-01-02T15:04:05.000Z"

// Journal implements ports.Journal.
type Journal struct {
	conn *sql.DB
}

// Open opens or creates the journal database at path.
func Open(path string) (*Journal, error) {
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create journal directory: %w", err)
		}
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}
	if _, err := conn.Exec(createAttemptsTable); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create journal schema: %w", err)
	}
	return &Journal{conn: conn}, nil
}

// Close closes the database connection.
func (j *Journal) Close() error {
	return j.conn.Close()
}

// Record stores one attempt.
func (j *Journal) Record(ctx context.Context, a domain.Attempt) error {
	_, err := j.conn.ExecContext(ctx, insertAttempt,
		a.RunID,
		a.Index,
		a.DataCenter,
		a.URL,
		a.Lines,
		a.Outcome.String(),
		a.Status,
		a.Bytes,
		a.Key,
		a.Error,
		a.Started.UTC().Format(timeLayout),
		a.Duration.Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("failed to record attempt: %w", err)
	}
	return nil
}

// List returns up to limit attempts, most recent first.
func (j *Journal) List(ctx context.Context, limit int) ([]domain.Attempt, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := j.conn.QueryContext(ctx, selectAttempts, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query attempts: %w", err)
	}
	defer rows.Close()

	var out []domain.Attempt
	for rows.Next() {
		var (
			a        domain.Attempt
			outcome  string
			started  string
			duration int64
		)
		if err := rows.Scan(&a.RunID, &a.Index, &a.DataCenter, &a.URL, &a.Lines, &outcome,
			&a.Status, &a.Bytes, &a.Key, &a.Error, &started, &duration); err != nil {
			return nil, fmt.Errorf("failed to scan attempt: %w", err)
		}
		a.Outcome = domain.ParseOutcome(outcome)
		if a.Started, err = time.Parse(timeLayout, started); err != nil {
			return nil, fmt.Errorf("attempt %s/%d has bad start time: %w", a.RunID, a.Index, err)
		}
		a.Duration = time.Duration(duration) * time.Millisecond
		out = append(out, a)
	}
	return out, rows.Err()
}
