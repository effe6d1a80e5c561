// Package store persists merge batch history and combined results in
// SQLite so completed batches survive restarts and stay downloadable after
// their in-memory job entry expires.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

const schema = `
CREATE TABLE IF NOT EXISTS batches (
    batch_id      TEXT PRIMARY KEY,
    template_name TEXT NOT NULL,
    record_count  INTEGER NOT NULL,
    status        TEXT NOT NULL,
    content_hash  TEXT NOT NULL,
    output_name   TEXT NOT NULL DEFAULT '',
    output_size   INTEGER NOT NULL DEFAULT 0,
    error         TEXT NOT NULL DEFAULT '',
    created_at    TIMESTAMP NOT NULL,
    completed_at  TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_batches_hash ON batches(content_hash);

CREATE TABLE IF NOT EXISTS batch_results (
    batch_id TEXT PRIMARY KEY REFERENCES batches(batch_id) ON DELETE CASCADE,
    data     BLOB NOT NULL
);
`

// ErrNotFound is returned when a batch ID has no row.
var ErrNotFound = errors.New("store: batch not found")

// Batch is the persisted record of one merge batch.
type Batch struct {
	ID           string    `json:"batch_id"`
	TemplateName string    `json:"template_name"`
	RecordCount  int       `json:"record_count"`
	Status       string    `json:"status"`
	ContentHash  string    `json:"content_hash"`
	OutputName   string    `json:"output_name"`
	OutputSize   int64     `json:"output_size"`
	Error        string    `json:"error,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	CompletedAt  time.Time `json:"completed_at,omitzero"`
}

// Store wraps the batch-history database.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the batch-history database at path.
func Open(path string) (*Store, error) {
	db, err := openDB(path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{db: db}, nil
}

// RecordBatch inserts or replaces a batch row; result may be nil for failed
// batches with no output.
func (s *Store) RecordBatch(ctx context.Context, b Batch, result []byte) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	var completed any
	if !b.CompletedAt.IsZero() {
		completed = b.CompletedAt
	}
	_, err = tx.ExecContext(ctx, `
		INSERT OR REPLACE INTO batches
		(batch_id, template_name, record_count, status, content_hash, output_name, output_size, error, created_at, completed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		b.ID, b.TemplateName, b.RecordCount, b.Status, b.ContentHash,
		b.OutputName, b.OutputSize, b.Error, b.CreatedAt, completed)
	if err != nil {
		return fmt.Errorf("insert batch: %w", err)
	}

	if result != nil {
		_, err = tx.ExecContext(ctx,
			`INSERT OR REPLACE INTO batch_results (batch_id, data) VALUES (?, ?)`,
			b.ID, result)
		if err != nil {
			return fmt.Errorf("insert result: %w", err)
		}
	}
	return tx.Commit()
}

// GetBatch returns one batch row.
func (s *Store) GetBatch(ctx context.Context, id string) (*Batch, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT batch_id, template_name, record_count, status, content_hash, output_name, output_size, error, created_at, completed_at
		FROM batches WHERE batch_id = ?`, id)
	return scanBatch(row)
}

// GetResult returns the combined result bytes for a batch.
func (s *Store) GetResult(ctx context.Context, id string) ([]byte, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT data FROM batch_results WHERE batch_id = ?`, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get result: %w", err)
	}
	return data, nil
}

// ListBatches returns up to limit batches, newest first.
func (s *Store) ListBatches(ctx context.Context, limit int) ([]Batch, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT batch_id, template_name, record_count, status, content_hash, output_name, output_size, error, created_at, completed_at
		FROM batches ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list batches: %w", err)
	}
	defer rows.Close()

	var out []Batch
	for rows.Next() {
		b, err := scanBatch(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *b)
	}
	return out, rows.Err()
}

// DeleteBatch removes a batch and its stored result.
func (s *Store) DeleteBatch(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM batches WHERE batch_id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete batch: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// FindByHash returns the ID of a completed batch with the given content
// hash, or "" when none exists. Used to skip duplicate submissions.
func (s *Store) FindByHash(ctx context.Context, hash string) (string, error) {
	var id string
	err := s.db.QueryRowContext(ctx, `
		SELECT batch_id FROM batches
		WHERE content_hash = ? AND status = 'completed'
		ORDER BY created_at DESC LIMIT 1`, hash).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("find by hash: %w", err)
	}
	return id, nil
}

// Close closes the underlying database.
func (s *Store) Close() error { return s.db.Close() }

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBatch(row rowScanner) (*Batch, error) {
	var b Batch
	var completed sql.NullTime
	err := row.Scan(&b.ID, &b.TemplateName, &b.RecordCount, &b.Status, &b.ContentHash,
		&b.OutputName, &b.OutputSize, &b.Error, &b.CreatedAt, &completed)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan batch: %w", err)
	}
	if completed.Valid {
		b.CompletedAt = completed.Time
	}
	return &b, nil
}
