// Package store persists pipeline run snapshots to SQLite, so a priced
// dataset can be reloaded, audited or re-submitted later. The core never
// touches the store; the caller owns persistence between runs.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/Verman94/PriceWebApp/core/engine"
	"github.com/Verman94/PriceWebApp/internal/errors"
)

// Run is one stored pipeline run
type Run struct {
	// ID is the unique run identifier
	ID string `json:"id"`

	// CreatedAt is when the run was stored
	CreatedAt time.Time `json:"created_at"`

	// Method is the pricing method the run was solved with
	Method string `json:"method"`

	// InputHash identifies the input snapshot; identical inputs hash equal
	InputHash string `json:"input_hash"`

	// DurationMs is the pipeline wall-clock time
	DurationMs int64 `json:"duration_ms"`

	// Products is the full-list row count
	Products int `json:"products"`

	// Warnings is the data-quality warning count
	Warnings int `json:"warnings"`

	// Payload is the serialized engine result
	Payload []byte `json:"payload,omitempty"`
}

// Store is a SQLite-backed run archive
type Store struct {
	db *sql.DB
}

// Open opens the run store, creating the database and schema when absent
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, errors.Wrap(errors.TypeStorage, "create store directory", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrap(errors.TypeStorage, "open sqlite database", err)
	}

	if _, err := db.Exec(`
		PRAGMA journal_mode = WAL;
		PRAGMA busy_timeout = 5000;
	`); err != nil {
		db.Close()
		return nil, errors.Wrap(errors.TypeStorage, "set sqlite pragmas", err)
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS runs (
			id          TEXT PRIMARY KEY,
			created_at  TEXT NOT NULL,
			method      TEXT NOT NULL,
			input_hash  TEXT NOT NULL,
			duration_ms INTEGER NOT NULL,
			products    INTEGER NOT NULL,
			warnings    INTEGER NOT NULL,
			payload     BLOB NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at);
		CREATE INDEX IF NOT EXISTS idx_runs_input_hash ON runs(input_hash);
	`); err != nil {
		db.Close()
		return nil, errors.Wrap(errors.TypeStorage, "create schema", err)
	}

	return &Store{db: db}, nil
}

// SaveRun stores one engine result and returns the new run ID
func (s *Store) SaveRun(ctx context.Context, result *engine.Result) (string, error) {
	payload, err := json.Marshal(result)
	if err != nil {
		return "", errors.Wrap(errors.TypeStorage, "marshal run payload", err)
	}

	id := uuid.NewString()
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO runs (id, created_at, method, input_hash, duration_ms, products, warnings, payload)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id,
		time.Now().UTC().Format(time.RFC3339Nano),
		string(result.Method),
		result.InputHash,
		result.Duration.Milliseconds(),
		len(result.Dataset.FullList),
		len(result.Warnings),
		payload,
	)
	if err != nil {
		return "", errors.Wrap(errors.TypeStorage, "insert run", err)
	}
	return id, nil
}

// GetRun loads one stored run with its payload
func (s *Store) GetRun(ctx context.Context, id string) (*Run, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, created_at, method, input_hash, duration_ms, products, warnings, payload
		FROM runs WHERE id = ?`, id)

	run, err := scanRun(row)
	if err == sql.ErrNoRows {
		return nil, errors.Newf(errors.TypeStorage, "run not found: %s", id)
	}
	if err != nil {
		return nil, errors.Wrap(errors.TypeStorage, "load run", err)
	}
	return run, nil
}

// ListRuns returns the most recent runs, newest first, without payloads
func (s *Store) ListRuns(ctx context.Context, limit int) ([]*Run, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, created_at, method, input_hash, duration_ms, products, warnings, NULL
		FROM runs ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, errors.Wrap(errors.TypeStorage, "list runs", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, errors.Wrap(errors.TypeStorage, "scan run", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// Close closes the underlying database
func (s *Store) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (*Run, error) {
	var run Run
	var createdAt string
	if err := row.Scan(&run.ID, &createdAt, &run.Method, &run.InputHash,
		&run.DurationMs, &run.Products, &run.Warnings, &run.Payload); err != nil {
		return nil, err
	}
	ts, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	run.CreatedAt = ts
	return &run, nil
}
