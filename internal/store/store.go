// Package store provides a SQLite-backed history of evaluation runs. Every
// completed evaluation records its strategy version, dataset, and summary
// metrics so successive runs can be compared without digging through report
// files.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // register "sqlite" driver
)

// Run is one completed evaluation run.
type Run struct {
	// RunID is the unique identifier assigned when the run log was written.
	RunID string
	// Version is the retrieval strategy version token.
	Version string
	// Dataset is the path of the labeled question dataset used.
	Dataset string
	// TopK is the retrieval depth the metrics were computed at.
	TopK int
	// QueryCount is the number of queries evaluated.
	QueryCount int
	// MeanRecall is the mean recall@k across all queries.
	MeanRecall float64
	// MeanPrecision is the mean precision@k across all queries.
	MeanPrecision float64
	// MAP is the mean average precision@k across all queries.
	MAP float64
	// MRR is the mean reciprocal rank@k across all queries.
	MRR float64
	// CreatedAt is when the run was persisted.
	CreatedAt time.Time
}

// RunStore persists and retrieves evaluation run summaries.
// Implementations must be safe for concurrent use.
type RunStore interface {
	// Save persists a single run summary.
	Save(ctx context.Context, run Run) error
	// Recent returns the most recent n runs, newest-first. An empty version
	// returns runs for all strategy versions.
	Recent(ctx context.Context, version string, n int) ([]Run, error)
	// Close releases any resources held by the store.
	Close() error
}

// SQLiteStore is a RunStore backed by a local SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// DefaultDBPath returns the default path for the run history database.
// It resolves to ~/.lawrag/runs.db, creating the directory if needed.
func DefaultDBPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("store: could not determine home directory: %w", err)
	}
	dir := filepath.Join(home, ".lawrag")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("store: could not create %s: %w", dir, err)
	}
	return filepath.Join(dir, "runs.db"), nil
}

// Open opens (or creates) a SQLiteStore at the given path and runs the schema
// migration. Use ":memory:" for an in-memory database in tests.
func Open(path string) (*SQLiteStore, error) {
	// WAL mode improves concurrent read performance and is safe for single-host use.
	dsn := path + "?_journal_mode=WAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", path, err)
	}
	// Limit to a single writer connection to avoid SQLITE_BUSY under concurrent writes.
	db.SetMaxOpenConns(1)

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// migrate creates the schema if it does not already exist.
func (s *SQLiteStore) migrate() error {
	const ddl = `
CREATE TABLE IF NOT EXISTS runs (
    id             INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id         TEXT    NOT NULL UNIQUE,
    version        TEXT    NOT NULL,
    dataset        TEXT    NOT NULL,
    top_k          INTEGER NOT NULL,
    query_count    INTEGER NOT NULL,
    mean_recall    REAL    NOT NULL,
    mean_precision REAL    NOT NULL,
    map            REAL    NOT NULL,
    mrr            REAL    NOT NULL,
    created_at     INTEGER NOT NULL  -- Unix timestamp (seconds)
);
CREATE INDEX IF NOT EXISTS idx_runs_version_created
    ON runs (version, created_at);
`
	if _, err := s.db.Exec(ddl); err != nil {
		return fmt.Errorf("store: migrate: %w", err)
	}
	return nil
}

// Save persists a single run summary.
func (s *SQLiteStore) Save(ctx context.Context, run Run) error {
	created := run.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	const q = `
INSERT INTO runs (run_id, version, dataset, top_k, query_count, mean_recall, mean_precision, map, mrr, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, q,
		run.RunID, run.Version, run.Dataset, run.TopK, run.QueryCount,
		run.MeanRecall, run.MeanPrecision, run.MAP, run.MRR, created.Unix(),
	)
	if err != nil {
		return fmt.Errorf("store: save run: %w", err)
	}
	return nil
}

// Recent returns the most recent n runs, newest-first. An empty version
// returns runs for all strategy versions.
func (s *SQLiteStore) Recent(ctx context.Context, version string, n int) ([]Run, error) {
	q := `
SELECT run_id, version, dataset, top_k, query_count, mean_recall, mean_precision, map, mrr, created_at
FROM   runs`
	args := []any{}
	if version != "" {
		q += ` WHERE version = ?`
		args = append(args, version)
	}
	q += ` ORDER BY created_at DESC, id DESC LIMIT ?`
	args = append(args, n)

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("store: recent: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var ts int64
		if err := rows.Scan(&r.RunID, &r.Version, &r.Dataset, &r.TopK, &r.QueryCount,
			&r.MeanRecall, &r.MeanPrecision, &r.MAP, &r.MRR, &ts); err != nil {
			return nil, fmt.Errorf("store: recent scan: %w", err)
		}
		r.CreatedAt = time.Unix(ts, 0)
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: recent rows: %w", err)
	}
	return runs, nil
}

// Close releases the database connection pool.
func (s *SQLiteStore) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("store: close: %w", err)
	}
	return nil
}
