// Package usage tracks per-identity invocation counts against a fixed
// ceiling, persisted in a single SQLite table.
package usage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

// DefaultLimit is the per-identity invocation ceiling.
const DefaultLimit = 5

// ErrQuotaExceeded is returned when an identity is at or over the ceiling.
// Checked before any provider cost is incurred.
type ErrQuotaExceeded struct {
	Used  int
	Limit int
}

func (e *ErrQuotaExceeded) Error() string {
	return fmt.Sprintf("usage limit exceeded: %d/%d free summaries used", e.Used, e.Limit)
}

// Store is the SQLite-backed usage counter.
type Store struct {
	db    *sql.DB
	limit int
}

// Open creates a Store on the SQLite database at dsn, applying recommended
// pragmas and ensuring the schema exists. limit <= 0 selects DefaultLimit.
func Open(dsn string, limit int) (*Store, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}

	if err := ensureSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	return &Store{db: db, limit: limit}, nil
}

// Limit returns the configured ceiling.
func (s *Store) Limit() int {
	return s.limit
}

// CheckAndIncrement atomically checks the counter for email against the
// ceiling and increments it when under. Returns the new count, or
// ErrQuotaExceeded without incrementing when the ceiling is reached.
// The read-modify-write runs in one transaction so concurrent requests from
// the same identity cannot lose updates.
func (s *Store) CheckAndIncrement(ctx context.Context, email string) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	var count int
	err = tx.QueryRowContext(ctx,
		`SELECT count FROM user_usage WHERE email = ?`, email).Scan(&count)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("read count: %w", err)
	}

	if count >= s.limit {
		return 0, &ErrQuotaExceeded{Used: count, Limit: s.limit}
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO user_usage (email, count) VALUES (?, 1)
		 ON CONFLICT(email) DO UPDATE SET count = count + 1`, email)
	if err != nil {
		return 0, fmt.Errorf("increment: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return count + 1, nil
}

// Count returns the current counter for email, zero if absent.
func (s *Store) Count(ctx context.Context, email string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT count FROM user_usage WHERE email = ?`, email).Scan(&count)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read count: %w", err)
	}
	return count, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

func ensureSchema(db *sql.DB) error {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS user_usage (
		email TEXT PRIMARY KEY,
		count INTEGER NOT NULL DEFAULT 0
	)`)
	return err
}
