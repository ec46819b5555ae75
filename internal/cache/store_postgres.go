package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// PostgresStore implements Store on a single-table Postgres schema.
// It is the persistent backend: cached pages survive process restarts,
// which matters for the free-tier rate budget of the upstream provider.
type PostgresStore struct{ db *sql.DB }

// NewPostgresStore creates a Postgres-backed store on an existing pool.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// EnsureSchema creates the cache table if it does not exist.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS cache_entries (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
)`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("ensure cache schema: %w", err)
	}
	return nil
}

// Get retrieves the value for a key.
func (s *PostgresStore) Get(ctx context.Context, key string) (string, bool, error) {
	const query = `
SELECT value
FROM cache_entries
WHERE key = $1
LIMIT 1`
	var value string
	err := s.db.QueryRowContext(ctx, query, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("Get: %w", err)
	}
	return value, true, nil
}

// Set upserts the value for a key.
func (s *PostgresStore) Set(ctx context.Context, key, value string) error {
	const query = `
INSERT INTO cache_entries (key, value)
VALUES ($1, $2)
ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`
	if _, err := s.db.ExecContext(ctx, query, key, value); err != nil {
		return fmt.Errorf("Set: %w", err)
	}
	return nil
}

// Keys returns all stored keys.
func (s *PostgresStore) Keys(ctx context.Context) ([]string, error) {
	const query = `
SELECT key
FROM cache_entries
ORDER BY key ASC`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("Keys: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("Keys: scan: %w", err)
		}
		keys = append(keys, k)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("Keys: rows: %w", err)
	}
	return keys, nil
}

// DeleteMany removes the given keys. Missing keys are ignored.
func (s *PostgresStore) DeleteMany(ctx context.Context, keys []string) error {
	if len(keys) == 0 {
		return nil
	}

	placeholders := make([]string, len(keys))
	args := make([]any, len(keys))
	for i, k := range keys {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = k
	}

	query := fmt.Sprintf(`DELETE FROM cache_entries WHERE key IN (%s)`,
		strings.Join(placeholders, ", "))
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("DeleteMany: %w", err)
	}
	return nil
}
