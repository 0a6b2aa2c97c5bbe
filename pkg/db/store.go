package db

import (
	"context"
	"fmt"

	"github.com/dtnitsch/line-index/pkg/mapreduce"
)

// Store is a mapreduce.Store backed by the intermediate table.
// Every record is tagged with the run ID so several runs can share one file.
type Store struct {
	db    *DB
	runID string
}

var _ mapreduce.Store = (*Store)(nil)

// NewStore registers runID and returns a store scoped to it.
func (db *DB) NewStore(ctx context.Context, runID string) (*Store, error) {
	_, err := db.ExecContext(ctx, "INSERT INTO runs (run_id) VALUES (?)", runID)
	if err != nil {
		return nil, fmt.Errorf("failed to register run: %w", err)
	}
	return &Store{db: db, runID: runID}, nil
}

// RunID returns the run the store is scoped to.
func (s *Store) RunID() string {
	return s.runID
}

// Append inserts kvs in one transaction so their relative order is kept.
func (s *Store) Append(ctx context.Context, partition int, kvs []mapreduce.KeyValue) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO intermediate (run_id, part, key, value)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, kv := range kvs {
		if _, err := stmt.ExecContext(ctx, s.runID, partition, kv.Key, kv.Value); err != nil {
			return fmt.Errorf("failed to insert intermediate record: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit intermediate records: %w", err)
	}
	return nil
}

// Keys lists the distinct keys of a partition in byte order.
func (s *Store) Keys(ctx context.Context, partition int) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT key FROM intermediate
		WHERE run_id = ? AND part = ?
		ORDER BY key
	`, s.runID, partition)
	if err != nil {
		return nil, fmt.Errorf("failed to query keys: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("failed to scan key: %w", err)
		}
		keys = append(keys, key)
	}
	return keys, rows.Err()
}

// Values returns a key's values in insertion order.
func (s *Store) Values(ctx context.Context, partition int, key string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT value FROM intermediate
		WHERE run_id = ? AND part = ? AND key = ?
		ORDER BY seq
	`, s.runID, partition, key)
	if err != nil {
		return nil, fmt.Errorf("failed to query values: %w", err)
	}
	defer rows.Close()

	var values []string
	for rows.Next() {
		var value string
		if err := rows.Scan(&value); err != nil {
			return nil, fmt.Errorf("failed to scan value: %w", err)
		}
		values = append(values, value)
	}
	return values, rows.Err()
}

// Close drops the run and its records. The database stays open.
func (s *Store) Close() error {
	_, err := s.db.Exec("DELETE FROM runs WHERE run_id = ?", s.runID)
	if err != nil {
		return fmt.Errorf("failed to delete run %s: %w", s.runID, err)
	}
	return nil
}
