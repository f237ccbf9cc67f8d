// Package store implements the on-device persisted key-value settings store.
// Everything skycast persists (the notified-alert ledger, favorites, feature
// toggles) lives as string values under flat keys; an absent key reads as
// empty. No binary formats and no schema versioning beyond that.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// Store wraps a sqlite database holding one settings table.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the settings database at path. Use
// ":memory:" for an ephemeral store in tests.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open settings store: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping settings store: %w", err)
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS settings (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create settings table: %w", err)
	}

	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// GetString returns the value under key and whether the key was present.
func (s *Store) GetString(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("reading setting %q: %w", key, err)
	}
	return value, true, nil
}

// SetString stores value under key, replacing any previous value.
func (s *Store) SetString(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value)
	if err != nil {
		return fmt.Errorf("writing setting %q: %w", key, err)
	}
	return nil
}

// GetBool reads a boolean setting. An absent key returns the fallback.
func (s *Store) GetBool(ctx context.Context, key string, fallback bool) (bool, error) {
	value, ok, err := s.GetString(ctx, key)
	if err != nil {
		return fallback, err
	}
	if !ok {
		return fallback, nil
	}
	return value == "true", nil
}

// SetBool stores a boolean setting.
func (s *Store) SetBool(ctx context.Context, key string, value bool) error {
	str := "false"
	if value {
		str = "true"
	}
	return s.SetString(ctx, key, str)
}

// Delete removes the key. Deleting an absent key is a no-op.
func (s *Store) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM settings WHERE key = ?`, key); err != nil {
		return fmt.Errorf("deleting setting %q: %w", key, err)
	}
	return nil
}

// GetStringSlice reads a JSON-encoded string array under key. An absent key
// reads as an empty slice.
func (s *Store) GetStringSlice(ctx context.Context, key string) ([]string, error) {
	value, ok, err := s.GetString(ctx, key)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	var values []string
	if err := json.Unmarshal([]byte(value), &values); err != nil {
		return nil, fmt.Errorf("decoding setting %q: %w", key, err)
	}
	return values, nil
}

// SetStringSlice stores values as a JSON-encoded string array under key.
func (s *Store) SetStringSlice(ctx context.Context, key string, values []string) error {
	if values == nil {
		values = []string{}
	}
	encoded, err := json.Marshal(values)
	if err != nil {
		return fmt.Errorf("encoding setting %q: %w", key, err)
	}
	return s.SetString(ctx, key, string(encoded))
}

// GetJSON decodes the JSON document under key into out. Returns false when
// the key is absent, leaving out untouched.
func (s *Store) GetJSON(ctx context.Context, key string, out any) (bool, error) {
	value, ok, err := s.GetString(ctx, key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal([]byte(value), out); err != nil {
		return false, fmt.Errorf("decoding setting %q: %w", key, err)
	}
	return true, nil
}

// SetJSON stores in as a JSON document under key.
func (s *Store) SetJSON(ctx context.Context, key string, in any) error {
	encoded, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("encoding setting %q: %w", key, err)
	}
	return s.SetString(ctx, key, string(encoded))
}
