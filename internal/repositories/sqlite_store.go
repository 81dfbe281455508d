package repositories

import (
	"database/sql"
	"fmt"

	"github.com/desertthunder/reelx/internal/shared"
)

// SQLiteStore implements [Store] on the kv table created by the embedded migrations.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore wraps a migrated database connection.
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Get returns the value stored at key.
func (s *SQLiteStore) Get(key string) (string, bool, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM kv WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("%w: failed to query key %s: %v", shared.ErrStorage, key, err)
	}
	return value, true, nil
}

// Set inserts or replaces the value at key.
func (s *SQLiteStore) Set(key, value string) error {
	query := `
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`
	if _, err := s.db.Exec(query, key, value); err != nil {
		return fmt.Errorf("%w: failed to write key %s: %v", shared.ErrStorage, key, err)
	}
	return nil
}

// Delete removes key.
func (s *SQLiteStore) Delete(key string) error {
	if _, err := s.db.Exec("DELETE FROM kv WHERE key = ?", key); err != nil {
		return fmt.Errorf("%w: failed to delete key %s: %v", shared.ErrStorage, key, err)
	}
	return nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
