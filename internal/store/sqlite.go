package store

import (
	"database/sql"
	_ "embed"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schema string

// SlotStore is a named-slot key/value store backed by SQLite
type SlotStore struct {
	db *sql.DB
}

// OpenSlots opens (or creates) the slot database at dbPath
func OpenSlots(dbPath string) (*SlotStore, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Initialize schema
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return &SlotStore{db: db}, nil
}

// Close closes the database connection
func (s *SlotStore) Close() error {
	return s.db.Close()
}

// Get returns the value stored under key; ok is false when the slot is empty
func (s *SlotStore) Get(key string) (value []byte, ok bool, err error) {
	err = s.db.QueryRow("SELECT value FROM slots WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get slot %s: %w", key, err)
	}
	return value, true, nil
}

// Put replaces the value under key in a single statement
func (s *SlotStore) Put(key string, value []byte) error {
	_, err := s.db.Exec(
		`INSERT INTO slots (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("put slot %s: %w", key, err)
	}
	return nil
}

