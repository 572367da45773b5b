package template

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // SQLite driver
)

const templateSchema = `
CREATE TABLE IF NOT EXISTS pdf_templates (
	utility_type   TEXT PRIMARY KEY,
	field_mappings TEXT NOT NULL,
	updated_at     TEXT NOT NULL
)`

// SQLiteStore implements Store on a SQLite database, compatible with the
// pdf_templates table layout used by the desktop tracker.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (creating if needed) a SQLite template store.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if _, err := db.Exec(templateSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Save replaces the template for a document type.
func (s *SQLiteStore) Save(docType string, mapping Mapping) error {
	if err := checkFields(docType, mapping); err != nil {
		return err
	}
	data, err := json.Marshal(mapping)
	if err != nil {
		return fmt.Errorf("marshaling template: %w", err)
	}
	_, err = s.db.Exec(
		`INSERT OR REPLACE INTO pdf_templates (utility_type, field_mappings, updated_at) VALUES (?, ?, ?)`,
		docType, string(data), time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("saving template: %w", err)
	}
	return nil
}

// Load returns the template for a document type, or nil when none exists.
func (s *SQLiteStore) Load(docType string) (Mapping, error) {
	var data string
	err := s.db.QueryRow(
		`SELECT field_mappings FROM pdf_templates WHERE utility_type = ?`, docType,
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading template: %w", err)
	}
	var mapping Mapping
	if err := json.Unmarshal([]byte(data), &mapping); err != nil {
		return nil, fmt.Errorf("unmarshaling template: %w", err)
	}
	return mapping, nil
}

// Delete removes the template for a document type.
func (s *SQLiteStore) Delete(docType string) error {
	if _, err := s.db.Exec(`DELETE FROM pdf_templates WHERE utility_type = ?`, docType); err != nil {
		return fmt.Errorf("deleting template: %w", err)
	}
	return nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
