package catalog

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStore is an opt-in persistent backend behind the same Store
// interface, so call sites do not change when the catalog outgrows memory.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.createTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return store, nil
}

func (s *SQLiteStore) createTables() error {
	query := `
	CREATE TABLE IF NOT EXISTS media (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		path TEXT NOT NULL,
		timestamp INTEGER NOT NULL,
		is_video INTEGER NOT NULL,
		formation TEXT
	);
	`

	_, err := s.db.Exec(query)
	return err
}

func (s *SQLiteStore) Insert(record *MediaRecord) error {
	if record.ID == "" {
		return fmt.Errorf("record has no id")
	}

	formation := sql.NullString{String: record.Formation, Valid: record.Formation != ""}
	_, err := s.db.Exec(
		`INSERT INTO media (id, name, path, timestamp, is_video, formation) VALUES (?, ?, ?, ?, ?, ?)`,
		record.ID, record.Name, record.Path, record.Timestamp, record.IsVideo, formation,
	)
	if err != nil {
		return fmt.Errorf("failed to insert media record: %w", err)
	}
	return nil
}

func (s *SQLiteStore) ListNewestFirst() ([]MediaRecord, error) {
	rows, err := s.db.Query(
		`SELECT id, name, path, timestamp, is_video, formation FROM media ORDER BY timestamp DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list media records: %w", err)
	}
	defer rows.Close()

	records := make([]MediaRecord, 0)
	for rows.Next() {
		var record MediaRecord
		var formation sql.NullString
		if err := rows.Scan(&record.ID, &record.Name, &record.Path, &record.Timestamp, &record.IsVideo, &formation); err != nil {
			return nil, fmt.Errorf("failed to scan media record: %w", err)
		}
		record.Formation = formation.String
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read media records: %w", err)
	}

	return records, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
