package store

import (
	"database/sql"
	"fmt"
)

// SchemaVersion is the current SQLite schema version.
const SchemaVersion = 1

// CreateSchema creates the comparisons table if it doesn't already
// exist. Document pairs and the summary are stored as JSON columns:
// they are exclusively owned by their Comparison (spec §9, "no cyclic
// references") and are never queried independently, so normalizing them
// into further tables would only add join cost with no benefit.
func CreateSchema(db *sql.DB) error {
	if err := createSchemaVersionTable(db); err != nil {
		return fmt.Errorf("creating schema_version table: %w", err)
	}
	if err := createComparisonsTable(db); err != nil {
		return fmt.Errorf("creating comparisons table: %w", err)
	}
	return nil
}

func createSchemaVersionTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER NOT NULL
		)
	`)
	if err != nil {
		return err
	}

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM schema_version").Scan(&count); err != nil {
		return err
	}
	if count == 0 {
		_, err = db.Exec("INSERT INTO schema_version (version) VALUES (?)", SchemaVersion)
		return err
	}
	return nil
}

func createComparisonsTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS comparisons (
			id TEXT PRIMARY KEY NOT NULL,
			status TEXT NOT NULL,
			start_time TEXT,
			end_time TEXT,
			status_message TEXT,
			lease_token TEXT,
			base_path TEXT,
			compare_path TEXT,
			document_pairs_json TEXT NOT NULL,
			summary_json TEXT NOT NULL
		)
	`)
	if err != nil {
		return err
	}
	_, err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_comparisons_status ON comparisons(status)
	`)
	return err
}
