package db

import "database/sql"

// SchemaSQL is the complete schema for a fresh history database.
// It reflects the state after all migrations; tests load it through
// GetSchemaSQL instead of hardcoding their own tables.
const SchemaSQL = `
-- One row per file materialized by a run
CREATE TABLE IF NOT EXISTS generation_journal (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id TEXT NOT NULL,
	entity TEXT,
	operation TEXT NOT NULL CHECK (operation IN ('create', 'replace', 'ensure', 'patch')),
	path TEXT NOT NULL,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_generation_journal_run ON generation_journal(run_id);
CREATE INDEX IF NOT EXISTS idx_generation_journal_entity ON generation_journal(entity);
`

// InitSchema creates the schema on a fresh database, or runs pending
// migrations on an existing one.
func InitSchema(db *sql.DB) error {
	var tableCount int
	err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'").Scan(&tableCount)
	if err != nil {
		return err
	}

	if tableCount > 0 {
		return RunMigrations(db)
	}

	// Fresh install: create the modern schema and mark every migration applied
	if _, err := db.Exec(SchemaSQL); err != nil {
		return err
	}
	if err := createVersionTable(db); err != nil {
		return err
	}
	for _, m := range migrations {
		if _, err := db.Exec("INSERT INTO schema_version (version) VALUES (?)", m.Version); err != nil {
			return err
		}
	}
	return nil
}

// GetSchemaSQL returns the authoritative schema SQL for use by tests.
func GetSchemaSQL() string {
	return SchemaSQL
}
