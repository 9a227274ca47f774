// Package sqlite_test contains integration tests for SQLite repositories.
//
// Test databases load db.GetSchemaSQL() so they run against the same schema
// as a real project. Do not hardcode CREATE TABLE statements here.
package sqlite_test

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/example/sksn/internal/db"
)

// setupTestDB creates an in-memory database with the authoritative schema.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	testDB, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	// Every pooled connection to :memory: would get its own empty database.
	testDB.SetMaxOpenConns(1)

	_, err = testDB.Exec(db.GetSchemaSQL())
	if err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	t.Cleanup(func() {
		testDB.Close()
	})

	return testDB
}

// seedJournal inserts an entry with an explicit timestamp.
func seedJournal(t *testing.T, db *sql.DB, runID, entity, path, createdAt string) {
	t.Helper()
	var e any
	if entity != "" {
		e = entity
	}
	_, err := db.Exec(
		"INSERT INTO generation_journal (run_id, entity, operation, path, created_at) VALUES (?, ?, 'create', ?, ?)",
		runID, e, path, createdAt)
	if err != nil {
		t.Fatalf("failed to seed journal: %v", err)
	}
}
