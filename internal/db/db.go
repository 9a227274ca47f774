// Package db opens the per-project history database.
package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/example/sksn/internal/config"
)

// FileName is the history database file inside the .sksn directory.
const FileName = "history.db"

// Path returns the history database path for a project root.
func Path(projectDir string) string {
	return filepath.Join(projectDir, config.Dir, FileName)
}

// Open opens (creating if needed) the history database of a project and
// brings its schema up to date.
func Open(projectDir string) (*sql.DB, error) {
	dir := filepath.Join(projectDir, config.Dir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create %s directory: %w", config.Dir, err)
	}

	conn, err := sql.Open("sqlite3", Path(projectDir))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := InitSchema(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return conn, nil
}
