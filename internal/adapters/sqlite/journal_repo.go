// Package sqlite contains SQLite implementations of repository interfaces.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/sksn/internal/ports/secondary"
)

// JournalRepository implements secondary.JournalRepository with SQLite.
type JournalRepository struct {
	db *sql.DB
}

// NewJournalRepository creates a new SQLite journal repository.
func NewJournalRepository(db *sql.DB) *JournalRepository {
	return &JournalRepository{db: db}
}

// Record persists a new journal entry and sets its ID.
func (r *JournalRepository) Record(ctx context.Context, entry *secondary.JournalRecord) error {
	var entity sql.NullString
	if entry.Entity != "" {
		entity = sql.NullString{String: entry.Entity, Valid: true}
	}

	result, err := r.db.ExecContext(ctx,
		`INSERT INTO generation_journal (run_id, entity, operation, path) VALUES (?, ?, ?, ?)`,
		entry.RunID,
		entity,
		entry.Operation,
		entry.Path,
	)
	if err != nil {
		return fmt.Errorf("failed to record journal entry: %w", err)
	}

	id, err := result.LastInsertId()
	if err == nil {
		entry.ID = id
	}
	return nil
}

// List retrieves entries matching the given filters, newest first.
func (r *JournalRepository) List(ctx context.Context, filters secondary.JournalFilters) ([]*secondary.JournalRecord, error) {
	query := `SELECT id, run_id, entity, operation, path, created_at FROM generation_journal WHERE 1=1`
	args := []any{}

	if filters.RunID != "" {
		query += " AND run_id = ?"
		args = append(args, filters.RunID)
	}

	if filters.Entity != "" {
		query += " AND entity = ?"
		args = append(args, filters.Entity)
	}

	query += " ORDER BY created_at DESC, id DESC"

	if filters.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filters.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list journal entries: %w", err)
	}
	defer rows.Close()

	var entries []*secondary.JournalRecord
	for rows.Next() {
		var (
			entity    sql.NullString
			createdAt time.Time
		)

		record := &secondary.JournalRecord{}
		err := rows.Scan(&record.ID,
			&record.RunID,
			&entity,
			&record.Operation,
			&record.Path,
			&createdAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan journal entry: %w", err)
		}
		record.Entity = entity.String
		record.CreatedAt = createdAt.Format(time.RFC3339)

		entries = append(entries, record)
	}

	return entries, rows.Err()
}

// PruneOlderThan deletes entries older than the given number of days.
func (r *JournalRepository) PruneOlderThan(ctx context.Context, days int) (int, error) {
	result, err := r.db.ExecContext(ctx,
		"DELETE FROM generation_journal WHERE created_at < datetime('now', ?)",
		fmt.Sprintf("-%d days", days),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to prune journal: %w", err)
	}

	count, _ := result.RowsAffected()
	return int(count), nil
}

// Ensure JournalRepository implements the interface
var _ secondary.JournalRepository = (*JournalRepository)(nil)
