package secondary

import "context"

// JournalRepository defines the secondary port for the generation journal.
// Entries are immutable - no Update operations, but old entries can be pruned.
type JournalRepository interface {
	// Record persists a new journal entry.
	Record(ctx context.Context, entry *JournalRecord) error

	// List retrieves entries matching the given filters, newest first.
	List(ctx context.Context, filters JournalFilters) ([]*JournalRecord, error)

	// PruneOlderThan deletes entries older than the given number of days.
	// Returns the number of deleted entries.
	PruneOlderThan(ctx context.Context, days int) (int, error)
}

// JournalRecord is one materialized file as stored in persistence.
type JournalRecord struct {
	ID        int64
	RunID     string
	Entity    string // Empty string means null - project files have no entity
	Operation string // 'create', 'replace', 'ensure', 'patch'
	Path      string
	CreatedAt string
}

// JournalFilters contains filter options for querying the journal.
type JournalFilters struct {
	RunID  string
	Entity string
	Limit  int
}
