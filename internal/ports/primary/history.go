package primary

import "context"

// HistoryService defines the primary port for the generation journal.
type HistoryService interface {
	// ListHistory retrieves journal entries matching the given filters.
	ListHistory(ctx context.Context, filters HistoryFilters) ([]*HistoryEntry, error)

	// PruneHistory deletes entries older than the specified number of days.
	PruneHistory(ctx context.Context, olderThanDays int) (int, error)
}

// HistoryEntry represents one journaled file write at the port boundary.
type HistoryEntry struct {
	RunID     string
	Entity    string
	Operation string
	Path      string
	CreatedAt string
}

// HistoryFilters contains filter options for querying the journal.
type HistoryFilters struct {
	RunID  string
	Entity string
	Limit  int
}
