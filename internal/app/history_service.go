package app

import (
	"context"
	"fmt"

	"github.com/example/sksn/internal/ports/primary"
	"github.com/example/sksn/internal/ports/secondary"
)

// HistoryServiceImpl implements the HistoryService interface.
type HistoryServiceImpl struct {
	journal secondary.JournalRepository
}

// NewHistoryService creates a new HistoryService with injected dependencies.
func NewHistoryService(journal secondary.JournalRepository) *HistoryServiceImpl {
	return &HistoryServiceImpl{
		journal: journal,
	}
}

// ListHistory retrieves journal entries matching the given filters.
func (s *HistoryServiceImpl) ListHistory(ctx context.Context, filters primary.HistoryFilters) ([]*primary.HistoryEntry, error) {
	records, err := s.journal.List(ctx, secondary.JournalFilters{
		RunID:  filters.RunID,
		Entity: filters.Entity,
		Limit:  filters.Limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}

	entries := make([]*primary.HistoryEntry, len(records))
	for i, r := range records {
		entries[i] = &primary.HistoryEntry{
			RunID:     r.RunID,
			Entity:    r.Entity,
			Operation: r.Operation,
			Path:      r.Path,
			CreatedAt: r.CreatedAt,
		}
	}
	return entries, nil
}

// PruneHistory deletes entries older than the specified number of days.
func (s *HistoryServiceImpl) PruneHistory(ctx context.Context, olderThanDays int) (int, error) {
	if olderThanDays < 1 {
		return 0, fmt.Errorf("prune age must be at least one day, got %d", olderThanDays)
	}
	return s.journal.PruneOlderThan(ctx, olderThanDays)
}

// Ensure HistoryServiceImpl implements the interface
var _ primary.HistoryService = (*HistoryServiceImpl)(nil)
