package app

import (
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/example/sksn/internal/ports/secondary"
	"github.com/example/sksn/internal/ui"
)

// Ensure the mocks implement their interfaces
var (
	_ secondary.FileStore         = (*memFileStore)(nil)
	_ secondary.PackageManager    = (*mockPackageManager)(nil)
	_ secondary.JournalRepository = (*mockJournal)(nil)
)

// memFileStore implements secondary.FileStore in memory.
type memFileStore struct {
	root   string
	files  map[string]string
	writes int
}

func newMemFileStore(root string) *memFileStore {
	return &memFileStore{root: root, files: make(map[string]string)}
}

func (m *memFileStore) Read(ctx context.Context, path string) (string, error) {
	content, ok := m.files[path]
	if !ok {
		return "", fmt.Errorf("%w: %s", secondary.ErrFileNotFound, path)
	}
	return content, nil
}

func (m *memFileStore) Exists(ctx context.Context, path string) (bool, error) {
	_, ok := m.files[path]
	return ok, nil
}

func (m *memFileStore) Create(ctx context.Context, path, content string) error {
	m.files[path] = content
	m.writes++
	return nil
}

func (m *memFileStore) Replace(ctx context.Context, path, content string) error {
	if _, ok := m.files[path]; !ok {
		return fmt.Errorf("%w: %s", secondary.ErrFileNotFound, path)
	}
	return m.Create(ctx, path, content)
}

func (m *memFileStore) Root() string { return m.root }

func (m *memFileStore) paths() []string {
	var out []string
	for p := range m.files {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// mockPackageManager records calls instead of running processes.
type mockPackageManager struct {
	installs   int
	regular    []string
	dev        []string
	components []string
	execs      [][]string
}

func (m *mockPackageManager) Name() string { return "npm" }

func (m *mockPackageManager) Install(ctx context.Context, regular, dev []string) error {
	m.installs++
	m.regular = append(m.regular, regular...)
	m.dev = append(m.dev, dev...)
	return nil
}

func (m *mockPackageManager) AddComponents(ctx context.Context, components []string) error {
	m.components = append(m.components, components...)
	return nil
}

func (m *mockPackageManager) Exec(ctx context.Context, args []string) error {
	m.execs = append(m.execs, args)
	return nil
}

// mockJournal implements secondary.JournalRepository in memory.
type mockJournal struct {
	records []*secondary.JournalRecord
}

func (m *mockJournal) Record(ctx context.Context, entry *secondary.JournalRecord) error {
	entry.ID = int64(len(m.records) + 1)
	m.records = append(m.records, entry)
	return nil
}

func (m *mockJournal) List(ctx context.Context, filters secondary.JournalFilters) ([]*secondary.JournalRecord, error) {
	var result []*secondary.JournalRecord
	for i := len(m.records) - 1; i >= 0; i-- {
		r := m.records[i]
		if filters.RunID != "" && r.RunID != filters.RunID {
			continue
		}
		if filters.Entity != "" && r.Entity != filters.Entity {
			continue
		}
		result = append(result, r)
	}
	if filters.Limit > 0 && len(result) > filters.Limit {
		result = result[:filters.Limit]
	}
	return result, nil
}

func (m *mockJournal) PruneOlderThan(ctx context.Context, days int) (int, error) {
	n := len(m.records)
	m.records = nil
	return n, nil
}

func quietConsole() *ui.Console {
	return ui.NewConsole(io.Discard)
}
