package app

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/sksn/internal/config"
	"github.com/example/sksn/internal/core/effects"
	"github.com/example/sksn/internal/ctxutil"
	"github.com/example/sksn/internal/session"
)

type executorFixture struct {
	files    *memFileStore
	session  *session.Session
	packages *mockPackageManager
	journal  *mockJournal
	executor *DefaultEffectExecutor
}

func newExecutorFixture(t *testing.T) *executorFixture {
	t.Helper()
	f := &executorFixture{
		files:    newMemFileStore(t.TempDir()),
		session:  session.New(),
		packages: &mockPackageManager{},
		journal:  &mockJournal{},
	}
	f.executor = NewEffectExecutor(f.files, f.session, f.packages, f.journal, f.files.Root(), quietConsole())
	return f
}

func TestExecutor_FileOperations(t *testing.T) {
	ctx := ctxutil.WithRunID(context.Background(), "run-1")

	t.Run("create overwrites", func(t *testing.T) {
		f := newExecutorFixture(t)
		f.files.files["a.ts"] = "old"

		err := f.executor.Execute(ctx, []effects.Effect{
			effects.FileEffect{Operation: effects.FileCreate, Path: "a.ts", Content: "new", Entity: "books"},
		})
		require.NoError(t, err)
		assert.Equal(t, "new", f.files.files["a.ts"])
		require.Len(t, f.journal.records, 1)
		assert.Equal(t, "run-1", f.journal.records[0].RunID)
		assert.Equal(t, "books", f.journal.records[0].Entity)
		assert.Equal(t, "create", f.journal.records[0].Operation)
	})

	t.Run("ensure keeps existing file", func(t *testing.T) {
		f := newExecutorFixture(t)
		f.files.files["Modal.tsx"] = "custom"

		err := f.executor.Execute(ctx, []effects.Effect{
			effects.FileEffect{Operation: effects.FileEnsure, Path: "Modal.tsx", Content: "generated"},
			effects.FileEffect{Operation: effects.FileEnsure, Path: "BackButton.tsx", Content: "generated"},
		})
		require.NoError(t, err)
		assert.Equal(t, "custom", f.files.files["Modal.tsx"])
		assert.Equal(t, "generated", f.files.files["BackButton.tsx"])
		assert.Equal(t, 1, f.executor.Written())
	})

	t.Run("replace requires existing file", func(t *testing.T) {
		f := newExecutorFixture(t)
		err := f.executor.Execute(ctx, []effects.Effect{
			effects.FileEffect{Operation: effects.FileReplace, Path: "missing.ts", Content: "x"},
		})
		require.Error(t, err)
	})

	t.Run("patch seeds absent file", func(t *testing.T) {
		f := newExecutorFixture(t)
		err := f.executor.Execute(ctx, []effects.Effect{
			effects.FileEffect{
				Operation: effects.FilePatch,
				Path:      "index.ts",
				Content:   "seed\n",
				Patch:     func(s string) (string, error) { return s + "line\n", nil },
			},
		})
		require.NoError(t, err)
		assert.Equal(t, "seed\nline\n", f.files.files["index.ts"])
	})

	t.Run("patch without change does not write", func(t *testing.T) {
		f := newExecutorFixture(t)
		f.files.files["index.ts"] = "same"
		err := f.executor.Execute(ctx, []effects.Effect{
			effects.FileEffect{
				Operation: effects.FilePatch,
				Path:      "index.ts",
				Patch:     func(s string) (string, error) { return s, nil },
			},
		})
		require.NoError(t, err)
		assert.Equal(t, 0, f.files.writes)
		assert.Empty(t, f.journal.records)
	})

	t.Run("patch error propagates", func(t *testing.T) {
		f := newExecutorFixture(t)
		f.files.files["index.ts"] = "x"
		err := f.executor.Execute(ctx, []effects.Effect{
			effects.FileEffect{
				Operation: effects.FilePatch,
				Path:      "index.ts",
				Patch:     func(string) (string, error) { return "", errors.New("no merge point") },
			},
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no merge point")
	})
}

func TestExecutor_SessionEffects(t *testing.T) {
	f := newExecutorFixture(t)

	err := f.executor.Execute(context.Background(), []effects.Effect{
		effects.InstallEffect{Regular: []string{"zod"}, Dev: []string{"tsx"}},
		effects.CompositeEffect{Effects: []effects.Effect{
			effects.InstallEffect{Regular: []string{"zod", "nanoid"}},
			effects.ComponentEffect{Components: []string{"button"}},
		}},
		effects.NoteEffect{Message: "Run db:generate"},
		effects.CommandEffect{Args: []string{"prisma", "generate"}},
		effects.NoEffect{},
	})
	require.NoError(t, err)

	regular, dev := f.session.InstallList()
	assert.Equal(t, []string{"zod", "nanoid"}, regular)
	assert.Equal(t, []string{"tsx"}, dev)
	assert.Equal(t, []string{"button"}, f.session.Components())
	assert.Equal(t, []string{"Run db:generate"}, f.session.Notes())
	assert.Equal(t, [][]string{{"prisma", "generate"}}, f.packages.execs)
	assert.Zero(t, f.packages.installs, "installs wait for the session flush")
}

func TestExecutor_ConfigEffect(t *testing.T) {
	f := newExecutorFixture(t)
	dir := f.files.Root()
	ctx := context.Background()

	err := f.executor.Execute(ctx, []effects.Effect{
		effects.ConfigEffect{Patch: config.Patch{ORM: config.String("drizzle")}},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, config.ErrNotFound))

	err = f.executor.Execute(ctx, []effects.Effect{
		effects.ConfigEffect{Patch: config.Patch{Framework: config.String("next"), Alias: config.String("~")}, Create: true},
		effects.ConfigEffect{Patch: config.Patch{ORM: config.String("drizzle"), AddPackages: []string{"drizzle"}}},
	})
	require.NoError(t, err)

	cfg, err := config.LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, "next", cfg.Framework)
	assert.Equal(t, "~", cfg.Alias)
	assert.Equal(t, "drizzle", cfg.ORM)
	assert.Equal(t, []string{"drizzle"}, cfg.Packages)
}

func TestPreviewFiles(t *testing.T) {
	files := newMemFileStore(t.TempDir())
	files.files["package.json"] = "{}"
	files.files["components/shared/Modal.tsx"] = "x"

	got, err := PreviewFiles(context.Background(), files, []effects.Effect{
		effects.FileEffect{Operation: effects.FileCreate, Path: "lib/db/schema/books.ts"},
		effects.FileEffect{Operation: effects.FilePatch, Path: "package.json"},
		effects.FileEffect{Operation: effects.FileEnsure, Path: "components/shared/Modal.tsx"},
		effects.CompositeEffect{Effects: []effects.Effect{
			effects.FileEffect{Operation: effects.FileCreate, Path: "lib/db/schema/books.ts"},
		}},
		effects.InstallEffect{Regular: []string{"zod"}},
	})
	require.NoError(t, err)

	var rows []string
	for _, c := range got {
		rows = append(rows, c.Action+" "+c.Path)
	}
	assert.Equal(t, strings.Join([]string{
		"create lib/db/schema/books.ts",
		"modify package.json",
		"skip components/shared/Modal.tsx",
	}, "\n"), strings.Join(rows, "\n"))
}
