package app

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/example/sksn/internal/ctxutil"
	"github.com/example/sksn/internal/ports/primary"
	"github.com/example/sksn/internal/ports/secondary"
	"github.com/example/sksn/internal/scaffold"
	"github.com/example/sksn/internal/session"
	"github.com/example/sksn/internal/ui"
)

// Runner previews and applies generator results against one project.
type Runner struct {
	files    secondary.FileStore
	packages secondary.PackageManager
	journal  secondary.JournalRepository
	console  *ui.Console
	newRunID func() string
}

// NewRunner creates a Runner. journal may be nil.
func NewRunner(files secondary.FileStore, packages secondary.PackageManager, journal secondary.JournalRepository, console *ui.Console) *Runner {
	return &Runner{
		files:    files,
		packages: packages,
		journal:  journal,
		console:  console,
		newRunID: uuid.NewString,
	}
}

func (r *Runner) plan(ctx context.Context, result *scaffold.GeneratorResult) (*primary.Plan, error) {
	files, err := PreviewFiles(ctx, r.files, result.Effects)
	if err != nil {
		return nil, fmt.Errorf("failed to preview changes: %w", err)
	}
	return &primary.Plan{
		Effects:   result.Effects,
		NextSteps: result.NextSteps,
		Files:     files,
	}, nil
}

// Apply executes the plan under the given run ID, or a fresh one. With a
// shared session the packages are only queued; otherwise the run's own
// session is flushed once before returning.
func (r *Runner) Apply(ctx context.Context, plan *primary.Plan, opts primary.ApplyOptions) (*primary.RunSummary, error) {
	runID := opts.RunID
	if runID == "" {
		runID = r.newRunID()
	}
	ctx = ctxutil.WithRunID(ctx, runID)

	sess := opts.Session
	shared := sess != nil
	if !shared {
		sess = session.New()
	}
	for _, n := range plan.NextSteps {
		sess.AddNote(n)
	}

	executor := NewEffectExecutor(r.files, sess, r.packages, r.journal, r.files.Root(), r.console)
	if err := executor.Execute(ctx, plan.Effects); err != nil {
		return nil, err
	}

	regular, dev := sess.InstallList()
	summary := &primary.RunSummary{
		RunID:        runID,
		FilesWritten: executor.Written(),
		Regular:      regular,
		Dev:          dev,
		Components:   sess.Components(),
		Notes:        sess.Notes(),
	}
	if shared {
		return summary, nil
	}
	return summary, r.Install(ctx, sess, opts)
}

// Install flushes the session's packages and components, unless
// installing is skipped or nothing was queued.
func (r *Runner) Install(ctx context.Context, sess *session.Session, opts primary.ApplyOptions) error {
	if opts.SkipInstall || sess.Empty() {
		return nil
	}
	r.console.Info("Installing dependencies with %s...", r.packages.Name())
	return sess.Flush(ctx, r.packages)
}

// Ensure Runner implements the interface
var _ primary.Applier = (*Runner)(nil)
