// Package primary defines the primary ports (driving adapters) for the application.
package primary

import (
	"context"

	"github.com/example/sksn/internal/core/effects"
	"github.com/example/sksn/internal/session"
)

// FileChange is one row of a run preview.
type FileChange struct {
	Action string // "create", "modify", "skip"
	Path   string
}

// Plan is a computed, not yet applied, set of changes.
type Plan struct {
	Effects   []effects.Effect
	NextSteps []string
	Files     []FileChange
}

// ApplyOptions controls how a plan is applied.
type ApplyOptions struct {
	// SkipInstall leaves the accumulated packages and components uninstalled;
	// they are reported in the summary instead.
	SkipInstall bool

	// Session collects packages, components and notes across every plan of
	// one command. When set, Apply only queues into it and the caller calls
	// Install once at the end. When nil, Apply uses its own session and
	// installs before returning.
	Session *session.Session

	// RunID groups journal entries. A fresh ID is used when empty.
	RunID string
}

// RunSummary describes an applied plan.
type RunSummary struct {
	RunID        string
	FilesWritten int
	Regular      []string
	Dev          []string
	Components   []string
	Notes        []string
}

// Applier applies plans.
type Applier interface {
	// Apply executes the plan's effects and queues the packages, components
	// and notes they request.
	Apply(ctx context.Context, plan *Plan, opts ApplyOptions) (*RunSummary, error)

	// Install flushes a session through the package manager. A session is
	// flushed at most once, and never under SkipInstall.
	Install(ctx context.Context, sess *session.Session, opts ApplyOptions) error
}
