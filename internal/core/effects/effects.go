// Package effects defines effect types as data structures representing I/O operations.
// Generators return effects; the application shell interprets them.
// Effects are pure data - they describe what should happen, not how.
package effects

import "github.com/example/sksn/internal/config"

// Effect is the base interface for all effects.
type Effect interface {
	// EffectType returns a string identifier for the effect type.
	EffectType() string
}

// FileOp names a file materialization operation.
type FileOp string

const (
	// FileCreate writes the file, creating parent directories.
	FileCreate FileOp = "create"
	// FileReplace overwrites a file that is expected to exist.
	FileReplace FileOp = "replace"
	// FileEnsure writes the file only when it does not exist yet.
	FileEnsure FileOp = "ensure"
	// FilePatch reads the file, applies Patch and writes the result.
	// When the file is absent, Patch receives Content as the seed.
	FilePatch FileOp = "patch"
)

// PatchFunc transforms existing file content.
type PatchFunc func(existing string) (string, error)

// FileEffect represents a file system operation.
type FileEffect struct {
	Operation FileOp
	Path      string // relative to project root
	Content   string
	Patch     PatchFunc
	Entity    string // table name the file belongs to, empty for project files
}

func (e FileEffect) EffectType() string { return "file" }

// IsModification reports whether the effect changes a file that may already exist.
func (e FileEffect) IsModification() bool {
	return e.Operation == FileReplace || e.Operation == FilePatch
}

// InstallEffect requests packages for the run's install list.
type InstallEffect struct {
	Regular []string
	Dev     []string
}

func (e InstallEffect) EffectType() string { return "install" }

// ComponentEffect requests UI components to be added through the component CLI.
type ComponentEffect struct {
	Components []string
}

func (e ComponentEffect) EffectType() string { return "component" }

// CommandEffect runs a package-manager script or binary in the project root
// (e.g. "prisma format"). Commands run immediately and are awaited.
type CommandEffect struct {
	Args        []string
	Description string
}

func (e CommandEffect) EffectType() string { return "command" }

// ConfigEffect merges a patch into the configuration record.
type ConfigEffect struct {
	Patch  config.Patch
	Create bool // start a fresh record when none exists
}

func (e ConfigEffect) EffectType() string { return "config" }

// NoteEffect queues a next-step message shown after the run.
type NoteEffect struct {
	Message string
}

func (e NoteEffect) EffectType() string { return "note" }

// LogEffect represents a console message emitted while executing.
type LogEffect struct {
	Level   string // "info", "warn"
	Message string
}

func (e LogEffect) EffectType() string { return "log" }

// CompositeEffect holds multiple effects to be executed in sequence.
type CompositeEffect struct {
	Effects []Effect
}

func (e CompositeEffect) EffectType() string { return "composite" }

// NoEffect represents an operation that produces no side effects.
type NoEffect struct{}

func (e NoEffect) EffectType() string { return "none" }
