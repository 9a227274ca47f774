// Package app contains the application layer - service implementations and effect execution.
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/example/sksn/internal/config"
	"github.com/example/sksn/internal/core/effects"
	"github.com/example/sksn/internal/ctxutil"
	"github.com/example/sksn/internal/ports/primary"
	"github.com/example/sksn/internal/ports/secondary"
	"github.com/example/sksn/internal/session"
	"github.com/example/sksn/internal/ui"
)

// EffectExecutor interprets and executes effects.
// This is the "Imperative Shell" - the only place I/O happens.
type EffectExecutor interface {
	Execute(ctx context.Context, effs []effects.Effect) error
}

// DefaultEffectExecutor implements EffectExecutor against a project.
// Install and component requests go to the run's session; commands run
// immediately through the package manager.
type DefaultEffectExecutor struct {
	files     secondary.FileStore
	session   *session.Session
	packages  secondary.PackageManager
	journal   secondary.JournalRepository // optional
	configDir string
	console   *ui.Console

	written int
}

// NewEffectExecutor creates a new DefaultEffectExecutor.
func NewEffectExecutor(
	files secondary.FileStore,
	sess *session.Session,
	packages secondary.PackageManager,
	journal secondary.JournalRepository,
	configDir string,
	console *ui.Console,
) *DefaultEffectExecutor {
	return &DefaultEffectExecutor{
		files:     files,
		session:   sess,
		packages:  packages,
		journal:   journal,
		configDir: configDir,
		console:   console,
	}
}

// Written returns the number of files written so far.
func (e *DefaultEffectExecutor) Written() int { return e.written }

// Execute processes a slice of effects, executing each in sequence.
func (e *DefaultEffectExecutor) Execute(ctx context.Context, effs []effects.Effect) error {
	for _, eff := range effs {
		if err := e.executeOne(ctx, eff); err != nil {
			return fmt.Errorf("failed to execute %s effect: %w", eff.EffectType(), err)
		}
	}
	return nil
}

func (e *DefaultEffectExecutor) executeOne(ctx context.Context, eff effects.Effect) error {
	switch typed := eff.(type) {
	case effects.FileEffect:
		return e.executeFile(ctx, typed)
	case effects.InstallEffect:
		e.session.AddToInstallList(typed.Regular, typed.Dev)
		return nil
	case effects.ComponentEffect:
		e.session.AddComponents(typed.Components...)
		return nil
	case effects.CommandEffect:
		return e.executeCommand(ctx, typed)
	case effects.ConfigEffect:
		return e.executeConfig(typed)
	case effects.NoteEffect:
		e.session.AddNote(typed.Message)
		return nil
	case effects.CompositeEffect:
		return e.Execute(ctx, typed.Effects)
	case effects.NoEffect:
		return nil
	case effects.LogEffect:
		if typed.Level == "warn" {
			e.console.Warn("%s", typed.Message)
		} else {
			e.console.Info("%s", typed.Message)
		}
		return nil
	default:
		return fmt.Errorf("unknown effect type: %T", eff)
	}
}

func (e *DefaultEffectExecutor) executeFile(ctx context.Context, eff effects.FileEffect) error {
	switch eff.Operation {
	case effects.FileCreate:
		if err := e.files.Create(ctx, eff.Path, eff.Content); err != nil {
			return err
		}
		e.console.Success("Created %s", eff.Path)

	case effects.FileReplace:
		if err := e.files.Replace(ctx, eff.Path, eff.Content); err != nil {
			return err
		}
		e.console.Success("Updated %s", eff.Path)

	case effects.FileEnsure:
		exists, err := e.files.Exists(ctx, eff.Path)
		if err != nil {
			return err
		}
		if exists {
			return nil
		}
		if err := e.files.Create(ctx, eff.Path, eff.Content); err != nil {
			return err
		}
		e.console.Success("Created %s", eff.Path)

	case effects.FilePatch:
		changed, created, err := e.patch(ctx, eff)
		if err != nil {
			return err
		}
		if !changed {
			return nil
		}
		if created {
			e.console.Success("Created %s", eff.Path)
		} else {
			e.console.Success("Updated %s", eff.Path)
		}

	default:
		return fmt.Errorf("unknown file operation: %s", eff.Operation)
	}

	e.written++
	return e.record(ctx, eff)
}

// patch applies a read-modify-write effect. An absent file starts from the
// effect's seed content.
func (e *DefaultEffectExecutor) patch(ctx context.Context, eff effects.FileEffect) (changed, created bool, err error) {
	existing, err := e.files.Read(ctx, eff.Path)
	switch {
	case errors.Is(err, secondary.ErrFileNotFound):
		existing, created = eff.Content, true
	case err != nil:
		return false, false, err
	}

	updated := existing
	if eff.Patch != nil {
		updated, err = eff.Patch(existing)
		if err != nil {
			return false, false, fmt.Errorf("failed to patch %s: %w", eff.Path, err)
		}
	}
	if !created && updated == existing {
		return false, false, nil
	}
	if err := e.files.Create(ctx, eff.Path, updated); err != nil {
		return false, false, err
	}
	return true, created, nil
}

func (e *DefaultEffectExecutor) record(ctx context.Context, eff effects.FileEffect) error {
	if e.journal == nil {
		return nil
	}
	return e.journal.Record(ctx, &secondary.JournalRecord{
		RunID:     ctxutil.RunIDFromContext(ctx),
		Entity:    eff.Entity,
		Operation: string(eff.Operation),
		Path:      eff.Path,
	})
}

func (e *DefaultEffectExecutor) executeCommand(ctx context.Context, eff effects.CommandEffect) error {
	if eff.Description != "" {
		e.console.Info("%s...", eff.Description)
	}
	return e.packages.Exec(ctx, eff.Args)
}

func (e *DefaultEffectExecutor) executeConfig(eff effects.ConfigEffect) error {
	if !eff.Create {
		_, err := config.Update(e.configDir, eff.Patch)
		return err
	}

	cfg, err := config.LoadConfig(e.configDir)
	if errors.Is(err, config.ErrNotFound) {
		cfg, err = &config.Config{}, nil
	}
	if err != nil {
		return err
	}
	eff.Patch.Apply(cfg)
	return config.SaveConfig(e.configDir, cfg)
}

// PreviewFiles classifies the file effects of a plan against the project:
// "create" for new files, "modify" for changes to existing files, "skip"
// for ensured files that already exist.
func PreviewFiles(ctx context.Context, files secondary.FileStore, effs []effects.Effect) ([]primary.FileChange, error) {
	var out []primary.FileChange
	seen := map[string]int{}
	var walk func([]effects.Effect) error
	walk = func(effs []effects.Effect) error {
		for _, eff := range effs {
			switch typed := eff.(type) {
			case effects.CompositeEffect:
				if err := walk(typed.Effects); err != nil {
					return err
				}
			case effects.FileEffect:
				exists, err := files.Exists(ctx, typed.Path)
				if err != nil {
					return err
				}
				action := "create"
				switch {
				case exists && typed.Operation == effects.FileEnsure:
					action = "skip"
				case exists:
					action = "modify"
				}
				// A path touched twice in one run is reported once, with the
				// first action that writes it.
				if i, ok := seen[typed.Path]; ok {
					if out[i].Action == "skip" && action != "skip" {
						out[i].Action = action
					}
					continue
				}
				seen[typed.Path] = len(out)
				out = append(out, primary.FileChange{Action: action, Path: typed.Path})
			}
		}
		return nil
	}
	if err := walk(effs); err != nil {
		return nil, err
	}
	return out, nil
}
