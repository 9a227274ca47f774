package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/example/sksn/internal/config"
	ctxpkg "github.com/example/sksn/internal/context"
	"github.com/example/sksn/internal/ports/primary"
	"github.com/example/sksn/internal/prompt"
	"github.com/example/sksn/internal/session"
	"github.com/example/sksn/internal/ui"
	"github.com/example/sksn/internal/wire"
)

// errDeclined is returned when the user refuses a required step.
var errDeclined = errors.New("aborted")

// runFlags are shared by every command that writes to the project.
type runFlags struct {
	yes         bool
	dryRun      bool
	skipInstall bool
}

func (f *runFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVarP(&f.yes, "yes", "y", false, "Skip confirmation prompts and use defaults")
	cmd.Flags().BoolVar(&f.dryRun, "dry-run", false, "Show what would change without writing anything")
	cmd.Flags().BoolVar(&f.skipInstall, "skip-install", false, "Do not install packages; list them instead")
}

// command carries the per-invocation state of a project command. Every
// plan applied by one command shares its run ID and session, so packages
// are installed in a single batch when the command finishes.
type command struct {
	ctx     context.Context
	root    string
	console *ui.Console
	prompt  *prompt.Prompter
	flags   runFlags

	runID     string
	session   *session.Session
	installer primary.Applier
}

func newCommand(cmd *cobra.Command, flags runFlags) (*command, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}
	return &command{
		ctx:     cmd.Context(),
		root:    ctxpkg.FindRoot(cwd),
		console: ui.NewConsole(cmd.OutOrStdout()),
		prompt:  prompt.New(cmd.InOrStdin(), cmd.OutOrStdout()),
		flags:   flags,
		runID:   uuid.NewString(),
		session: session.New(),
	}, nil
}

// open wires the project's services using the configured package manager,
// or the one detected from lockfiles.
func (c *command) open(cfg *config.Config) (*wire.Project, error) {
	manager := ctxpkg.DetectPackageManager(c.root)
	if cfg != nil && cfg.PackageManager != "" {
		manager = cfg.PackageManager
	}
	return wire.Open(c.root, manager, c.console.Writer())
}

// confirm asks a yes/no question, answering yes under --yes.
func (c *command) confirm(question string) (bool, error) {
	if c.flags.yes {
		return true, nil
	}
	return c.prompt.Confirm(question)
}

// loadConfig loads the configuration record, offering to initialize the
// project when there is none.
func (c *command) loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig(c.root)
	if err == nil {
		return cfg, nil
	}
	if !errors.Is(err, config.ErrNotFound) {
		return nil, err
	}

	c.console.Warn("No sksn config found in %s", c.root)
	ok, err := c.confirm("Initialize the project now?")
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: run 'sksn init' first", config.ErrNotFound)
	}
	if err := runInit(c, initFlags{}); err != nil {
		return nil, err
	}
	if c.flags.dryRun {
		return nil, fmt.Errorf("%w: dry run stopped before init", config.ErrNotFound)
	}
	return config.LoadConfig(c.root)
}

// apply previews a plan, asks for confirmation and applies it.
func (c *command) apply(applier primary.Applier, plan *primary.Plan) error {
	c.preview(plan)
	if c.flags.dryRun {
		c.console.Printf("\n(dry-run mode - no files written)\n")
		return nil
	}

	if !c.flags.yes {
		ok, err := c.prompt.Confirm("Proceed?")
		if err != nil {
			return err
		}
		if !ok {
			c.console.Printf("Aborted.\n")
			return errDeclined
		}
	}

	summary, err := applier.Apply(c.ctx, plan, c.applyOptions())
	if err != nil {
		return err
	}
	c.installer = applier
	c.console.Success("Wrote %d file(s) (run %s)", summary.FilesWritten, summary.RunID)
	return nil
}

func (c *command) applyOptions() primary.ApplyOptions {
	return primary.ApplyOptions{
		SkipInstall: c.flags.skipInstall,
		Session:     c.session,
		RunID:       c.runID,
	}
}

// finish ends a command: when anything was applied, it installs the
// packages queued by every step in one batch and prints the next steps.
func (c *command) finish(err error) error {
	if err != nil || c.installer == nil {
		return err
	}
	if err := c.installer.Install(c.ctx, c.session, c.applyOptions()); err != nil {
		return err
	}
	c.printSummary()
	return nil
}

func (c *command) preview(plan *primary.Plan) {
	var creates, modifies []primary.FileChange
	for _, f := range plan.Files {
		switch f.Action {
		case "create":
			creates = append(creates, f)
		case "modify":
			modifies = append(modifies, f)
		}
	}

	if len(creates) > 0 {
		c.console.Printf("Files to create:\n")
		for _, f := range creates {
			c.console.File("create", f.Path)
		}
		c.console.Printf("\n")
	}
	if len(modifies) > 0 {
		c.console.Printf("Files to modify:\n")
		for _, f := range modifies {
			c.console.File("modify", f.Path)
		}
		c.console.Printf("\n")
	}
	if len(creates) == 0 && len(modifies) == 0 {
		c.console.Printf("No file changes.\n\n")
	}
}

func (c *command) printSummary() {
	if c.flags.skipInstall {
		regular, dev := c.session.InstallList()
		if len(regular) > 0 {
			c.console.Warn("Not installed: %v", regular)
		}
		if len(dev) > 0 {
			c.console.Warn("Not installed (dev): %v", dev)
		}
		if components := c.session.Components(); len(components) > 0 {
			c.console.Warn("Components not added: %v", components)
		}
	}

	if notes := c.session.Notes(); len(notes) > 0 {
		c.console.Printf("\nNext steps:\n")
		for i, step := range notes {
			c.console.Printf("  %d. %s\n", i+1, step)
		}
	}
}
