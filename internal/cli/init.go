package cli

import (
	"fmt"
	"path/filepath"
	"slices"

	"github.com/spf13/cobra"

	"github.com/example/sksn/internal/adapters/pkgmgr"
	"github.com/example/sksn/internal/config"
	ctxpkg "github.com/example/sksn/internal/context"
	"github.com/example/sksn/internal/scaffold"
)

type initFlags struct {
	name           string
	framework      string
	alias          string
	packageManager string
	src            string // "", "true", "false"
}

// InitCmd returns the init command
func InitCmd() *cobra.Command {
	var (
		flags initFlags
		run   runFlags
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize sksn in a project",
		Long: `Initialize sksn in the current project.

Creates package.json and tsconfig.json when they are missing and writes the
configuration record to .sksn/config.json. Values not given as flags are
detected from the project (src/ directory, tsconfig paths alias, lockfile)
and confirmed interactively.

Examples:
  sksn init
  sksn init --framework next --package-manager pnpm --yes
  sksn init --framework express --dry-run`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newCommand(cmd, run)
			if err != nil {
				return err
			}
			if config.Exists(c.root) {
				c.console.Warn("sksn is already initialized in %s", c.root)
				return nil
			}
			return c.finish(runInit(c, flags))
		},
	}

	cmd.Flags().StringVar(&flags.name, "name", "", "Project name (defaults to the directory name)")
	cmd.Flags().StringVar(&flags.framework, "framework", "", "Framework: next or express")
	cmd.Flags().StringVar(&flags.alias, "alias", "", "Import alias (defaults to the tsconfig paths alias)")
	cmd.Flags().StringVar(&flags.packageManager, "package-manager", "", "Package manager: npm, pnpm, yarn or bun")
	cmd.Flags().StringVar(&flags.src, "src", "", "Whether code lives under src/ (true or false)")
	run.register(cmd)

	return cmd
}

// runInit resolves the init answers (flags, then detection, then prompts)
// and applies the init plan.
func runInit(c *command, flags initFlags) error {
	detected := ctxpkg.Detect(c.root)
	interactive := !c.flags.yes

	opts := scaffold.InitOptions{
		Name:           flags.name,
		Framework:      flags.framework,
		Alias:          flags.alias,
		PackageManager: flags.packageManager,
		HasSrc:         detected.HasSrc,
	}
	if opts.Name == "" {
		opts.Name = filepath.Base(c.root)
	}

	frameworks := []string{config.FrameworkNext, config.FrameworkExpress}
	if opts.Framework == "" {
		opts.Framework = detected.Framework
	}
	if opts.Framework == "" {
		opts.Framework = config.FrameworkNext
		if interactive {
			choice, err := c.prompt.Select("Which framework does the project use?", frameworks)
			if err != nil {
				return err
			}
			opts.Framework = choice
		}
	}
	if !slices.Contains(frameworks, opts.Framework) {
		return fmt.Errorf("unknown framework %q (want next or express)", opts.Framework)
	}

	switch flags.src {
	case "true":
		opts.HasSrc = true
	case "false":
		opts.HasSrc = false
	case "":
		if interactive && !detected.HasSrc {
			ok, err := c.prompt.Confirm("Keep code under a src/ directory?")
			if err != nil {
				return err
			}
			opts.HasSrc = ok
		}
	default:
		return fmt.Errorf("--src must be true or false, got %q", flags.src)
	}

	if opts.Alias == "" {
		opts.Alias = detected.Alias
	}

	if opts.PackageManager == "" {
		opts.PackageManager = detected.PackageManager
		if interactive {
			choice, err := c.prompt.Select("Which package manager?", preferFirst(pkgmgr.Supported, opts.PackageManager))
			if err != nil {
				return err
			}
			opts.PackageManager = choice
		}
	}
	if !slices.Contains(pkgmgr.Supported, opts.PackageManager) {
		return fmt.Errorf("unsupported package manager %q", opts.PackageManager)
	}

	cfg := &config.Config{PackageManager: opts.PackageManager}
	project, err := c.open(cfg)
	if err != nil {
		return err
	}
	defer project.Close()

	plan, err := project.Setup.PlanInit(c.ctx, opts)
	if err != nil {
		return err
	}
	c.console.Printf("Initializing %s (%s, alias %s, %s)\n\n", opts.Name, opts.Framework, opts.Alias, opts.PackageManager)
	return c.apply(project.Setup, plan)
}

// preferFirst returns options with preferred moved to the front, so it is
// the default answer.
func preferFirst(options []string, preferred string) []string {
	out := []string{}
	if slices.Contains(options, preferred) {
		out = append(out, preferred)
	}
	for _, o := range options {
		if o != preferred {
			out = append(out, o)
		}
	}
	return out
}
