package cli

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"

	"github.com/spf13/cobra"

	"github.com/example/sksn/internal/config"
	"github.com/example/sksn/internal/scaffold"
	"github.com/example/sksn/internal/wire"
)

type addFlags struct {
	orm      string
	driver   string
	provider string
	auth     string
	trpc     bool
}

// AddCmd returns the add command
func AddCmd() *cobra.Command {
	var (
		flags addFlags
		run   runFlags
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an ORM, an auth provider or tRPC to the project",
		Long: `Add packages to the project: an ORM (drizzle or prisma), an auth provider
(clerk or kinde) or tRPC. Without flags, sksn asks what to add.

Examples:
  sksn add
  sksn add --orm drizzle --db pg --provider postgresjs
  sksn add --orm prisma --db sqlite
  sksn add --auth clerk --trpc --yes`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newCommand(cmd, run)
			if err != nil {
				return err
			}
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			return c.finish(runAdd(c, cfg, flags))
		},
	}

	cmd.Flags().StringVar(&flags.orm, "orm", "", "ORM to add: drizzle or prisma")
	cmd.Flags().StringVar(&flags.driver, "db", "", "Database type: pg, mysql or sqlite")
	cmd.Flags().StringVar(&flags.provider, "provider", "", "Database provider (drizzle only), e.g. postgresjs, neon, turso")
	cmd.Flags().StringVar(&flags.auth, "auth", "", "Auth provider to add: clerk or kinde")
	cmd.Flags().BoolVar(&flags.trpc, "trpc", false, "Add tRPC")
	run.register(cmd)

	return cmd
}

// addable lists what can still be added to a project.
func addable(cfg *config.Config) []string {
	var out []string
	if !cfg.HasORM() {
		out = append(out, "orm")
	}
	if cfg.IsNext() && cfg.Auth == "" {
		out = append(out, "auth")
	}
	if !cfg.HasPackage(scaffold.PackageTRPC) {
		out = append(out, "trpc")
	}
	return out
}

func runAdd(c *command, cfg *config.Config, flags addFlags) error {
	if flags.orm == "" && flags.auth == "" && !flags.trpc {
		options := addable(cfg)
		if len(options) == 0 {
			c.console.Success("Everything sksn can add is already configured")
			return nil
		}
		if c.flags.yes {
			return errors.New("nothing selected: pass --orm, --auth or --trpc")
		}
		picked, err := c.prompt.MultiSelect("What would you like to add?", options, options[:1])
		if err != nil {
			return err
		}
		for _, p := range picked {
			switch p {
			case "orm":
				flags.orm = "?"
			case "auth":
				flags.auth = "?"
			case "trpc":
				flags.trpc = true
			}
		}
	}

	project, err := c.open(cfg)
	if err != nil {
		return err
	}
	defer project.Close()

	if flags.orm != "" {
		if err := addORM(c, project, cfg, flags); err != nil {
			return err
		}
		if cfg, err = reload(c, cfg); err != nil {
			return err
		}
	}
	if flags.trpc {
		plan, err := project.Setup.PlanAddTRPC(c.ctx, cfg)
		if err != nil {
			return err
		}
		if err := c.apply(project.Setup, plan); err != nil {
			return err
		}
		if cfg, err = reload(c, cfg); err != nil {
			return err
		}
	}
	if flags.auth != "" {
		provider := flags.auth
		if provider == "?" {
			provider, err = c.prompt.Select("Which auth provider?", scaffold.AuthProviders)
			if err != nil {
				return err
			}
		}
		plan, err := project.Setup.PlanAddAuth(c.ctx, cfg, provider)
		if err != nil {
			return err
		}
		if err := c.apply(project.Setup, plan); err != nil {
			return err
		}
	}
	return nil
}

// reload re-reads the record after an applied step. A dry run never wrote
// one, so the previous record stays current.
func reload(c *command, cfg *config.Config) (*config.Config, error) {
	if c.flags.dryRun {
		return cfg, nil
	}
	return config.LoadConfig(c.root)
}

func addORM(c *command, project *wire.Project, cfg *config.Config, flags addFlags) error {
	opts, err := resolveORMOptions(c, flags)
	if err != nil {
		return err
	}
	opts.Project = filepath.Base(c.root)

	plan, err := project.Setup.PlanAddORM(c.ctx, cfg, opts)
	if err != nil {
		return err
	}
	return c.apply(project.Setup, plan)
}

// resolveORMOptions fills the ORM answers from flags, asking for the rest.
// Under --yes the first option of each question is used.
func resolveORMOptions(c *command, flags addFlags) (scaffold.ORMOptions, error) {
	opts := scaffold.ORMOptions{ORM: flags.orm, Driver: flags.driver, Provider: flags.provider}

	ask := func(question string, options []string) (string, error) {
		if c.flags.yes {
			return options[0], nil
		}
		return c.prompt.Select(question, options)
	}

	var err error
	orms := []string{config.ORMDrizzle, config.ORMPrisma}
	if opts.ORM == "" || opts.ORM == "?" {
		if opts.ORM, err = ask("Which ORM?", orms); err != nil {
			return opts, err
		}
	}
	if !slices.Contains(orms, opts.ORM) {
		return opts, fmt.Errorf("unknown orm %q (want drizzle or prisma)", opts.ORM)
	}

	if opts.Driver == "" {
		if opts.Driver, err = ask("Which database?", scaffold.Drivers); err != nil {
			return opts, err
		}
	}

	if opts.ORM == config.ORMDrizzle && opts.Provider == "" {
		var names []string
		for _, p := range scaffold.ProvidersFor(opts.Driver) {
			names = append(names, p.Name)
		}
		if len(names) == 0 {
			return opts, fmt.Errorf("unknown database driver %q", opts.Driver)
		}
		if opts.Provider, err = ask("Which database provider?", names); err != nil {
			return opts, err
		}
	}
	if opts.ORM == config.ORMPrisma {
		opts.Provider = ""
	}
	return opts, nil
}
