package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/sksn/internal/adapters/database"
	"github.com/example/sksn/internal/adapters/pkgmgr"
	"github.com/example/sksn/internal/config"
	ctxpkg "github.com/example/sksn/internal/context"
	"github.com/example/sksn/internal/scaffold"
	"github.com/example/sksn/internal/ui"
)

// pingTimeout bounds the database check.
const pingTimeout = 5 * time.Second

// CheckResult represents the outcome of a single check
type CheckResult struct {
	Name    string
	Status  string // ui.MarkOK, ui.MarkWarn or ui.MarkFail
	Details string // Only shown if Status != ui.MarkOK
}

// DoctorCmd returns the doctor command for project validation
func DoctorCmd() *cobra.Command {
	var quiet bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Validate the project setup",
		Long: `Health check for an sksn project.

Validates:
- Configuration record (.sksn/config.json)
- ORM setup
- DATABASE_URL in .env
- Database connectivity
- Package manager on PATH

Examples:
  sksn doctor              # Run full health check
  sksn doctor --quiet      # Exit code only (0=healthy, 1=issues)`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cwd, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to get working directory: %w", err)
			}
			root := ctxpkg.FindRoot(cwd)

			results := runChecks(cmd.Context(), root)
			hasErrors := false
			for _, r := range results {
				if r.Status == ui.MarkFail {
					hasErrors = true
					break
				}
			}

			if !quiet {
				printResults(ui.NewConsole(cmd.OutOrStdout()), results, hasErrors)
			}

			if hasErrors {
				return fmt.Errorf("project validation failed")
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Quiet mode - exit code only")

	return cmd
}

// runChecks runs every check against the project at root. Checks that
// depend on the configuration record are skipped when it is missing.
func runChecks(ctx context.Context, root string) []CheckResult {
	cfg, result := checkConfig(root)
	results := []CheckResult{result}
	if cfg == nil {
		return results
	}

	results = append(results, checkORM(cfg))
	if cfg.HasORM() {
		url, result := checkDatabaseURL(root)
		results = append(results, result)
		if url != "" {
			results = append(results, checkDatabase(ctx, root, cfg, url))
		}
	}
	results = append(results, checkPackageManager(cfg))
	return results
}

func printResults(console *ui.Console, results []CheckResult, hasErrors bool) {
	console.Printf("\n")
	console.Printf("Check              Status\n")
	console.Printf("─────────────────────────\n")
	for _, r := range results {
		console.Printf("%-18s %s\n", r.Name, ui.Mark(r.Status))
	}
	console.Printf("\n")

	hasDetails := false
	for _, r := range results {
		if r.Status != ui.MarkOK && r.Details != "" {
			if !hasDetails {
				console.Printf("Details:\n")
				hasDetails = true
			}
			console.Printf("\n%s:\n%s\n", r.Name, r.Details)
		}
	}

	if hasErrors {
		console.Printf("\n%s Issues found.\n", ui.Mark(ui.MarkWarn))
	} else {
		console.Printf("All checks passed.\n")
	}
}

// checkConfig loads the configuration record
func checkConfig(root string) (*config.Config, CheckResult) {
	cfg, err := config.LoadConfig(root)
	if errors.Is(err, config.ErrNotFound) {
		return nil, CheckResult{
			Name:    "Config",
			Status:  ui.MarkFail,
			Details: fmt.Sprintf("  No %s in %s\n  Run: sksn init", filepath.Join(config.Dir, "config.json"), root),
		}
	}
	if err != nil {
		return nil, CheckResult{Name: "Config", Status: ui.MarkFail, Details: "  " + err.Error()}
	}
	return cfg, CheckResult{Name: "Config", Status: ui.MarkOK}
}

// checkORM reports the configured ORM and database
func checkORM(cfg *config.Config) CheckResult {
	if !cfg.HasORM() {
		return CheckResult{
			Name:    "ORM",
			Status:  ui.MarkWarn,
			Details: "  No ORM configured\n  Run: sksn add --orm drizzle",
		}
	}
	return CheckResult{Name: "ORM", Status: ui.MarkOK}
}

// checkDatabaseURL reads DATABASE_URL from .env
func checkDatabaseURL(root string) (string, CheckResult) {
	data, err := os.ReadFile(filepath.Join(root, scaffold.DotEnv))
	if err != nil {
		return "", CheckResult{Name: "DATABASE_URL", Status: ui.MarkFail, Details: "  Cannot read .env"}
	}
	url := scaffold.ParseDotEnv(string(data))["DATABASE_URL"]
	if url == "" {
		return "", CheckResult{Name: "DATABASE_URL", Status: ui.MarkFail, Details: "  DATABASE_URL is not set in .env"}
	}
	return url, CheckResult{Name: "DATABASE_URL", Status: ui.MarkOK}
}

// checkDatabase pings the configured database
func checkDatabase(ctx context.Context, root string, cfg *config.Config, url string) CheckResult {
	// prisma resolves sqlite paths next to schema.prisma
	base := root
	if cfg.ORM == config.ORMPrisma {
		base = filepath.Join(root, filepath.Dir(scaffold.PrismaSchema))
	}

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := database.NewProber(base).Ping(ctx, cfg.Driver, url); err != nil {
		details := "  " + err.Error()
		if p, ok := scaffold.LookupProvider(cfg.Provider); ok && p.Local {
			details += "\n  Run: docker compose up -d"
		}
		return CheckResult{Name: "Database", Status: ui.MarkWarn, Details: details}
	}
	return CheckResult{Name: "Database", Status: ui.MarkOK}
}

// checkPackageManager validates the package manager is installed
func checkPackageManager(cfg *config.Config) CheckResult {
	name := cfg.PackageManager
	if name == "" {
		name = "npm"
	}
	if !pkgmgr.Available(name) {
		return CheckResult{
			Name:    "Package Manager",
			Status:  ui.MarkFail,
			Details: fmt.Sprintf("  '%s' not found in PATH", name),
		}
	}
	return CheckResult{Name: "Package Manager", Status: ui.MarkOK}
}
