package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/example/sksn/internal/ports/primary"
)

// HistoryCmd returns the history command
func HistoryCmd() *cobra.Command {
	var (
		filters primary.HistoryFilters
		prune   int
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show the files written by previous runs",
		Long: `List the generation journal: every file sksn wrote, with its run and entity.

Examples:
  sksn history
  sksn history --entity books
  sksn history --run 3f2c9a1e-...
  sksn history --prune 30`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newCommand(cmd, runFlags{})
			if err != nil {
				return err
			}
			project, err := c.open(nil)
			if err != nil {
				return err
			}
			defer project.Close()

			if cmd.Flags().Changed("prune") {
				n, err := project.History.PruneHistory(c.ctx, prune)
				if err != nil {
					return err
				}
				c.console.Success("Pruned %d entr%s older than %d day(s)", n, plural(n, "y", "ies"), prune)
				return nil
			}

			entries, err := project.History.ListHistory(c.ctx, filters)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				c.console.Printf("No history found.\n")
				return nil
			}
			return printHistory(c.console.Writer(), entries)
		},
	}

	cmd.Flags().StringVarP(&filters.Entity, "entity", "e", "", "Filter by entity table name")
	cmd.Flags().StringVar(&filters.RunID, "run", "", "Filter by run ID")
	cmd.Flags().IntVarP(&filters.Limit, "limit", "n", 50, "Maximum number of entries")
	cmd.Flags().IntVar(&prune, "prune", 0, "Delete entries older than this many days")

	return cmd
}

func printHistory(out io.Writer, entries []*primary.HistoryEntry) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "WHEN\tRUN\tENTITY\tOP\tPATH")
	fmt.Fprintln(w, "----\t---\t------\t--\t----")
	for _, e := range entries {
		entity := e.Entity
		if entity == "" {
			entity = "-"
		}
		run := e.RunID
		if len(run) > 8 {
			run = run[:8]
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", e.CreatedAt, run, entity, e.Operation, e.Path)
	}
	return w.Flush()
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
