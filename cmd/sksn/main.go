package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/sksn/internal/cli"
	"github.com/example/sksn/internal/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "sksn",
		Short:   "sksn - scaffolding for TypeScript web apps",
		Version: version.String(),
		Long: `sksn adds an ORM, authentication and tRPC to a Next.js or Express project
and generates models, routes, server actions and views for your entities.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Project setup
	rootCmd.AddCommand(cli.InitCmd())
	rootCmd.AddCommand(cli.AddCmd())

	// Entities
	rootCmd.AddCommand(cli.GenerateCmd())

	// Diagnostics
	rootCmd.AddCommand(cli.DoctorCmd())
	rootCmd.AddCommand(cli.HistoryCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
