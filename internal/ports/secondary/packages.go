package secondary

import "context"

// PackageManager defines the secondary port for the project's package
// manager. Every call runs an external process to completion.
type PackageManager interface {
	// Name returns the package manager binary (npm, pnpm, yarn, bun).
	Name() string

	// Install adds regular and dev dependencies in one batch per group.
	Install(ctx context.Context, regular, dev []string) error

	// AddComponents adds UI components through the shadcn CLI.
	AddComponents(ctx context.Context, components []string) error

	// Exec runs a package binary, e.g. ["prisma", "generate"].
	Exec(ctx context.Context, args []string) error
}
