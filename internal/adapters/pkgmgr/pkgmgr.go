// Package pkgmgr runs the project's node package manager.
package pkgmgr

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"slices"
	"strings"

	"github.com/example/sksn/internal/ports/secondary"
)

// Supported lists the package managers sksn knows how to drive.
var Supported = []string{"npm", "pnpm", "yarn", "bun"}

// InstallCommands returns the argv lists installing regular and dev
// dependencies: one command per non-empty group.
func InstallCommands(manager string, regular, dev []string) [][]string {
	add, devFlag := "add", "-D"
	switch manager {
	case "npm", "":
		manager, add = "npm", "install"
	case "bun":
		devFlag = "--dev"
	}

	var cmds [][]string
	if len(regular) > 0 {
		cmds = append(cmds, append([]string{manager, add}, regular...))
	}
	if len(dev) > 0 {
		cmds = append(cmds, append([]string{manager, add, devFlag}, dev...))
	}
	return cmds
}

// runner returns the prefix running a package binary without installing it
// globally.
func runner(manager string) []string {
	switch manager {
	case "pnpm":
		return []string{"pnpm", "dlx"}
	case "yarn":
		return []string{"yarn", "dlx"}
	case "bun":
		return []string{"bunx", "--bun"}
	default:
		return []string{"npx"}
	}
}

// ComponentCommand returns the argv adding shadcn components.
func ComponentCommand(manager string, components []string) []string {
	cmd := append(runner(manager), "shadcn@latest", "add", "-y")
	return append(cmd, components...)
}

// ExecCommand returns the argv running a locally installed binary.
func ExecCommand(manager string, args []string) []string {
	var prefix []string
	switch manager {
	case "pnpm":
		prefix = []string{"pnpm", "exec"}
	case "yarn":
		prefix = []string{"yarn"}
	case "bun":
		prefix = []string{"bunx"}
	default:
		prefix = []string{"npx"}
	}
	return append(prefix, args...)
}

// Manager implements secondary.PackageManager by running processes in dir.
type Manager struct {
	name   string
	dir    string
	stdout io.Writer
	stderr io.Writer
}

// New creates a Manager for name ("npm" when empty) running in dir.
func New(name, dir string) (*Manager, error) {
	if name == "" {
		name = "npm"
	}
	if !slices.Contains(Supported, name) {
		return nil, fmt.Errorf("unsupported package manager %q (want one of %s)", name, strings.Join(Supported, ", "))
	}
	return &Manager{name: name, dir: dir, stdout: os.Stdout, stderr: os.Stderr}, nil
}

// WithOutput redirects the child processes' output.
func (m *Manager) WithOutput(stdout, stderr io.Writer) *Manager {
	m.stdout, m.stderr = stdout, stderr
	return m
}

// Name returns the package manager binary.
func (m *Manager) Name() string { return m.name }

// Install adds regular and dev dependencies.
func (m *Manager) Install(ctx context.Context, regular, dev []string) error {
	for _, argv := range InstallCommands(m.name, regular, dev) {
		if err := m.run(ctx, argv); err != nil {
			return err
		}
	}
	return nil
}

// AddComponents adds shadcn components.
func (m *Manager) AddComponents(ctx context.Context, components []string) error {
	if len(components) == 0 {
		return nil
	}
	return m.run(ctx, ComponentCommand(m.name, components))
}

// Exec runs a package binary.
func (m *Manager) Exec(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return nil
	}
	return m.run(ctx, ExecCommand(m.name, args))
}

func (m *Manager) run(ctx context.Context, argv []string) error {
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = m.dir
	cmd.Stdout = m.stdout
	var stderr bytes.Buffer
	cmd.Stderr = io.MultiWriter(m.stderr, &stderr)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s: %w: %s", strings.Join(argv, " "), err, strings.TrimSpace(stderr.String()))
	}
	return nil
}

// Available reports whether the package manager binary is on PATH.
func Available(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}

// Ensure Manager implements the interface
var _ secondary.PackageManager = (*Manager)(nil)
