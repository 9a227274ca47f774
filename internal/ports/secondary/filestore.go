// Package secondary defines the secondary ports (driven adapters) for the application.
package secondary

import (
	"context"
	"errors"
)

// ErrFileNotFound is returned by FileStore.Read for a missing file.
var ErrFileNotFound = errors.New("file not found")

// FileStore defines the secondary port for reading and writing project
// files. Paths are relative to the project root.
type FileStore interface {
	// Read returns the file content, or an error wrapping ErrFileNotFound.
	Read(ctx context.Context, path string) (string, error)

	// Exists reports whether a regular file exists at path.
	Exists(ctx context.Context, path string) (bool, error)

	// Create writes content, creating parent directories and overwriting
	// any existing file.
	Create(ctx context.Context, path, content string) error

	// Replace overwrites an existing file. It fails when the file is absent.
	Replace(ctx context.Context, path, content string) error

	// Root returns the absolute project root.
	Root() string
}
