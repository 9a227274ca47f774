// Package filesystem contains filesystem-based adapter implementations.
package filesystem

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/example/sksn/internal/ports/secondary"
)

// FileStore implements secondary.FileStore rooted at a project directory.
type FileStore struct {
	root string
}

// NewFileStore creates a file store for the project at root.
func NewFileStore(root string) (*FileStore, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve project root: %w", err)
	}
	return &FileStore{root: abs}, nil
}

// Root returns the absolute project root.
func (s *FileStore) Root() string {
	return s.root
}

// resolve maps a project-relative path into the root, rejecting escapes.
func (s *FileStore) resolve(path string) (string, error) {
	full := filepath.Join(s.root, filepath.FromSlash(path))
	rel, err := filepath.Rel(s.root, full)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("path %q is outside the project", path)
	}
	return full, nil
}

// Read returns the content of a file.
func (s *FileStore) Read(ctx context.Context, path string) (string, error) {
	full, err := s.resolve(path)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(full)
	if errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("%s: %w", path, secondary.ErrFileNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(data), nil
}

// Exists checks if a regular file exists at path.
func (s *FileStore) Exists(ctx context.Context, path string) (bool, error) {
	full, err := s.resolve(path)
	if err != nil {
		return false, err
	}
	info, err := os.Stat(full)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check %s: %w", path, err)
	}
	return info.Mode().IsRegular(), nil
}

// Create writes a file, creating parent directories.
func (s *FileStore) Create(ctx context.Context, path, content string) error {
	full, err := s.resolve(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}
	if err := os.WriteFile(full, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// Replace overwrites an existing file.
func (s *FileStore) Replace(ctx context.Context, path, content string) error {
	exists, err := s.Exists(ctx, path)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("cannot replace %s: %w", path, secondary.ErrFileNotFound)
	}
	return s.Create(ctx, path, content)
}

// Ensure FileStore implements the interface
var _ secondary.FileStore = (*FileStore)(nil)
