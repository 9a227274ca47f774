// Package session accumulates the packages, UI components and next-step
// notes requested while a command runs, and installs them once at the end.
package session

import (
	"context"
	"fmt"
	"strings"

	"github.com/example/sksn/internal/ports/secondary"
)

// orderedSet keeps first-insertion order and drops duplicates.
type orderedSet struct {
	items []string
	seen  map[string]bool
}

func (s *orderedSet) add(names ...string) {
	if s.seen == nil {
		s.seen = make(map[string]bool)
	}
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" || s.seen[n] {
			continue
		}
		s.seen[n] = true
		s.items = append(s.items, n)
	}
}

func (s *orderedSet) list() []string {
	return append([]string(nil), s.items...)
}

// Session is the per-run accumulator. A zero Session is ready to use.
type Session struct {
	regular    orderedSet
	dev        orderedSet
	components orderedSet
	notes      []string
	flushed    bool
}

// New creates an empty session.
func New() *Session {
	return &Session{}
}

// AddToInstallList queues regular and dev dependencies.
func (s *Session) AddToInstallList(regular, dev []string) {
	s.regular.add(regular...)
	s.dev.add(dev...)
}

// AddComponents queues UI components.
func (s *Session) AddComponents(components ...string) {
	s.components.add(components...)
}

// AddNote queues a next-step message. Repeated notes are kept once.
func (s *Session) AddNote(note string) {
	note = strings.TrimSpace(note)
	if note == "" {
		return
	}
	for _, n := range s.notes {
		if n == note {
			return
		}
	}
	s.notes = append(s.notes, note)
}

// InstallList returns the queued regular and dev dependencies.
func (s *Session) InstallList() (regular, dev []string) {
	return s.regular.list(), s.dev.list()
}

// Components returns the queued UI components.
func (s *Session) Components() []string {
	return s.components.list()
}

// Notes returns the queued next-step messages.
func (s *Session) Notes() []string {
	return append([]string(nil), s.notes...)
}

// Empty reports whether nothing needs installing.
func (s *Session) Empty() bool {
	return len(s.regular.items) == 0 && len(s.dev.items) == 0 && len(s.components.items) == 0
}

// Flush installs everything queued through pm. Only the first call does
// any work; later calls return nil.
func (s *Session) Flush(ctx context.Context, pm secondary.PackageManager) error {
	if s.flushed {
		return nil
	}
	s.flushed = true

	regular, dev := s.InstallList()
	if len(regular) > 0 || len(dev) > 0 {
		if err := pm.Install(ctx, regular, dev); err != nil {
			return fmt.Errorf("failed to install packages: %w", err)
		}
	}
	if components := s.Components(); len(components) > 0 {
		if err := pm.AddComponents(ctx, components); err != nil {
			return fmt.Errorf("failed to add components: %w", err)
		}
	}
	return nil
}
