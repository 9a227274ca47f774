// Package ui writes sksn's console output.
package ui

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// Status markers shared by the console and doctor output.
const (
	MarkOK   = "✓"
	MarkWarn = "⚠"
	MarkFail = "✗"
)

var (
	green  = color.New(color.FgGreen)
	yellow = color.New(color.FgYellow)
	red    = color.New(color.FgRed)
	blue   = color.New(color.FgBlue)
	faint  = color.New(color.Faint)
)

// Console prints human-readable status lines.
type Console struct {
	out io.Writer
}

// NewConsole creates a console writing to out.
func NewConsole(out io.Writer) *Console {
	return &Console{out: out}
}

// Writer returns the underlying writer.
func (c *Console) Writer() io.Writer { return c.out }

// Printf writes unstyled text.
func (c *Console) Printf(format string, args ...any) {
	fmt.Fprintf(c.out, format, args...)
}

// Success prints a green check line.
func (c *Console) Success(format string, args ...any) {
	fmt.Fprintf(c.out, "%s %s\n", green.Sprint(MarkOK), fmt.Sprintf(format, args...))
}

// Warn prints a yellow warning line.
func (c *Console) Warn(format string, args ...any) {
	fmt.Fprintf(c.out, "%s %s\n", yellow.Sprint(MarkWarn), fmt.Sprintf(format, args...))
}

// Error prints a red failure line.
func (c *Console) Error(format string, args ...any) {
	fmt.Fprintf(c.out, "%s %s\n", red.Sprint(MarkFail), fmt.Sprintf(format, args...))
}

// Info prints an indented plain line.
func (c *Console) Info(format string, args ...any) {
	fmt.Fprintf(c.out, "  %s\n", fmt.Sprintf(format, args...))
}

// File prints one preview row: the operation label then the path.
func (c *Console) File(op, path string) {
	label := fmt.Sprintf("%-7s", op)
	switch op {
	case "create":
		label = green.Sprint(label)
	case "modify":
		label = blue.Sprint(label)
	default:
		label = faint.Sprint(label)
	}
	fmt.Fprintf(c.out, "  %s %s\n", label, path)
}

// Mark colors a status marker.
func Mark(status string) string {
	switch status {
	case MarkOK:
		return green.Sprint(status)
	case MarkWarn:
		return yellow.Sprint(status)
	case MarkFail:
		return red.Sprint(status)
	}
	return status
}
