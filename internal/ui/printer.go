// Package ui renders user-facing output for pull and push runs. It carries no
// business logic; callers decide what to show, the printer decides how.
package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
)

var (
	successColor   = lipgloss.Color("#A8E6CF")
	errorColor     = lipgloss.Color("#FFB3BA")
	warningColor   = lipgloss.Color("#FFE5B4")
	mutedColor     = lipgloss.Color("#C5C6C8")
	highlightColor = lipgloss.Color("#B3D9FF")

	successStyle   = lipgloss.NewStyle().Bold(true).Foreground(successColor)
	errorStyle     = lipgloss.NewStyle().Bold(true).Foreground(errorColor)
	warningStyle   = lipgloss.NewStyle().Foreground(warningColor)
	mutedStyle     = lipgloss.NewStyle().Foreground(mutedColor)
	highlightStyle = lipgloss.NewStyle().Bold(true).Foreground(highlightColor)
)

// Printer writes styled lines to a single output stream.
type Printer struct {
	out     io.Writer
	noColor bool
}

// NewPrinter returns a printer bound to stdout.
func NewPrinter(noColor bool) *Printer {
	return NewPrinterWithWriter(os.Stdout, noColor)
}

// NewPrinterWithWriter returns a printer bound to the given writer. Used in tests.
func NewPrinterWithWriter(out io.Writer, noColor bool) *Printer {
	return &Printer{out: out, noColor: noColor}
}

// Writer exposes the underlying stream for unstyled output such as prompts.
func (p *Printer) Writer() io.Writer {
	return p.out
}

func (p *Printer) render(style lipgloss.Style, msg string) string {
	if p.noColor {
		return msg
	}
	return style.Render(msg)
}

// Successf prints a bold success line.
func (p *Printer) Successf(format string, args ...interface{}) {
	fmt.Fprintln(p.out, p.render(successStyle, fmt.Sprintf(format, args...)))
}

// Errorf prints a bold error line.
func (p *Printer) Errorf(format string, args ...interface{}) {
	fmt.Fprintln(p.out, p.render(errorStyle, fmt.Sprintf(format, args...)))
}

// Warnf prints a warning line.
func (p *Printer) Warnf(format string, args ...interface{}) {
	fmt.Fprintln(p.out, p.render(warningStyle, fmt.Sprintf(format, args...)))
}

// Infof prints a highlighted informational line.
func (p *Printer) Infof(format string, args ...interface{}) {
	fmt.Fprintln(p.out, p.render(highlightStyle, fmt.Sprintf(format, args...)))
}

// Mutedf prints a de-emphasized line.
func (p *Printer) Mutedf(format string, args ...interface{}) {
	fmt.Fprintln(p.out, p.render(mutedStyle, fmt.Sprintf(format, args...)))
}

// ListItemf prints an indented list entry.
func (p *Printer) ListItemf(format string, args ...interface{}) {
	fmt.Fprintln(p.out, "  "+p.render(highlightStyle, fmt.Sprintf(format, args...)))
}
