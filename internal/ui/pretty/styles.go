// Package pretty renders styled terminal output with lipgloss.
package pretty

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// ANSI palette indexes.
const (
	silver = "7"
	grey   = "8"
	red    = "9"
	green  = "10"
	yellow = "11"
	cyan   = "14"
)

// Styles holds the renderers used by terminal output.
type Styles struct {
	Error   lipgloss.Style
	Warning lipgloss.Style

	FilePath   lipgloss.Style
	Location   lipgloss.Style
	Message    lipgloss.Style
	SourceLine lipgloss.Style
	Caret      lipgloss.Style

	DiffHeader  lipgloss.Style
	DiffHunk    lipgloss.Style
	DiffAdd     lipgloss.Style
	DiffRemove  lipgloss.Style
	DiffContext lipgloss.Style

	SummaryTitle lipgloss.Style
	SummaryValue lipgloss.Style
	Success      lipgloss.Style
	Failure      lipgloss.Style

	TableHeader lipgloss.Style
	TableBorder lipgloss.Style

	Dim  lipgloss.Style
	Bold lipgloss.Style
}

// NewStyles creates the output styles. Without color every style renders
// text unchanged.
func NewStyles(color bool) *Styles {
	plain := lipgloss.NewStyle()
	fg := func(c string) lipgloss.Style {
		if !color {
			return plain
		}
		return plain.Foreground(lipgloss.Color(c))
	}
	bold := plain.Bold(color)

	return &Styles{
		Error:   fg(red).Inherit(bold),
		Warning: fg(yellow).Inherit(bold),

		FilePath:   bold,
		Location:   fg(grey),
		Message:    plain,
		SourceLine: fg(silver),
		Caret:      fg(red),

		DiffHeader:  bold,
		DiffHunk:    fg(cyan),
		DiffAdd:     fg(green),
		DiffRemove:  fg(red),
		DiffContext: fg(grey),

		SummaryTitle: bold,
		SummaryValue: plain,
		Success:      fg(green).Inherit(bold),
		Failure:      fg(red).Inherit(bold),

		TableHeader: fg(silver).Inherit(bold),
		TableBorder: fg(grey),

		Dim:  fg(grey),
		Bold: bold,
	}
}

// IsColorEnabled resolves a color mode ("auto", "always" or "never") for
// w. Auto enables color for terminals unless NO_COLOR is set.
func IsColorEnabled(mode string, w io.Writer) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}
