// Package report renders a completed analysis as a markdown-compatible
// terminal report. The layout is pandoc-friendly so it can be piped
// straight into a document converter.
package report

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Theme defines the colour palette of the report.
type Theme struct {
	// Heading marks section heading sigils.
	Heading lipgloss.Color

	// Preamble is the colour of the title block.
	Preamble lipgloss.Color

	// Label is the colour of metadata labels.
	Label lipgloss.Color

	// Muted is for rules and progress noise.
	Muted lipgloss.Color
}

// DefaultTheme returns the default colour theme.
func DefaultTheme() *Theme {
	return &Theme{
		Heading:  lipgloss.Color("1"), // Red
		Preamble: lipgloss.Color("5"), // Magenta
		Label:    lipgloss.Color("6"), // Cyan
		Muted:    lipgloss.Color("8"), // Gray
	}
}

// Styles contains pre-configured lipgloss styles for the report.
type Styles struct {
	// Heading style for the leading sigil of section headings.
	Heading lipgloss.Style

	// Preamble style for the title block lines.
	Preamble lipgloss.Style

	// Label style for metadata labels.
	Label lipgloss.Style

	// Bold style for table headers.
	Bold lipgloss.Style

	// Muted style for horizontal rules.
	Muted lipgloss.Style
}

// NewStyles creates styles from a theme. A nil theme yields unstyled
// output, used when the report is written to a pipe.
func NewStyles(theme *Theme) *Styles {
	if theme == nil {
		return &Styles{
			Heading:  lipgloss.NewStyle(),
			Preamble: lipgloss.NewStyle(),
			Label:    lipgloss.NewStyle(),
			Bold:     lipgloss.NewStyle(),
			Muted:    lipgloss.NewStyle(),
		}
	}

	return &Styles{
		Heading: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Heading),

		Preamble: lipgloss.NewStyle().
			Foreground(theme.Preamble),

		Label: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Label),

		Bold: lipgloss.NewStyle().
			Bold(true),

		Muted: lipgloss.NewStyle().
			Foreground(theme.Muted),
	}
}

// DefaultStyles returns styles with the default theme.
func DefaultStyles() *Styles {
	return NewStyles(DefaultTheme())
}

// PlainStyles returns styles that leave text unmodified.
func PlainStyles() *Styles {
	return NewStyles(nil)
}

// StdoutIsTerminal reports whether stdout is attached to a terminal.
// Styling is disabled when it is not, so piped reports stay clean.
func StdoutIsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}
