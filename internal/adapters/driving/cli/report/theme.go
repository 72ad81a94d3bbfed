// Package report renders pipeline results for the terminal. Output is
// styled with lipgloss when writing to a terminal and plain otherwise, so
// piped output and tests see stable text.
package report

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Theme defines the colour palette for reports.
type Theme struct {
	// Primary is the main accent colour.
	Primary lipgloss.Color

	// Secondary is used for section headers.
	Secondary lipgloss.Color

	// Muted is for less important text.
	Muted lipgloss.Color

	// Success indicates kept chunks and completed steps.
	Success lipgloss.Color

	// Warning indicates rejected chunks.
	Warning lipgloss.Color

	// Error indicates failed documents.
	Error lipgloss.Color
}

// DefaultTheme returns the default colour theme.
func DefaultTheme() *Theme {
	return &Theme{
		Primary:   lipgloss.Color("#7C3AED"), // Purple
		Secondary: lipgloss.Color("#06B6D4"), // Cyan
		Muted:     lipgloss.Color("#6C7086"), // Medium gray
		Success:   lipgloss.Color("#A6E3A1"), // Green
		Warning:   lipgloss.Color("#F9E2AF"), // Yellow
		Error:     lipgloss.Color("#F38BA8"), // Red
	}
}

// Styles contains pre-configured lipgloss styles.
type Styles struct {
	theme *Theme
	plain bool

	// Title style for report headers.
	Title lipgloss.Style

	// Section style for sub-headers.
	Section lipgloss.Style

	// Label style for row labels.
	Label lipgloss.Style

	// Muted style for less important text.
	Muted lipgloss.Style

	// Success style for positive figures.
	Success lipgloss.Style

	// Warning style for rejections.
	Warning lipgloss.Style

	// Error style for failures.
	Error lipgloss.Style
}

// NewStyles creates styles from a theme. Plain styles render text unchanged.
func NewStyles(theme *Theme, plain bool) *Styles {
	if theme == nil {
		theme = DefaultTheme()
	}
	if plain {
		none := lipgloss.NewStyle()
		return &Styles{
			theme:   theme,
			plain:   true,
			Title:   none,
			Section: none,
			Label:   none,
			Muted:   none,
			Success: none,
			Warning: none,
			Error:   none,
		}
	}

	return &Styles{
		theme: theme,

		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Primary),

		Section: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Secondary),

		Label: lipgloss.NewStyle().
			Bold(true),

		Muted: lipgloss.NewStyle().
			Foreground(theme.Muted),

		Success: lipgloss.NewStyle().
			Foreground(theme.Success),

		Warning: lipgloss.NewStyle().
			Foreground(theme.Warning),

		Error: lipgloss.NewStyle().
			Foreground(theme.Error),
	}
}

// StylesFor returns styled output for terminals and plain output for
// everything else.
func StylesFor(w io.Writer) *Styles {
	return NewStyles(DefaultTheme(), !IsTerminal(w))
}

// IsTerminal reports whether w is a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// Plain reports whether the styles render without decoration.
func (s *Styles) Plain() bool {
	return s.plain
}

// Theme returns the theme used by these styles.
func (s *Styles) Theme() *Theme {
	return s.theme
}
