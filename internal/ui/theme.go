// Package ui holds the terminal presentation layer: theme, headless
// detection, progress reporting, and the interactive catalog browser.
package ui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
)

// ColorScheme holds the palette used across all components.
type ColorScheme struct {
	Primary   string
	Secondary string
	Success   string
	Warning   string
	Error     string
	Muted     string
}

// DefaultColors is the squad palette.
var DefaultColors = ColorScheme{
	Primary:   "#7C3AED",
	Secondary: "#06B6D4",
	Success:   "#22C55E",
	Warning:   "#EAB308",
	Error:     "#EF4444",
	Muted:     "#6B7280",
}

// Theme bundles the color scheme with prebuilt lipgloss styles.
// When NoColor is set, all render helpers pass text through unstyled.
type Theme struct {
	Colors  ColorScheme
	NoColor bool

	title   lipgloss.Style
	success lipgloss.Style
	warning lipgloss.Style
	errSt   lipgloss.Style
	muted   lipgloss.Style
}

// NewTheme builds a theme. noColor is typically fed from config plus the
// NO_COLOR convention, which always wins.
func NewTheme(noColor bool) *Theme {
	if os.Getenv("NO_COLOR") != "" {
		noColor = true
	}
	t := &Theme{Colors: DefaultColors, NoColor: noColor}
	t.title = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(t.Colors.Primary))
	t.success = lipgloss.NewStyle().Foreground(lipgloss.Color(t.Colors.Success))
	t.warning = lipgloss.NewStyle().Foreground(lipgloss.Color(t.Colors.Warning))
	t.errSt = lipgloss.NewStyle().Foreground(lipgloss.Color(t.Colors.Error))
	t.muted = lipgloss.NewStyle().Foreground(lipgloss.Color(t.Colors.Muted))
	return t
}

// Title renders a heading.
func (t *Theme) Title(s string) string { return t.render(t.title, s) }

// Success renders a success line.
func (t *Theme) Success(s string) string { return t.render(t.success, s) }

// Warning renders a warning line.
func (t *Theme) Warning(s string) string { return t.render(t.warning, s) }

// Error renders an error line.
func (t *Theme) Error(s string) string { return t.render(t.errSt, s) }

// Muted renders secondary text.
func (t *Theme) Muted(s string) string { return t.render(t.muted, s) }

func (t *Theme) render(style lipgloss.Style, s string) string {
	if t.NoColor {
		return s
	}
	return style.Render(s)
}
