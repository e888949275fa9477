// Package ui provides the visual styling and components for the tabwork
// interactive explorer, with light/dark mode support.
package ui

import (
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	// Light mode colors (default)
	LightBackground = lipgloss.Color("#f7f7f5")
	LightForeground = lipgloss.Color("#1c2733")
	LightPrimary    = lipgloss.Color("#1c5d99") // steel blue
	LightAccent     = lipgloss.Color("#e8871e") // amber
	LightMuted      = lipgloss.Color("#9aa5b1")
	LightBorder     = lipgloss.Color("#d3dae3")

	// Dark mode colors
	DarkBackground = lipgloss.Color("#10161d")
	DarkForeground = lipgloss.Color("#e6e9ed")
	DarkPrimary    = lipgloss.Color("#5fa8d3")
	DarkAccent     = lipgloss.Color("#f0a35e")
	DarkMuted      = lipgloss.Color("#4f5b68")
	DarkBorder     = lipgloss.Color("#2b3540")

	// Semantic colors (same in both modes)
	Destructive = lipgloss.Color("#e05252")
	Success     = lipgloss.Color("#6cc070")
	Warning     = lipgloss.Color("#e8b417")
	Info        = lipgloss.Color("#5fa8d3")
)

// Theme holds the current color scheme.
type Theme struct {
	Background lipgloss.Color
	Foreground lipgloss.Color
	Primary    lipgloss.Color
	Accent     lipgloss.Color
	Muted      lipgloss.Color
	Border     lipgloss.Color
	IsDark     bool
}

// LightTheme returns the light mode theme.
func LightTheme() Theme {
	return Theme{
		Background: LightBackground,
		Foreground: LightForeground,
		Primary:    LightPrimary,
		Accent:     LightAccent,
		Muted:      LightMuted,
		Border:     LightBorder,
		IsDark:     false,
	}
}

// DarkTheme returns the dark mode theme.
func DarkTheme() Theme {
	return Theme{
		Background: DarkBackground,
		Foreground: DarkForeground,
		Primary:    DarkPrimary,
		Accent:     DarkAccent,
		Muted:      DarkMuted,
		Border:     DarkBorder,
		IsDark:     true,
	}
}

// DetectTheme picks dark mode from the terminal background when it can, light
// mode otherwise.
func DetectTheme() Theme {
	// COLORFGBG is "foreground;background"; ANSI background 0-6 and 8 are
	// dark
	if colorTerm := os.Getenv("COLORFGBG"); colorTerm != "" {
		parts := strings.Split(colorTerm, ";")
		if len(parts) == 2 {
			if bgIdx, err := strconv.Atoi(parts[1]); err == nil {
				if (bgIdx >= 0 && bgIdx <= 6) || bgIdx == 8 {
					return DarkTheme()
				}
			}
		}
	}
	if os.Getenv("TABWORK_DARK_MODE") == "1" {
		return DarkTheme()
	}
	return LightTheme()
}

// Styles holds the styled components the explorer renders with.
type Styles struct {
	Theme Theme

	Header lipgloss.Style
	Footer lipgloss.Style

	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Body     lipgloss.Style
	Muted    lipgloss.Style
	Bold     lipgloss.Style

	Selected lipgloss.Style
	Pane     lipgloss.Style

	Success lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Info    lipgloss.Style
	Badge   lipgloss.Style
	Divider lipgloss.Style
}

// NewStyles creates a Styles instance for the given theme.
func NewStyles(theme Theme) Styles {
	return Styles{
		Theme: theme,

		Header: lipgloss.NewStyle().
			Background(theme.Primary).
			Foreground(lipgloss.Color("#ffffff")).
			Padding(0, 2).
			Bold(true),

		Footer: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Padding(0, 2),

		Title: lipgloss.NewStyle().
			Foreground(theme.Primary).
			Bold(true).
			MarginBottom(1),

		Subtitle: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Italic(true),

		Body: lipgloss.NewStyle().
			Foreground(theme.Foreground),

		Muted: lipgloss.NewStyle().
			Foreground(theme.Muted),

		Bold: lipgloss.NewStyle().
			Foreground(theme.Foreground).
			Bold(true),

		Selected: lipgloss.NewStyle().
			Foreground(theme.Accent).
			Bold(true),

		Pane: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border).
			Padding(0, 1),

		Success: lipgloss.NewStyle().
			Foreground(Success).
			Bold(true),

		Error: lipgloss.NewStyle().
			Foreground(Destructive).
			Bold(true),

		Warning: lipgloss.NewStyle().
			Foreground(Warning).
			Bold(true),

		Info: lipgloss.NewStyle().
			Foreground(Info),

		Badge: lipgloss.NewStyle().
			Background(Warning).
			Foreground(lipgloss.Color("#1c2733")).
			Padding(0, 1).
			Bold(true),

		Divider: lipgloss.NewStyle().
			Foreground(theme.Border),
	}
}

// DefaultStyles returns styles with the detected theme.
func DefaultStyles() Styles {
	return NewStyles(DetectTheme())
}

// RenderDivider returns a horizontal divider of the given width.
func (s Styles) RenderDivider(width int) string {
	return s.Divider.Render(strings.Repeat("─", width))
}
