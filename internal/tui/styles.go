package tui

import (
	"image/color"

	"charm.land/lipgloss/v2"

	"go.safehomi.dev/homeadmin/internal/notify"
)

// Package-level styles instance (nil until initialized)
var appStyles *Styles

// Styles holds all application styles using terminal default colors
type Styles struct {
	Primary color.Color
	Subtle  color.Color

	BorderStyle      lipgloss.Style
	HeaderStyle      lipgloss.Style
	TabStyle         lipgloss.Style
	ActiveTabStyle   lipgloss.Style
	SelectedStyle    lipgloss.Style
	SearchInputStyle lipgloss.Style
	FooterStyle      lipgloss.Style
	DisabledStyle    lipgloss.Style
	SubtleStyle      lipgloss.Style
	LabelStyle       lipgloss.Style
	ActiveBadge      lipgloss.Style
	InactiveBadge    lipgloss.Style
	ErrorStyle       lipgloss.Style
	WarningStyle     lipgloss.Style
	SuccessStyle     lipgloss.Style
}

// newStyles creates a new Styles instance using terminal default colors (NoColor).
// Emphasis comes from weight, italics and reverse video so the console
// follows the terminal theme.
func newStyles() *Styles {
	noColor := lipgloss.NoColor{}

	return &Styles{
		Primary: noColor,
		Subtle:  noColor,

		BorderStyle: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(noColor).
			Padding(0, 1),

		HeaderStyle: lipgloss.NewStyle().
			Bold(true),

		TabStyle: lipgloss.NewStyle().
			Padding(0, 1),

		ActiveTabStyle: lipgloss.NewStyle().
			Padding(0, 1).
			Bold(true).
			Reverse(true),

		SelectedStyle: lipgloss.NewStyle().
			Foreground(noColor).
			Bold(true),

		SearchInputStyle: lipgloss.NewStyle().
			Foreground(noColor),

		FooterStyle: lipgloss.NewStyle().
			Foreground(noColor).
			Italic(true),

		DisabledStyle: lipgloss.NewStyle().
			Faint(true).
			Italic(true),

		SubtleStyle: lipgloss.NewStyle().
			Faint(true),

		LabelStyle: lipgloss.NewStyle().
			Bold(true),

		ActiveBadge: lipgloss.NewStyle().
			Bold(true),

		InactiveBadge: lipgloss.NewStyle().
			Faint(true),

		ErrorStyle: lipgloss.NewStyle().
			Foreground(noColor).
			Bold(true),

		WarningStyle: lipgloss.NewStyle().
			Foreground(noColor).
			Bold(true),

		SuccessStyle: lipgloss.NewStyle().
			Foreground(noColor),
	}
}

// getStyles returns the current styles instance, with fallback for startup
func getStyles() *Styles {
	if appStyles == nil {
		return newStyles()
	}
	return appStyles
}

// toastStyle picks the style for a notification level.
func (s *Styles) toastStyle(level notify.Level) lipgloss.Style {
	switch level {
	case notify.LevelError:
		return s.ErrorStyle
	case notify.LevelWarning:
		return s.WarningStyle
	default:
		return s.SuccessStyle
	}
}
