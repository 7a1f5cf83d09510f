package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/rmax-ai/haze/pkg/widget"
)

// Styles
var (
	theme = widget.DefaultTheme()

	subtleStyle  = lipgloss.NewStyle().Foreground(theme.Faint)
	textStyle    = lipgloss.NewStyle().Foreground(theme.Text)
	primaryStyle = lipgloss.NewStyle().Foreground(theme.Primary)
	accentStyle  = lipgloss.NewStyle().Foreground(theme.Accent)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	okStyle      = lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)

	headingStyle = lipgloss.NewStyle().
			Foreground(theme.Primary).
			Bold(true).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(theme.Secondary)

	glitchStyle = headingStyle.
			Foreground(theme.Accent).
			BorderForeground(theme.Accent)

	bannerTitleStyle = lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)

	buttonStyle       = lipgloss.NewStyle().Foreground(theme.Primary).Padding(0, 1)
	activeButtonStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#0a0a0a")).Background(theme.Primary).Bold(true).Padding(0, 1)

	paneStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.Secondary).
			Padding(0, 1)

	focusedPaneStyle = paneStyle.BorderForeground(theme.Primary)

	menuStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.DoubleBorder()).
			BorderForeground(theme.Primary).
			Padding(0, 2)

	overlayStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#000000")).
			Padding(1, 4)

	footerStyle = lipgloss.NewStyle().Foreground(theme.Faint)
)

// roleStyles colors transcript prefixes and text per speaker.
var roleStyles = map[string]struct{ prefix, text lipgloss.Style }{
	"user":      {lipgloss.NewStyle().Foreground(theme.Secondary), lipgloss.NewStyle().Foreground(theme.Secondary)},
	"assistant": {lipgloss.NewStyle().Foreground(theme.Primary), lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff"))},
	"system":    {accentStyle, accentStyle},
	"hacker":    {lipgloss.NewStyle().Foreground(lipgloss.Color("#ff0000")), lipgloss.NewStyle().Foreground(lipgloss.Color("#ef4444"))},

	"title":   {primaryStyle, primaryStyle.Bold(true)},
	"step":    {lipgloss.NewStyle().Foreground(theme.Secondary), lipgloss.NewStyle().Foreground(theme.Secondary)},
	"finding": {accentStyle, accentStyle},
}

func roleStyle(role string) (prefix, text lipgloss.Style) {
	if s, ok := roleStyles[role]; ok {
		return s.prefix, s.text
	}
	return subtleStyle, textStyle
}
