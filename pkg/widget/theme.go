// Package widget renders the page's data views as styled terminal text:
// markdown sections, the skills graph and the achievements radar.
package widget

import "github.com/charmbracelet/lipgloss"

// Theme holds the colors shared by every widget.
type Theme struct {
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Accent    lipgloss.Color
	Text      lipgloss.Color
	Faint     lipgloss.Color

	// Groups colors skill nodes by group number, cycling when exhausted.
	Groups []lipgloss.Color
}

// DefaultTheme is the green-on-black palette used across the page.
func DefaultTheme() Theme {
	return Theme{
		Primary:   lipgloss.Color("#9fef00"),
		Secondary: lipgloss.Color("#2ee6d6"),
		Accent:    lipgloss.Color("#ff3e3e"),
		Text:      lipgloss.Color("#d0d0d0"),
		Faint:     lipgloss.Color("#5c5c5c"),
		Groups: []lipgloss.Color{
			lipgloss.Color("#9fef00"),
			lipgloss.Color("#2ee6d6"),
			lipgloss.Color("#ffb000"),
		},
	}
}

func (t Theme) group(n int) lipgloss.Color {
	if len(t.Groups) == 0 {
		return t.Primary
	}
	if n < 1 {
		n = 1
	}
	return t.Groups[(n-1)%len(t.Groups)]
}
