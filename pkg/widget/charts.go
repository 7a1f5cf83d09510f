package widget

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/rmax-ai/haze/pkg/content"
)

const (
	barFull  = "█"
	barEmpty = "░"
)

// bar renders a meter of the given cell width filled to fraction.
func bar(fraction float64, width int, fill lipgloss.Color, empty lipgloss.Color) string {
	if width < 1 {
		return ""
	}
	if math.IsNaN(fraction) {
		fraction = 0
	}
	fraction = math.Max(0, math.Min(1, fraction))
	filled := int(math.Round(fraction * float64(width)))
	return lipgloss.NewStyle().Foreground(fill).Render(strings.Repeat(barFull, filled)) +
		lipgloss.NewStyle().Foreground(empty).Render(strings.Repeat(barEmpty, width-filled))
}

func labelWidth(labels []string) int {
	w := 0
	for _, l := range labels {
		w = max(w, runewidth.StringWidth(l))
	}
	return w
}

func padRight(s string, width int) string {
	return runewidth.FillRight(runewidth.Truncate(s, width, "…"), width)
}

// SkillsGraph renders the skills network: one meter per node colored by
// group, followed by the node's outgoing links.
func SkillsGraph(g content.SkillGraph, theme Theme, width int) string {
	if len(g.Nodes) == 0 {
		return lipgloss.NewStyle().Foreground(theme.Faint).Render("no skills")
	}

	ids := make([]string, len(g.Nodes))
	for i, n := range g.Nodes {
		ids[i] = n.ID
	}
	lw := min(labelWidth(ids), max(10, width/3))
	barWidth := max(5, width-lw-8)

	outgoing := make(map[string][]content.SkillLink)
	for _, l := range g.Links {
		outgoing[l.Source] = append(outgoing[l.Source], l)
	}

	var b strings.Builder
	faint := lipgloss.NewStyle().Foreground(theme.Faint)
	for i, n := range g.Nodes {
		color := theme.group(n.Group)
		label := lipgloss.NewStyle().Foreground(color).Bold(true).Render(padRight(n.ID, lw))
		fmt.Fprintf(&b, "%s %s %3d", label, bar(float64(n.Level)/100, barWidth, color, theme.Faint), n.Level)

		links := outgoing[n.ID]
		for j, l := range links {
			branch := "├─"
			if j == len(links)-1 {
				branch = "└─"
			}
			b.WriteString("\n")
			b.WriteString(faint.Render(fmt.Sprintf("  %s %s ", branch, strings.Repeat("─", min(max(1, l.Weight), content.MaxLinkWeight)))))
			b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Render(l.Target))
		}
		if i < len(g.Nodes)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// Radar renders a labeled series as one meter per axis, scaled to the
// largest value or 100, whichever is greater.
func Radar(r content.Radar, theme Theme, width int) string {
	if len(r.Labels) == 0 {
		return lipgloss.NewStyle().Foreground(theme.Faint).Render("no data")
	}

	scale := 100.0
	for _, v := range r.Values {
		if !math.IsInf(v, 0) && !math.IsNaN(v) {
			scale = math.Max(scale, v)
		}
	}
	lw := min(labelWidth(r.Labels), max(8, width/3))
	barWidth := max(5, width-lw-8)

	var b strings.Builder
	if r.Label != "" {
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).Render(r.Label))
		b.WriteString("\n")
	}
	for i, label := range r.Labels {
		v := 0.0
		if i < len(r.Values) {
			v = r.Values[i]
		}
		fmt.Fprintf(&b, "%s %s %3.0f",
			lipgloss.NewStyle().Foreground(theme.Text).Render(padRight(label, lw)),
			bar(v/scale, barWidth, theme.Primary, theme.Faint), v)
		if i < len(r.Labels)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}
