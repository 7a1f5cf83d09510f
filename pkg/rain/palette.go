package rain

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/mattn/go-runewidth"
)

// Palette maps intensities to a fixed number of pre-built styles, so a
// frame needs one escape sequence per run of equal shade rather than per
// cell.
type Palette struct {
	levels  []lipgloss.Style
	overlay lipgloss.Style
}

// NewPalette blends from background to foreground (hex colors) in
// levels steps. The overlay style is used for text drawn over the rain.
func NewPalette(background, foreground string, levels int, overlay lipgloss.Style) Palette {
	if levels < 1 {
		levels = 1
	}
	bg, err := colorful.Hex(background)
	if err != nil {
		bg = colorful.Color{}
	}
	fg, err := colorful.Hex(foreground)
	if err != nil {
		fg = colorful.Color{G: 1}
	}

	p := Palette{levels: make([]lipgloss.Style, levels), overlay: overlay}
	for i := range p.levels {
		t := float64(i+1) / float64(levels)
		shade := bg.BlendRgb(fg, t).Clamped()
		p.levels[i] = lipgloss.NewStyle().Foreground(lipgloss.Color(shade.Hex()))
	}
	return p
}

// Level returns the palette index for intensity, or -1 for an empty
// cell.
func (p Palette) Level(intensity float64) int {
	if intensity <= 0 {
		return -1
	}
	n := len(p.levels)
	level := int(intensity * float64(n))
	if level >= n {
		level = n - 1
	}
	return level
}

// Render draws the field. overlay lines are centered over the rain and
// hide the cells beneath them.
func (p Palette) Render(f *Field, overlay []string) string {
	width, height := f.Size()
	top := (height - len(overlay)) / 2

	var out strings.Builder
	for y := 0; y < height; y++ {
		if y > 0 {
			out.WriteByte('\n')
		}

		var text string
		left := width
		if i := y - top; i >= 0 && i < len(overlay) {
			text = runewidth.Truncate(overlay[i], width, "")
			left = (width - runewidth.StringWidth(text)) / 2
		}
		right := left + runewidth.StringWidth(text)

		p.renderSpan(&out, f, y, 0, left)
		if text != "" {
			out.WriteString(p.overlay.Render(text))
			p.renderSpan(&out, f, y, right, width)
		}
	}
	return out.String()
}

// renderSpan writes cells [from, to) of row y, grouping equal shades.
func (p Palette) renderSpan(out *strings.Builder, f *Field, y, from, to int) {
	var run strings.Builder
	current := -2
	flush := func() {
		if run.Len() == 0 {
			return
		}
		if current < 0 {
			out.WriteString(run.String())
		} else {
			out.WriteString(p.levels[current].Render(run.String()))
		}
		run.Reset()
	}

	for x := from; x < to; x++ {
		cell := f.Cell(x, y)
		level := p.Level(cell.Intensity)
		if level != current {
			flush()
			current = level
		}
		if level < 0 || cell.Glyph == 0 {
			run.WriteByte(' ')
		} else {
			run.WriteRune(cell.Glyph)
		}
	}
	flush()
}
