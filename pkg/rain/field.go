// Package rain implements the falling-glyph animation drawn behind the
// page banner.
package rain

import (
	"math"
	"math/rand"
	"time"

	"github.com/mattn/go-runewidth"
)

// DefaultGlyphs is the source alphabet: half-width katakana, digits,
// latin letters and a little punctuation.
const DefaultGlyphs = "ｱｲｳｴｵｶｷｸｹｺｻｼｽｾｿﾀﾁﾂﾃﾄﾅﾆﾇﾈﾉﾊﾋﾌﾍﾎﾏﾐﾑﾒﾓﾔﾕﾖﾗﾘﾙﾚﾛﾜｦﾝ" +
	"0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz><*-+.,;:!#&%$@"

// Config holds the tuning constants of the animation. The zero value is
// not useful; start from DefaultConfig.
type Config struct {
	Glyphs         string
	ColumnWidth    int           // cells per column
	Fade           float64       // intensity lost per frame, 0..1
	Cutoff         float64       // cells fainter than this are cleared
	ResetChance    float64       // per column, per frame
	MaxIntensity   float64       // ceiling for a freshly drawn glyph
	IntensityScale float64       // intensity = depth ratio * scale
	ReseedSpan     float64       // resize reseeds offsets in [-span, 0]
	FrameInterval  time.Duration // delay between frames
	ResizeQuiet    time.Duration // resize debounce window
	MinWidth       int           // narrower terminals get no rain
}

// DefaultConfig returns the stock tuning.
func DefaultConfig() Config {
	return Config{
		Glyphs:         DefaultGlyphs,
		ColumnWidth:    2,
		Fade:           0.04,
		Cutoff:         0.05,
		ResetChance:    0.01,
		MaxIntensity:   0.8,
		IntensityScale: 1.5,
		ReseedSpan:     8,
		FrameInterval:  50 * time.Millisecond,
		ResizeQuiet:    200 * time.Millisecond,
		MinWidth:       80,
	}
}

// Cell is one character position of the field.
type Cell struct {
	Glyph     rune
	Intensity float64
}

// Field is the per-column state plus the fading cell grid.
type Field struct {
	cfg    Config
	rng    *rand.Rand
	glyphs []rune
	width  int
	height int
	drops  []float64
	cells  []Cell
}

// NewField returns a field of width x height cells with reseeded
// columns.
func NewField(cfg Config, rng *rand.Rand, width, height int) *Field {
	if cfg.ColumnWidth < 1 {
		cfg.ColumnWidth = 1
	}
	f := &Field{
		cfg:    cfg,
		rng:    rng,
		glyphs: singleWidth(cfg.Glyphs),
	}
	f.Resize(width, height)
	return f
}

// singleWidth keeps the runes that occupy exactly one terminal cell.
func singleWidth(alphabet string) []rune {
	var out []rune
	for _, r := range alphabet {
		if runewidth.RuneWidth(r) == 1 {
			out = append(out, r)
		}
	}
	if len(out) == 0 {
		out = []rune{'0', '1'}
	}
	return out
}

// Resize recomputes the column count from width and reseeds every
// column to a random offset at or above the top edge.
func (f *Field) Resize(width, height int) {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	f.width = width
	f.height = height
	f.cells = make([]Cell, width*height)

	columns := int(math.Ceil(float64(width) / float64(f.cfg.ColumnWidth)))
	f.drops = make([]float64, columns)
	for i := range f.drops {
		f.drops[i] = -f.rng.Float64() * f.cfg.ReseedSpan
	}
}

// Step advances the animation by one frame.
func (f *Field) Step() {
	keep := 1 - f.cfg.Fade
	for i := range f.cells {
		if f.cells[i].Intensity == 0 {
			continue
		}
		f.cells[i].Intensity *= keep
		if f.cells[i].Intensity < f.cfg.Cutoff {
			f.cells[i] = Cell{}
		}
	}

	h := float64(f.height)
	for i, y := range f.drops {
		glyph := f.glyphs[f.rng.Intn(len(f.glyphs))]
		x := i * f.cfg.ColumnWidth
		if y > 0 && y < h && x < f.width {
			f.cells[int(y)*f.width+x] = Cell{Glyph: glyph, Intensity: f.intensity(y)}
		}

		if y > h || f.rng.Float64() < f.cfg.ResetChance {
			f.drops[i] = 0
		} else {
			f.drops[i] = y + 1
		}
	}
}

// intensity grows with depth and is clamped to MaxIntensity.
func (f *Field) intensity(y float64) float64 {
	if f.height == 0 {
		return 0
	}
	return math.Min(f.cfg.MaxIntensity, y/float64(f.height)*f.cfg.IntensityScale)
}

// Size returns the field dimensions in cells.
func (f *Field) Size() (width, height int) {
	return f.width, f.height
}

// Columns returns the number of rain columns.
func (f *Field) Columns() int {
	return len(f.drops)
}

// Drops returns a copy of the column offsets, in rows.
func (f *Field) Drops() []float64 {
	out := make([]float64, len(f.drops))
	copy(out, f.drops)
	return out
}

// Cell returns the cell at x, y. Out of range positions are empty.
func (f *Field) Cell(x, y int) Cell {
	if x < 0 || y < 0 || x >= f.width || y >= f.height {
		return Cell{}
	}
	return f.cells[y*f.width+x]
}
