package ui

import (
	"math/rand"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/rmax-ai/haze/pkg/content"
	"github.com/rmax-ai/haze/pkg/playback"
)

const (
	// overlayTTL closes the hacker overlay on its own.
	overlayTTL = 10 * time.Second

	overlayCadence = 12 * time.Millisecond
	overlayPause   = 250 * time.Millisecond

	jumpGlitch   = time.Second
	hackerGlitch = 5 * time.Second
)

// hackerOverlay is the full-screen easter egg. close is idempotent: Esc
// and the self-expiry may both try to close it.
type hackerOverlay struct {
	cfg   content.HackerMode
	sched playback.Scheduler

	target *transcript
	seq    *playback.Sequencer
	run    *playback.Run
	expiry playback.Timer

	open bool
	done bool
	// gen invalidates an expiry that was already queued when the overlay
	// was closed and reopened.
	gen uint64
}

func newHackerOverlay(cfg content.HackerMode, sched playback.Scheduler, typer *playback.Typer) *hackerOverlay {
	o := &hackerOverlay{cfg: cfg, sched: sched, target: &transcript{}}
	o.seq = playback.NewSequencer("hacker", sched, typer, o.target)
	return o
}

// activate opens the overlay, restarting it if it is already open.
func (o *hackerOverlay) activate() {
	o.close()
	o.open = true
	o.done = false
	o.gen++
	gen := o.gen

	steps := make([]playback.Step, len(o.cfg.Lines))
	for i, l := range o.cfg.Lines {
		steps[i] = playback.Step{Role: l.Role, Text: l.Text, Mode: playback.Typed}
	}
	o.run = o.seq.Play(playback.Sequence{
		Steps:   steps,
		Pause:   overlayPause,
		Cadence: playback.Fixed(overlayCadence),
	}, nil, func() { o.done = true })

	o.expiry = o.sched.After(overlayTTL, func() {
		if gen == o.gen {
			o.close()
		}
	})
}

func (o *hackerOverlay) close() {
	if !o.open {
		return
	}
	o.open = false
	o.gen++
	o.seq.Cancel()
	if o.expiry != nil {
		o.expiry.Stop()
		o.expiry = nil
	}
	o.target.Reset()
}

func (o *hackerOverlay) view(width, height int) string {
	var rows []string
	for _, l := range o.target.Lines() {
		_, style := roleStyle(l.role)
		rows = append(rows, style.Render(l.text))
	}
	if o.done {
		rows = append(rows, "", primaryStyle.Render(strings.Repeat("━", max(10, min(width-8, 60)))))
		if o.cfg.Art != "" {
			rows = append(rows, "", lipgloss.NewStyle().Foreground(theme.Secondary).Render(o.cfg.Art))
		}
	}
	rows = append(rows, "", subtleStyle.Render(o.cfg.Footer))

	return overlayStyle.
		Width(width).
		Height(height).
		Render(strings.Join(rows, "\n"))
}

// glitches tracks which headings are glitching. Each heading has its own
// generation so an old expiry never cuts a newer glitch short.
type glitches struct {
	sched  playback.Scheduler
	active map[string]bool
	gen    map[string]uint64
	timers map[string]playback.Timer
}

func newGlitches(sched playback.Scheduler) *glitches {
	return &glitches{
		sched:  sched,
		active: make(map[string]bool),
		gen:    make(map[string]uint64),
		timers: make(map[string]playback.Timer),
	}
}

// trigger glitches heading id for d, extending any glitch in progress.
func (g *glitches) trigger(id string, d time.Duration) {
	if t := g.timers[id]; t != nil {
		t.Stop()
	}
	g.gen[id]++
	gen := g.gen[id]
	g.active[id] = true
	g.timers[id] = g.sched.After(d, func() {
		if g.gen[id] != gen {
			return
		}
		delete(g.active, id)
		delete(g.timers, id)
	})
}

// scatter glitches a random half of ids.
func (g *glitches) scatter(rng *rand.Rand, ids []string, d time.Duration) {
	for _, id := range ids {
		if rng.Float64() > 0.5 {
			g.trigger(id, d)
		}
	}
}

func (g *glitches) on(id string) bool {
	return g.active[id]
}

// glitchText swaps a few runes for block glyphs.
func glitchText(rng *rand.Rand, text string) string {
	noise := []rune("▓▒░█▚▞")
	runes := []rune(text)
	for i := range runes {
		if runes[i] != ' ' && rng.Float64() < 0.15 {
			runes[i] = noise[rng.Intn(len(noise))]
		}
	}
	return string(runes)
}
