package rain

import (
	"log/slog"
	"math/rand"

	"github.com/rmax-ai/haze/pkg/metrics"
	"github.com/rmax-ai/haze/pkg/playback"
)

// State is the lifecycle state of an Animation.
type State int

const (
	Stopped State = iota
	Running
	Paused
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case Paused:
		return "paused"
	default:
		return "stopped"
	}
}

// Animation is one owned rain session: the field, its frame timer and
// the token that invalidates frames scheduled before a pause or stop.
type Animation struct {
	cfg    Config
	sched  playback.Scheduler
	field  *Field
	state  State
	timer  playback.Timer
	token  uint64
	frames uint64
	resize *playback.Debouncer

	pendingWidth  int
	pendingHeight int
}

// Start creates a running animation for a width x height surface. It
// returns nil when width is below cfg.MinWidth.
func Start(cfg Config, sched playback.Scheduler, rng *rand.Rand, width, height int) *Animation {
	if width < cfg.MinWidth {
		slog.Debug("rain skipped", "width", width, "min_width", cfg.MinWidth)
		return nil
	}

	a := &Animation{
		cfg:   cfg,
		sched: sched,
		field: NewField(cfg, rng, width, height),
	}
	a.resize = playback.NewDebouncer(sched, cfg.ResizeQuiet, a.applyResize)
	metrics.RainColumns.Set(float64(a.field.Columns()))

	a.state = Running
	a.schedule()
	return a
}

// State reports the lifecycle state.
func (a *Animation) State() State {
	return a.state
}

// Frames counts the frames stepped so far.
func (a *Animation) Frames() uint64 {
	return a.frames
}

// Field exposes the animated field for rendering.
func (a *Animation) Field() *Field {
	return a.field
}

// Pause stops scheduling frames until Resume.
func (a *Animation) Pause() {
	if a.state != Running {
		return
	}
	a.state = Paused
	a.cancelFrame()
}

// Resume restarts the frame loop after Pause.
func (a *Animation) Resume() {
	if a.state != Paused {
		return
	}
	a.state = Running
	a.schedule()
}

// Stop ends the session for good.
func (a *Animation) Stop() {
	if a.state == Stopped {
		return
	}
	a.state = Stopped
	a.cancelFrame()
	a.resize.Stop()
}

// Resize records the new surface size and applies it once resizes have
// been quiet for cfg.ResizeQuiet.
func (a *Animation) Resize(width, height int) {
	if a.state == Stopped {
		return
	}
	a.pendingWidth = width
	a.pendingHeight = height
	a.resize.Trigger()
}

func (a *Animation) applyResize() {
	if a.state == Stopped {
		return
	}
	a.field.Resize(a.pendingWidth, a.pendingHeight)
	metrics.RainColumns.Set(float64(a.field.Columns()))
}

func (a *Animation) schedule() {
	token := a.token
	a.timer = a.sched.After(a.cfg.FrameInterval, func() { a.frame(token) })
}

func (a *Animation) frame(token uint64) {
	if token != a.token || a.state != Running {
		return
	}
	a.timer = nil
	a.field.Step()
	a.frames++
	metrics.RainFrames.Inc()
	a.schedule()
}

func (a *Animation) cancelFrame() {
	a.token++
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
}
