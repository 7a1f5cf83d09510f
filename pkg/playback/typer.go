package playback

import (
	"errors"
	"math/rand"
	"time"

	"github.com/rmax-ai/haze/pkg/metrics"
)

// Surface is a text target. SetText replaces the whole content and
// returns ErrDetached once the surface has been removed. Implementations
// must be comparable (pointer types); the typer keys runs by surface.
type Surface interface {
	SetText(text string) error
}

// Cadence is the delay between two typed runes. Min == Max gives a
// fixed delay; otherwise each delay is drawn uniformly from [Min, Max].
type Cadence struct {
	Min time.Duration
	Max time.Duration
}

// Fixed returns a constant cadence.
func Fixed(d time.Duration) Cadence {
	return Cadence{Min: d, Max: d}
}

// Between returns a cadence drawn uniformly from [min, max].
func Between(min, max time.Duration) Cadence {
	if max < min {
		min, max = max, min
	}
	return Cadence{Min: min, Max: max}
}

// Next returns the next delay.
func (c Cadence) Next(rng *rand.Rand) time.Duration {
	if c.Max <= c.Min || rng == nil {
		return c.Min
	}
	return c.Min + time.Duration(rng.Int63n(int64(c.Max-c.Min)+1))
}

// Typer reveals text one rune per tick. At most one run writes to a
// given surface; a new Type call on that surface supersedes the old run.
type Typer struct {
	sched  Scheduler
	rng    *rand.Rand
	active map[Surface]*typeRun
}

type typeRun struct {
	typer   *Typer
	target  Surface
	runes   []rune
	index   int
	cadence Cadence
	timer   Timer
	stopped bool
	done    *Signal
}

// NewTyper returns a Typer scheduling its ticks on sched. rng feeds
// random cadences and may be nil when only fixed cadences are used.
func NewTyper(sched Scheduler, rng *rand.Rand) *Typer {
	return &Typer{
		sched:  sched,
		rng:    rng,
		active: make(map[Surface]*typeRun),
	}
}

// Type clears target and writes text into it rune by rune: the first
// rune immediately, each following rune one cadence delay later. The
// returned Signal resolves with nil after the last rune, with
// ErrDetached if the surface went away, or with ErrSuperseded or
// ErrCancelled if the run was stopped.
func (t *Typer) Type(text string, target Surface, cadence Cadence) *Signal {
	if prev, ok := t.active[target]; ok {
		prev.stop(ErrSuperseded)
	}

	run := &typeRun{
		typer:   t,
		target:  target,
		runes:   []rune(text),
		cadence: cadence,
		done:    NewFuture[struct{}](),
	}
	t.active[target] = run

	if err := target.SetText(""); err != nil {
		run.finish(detachedOr(err))
		return run.done
	}
	run.tick()
	return run.done
}

// Cancel stops the run currently writing to target, if any.
func (t *Typer) Cancel(target Surface) {
	if run, ok := t.active[target]; ok {
		run.stop(ErrCancelled)
	}
}

// Active reports whether a run is writing to target.
func (t *Typer) Active(target Surface) bool {
	_, ok := t.active[target]
	return ok
}

func (r *typeRun) tick() {
	r.timer = nil
	if r.stopped {
		return
	}
	if r.index >= len(r.runes) {
		r.finish(nil)
		return
	}

	r.index++
	if err := r.target.SetText(string(r.runes[:r.index])); err != nil {
		r.finish(detachedOr(err))
		return
	}
	metrics.TypedRunes.Inc()

	if r.index >= len(r.runes) {
		r.finish(nil)
		return
	}
	r.timer = r.typer.sched.After(r.cadence.Next(r.typer.rng), r.tick)
}

func (r *typeRun) stop(reason error) {
	if r.stopped {
		return
	}
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
	r.finish(reason)
}

func (r *typeRun) finish(err error) {
	r.stopped = true
	if r.typer.active[r.target] == r {
		delete(r.typer.active, r.target)
	}
	r.done.Resolve(struct{}{}, err)
}

func detachedOr(err error) error {
	if errors.Is(err, ErrDetached) {
		return err
	}
	return errors.Join(ErrDetached, err)
}
