package playback

import (
	"log/slog"
	"math/rand"
	"time"

	"github.com/rmax-ai/haze/pkg/metrics"
)

// Mode selects how a step's text reaches its surface.
type Mode int

const (
	// Typed reveals the text through the Typer.
	Typed Mode = iota
	// Instant writes the whole text at once.
	Instant
)

// Step is one scripted unit. Role is a presentation label (the speaker
// in a dialogue, "prompt" or "output" in a shell demo).
type Step struct {
	Role string
	Text string
	Mode Mode
}

// Sequence is an ordered script plus its timing.
type Sequence struct {
	Steps   []Step
	Lead    time.Duration // before the first step
	Pause   time.Duration // between steps
	Cadence Cadence       // typed steps only
}

// Target hands out the surface each step renders into.
type Target interface {
	// Reset prepares the target for a new run.
	Reset() error
	// Begin returns the surface for step. An error ends the run quietly.
	Begin(step Step) (Surface, error)
}

// Sequencer plays sequences into one Target. Only one run is active at
// a time; Play cancels the previous run first.
type Sequencer struct {
	name    string
	sched   Scheduler
	typer   *Typer
	target  Target
	current *Run
}

// Run is one playback of a Sequence. It doubles as the cancel handle.
type Run struct {
	seq        *Sequencer
	sequence   Sequence
	onStep     func(int, Step)
	onComplete func()

	index     int
	timer     Timer
	surface   Surface
	cancelled bool
	finished  bool
}

// NewSequencer returns a Sequencer named name (used in logs and
// metrics) that renders into target.
func NewSequencer(name string, sched Scheduler, typer *Typer, target Target) *Sequencer {
	return &Sequencer{
		name:   name,
		sched:  sched,
		typer:  typer,
		target: target,
	}
}

// NewStandaloneSequencer builds a Sequencer with a private Typer.
func NewStandaloneSequencer(name string, sched Scheduler, rng *rand.Rand, target Target) *Sequencer {
	return NewSequencer(name, sched, NewTyper(sched, rng), target)
}

// Play starts sequence. onStepRendered is called after each step's text
// is fully written, in index order; onComplete once after the last
// step. Neither is called after the returned Run is cancelled or
// superseded. Both callbacks may be nil.
func (s *Sequencer) Play(sequence Sequence, onStepRendered func(int, Step), onComplete func()) *Run {
	if s.current != nil {
		s.current.Cancel()
	}

	run := &Run{
		seq:        s,
		sequence:   sequence,
		onStep:     onStepRendered,
		onComplete: onComplete,
	}
	s.current = run
	metrics.SequenceRuns.WithLabelValues(s.name, "started").Inc()

	if len(sequence.Steps) == 0 {
		run.complete()
		return run
	}

	if err := s.target.Reset(); err != nil {
		run.abort("reset", err)
		return run
	}

	if sequence.Lead > 0 {
		run.timer = s.sched.After(sequence.Lead, func() { run.step(0) })
	} else {
		run.step(0)
	}
	return run
}

// Active reports whether a run is in flight.
func (s *Sequencer) Active() bool {
	return s.current != nil && !s.current.Finished()
}

// Cancel stops the current run, if any.
func (s *Sequencer) Cancel() {
	if s.current != nil {
		s.current.Cancel()
	}
}

// Cancel stops the run. Pending timers are stopped and no callback
// fires afterwards. Calling Cancel more than once is a no-op.
func (r *Run) Cancel() {
	if r.cancelled || r.finished {
		return
	}
	r.cancelled = true
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
	if r.surface != nil {
		r.seq.typer.Cancel(r.surface)
		r.surface = nil
	}
	r.release()
	metrics.SequenceRuns.WithLabelValues(r.seq.name, "cancelled").Inc()
}

// Finished reports whether the run completed, was aborted, or was
// cancelled.
func (r *Run) Finished() bool {
	return r.finished || r.cancelled
}

// Cancelled reports whether Cancel stopped the run.
func (r *Run) Cancelled() bool {
	return r.cancelled
}

func (r *Run) step(i int) {
	r.timer = nil
	if r.cancelled {
		return
	}
	r.index = i
	step := r.sequence.Steps[i]

	surface, err := r.seq.target.Begin(step)
	if err != nil {
		r.abort("begin", err)
		return
	}

	if step.Mode == Instant {
		if err := surface.SetText(step.Text); err != nil {
			r.abort("write", err)
			return
		}
		r.rendered(i, step)
		return
	}

	r.surface = surface
	r.seq.typer.Type(step.Text, surface, r.sequence.Cadence).OnDone(func(_ struct{}, err error) {
		if r.cancelled {
			return
		}
		r.surface = nil
		if err != nil {
			r.abort("type", err)
			return
		}
		r.rendered(i, step)
	})
}

func (r *Run) rendered(i int, step Step) {
	if r.onStep != nil {
		r.onStep(i, step)
	}
	if r.cancelled {
		return
	}
	if i == len(r.sequence.Steps)-1 {
		r.complete()
		return
	}
	r.timer = r.seq.sched.After(r.sequence.Pause, func() { r.step(i + 1) })
}

func (r *Run) complete() {
	r.finished = true
	r.release()
	metrics.SequenceRuns.WithLabelValues(r.seq.name, "completed").Inc()
	if r.onComplete != nil {
		r.onComplete()
	}
}

func (r *Run) abort(stage string, err error) {
	r.finished = true
	r.release()
	metrics.SequenceRuns.WithLabelValues(r.seq.name, "aborted").Inc()
	slog.Debug("sequence aborted", "target", r.seq.name, "stage", stage, "step", r.index, "error", err)
}

func (r *Run) release() {
	if r.seq.current == r {
		r.seq.current = nil
	}
}
