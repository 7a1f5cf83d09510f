package playback

import "time"

// Debouncer calls f once after wait has passed without a new Trigger.
type Debouncer struct {
	sched Scheduler
	wait  time.Duration
	f     func()
	timer Timer
	gen   uint64
}

// NewDebouncer returns a Debouncer for f.
func NewDebouncer(sched Scheduler, wait time.Duration, f func()) *Debouncer {
	return &Debouncer{sched: sched, wait: wait, f: f}
}

// Trigger restarts the quiet period.
func (d *Debouncer) Trigger() {
	d.Stop()
	gen := d.gen
	d.timer = d.sched.After(d.wait, func() {
		// A timer that fired before Stop could still be queued on the
		// loop; the generation check drops it.
		if gen != d.gen {
			return
		}
		d.timer = nil
		d.f()
	})
}

// Stop cancels a pending call.
func (d *Debouncer) Stop() {
	d.gen++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
