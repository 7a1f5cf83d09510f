package playback

import (
	"time"

	"github.com/rmax-ai/haze/pkg/clock"
)

// Timer is a pending scheduled callback.
type Timer interface {
	Stop() bool
}

// Scheduler runs callbacks after a delay on a single logical thread.
type Scheduler interface {
	After(d time.Duration, f func()) Timer
}

// PostFunc hands a callback to the thread that owns the surfaces.
type PostFunc func(f func())

type scheduler struct {
	clock clock.Clock
	post  PostFunc
}

// NewScheduler composes a clock with a post function. Timer callbacks
// fire on the clock's goroutine and are forwarded through post; a nil
// post runs them where they fire.
func NewScheduler(c clock.Clock, post PostFunc) Scheduler {
	if post == nil {
		post = func(f func()) { f() }
	}
	return &scheduler{clock: c, post: post}
}

func (s *scheduler) After(d time.Duration, f func()) Timer {
	return s.clock.AfterFunc(d, func() { s.post(f) })
}
