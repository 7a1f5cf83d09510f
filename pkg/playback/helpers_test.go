package playback

import (
	"time"

	"github.com/rmax-ai/haze/pkg/clock"
)

var epoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func newTestScheduler() (*clock.FakeClock, Scheduler) {
	c := clock.Fake(epoch)
	return c, NewScheduler(c, nil)
}

// recordingSurface keeps every write so tests can assert on the exact
// sequence of states.
type recordingSurface struct {
	writes   []string
	detached bool
}

func (s *recordingSurface) SetText(text string) error {
	if s.detached {
		return ErrDetached
	}
	s.writes = append(s.writes, text)
	return nil
}

func (s *recordingSurface) text() string {
	if len(s.writes) == 0 {
		return ""
	}
	return s.writes[len(s.writes)-1]
}

// transcript is a Target that appends one surface per step.
type transcript struct {
	resets int
	lines  []*recordingSurface
	roles  []string
	fail   error
}

func (t *transcript) Reset() error {
	if t.fail != nil {
		return t.fail
	}
	t.resets++
	t.lines = nil
	t.roles = nil
	return nil
}

func (t *transcript) Begin(step Step) (Surface, error) {
	if t.fail != nil {
		return nil, t.fail
	}
	line := &recordingSurface{}
	t.lines = append(t.lines, line)
	t.roles = append(t.roles, step.Role)
	return line, nil
}

func (t *transcript) texts() []string {
	out := make([]string, len(t.lines))
	for i, line := range t.lines {
		out[i] = line.text()
	}
	return out
}
