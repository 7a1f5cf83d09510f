package ui

import (
	"github.com/rmax-ai/haze/pkg/playback"
)

// line is a text surface owned by the model. A detached line rejects
// writes, which ends any typer still targeting it.
type line struct {
	role     string
	text     string
	detached bool
}

func (l *line) SetText(text string) error {
	if l.detached {
		return playback.ErrDetached
	}
	l.text = text
	return nil
}

// transcript is a Target that appends one line per step and discards
// every line on Reset.
type transcript struct {
	lines []*line
}

func (t *transcript) Reset() error {
	for _, l := range t.lines {
		l.detached = true
	}
	t.lines = nil
	return nil
}

func (t *transcript) Begin(step playback.Step) (playback.Surface, error) {
	l := &line{role: step.Role}
	t.lines = append(t.lines, l)
	return l, nil
}

// Lines returns the lines written so far.
func (t *transcript) Lines() []*line {
	return t.lines
}
