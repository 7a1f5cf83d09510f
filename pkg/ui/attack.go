package ui

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/rmax-ai/haze/pkg/content"
	"github.com/rmax-ai/haze/pkg/playback"
)

// Attack playback timing.
const (
	attackCadence = 30 * time.Millisecond
	attackPause   = 800 * time.Millisecond
)

// attackSim replays scripted attack transcripts, one at a time.
type attackSim struct {
	scenarios []content.Scenario
	target    *transcript
	seq       *playback.Sequencer
	run       *playback.Run
	active    string
}

func newAttackSim(scenarios []content.Scenario, sched playback.Scheduler, typer *playback.Typer) *attackSim {
	a := &attackSim{scenarios: scenarios, target: &transcript{}}
	a.seq = playback.NewSequencer("attack", sched, typer, a.target)
	return a
}

// scenarioForKey returns the scenario bound to key.
func (a *attackSim) scenarioForKey(key string) (content.Scenario, bool) {
	for _, s := range a.scenarios {
		if s.Key == key {
			return s, true
		}
	}
	return content.Scenario{}, false
}

// start plays s from scratch, cancelling any playback in progress, and
// highlights its button.
func (a *attackSim) start(s content.Scenario) {
	a.active = s.ID
	a.run = a.seq.Play(playback.Sequence{
		Steps:   s.Steps(),
		Pause:   attackPause,
		Cadence: playback.Fixed(attackCadence),
	}, nil, nil)
}

func (a *attackSim) stop() {
	a.seq.Cancel()
}

func (a *attackSim) playing() bool {
	return a.run != nil && !a.run.Finished() && !a.run.Cancelled()
}

func (a *attackSim) view(width int) string {
	var buttons []string
	for _, s := range a.scenarios {
		label := "[" + s.Key + "] " + s.Label
		if s.ID == a.active {
			buttons = append(buttons, activeButtonStyle.Render(label))
		} else {
			buttons = append(buttons, buttonStyle.Render(label))
		}
	}

	var b strings.Builder
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, buttons...))
	b.WriteString("\n\n")

	inner := max(10, width-4)
	lines := a.target.Lines()
	if len(lines) == 0 {
		b.WriteString(subtleStyle.Render("Pick an attack to run the simulation."))
	}
	for i, l := range lines {
		prefixStyle, bodyStyle := roleStyle(l.role)
		prefix := l.role + "> "
		body := lipgloss.NewStyle().Width(inner).Render(prefixStyle.Render(prefix) + bodyStyle.Render(l.text))
		b.WriteString(body)
		if i < len(lines)-1 {
			b.WriteString("\n")
		}
	}
	return paneStyle.Width(width - 2).Render(b.String())
}
