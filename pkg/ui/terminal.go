package ui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rmax-ai/haze/pkg/content"
	"github.com/rmax-ai/haze/pkg/playback"
	"github.com/rmax-ai/haze/pkg/shell"
)

// Demo timing: the first command starts after demoLead, then commands
// follow demoPause apart, typed at a human-ish cadence.
const (
	demoLead       = time.Second
	demoPause      = 3500 * time.Millisecond
	demoCadenceMin = 50 * time.Millisecond
	demoCadenceMax = 80 * time.Millisecond

	terminalRows    = 16
	terminalHistory = 200
)

// terminalPane is the fake shell: a scrollback, a command line the demo
// types into, and a text field for the user once they take over.
type terminalPane struct {
	cfg   content.Terminal
	shell *shell.Shell

	history []string
	input   *line
	field   textinput.Model
	focused bool

	demo    *playback.Sequencer
	demoRun *playback.Run
	// takenOver is set once the user typed into the terminal; the demo
	// never restarts after that.
	takenOver bool
}

func newTerminalPane(cfg content.Terminal, sched playback.Scheduler, typer *playback.Typer) *terminalPane {
	field := textinput.New()
	field.Prompt = ""
	field.Placeholder = "type a command, tab completes"
	field.CharLimit = 256

	t := &terminalPane{
		cfg:   cfg,
		shell: cfg.Shell(),
		input: &line{role: "command"},
		field: field,
	}
	if cfg.Greeting != "" {
		t.history = append(t.history, cfg.Greeting)
	}
	t.demo = playback.NewSequencer("terminal", sched, typer, t)
	return t
}

// Reset clears the command line for a new demo run.
func (t *terminalPane) Reset() error {
	return t.input.SetText("")
}

// Begin hands the command line to the demo for the next command.
func (t *terminalPane) Begin(playback.Step) (playback.Surface, error) {
	return t.input, nil
}

// startDemo auto-types every known command, running each once typed.
func (t *terminalPane) startDemo() {
	if t.takenOver {
		return
	}
	steps := make([]playback.Step, 0, len(t.cfg.Commands))
	for _, c := range t.cfg.Commands {
		steps = append(steps, playback.Step{Role: "command", Text: c.Command, Mode: playback.Typed})
	}
	t.demoRun = t.demo.Play(playback.Sequence{
		Steps:   steps,
		Lead:    demoLead,
		Pause:   demoPause,
		Cadence: playback.Between(demoCadenceMin, demoCadenceMax),
	}, func(_ int, step playback.Step) {
		t.exec(step.Text)
		t.input.SetText("")
	}, nil)
}

// takeOver stops the demo for good and hands the command line to the
// user.
func (t *terminalPane) takeOver() {
	if t.takenOver {
		return
	}
	t.takenOver = true
	t.demo.Cancel()
	t.input.text = ""
	t.input.detached = true
}

func (t *terminalPane) focus() tea.Cmd {
	t.takeOver()
	t.focused = true
	return t.field.Focus()
}

func (t *terminalPane) blur() {
	t.focused = false
	t.field.Blur()
}

// exec runs command through the shell and records it in the scrollback.
func (t *terminalPane) exec(command string) {
	res := t.shell.Exec(command)
	if res.Kind == shell.Clear {
		t.history = nil
		return
	}
	t.appendHistory(t.cfg.Prompt + command)
	if res.Output != "" {
		t.appendHistory(strings.Split(res.Output, "\n")...)
	}
}

func (t *terminalPane) appendHistory(lines ...string) {
	t.history = append(t.history, lines...)
	if over := len(t.history) - terminalHistory; over > 0 {
		t.history = t.history[over:]
	}
}

// complete expands the field to the longest unambiguous completion. When
// nothing more can be added and several commands match, they are listed.
func (t *terminalPane) complete() {
	value := t.field.Value()
	candidates := t.shell.Complete(value)
	switch len(candidates) {
	case 0:
		return
	case 1:
		t.field.SetValue(candidates[0])
	default:
		prefix := shell.CommonPrefix(candidates)
		if prefix == value {
			t.appendHistory(t.cfg.Prompt + value)
			t.appendHistory(candidates...)
			return
		}
		t.field.SetValue(prefix)
	}
	t.field.CursorEnd()
}

// handleKey processes a key while the terminal has focus. It reports
// whether the key was consumed.
func (t *terminalPane) handleKey(msg tea.KeyMsg) (bool, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		t.blur()
		return true, nil
	case tea.KeyEnter:
		t.exec(t.field.Value())
		t.field.Reset()
		return true, nil
	case tea.KeyTab:
		t.complete()
		return true, nil
	}
	var cmd tea.Cmd
	t.field, cmd = t.field.Update(msg)
	return true, cmd
}

func (t *terminalPane) view(width int) string {
	inner := max(10, width-4)
	wrap := lipgloss.NewStyle().Width(inner)

	var rows []string
	for _, h := range t.history {
		if strings.HasPrefix(h, t.cfg.Prompt) {
			rows = append(rows, wrap.Render(primaryStyle.Render(t.cfg.Prompt)+textStyle.Render(strings.TrimPrefix(h, t.cfg.Prompt))))
			continue
		}
		rows = append(rows, wrap.Render(textStyle.Render(h)))
	}
	rendered := strings.Split(strings.Join(rows, "\n"), "\n")
	if len(rows) == 0 {
		rendered = nil
	}
	if over := len(rendered) - (terminalRows - 1); over > 0 {
		rendered = rendered[over:]
	}

	prompt := primaryStyle.Render(t.cfg.Prompt)
	if t.focused || t.takenOver {
		rendered = append(rendered, prompt+t.field.View())
	} else {
		rendered = append(rendered, prompt+textStyle.Render(t.input.text)+primaryStyle.Render("█"))
	}

	style := paneStyle
	if t.focused {
		style = focusedPaneStyle
	}
	return style.Width(width - 2).Render(strings.Join(rendered, "\n"))
}
