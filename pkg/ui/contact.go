package ui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rmax-ai/haze/pkg/content"
	"github.com/rmax-ai/haze/pkg/playback"
)

const (
	// sendDelay is how long the form pretends to be sending.
	sendDelay = 1500 * time.Millisecond
	// noticeTTL is how long the confirmation stays on screen.
	noticeTTL = 5 * time.Second
)

const (
	fieldName = iota
	fieldEmail
	fieldMessage
	fieldCount
)

var fieldLabels = [fieldCount]string{"Name", "Email", "Message"}

// contactForm collects a message and pretends to send it. Nothing leaves
// the process.
type contactForm struct {
	cfg   content.Contact
	sched playback.Scheduler

	fields  [fieldCount]textinput.Model
	current int
	focused bool

	spinner spinner.Model
	sending bool
	// gen invalidates send and notice timers from an earlier submit.
	gen    uint64
	timer  playback.Timer
	notice string
	failed bool
}

func newContactForm(cfg content.Contact, sched playback.Scheduler) *contactForm {
	f := &contactForm{cfg: cfg, sched: sched}
	for i := range f.fields {
		ti := textinput.New()
		ti.Prompt = ""
		ti.Placeholder = strings.ToLower(fieldLabels[i])
		ti.CharLimit = 120
		if i == fieldMessage {
			ti.CharLimit = 1000
		}
		f.fields[i] = ti
	}
	f.spinner = spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(primaryStyle))
	return f
}

func (f *contactForm) focus() tea.Cmd {
	f.focused = true
	return f.fields[f.current].Focus()
}

func (f *contactForm) blur() {
	f.focused = false
	for i := range f.fields {
		f.fields[i].Blur()
	}
}

func (f *contactForm) move(delta int) tea.Cmd {
	f.fields[f.current].Blur()
	f.current = (f.current + delta + fieldCount) % fieldCount
	return f.fields[f.current].Focus()
}

// validate mirrors the browser's required and type=email checks.
func (f *contactForm) validate() string {
	for i := range f.fields {
		if strings.TrimSpace(f.fields[i].Value()) == "" {
			return fieldLabels[i] + " is required."
		}
	}
	email := f.fields[fieldEmail].Value()
	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 {
		return "Enter a valid email address."
	}
	return ""
}

// submit starts the fake send. The form locks until sendDelay elapses.
func (f *contactForm) submit() tea.Cmd {
	if f.sending {
		return nil
	}
	if msg := f.validate(); msg != "" {
		f.notice, f.failed = msg, true
		return nil
	}

	f.gen++
	gen := f.gen
	f.sending = true
	f.notice, f.failed = "", false
	f.stopTimer()
	f.timer = f.sched.After(sendDelay, func() { f.sent(gen) })
	return f.spinner.Tick
}

func (f *contactForm) sent(gen uint64) {
	if gen != f.gen {
		return
	}
	f.sending = false
	f.notice = f.cfg.Sent
	for i := range f.fields {
		f.fields[i].Reset()
	}
	f.timer = f.sched.After(noticeTTL, func() {
		if gen == f.gen {
			f.notice = ""
			f.timer = nil
		}
	})
}

func (f *contactForm) stopTimer() {
	if f.timer != nil {
		f.timer.Stop()
		f.timer = nil
	}
}

// handleKey processes a key while the form has focus.
func (f *contactForm) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		f.blur()
		return nil
	case "tab", "down":
		return f.move(1)
	case "shift+tab", "up":
		return f.move(-1)
	case "enter":
		if f.current < fieldMessage {
			return f.move(1)
		}
		return f.submit()
	}
	if f.sending {
		return nil
	}
	if f.failed {
		f.notice, f.failed = "", false
	}
	var cmd tea.Cmd
	f.fields[f.current], cmd = f.fields[f.current].Update(msg)
	return cmd
}

func (f *contactForm) updateSpinner(msg spinner.TickMsg) tea.Cmd {
	if !f.sending {
		return nil
	}
	var cmd tea.Cmd
	f.spinner, cmd = f.spinner.Update(msg)
	return cmd
}

func (f *contactForm) view(width int) string {
	labelStyle := lipgloss.NewStyle().Foreground(theme.Secondary).Width(9)
	var rows []string
	for i := range f.fields {
		marker := "  "
		if f.focused && i == f.current {
			marker = primaryStyle.Render("> ")
		}
		rows = append(rows, marker+labelStyle.Render(fieldLabels[i])+f.fields[i].View())
	}

	rows = append(rows, "")
	if f.sending {
		rows = append(rows, "  "+f.spinner.View()+" "+textStyle.Render(f.cfg.Sending))
	} else {
		rows = append(rows, "  "+activeButtonStyle.Render("Send Message"))
	}
	if f.notice != "" {
		style := okStyle
		if f.failed {
			style = errorStyle
		}
		rows = append(rows, "", "  "+style.Render(f.notice))
	}

	style := paneStyle
	if f.focused {
		style = focusedPaneStyle
	}
	return style.Width(width - 2).Render(strings.Join(rows, "\n"))
}
