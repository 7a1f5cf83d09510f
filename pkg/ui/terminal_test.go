package ui

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withDemo(o *Options) { o.NoDemo = false }

func historyContains(tp *terminalPane, text string) bool {
	for _, h := range tp.history {
		if h == text {
			return true
		}
	}
	return false
}

func TestTerminal_GreetingFirst(t *testing.T) {
	_, m := newTestModel(t, nil)
	require.NotEmpty(t, m.terminal.history)
	assert.Equal(t, m.content.Terminal.Greeting, m.terminal.history[0])
}

func TestTerminal_DemoTypesThenRuns(t *testing.T) {
	fc, m := newTestModel(t, withDemo)
	size(m, 100, 20)
	prompt := m.content.Terminal.Prompt

	advance(fc, m, 999*time.Millisecond)
	assert.Empty(t, m.terminal.input.text)

	advance(fc, m, time.Millisecond)
	assert.Equal(t, "w", m.terminal.input.text)

	advance(fc, m, time.Second)
	assert.True(t, historyContains(m.terminal, prompt+"whoami"))
	assert.True(t, historyContains(m.terminal, "haze (Haze)"))
	assert.Empty(t, m.terminal.input.text)

	advance(fc, m, demoPause)
	typed := m.terminal.input.text
	assert.NotEmpty(t, typed)
	assert.True(t, strings.HasPrefix("cat /etc/passwd | grep hacker", typed), typed)
}

func TestTerminal_UserTakeOverStopsDemo(t *testing.T) {
	fc, m := newTestModel(t, withDemo)
	size(m, 100, 20)
	advance(fc, m, 1100*time.Millisecond)
	require.NotEmpty(t, m.terminal.input.text)

	keys(m, "t")
	assert.Equal(t, paneTerminal, m.focus)
	assert.True(t, m.terminal.takenOver)
	assert.Empty(t, m.terminal.input.text)

	before := len(m.terminal.history)
	advance(fc, m, time.Minute)
	assert.Len(t, m.terminal.history, before)
	assert.Zero(t, fc.PendingCount())

	keys(m, "whoami", "enter")
	assert.True(t, historyContains(m.terminal, m.content.Terminal.Prompt+"whoami"))
	assert.Empty(t, m.terminal.field.Value())
}

func TestTerminal_Builtins(t *testing.T) {
	_, m := newTestModel(t, nil)
	size(m, 100, 20)
	keys(m, "t")

	keys(m, "help", "enter")
	last := m.terminal.history[len(m.terminal.history)-1]
	assert.True(t, strings.HasPrefix(last, m.content.Terminal.Listing))
	assert.Contains(t, last, "whoami")

	keys(m, "rm -rf /", "enter")
	last = m.terminal.history[len(m.terminal.history)-1]
	assert.Contains(t, last, "rm -rf /")
	assert.Contains(t, last, "help")

	keys(m, "clear", "enter")
	assert.Empty(t, m.terminal.history)
}

func TestTerminal_TabCompletion(t *testing.T) {
	_, m := newTestModel(t, nil)
	size(m, 100, 20)
	keys(m, "t", "nm", "tab")
	assert.Equal(t, "nmap -sV --script vuln target.com", m.terminal.field.Value())

	// Ambiguous: "s" extends to the shared prefix "su"; a second tab
	// lists the candidates.
	m.terminal.field.SetValue("")
	keys(m, "s", "tab")
	assert.Equal(t, "su", m.terminal.field.Value())
	keys(m, "tab")
	assert.Equal(t, "su", m.terminal.field.Value())
	assert.True(t, historyContains(m.terminal, "subfinder -d target.com -silent | httpx -silent | nuclei -t cves/ -o results.txt"))
	assert.True(t, historyContains(m.terminal, "sudo python3 -m langchain.agents.offensive_prompt --target webapp"))
}

func TestTerminal_EscLeavesFocus(t *testing.T) {
	_, m := newTestModel(t, nil)
	size(m, 100, 20)
	keys(m, "t", "esc")
	assert.Equal(t, paneNone, m.focus)
	assert.False(t, m.terminal.focused)

	// Global keys work again.
	keys(m, "m")
	assert.True(t, m.menuOpen)
}

func TestTerminal_HistoryIsBounded(t *testing.T) {
	_, m := newTestModel(t, nil)
	for i := 0; i < terminalHistory; i++ {
		m.terminal.exec("whoami")
	}
	assert.Len(t, m.terminal.history, terminalHistory)
}
