package ui

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func transcriptTexts(tr *transcript) []string {
	var out []string
	for _, l := range tr.Lines() {
		out = append(out, l.text)
	}
	return out
}

func TestAttack_KeyPlaysScenario(t *testing.T) {
	fc, m := newTestModel(t, nil)
	size(m, 100, 20)

	keys(m, "1")
	assert.Equal(t, "injection", m.attack.active)
	assert.True(t, m.attack.playing())

	scenario, ok := m.content.Scenario("injection")
	require.True(t, ok)
	first := []rune(scenario.Messages[0].Text)
	assert.Equal(t, []string{string(first[:1])}, transcriptTexts(m.attack.target))

	advance(fc, m, 5*time.Minute)
	var want []string
	for _, msg := range scenario.Messages {
		want = append(want, msg.Text)
	}
	assert.Equal(t, want, transcriptTexts(m.attack.target))
	assert.False(t, m.attack.playing())
	assert.Contains(t, plainView(m), "hacker> ")
}

func TestAttack_SecondKeyRestarts(t *testing.T) {
	fc, m := newTestModel(t, nil)
	size(m, 100, 20)

	keys(m, "1")
	advance(fc, m, 3*time.Second)
	old := m.attack.target.Lines()[0]

	keys(m, "2")
	assert.Equal(t, "jailbreak", m.attack.active)
	require.Len(t, m.attack.target.Lines(), 1)
	assert.Equal(t, "user", m.attack.target.Lines()[0].role)
	assert.True(t, old.detached)

	frozen := old.text
	advance(fc, m, time.Second)
	assert.Equal(t, frozen, old.text)
}

func TestAttack_UnboundKeyIgnored(t *testing.T) {
	_, m := newTestModel(t, nil)
	size(m, 100, 20)
	keys(m, "9")
	assert.Empty(t, m.attack.active)
	assert.Empty(t, m.attack.target.Lines())
}
