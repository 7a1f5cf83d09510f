// Package keyseq matches a live stream of key presses against a fixed
// sequence.
package keyseq

import "github.com/rmax-ai/haze/pkg/metrics"

// Konami is the classic code in bubbletea key names.
var Konami = []string{"up", "up", "down", "down", "left", "right", "left", "right", "b", "a"}

// Matcher tracks how much of its target has been typed so far. A
// mismatching symbol resets progress to zero; it is not re-examined as
// the start of a new attempt.
type Matcher struct {
	target  []string
	matched int
	onMatch func()
}

// New returns a Matcher for target that calls onMatch each time the full
// sequence is entered.
func New(target []string, onMatch func()) *Matcher {
	t := make([]string, len(target))
	copy(t, target)
	return &Matcher{target: t, onMatch: onMatch}
}

// Feed consumes one symbol and reports whether it completed the
// sequence.
func (m *Matcher) Feed(symbol string) bool {
	if len(m.target) == 0 {
		return false
	}
	if symbol != m.target[m.matched] {
		m.matched = 0
		return false
	}

	m.matched++
	if m.matched < len(m.target) {
		return false
	}

	m.matched = 0
	metrics.SequenceMatches.Inc()
	if m.onMatch != nil {
		m.onMatch()
	}
	return true
}

// Progress returns the matched prefix length.
func (m *Matcher) Progress() int {
	return m.matched
}

// Reset forgets any partial match.
func (m *Matcher) Reset() {
	m.matched = 0
}
