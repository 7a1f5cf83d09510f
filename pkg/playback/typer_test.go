package playback

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTyper_WritesPrefixesInOrder(t *testing.T) {
	c, sched := newTestScheduler()
	typer := NewTyper(sched, nil)
	target := &recordingSurface{}

	done := typer.Type("ABC", target, Fixed(10*time.Millisecond))

	assert.Equal(t, []string{"", "A"}, target.writes)
	assert.False(t, done.IsResolved())

	c.Advance(10 * time.Millisecond)
	assert.Equal(t, []string{"", "A", "AB"}, target.writes)
	assert.False(t, done.IsResolved())

	c.Advance(10 * time.Millisecond)
	assert.Equal(t, []string{"", "A", "AB", "ABC"}, target.writes)
	require.True(t, done.IsResolved())
	assert.NoError(t, done.Err())
	assert.False(t, typer.Active(target))
}

func TestTyper_MultiByteRunes(t *testing.T) {
	c, sched := newTestScheduler()
	typer := NewTyper(sched, nil)
	target := &recordingSurface{}

	typer.Type("ア→b", target, Fixed(time.Millisecond))
	c.Advance(time.Second)

	assert.Equal(t, []string{"", "ア", "ア→", "ア→b"}, target.writes)
}

func TestTyper_EmptyTextResolvesImmediately(t *testing.T) {
	_, sched := newTestScheduler()
	typer := NewTyper(sched, nil)
	target := &recordingSurface{}

	done := typer.Type("", target, Fixed(time.Second))

	require.True(t, done.IsResolved())
	assert.NoError(t, done.Err())
	assert.Equal(t, []string{""}, target.writes)
}

func TestTyper_SupersedeOnSameSurface(t *testing.T) {
	c, sched := newTestScheduler()
	typer := NewTyper(sched, nil)
	target := &recordingSurface{}

	first := typer.Type("first run", target, Fixed(10*time.Millisecond))
	c.Advance(20 * time.Millisecond)
	assert.Equal(t, "fir", target.text())

	second := typer.Type("xy", target, Fixed(10*time.Millisecond))
	require.True(t, first.IsResolved())
	assert.ErrorIs(t, first.Err(), ErrSuperseded)

	startOfSecond := len(target.writes) - 2 // "" and "x"
	c.Advance(time.Second)

	assert.Equal(t, []string{"", "x", "xy"}, target.writes[startOfSecond:])
	for _, w := range target.writes[startOfSecond:] {
		assert.NotContains(t, w, "fir", "superseded run wrote after the new run started")
	}
	assert.NoError(t, second.Err())
}

func TestTyper_DetachedSurfaceStopsQuietly(t *testing.T) {
	c, sched := newTestScheduler()
	typer := NewTyper(sched, nil)
	target := &recordingSurface{}

	done := typer.Type("hello", target, Fixed(10*time.Millisecond))
	c.Advance(10 * time.Millisecond)
	target.detached = true

	assert.NotPanics(t, func() { c.Advance(time.Second) })
	require.True(t, done.IsResolved())
	assert.ErrorIs(t, done.Err(), ErrDetached)
	assert.Equal(t, []string{"", "h", "he"}, target.writes)
	assert.Equal(t, 0, c.PendingCount())
}

func TestTyper_Cancel(t *testing.T) {
	c, sched := newTestScheduler()
	typer := NewTyper(sched, nil)
	target := &recordingSurface{}

	done := typer.Type("hello", target, Fixed(10*time.Millisecond))
	typer.Cancel(target)
	c.Advance(time.Second)

	assert.ErrorIs(t, done.Err(), ErrCancelled)
	assert.Equal(t, []string{"", "h"}, target.writes)
}

func TestTyper_RandomCadenceStaysInRange(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	cadence := Between(50*time.Millisecond, 80*time.Millisecond)
	for i := 0; i < 500; i++ {
		d := cadence.Next(rng)
		assert.GreaterOrEqual(t, d, 50*time.Millisecond)
		assert.LessOrEqual(t, d, 80*time.Millisecond)
	}

	c, sched := newTestScheduler()
	typer := NewTyper(sched, rng)
	target := &recordingSurface{}
	done := typer.Type("abcdef", target, cadence)

	c.Advance(5 * 49 * time.Millisecond)
	assert.False(t, done.IsResolved(), "six runes cannot finish before five minimum delays")
	c.Advance(5 * 31 * time.Millisecond)
	assert.True(t, done.IsResolved())
	assert.Equal(t, "abcdef", target.text())
}

func TestCadence_FixedAndSwapped(t *testing.T) {
	assert.Equal(t, 30*time.Millisecond, Fixed(30*time.Millisecond).Next(nil))
	c := Between(80*time.Millisecond, 50*time.Millisecond)
	assert.Equal(t, 50*time.Millisecond, c.Min)
	assert.Equal(t, 80*time.Millisecond, c.Max)
}
