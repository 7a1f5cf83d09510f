package ui

import (
	"math/rand"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rmax-ai/haze/pkg/clock"
	"github.com/rmax-ai/haze/pkg/content"
	"github.com/rmax-ai/haze/pkg/playback"
	"github.com/rmax-ai/haze/pkg/rain"
)

var epoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

type countingPlayer struct{ n int }

func (p *countingPlayer) Activate() { p.n++ }

func newTestModel(t *testing.T, mutate func(*Options)) (*clock.FakeClock, *Model) {
	t.Helper()
	fc := clock.Fake(epoch)
	c := content.MustDefault()
	c.About = "Short bio."
	opts := Options{
		Content:   c,
		Scheduler: playback.NewScheduler(fc, nil),
		Rand:      rand.New(rand.NewSource(1)),
		NoRain:    true,
		NoDemo:    true,
	}
	if mutate != nil {
		mutate(&opts)
	}
	m := New(opts)
	t.Cleanup(m.Close)
	return fc, m
}

func send(m *Model, msg tea.Msg) tea.Cmd {
	_, cmd := m.Update(msg)
	return cmd
}

// advance moves the clock and lets the model re-render, as the event
// loop would after a posted callback.
func advance(fc *clock.FakeClock, m *Model, d time.Duration) {
	fc.Advance(d)
	send(m, runMsg(func() {}))
}

func size(m *Model, width, height int) {
	send(m, tea.WindowSizeMsg{Width: width, Height: height})
}

func keys(m *Model, names ...string) {
	for _, name := range names {
		send(m, keyMsg(name))
	}
}

func keyMsg(name string) tea.KeyMsg {
	switch name {
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(name)}
}

// runCmd executes cmd and any batched commands it expands to.
func runCmd(cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	if batch, ok := cmd().(tea.BatchMsg); ok {
		for _, c := range batch {
			runCmd(c)
		}
	}
}

func plainView(m *Model) string {
	return ansi.Strip(m.View())
}

func TestModel_InitializingUntilSized(t *testing.T) {
	_, m := newTestModel(t, nil)
	assert.Contains(t, m.View(), "Initializing")

	size(m, 100, 30)
	view := plainView(m)
	assert.Contains(t, view, "Haze")
	assert.Contains(t, view, "Red Team Engineer")
	assert.Contains(t, view, "About")
}

func TestModel_RainSkippedWhenNarrow(t *testing.T) {
	_, m := newTestModel(t, func(o *Options) { o.NoRain = false })
	size(m, 60, 30)
	assert.Nil(t, m.banner.anim)

	// Widening later does not start it.
	size(m, 120, 30)
	assert.Nil(t, m.banner.anim)
}

func TestModel_FocusPausesRain(t *testing.T) {
	fc, m := newTestModel(t, func(o *Options) { o.NoRain = false })
	size(m, 100, 30)
	require.NotNil(t, m.banner.anim)
	assert.Equal(t, rain.Running, m.banner.anim.State())

	send(m, tea.BlurMsg{})
	assert.True(t, m.Hidden())
	assert.Equal(t, rain.Paused, m.banner.anim.State())
	assert.Zero(t, fc.PendingCount())

	send(m, tea.FocusMsg{})
	assert.False(t, m.Hidden())
	assert.Equal(t, rain.Running, m.banner.anim.State())
}

func TestModel_NoRainKeepsStaticBanner(t *testing.T) {
	_, m := newTestModel(t, nil)
	size(m, 100, 30)
	assert.Nil(t, m.banner.anim)
	assert.Len(t, strings.Split(ansi.Strip(m.banner.view(100)), "\n"), bannerRows)
}

func TestModel_MenuJumpGlitchesHeading(t *testing.T) {
	fc, m := newTestModel(t, nil)
	size(m, 100, 20)

	keys(m, "m")
	assert.True(t, m.menuOpen)
	assert.Contains(t, plainView(m), "MENU")

	keys(m, "5")
	assert.False(t, m.menuOpen)
	r, ok := m.layout.Region(sectionTerminal)
	require.True(t, ok)
	assert.Equal(t, r.Top, m.viewport.YOffset)
	assert.True(t, m.glitches.on(sectionTerminal))

	advance(fc, m, jumpGlitch)
	assert.False(t, m.glitches.on(sectionTerminal))
}

func TestModel_MenuCursorJumps(t *testing.T) {
	_, m := newTestModel(t, nil)
	size(m, 100, 20)

	keys(m, "m", "up", "down", "down")
	assert.Equal(t, 2, m.menuCursor)
	assert.Contains(t, plainView(m), "> "+sections[2].title)

	keys(m, "enter")
	assert.False(t, m.menuOpen)
	r, ok := m.layout.Region(sectionSkills)
	require.True(t, ok)
	assert.Equal(t, r.Top, m.viewport.YOffset)
}

func TestModel_MenuEscCloses(t *testing.T) {
	_, m := newTestModel(t, nil)
	size(m, 100, 20)
	keys(m, "m", "esc")
	assert.False(t, m.menuOpen)
	assert.Zero(t, m.viewport.YOffset)
}

func TestModel_BackToTop(t *testing.T) {
	_, m := newTestModel(t, nil)
	size(m, 100, 20)
	assert.NotContains(t, plainView(m), "g top")

	m.viewport.SetYOffset(backToTopOffset + 1)
	send(m, runMsg(func() {}))
	require.Greater(t, m.viewport.YOffset, backToTopOffset)
	assert.Contains(t, plainView(m), "g top")

	keys(m, "g")
	assert.Zero(t, m.viewport.YOffset)
}

func TestModel_LazyWidgetsActivateWhenVisible(t *testing.T) {
	_, m := newTestModel(t, nil)
	size(m, 100, 20)

	assert.True(t, m.activator.Loaded(sectionSkills))
	assert.False(t, m.activator.Loaded(sectionAchievements))
	assert.True(t, m.activator.Observing(sectionAchievements))

	r, ok := m.layout.Region(sectionAchievements)
	require.True(t, ok)
	m.viewport.SetYOffset(r.Top)
	send(m, runMsg(func() {}))
	assert.True(t, m.activator.Loaded(sectionAchievements))
	assert.False(t, m.activator.Observing(sectionAchievements))
	assert.Contains(t, plainView(m), "loading data")

	ds := m.content.Datasets
	send(m, datasetsMsg{datasets: &ds})
	assert.Contains(t, plainView(m), ds.Achievements.Label)
}

func TestModel_RainFrameSkipsPageRender(t *testing.T) {
	fc, m := newTestModel(t, func(o *Options) { o.NoRain = false })
	size(m, 100, 30)
	require.NotNil(t, m.banner.anim)

	renders := m.renders
	send(m, runMsg(func() { fc.Advance(rain.DefaultConfig().FrameInterval) }))
	assert.Equal(t, uint64(1), m.banner.anim.Frames())
	assert.Equal(t, renders, m.renders)

	send(m, runMsg(func() {}))
	assert.Equal(t, renders+1, m.renders)
}

func TestModel_WidgetBodiesAreCached(t *testing.T) {
	_, m := newTestModel(t, nil)
	size(m, 100, 20)
	ds := m.content.Datasets
	send(m, datasetsMsg{datasets: &ds})
	require.Contains(t, m.widgetCache, sectionSkills)

	m.widgetCache[sectionSkills] = "cached skills body"
	send(m, runMsg(func() {}))
	assert.Contains(t, plainView(m), "cached skills body")

	size(m, 90, 20)
	assert.NotContains(t, plainView(m), "cached skills body")
	assert.Equal(t, 90, m.widgetWidth)

	m.widgetCache[sectionSkills] = "cached skills body"
	send(m, datasetsMsg{datasets: &ds})
	assert.NotContains(t, plainView(m), "cached skills body")
}

func TestModel_DatasetFailureIsShown(t *testing.T) {
	_, m := newTestModel(t, nil)
	size(m, 100, 20)
	send(m, datasetsMsg{err: assert.AnError})
	assert.Contains(t, plainView(m), "failed to load data")
}

func TestModel_InitWaitsForDatasets(t *testing.T) {
	f := playback.NewFuture[*content.Datasets]()
	_, m := newTestModel(t, func(o *Options) { o.Datasets = f })

	ds := &content.Datasets{Achievements: content.Radar{Label: "late"}}
	go f.Resolve(ds, nil)

	msg := waitForDatasets(f)()
	got, ok := msg.(datasetsMsg)
	require.True(t, ok)
	assert.Same(t, ds, got.datasets)
	assert.NotNil(t, m.Init())
}

func TestModel_CtrlCQuits(t *testing.T) {
	_, m := newTestModel(t, nil)
	size(m, 100, 20)
	cmd := send(m, tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
}
