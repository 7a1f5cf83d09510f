// Package ui is the interactive portfolio page: a bubbletea model that
// wires the rain banner, the scripted playbacks, the lazy widgets and
// the easter egg together.
//
// Every timer the page uses is scheduled through a playback.Scheduler
// whose callbacks arrive on the event loop as messages, so the model is
// only ever touched from one goroutine.
package ui

import (
	"math/rand"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rmax-ai/haze/pkg/audio"
	"github.com/rmax-ai/haze/pkg/content"
	"github.com/rmax-ai/haze/pkg/keyseq"
	"github.com/rmax-ai/haze/pkg/lazy"
	"github.com/rmax-ai/haze/pkg/metrics"
	"github.com/rmax-ai/haze/pkg/playback"
	"github.com/rmax-ai/haze/pkg/rain"
	"github.com/rmax-ai/haze/pkg/widget"
)

// backToTopOffset is the scroll offset past which the back-to-top hint
// shows.
const backToTopOffset = 12

// Options configures the page.
type Options struct {
	Content *content.Content
	// Datasets resolves with the visualization data. Nil uses the
	// embedded datasets.
	Datasets  *playback.Future[*content.Datasets]
	Scheduler playback.Scheduler
	Rand      *rand.Rand
	Rain      rain.Config
	NoRain    bool
	NoDemo    bool
	Sound     audio.Player
}

type datasetsMsg struct {
	datasets *content.Datasets
	err      error
}

type pane int

const (
	paneNone pane = iota
	paneTerminal
	paneContact
)

// Model is the page.
type Model struct {
	content *content.Content
	sched   playback.Scheduler
	rng     *rand.Rand
	sound   audio.Player
	noDemo  bool

	width, height int
	ready         bool
	hidden        bool

	banner   *banner
	viewport viewport.Model
	layout   *pageLayout

	about      string
	aboutWidth int

	// widgetCache holds rendered widget bodies for widgetWidth; it is
	// dropped when the width or the datasets change.
	widgetCache map[string]string
	widgetWidth int

	page    string
	renders int

	attack   *attackSim
	terminal *terminalPane
	contact  *contactForm
	overlay  *hackerOverlay
	glitches *glitches
	matcher  *keyseq.Matcher

	activator      *lazy.Activator
	datasetsFuture *playback.Future[*content.Datasets]
	datasets       *content.Datasets
	datasetsErr    error
	loading        spinner.Model

	focus      pane
	menuOpen   bool
	menuCursor int

	// pending collects commands queued by callbacks that run inside
	// Update; they are returned with the Update's own commands.
	pending []tea.Cmd
}

// New builds the page. Nothing is scheduled until the first window size
// arrives.
func New(opts Options) *Model {
	if opts.Content == nil {
		opts.Content = content.MustDefault()
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if opts.Sound == nil {
		opts.Sound = audio.Silent{}
	}
	if opts.Datasets == nil {
		ds := opts.Content.Datasets
		opts.Datasets = playback.Resolved(&ds, nil)
	}
	if opts.Rain.FrameInterval <= 0 {
		opts.Rain = rain.DefaultConfig()
	}

	typer := playback.NewTyper(opts.Scheduler, opts.Rand)
	m := &Model{
		content:        opts.Content,
		sched:          opts.Scheduler,
		rng:            opts.Rand,
		sound:          opts.Sound,
		noDemo:         opts.NoDemo,
		banner:         newBanner(opts.Content.Profile, opts.Rain, !opts.NoRain),
		layout:         &pageLayout{regions: map[string]lazy.Rect{}},
		attack:         newAttackSim(opts.Content.Scenarios, opts.Scheduler, typer),
		terminal:       newTerminalPane(opts.Content.Terminal, opts.Scheduler, typer),
		contact:        newContactForm(opts.Content.Contact, opts.Scheduler),
		overlay:        newHackerOverlay(opts.Content.HackerMode, opts.Scheduler, typer),
		glitches:       newGlitches(opts.Scheduler),
		datasetsFuture: opts.Datasets,
		widgetCache:    map[string]string{},
		loading:        spinner.New(spinner.WithSpinner(spinner.MiniDot), spinner.WithStyle(primaryStyle)),
	}
	m.activator = lazy.NewActivator(m.layout, lazy.DefaultThreshold)
	m.matcher = keyseq.New(keyseq.Konami, m.activateHackerMode)
	return m
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		tea.SetWindowTitle(m.content.Profile.Name+" | "+m.content.Profile.Title),
		waitForDatasets(m.datasetsFuture),
	)
}

func waitForDatasets(f *playback.Future[*content.Datasets]) tea.Cmd {
	return func() tea.Msg {
		<-f.Done()
		ds, err := f.Result()
		return datasetsMsg{datasets: ds, err: err}
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	bannerOnly := false

	switch msg := msg.(type) {
	case runMsg:
		frames := m.banner.frames()
		msg()
		// A rain frame only changes the banner, which View draws directly.
		bannerOnly = m.banner.frames() != frames

	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)

	case tea.BlurMsg:
		m.hidden = true
		m.banner.pause()

	case tea.FocusMsg:
		m.hidden = false
		m.banner.resume()

	case datasetsMsg:
		m.datasets, m.datasetsErr = msg.datasets, msg.err
		clear(m.widgetCache)

	case spinner.TickMsg:
		if m.datasets == nil && m.datasetsErr == nil {
			var cmd tea.Cmd
			m.loading, cmd = m.loading.Update(msg)
			cmds = append(cmds, cmd)
		}
		cmds = append(cmds, m.contact.updateSpinner(msg))

	case tea.KeyMsg:
		cmds = append(cmds, m.handleKey(msg))

	case tea.MouseMsg:
		if m.ready && !m.overlay.open {
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	if !bannerOnly {
		m.refresh()
	}
	cmds = append(cmds, m.pending...)
	m.pending = nil
	return m, tea.Batch(cmds...)
}

func (m *Model) resize(width, height int) {
	m.width, m.height = width, height
	vpHeight := max(3, height-bannerRows-1)

	if m.ready {
		m.viewport.Width = width
		m.viewport.Height = vpHeight
		m.banner.resize(width)
		return
	}

	m.viewport = viewport.New(width, vpHeight)
	m.ready = true
	m.banner.start(m.sched, m.rng, width)
	m.refresh()
	m.registerWidgets()
	if !m.noDemo {
		m.terminal.startDemo()
	}
}

// registerWidgets defers the two data views until they scroll into view.
func (m *Model) registerWidgets() {
	for _, id := range []string{sectionSkills, sectionAchievements} {
		id := id
		m.activator.Register(id, func() {
			metrics.WidgetActivations.WithLabelValues(id).Inc()
			if m.datasets == nil && m.datasetsErr == nil {
				m.pending = append(m.pending, m.loading.Tick)
			}
		})
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	key := msg.String()
	if key == "ctrl+c" {
		return tea.Quit
	}

	m.matcher.Feed(key)
	if m.overlay.open {
		if msg.Type == tea.KeyEsc {
			m.overlay.close()
		}
		return nil
	}

	switch m.focus {
	case paneTerminal:
		_, cmd := m.terminal.handleKey(msg)
		if !m.terminal.focused {
			m.focus = paneNone
		}
		return cmd
	case paneContact:
		cmd := m.contact.handleKey(msg)
		if !m.contact.focused {
			m.focus = paneNone
		}
		return cmd
	}

	if m.menuOpen {
		m.handleMenuKey(key)
		return nil
	}

	switch key {
	case "q":
		return tea.Quit
	case "m":
		m.menuOpen = true
		m.menuCursor = 0
		return nil
	case "g", "home":
		m.viewport.GotoTop()
		return nil
	case "t":
		m.jumpTo(sectionTerminal)
		m.focus = paneTerminal
		return m.terminal.focus()
	case "c":
		m.jumpTo(sectionContact)
		m.focus = paneContact
		return m.contact.focus()
	}

	if s, ok := m.attack.scenarioForKey(key); ok {
		m.attack.start(s)
		return nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return cmd
}

func (m *Model) handleMenuKey(key string) {
	switch key {
	case "esc", "m", "q":
		m.menuOpen = false
		return
	case "up", "k":
		if m.menuCursor > 0 {
			m.menuCursor--
		}
		return
	case "down", "j":
		if m.menuCursor < len(sections)-1 {
			m.menuCursor++
		}
		return
	case "enter":
		m.menuOpen = false
		m.jumpTo(sections[m.menuCursor].id)
		return
	}
	if len(key) == 1 && key[0] >= '1' && int(key[0]-'1') < len(sections) {
		m.menuOpen = false
		m.jumpTo(sections[key[0]-'1'].id)
	}
}

// jumpTo scrolls section id to the top of the viewport and glitches its
// heading.
func (m *Model) jumpTo(id string) {
	if id == sectionHero {
		m.viewport.GotoTop()
		return
	}
	if r, ok := m.layout.Region(id); ok {
		m.viewport.SetYOffset(r.Top)
		m.glitches.trigger(id, jumpGlitch)
	}
}

// activateHackerMode is the easter egg.
func (m *Model) activateHackerMode() {
	m.overlay.activate()
	ids := make([]string, 0, len(sections))
	for _, s := range sections[1:] {
		ids = append(ids, s.id)
	}
	m.glitches.scatter(m.rng, ids, hackerGlitch)

	sound := m.sound
	m.pending = append(m.pending, func() tea.Msg {
		sound.Activate()
		return nil
	})
}

// Close stops every timer the page owns.
func (m *Model) Close() {
	m.banner.stop()
	m.attack.stop()
	m.terminal.demo.Cancel()
	m.overlay.close()
	m.contact.stopTimer()
}

// refresh re-renders the scrollable page, updates the layout and lets
// the lazy widgets see the new viewport. A widget that activates gets
// rendered in the same pass.
func (m *Model) refresh() {
	if !m.ready {
		return
	}
	m.render()
	if m.observe() {
		m.render()
	}
}

func (m *Model) render() {
	width := max(20, m.width)
	b := newPageBuilder()
	for _, s := range sections[1:] {
		b.add(s.id, m.heading(s)+"\n"+m.sectionBody(s.id, width))
	}
	m.layout.regions = b.layout.regions
	m.renders++
	if page := b.String(); page != m.page {
		m.page = page
		m.viewport.SetContent(page)
	}
}

// observe feeds the current viewport to the activator and reports
// whether any region activated.
func (m *Model) observe() bool {
	activated := false
	for _, entry := range m.activator.Entries(lazy.Viewport{Top: m.viewport.YOffset, Height: m.viewport.Height}) {
		if entry.IsIntersecting && !m.activator.Loaded(entry.ID) {
			activated = true
		}
		m.activator.Handle(entry)
	}
	return activated
}

func (m *Model) heading(s section) string {
	title := s.title
	style := headingStyle
	if m.glitches.on(s.id) {
		title = glitchText(m.rng, title)
		style = glitchStyle
	}
	return style.Render(title)
}

func (m *Model) sectionBody(id string, width int) string {
	switch id {
	case sectionAbout:
		if m.aboutWidth != width {
			m.about = widget.Markdown(m.content.About, theme, width-2)
			m.aboutWidth = width
		}
		return m.about
	case sectionSkills:
		return m.widgetView(id, width, func(ds *content.Datasets) string {
			return widget.SkillsGraph(ds.Skills, theme, width-2)
		})
	case sectionAttack:
		return m.attack.view(width)
	case sectionTerminal:
		return m.terminal.view(width)
	case sectionAchievements:
		return m.widgetView(id, width, func(ds *content.Datasets) string {
			return widget.Radar(ds.Achievements, theme, width-2)
		})
	case sectionContact:
		return m.contact.view(width)
	}
	return ""
}

func (m *Model) widgetView(id string, width int, render func(*content.Datasets) string) string {
	switch {
	case !m.activator.Loaded(id):
		return subtleStyle.Render("scroll here to load")
	case m.datasetsErr != nil:
		return errorStyle.Render("failed to load data: " + m.datasetsErr.Error())
	case m.datasets == nil:
		return m.loading.View() + subtleStyle.Render(" loading data...")
	}
	if width != m.widgetWidth {
		clear(m.widgetCache)
		m.widgetWidth = width
	}
	out, ok := m.widgetCache[id]
	if !ok {
		out = render(m.datasets)
		m.widgetCache[id] = out
	}
	return out
}

func (m *Model) View() string {
	if !m.ready {
		return "\n  Initializing..."
	}
	if m.overlay.open {
		return m.overlay.view(m.width, m.height)
	}

	body := m.viewport.View()
	if m.menuOpen {
		body = lipgloss.Place(m.width, m.viewport.Height, lipgloss.Center, lipgloss.Center, m.menuView())
	}
	return lipgloss.JoinVertical(lipgloss.Left, m.banner.view(m.width), body, m.footerView())
}

func (m *Model) menuView() string {
	rows := []string{primaryStyle.Bold(true).Render("MENU"), ""}
	for i, s := range sections {
		title := textStyle.Render(s.title)
		if i == m.menuCursor {
			title = primaryStyle.Bold(true).Render("> " + s.title)
		}
		rows = append(rows, subtleStyle.Render(string(rune('1'+i))+"  ")+title)
	}
	rows = append(rows, "", subtleStyle.Render("↑/↓ enter • esc to close"))
	return menuStyle.Render(strings.Join(rows, "\n"))
}

func (m *Model) footerView() string {
	var help string
	switch m.focus {
	case paneTerminal:
		help = "enter run • tab complete • esc leave terminal"
	case paneContact:
		help = "tab next field • enter send • esc leave form"
	default:
		help = "m menu • 1-3 attacks • t terminal • c contact • q quit"
	}
	if m.viewport.YOffset > backToTopOffset {
		help = primaryStyle.Render("↑ g top") + footerStyle.Render(" • "+help)
	} else {
		help = footerStyle.Render(help)
	}
	return lipgloss.NewStyle().MaxWidth(m.width).Render(help)
}

// Hidden reports whether the terminal lost focus.
func (m *Model) Hidden() bool { return m.hidden }
