package ui

import (
	"math/rand"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rmax-ai/haze/pkg/content"
	"github.com/rmax-ai/haze/pkg/playback"
	"github.com/rmax-ai/haze/pkg/rain"
)

// bannerRows is the height of the hero banner the rain falls behind.
const bannerRows = 9

// banner is the hero section: the profile headline over the rain.
type banner struct {
	profile content.Profile
	cfg     rain.Config
	enabled bool
	palette rain.Palette
	anim    *rain.Animation
}

func newBanner(profile content.Profile, cfg rain.Config, enabled bool) *banner {
	return &banner{
		profile: profile,
		cfg:     cfg,
		enabled: enabled,
		palette: rain.NewPalette("#0a0a0a", string(theme.Primary), 8, bannerTitleStyle),
	}
}

// start begins the rain for a terminal of the given width. Narrow
// terminals keep a static banner.
func (b *banner) start(sched playback.Scheduler, rng *rand.Rand, width int) {
	if !b.enabled || b.anim != nil {
		return
	}
	b.anim = rain.Start(b.cfg, sched, rng, width, bannerRows)
}

func (b *banner) resize(width int) {
	if b.anim != nil {
		b.anim.Resize(width, bannerRows)
	}
}

func (b *banner) pause() {
	if b.anim != nil {
		b.anim.Pause()
	}
}

func (b *banner) resume() {
	if b.anim != nil {
		b.anim.Resume()
	}
}

func (b *banner) stop() {
	if b.anim != nil {
		b.anim.Stop()
	}
}

// frames is the rain frame count, zero without rain.
func (b *banner) frames() uint64 {
	if b.anim == nil {
		return 0
	}
	return b.anim.Frames()
}

func (b *banner) headline() []string {
	lines := []string{"", b.profile.Name, b.profile.Title}
	if b.profile.Tagline != "" {
		lines = append(lines, b.profile.Tagline)
	}
	return append(lines, "")
}

func (b *banner) view(width int) string {
	if b.anim != nil {
		return b.palette.Render(b.anim.Field(), b.headline())
	}
	return lipgloss.NewStyle().
		Width(width).
		Height(bannerRows).
		Align(lipgloss.Center, lipgloss.Center).
		Render(bannerTitleStyle.Render(strings.Join(b.headline(), "\n")))
}
