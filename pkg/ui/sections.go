package ui

import (
	"strings"

	"github.com/rmax-ai/haze/pkg/lazy"
)

// Section ids, in page order.
const (
	sectionHero         = "hero"
	sectionAbout        = "about"
	sectionSkills       = "skills"
	sectionAttack       = "attack"
	sectionTerminal     = "terminal"
	sectionAchievements = "achievements"
	sectionContact      = "contact"
)

type section struct {
	id    string
	title string
}

var sections = []section{
	{sectionHero, "Home"},
	{sectionAbout, "About"},
	{sectionSkills, "Skills Network"},
	{sectionAttack, "LLM Attack Simulator"},
	{sectionTerminal, "Terminal"},
	{sectionAchievements, "Achievements"},
	{sectionContact, "Contact"},
}

// pageLayout records where each rendered section landed in the page.
// It is rebuilt on every render and resolves lazy regions.
type pageLayout struct {
	regions map[string]lazy.Rect
}

func (l *pageLayout) Region(id string) (lazy.Rect, bool) {
	r, ok := l.regions[id]
	return r, ok
}

// pageBuilder concatenates rendered sections and tracks their extents.
type pageBuilder struct {
	out    strings.Builder
	lines  int
	layout pageLayout
}

func newPageBuilder() *pageBuilder {
	return &pageBuilder{layout: pageLayout{regions: make(map[string]lazy.Rect)}}
}

func (b *pageBuilder) add(id, rendered string) {
	if b.lines > 0 {
		b.out.WriteString("\n\n")
		b.lines++
	}
	height := strings.Count(rendered, "\n") + 1
	b.layout.regions[id] = lazy.Rect{Top: b.lines, Height: height}
	b.out.WriteString(rendered)
	b.lines += height
}

func (b *pageBuilder) String() string {
	return b.out.String()
}
