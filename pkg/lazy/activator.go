// Package lazy defers heavy widget initialization until the widget's
// region scrolls into view.
package lazy

import (
	"log/slog"
	"sort"
)

// DefaultThreshold is the visible fraction that counts as intersecting.
const DefaultThreshold = 0.1

// Rect is a region's vertical extent in page lines.
type Rect struct {
	Top    int
	Height int
}

// Viewport is the visible window in page lines.
type Viewport struct {
	Top    int
	Height int
}

// Entry is one intersection notification for a region.
type Entry struct {
	ID             string
	IsIntersecting bool
	Ratio          float64
}

// Layout resolves region ids to their current extent.
type Layout interface {
	Region(id string) (Rect, bool)
}

type registration struct {
	init       func()
	seen       bool
	wasVisible bool
}

// Activator runs each registered init function at most once, on the
// first intersecting notification for its region, then stops observing
// the region.
type Activator struct {
	layout    Layout
	threshold float64
	observed  map[string]*registration
	loaded    map[string]bool
}

// NewActivator returns an Activator resolving regions through layout.
// A non-positive threshold means any overlap counts.
func NewActivator(layout Layout, threshold float64) *Activator {
	return &Activator{
		layout:    layout,
		threshold: threshold,
		observed:  make(map[string]*registration),
		loaded:    make(map[string]bool),
	}
}

// Register observes region id. It returns false, and does nothing, when
// the layout has no such region or the region was already loaded.
func (a *Activator) Register(id string, init func()) bool {
	if _, ok := a.layout.Region(id); !ok {
		slog.Debug("lazy region missing", "region", id)
		return false
	}
	if a.loaded[id] {
		return false
	}
	a.observed[id] = &registration{init: init}
	return true
}

// Handle processes one notification. Only the first intersecting entry
// for an observed region has an effect.
func (a *Activator) Handle(entry Entry) {
	if !entry.IsIntersecting || a.loaded[entry.ID] {
		return
	}
	reg, ok := a.observed[entry.ID]
	if !ok {
		return
	}
	a.loaded[entry.ID] = true
	delete(a.observed, entry.ID)
	slog.Debug("lazy region activated", "region", entry.ID, "ratio", entry.Ratio)
	reg.init()
}

// Observe computes notifications for every observed region against vp
// and handles them. Like a browser IntersectionObserver it reports each
// region once when observation starts and again whenever the region
// crosses the threshold.
func (a *Activator) Observe(vp Viewport) {
	for _, entry := range a.Entries(vp) {
		a.Handle(entry)
	}
}

// Entries computes the pending notifications without handling them.
func (a *Activator) Entries(vp Viewport) []Entry {
	ids := make([]string, 0, len(a.observed))
	for id := range a.observed {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var entries []Entry
	for _, id := range ids {
		reg := a.observed[id]
		rect, ok := a.layout.Region(id)
		if !ok {
			continue
		}
		ratio := IntersectionRatio(rect, vp)
		visible := ratio > 0 && ratio >= a.threshold
		if reg.seen && visible == reg.wasVisible {
			continue
		}
		reg.seen = true
		reg.wasVisible = visible
		entries = append(entries, Entry{ID: id, IsIntersecting: visible, Ratio: ratio})
	}
	return entries
}

// Loaded reports whether id's init function has run.
func (a *Activator) Loaded(id string) bool {
	return a.loaded[id]
}

// Observing reports whether id is still waiting for activation.
func (a *Activator) Observing(id string) bool {
	_, ok := a.observed[id]
	return ok
}

// IntersectionRatio is the fraction of rect inside vp.
func IntersectionRatio(rect Rect, vp Viewport) float64 {
	if rect.Height <= 0 || vp.Height <= 0 {
		return 0
	}
	top := max(rect.Top, vp.Top)
	bottom := min(rect.Top+rect.Height, vp.Top+vp.Height)
	if bottom <= top {
		return 0
	}
	return float64(bottom-top) / float64(rect.Height)
}
