package menu

import (
	"errors"
	"fmt"
	"math"
)

// Scale bounds for typography slots.
const (
	MinScale  = 0.5
	MaxScale  = 3.0
	ScaleStep = 0.1
)

// DefaultOverlayOpacity is used when a stored opacity is not a number.
const DefaultOverlayOpacity = 0.6

// ClampOpacity keeps an overlay opacity inside [0,1].
func ClampOpacity(v float64) float64 {
	if math.IsNaN(v) {
		return DefaultOverlayOpacity
	}
	return math.Max(0, math.Min(1, v))
}

// ClampScale keeps a slot scale inside [MinScale, MaxScale]. Finer values
// such as a preset's 0.85 are kept.
func ClampScale(v float64) float64 {
	if math.IsNaN(v) || v <= 0 {
		return 1
	}
	return math.Max(MinScale, math.Min(MaxScale, v))
}

// SnapScale clamps v and rounds it to the editor step.
func SnapScale(v float64) float64 {
	if math.IsNaN(v) || v <= 0 {
		return 1
	}
	return ClampScale(math.Round(v/ScaleStep) / (1 / ScaleStep))
}

// Normalize repairs a document that came from outside the mutator
// (persisted blobs, imports, agent input): it fills missing ids, replaces
// duplicates, turns nil lists into empty ones and clamps numeric fields.
// Order is never changed.
func Normalize(st AppState, ids IDGenerator) AppState {
	st.Menu = NormalizeMenu(st.Menu, ids)
	st.Brand = NormalizeBrand(st.Brand)
	return st
}

// NormalizeMenu applies the id and list repairs of Normalize to a menu.
func NormalizeMenu(m FullMenu, ids IDGenerator) FullMenu {
	if ids == nil {
		ids = UUIDGenerator{}
	}
	sections := make([]MenuSection, len(m.Sections))
	seen := make(map[string]bool, len(m.Sections))
	for i, sec := range m.Sections {
		if sec.ID == "" || seen[sec.ID] {
			sec.ID = ids.NewID()
		}
		seen[sec.ID] = true

		items := make([]MenuItem, len(sec.Items))
		seenItems := make(map[string]bool, len(sec.Items))
		for j, it := range sec.Items {
			if it.ID == "" || seenItems[it.ID] {
				it.ID = ids.NewID()
			}
			seenItems[it.ID] = true
			items[j] = it
		}
		sec.Items = items
		sections[i] = sec
	}
	m.Sections = sections
	if m.Socials != nil {
		s := *m.Socials
		m.Socials = &s
	}
	return m
}

// NormalizeBrand completes missing style slots and clamps numeric fields.
func NormalizeBrand(b BrandProfile) BrandProfile {
	defaults := DefaultStyles()
	for _, slot := range Slots {
		ts := b.Styles.Get(slot)
		if ts == (TypographyStyle{}) {
			ts = defaults.Get(slot)
		}
		if !ts.Align.Valid() {
			ts.Align = AlignLeft
		}
		ts.Scale = ClampScale(ts.Scale)
		b.Styles = b.Styles.With(slot, ts)
	}
	b.OverlayOpacity = ClampOpacity(b.OverlayOpacity)
	if !b.LogoStyle.Valid() {
		b.LogoStyle = LogoCircle
	}
	if !b.OverlayMode.Valid() {
		b.OverlayMode = OverlaySolid
	}
	if _, ok := FontByID(b.FontTitle); !ok {
		b.FontTitle = DefaultBrand().FontTitle
	}
	if _, ok := FontByID(b.FontBody); !ok {
		b.FontBody = DefaultBrand().FontBody
	}
	return b
}

// Check reports every invariant violation in st.
func Check(st AppState) error {
	var errs []error
	seen := make(map[string]bool)
	for i, sec := range st.Menu.Sections {
		if seen[sec.ID] {
			errs = append(errs, fmt.Errorf("section %d: duplicate id %q", i, sec.ID))
		}
		seen[sec.ID] = true
		if sec.Items == nil {
			errs = append(errs, fmt.Errorf("section %d: nil item list", i))
		}
		items := make(map[string]bool)
		for j, it := range sec.Items {
			if items[it.ID] {
				errs = append(errs, fmt.Errorf("section %d item %d: duplicate id %q", i, j, it.ID))
			}
			items[it.ID] = true
		}
	}
	for _, slot := range Slots {
		ts := st.Brand.Styles.Get(slot)
		if ts.Scale < MinScale || ts.Scale > MaxScale {
			errs = append(errs, fmt.Errorf("style %s: scale %v out of range", slot, ts.Scale))
		}
		if !ts.Align.Valid() {
			errs = append(errs, fmt.Errorf("style %s: invalid align %q", slot, ts.Align))
		}
	}
	if o := st.Brand.OverlayOpacity; o < 0 || o > 1 || math.IsNaN(o) {
		errs = append(errs, fmt.Errorf("overlay opacity %v out of range", o))
	}
	return errors.Join(errs...)
}

// Clone returns a deep copy of st that shares no slices or pointers.
func (st AppState) Clone() AppState {
	st.Menu = st.Menu.Clone()
	return st
}

// Clone returns a deep copy of m.
func (m FullMenu) Clone() FullMenu {
	secs := make([]MenuSection, len(m.Sections))
	for i, s := range m.Sections {
		s.Items = append([]MenuItem{}, s.Items...)
		secs[i] = s
	}
	m.Sections = secs
	if m.Socials != nil {
		s := *m.Socials
		m.Socials = &s
	}
	return m
}

// ItemCount returns the number of items across all sections.
func (m FullMenu) ItemCount() int {
	n := 0
	for _, s := range m.Sections {
		n += len(s.Items)
	}
	return n
}
