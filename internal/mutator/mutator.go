// Package mutator holds the named edits a document goes through. Every
// operation takes a snapshot and returns a new one, copying the path from
// the root to the edited node and sharing the rest.
//
// Out-of-range indices and unknown enum values are programming errors and
// panic. Callers that accept untrusted input go through Command, which
// validates first.
package mutator

import (
	"fmt"

	"github.com/ziadkadry99/menu-studio/internal/menu"
)

// Default titles for new nodes.
const (
	NewSectionTitle = "Nuova Sezione"
	NewItemName     = "Nuovo Piatto"
	NewItemPrice    = "10€"
	CopySuffix      = " (Copia)"
)

// Mutator applies edits, drawing fresh ids from its generator.
type Mutator struct {
	ids menu.IDGenerator
}

// New returns a Mutator. A nil generator means random UUIDs.
func New(ids menu.IDGenerator) *Mutator {
	if ids == nil {
		ids = menu.UUIDGenerator{}
	}
	return &Mutator{ids: ids}
}

// IDs returns the generator new nodes draw from.
func (m *Mutator) IDs() menu.IDGenerator { return m.ids }

// --- Menu scalars ---

// SetMenuField replaces one scalar menu field.
func (m *Mutator) SetMenuField(st menu.AppState, f MenuField, v string) menu.AppState {
	switch f {
	case FieldTitle:
		st.Menu.Title = v
	case FieldSubtitle:
		st.Menu.Subtitle = v
	case FieldFixedPrice:
		st.Menu.FixedPrice = v
	case FieldFooterNote:
		st.Menu.FooterNote = v
	default:
		panic(fmt.Sprintf("mutator: unknown menu field %q", f))
	}
	return st
}

// SetSocialField replaces one contact row, creating the record on first
// write.
func (m *Mutator) SetSocialField(st menu.AppState, f SocialField, v string) menu.AppState {
	var s menu.SocialInfo
	if st.Menu.Socials != nil {
		s = *st.Menu.Socials
	}
	switch f {
	case SocialCompanyName:
		s.CompanyName = v
	case SocialPhone:
		s.Phone = v
	case SocialInstagram:
		s.Instagram = v
	case SocialTikTok:
		s.TikTok = v
	case SocialWebsite:
		s.Website = v
	default:
		panic(fmt.Sprintf("mutator: unknown social field %q", f))
	}
	st.Menu.Socials = &s
	return st
}

// --- Brand scalars ---

// SetBrandColor replaces one brand color.
func (m *Mutator) SetBrandColor(st menu.AppState, f ColorField, v string) menu.AppState {
	switch f {
	case ColorPrimary:
		st.Brand.PrimaryColor = v
	case ColorAccent:
		st.Brand.AccentColor = v
	case ColorBackground:
		st.Brand.BackgroundColor = v
	case ColorText:
		st.Brand.TextColor = v
	case ColorOverlay:
		st.Brand.OverlayColor = v
	default:
		panic(fmt.Sprintf("mutator: unknown color field %q", f))
	}
	return st
}

// SetFont selects a catalog font for titles or body text.
func (m *Mutator) SetFont(st menu.AppState, slot FontSlot, fontID string) menu.AppState {
	if _, ok := menu.FontByID(fontID); !ok {
		panic(fmt.Sprintf("mutator: font %q is not in the catalog", fontID))
	}
	switch slot {
	case FontTitle:
		st.Brand.FontTitle = fontID
	case FontBody:
		st.Brand.FontBody = fontID
	default:
		panic(fmt.Sprintf("mutator: unknown font slot %q", slot))
	}
	return st
}

// SetLogo sets or clears (empty url) the logo.
func (m *Mutator) SetLogo(st menu.AppState, url string) menu.AppState {
	st.Brand.LogoURL = url
	return st
}

func (m *Mutator) SetLogoStyle(st menu.AppState, ls menu.LogoStyle) menu.AppState {
	if !ls.Valid() {
		panic(fmt.Sprintf("mutator: unknown logo style %q", ls))
	}
	st.Brand.LogoStyle = ls
	return st
}

// SetBackgroundImage sets or clears (empty url) the background image.
func (m *Mutator) SetBackgroundImage(st menu.AppState, url string) menu.AppState {
	st.Brand.BackgroundImageURL = url
	return st
}

func (m *Mutator) SetOverlayMode(st menu.AppState, mode menu.OverlayMode) menu.AppState {
	if !mode.Valid() {
		panic(fmt.Sprintf("mutator: unknown overlay mode %q", mode))
	}
	st.Brand.OverlayMode = mode
	return st
}

// SetOverlayOpacity stores v clamped to [0,1].
func (m *Mutator) SetOverlayOpacity(st menu.AppState, v float64) menu.AppState {
	st.Brand.OverlayOpacity = menu.ClampOpacity(v)
	return st
}

// ApplyPalette sets the four palette colors in one step.
func (m *Mutator) ApplyPalette(st menu.AppState, p menu.Palette) menu.AppState {
	st.Brand.BackgroundColor = p.Background
	st.Brand.TextColor = p.Text
	st.Brand.PrimaryColor = p.Primary
	st.Brand.AccentColor = p.Accent
	return st
}

// ApplyPreset shallow-merges a partial brand; styles merge slot by slot.
func (m *Mutator) ApplyPreset(st menu.AppState, p menu.BrandPatch) menu.AppState {
	st.Brand = p.ApplyTo(st.Brand)
	return st
}

// --- Sections ---

// AddSection appends an empty section with a fresh id.
func (m *Mutator) AddSection(st menu.AppState) menu.AppState {
	secs := make([]menu.MenuSection, len(st.Menu.Sections), len(st.Menu.Sections)+1)
	copy(secs, st.Menu.Sections)
	secs = append(secs, menu.MenuSection{ID: m.ids.NewID(), Title: NewSectionTitle, Items: []menu.MenuItem{}})
	st.Menu.Sections = secs
	return st
}

// DuplicateSection inserts a copy of section i right after it. The copy
// and each of its items get fresh ids.
func (m *Mutator) DuplicateSection(st menu.AppState, i int) menu.AppState {
	checkSection(st.Menu, i)
	orig := st.Menu.Sections[i]
	dup := menu.MenuSection{
		ID:    m.ids.NewID(),
		Title: orig.Title + CopySuffix,
		Items: make([]menu.MenuItem, len(orig.Items)),
	}
	for j, it := range orig.Items {
		it.ID = m.ids.NewID()
		dup.Items[j] = it
	}

	secs := make([]menu.MenuSection, 0, len(st.Menu.Sections)+1)
	secs = append(secs, st.Menu.Sections[:i+1]...)
	secs = append(secs, dup)
	secs = append(secs, st.Menu.Sections[i+1:]...)
	st.Menu.Sections = secs
	return st
}

// DeleteSection removes section i.
func (m *Mutator) DeleteSection(st menu.AppState, i int) menu.AppState {
	checkSection(st.Menu, i)
	secs := make([]menu.MenuSection, 0, len(st.Menu.Sections)-1)
	secs = append(secs, st.Menu.Sections[:i]...)
	secs = append(secs, st.Menu.Sections[i+1:]...)
	st.Menu.Sections = secs
	return st
}

// MoveSection removes section from and re-inserts it at to.
func (m *Mutator) MoveSection(st menu.AppState, from, to int) menu.AppState {
	checkSection(st.Menu, from)
	checkSection(st.Menu, to)
	if from == to {
		return st
	}
	st.Menu.Sections = move(st.Menu.Sections, from, to)
	return st
}

// SetSectionTitle renames section i.
func (m *Mutator) SetSectionTitle(st menu.AppState, i int, title string) menu.AppState {
	return m.editSection(st, i, func(s *menu.MenuSection) { s.Title = title })
}

// --- Items ---

// AddItem appends a placeholder item to section i.
func (m *Mutator) AddItem(st menu.AppState, i int) menu.AppState {
	return m.editSection(st, i, func(s *menu.MenuSection) {
		items := make([]menu.MenuItem, len(s.Items), len(s.Items)+1)
		copy(items, s.Items)
		s.Items = append(items, menu.MenuItem{ID: m.ids.NewID(), Name: NewItemName, Price: NewItemPrice})
	})
}

// DeleteItem removes item j of section s.
func (m *Mutator) DeleteItem(st menu.AppState, s, j int) menu.AppState {
	checkItem(st.Menu, s, j)
	return m.editSection(st, s, func(sec *menu.MenuSection) {
		items := make([]menu.MenuItem, 0, len(sec.Items)-1)
		items = append(items, sec.Items[:j]...)
		sec.Items = append(items, sec.Items[j+1:]...)
	})
}

// SetItemField replaces one text field of item j in section s.
func (m *Mutator) SetItemField(st menu.AppState, s, j int, f ItemField, v string) menu.AppState {
	checkItem(st.Menu, s, j)
	return m.editItem(st, s, j, func(it *menu.MenuItem) {
		switch f {
		case ItemName:
			it.Name = v
		case ItemDescription:
			it.Description = v
		case ItemPrice:
			it.Price = v
		case ItemAllergens:
			it.Allergens = v
		default:
			panic(fmt.Sprintf("mutator: unknown item field %q", f))
		}
	})
}

// SetItemHighlight toggles the accent styling of an item.
func (m *Mutator) SetItemHighlight(st menu.AppState, s, j int, on bool) menu.AppState {
	checkItem(st.Menu, s, j)
	return m.editItem(st, s, j, func(it *menu.MenuItem) { it.Highlight = on })
}

// MoveItem moves item (fromSection, fromIndex) to position toIndex of
// toSection. toIndex is interpreted after the item has been removed, so it
// may equal the target length to append. An item whose id collides with
// one in the target section is given a fresh id.
func (m *Mutator) MoveItem(st menu.AppState, fromSection, fromIndex, toSection, toIndex int) menu.AppState {
	checkItem(st.Menu, fromSection, fromIndex)
	checkSection(st.Menu, toSection)

	if fromSection == toSection {
		n := len(st.Menu.Sections[fromSection].Items)
		if toIndex < 0 || toIndex >= n {
			panic(fmt.Sprintf("mutator: item index %d out of range [0,%d)", toIndex, n))
		}
		if fromIndex == toIndex {
			return st
		}
		return m.editSection(st, fromSection, func(sec *menu.MenuSection) {
			sec.Items = move(sec.Items, fromIndex, toIndex)
		})
	}

	target := st.Menu.Sections[toSection].Items
	if toIndex < 0 || toIndex > len(target) {
		panic(fmt.Sprintf("mutator: insert index %d out of range [0,%d]", toIndex, len(target)))
	}

	secs := cloneSections(st.Menu.Sections)
	src := secs[fromSection].Items
	it := src[fromIndex]
	for _, other := range target {
		if other.ID == it.ID {
			it.ID = m.ids.NewID()
			break
		}
	}

	rest := make([]menu.MenuItem, 0, len(src)-1)
	rest = append(rest, src[:fromIndex]...)
	secs[fromSection].Items = append(rest, src[fromIndex+1:]...)

	dst := make([]menu.MenuItem, 0, len(target)+1)
	dst = append(dst, target[:toIndex]...)
	dst = append(dst, it)
	secs[toSection].Items = append(dst, target[toIndex:]...)

	st.Menu.Sections = secs
	return st
}

// --- Typography ---

// SetAlign sets the alignment of one slot.
func (m *Mutator) SetAlign(st menu.AppState, slot menu.Slot, a menu.Align) menu.AppState {
	if !a.Valid() {
		panic(fmt.Sprintf("mutator: unknown alignment %q", a))
	}
	return m.editStyle(st, slot, func(ts *menu.TypographyStyle) { ts.Align = a })
}

// SetTypographyFlag sets a boolean field of one slot.
func (m *Mutator) SetTypographyFlag(st menu.AppState, slot menu.Slot, f Flag, on bool) menu.AppState {
	return m.editStyle(st, slot, func(ts *menu.TypographyStyle) {
		switch f {
		case FlagBold:
			ts.Bold = on
		case FlagItalic:
			ts.Italic = on
		case FlagUppercase:
			ts.Uppercase = on
		case FlagUnderline:
			ts.Underline = on
		default:
			panic(fmt.Sprintf("mutator: unknown typography flag %q", f))
		}
	})
}

// SetTypographyScale stores v clamped to the editor range and step.
func (m *Mutator) SetTypographyScale(st menu.AppState, slot menu.Slot, v float64) menu.AppState {
	return m.editStyle(st, slot, func(ts *menu.TypographyStyle) { ts.Scale = menu.SnapScale(v) })
}

// StepTypographyScale nudges a slot scale by delta steps.
func (m *Mutator) StepTypographyScale(st menu.AppState, slot menu.Slot, delta int) menu.AppState {
	cur := st.Brand.Styles.Get(slot).Scale
	return m.SetTypographyScale(st, slot, cur+float64(delta)*menu.ScaleStep)
}

// SetTypographyColor sets or clears (empty) a slot color override.
func (m *Mutator) SetTypographyColor(st menu.AppState, slot menu.Slot, c string) menu.AppState {
	return m.editStyle(st, slot, func(ts *menu.TypographyStyle) { ts.Color = c })
}

// SetTypographyGradient sets or clears (empty) a slot gradient fill.
func (m *Mutator) SetTypographyGradient(st menu.AppState, slot menu.Slot, g string) menu.AppState {
	return m.editStyle(st, slot, func(ts *menu.TypographyStyle) { ts.TextGradient = g })
}

// --- Lifecycle ---

// CompleteOnboarding installs the onboarding result. A nil brand keeps the
// current one.
func (m *Mutator) CompleteOnboarding(st menu.AppState, fm menu.FullMenu, brand *menu.BrandProfile) menu.AppState {
	st.Menu = menu.NormalizeMenu(fm, m.ids)
	if brand != nil {
		st.Brand = menu.NormalizeBrand(*brand)
	}
	st.HasOnboarded = true
	return st
}

// ReplaceMenu swaps in a whole menu, e.g. from an import.
func (m *Mutator) ReplaceMenu(st menu.AppState, fm menu.FullMenu) menu.AppState {
	st.Menu = menu.NormalizeMenu(fm, m.ids)
	return st
}

// Reset returns the state a first launch sees.
func (m *Mutator) Reset() menu.AppState {
	return menu.NewAppState()
}

// --- helpers ---

func (m *Mutator) editSection(st menu.AppState, i int, fn func(*menu.MenuSection)) menu.AppState {
	checkSection(st.Menu, i)
	secs := cloneSections(st.Menu.Sections)
	fn(&secs[i])
	st.Menu.Sections = secs
	return st
}

func (m *Mutator) editItem(st menu.AppState, s, j int, fn func(*menu.MenuItem)) menu.AppState {
	return m.editSection(st, s, func(sec *menu.MenuSection) {
		items := make([]menu.MenuItem, len(sec.Items))
		copy(items, sec.Items)
		fn(&items[j])
		sec.Items = items
	})
}

func (m *Mutator) editStyle(st menu.AppState, slot menu.Slot, fn func(*menu.TypographyStyle)) menu.AppState {
	ts := st.Brand.Styles.Get(slot)
	fn(&ts)
	st.Brand.Styles = st.Brand.Styles.With(slot, ts)
	return st
}

func cloneSections(secs []menu.MenuSection) []menu.MenuSection {
	out := make([]menu.MenuSection, len(secs))
	copy(out, secs)
	return out
}

// move returns a new slice with the element at from re-inserted at to.
func move[T any](list []T, from, to int) []T {
	out := make([]T, 0, len(list))
	el := list[from]
	out = append(out, list[:from]...)
	out = append(out, list[from+1:]...)
	out = append(out[:to], append([]T{el}, out[to:]...)...)
	return out
}

func checkSection(m menu.FullMenu, i int) {
	if i < 0 || i >= len(m.Sections) {
		panic(fmt.Sprintf("mutator: section index %d out of range [0,%d)", i, len(m.Sections)))
	}
}

func checkItem(m menu.FullMenu, s, j int) {
	checkSection(m, s)
	if n := len(m.Sections[s].Items); j < 0 || j >= n {
		panic(fmt.Sprintf("mutator: item index %d out of range [0,%d) in section %d", j, n, s))
	}
}
