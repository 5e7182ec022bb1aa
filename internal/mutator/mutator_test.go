package mutator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ziadkadry99/menu-studio/internal/menu"
	"github.com/ziadkadry99/menu-studio/internal/presets"
)

func newTestMutator() *Mutator {
	return New(&menu.SequenceIDs{Prefix: "n"})
}

// assertUniqueIDs checks section ids across the document and item ids
// within each section.
func assertUniqueIDs(t *testing.T, st menu.AppState) {
	t.Helper()
	sections := map[string]bool{}
	for _, s := range st.Menu.Sections {
		require.NotEmpty(t, s.ID)
		require.False(t, sections[s.ID], "duplicate section id %q", s.ID)
		sections[s.ID] = true
		items := map[string]bool{}
		for _, it := range s.Items {
			require.NotEmpty(t, it.ID)
			require.False(t, items[it.ID], "duplicate item id %q in section %q", it.ID, s.ID)
			items[it.ID] = true
		}
	}
}

func sectionTitles(st menu.AppState) []string {
	var out []string
	for _, s := range st.Menu.Sections {
		out = append(out, s.Title)
	}
	return out
}

func itemNames(sec menu.MenuSection) []string {
	var out []string
	for _, it := range sec.Items {
		out = append(out, it.Name)
	}
	return out
}

func TestAddAndFillItem(t *testing.T) {
	m := newTestMutator()
	st := menu.NewAppState()

	st = m.AddItem(st, 0)
	require.Len(t, st.Menu.Sections[0].Items, 3)
	added := st.Menu.Sections[0].Items[2]
	assert.Equal(t, NewItemName, added.Name)
	assert.Equal(t, NewItemPrice, added.Price)

	st = m.SetItemField(st, 0, 2, ItemName, "Fritto Misto")
	st = m.SetItemField(st, 0, 2, ItemPrice, "15€")

	got := st.Menu.Sections[0].Items[2]
	assert.Equal(t, "Fritto Misto", got.Name)
	assert.Equal(t, "15€", got.Price)
	assert.Equal(t, added.ID, got.ID)
	assertUniqueIDs(t, st)
}

func TestDuplicateSection(t *testing.T) {
	m := newTestMutator()
	st := menu.NewAppState()
	st = m.SetSectionTitle(st, 1, "Primi")

	st = m.DuplicateSection(st, 1)

	require.Len(t, st.Menu.Sections, 3)
	assert.Equal(t, []string{"Antipasti", "Primi", "Primi (Copia)"}, sectionTitles(st))
	orig, dup := st.Menu.Sections[1], st.Menu.Sections[2]
	assert.Equal(t, itemNames(orig), itemNames(dup))
	assert.NotEqual(t, orig.ID, dup.ID)
	assertUniqueIDs(t, st)
}

func TestDuplicateMiddleSectionKeepsOrder(t *testing.T) {
	m := newTestMutator()
	st := menu.NewAppState()
	st = m.AddSection(st)
	st = m.SetSectionTitle(st, 2, "Dolci")

	st = m.DuplicateSection(st, 0)
	assert.Equal(t, []string{"Antipasti", "Antipasti (Copia)", "Primi Piatti", "Dolci"}, sectionTitles(st))
}

func TestEditsDoNotAliasPreviousSnapshot(t *testing.T) {
	m := newTestMutator()
	before := menu.NewAppState()

	after := m.SetItemField(before, 0, 0, ItemName, "Changed")
	after = m.SetAlign(after, menu.SlotPrice, menu.AlignCenter)
	after = m.SetSocialField(after, SocialPhone, "+39 06 123")

	assert.Equal(t, "Trilogia di Bruschette", before.Menu.Sections[0].Items[0].Name)
	assert.Equal(t, menu.AlignRight, before.Brand.Styles.Price.Align)
	assert.Nil(t, before.Menu.Socials)
	assert.Equal(t, "Changed", after.Menu.Sections[0].Items[0].Name)
	assert.Equal(t, menu.AlignCenter, after.Brand.Styles.Price.Align)
}

func TestDeleteSectionAndItem(t *testing.T) {
	m := newTestMutator()
	st := menu.NewAppState()

	st = m.DeleteItem(st, 0, 0)
	assert.Equal(t, []string{"Carpaccio di Manzo"}, itemNames(st.Menu.Sections[0]))

	st = m.DeleteSection(st, 0)
	assert.Equal(t, []string{"Primi Piatti"}, sectionTitles(st))
}

func TestMoveSection(t *testing.T) {
	m := newTestMutator()
	st := menu.NewAppState()
	st = m.AddSection(st)
	st = m.SetSectionTitle(st, 2, "Dolci")

	st = m.MoveSection(st, 0, 2)
	assert.Equal(t, []string{"Primi Piatti", "Dolci", "Antipasti"}, sectionTitles(st))

	st = m.MoveSection(st, 2, 0)
	assert.Equal(t, []string{"Antipasti", "Primi Piatti", "Dolci"}, sectionTitles(st))
}

func TestMoveItemWithinSection(t *testing.T) {
	m := newTestMutator()
	st := menu.NewAppState()
	st = m.AddItem(st, 0)
	st = m.SetItemField(st, 0, 2, ItemName, "Olive")

	st = m.MoveItem(st, 0, 0, 0, 2)
	assert.Equal(t, []string{"Carpaccio di Manzo", "Olive", "Trilogia di Bruschette"}, itemNames(st.Menu.Sections[0]))

	st = m.MoveItem(st, 0, 2, 0, 0)
	assert.Equal(t, []string{"Trilogia di Bruschette", "Carpaccio di Manzo", "Olive"}, itemNames(st.Menu.Sections[0]))
}

func TestMoveItemAcrossSections(t *testing.T) {
	m := newTestMutator()
	st := menu.NewAppState()

	st = m.MoveItem(st, 0, 1, 1, 1)
	assert.Equal(t, []string{"Trilogia di Bruschette"}, itemNames(st.Menu.Sections[0]))
	assert.Equal(t, []string{"Risotto al Tartufo", "Carpaccio di Manzo", "Tagliolini al Salmone"}, itemNames(st.Menu.Sections[1]))
	assert.Equal(t, "it-2", st.Menu.Sections[1].Items[1].ID)
}

func TestMoveItemIntoEmptySection(t *testing.T) {
	m := newTestMutator()
	st := menu.NewAppState()
	st = m.AddSection(st)

	st = m.MoveItem(st, 0, 0, 2, 0)
	require.Len(t, st.Menu.Sections[2].Items, 1)
	assert.Equal(t, "Trilogia di Bruschette", st.Menu.Sections[2].Items[0].Name)
	assert.Len(t, st.Menu.Sections[0].Items, 1)
	assertUniqueIDs(t, st)
}

func TestMoveItemAppendsAtTargetLength(t *testing.T) {
	m := newTestMutator()
	st := menu.NewAppState()

	st = m.MoveItem(st, 0, 0, 1, 2)
	assert.Equal(t, "Trilogia di Bruschette", st.Menu.Sections[1].Items[2].Name)
}

func TestOutOfRangeIndicesPanic(t *testing.T) {
	m := newTestMutator()
	st := menu.NewAppState()

	assert.Panics(t, func() { m.DeleteSection(st, 2) })
	assert.Panics(t, func() { m.DuplicateSection(st, -1) })
	assert.Panics(t, func() { m.AddItem(st, 5) })
	assert.Panics(t, func() { m.SetItemField(st, 0, 2, ItemName, "x") })
	assert.Panics(t, func() { m.MoveSection(st, 0, 2) })
	assert.Panics(t, func() { m.MoveItem(st, 0, 0, 0, 2) })
	assert.Panics(t, func() { m.MoveItem(st, 0, 0, 1, 3) })
	assert.Panics(t, func() { m.SetFont(st, FontTitle, "comic-sans") })
	assert.Panics(t, func() { m.SetAlign(st, menu.SlotPrice, menu.Align("justify")) })
}

func TestHighlight(t *testing.T) {
	m := newTestMutator()
	st := m.SetItemHighlight(menu.NewAppState(), 1, 0, true)
	assert.True(t, st.Menu.Sections[1].Items[0].Highlight)
	st = m.SetItemHighlight(st, 1, 0, false)
	assert.False(t, st.Menu.Sections[1].Items[0].Highlight)
}

func TestTypographyScale(t *testing.T) {
	m := newTestMutator()
	st := menu.NewAppState()

	st = m.SetTypographyScale(st, menu.SlotItemName, 7)
	assert.Equal(t, menu.MaxScale, st.Brand.Styles.ItemName.Scale)

	st = m.SetTypographyScale(st, menu.SlotItemName, 1)
	st = m.StepTypographyScale(st, menu.SlotItemName, 2)
	assert.InDelta(t, 1.2, st.Brand.Styles.ItemName.Scale, 1e-9)

	st = m.StepTypographyScale(st, menu.SlotItemName, -9)
	assert.Equal(t, menu.MinScale, st.Brand.Styles.ItemName.Scale)

	st = m.SetTypographyScale(st, menu.SlotItemName, 1.26)
	assert.InDelta(t, 1.3, st.Brand.Styles.ItemName.Scale, 1e-9)
}

func TestTypographyFlagsAndFills(t *testing.T) {
	m := newTestMutator()
	st := menu.NewAppState()

	st = m.SetTypographyFlag(st, menu.SlotItemDescription, FlagItalic, true)
	st = m.SetTypographyColor(st, menu.SlotItemDescription, "#ff0000")
	st = m.SetTypographyGradient(st, menu.SlotSectionTitle, menu.TextGradients[1].Value)

	assert.True(t, st.Brand.Styles.ItemDescription.Italic)
	assert.Equal(t, "#ff0000", st.Brand.Styles.ItemDescription.Color)
	assert.Equal(t, menu.TextGradients[1].Value, st.Brand.Styles.SectionTitle.TextGradient)
	assert.Equal(t, menu.DefaultStyles().ItemName, st.Brand.Styles.ItemName)

	st = m.SetTypographyGradient(st, menu.SlotSectionTitle, "")
	assert.Empty(t, st.Brand.Styles.SectionTitle.TextGradient)
}

func TestOverlayOpacityClamped(t *testing.T) {
	m := newTestMutator()
	st := m.SetOverlayOpacity(menu.NewAppState(), 1.7)
	assert.Equal(t, 1.0, st.Brand.OverlayOpacity)
	st = m.SetOverlayOpacity(st, -0.2)
	assert.Equal(t, 0.0, st.Brand.OverlayOpacity)
}

func TestApplyPaletteAndPreset(t *testing.T) {
	m := newTestMutator()
	st := menu.NewAppState()

	p := menu.Palettes[0]
	st = m.ApplyPalette(st, p)
	assert.Equal(t, p.Background, st.Brand.BackgroundColor)
	assert.Equal(t, p.Accent, st.Brand.AccentColor)

	bold := menu.DefaultStyle()
	bold.Bold = true
	bold.Scale = 1.5
	font := "oswald"
	st = m.ApplyPreset(st, menu.BrandPatch{
		FontTitle: &font,
		Styles:    &menu.StylesPatch{SectionTitle: &bold},
	})

	assert.Equal(t, "oswald", st.Brand.FontTitle)
	assert.Equal(t, bold, st.Brand.Styles.SectionTitle)
	// Slots the preset leaves out survive.
	assert.Equal(t, menu.DefaultStyles().Price, st.Brand.Styles.Price)
	for _, slot := range menu.Slots {
		assert.True(t, st.Brand.Styles.Get(slot).Align.Valid(), "slot %s", slot)
	}
}

func TestApplyPresetKeepsFineScale(t *testing.T) {
	m := newTestMutator()
	p, ok := presets.Default().Find("sushi")
	require.True(t, ok)

	st := m.ApplyPreset(menu.NewAppState(), p.Brand)
	assert.Equal(t, 0.85, st.Brand.Styles.ItemDescription.Scale)
}

func TestCompleteOnboarding(t *testing.T) {
	m := newTestMutator()
	st := m.CompleteOnboarding(menu.NewAppState(), menu.StarterMenu(), nil)

	assert.True(t, st.HasOnboarded)
	assert.Equal(t, "Nuovo Menù", st.Menu.Title)
	assert.Equal(t, menu.DefaultBrand(), st.Brand)
	assertUniqueIDs(t, st)
}

func TestReset(t *testing.T) {
	m := newTestMutator()
	st := m.CompleteOnboarding(menu.NewAppState(), menu.EmptyMenu(), nil)
	assert.Equal(t, menu.NewAppState(), m.Reset())
	assert.True(t, st.HasOnboarded)
}

func TestUniqueIDsAcrossManyEdits(t *testing.T) {
	m := New(nil)
	st := menu.NewAppState()
	for i := 0; i < 5; i++ {
		st = m.AddSection(st)
		st = m.AddItem(st, len(st.Menu.Sections)-1)
		st = m.DuplicateSection(st, 0)
	}
	assertUniqueIDs(t, st)
}

func TestMoveItemRenamesCollidingID(t *testing.T) {
	m := newTestMutator()
	st := m.CompleteOnboarding(menu.NewAppState(), menu.StarterMenu(), nil)
	st = m.AddSection(st)
	st = m.ReplaceMenu(st, menu.FullMenu{
		Title: "x",
		Sections: []menu.MenuSection{
			{ID: "a", Items: []menu.MenuItem{{ID: "1", Name: "uno"}}},
			{ID: "b", Items: []menu.MenuItem{{ID: "1", Name: "altro"}}},
		},
	})

	st = m.MoveItem(st, 0, 0, 1, 0)
	assert.Equal(t, []string{"uno", "altro"}, itemNames(st.Menu.Sections[1]))
	assertUniqueIDs(t, st)
}
