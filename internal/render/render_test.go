package render

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ziadkadry99/menu-studio/internal/menu"
	"github.com/ziadkadry99/menu-studio/internal/mutator"
	"github.com/ziadkadry99/menu-studio/internal/style"
)

func contents(nodes []*Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.Content()
	}
	return out
}

func TestAddAndFillRendersSectionAndItem(t *testing.T) {
	m := mutator.New(&menu.SequenceIDs{})
	st := menu.AppState{Menu: menu.EmptyMenu(), Brand: menu.DefaultBrand()}
	st = m.AddSection(st)
	st = m.SetSectionTitle(st, 0, "Antipasti")
	st = m.AddItem(st, 0)
	st = m.SetItemField(st, 0, 0, mutator.ItemName, "Bruschetta")
	st = m.SetItemField(st, 0, 0, mutator.ItemPrice, "5€")

	tree := Render(st.Menu, st.Brand, ModeNormal, Params{})

	titles := FindAll(tree, RoleSectionTitle)
	require.Len(t, titles, 1)
	assert.Equal(t, "ANTIPASTI", titles[0].Content(), "default section title style is uppercase")
	assert.Equal(t, "Antipasti", titles[0].Text)

	items := FindAll(tree, RoleItem)
	require.Len(t, items, 1)
	assert.Equal(t, []string{"Bruschetta"}, contents(FindAll(items[0], RoleItemName)))
	assert.Equal(t, []string{"5€"}, contents(FindAll(items[0], RolePrice)))
}

func TestHighlightedItemName(t *testing.T) {
	b := menu.DefaultBrand()
	b.AccentColor = "#ff0000"
	fm := menu.DefaultMenu()

	tree := Render(fm, b, ModeNormal, Params{})
	names := FindAll(tree, RoleItemName)
	require.Len(t, names, 4)

	hl := names[1]
	assert.Equal(t, "Carpaccio di Manzo", hl.Text)
	assert.Equal(t, IconStar, hl.Icon)
	assert.Equal(t, style.Fill{Kind: style.FillColor, Color: "#ff0000"}, hl.Style.Fill)

	plain := names[0]
	assert.Equal(t, IconNone, plain.Icon)
	assert.Equal(t, style.FillInherit, plain.Style.Fill.Kind)
}

func TestNormalColumnsFollowViewport(t *testing.T) {
	fm, b := menu.DefaultMenu(), menu.DefaultBrand()

	narrow := Find(Render(fm, b, ModeNormal, Params{Viewport: 375}), RoleSections)
	assert.Equal(t, KindColumn, narrow.Kind)

	wide := Find(Render(fm, b, ModeNormal, Params{Viewport: 1024}), RoleSections)
	assert.Equal(t, KindGrid, wide.Kind)
	assert.Equal(t, 2, wide.Columns)

	paper := Find(Render(fm, b, ModePrint, Params{}), RoleSections)
	assert.Equal(t, KindGrid, paper.Kind)
}

func TestCanvasFor(t *testing.T) {
	tests := []struct {
		mode Mode
		p    Params
		want Canvas
	}{
		{ModeNormal, Params{}, Canvas{Width: 375, Base: 16, Padding: 32, Columns: 1}},
		{ModeNormal, Params{Viewport: 1200}, Canvas{Width: 1200, Base: 16, Padding: 48, Columns: 2}},
		{ModePrint, Params{}, Canvas{Width: 794, Height: 1123, Base: 18, Padding: 80, Columns: 2}},
		{ModeStory, Params{}, Canvas{Width: 540, Height: 960, Base: 16, Padding: 32, Columns: 1}},
		{ModeCarousel, Params{}, Canvas{Width: 540, Height: 675, Base: 10, Padding: 16, Columns: 1}},
	}
	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			assert.Equal(t, tt.want, CanvasFor(tt.mode, tt.p))
		})
	}
}

func TestScaleIsRelativeToModeBase(t *testing.T) {
	fm, b := menu.DefaultMenu(), menu.DefaultBrand()
	story := Find(Render(fm, b, ModeStory, Params{}), RoleSectionTitle)
	paper := Find(Render(fm, b, ModePrint, Params{}), RoleSectionTitle)
	assert.InDelta(t, 1.2*16, story.Style.Size, 1e-9)
	assert.InDelta(t, 1.2*18, paper.Style.Size, 1e-9)
}

func TestEmptySectionKeepsTitle(t *testing.T) {
	fm := menu.FullMenu{Title: "X", Sections: []menu.MenuSection{{ID: "a", Title: "Vuota", Items: []menu.MenuItem{}}}}
	tree := Render(fm, menu.DefaultBrand(), ModeNormal, Params{})

	secs := FindAll(tree, RoleSection)
	require.Len(t, secs, 1)
	assert.Equal(t, "Vuota", Find(secs[0], RoleSectionTitle).Text)
	assert.Empty(t, FindAll(secs[0], RoleItem))
}

func TestBackgroundAndOverlayLayers(t *testing.T) {
	fm, b := menu.DefaultMenu(), menu.DefaultBrand()

	tree := Render(fm, b, ModeStory, Params{})
	require.Len(t, tree.Children, 3)
	assert.Equal(t, KindBackground, tree.Children[0].Kind)
	assert.Equal(t, b.BackgroundImageURL, tree.Children[0].Image)
	assert.Equal(t, KindOverlay, tree.Children[1].Kind)
	assert.Equal(t, "#000000", tree.Children[1].Background)
	assert.Equal(t, 0.6, tree.Children[1].Opacity)
	assert.Equal(t, RoleContent, tree.Children[2].Role)

	b.OverlayMode = menu.OverlayGradient
	b.BackgroundImageURL = ""
	tree = Render(fm, b, ModeStory, Params{})
	require.Len(t, tree.Children, 2)
	assert.Equal(t, "linear-gradient(to bottom, transparent, #000000)", tree.Children[0].Gradient)

	b.OverlayOpacity = 0
	tree = Render(fm, b, ModeStory, Params{})
	require.Len(t, tree.Children, 1)
}

func TestLogoClip(t *testing.T) {
	fm, b := menu.DefaultMenu(), menu.DefaultBrand()
	b.LogoURL = "https://example.com/logo.png"

	tests := []struct {
		style menu.LogoStyle
		clip  Clip
		fit   Fit
	}{
		{menu.LogoCircle, ClipCircle, FitCover},
		{menu.LogoRounded, ClipRounded, FitCover},
		{menu.LogoOriginal, ClipNone, FitContain},
	}
	for _, tt := range tests {
		t.Run(string(tt.style), func(t *testing.T) {
			b.LogoStyle = tt.style
			logo := Find(Render(fm, b, ModeNormal, Params{}), RoleLogo)
			require.NotNil(t, logo)
			assert.Equal(t, tt.clip, logo.Clip)
			assert.Equal(t, tt.fit, logo.Fit)
		})
	}

	b.LogoStyle = menu.LogoCircle
	logo := Find(Render(fm, b, ModePrint, Params{}), RoleLogo)
	assert.Equal(t, 192.0, logo.Width)
}

func TestFooterSocials(t *testing.T) {
	fm, b := menu.DefaultMenu(), menu.DefaultBrand()
	fm.Socials = &menu.SocialInfo{
		CompanyName: "Da Mario",
		Phone:       "+39 06 1234",
		Instagram:   "@damario",
		TikTok:      "@damario.tt",
		Website:     "https://damario.it",
	}

	tree := Render(fm, b, ModeNormal, Params{})
	assert.Equal(t, "DA MARIO", Find(tree, RoleCompany).Content())
	assert.Equal(t, []string{"+39 06 1234", "damario", "damario.tt", "damario.it"}, contents(FindAll(tree, RoleSocialValue)))
	assert.Equal(t, fm.FooterNote, Find(tree, RoleFooterNote).Text)
	assert.Nil(t, Find(tree, RoleQR), "QR is print only")

	qr := Find(Render(fm, b, ModePrint, Params{}), RoleQR)
	require.NotNil(t, qr)
	assert.Equal(t, "https://damario.it", qr.Text)
}

func TestQRPlaceholder(t *testing.T) {
	qr := Find(Render(menu.DefaultMenu(), menu.DefaultBrand(), ModePrint, Params{}), RoleQR)
	assert.Equal(t, PlaceholderQRURL, qr.Text)
}

func TestItemDescriptionAndAllergens(t *testing.T) {
	fm := menu.FullMenu{Title: "X", Sections: []menu.MenuSection{{ID: "a", Title: "A", Items: []menu.MenuItem{
		{ID: "1", Name: "Tagliere", Description: "Con <b>miele</b><script>alert(1)</script>", Allergens: "latte, noci"},
	}}}}
	tree := Render(fm, menu.DefaultBrand(), ModeNormal, Params{})

	desc := Find(tree, RoleDescription)
	require.NotNil(t, desc)
	assert.Equal(t, "Con miele", desc.Content())
	assert.True(t, desc.Spans[1].Bold)

	assert.Equal(t, "ALLERGENI: latte, noci", Find(tree, RoleAllergens).Content())
}

func TestSlides(t *testing.T) {
	fm := menu.DefaultMenu()
	assert.Equal(t, 4, SlideCount(fm))
	assert.Equal(t, []Slide{
		{Kind: SlideCover},
		{Kind: SlideSection, Index: 0},
		{Kind: SlideSection, Index: 1},
		{Kind: SlideContacts},
	}, Slides(fm))

	assert.Equal(t, 2, SlideCount(menu.EmptyMenu()))
}

func TestCarouselCover(t *testing.T) {
	fm, b := menu.DefaultMenu(), menu.DefaultBrand()
	tree := Render(fm, b, ModeCarousel, Params{Slide: Slide{Kind: SlideCover}})

	title := Find(tree, RoleTitle)
	assert.Equal(t, "GUSTO & SAPORE", title.Content())
	assert.InDelta(t, 60, title.Style.Size, 1e-9, "scale is pinned to 1 on the cover")
	assert.Equal(t, "MENÙ STAGIONALE 2025", Find(tree, RoleSubtitle).Content())
	assert.Equal(t, CoverSwipe, Find(tree, RoleSwipe).Text)
	assert.Equal(t, PinBottomRight, Find(tree, RoleSwipe).Pin)
	assert.Nil(t, Find(tree, RoleSections))
}

func TestCarouselSectionSlide(t *testing.T) {
	fm, b := menu.DefaultMenu(), menu.DefaultBrand()
	tree := Render(fm, b, ModeCarousel, Params{Slide: Slide{Kind: SlideSection, Index: 1}})

	assert.Equal(t, "Primi Piatti", Find(tree, RoleSectionTitle).Text)
	assert.Equal(t, "02", Find(tree, RoleSectionNumber).Text)
	assert.Equal(t, "3 / 4", Find(tree, RolePageIndicator).Text)
	assert.Len(t, FindAll(tree, RoleItem), 2)
	assert.Nil(t, Find(tree, RoleMore))
}

func TestCarouselSectionOverflow(t *testing.T) {
	sec := menu.MenuSection{ID: "a", Title: "Pizze"}
	for i := 0; i < 9; i++ {
		sec.Items = append(sec.Items, menu.MenuItem{ID: fmt.Sprint(i), Name: fmt.Sprintf("Pizza %d", i), Price: "8€"})
	}
	fm := menu.FullMenu{Title: "X", Sections: []menu.MenuSection{sec}}
	tree := Render(fm, menu.DefaultBrand(), ModeCarousel, Params{Slide: Slide{Kind: SlideSection, Index: 0}})

	assert.Len(t, FindAll(tree, RoleItem), CarouselMaxItems)
	assert.Equal(t, MoreItems, Find(tree, RoleMore).Text)
	for _, n := range FindAll(tree, RoleItemName) {
		assert.Equal(t, 1, n.MaxLines)
	}
}

func TestCarouselSectionOutOfRangePanics(t *testing.T) {
	fm := menu.DefaultMenu()
	assert.Panics(t, func() {
		Render(fm, menu.DefaultBrand(), ModeCarousel, Params{Slide: Slide{Kind: SlideSection, Index: 2}})
	})
}

func TestCarouselContacts(t *testing.T) {
	fm, b := menu.DefaultMenu(), menu.DefaultBrand()
	fm.Socials = &menu.SocialInfo{Phone: "333", Website: "http://damario.it"}
	tree := Render(fm, b, ModeCarousel, Params{Slide: Slide{Kind: SlideContacts}})

	assert.Equal(t, ContactsTitle, Find(tree, RoleCallToAction).Text)
	assert.Equal(t, []string{"Telefono", "Website"}, contents(FindAll(tree, RoleSocialLabel)))
	assert.Equal(t, []string{"333", "damario.it"}, contents(FindAll(tree, RoleSocialValue)))
	assert.Equal(t, "LINK IN BIO", Find(tree, RoleLinkInBio).Content())
	assert.Nil(t, Find(tree, RoleCompany))
}

func TestRenderIsPure(t *testing.T) {
	fm, b := menu.DefaultMenu(), menu.DefaultBrand()
	before := fm.Clone()
	a := Dump(Render(fm, b, ModeNormal, Params{}))
	c := Dump(Render(fm, b, ModeNormal, Params{}))
	assert.Equal(t, a, c)
	assert.Equal(t, before, fm)
}

func TestImageURLsAndDump(t *testing.T) {
	fm, b := menu.DefaultMenu(), menu.DefaultBrand()
	b.LogoURL = "logo.png"
	tree := Render(fm, b, ModeStory, Params{})

	assert.Equal(t, []string{menu.DefaultBackgroundImage, "logo.png"}, ImageURLs(tree))

	out := Dump(tree)
	assert.True(t, strings.HasPrefix(out, "canvas\n"))
	assert.Contains(t, out, `text[item-name] <star> "Carpaccio di Manzo"`)
	assert.Contains(t, out, "image[logo] src=logo.png")
}
