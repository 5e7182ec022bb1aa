// Package render turns a document into a visual tree. Rendering is pure:
// images are referenced by URL and fetched by whoever paints the tree.
package render

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ziadkadry99/menu-studio/internal/menu"
	"github.com/ziadkadry99/menu-studio/internal/richtext"
	"github.com/ziadkadry99/menu-studio/internal/style"
)

// Translucent chrome colors shared by the layouts.
const (
	glassFaint  = "rgba(255, 255, 255, 0.05)"
	glassLight  = "rgba(255, 255, 255, 0.1)"
	glassBorder = "rgba(255, 255, 255, 0.2)"
	shadeLight  = "rgba(0, 0, 0, 0.2)"
	shadeCard   = "rgba(0, 0, 0, 0.3)"
)

// Render builds the tree for one mode. ModeCarousel renders the slide in
// p.Slide; an out-of-range section index panics.
func Render(m menu.FullMenu, b menu.BrandProfile, mode Mode, p Params) *Node {
	cv := CanvasFor(mode, p)
	r := &renderer{menu: m, brand: b, mode: mode, params: p, canvas: cv}

	var content *Node
	if mode == ModeCarousel {
		content = r.slide(p.Slide)
	} else {
		content = r.page()
	}
	content.Role = RoleContent

	root := &Node{
		Kind:       KindCanvas,
		Width:      cv.Width,
		Height:     cv.Height,
		Background: b.BackgroundColor,
		Color:      b.TextColor,
		Font:       b.FontBody,
	}
	if b.BackgroundImageURL != "" {
		root.Children = append(root.Children, &Node{Kind: KindBackground, Image: b.BackgroundImageURL, Fit: FitCover})
	}
	if ov := r.overlay(); ov != nil {
		root.Children = append(root.Children, ov)
	}
	root.Children = append(root.Children, content)
	return root
}

type renderer struct {
	menu   menu.FullMenu
	brand  menu.BrandProfile
	mode   Mode
	params Params
	canvas Canvas
}

func (r *renderer) em(v float64) float64 { return v * r.canvas.Base }

func (r *renderer) overlay() *Node {
	b := r.brand
	if b.OverlayOpacity <= 0 || b.OverlayColor == "" {
		return nil
	}
	n := &Node{Kind: KindOverlay, Opacity: b.OverlayOpacity}
	if b.OverlayMode == menu.OverlayGradient {
		n.Gradient = fmt.Sprintf("linear-gradient(to bottom, transparent, %s)", b.OverlayColor)
	} else {
		n.Background = b.OverlayColor
	}
	return n
}

// --- normal, print and story ---

func (r *renderer) page() *Node {
	root := &Node{
		Kind:    KindColumn,
		Padding: All(r.canvas.Padding),
	}
	root.Children = append(root.Children, r.header())
	root.Children = append(root.Children, r.sections())
	root.Children = append(root.Children, r.footer())
	return root
}

func (r *renderer) header() *Node {
	b, m := r.brand, r.menu
	isPrint := r.mode == ModePrint
	h := &Node{
		Kind:    KindColumn,
		Role:    RoleHeader,
		Align:   CrossCenter,
		Gap:     16,
		Padding: Insets{Bottom: 40},
	}

	if b.LogoURL != "" {
		h.Children = append(h.Children, r.logo(isPrint))
	}

	title := style.Resolve(b.Styles.SectionTitle, b.PrimaryColor, r.em(2))
	if isPrint {
		title.Size = r.em(4)
	}
	h.Children = append(h.Children, text(RoleTitle, m.Title, title, b.FontTitle))

	if m.Subtitle != "" {
		size := r.em(1.25)
		if isPrint {
			size = r.em(1.5)
		}
		d := style.Plain(size, menu.AlignCenter, false, b.AccentColor)
		d.Uppercase = true
		n := text(RoleSubtitle, m.Subtitle, d, "")
		n.Opacity = 0.9
		h.Children = append(h.Children, n)
	}

	if m.FixedPrice != "" {
		size := r.em(0.875)
		if isPrint {
			size = r.em(1.5)
		}
		d := style.Plain(size, menu.AlignCenter, true, b.AccentColor)
		d.Uppercase = true
		h.Children = append(h.Children, &Node{
			Kind:        KindBadge,
			Role:        RoleFixedPrice,
			Border:      b.AccentColor,
			BorderWidth: 1,
			Radius:      4,
			Padding:     XY(16, 6),
			Children:    []*Node{text("", m.FixedPrice, d, "")},
		})
	}
	return h
}

func (r *renderer) logo(isPrint bool) *Node {
	b := r.brand
	n := &Node{Kind: KindImage, Role: RoleLogo, Image: b.LogoURL}
	switch b.LogoStyle {
	case menu.LogoOriginal:
		n.Height = 96
		n.Fit = FitContain
	default:
		n.Width, n.Height = 96, 96
		n.Fit = FitCover
		n.Background = glassLight
		n.Clip = ClipCircle
		if b.LogoStyle == menu.LogoRounded {
			n.Clip = ClipRounded
			n.Radius = 16
		}
	}
	if isPrint {
		n.Width, n.Height = 192, 192
	}
	return n
}

func (r *renderer) sections() *Node {
	n := &Node{Kind: KindColumn, Role: RoleSections, Gap: 24, Grow: true}
	if r.canvas.Wide() {
		n.Kind = KindGrid
		n.Columns = r.canvas.Columns
		n.Gap = 48
		n.Align = CrossStart
	}
	for _, sec := range r.menu.Sections {
		n.Children = append(n.Children, r.section(sec))
	}
	return n
}

func (r *renderer) section(sec menu.MenuSection) *Node {
	b := r.brand
	n := &Node{Kind: KindColumn, Role: RoleSection, Padding: Insets{Bottom: 32}}

	title := text(RoleSectionTitle, sec.Title, style.Resolve(b.Styles.SectionTitle, b.PrimaryColor, r.canvas.Base), b.FontTitle)
	title.Padding = Insets{Bottom: 8}
	n.Children = append(n.Children,
		title,
		&Node{Kind: KindRule, Background: b.AccentColor, Height: 1},
		&Node{Kind: KindSpacer, Height: 16},
	)

	items := &Node{Kind: KindColumn, Gap: 16}
	for _, it := range sec.Items {
		items.Children = append(items.Children, r.item(it))
	}
	n.Children = append(n.Children, items)
	return n
}

func (r *renderer) item(it menu.MenuItem) *Node {
	b := r.brand
	n := &Node{Kind: KindColumn, Role: RoleItem, Gap: 4}

	row := &Node{Kind: KindRow, Gap: 8, Justify: JustifyBetween, Align: CrossEnd}
	row.Children = append(row.Children, r.itemName(it, 0))
	if it.Price != "" {
		row.Children = append(row.Children, r.itemPrice(it, 0))
	}
	n.Children = append(n.Children, row)

	if it.Description != "" {
		d := text(RoleDescription, "", style.Resolve(b.Styles.ItemDescription, "", r.canvas.Base), "")
		d.Spans = richtext.Parse(it.Description)
		d.Opacity = 0.8
		n.Children = append(n.Children, d)
	}

	if it.Allergens != "" {
		d := style.Plain(r.em(0.7), menu.AlignLeft, false, "")
		a := text(RoleAllergens, "", d, "")
		a.Spans = []richtext.Span{{Text: "ALLERGENI:", Bold: true}, {Text: " " + it.Allergens}}
		a.Opacity = 0.6
		n.Children = append(n.Children, a)
	}
	return n
}

// itemName renders the name, accent-colored and marked when highlighted.
// maxLines 0 wraps freely.
func (r *renderer) itemName(it menu.MenuItem, maxLines int) *Node {
	b := r.brand
	override := ""
	if it.Highlight {
		override = b.AccentColor
	}
	n := text(RoleItemName, it.Name, style.Resolve(b.Styles.ItemName, override, r.canvas.Base), "")
	n.Grow = true
	n.MaxLines = maxLines
	if it.Highlight {
		n.Icon = IconStar
	}
	return n
}

func (r *renderer) itemPrice(it menu.MenuItem, unit float64) *Node {
	b := r.brand
	if unit == 0 {
		unit = r.canvas.Base
	}
	n := text(RolePrice, it.Price, style.Resolve(b.Styles.Price, b.AccentColor, unit), "")
	n.MaxLines = 1
	return n
}

func (r *renderer) footer() *Node {
	b, m := r.brand, r.menu
	isPrint := r.mode == ModePrint
	size := r.em(0.875)
	if isPrint {
		size = r.em(1)
	}

	f := &Node{Kind: KindColumn, Role: RoleFooter, Padding: Insets{Top: 48, Bottom: 32}, Align: CrossCenter}
	f.Children = append(f.Children,
		&Node{Kind: KindRule, Background: glassLight, Height: 1},
		&Node{Kind: KindSpacer, Height: 24},
	)

	if m.FooterNote != "" {
		n := text(RoleFooterNote, m.FooterNote, style.Plain(size, menu.AlignCenter, false, ""), "")
		n.Opacity = 0.7
		n.Padding = Insets{Bottom: 24}
		f.Children = append(f.Children, n)
	}

	if s := m.Socials; s != nil && !s.Empty() {
		block := &Node{Kind: KindColumn, Gap: 16, Align: CrossCenter, Opacity: 0.9}
		if s.CompanyName != "" {
			d := style.Plain(size, menu.AlignCenter, true, "")
			d.Uppercase = true
			block.Children = append(block.Children, text(RoleCompany, s.CompanyName, d, ""))
		}
		gap := 16.0
		if r.canvas.Wide() {
			gap = 32
		}
		rows := &Node{Kind: KindRow, Wrap: true, Justify: JustifyCenter, Gap: gap}
		add := func(icon Icon, value, color string) {
			n := text(RoleSocialValue, value, style.Plain(size, menu.AlignLeft, false, color), "")
			n.Icon = icon
			rows.Children = append(rows.Children, n)
		}
		if s.Phone != "" {
			add(IconPhone, s.Phone, b.AccentColor)
		}
		if s.Instagram != "" {
			add(IconInstagram, stripHandle(s.Instagram), "")
		}
		if s.TikTok != "" {
			add(IconTikTok, stripHandle(s.TikTok), "")
		}
		if s.Website != "" {
			add(IconGlobe, stripScheme(s.Website), "")
		}
		if len(rows.Children) > 0 {
			block.Children = append(block.Children, rows)
		}
		f.Children = append(f.Children, block)
	}

	if isPrint {
		f.Children = append(f.Children,
			&Node{Kind: KindSpacer, Height: 24},
			&Node{Kind: KindQR, Role: RoleQR, Text: r.qrURL(), Width: 150, Height: 150},
		)
	}
	return f
}

func (r *renderer) qrURL() string {
	if r.params.QRURL != "" {
		return r.params.QRURL
	}
	if s := r.menu.Socials; s != nil && s.Website != "" {
		w := s.Website
		if !schemeRe.MatchString(w) {
			w = "https://" + w
		}
		return w
	}
	return PlaceholderQRURL
}

func text(role Role, s string, d style.Descriptor, font string) *Node {
	return &Node{Kind: KindText, Role: role, Text: s, Style: &d, Font: font}
}

var schemeRe = regexp.MustCompile(`^https?://`)

func stripHandle(s string) string { return strings.TrimPrefix(s, "@") }

func stripScheme(s string) string { return schemeRe.ReplaceAllString(s, "") }
