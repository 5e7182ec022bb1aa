package render

import (
	"fmt"

	"github.com/ziadkadry99/menu-studio/internal/menu"
	"github.com/ziadkadry99/menu-studio/internal/richtext"
	"github.com/ziadkadry99/menu-studio/internal/style"
)

// Fixed carousel copy.
const (
	CoverKicker   = "Ristorante"
	CoverSwipe    = "SCOPRI"
	MoreItems     = "...e molto altro"
	ContactsTitle = "Prenota Ora"
	LinkInBio     = "Link in Bio"
)

func (r *renderer) slide(s Slide) *Node {
	var card *Node
	switch s.Kind {
	case SlideCover:
		card = r.cover()
	case SlideSection:
		if s.Index < 0 || s.Index >= len(r.menu.Sections) {
			panic(fmt.Sprintf("render: carousel section %d out of range [0,%d)", s.Index, len(r.menu.Sections)))
		}
		card = r.sectionSlide(s.Index)
	case SlideContacts:
		card = r.contacts()
	default:
		panic(fmt.Sprintf("render: unknown slide kind %q", s.Kind))
	}
	card.Grow = true
	return &Node{
		Kind:     KindColumn,
		Padding:  All(r.canvas.Padding),
		Children: []*Node{card},
	}
}

func (r *renderer) card() *Node {
	return &Node{
		Kind:        KindCard,
		Background:  shadeCard,
		Border:      glassLight,
		BorderWidth: 1,
		Radius:      24,
	}
}

func (r *renderer) frame() *Frame {
	return &Frame{Inset: 8, Color: glassBorder, Radius: 20}
}

func (r *renderer) cover() *Node {
	b, m := r.brand, r.menu
	c := r.card()
	c.Frame = r.frame()
	c.Padding = All(24)
	c.Align = CrossCenter
	c.Justify = JustifyBetween

	top := &Node{Kind: KindColumn, Align: CrossCenter, Gap: 12, Padding: Insets{Top: 16}}
	if b.LogoURL != "" {
		logo := &Node{Kind: KindImage, Role: RoleLogo, Image: b.LogoURL, Width: 80, Height: 80, Fit: FitCover,
			Border: glassLight, BorderWidth: 2, Clip: ClipRounded, Radius: 12}
		if b.LogoStyle == menu.LogoCircle {
			logo.Clip, logo.Radius = ClipCircle, 0
		}
		top.Children = append(top.Children, logo)
	}
	kicker := style.Plain(r.em(0.875), menu.AlignCenter, false, "")
	kicker.Uppercase = true
	k := text(RoleKicker, CoverKicker, kicker, "")
	k.Opacity = 0.7
	top.Children = append(top.Children, k)

	ts := b.Styles.SectionTitle
	ts.Scale = 1
	title := style.Resolve(ts, b.PrimaryColor, r.em(6))
	title.Bold = true
	title.Align = menu.AlignCenter
	middle := &Node{Kind: KindColumn, Align: CrossCenter, Gap: 12, Children: []*Node{
		text(RoleTitle, m.Title, title, b.FontTitle),
		{Kind: KindRule, Role: RoleAccentBar, Background: b.AccentColor, Width: 64, Height: 4, Radius: 2},
	}}

	bottom := &Node{Kind: KindColumn, Align: CrossCenter, Padding: Insets{Bottom: 24}}
	if m.Subtitle != "" {
		d := style.Plain(r.em(1.5), menu.AlignCenter, true, b.AccentColor)
		d.Uppercase = true
		bottom.Children = append(bottom.Children, &Node{
			Kind:        KindBadge,
			Background:  glassLight,
			Border:      glassBorder,
			BorderWidth: 1,
			Radius:      999,
			Padding:     XY(24, 8),
			Children:    []*Node{text(RoleSubtitle, m.Subtitle, d, "")},
		})
	}

	swipe := text(RoleSwipe, CoverSwipe, style.Plain(r.em(1.125), menu.AlignRight, true, ""), "")
	swipe.Icon = IconChevron
	swipe.Opacity = 0.6
	swipe.Pin = PinBottomRight

	c.Children = []*Node{top, middle, bottom, swipe}
	return c
}

func (r *renderer) sectionSlide(i int) *Node {
	b, m := r.brand, r.menu
	sec := m.Sections[i]
	c := r.card()

	head := &Node{Kind: KindRow, Justify: JustifyBetween, Align: CrossStart, Background: shadeLight,
		Padding: Insets{Top: 24, Right: 24, Bottom: 16, Left: 24}, Gap: 12}
	title := text(RoleSectionTitle, sec.Title, style.Resolve(b.Styles.SectionTitle, b.PrimaryColor, r.em(4)), b.FontTitle)
	title.Grow = true
	num := text(RoleSectionNumber, fmt.Sprintf("%02d", i+1), style.Plain(r.em(3.75), menu.AlignRight, true, ""), FontSans)
	num.Opacity = 0.1
	head.Children = []*Node{title, num}

	list := &Node{Kind: KindColumn, Grow: true, Gap: 16, Padding: All(24)}
	shown := sec.Items
	if len(shown) > CarouselMaxItems {
		shown = shown[:CarouselMaxItems]
	}
	for _, it := range shown {
		row := &Node{Kind: KindRow, Justify: JustifyBetween, Align: CrossEnd, Gap: 8, Padding: Insets{Bottom: 4}}
		row.Children = append(row.Children, r.itemName(it, 1))
		price := r.itemPrice(it, r.canvas.Base)
		price.Font = b.FontTitle
		row.Children = append(row.Children, price)

		item := &Node{Kind: KindColumn, Role: RoleItem, Gap: 4, Children: []*Node{
			row,
			{Kind: KindRule, Background: glassLight, Height: 1},
		}}
		if it.Description != "" {
			d := text(RoleDescription, "", style.Resolve(b.Styles.ItemDescription, "", r.em(1.125)), "")
			d.Spans = richtext.Parse(it.Description)
			d.MaxLines = 2
			d.Opacity = 0.7
			item.Children = append(item.Children, d)
		}
		list.Children = append(list.Children, item)
	}
	if len(sec.Items) > CarouselMaxItems {
		d := style.Plain(r.canvas.Base, menu.AlignCenter, false, "")
		d.Italic = true
		more := text(RoleMore, MoreItems, d, "")
		more.Opacity = 0.5
		list.Children = append(list.Children, more)
	}

	foot := &Node{Kind: KindRow, Justify: JustifyBetween, Align: CrossCenter, Background: shadeLight,
		Padding: XY(16, 12), Opacity: 0.5, Font: FontMono}
	small := style.Plain(r.em(0.875), menu.AlignLeft, false, "")
	foot.Children = []*Node{
		text("", m.Title, small, ""),
		text(RolePageIndicator, fmt.Sprintf("%d / %d", i+2, SlideCount(m)), small, ""),
	}

	c.Children = []*Node{head, list, foot}
	return c
}

func (r *renderer) contacts() *Node {
	b, m := r.brand, r.menu
	c := r.card()
	c.Frame = r.frame()
	c.Padding = All(24)
	c.Align = CrossCenter
	c.Justify = JustifyCenter
	c.Gap = 24

	c.Children = append(c.Children, text(RoleCallToAction, ContactsTitle,
		style.Plain(r.em(4), menu.AlignCenter, true, b.PrimaryColor), b.FontTitle))

	if s := m.Socials; s != nil {
		rows := &Node{Kind: KindColumn, Gap: 16, Padding: XY(16, 0), Align: CrossStretch}
		if s.CompanyName != "" {
			d := style.Plain(r.em(2.25), menu.AlignCenter, true, "")
			d.Uppercase = true
			company := text(RoleCompany, s.CompanyName, d, "")
			company.Padding = Insets{Bottom: 16}
			rows.Children = append(rows.Children, company,
				&Node{Kind: KindRule, Background: glassBorder, Height: 1},
				&Node{Kind: KindSpacer, Height: 8},
			)
		}
		if s.Phone != "" {
			rows.Children = append(rows.Children, r.contactRow(IconPhone, "Telefono", s.Phone, glassLight, r.em(1.875), b.AccentColor, 0, FontMono))
		}
		if s.Instagram != "" {
			rows.Children = append(rows.Children, r.contactRow(IconInstagram, "Instagram", stripHandle(s.Instagram), glassFaint, r.em(1.5), "", 0.8, ""))
		}
		if s.TikTok != "" {
			rows.Children = append(rows.Children, r.contactRow(IconTikTok, "TikTok", stripHandle(s.TikTok), glassFaint, r.em(1.5), "", 0.8, ""))
		}
		if s.Website != "" {
			rows.Children = append(rows.Children, r.contactRow(IconGlobe, "Website", stripScheme(s.Website), glassFaint, r.em(1.5), "", 0.8, ""))
		}
		c.Children = append(c.Children, rows)
	}

	d := style.Plain(r.em(1.125), menu.AlignCenter, false, "")
	d.Uppercase = true
	link := text(RoleLinkInBio, LinkInBio, d, "")
	link.Opacity = 0.4
	link.Pin = PinBottom
	link.Padding = Insets{Bottom: 16}
	c.Children = append(c.Children, link)
	return c
}

func (r *renderer) contactRow(icon Icon, label, value, fill string, size float64, labelColor string, labelOpacity float64, valueFont string) *Node {
	l := text(RoleSocialLabel, label, style.Plain(size, menu.AlignLeft, true, labelColor), "")
	l.Icon = icon
	l.Opacity = labelOpacity
	v := text(RoleSocialValue, value, style.Plain(size, menu.AlignRight, false, ""), valueFont)
	v.MaxLines = 1
	return &Node{
		Kind:        KindRow,
		Role:        RoleSocialRow,
		Justify:     JustifyBetween,
		Align:       CrossCenter,
		Background:  fill,
		Border:      fill,
		BorderWidth: 1,
		Radius:      16,
		Padding:     All(12),
		Gap:         12,
		Children:    []*Node{l, v},
	}
}
