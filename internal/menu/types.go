package menu

import (
	"encoding/json"
	"fmt"
)

// Align is the horizontal alignment of a typography slot.
type Align string

const (
	AlignLeft   Align = "left"
	AlignCenter Align = "center"
	AlignRight  Align = "right"
)

// Valid reports whether a is one of the known alignments.
func (a Align) Valid() bool {
	return a == AlignLeft || a == AlignCenter || a == AlignRight
}

// LogoStyle controls how the logo is clipped.
type LogoStyle string

const (
	LogoOriginal LogoStyle = "original"
	LogoRounded  LogoStyle = "rounded"
	LogoCircle   LogoStyle = "circle"
)

func (l LogoStyle) Valid() bool {
	return l == LogoOriginal || l == LogoRounded || l == LogoCircle
}

// OverlayMode selects between a flat overlay and a top-to-bottom fade.
type OverlayMode string

const (
	OverlaySolid    OverlayMode = "solid"
	OverlayGradient OverlayMode = "gradient"
)

func (o OverlayMode) Valid() bool {
	return o == OverlaySolid || o == OverlayGradient
}

// Slot names one of the four typography targets.
type Slot string

const (
	SlotSectionTitle    Slot = "sectionTitle"
	SlotItemName        Slot = "itemName"
	SlotItemDescription Slot = "itemDescription"
	SlotPrice           Slot = "price"
)

// Slots lists every typography slot in display order.
var Slots = []Slot{SlotSectionTitle, SlotItemName, SlotItemDescription, SlotPrice}

func (s Slot) Valid() bool {
	switch s {
	case SlotSectionTitle, SlotItemName, SlotItemDescription, SlotPrice:
		return true
	}
	return false
}

// MenuItem is a single dish or drink.
type MenuItem struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Price       string `json:"price,omitempty"`
	Highlight   bool   `json:"highlight,omitempty"`
	Allergens   string `json:"allergens,omitempty"`
}

// MenuSection groups items under a heading. Item order is display order.
type MenuSection struct {
	ID    string     `json:"id"`
	Title string     `json:"title"`
	Items []MenuItem `json:"items"`
}

// SocialInfo holds contact rows. Empty fields are not rendered.
type SocialInfo struct {
	CompanyName string `json:"companyName,omitempty"`
	Phone       string `json:"phone,omitempty"`
	Instagram   string `json:"instagram,omitempty"`
	TikTok      string `json:"tiktok,omitempty"`
	Website     string `json:"website,omitempty"`
}

// Empty reports whether no contact row would be rendered.
func (s *SocialInfo) Empty() bool {
	return s == nil || *s == SocialInfo{}
}

// FullMenu is the content half of a document.
type FullMenu struct {
	Title      string        `json:"title"`
	Subtitle   string        `json:"subtitle,omitempty"`
	FixedPrice string        `json:"fixedPrice,omitempty"`
	Sections   []MenuSection `json:"sections"`
	FooterNote string        `json:"footerNote,omitempty"`
	Socials    *SocialInfo   `json:"socials,omitempty"`
}

// TypographyStyle describes how one slot is typeset. TextGradient, when
// set, wins over Color.
type TypographyStyle struct {
	Align        Align   `json:"align" yaml:"align"`
	Bold         bool    `json:"bold" yaml:"bold"`
	Italic       bool    `json:"italic" yaml:"italic"`
	Uppercase    bool    `json:"uppercase" yaml:"uppercase"`
	Underline    bool    `json:"underline" yaml:"underline"`
	Scale        float64 `json:"scale" yaml:"scale"`
	Color        string  `json:"color,omitempty" yaml:"color,omitempty"`
	TextGradient string  `json:"textGradient,omitempty" yaml:"textGradient,omitempty"`
}

// Styles always carries all four slots.
type Styles struct {
	SectionTitle    TypographyStyle `json:"sectionTitle"`
	ItemName        TypographyStyle `json:"itemName"`
	ItemDescription TypographyStyle `json:"itemDescription"`
	Price           TypographyStyle `json:"price"`
}

// UnmarshalJSON seeds every slot with its default before decoding, so a
// blob that omits a slot or a slot field still yields complete styles.
func (s *Styles) UnmarshalJSON(data []byte) error {
	type plain Styles
	p := plain(DefaultStyles())
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*s = Styles(p)
	return nil
}

// Get returns the style of the given slot.
func (s Styles) Get(slot Slot) TypographyStyle {
	switch slot {
	case SlotSectionTitle:
		return s.SectionTitle
	case SlotItemName:
		return s.ItemName
	case SlotItemDescription:
		return s.ItemDescription
	case SlotPrice:
		return s.Price
	}
	panic(fmt.Sprintf("menu: unknown style slot %q", slot))
}

// With returns a copy of s with slot replaced by ts.
func (s Styles) With(slot Slot, ts TypographyStyle) Styles {
	switch slot {
	case SlotSectionTitle:
		s.SectionTitle = ts
	case SlotItemName:
		s.ItemName = ts
	case SlotItemDescription:
		s.ItemDescription = ts
	case SlotPrice:
		s.Price = ts
	default:
		panic(fmt.Sprintf("menu: unknown style slot %q", slot))
	}
	return s
}

// BrandProfile is the visual half of a document.
type BrandProfile struct {
	PrimaryColor    string `json:"primaryColor"`
	AccentColor     string `json:"accentColor"`
	BackgroundColor string `json:"backgroundColor"`
	TextColor       string `json:"textColor"`

	FontTitle string `json:"fontTitle"`
	FontBody  string `json:"fontBody"`

	LogoURL   string    `json:"logoUrl,omitempty"`
	LogoStyle LogoStyle `json:"logoStyle"`

	BackgroundImageURL string      `json:"backgroundImageUrl,omitempty"`
	OverlayMode        OverlayMode `json:"overlayMode"`
	OverlayColor       string      `json:"overlayColor"`
	OverlayOpacity     float64     `json:"overlayOpacity"`

	Styles Styles `json:"styles"`
}

// AppState is the single root of truth for one document.
type AppState struct {
	Menu         FullMenu     `json:"menu"`
	Brand        BrandProfile `json:"brand"`
	HasOnboarded bool         `json:"hasOnboarded"`
}

// UnmarshalJSON seeds the brand styles before decoding so a blob without
// a styles record still yields four slots.
func (b *BrandProfile) UnmarshalJSON(data []byte) error {
	type plain BrandProfile
	p := plain(*b)
	p.Styles = DefaultStyles()
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*b = BrandProfile(p)
	return nil
}
