package menu

// BrandPatch is a partial BrandProfile. Nil fields are left untouched
// when the patch is applied.
type BrandPatch struct {
	PrimaryColor    *string `json:"primaryColor,omitempty"`
	AccentColor     *string `json:"accentColor,omitempty"`
	BackgroundColor *string `json:"backgroundColor,omitempty"`
	TextColor       *string `json:"textColor,omitempty"`

	FontTitle *string `json:"fontTitle,omitempty"`
	FontBody  *string `json:"fontBody,omitempty"`

	LogoURL   *string    `json:"logoUrl,omitempty"`
	LogoStyle *LogoStyle `json:"logoStyle,omitempty"`

	BackgroundImageURL *string      `json:"backgroundImageUrl,omitempty"`
	OverlayMode        *OverlayMode `json:"overlayMode,omitempty"`
	OverlayColor       *string      `json:"overlayColor,omitempty"`
	OverlayOpacity     *float64     `json:"overlayOpacity,omitempty"`

	Styles *StylesPatch `json:"styles,omitempty"`
}

// StylesPatch overrides whole slots; nil slots keep the current style.
type StylesPatch struct {
	SectionTitle    *TypographyStyle `json:"sectionTitle,omitempty"`
	ItemName        *TypographyStyle `json:"itemName,omitempty"`
	ItemDescription *TypographyStyle `json:"itemDescription,omitempty"`
	Price           *TypographyStyle `json:"price,omitempty"`
}

// ApplyTo merges p onto b. Top-level fields replace, styles merge slot by
// slot.
func (p BrandPatch) ApplyTo(b BrandProfile) BrandProfile {
	setString(&b.PrimaryColor, p.PrimaryColor)
	setString(&b.AccentColor, p.AccentColor)
	setString(&b.BackgroundColor, p.BackgroundColor)
	setString(&b.TextColor, p.TextColor)
	setString(&b.FontTitle, p.FontTitle)
	setString(&b.FontBody, p.FontBody)
	setString(&b.LogoURL, p.LogoURL)
	setString(&b.BackgroundImageURL, p.BackgroundImageURL)
	setString(&b.OverlayColor, p.OverlayColor)
	if p.LogoStyle != nil {
		b.LogoStyle = *p.LogoStyle
	}
	if p.OverlayMode != nil {
		b.OverlayMode = *p.OverlayMode
	}
	if p.OverlayOpacity != nil {
		b.OverlayOpacity = ClampOpacity(*p.OverlayOpacity)
	}
	if s := p.Styles; s != nil {
		if s.SectionTitle != nil {
			b.Styles.SectionTitle = *s.SectionTitle
		}
		if s.ItemName != nil {
			b.Styles.ItemName = *s.ItemName
		}
		if s.ItemDescription != nil {
			b.Styles.ItemDescription = *s.ItemDescription
		}
		if s.Price != nil {
			b.Styles.Price = *s.Price
		}
	}
	return b
}

// Visual keeps only the color, background image and overlay fields of p.
// Fonts, logo and styles are dropped.
func (p BrandPatch) Visual() BrandPatch {
	return BrandPatch{
		PrimaryColor:       p.PrimaryColor,
		AccentColor:        p.AccentColor,
		BackgroundColor:    p.BackgroundColor,
		TextColor:          p.TextColor,
		BackgroundImageURL: p.BackgroundImageURL,
		OverlayMode:        p.OverlayMode,
		OverlayColor:       p.OverlayColor,
		OverlayOpacity:     p.OverlayOpacity,
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
