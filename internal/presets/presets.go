// Package presets holds the built-in theme catalog.
package presets

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/ziadkadry99/menu-studio/internal/menu"
)

//go:embed presets.yaml
var builtin []byte

// Well-known category ids.
const (
	CategorySeasons     = "seasons"
	CategoryRestaurants = "restaurants"
	CategoryEvents      = "events"
)

// Preset is a named partial brand.
type Preset struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Category string          `json:"category"`
	Brand    menu.BrandPatch `json:"brand"`
}

// Category groups presets for display.
type Category struct {
	ID      string   `json:"id"`
	Title   string   `json:"title"`
	Presets []Preset `json:"presets"`
}

// Catalog is a loaded preset catalog.
type Catalog struct {
	Categories []Category `json:"categories"`
	byID       map[string]Preset
}

type styleDoc struct {
	Align        *menu.Align `yaml:"align"`
	Bold         *bool       `yaml:"bold"`
	Italic       *bool       `yaml:"italic"`
	Uppercase    *bool       `yaml:"uppercase"`
	Underline    *bool       `yaml:"underline"`
	Scale        *float64    `yaml:"scale"`
	Color        *string     `yaml:"color"`
	TextGradient *string     `yaml:"textGradient"`
}

type brandDoc struct {
	PrimaryColor       *string             `yaml:"primaryColor"`
	AccentColor        *string             `yaml:"accentColor"`
	BackgroundColor    *string             `yaml:"backgroundColor"`
	TextColor          *string             `yaml:"textColor"`
	FontTitle          *string             `yaml:"fontTitle"`
	FontBody           *string             `yaml:"fontBody"`
	BackgroundImageURL *string             `yaml:"backgroundImageUrl"`
	OverlayMode        *menu.OverlayMode   `yaml:"overlayMode"`
	OverlayColor       *string             `yaml:"overlayColor"`
	OverlayOpacity     *float64            `yaml:"overlayOpacity"`
	Styles             map[string]styleDoc `yaml:"styles"`
}

type catalogDoc struct {
	Categories []struct {
		ID      string `yaml:"id"`
		Title   string `yaml:"title"`
		Presets []struct {
			ID    string   `yaml:"id"`
			Name  string   `yaml:"name"`
			Brand brandDoc `yaml:"brand"`
		} `yaml:"presets"`
	} `yaml:"categories"`
}

// Parse reads a catalog from YAML. Style slots are completed from
// menu.DefaultStyle, so a preset only lists what it changes.
func Parse(data []byte) (*Catalog, error) {
	var doc catalogDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing preset catalog: %w", err)
	}
	c := &Catalog{byID: map[string]Preset{}}
	for _, cd := range doc.Categories {
		cat := Category{ID: cd.ID, Title: cd.Title}
		for _, pd := range cd.Presets {
			if pd.ID == "" {
				return nil, fmt.Errorf("category %s: preset without id", cd.ID)
			}
			if _, dup := c.byID[pd.ID]; dup {
				return nil, fmt.Errorf("duplicate preset id %q", pd.ID)
			}
			patch, err := pd.Brand.patch()
			if err != nil {
				return nil, fmt.Errorf("preset %s: %w", pd.ID, err)
			}
			p := Preset{ID: pd.ID, Name: pd.Name, Category: cd.ID, Brand: patch}
			cat.Presets = append(cat.Presets, p)
			c.byID[p.ID] = p
		}
		c.Categories = append(c.Categories, cat)
	}
	return c, nil
}

func (d brandDoc) patch() (menu.BrandPatch, error) {
	for _, f := range []*string{d.FontTitle, d.FontBody} {
		if f == nil {
			continue
		}
		if _, ok := menu.FontByID(*f); !ok {
			return menu.BrandPatch{}, fmt.Errorf("unknown font %q", *f)
		}
	}
	if d.OverlayMode != nil && !d.OverlayMode.Valid() {
		return menu.BrandPatch{}, fmt.Errorf("unknown overlay mode %q", *d.OverlayMode)
	}
	p := menu.BrandPatch{
		PrimaryColor:       d.PrimaryColor,
		AccentColor:        d.AccentColor,
		BackgroundColor:    d.BackgroundColor,
		TextColor:          d.TextColor,
		FontTitle:          d.FontTitle,
		FontBody:           d.FontBody,
		BackgroundImageURL: d.BackgroundImageURL,
		OverlayMode:        d.OverlayMode,
		OverlayColor:       d.OverlayColor,
		OverlayOpacity:     d.OverlayOpacity,
	}
	if len(d.Styles) == 0 {
		return p, nil
	}
	p.Styles = &menu.StylesPatch{}
	for slot, sd := range d.Styles {
		st, err := sd.complete()
		if err != nil {
			return menu.BrandPatch{}, fmt.Errorf("style %s: %w", slot, err)
		}
		switch slot {
		case "sectionTitle":
			p.Styles.SectionTitle = &st
		case "itemName":
			p.Styles.ItemName = &st
		case "itemDescription":
			p.Styles.ItemDescription = &st
		case "price":
			p.Styles.Price = &st
		default:
			return menu.BrandPatch{}, fmt.Errorf("unknown style slot %q", slot)
		}
	}
	return p, nil
}

func (d styleDoc) complete() (menu.TypographyStyle, error) {
	st := menu.DefaultStyle()
	if d.Align != nil {
		if !d.Align.Valid() {
			return st, fmt.Errorf("unknown align %q", *d.Align)
		}
		st.Align = *d.Align
	}
	setBool(&st.Bold, d.Bold)
	setBool(&st.Italic, d.Italic)
	setBool(&st.Uppercase, d.Uppercase)
	setBool(&st.Underline, d.Underline)
	if d.Scale != nil {
		st.Scale = menu.ClampScale(*d.Scale)
	}
	if d.Color != nil {
		st.Color = *d.Color
	}
	if d.TextGradient != nil {
		st.TextGradient = *d.TextGradient
	}
	return st, nil
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}

var defaultCatalog = func() *Catalog {
	c, err := Parse(builtin)
	if err != nil {
		panic(err)
	}
	return c
}()

// Default returns the built-in catalog.
func Default() *Catalog { return defaultCatalog }

// Find looks a preset up by id.
func (c *Catalog) Find(id string) (Preset, bool) {
	p, ok := c.byID[id]
	return p, ok
}

// Category returns the category with id.
func (c *Catalog) Category(id string) (Category, bool) {
	for _, cat := range c.Categories {
		if cat.ID == id {
			return cat, true
		}
	}
	return Category{}, false
}

// All returns every preset in catalog order.
func (c *Catalog) All() []Preset {
	var out []Preset
	for _, cat := range c.Categories {
		out = append(out, cat.Presets...)
	}
	return out
}

// Vibes returns the presets offered as the second onboarding step.
func (c *Catalog) Vibes() []Preset {
	var out []Preset
	for _, id := range []string{CategorySeasons, CategoryEvents} {
		if cat, ok := c.Category(id); ok {
			out = append(out, cat.Presets...)
		}
	}
	return out
}

// ComposeOnboarding builds the brand the onboarding wizard ends with:
// base, then the restaurant preset in full, then only the visual fields of
// the vibe preset. Unknown or empty ids are skipped.
func (c *Catalog) ComposeOnboarding(base menu.BrandProfile, restaurantID, vibeID string) menu.BrandProfile {
	b := base
	if p, ok := c.Find(restaurantID); ok && p.Category == CategoryRestaurants {
		b = p.Brand.ApplyTo(b)
	}
	if p, ok := c.Find(vibeID); ok && (p.Category == CategorySeasons || p.Category == CategoryEvents) {
		b = p.Brand.Visual().ApplyTo(b)
	}
	return b
}
