package menu

// Font is an entry of the closed font catalog.
type Font struct {
	ID    string
	Label string
	// Family is the CSS font-family stack.
	Family string
	// Webfont is the family parameter of a Google Fonts css2 request.
	Webfont string
}

// Fonts is the closed catalog fontTitle and fontBody draw from.
var Fonts = []Font{
	{ID: "playfair", Label: "Playfair Display (Elegante)", Family: "'Playfair Display', serif", Webfont: "Playfair+Display:ital,wght@0,400;0,700;1,400;1,700"},
	{ID: "merriweather", Label: "Merriweather (Classico)", Family: "'Merriweather', serif", Webfont: "Merriweather:ital,wght@0,400;0,700;1,400;1,700"},
	{ID: "oswald", Label: "Oswald (Moderno/Bold)", Family: "'Oswald', sans-serif", Webfont: "Oswald:wght@400;700"},
	{ID: "lato", Label: "Lato (Pulito)", Family: "'Lato', sans-serif", Webfont: "Lato:ital,wght@0,400;0,700;1,400;1,700"},
	{ID: "opensans", Label: "Open Sans (Leggibile)", Family: "'Open Sans', sans-serif", Webfont: "Open+Sans:ital,wght@0,400;0,700;1,400;1,700"},
	{ID: "dancing", Label: "Dancing Script (Manuale)", Family: "'Dancing Script', cursive", Webfont: "Dancing+Script:wght@400;700"},
}

// FontByID looks up a catalog font.
func FontByID(id string) (Font, bool) {
	for _, f := range Fonts {
		if f.ID == id {
			return f, true
		}
	}
	return Font{}, false
}

// FontIDs returns the catalog ids in order.
func FontIDs() []string {
	ids := make([]string, len(Fonts))
	for i, f := range Fonts {
		ids[i] = f.ID
	}
	return ids
}

// TextGradient is a named gradient fill for typography slots.
type TextGradient struct {
	Name  string
	Value string
}

// TextGradients lists the gradient fills offered in the editor. The first
// entry clears the gradient.
var TextGradients = []TextGradient{
	{Name: "Nessuno", Value: ""},
	{Name: "Oro", Value: "linear-gradient(to right, #bf953f, #fcf6ba, #b38728, #fbf5b7, #aa771c)"},
	{Name: "Argento", Value: "linear-gradient(to right, #dcdcdc, #f8f8f8, #a9a9a9)"},
	{Name: "Rame", Value: "linear-gradient(to right, #e65c00, #f9d423)"},
	{Name: "Oceano", Value: "linear-gradient(to right, #2E3192, #1BFFFF)"},
	{Name: "Tramonto", Value: "linear-gradient(to right, #fc5c7d, #6a82fb)"},
	{Name: "Lime", Value: "linear-gradient(to right, #11998e, #38ef7d)"},
}

// Palette is a four-color quick theme.
type Palette struct {
	Name       string
	Background string
	Text       string
	Primary    string
	Accent     string
}

// Palettes lists the color-only quick themes.
var Palettes = []Palette{
	{Name: "Oceano", Background: "#0f172a", Text: "#e2e8f0", Primary: "#38bdf8", Accent: "#0ea5e9"},
	{Name: "Foresta", Background: "#052e16", Text: "#f0fdf4", Primary: "#86efac", Accent: "#4ade80"},
	{Name: "Tramonto", Background: "#431407", Text: "#ffedd5", Primary: "#fb923c", Accent: "#f97316"},
	{Name: "Monocromo", Background: "#000000", Text: "#ffffff", Primary: "#ffffff", Accent: "#a3a3a3"},
	{Name: "Reale", Background: "#312e81", Text: "#e0e7ff", Primary: "#c7d2fe", Accent: "#fbbf24"},
	{Name: "Lavanda", Background: "#2e1065", Text: "#f3e8ff", Primary: "#d8b4fe", Accent: "#c084fc"},
}

// PaletteByName looks up a palette, case-sensitively.
func PaletteByName(name string) (Palette, bool) {
	for _, p := range Palettes {
		if p.Name == name {
			return p, true
		}
	}
	return Palette{}, false
}

// BackgroundCategory groups background images by theme.
type BackgroundCategory struct {
	Name   string
	Images []string
}

func unsplash(id string) string {
	return "https://images.unsplash.com/photo-" + id + "?q=80&w=1080&auto=format&fit=crop"
}

// BackgroundGallery is the curated background image gallery.
var BackgroundGallery = []BackgroundCategory{
	{Name: "Pizzeria", Images: []string{
		unsplash("1574071318508-1cdbab80d002"), unsplash("1513104890138-7c749659a591"),
		unsplash("1604382354936-07c5d9983bd3"), unsplash("1590947132387-155cc02f3212"),
		unsplash("1585238342024-78d387f4a707"),
	}},
	{Name: "Cucina Italiana", Images: []string{
		unsplash("1473093295043-cdd812d0e601"), unsplash("1595295333158-4742f28fbd85"),
		unsplash("1544669896-1877995eb87a"), unsplash("1514362545857-3bc16c4c7d1b"),
		unsplash("1621996346565-e3dbc646d9a9"),
	}},
	{Name: "Sushi & Asia", Images: []string{
		unsplash("1579871494447-9811cf80d66c"), unsplash("1553621042-f6e147245754"),
		unsplash("1569718212165-3a8278d5f624"), unsplash("1580822184713-fc5400e7fe10"),
		unsplash("1552539618-7eec9b4d1796"),
	}},
	{Name: "Gourmet & Carne", Images: []string{
		unsplash("1544025162-d76694265947"), unsplash("1414235077428-338989a2e8c0"),
		unsplash("1504674900247-0877df9cc836"), unsplash("1559339352-11d035aa65de"),
	}},
	{Name: "Fast Food", Images: []string{
		unsplash("1561758033-d89a9ad46330"), unsplash("1550547660-d9450f859349"),
		unsplash("1568901346375-23c9450c58cd"), unsplash("1594212699903-ec8a3eca50f5"),
	}},
	{Name: "Dolci & Colazione", Images: []string{
		unsplash("1509042239860-f550ce710b93"), unsplash("1578985545062-69928b1d9587"),
		unsplash("1558961363-fa8fdf82db35"), unsplash("1461023058943-07fcbe16d735"),
	}},
	{Name: "Stagioni", Images: []string{
		unsplash("1490750967868-58cb75069ed6"), unsplash("1507525428034-b723cf961d3e"),
		unsplash("1508264165352-258db2ebd59b"), unsplash("1483664852095-d6cc6870702d"),
		unsplash("1560159752-d6d027f3005a"),
	}},
	{Name: "Feste & Eventi", Images: []string{
		unsplash("1512474932049-78ea696f9c42"), unsplash("1576618148400-f54bed99fcf8"),
		unsplash("1508341591423-4347099e1f19"), unsplash("1530103862676-de3c9a59af38"),
		unsplash("1515934751635-c81c6bc9a2d8"),
	}},
	{Name: "Texture & Astratto", Images: []string{
		unsplash("1550684848-fac1c5b4e853"), unsplash("1533035353720-f1c6a75cd8ab"),
		unsplash("1524312792348-7357c9183494"), unsplash("1558591710-4b4a1ae0f04d"),
	}},
}
