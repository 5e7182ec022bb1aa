package menu

// DefaultStyle is the neutral typography every slot and preset starts from.
func DefaultStyle() TypographyStyle {
	return TypographyStyle{Align: AlignLeft, Scale: 1}
}

// DefaultStyles returns the four slots a new document starts with.
func DefaultStyles() Styles {
	sectionTitle := DefaultStyle()
	sectionTitle.Align = AlignCenter
	sectionTitle.Bold = true
	sectionTitle.Uppercase = true
	sectionTitle.Scale = 1.2

	itemName := DefaultStyle()
	itemName.Bold = true

	itemDescription := DefaultStyle()
	itemDescription.Scale = 0.9

	price := DefaultStyle()
	price.Bold = true
	price.Align = AlignRight

	return Styles{
		SectionTitle:    sectionTitle,
		ItemName:        itemName,
		ItemDescription: itemDescription,
		Price:           price,
	}
}

// DefaultBackgroundImage is the restaurant interior used by new documents.
const DefaultBackgroundImage = "https://images.unsplash.com/photo-1517248135467-4c7edcad34c4?q=80&w=1080&auto=format&fit=crop"

// DefaultBrand returns the brand profile of a fresh document.
func DefaultBrand() BrandProfile {
	return BrandProfile{
		PrimaryColor:       "#ffffff",
		AccentColor:        "#facc15",
		BackgroundColor:    "#111827",
		TextColor:          "#f3f4f6",
		FontTitle:          "playfair",
		FontBody:           "lato",
		LogoStyle:          LogoCircle,
		BackgroundImageURL: DefaultBackgroundImage,
		OverlayMode:        OverlaySolid,
		OverlayColor:       "#000000",
		OverlayOpacity:     0.6,
		Styles:             DefaultStyles(),
	}
}

// DefaultMenu returns the sample menu shown before onboarding.
func DefaultMenu() FullMenu {
	return FullMenu{
		Title:    "Gusto & Sapore",
		Subtitle: "Menù Stagionale 2025",
		Sections: []MenuSection{
			{
				ID:    "sec-1",
				Title: "Antipasti",
				Items: []MenuItem{
					{ID: "it-1", Name: "Trilogia di Bruschette", Description: "Pomodoro fresco, paté di olive, crema al tartufo", Price: "12€"},
					{ID: "it-2", Name: "Carpaccio di Manzo", Description: "Con scaglie di parmigiano e rucola selvatica", Price: "16€", Highlight: true},
				},
			},
			{
				ID:    "sec-2",
				Title: "Primi Piatti",
				Items: []MenuItem{
					{ID: "it-3", Name: "Risotto al Tartufo", Description: "Riso Carnaroli, tartufo nero estivo, mantecato al burro", Price: "22€"},
					{ID: "it-4", Name: "Tagliolini al Salmone", Description: "Pasta fresca all'uovo con salmone affumicato e aneto", Price: "18€"},
				},
			},
		},
		FooterNote: "Coperto 2.50€ - Si prega di comunicare eventuali allergie allo staff.",
	}
}

// EmptyMenu returns a titled menu with no sections.
func EmptyMenu() FullMenu {
	return FullMenu{Title: "Nuovo Menù", Sections: []MenuSection{}}
}

// StarterMenu is what a manual onboarding start produces.
func StarterMenu() FullMenu {
	return FullMenu{
		Title: "Nuovo Menù",
		Sections: []MenuSection{
			{ID: "1", Title: "Antipasti", Items: []MenuItem{{ID: "1", Name: "Piatto Esempio", Price: "10€"}}},
		},
	}
}

// NewAppState returns the document a first launch (or "start over") sees.
func NewAppState() AppState {
	return AppState{Menu: DefaultMenu(), Brand: DefaultBrand()}
}
