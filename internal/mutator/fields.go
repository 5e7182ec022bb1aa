package mutator

// MenuField names a scalar field of the menu.
type MenuField string

const (
	FieldTitle      MenuField = "title"
	FieldSubtitle   MenuField = "subtitle"
	FieldFixedPrice MenuField = "fixedPrice"
	FieldFooterNote MenuField = "footerNote"
)

// SocialField names a contact row.
type SocialField string

const (
	SocialCompanyName SocialField = "companyName"
	SocialPhone       SocialField = "phone"
	SocialInstagram   SocialField = "instagram"
	SocialTikTok      SocialField = "tiktok"
	SocialWebsite     SocialField = "website"
)

// ColorField names a brand color.
type ColorField string

const (
	ColorPrimary    ColorField = "primaryColor"
	ColorAccent     ColorField = "accentColor"
	ColorBackground ColorField = "backgroundColor"
	ColorText       ColorField = "textColor"
	ColorOverlay    ColorField = "overlayColor"
)

// FontSlot names one of the two brand font choices.
type FontSlot string

const (
	FontTitle FontSlot = "fontTitle"
	FontBody  FontSlot = "fontBody"
)

// ItemField names an editable text field of an item.
type ItemField string

const (
	ItemName        ItemField = "name"
	ItemDescription ItemField = "description"
	ItemPrice       ItemField = "price"
	ItemAllergens   ItemField = "allergens"
)

// Flag names a boolean typography field.
type Flag string

const (
	FlagBold      Flag = "bold"
	FlagItalic    Flag = "italic"
	FlagUppercase Flag = "uppercase"
	FlagUnderline Flag = "underline"
)

var (
	menuFields   = []string{string(FieldTitle), string(FieldSubtitle), string(FieldFixedPrice), string(FieldFooterNote)}
	socialFields = []string{string(SocialCompanyName), string(SocialPhone), string(SocialInstagram), string(SocialTikTok), string(SocialWebsite)}
	colorFields  = []string{string(ColorPrimary), string(ColorAccent), string(ColorBackground), string(ColorText), string(ColorOverlay)}
	fontSlots    = []string{string(FontTitle), string(FontBody)}
	itemFields   = []string{string(ItemName), string(ItemDescription), string(ItemPrice), string(ItemAllergens)}
	flags        = []string{string(FlagBold), string(FlagItalic), string(FlagUppercase), string(FlagUnderline)}
)
