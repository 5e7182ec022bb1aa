package render

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ziadkadry99/menu-studio/internal/richtext"
	"github.com/ziadkadry99/menu-studio/internal/style"
)

// Kind is the layout behaviour of a node.
type Kind string

const (
	// KindCanvas stacks its children on top of each other at full size.
	KindCanvas     Kind = "canvas"
	KindBackground Kind = "background"
	KindOverlay    Kind = "overlay"
	KindColumn     Kind = "column"
	KindRow        Kind = "row"
	KindGrid       Kind = "grid"
	// KindCard is a column with a fill, border and rounded corners.
	KindCard   Kind = "card"
	KindText   Kind = "text"
	KindImage  Kind = "image"
	KindRule   Kind = "rule"
	KindBadge  Kind = "badge"
	KindQR     Kind = "qr"
	KindSpacer Kind = "spacer"
)

// Role names what a node shows. Tests and the preview tools locate content
// by role.
type Role string

const (
	RoleHeader        Role = "header"
	RoleLogo          Role = "logo"
	RoleTitle         Role = "title"
	RoleSubtitle      Role = "subtitle"
	RoleFixedPrice    Role = "fixed-price"
	RoleSections      Role = "sections"
	RoleSection       Role = "section"
	RoleSectionTitle  Role = "section-title"
	RoleSectionNumber Role = "section-number"
	RoleItem          Role = "item"
	RoleItemName      Role = "item-name"
	RolePrice         Role = "price"
	RoleDescription   Role = "description"
	RoleAllergens     Role = "allergens"
	RoleFooter        Role = "footer"
	RoleFooterNote    Role = "footer-note"
	RoleCompany       Role = "company"
	RoleSocialRow     Role = "social-row"
	RoleSocialLabel   Role = "social-label"
	RoleSocialValue   Role = "social-value"
	RoleQR            Role = "qr"
	RoleKicker        Role = "kicker"
	RoleAccentBar     Role = "accent-bar"
	RoleSwipe         Role = "swipe"
	RolePageIndicator Role = "page-indicator"
	RoleMore          Role = "more"
	RoleCallToAction  Role = "call-to-action"
	RoleLinkInBio     Role = "link-in-bio"
	RoleContent       Role = "content"
)

// Justify distributes children along the main axis.
type Justify string

const (
	JustifyStart   Justify = ""
	JustifyCenter  Justify = "center"
	JustifyEnd     Justify = "end"
	JustifyBetween Justify = "between"
)

// CrossAlign positions children on the cross axis.
type CrossAlign string

const (
	CrossStretch CrossAlign = ""
	CrossStart   CrossAlign = "start"
	CrossCenter  CrossAlign = "center"
	CrossEnd     CrossAlign = "end"
)

// Fit is how an image fills its box.
type Fit string

const (
	FitCover   Fit = "cover"
	FitContain Fit = "contain"
)

// Clip is the mask applied to an image.
type Clip string

const (
	ClipNone    Clip = ""
	ClipRounded Clip = "rounded"
	ClipCircle  Clip = "circle"
)

// Pin takes a node out of flow and anchors it to its parent's padding box.
type Pin string

const (
	PinNone        Pin = ""
	PinBottom      Pin = "bottom"
	PinBottomRight Pin = "bottom-right"
)

// Icon is a small vector glyph drawn before a text node's content.
type Icon string

const (
	IconNone      Icon = ""
	IconStar      Icon = "star"
	IconPhone     Icon = "phone"
	IconInstagram Icon = "instagram"
	IconTikTok    Icon = "tiktok"
	IconGlobe     Icon = "globe"
	IconChevron   Icon = "chevron"
)

// Font ids outside the brand catalog, used for fixed chrome text.
const (
	FontSans = "sans"
	FontMono = "mono"
)

// Insets is padding in logical pixels.
type Insets struct {
	Top    float64 `json:"top,omitempty"`
	Right  float64 `json:"right,omitempty"`
	Bottom float64 `json:"bottom,omitempty"`
	Left   float64 `json:"left,omitempty"`
}

// All returns equal insets on every side.
func All(v float64) Insets { return Insets{v, v, v, v} }

// XY returns horizontal and vertical insets.
func XY(x, y float64) Insets { return Insets{Top: y, Right: x, Bottom: y, Left: x} }

// Frame is a decorative border inset from a card's edge.
type Frame struct {
	Inset  float64 `json:"inset"`
	Color  string  `json:"color"`
	Radius float64 `json:"radius"`
}

// Node is one element of a visual tree. Sizes are logical pixels; zero
// width or height means "size to content" (or stretch, per the parent).
type Node struct {
	Kind Kind `json:"kind"`
	Role Role `json:"role,omitempty"`

	Text  string            `json:"text,omitempty"`
	Spans []richtext.Span   `json:"spans,omitempty"`
	Style *style.Descriptor `json:"style,omitempty"`
	Icon  Icon              `json:"icon,omitempty"`
	// MaxLines truncates wrapped text; 0 is unlimited.
	MaxLines int `json:"maxLines,omitempty"`

	// Font is a catalog font id; Color the ambient text color. Both are
	// inherited by descendants that leave them empty.
	Font  string `json:"font,omitempty"`
	Color string `json:"color,omitempty"`
	// Opacity multiplies the node and its subtree; 0 means opaque.
	Opacity float64 `json:"opacity,omitempty"`

	Background  string  `json:"background,omitempty"`
	Gradient    string  `json:"gradient,omitempty"`
	Border      string  `json:"border,omitempty"`
	BorderWidth float64 `json:"borderWidth,omitempty"`
	Radius      float64 `json:"radius,omitempty"`
	Frame       *Frame  `json:"frame,omitempty"`

	Image string `json:"image,omitempty"`
	Fit   Fit    `json:"fit,omitempty"`
	Clip  Clip   `json:"clip,omitempty"`

	Width   float64    `json:"width,omitempty"`
	Height  float64    `json:"height,omitempty"`
	Padding Insets     `json:"padding,omitempty"`
	Gap     float64    `json:"gap,omitempty"`
	Columns int        `json:"columns,omitempty"`
	Align   CrossAlign `json:"align,omitempty"`
	Justify Justify    `json:"justify,omitempty"`
	// Grow lets the node take the free main-axis space of its parent.
	Grow bool `json:"grow,omitempty"`
	Wrap bool `json:"wrap,omitempty"`
	Pin  Pin  `json:"pin,omitempty"`

	Children []*Node `json:"children,omitempty"`
}

// Content returns the text a node shows, after case transforms.
func (n *Node) Content() string {
	text := n.Text
	if len(n.Spans) > 0 {
		text = richtext.PlainText(n.Spans)
	}
	if n.Style != nil {
		text = n.Style.Apply(text)
	}
	return text
}

// Walk visits n and its descendants depth first. Returning false from fn
// skips the node's children.
func Walk(n *Node, fn func(*Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, c := range n.Children {
		Walk(c, fn)
	}
}

// FindAll returns every node with the given role, in document order.
func FindAll(root *Node, role Role) []*Node {
	var out []*Node
	Walk(root, func(n *Node) bool {
		if n.Role == role {
			out = append(out, n)
		}
		return true
	})
	return out
}

// Find returns the first node with the given role, or nil.
func Find(root *Node, role Role) *Node {
	if all := FindAll(root, role); len(all) > 0 {
		return all[0]
	}
	return nil
}

// Texts returns the content of every text node under root.
func Texts(root *Node) []string {
	var out []string
	Walk(root, func(n *Node) bool {
		if n.Kind == KindText {
			out = append(out, n.Content())
		}
		return true
	})
	return out
}

// ImageURLs returns the distinct image URLs a tree references, sorted.
func ImageURLs(root *Node) []string {
	seen := map[string]bool{}
	Walk(root, func(n *Node) bool {
		if n.Image != "" {
			seen[n.Image] = true
		}
		return true
	})
	out := make([]string, 0, len(seen))
	for u := range seen {
		out = append(out, u)
	}
	sort.Strings(out)
	return out
}

// Dump renders the tree as indented text, one node per line.
func Dump(root *Node) string {
	var b strings.Builder
	dump(&b, root, 0)
	return b.String()
}

func dump(b *strings.Builder, n *Node, depth int) {
	if n == nil {
		return
	}
	b.WriteString(strings.Repeat("  ", depth))
	b.WriteString(string(n.Kind))
	if n.Role != "" {
		fmt.Fprintf(b, "[%s]", n.Role)
	}
	if n.Icon != IconNone {
		fmt.Fprintf(b, " <%s>", n.Icon)
	}
	if n.Kind == KindText {
		fmt.Fprintf(b, " %q", n.Content())
	}
	if n.Image != "" {
		fmt.Fprintf(b, " src=%s", n.Image)
	}
	if n.Kind == KindQR {
		fmt.Fprintf(b, " url=%s", n.Text)
	}
	if n.Style != nil {
		switch n.Style.Fill.Kind {
		case style.FillColor:
			fmt.Fprintf(b, " color=%s", n.Style.Fill.Color)
		case style.FillGradient:
			b.WriteString(" fill=gradient")
		}
	}
	if n.Columns > 1 {
		fmt.Fprintf(b, " cols=%d", n.Columns)
	}
	b.WriteByte('\n')
	for _, c := range n.Children {
		dump(b, c, depth+1)
	}
}
