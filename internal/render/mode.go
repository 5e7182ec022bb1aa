package render

import (
	"fmt"

	"github.com/ziadkadry99/menu-studio/internal/menu"
)

// Mode selects a layout.
type Mode string

const (
	ModeNormal   Mode = "normal"
	ModePrint    Mode = "print"
	ModeStory    Mode = "story"
	ModeCarousel Mode = "carousel"
)

// Modes lists every render mode.
var Modes = []Mode{ModeNormal, ModePrint, ModeStory, ModeCarousel}

func (m Mode) Valid() bool {
	switch m {
	case ModeNormal, ModePrint, ModeStory, ModeCarousel:
		return true
	}
	return false
}

// SlideKind discriminates carousel slides.
type SlideKind string

const (
	SlideCover    SlideKind = "cover"
	SlideSection  SlideKind = "section"
	SlideContacts SlideKind = "contacts"
)

func (k SlideKind) Valid() bool {
	switch k {
	case SlideCover, SlideSection, SlideContacts:
		return true
	}
	return false
}

// Slide is one carousel page. Index is used by section slides only.
type Slide struct {
	Kind  SlideKind `json:"kind"`
	Index int       `json:"index,omitempty"`
}

func (s Slide) String() string {
	if s.Kind == SlideSection {
		return fmt.Sprintf("section(%d)", s.Index)
	}
	return string(s.Kind)
}

// SlideCount is the number of carousel pages a menu produces.
func SlideCount(m menu.FullMenu) int { return len(m.Sections) + 2 }

// Slides returns the carousel pages in export order: cover, one per
// section, contacts.
func Slides(m menu.FullMenu) []Slide {
	out := make([]Slide, 0, SlideCount(m))
	out = append(out, Slide{Kind: SlideCover})
	for i := range m.Sections {
		out = append(out, Slide{Kind: SlideSection, Index: i})
	}
	return append(out, Slide{Kind: SlideContacts})
}

// Params are the per-mode inputs besides the document.
type Params struct {
	// Viewport is the preview width for ModeNormal.
	Viewport float64 `json:"viewport,omitempty"`
	// Slide selects the page for ModeCarousel.
	Slide Slide `json:"slide"`
	// QRURL overrides the destination of the print QR code.
	QRURL string `json:"qrUrl,omitempty"`
}

// Layout breakpoints and fixed canvases, in logical pixels.
const (
	WideBreakpoint  = 768
	DefaultViewport = 375

	PrintWidth     = 794
	PrintHeight    = 1123
	StoryWidth     = 540
	StoryHeight    = 960
	CarouselWidth  = 540
	CarouselHeight = 675
)

// CarouselMaxItems is how many items a section slide shows before
// summarizing the rest.
const CarouselMaxItems = 6

// PlaceholderQRURL is encoded when the menu has no website.
const PlaceholderQRURL = "https://example.com/menu"

// Canvas is the frame a mode renders into. Height 0 grows with content.
type Canvas struct {
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
	Base    float64 `json:"base"`
	Padding float64 `json:"padding"`
	Columns int     `json:"columns"`
}

// Wide reports whether sections are laid out in a grid.
func (c Canvas) Wide() bool { return c.Columns > 1 }

// CanvasFor returns the canvas mode renders into.
func CanvasFor(mode Mode, p Params) Canvas {
	switch mode {
	case ModePrint:
		return Canvas{Width: PrintWidth, Height: PrintHeight, Base: 18, Padding: 80, Columns: 2}
	case ModeStory:
		return Canvas{Width: StoryWidth, Height: StoryHeight, Base: 16, Padding: 32, Columns: 1}
	case ModeCarousel:
		return Canvas{Width: CarouselWidth, Height: CarouselHeight, Base: 10, Padding: 16, Columns: 1}
	}
	vw := p.Viewport
	if vw <= 0 {
		vw = DefaultViewport
	}
	if vw < WideBreakpoint {
		return Canvas{Width: vw, Base: 16, Padding: 32, Columns: 1}
	}
	return Canvas{Width: vw, Base: 16, Padding: 48, Columns: 2}
}
