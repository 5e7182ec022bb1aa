// Package style maps typography records and color inputs to renderable
// style descriptors.
package style

import (
	"strings"

	"github.com/ziadkadry99/menu-studio/internal/menu"
)

// FillKind says where a text color comes from.
type FillKind string

const (
	FillInherit  FillKind = "inherit"
	FillColor    FillKind = "color"
	FillGradient FillKind = "gradient"
)

// Fill is the resolved text paint.
type Fill struct {
	Kind     FillKind `json:"kind"`
	Color    string   `json:"color,omitempty"`
	Gradient string   `json:"gradient,omitempty"`
}

// Descriptor is a fully resolved text style. Size is in logical pixels.
type Descriptor struct {
	Align     menu.Align `json:"align"`
	Bold      bool       `json:"bold,omitempty"`
	Italic    bool       `json:"italic,omitempty"`
	Uppercase bool       `json:"uppercase,omitempty"`
	Underline bool       `json:"underline,omitempty"`
	Size      float64    `json:"size"`
	Fill      Fill       `json:"fill"`
}

// Resolve maps ts to a descriptor. Color precedence is textGradient, then
// ts.Color, then override, then the ambient text color. unit is the size
// of 1em in the current render mode.
func Resolve(ts menu.TypographyStyle, override string, unit float64) Descriptor {
	d := Descriptor{
		Align:     ts.Align,
		Bold:      ts.Bold,
		Italic:    ts.Italic,
		Uppercase: ts.Uppercase,
		Underline: ts.Underline,
		Size:      ts.Scale * unit,
	}
	if !d.Align.Valid() {
		d.Align = menu.AlignLeft
	}
	switch {
	case ts.TextGradient != "":
		d.Fill = Fill{Kind: FillGradient, Gradient: ts.TextGradient}
	case ts.Color != "":
		d.Fill = Fill{Kind: FillColor, Color: ts.Color}
	case override != "":
		d.Fill = Fill{Kind: FillColor, Color: override}
	default:
		d.Fill = Fill{Kind: FillInherit}
	}
	return d
}

// Plain builds a descriptor for fixed chrome text that has no slot.
func Plain(size float64, align menu.Align, bold bool, color string) Descriptor {
	d := Descriptor{Align: align, Bold: bold, Size: size, Fill: Fill{Kind: FillInherit}}
	if color != "" {
		d.Fill = Fill{Kind: FillColor, Color: color}
	}
	return d
}

// Apply transforms text the way the descriptor's case setting demands.
func (d Descriptor) Apply(text string) string {
	if d.Uppercase {
		return strings.ToUpper(text)
	}
	return text
}
