package style

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"
)

// Stop is one color stop of a linear gradient. Offset is in [0,1].
type Stop struct {
	Color  color.NRGBA
	Offset float64
}

// Gradient is a parsed CSS linear-gradient. DX/DY is the unit direction
// the gradient runs along, in screen coordinates.
type Gradient struct {
	DX, DY float64
	Stops  []Stop
}

// ParseGradient parses "linear-gradient(<direction>?, <color> [<pct>]?, ...)".
func ParseGradient(s string) (Gradient, error) {
	s = strings.TrimSpace(s)
	const prefix = "linear-gradient("
	if !strings.HasPrefix(strings.ToLower(s), prefix) || !strings.HasSuffix(s, ")") {
		return Gradient{}, fmt.Errorf("unsupported gradient %q", s)
	}
	args := splitTopLevel(s[len(prefix) : len(s)-1])
	if len(args) == 0 {
		return Gradient{}, fmt.Errorf("empty gradient %q", s)
	}

	g := Gradient{DX: 0, DY: 1}
	if dx, dy, ok := parseDirection(args[0]); ok {
		g.DX, g.DY = dx, dy
		args = args[1:]
	}
	if len(args) < 2 {
		return Gradient{}, fmt.Errorf("gradient %q needs at least two stops", s)
	}

	g.Stops = make([]Stop, len(args))
	explicit := make([]bool, len(args))
	for i, a := range args {
		colorPart, offset := a, -1.0
		if sp := strings.LastIndexByte(a, ' '); sp > 0 && strings.HasSuffix(a, "%") {
			v, err := strconv.ParseFloat(strings.TrimSuffix(a[sp+1:], "%"), 64)
			if err == nil {
				colorPart, offset = strings.TrimSpace(a[:sp]), v/100
			}
		}
		c, err := ParseColor(colorPart)
		if err != nil {
			return Gradient{}, fmt.Errorf("gradient stop %d: %w", i, err)
		}
		g.Stops[i].Color = c
		if offset >= 0 {
			g.Stops[i].Offset = offset
			explicit[i] = true
		}
	}
	if !explicit[0] {
		g.Stops[0].Offset = 0
	}
	if last := len(g.Stops) - 1; !explicit[last] {
		g.Stops[last].Offset = 1
		explicit[last] = true
	}
	explicit[0] = true
	// Spread implicit stops evenly between their explicit neighbours.
	for i := 1; i < len(g.Stops); {
		if explicit[i] {
			i++
			continue
		}
		j := i
		for !explicit[j] {
			j++
		}
		from, to := g.Stops[i-1].Offset, g.Stops[j].Offset
		n := float64(j - i + 1)
		for k := i; k < j; k++ {
			g.Stops[k].Offset = from + (to-from)*float64(k-i+1)/n
		}
		i = j
	}
	return g, nil
}

// At returns the color at position t in [0,1] along the gradient.
func (g Gradient) At(t float64) color.NRGBA {
	if len(g.Stops) == 0 {
		return color.NRGBA{}
	}
	if t <= g.Stops[0].Offset {
		return g.Stops[0].Color
	}
	for i := 1; i < len(g.Stops); i++ {
		a, b := g.Stops[i-1], g.Stops[i]
		if t <= b.Offset {
			if b.Offset == a.Offset {
				return b.Color
			}
			f := (t - a.Offset) / (b.Offset - a.Offset)
			return lerp(a.Color, b.Color, f)
		}
	}
	return g.Stops[len(g.Stops)-1].Color
}

// Vertical returns a top-to-bottom gradient between two colors.
func Vertical(from, to color.NRGBA) Gradient {
	return Gradient{DX: 0, DY: 1, Stops: []Stop{{Color: from, Offset: 0}, {Color: to, Offset: 1}}}
}

func lerp(a, b color.NRGBA, f float64) color.NRGBA {
	mix := func(x, y uint8) uint8 { return uint8(math.Round(float64(x) + (float64(y)-float64(x))*f)) }
	return color.NRGBA{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: mix(a.A, b.A)}
}

func parseDirection(arg string) (dx, dy float64, ok bool) {
	arg = strings.ToLower(strings.TrimSpace(arg))
	switch arg {
	case "to right":
		return 1, 0, true
	case "to left":
		return -1, 0, true
	case "to bottom":
		return 0, 1, true
	case "to top":
		return 0, -1, true
	case "to bottom right", "to right bottom":
		return math.Sqrt2 / 2, math.Sqrt2 / 2, true
	case "to top right", "to right top":
		return math.Sqrt2 / 2, -math.Sqrt2 / 2, true
	case "to bottom left", "to left bottom":
		return -math.Sqrt2 / 2, math.Sqrt2 / 2, true
	case "to top left", "to left top":
		return -math.Sqrt2 / 2, -math.Sqrt2 / 2, true
	}
	if strings.HasSuffix(arg, "deg") {
		deg, err := strconv.ParseFloat(strings.TrimSuffix(arg, "deg"), 64)
		if err != nil {
			return 0, 0, false
		}
		// CSS angles: 0deg points up, increasing clockwise.
		rad := deg * math.Pi / 180
		return math.Sin(rad), -math.Cos(rad), true
	}
	return 0, 0, false
}

// splitTopLevel splits on commas that are not nested inside parentheses.
func splitTopLevel(s string) []string {
	var parts []string
	depth, start := 0, 0
	for i, r := range s {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, strings.TrimSpace(s[start:i]))
				start = i + 1
			}
		}
	}
	if tail := strings.TrimSpace(s[start:]); tail != "" {
		parts = append(parts, tail)
	}
	return parts
}
