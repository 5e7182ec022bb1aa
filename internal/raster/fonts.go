package raster

import (
	"fmt"
	"math"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/gomediumitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/gomonobolditalic"
	"golang.org/x/image/font/gofont/gomonoitalic"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// family is the four faces of one typeface.
type family struct {
	regular, bold, italic, boldItalic *opentype.Font
}

func (f family) pick(bold, italic bool) *opentype.Font {
	switch {
	case bold && italic:
		return f.boldItalic
	case bold:
		return f.bold
	case italic:
		return f.italic
	}
	return f.regular
}

type faceKey struct {
	family string
	bold   bool
	italic bool
	size   int // 1/64 px
}

// FontBank maps font ids to embedded Go fonts and caches faces.
type FontBank struct {
	families map[string]family
	fallback family

	mu    sync.Mutex
	cache map[faceKey]font.Face
}

// NewFontBank parses the embedded fonts. Catalog ids without a close Go
// equivalent fall back to the sans family.
func NewFontBank() (*FontBank, error) {
	parse := func(name string, data []byte) (*opentype.Font, error) {
		f, err := opentype.Parse(data)
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", name, err)
		}
		return f, nil
	}
	var (
		fonts = map[string]*opentype.Font{}
		srcs  = map[string][]byte{
			"regular":        goregular.TTF,
			"bold":           gobold.TTF,
			"italic":         goitalic.TTF,
			"bolditalic":     gobolditalic.TTF,
			"medium":         gomedium.TTF,
			"mediumitalic":   gomediumitalic.TTF,
			"mono":           gomono.TTF,
			"monobold":       gomonobold.TTF,
			"monoitalic":     gomonoitalic.TTF,
			"monobolditalic": gomonobolditalic.TTF,
		}
	)
	for name, data := range srcs {
		f, err := parse(name, data)
		if err != nil {
			return nil, err
		}
		fonts[name] = f
	}

	sans := family{fonts["regular"], fonts["bold"], fonts["italic"], fonts["bolditalic"]}
	medium := family{fonts["medium"], fonts["bold"], fonts["mediumitalic"], fonts["bolditalic"]}
	script := family{fonts["italic"], fonts["bolditalic"], fonts["italic"], fonts["bolditalic"]}
	mono := family{fonts["mono"], fonts["monobold"], fonts["monoitalic"], fonts["monobolditalic"]}

	return &FontBank{
		families: map[string]family{
			"sans":         sans,
			"lato":         sans,
			"opensans":     sans,
			"playfair":     sans,
			"merriweather": medium,
			"oswald":       medium,
			"dancing":      script,
			"mono":         mono,
		},
		fallback: sans,
		cache:    map[faceKey]font.Face{},
	}, nil
}

// Face returns a cached face for the given font id, style and pixel size.
func (b *FontBank) Face(id string, bold, italic bool, size float64) font.Face {
	if size <= 0 {
		size = 1
	}
	key := faceKey{family: id, bold: bold, italic: italic, size: int(math.Round(size * 64))}

	b.mu.Lock()
	defer b.mu.Unlock()
	if f, ok := b.cache[key]; ok {
		return f
	}
	fam, ok := b.families[id]
	if !ok {
		fam = b.fallback
	}
	face, err := opentype.NewFace(fam.pick(bold, italic), &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return basicfont.Face7x13
	}
	b.cache[key] = face
	return face
}
