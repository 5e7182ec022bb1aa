// Package preview resolves what a preview surface should show.
package preview

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"github.com/ziadkadry99/menu-studio/internal/menu"
	"github.com/ziadkadry99/menu-studio/internal/render"
)

// ErrInvalidRequest is returned for requests that cannot be rendered.
var ErrInvalidRequest = errors.New("invalid preview request")

// Request selects a mode and its parameters.
type Request struct {
	Mode     render.Mode  `json:"mode"`
	Viewport float64      `json:"viewport,omitempty"`
	Slide    render.Slide `json:"slide"`
	QRURL    string       `json:"qrUrl,omitempty"`
}

// Default is the normal mode at the phone viewport.
func Default() Request {
	return Request{Mode: render.ModeNormal, Viewport: render.DefaultViewport, Slide: render.Slide{Kind: render.SlideCover}}
}

// FromQuery overlays the mode, viewport, slide and index query parameters
// on def.
func FromQuery(v url.Values, def Request) (Request, error) {
	q := def
	if m := v.Get("mode"); m != "" {
		q.Mode = render.Mode(m)
	}
	if s := v.Get("viewport"); s != "" {
		w, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return q, fmt.Errorf("%w: viewport %q", ErrInvalidRequest, s)
		}
		q.Viewport = w
	}
	if s := v.Get("slide"); s != "" {
		q.Slide = render.Slide{Kind: render.SlideKind(s)}
	}
	if s := v.Get("index"); s != "" {
		i, err := strconv.Atoi(s)
		if err != nil {
			return q, fmt.Errorf("%w: index %q", ErrInvalidRequest, s)
		}
		q.Slide.Index = i
	}
	return q, nil
}

// Validate checks q against m so that rendering cannot panic.
func (q Request) Validate(m menu.FullMenu) error {
	if !q.Mode.Valid() {
		return fmt.Errorf("%w: unknown mode %q", ErrInvalidRequest, q.Mode)
	}
	if q.Mode == render.ModeNormal && q.Viewport < 0 {
		return fmt.Errorf("%w: negative viewport", ErrInvalidRequest)
	}
	if q.Mode != render.ModeCarousel {
		return nil
	}
	if !q.Slide.Kind.Valid() {
		return fmt.Errorf("%w: unknown slide %q", ErrInvalidRequest, q.Slide.Kind)
	}
	if q.Slide.Kind == render.SlideSection && (q.Slide.Index < 0 || q.Slide.Index >= len(m.Sections)) {
		return fmt.Errorf("%w: section %d out of range [0,%d)", ErrInvalidRequest, q.Slide.Index, len(m.Sections))
	}
	return nil
}

// Params converts q for render.Render.
func (q Request) Params() render.Params {
	return render.Params{Viewport: q.Viewport, Slide: q.Slide, QRURL: q.QRURL}
}

// Render validates q and renders st.
func Render(st menu.AppState, q Request) (*render.Node, error) {
	if err := q.Validate(st.Menu); err != nil {
		return nil, err
	}
	return render.Render(st.Menu, st.Brand, q.Mode, q.Params()), nil
}
