// Package onboarding runs the first-launch flow: pick a starting menu,
// then optionally style it from a restaurant type and a vibe.
package onboarding

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ziadkadry99/menu-studio/internal/importer"
	"github.com/ziadkadry99/menu-studio/internal/menu"
	"github.com/ziadkadry99/menu-studio/internal/mutator"
	"github.com/ziadkadry99/menu-studio/internal/presets"
)

// ErrNoText is returned when an import is requested with blank text.
var ErrNoText = errors.New("menu text is empty")

// Plan is what the user chose. Manual starts from the starter menu and
// ignores the rest. Otherwise Text is imported; when Restaurant or Vibe
// is set the brand is rebuilt from the defaults with those presets.
type Plan struct {
	Manual     bool   `json:"manual"`
	Text       string `json:"text,omitempty"`
	Restaurant string `json:"restaurant,omitempty"`
	Vibe       string `json:"vibe,omitempty"`
}

// Styled reports whether the plan asks for preset styling.
func (p Plan) Styled() bool {
	return !p.Manual && (p.Restaurant != "" || (p.Vibe != "" && p.Vibe != "none"))
}

// Flow completes onboarding plans.
type Flow struct {
	Importer importer.Importer
	Presets  *presets.Catalog
	Mutator  *mutator.Mutator
}

// Complete applies p to st. The brand is kept unless the plan is styled.
func (f Flow) Complete(ctx context.Context, st menu.AppState, p Plan) (menu.AppState, error) {
	if p.Manual {
		return f.Mutator.CompleteOnboarding(st, menu.StarterMenu(), nil), nil
	}
	if strings.TrimSpace(p.Text) == "" {
		return st, ErrNoText
	}
	fm, err := f.Importer.Import(ctx, p.Text)
	if err != nil {
		return st, fmt.Errorf("importing menu: %w", err)
	}
	if !p.Styled() {
		return f.Mutator.CompleteOnboarding(st, fm, nil), nil
	}
	brand := f.Presets.ComposeOnboarding(menu.DefaultBrand(), p.Restaurant, p.Vibe)
	return f.Mutator.CompleteOnboarding(st, fm, &brand), nil
}
