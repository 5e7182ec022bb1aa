package onboarding

import (
	"context"
	"fmt"
	"os"

	"github.com/manifoldco/promptui"

	"github.com/ziadkadry99/menu-studio/internal/presets"
)

// Prompter asks the user questions.
type Prompter interface {
	Select(label string, items []string) (int, error)
	Input(label, def string) (string, error)
}

// Terminal prompts with promptui.
type Terminal struct{}

func (Terminal) Select(label string, items []string) (int, error) {
	i, _, err := (&promptui.Select{Label: label, Items: items, Size: 10}).Run()
	return i, err
}

func (Terminal) Input(label, def string) (string, error) {
	return (&promptui.Prompt{Label: label, Default: def}).Run()
}

// ReadFile loads import text. Tests replace it.
var ReadFile = os.ReadFile

// AskPlan walks the user through the onboarding choices.
func AskPlan(ctx context.Context, p Prompter, cat *presets.Catalog) (Plan, error) {
	start, err := p.Select("How do you want to start?", []string{
		"Start from scratch",
		"Import an existing menu from a text file",
	})
	if err != nil {
		return Plan{}, fmt.Errorf("start selection: %w", err)
	}
	if start == 0 {
		return Plan{Manual: true}, nil
	}

	path, err := p.Input("Path to the menu text file", "menu.txt")
	if err != nil {
		return Plan{}, fmt.Errorf("menu file: %w", err)
	}
	data, err := ReadFile(path)
	if err != nil {
		return Plan{}, fmt.Errorf("reading %s: %w", path, err)
	}
	plan := Plan{Text: string(data)}
	if err := ctx.Err(); err != nil {
		return Plan{}, err
	}

	magic, err := p.Select("Style it with a theme?", []string{"Yes, pick a restaurant type and a vibe", "No, keep the current look"})
	if err != nil {
		return Plan{}, fmt.Errorf("theme choice: %w", err)
	}
	if magic != 0 {
		return plan, nil
	}

	restaurants, _ := cat.Category(presets.CategoryRestaurants)
	if len(restaurants.Presets) > 0 {
		i, err := p.Select("Restaurant type", names(restaurants.Presets))
		if err != nil {
			return Plan{}, fmt.Errorf("restaurant selection: %w", err)
		}
		plan.Restaurant = restaurants.Presets[i].ID
	}

	vibes := cat.Vibes()
	i, err := p.Select("Vibe", append([]string{"Keep the restaurant colors"}, names(vibes)...))
	if err != nil {
		return Plan{}, fmt.Errorf("vibe selection: %w", err)
	}
	if i > 0 {
		plan.Vibe = vibes[i-1].ID
	}
	return plan, nil
}

func names(ps []presets.Preset) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.Name
	}
	return out
}
