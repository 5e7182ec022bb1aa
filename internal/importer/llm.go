package importer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/ziadkadry99/menu-studio/internal/llm"
	"github.com/ziadkadry99/menu-studio/internal/menu"
)

const systemPrompt = `You convert restaurant menus into JSON.
Reply with one JSON object and nothing else:
{"title": string, "subtitle": string, "sections": [{"title": string, "items": [{"name": string, "description": string, "price": string, "allergens": string}]}], "footerNote": string}
Keep the original language. Keep prices as written, including the currency sign. Use "" for missing values.`

// Importer parses menu text.
type Importer interface {
	Import(ctx context.Context, text string) (menu.FullMenu, error)
}

// TextImporter applies the line heuristics of ParseText.
type TextImporter struct {
	IDs menu.IDGenerator
}

func (t TextImporter) Import(_ context.Context, text string) (menu.FullMenu, error) {
	return ParseText(text, t.IDs), nil
}

// LLMImporter asks a chat model to structure the menu. Any failure falls
// back to ParseText, so Import only fails when ctx is canceled.
type LLMImporter struct {
	provider llm.Provider
	ids      menu.IDGenerator
	logger   zerolog.Logger
}

// NewLLMImporter creates an importer backed by provider.
func NewLLMImporter(provider llm.Provider, ids menu.IDGenerator, logger zerolog.Logger) *LLMImporter {
	return &LLMImporter{provider: provider, ids: ids, logger: logger}
}

func (l *LLMImporter) Import(ctx context.Context, text string) (menu.FullMenu, error) {
	fm, err := l.structured(ctx, text)
	if err == nil {
		return fm, nil
	}
	if ctx.Err() != nil {
		return menu.FullMenu{}, ctx.Err()
	}
	l.logger.Warn().Err(err).Str("provider", l.provider.Name()).Msg("llm import failed, using text heuristics")
	return ParseText(text, l.ids), nil
}

func (l *LLMImporter) structured(ctx context.Context, text string) (menu.FullMenu, error) {
	resp, err := l.provider.Complete(ctx, llm.CompletionRequest{
		Messages:    []llm.Message{llm.System(systemPrompt), llm.User(text)},
		Temperature: 0,
		JSONMode:    true,
	})
	if err != nil {
		return menu.FullMenu{}, fmt.Errorf("completion: %w", err)
	}
	fm, err := parseMenuJSON(resp.Content)
	if err != nil {
		return menu.FullMenu{}, err
	}
	if len(fm.Sections) == 0 {
		return menu.FullMenu{}, errors.New("model returned no sections")
	}
	if fm.Title == "" {
		fm.Title = ImportedTitle
	}
	l.logger.Debug().Int("sections", len(fm.Sections)).Int("output_tokens", resp.OutputTokens).Msg("llm import")
	return menu.NormalizeMenu(fm, l.ids), nil
}

// parseMenuJSON decodes a model reply, tolerating a markdown code fence.
func parseMenuJSON(raw string) (menu.FullMenu, error) {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		lines := strings.Split(raw, "\n")
		end := len(lines)
		if end > 1 && strings.TrimSpace(lines[end-1]) == "```" {
			end--
		}
		raw = strings.Join(lines[1:end], "\n")
	}
	var fm menu.FullMenu
	if err := json.Unmarshal([]byte(raw), &fm); err != nil {
		return menu.FullMenu{}, fmt.Errorf("json parse: %w", err)
	}
	return fm, nil
}
