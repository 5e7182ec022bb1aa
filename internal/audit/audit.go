// Package audit keeps an activity log of the changes made to the menu.
package audit

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/ziadkadry99/menu-studio/internal/mutator"
)

// Source identifies the surface a change came from.
type Source string

const (
	SourceCLI     Source = "cli"
	SourceAPI     Source = "api"
	SourceMCP     Source = "mcp"
	SourcePreview Source = "preview"
)

// Action describes what was done. Edit commands log their op name.
type Action string

const (
	ActionApplyPreset Action = "apply_preset"
	ActionImport      Action = "import"
	ActionOnboarding  Action = "onboarding"
	ActionReorder     Action = "reorder"
	ActionReset       Action = "reset"
)

// Entry is a single activity record.
type Entry struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Source    Source    `json:"source"`
	Action    Action    `json:"action"`
	// Target names what changed, e.g. "section 2" or a preset id.
	Target  string `json:"target,omitempty"`
	Summary string `json:"summary"`
}

// Logger records entries.
type Logger interface {
	Log(ctx context.Context, e Entry) error
}

// Discard drops every entry.
type Discard struct{}

func (Discard) Log(context.Context, Entry) error { return nil }

// Command describes an edit command as an entry.
func Command(src Source, c mutator.Command) Entry {
	var parts []string
	if c.Section != nil {
		parts = append(parts, fmt.Sprintf("section %d", *c.Section))
	}
	if c.Item != nil {
		parts = append(parts, fmt.Sprintf("item %d", *c.Item))
	}
	if c.Slot != "" {
		parts = append(parts, c.Slot)
	}
	if c.Field != "" {
		parts = append(parts, c.Field)
	}
	target := strings.Join(parts, " ")
	summary := string(c.Op)
	if target != "" {
		summary += " on " + target
	}
	return Entry{Source: src, Action: Action(c.Op), Target: target, Summary: summary}
}

// Record logs e on l and reports a failure on logger. A nil l records
// nothing. The entry is written even if ctx is canceled.
func Record(ctx context.Context, l Logger, e Entry, logger zerolog.Logger) {
	if l == nil {
		return
	}
	if err := l.Log(context.WithoutCancel(ctx), e); err != nil {
		logger.Warn().Err(err).Str("action", string(e.Action)).Msg("recording activity")
	}
}
