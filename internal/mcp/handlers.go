package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ziadkadry99/menu-studio/internal/audit"
	"github.com/ziadkadry99/menu-studio/internal/export"
	"github.com/ziadkadry99/menu-studio/internal/menu"
	"github.com/ziadkadry99/menu-studio/internal/mutator"
	"github.com/ziadkadry99/menu-studio/internal/preview"
	"github.com/ziadkadry99/menu-studio/internal/render"
)

func (s *Server) handleGetMenu(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(s.deps.Session.State())
}

func (s *Server) handleRenderPreview(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	q := s.deps.Preview
	if m := request.GetString("mode", ""); m != "" {
		q.Mode = render.Mode(m)
	}
	if v := request.GetFloat("viewport", 0); v != 0 {
		q.Viewport = v
	}
	if sl := request.GetString("slide", ""); sl != "" {
		q.Slide = render.Slide{Kind: render.SlideKind(sl)}
	}
	q.Slide.Index = request.GetInt("index", q.Slide.Index)

	tree, err := preview.Render(s.deps.Session.State(), q)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if request.GetString("format", "text") == "json" {
		return jsonResult(tree)
	}
	return mcp.NewToolResultText(render.Dump(tree)), nil
}

func (s *Server) handleEditMenu(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := request.RequireString("command")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: command"), nil
	}
	var cmd mutator.Command
	if err := json.Unmarshal([]byte(raw), &cmd); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("command is not valid JSON: %v", err)), nil
	}
	st, err := s.deps.Session.Execute(ctx, cmd)
	if errors.Is(err, mutator.ErrInvalidCommand) {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err != nil {
		s.logger.Warn().Err(err).Msg("edit applied but not persisted")
	}
	audit.Record(ctx, s.deps.Activity, audit.Command(audit.SourceMCP, cmd), s.logger)
	return jsonResult(st)
}

func (s *Server) handleListPresets(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var sb strings.Builder
	for _, c := range s.deps.Presets.Categories {
		fmt.Fprintf(&sb, "%s:\n", c.Title)
		for _, p := range c.Presets {
			fmt.Fprintf(&sb, "  %s  %s\n", p.ID, p.Name)
		}
	}
	return mcp.NewToolResultText(sb.String()), nil
}

func (s *Server) handleApplyPreset(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: id"), nil
	}
	p, ok := s.deps.Presets.Find(id)
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("no preset %q. Use list_presets to see the ids.", id)), nil
	}
	e := audit.Entry{Action: audit.ActionApplyPreset, Target: p.ID, Summary: "Applied preset " + p.Name}
	return s.apply(ctx, e, func(st menu.AppState) menu.AppState {
		return s.deps.Session.Mutator().ApplyPreset(st, p.Brand)
	})
}

func (s *Server) handleImportMenu(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := request.RequireString("text")
	if err != nil || strings.TrimSpace(text) == "" {
		return mcp.NewToolResultError("missing required parameter: text"), nil
	}
	fm, err := s.deps.Importer.Import(ctx, text)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("import failed: %v", err)), nil
	}
	e := audit.Entry{Action: audit.ActionImport, Summary: fmt.Sprintf("Imported %d section(s)", len(fm.Sections))}
	return s.apply(ctx, e, func(st menu.AppState) menu.AppState {
		return s.deps.Session.Mutator().ReplaceMenu(st, fm)
	})
}

func (s *Server) handleExportMenu(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	kind, err := request.RequireString("kind")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: kind"), nil
	}
	files, err := s.deps.Exporter.Run(ctx, export.Kind(kind), s.deps.Session.State())
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "Exported %d file(s):\n", len(files))
	for _, f := range files {
		fmt.Fprintf(&sb, "  %s (%d bytes)\n", f.Name, len(f.Data))
	}
	return mcp.NewToolResultText(sb.String()), nil
}

func (s *Server) apply(ctx context.Context, e audit.Entry, fn func(menu.AppState) menu.AppState) (*mcp.CallToolResult, error) {
	st, err := s.deps.Session.Apply(ctx, fn)
	if err != nil {
		s.logger.Warn().Err(err).Msg("change applied but not persisted")
	}
	e.Source = audit.SourceMCP
	audit.Record(ctx, s.deps.Activity, e, s.logger)
	return jsonResult(st)
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding result: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}
