// Package mcp exposes the menu document to MCP clients over stdio.
package mcp

import (
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"

	"github.com/ziadkadry99/menu-studio/internal/audit"
	"github.com/ziadkadry99/menu-studio/internal/export"
	"github.com/ziadkadry99/menu-studio/internal/importer"
	"github.com/ziadkadry99/menu-studio/internal/presets"
	"github.com/ziadkadry99/menu-studio/internal/preview"
	"github.com/ziadkadry99/menu-studio/internal/session"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Deps are the services the tools act on.
type Deps struct {
	Session  *session.Session
	Presets  *presets.Catalog
	Importer importer.Importer
	Exporter *export.Exporter
	// Preview is the view used when a render_preview call leaves a
	// parameter out.
	Preview  preview.Request
	// Activity records changes; nil records nothing.
	Activity audit.Logger
}

// Server wraps an MCP server that exposes menu editing tools.
type Server struct {
	deps   Deps
	logger zerolog.Logger
	mcp    *server.MCPServer
}

// NewServer creates a new MCP server with the given dependencies.
func NewServer(d Deps, logger zerolog.Logger) *Server {
	s := &Server{deps: d, logger: logger}
	s.mcp = server.NewMCPServer(
		"menu-studio",
		Version,
		server.WithToolCapabilities(false),
	)
	s.registerTools()
	return s
}

func (s *Server) registerTools() {
	s.mcp.AddTool(getMenuTool, s.handleGetMenu)
	s.mcp.AddTool(renderPreviewTool, s.handleRenderPreview)
	s.mcp.AddTool(editMenuTool, s.handleEditMenu)
	s.mcp.AddTool(listPresetsTool, s.handleListPresets)
	s.mcp.AddTool(applyPresetTool, s.handleApplyPreset)
	s.mcp.AddTool(importMenuTool, s.handleImportMenu)
	s.mcp.AddTool(exportMenuTool, s.handleExportMenu)
}

// Serve starts the MCP server on stdio. Stdout is used for MCP protocol
// messages; all logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}
