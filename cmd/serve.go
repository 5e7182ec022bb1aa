package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/menu-studio/internal/export"
	mcpserver "github.com/ziadkadry99/menu-studio/internal/mcp"
	"github.com/ziadkadry99/menu-studio/internal/presets"
	"github.com/ziadkadry99/menu-studio/internal/progress"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server for AI agent integration",
	Long:  `Starts a Model Context Protocol (MCP) server on stdio, exposing tools to read, edit, preview and export the menu.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		cs, err := a.capture()
		if err != nil {
			return err
		}

		// Set version from the cmd package variable.
		mcpserver.Version = Version

		fmt.Fprintf(os.Stderr, "menustudio MCP server started on stdio (db=%s, exports=%s)\n", a.db.Path(), a.cfg.ExportDir)

		srv := mcpserver.NewServer(mcpserver.Deps{
			Session:  a.session,
			Presets:  presets.Default(),
			Importer: a.defaultImporter(),
			Exporter: a.exporter(cs, export.DirSink{Dir: a.cfg.ExportDir}, progress.Nop{}),
			Preview:  a.previewRequest(),
			Activity: a.activity,
		}, a.logger)
		return srv.Serve()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
