package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/menu-studio/internal/api"
	"github.com/ziadkadry99/menu-studio/internal/audit"
	"github.com/ziadkadry99/menu-studio/internal/dashboard"
	"github.com/ziadkadry99/menu-studio/internal/export"
	"github.com/ziadkadry99/menu-studio/internal/livepreview"
	"github.com/ziadkadry99/menu-studio/internal/presets"
	"github.com/ziadkadry99/menu-studio/internal/progress"
	"github.com/ziadkadry99/menu-studio/internal/server"
)

var serverPort int

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the editor server",
	Long:  `Starts the HTTP server with the editor REST API and the live preview websocket.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		port := a.cfg.Server.Port
		if cmd.Flags().Changed("port") {
			port = serverPort
		}
		cs, err := a.capture()
		if err != nil {
			return err
		}

		srv := server.New(server.Config{
			Port:     port,
			AllowAll: a.cfg.Server.AllowAllOrigins,
		}, a.logger)

		view := a.previewRequest()
		// Files stream back in the response; nothing is written to disk.
		exp := a.exporter(cs, export.Discard{}, progress.Nop{})
		api.RegisterRoutes(srv.API(), api.Deps{
			Session:  a.session,
			Presets:  presets.Default(),
			Importer: a.defaultImporter(),
			Exporter: exp,
			History:  a.store,
			Settler:  cs.settler,
			Raster:   cs.raster,
			Preview:  view,
			Activity: a.activity,
			Logger:   a.logger,
		})
		audit.RegisterRoutes(srv.API(), a.activity)
		dashboard.New(a.session, a.store, a.activity).RegisterRoutes(srv.API())
		livepreview.New(a.session, view, a.activity, a.logger).RegisterRoutes(srv.Router())

		// Graceful shutdown.
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		go func() {
			<-ctx.Done()
			fmt.Fprintln(os.Stderr, "\nShutting down server...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			srv.Shutdown(shutdownCtx)
		}()

		fmt.Fprintf(os.Stderr, "menustudio server %s starting on port %d\n", Version, port)
		fmt.Fprintf(os.Stderr, "  Database: %s\n", a.db.Path())
		fmt.Fprintf(os.Stderr, "  AI import: %v\n", a.cfg.LLMEnabled())

		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	},
}

func init() {
	serverCmd.Flags().IntVar(&serverPort, "port", 8080, "Port to listen on (default server.port)")
	rootCmd.AddCommand(serverCmd)
}
