package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/rs/zerolog"

	"github.com/ziadkadry99/menu-studio/internal/audit"
	"github.com/ziadkadry99/menu-studio/internal/config"
	"github.com/ziadkadry99/menu-studio/internal/db"
	"github.com/ziadkadry99/menu-studio/internal/export"
	"github.com/ziadkadry99/menu-studio/internal/importer"
	"github.com/ziadkadry99/menu-studio/internal/llm"
	"github.com/ziadkadry99/menu-studio/internal/logging"
	"github.com/ziadkadry99/menu-studio/internal/menu"
	"github.com/ziadkadry99/menu-studio/internal/mutator"
	"github.com/ziadkadry99/menu-studio/internal/notifications"
	"github.com/ziadkadry99/menu-studio/internal/preview"
	"github.com/ziadkadry99/menu-studio/internal/progress"
	"github.com/ziadkadry99/menu-studio/internal/raster"
	"github.com/ziadkadry99/menu-studio/internal/render"
	"github.com/ziadkadry99/menu-studio/internal/session"
	"github.com/ziadkadry99/menu-studio/internal/store"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `menustudio init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", cfgFile, err)
	}
	return cfg, nil
}

// app is the document every command works on.
type app struct {
	cfg      *config.Config
	logger   zerolog.Logger
	db       *db.DB
	store    *store.StateStore
	activity *audit.Store
	ids      menu.IDGenerator
	session  *session.Session
}

// openApp loads the config, opens the database and restores the document.
// Logs go to stderr so stdout stays free for command output and MCP.
func openApp(ctx context.Context) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	logger, err := logging.New(logging.Options{
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
		Verbose: verbose,
		Writer:  os.Stderr,
	})
	if err != nil {
		return nil, err
	}

	database, err := db.Open(cfg.DBPath())
	if err != nil {
		return nil, err
	}
	ids := menu.UUIDGenerator{}
	st := store.New(database, ids, logger)
	initial, err := st.Load(ctx)
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("loading document: %w", err)
	}
	logger.Debug().Str("db", database.Path()).Int("sections", len(initial.Menu.Sections)).Msg("document loaded")

	return &app{
		cfg:      cfg,
		logger:   logger,
		db:       database,
		store:    st,
		activity: audit.NewStore(database),
		ids:      ids,
		session:  session.New(initial, mutator.New(ids), st, logger),
	}, nil
}

func (a *app) Close() error { return a.db.Close() }

// importer returns the AI importer when useAI is set, else the line
// heuristics.
func (a *app) importer(useAI bool) (importer.Importer, error) {
	if !useAI {
		return importer.TextImporter{IDs: a.ids}, nil
	}
	provider, err := llm.NewProvider(a.cfg.LLMSettings())
	if errors.Is(err, llm.ErrDisabled) {
		return nil, fmt.Errorf("AI import is disabled: set llm.provider in %s", cfgFile)
	}
	if err != nil {
		return nil, fmt.Errorf("creating LLM provider: %w", err)
	}
	return importer.NewLLMImporter(provider, a.ids, a.logger), nil
}

// defaultImporter uses the LLM whenever one is configured.
func (a *app) defaultImporter() importer.Importer {
	imp, err := a.importer(a.cfg.LLMEnabled())
	if err != nil {
		a.logger.Warn().Err(err).Msg("falling back to text import")
		return importer.TextImporter{IDs: a.ids}
	}
	return imp
}

// captureStack is the rasterizer and settler shared by exports and PNG
// previews.
type captureStack struct {
	raster  *raster.Rasterizer
	settler *export.ImageSettler
}

func (a *app) capture() (captureStack, error) {
	fonts, err := raster.NewFontBank()
	if err != nil {
		return captureStack{}, fmt.Errorf("loading fonts: %w", err)
	}
	images := raster.NewLoader(&http.Client{Timeout: a.cfg.Export.SettleTimeout}, a.cfg.Export.MaxImageBytes)
	return captureStack{
		raster: raster.New(fonts, images, raster.PlaceholderQR{}, a.logger),
		settler: &export.ImageSettler{
			Images:  images,
			Timeout: a.cfg.Export.SettleTimeout,
			Delay:   a.cfg.Export.SettleDelay,
			Logger:  a.logger,
		},
	}, nil
}

func (a *app) exporter(cs captureStack, sink export.Sink, rep progress.Reporter) *export.Exporter {
	return export.New(export.RenderSurface{}, cs.settler, cs.raster, sink, export.Options{
		Scale:    a.cfg.Export.Scale,
		QRURL:    a.cfg.Export.QRURL,
		Reporter: rep,
		Recorder: a.recorder(),
		Logger:   a.logger,
	})
}

// recorder keeps export history and, when webhooks are configured, tells
// them about each run.
func (a *app) recorder() export.Recorder {
	if len(a.cfg.Notify.Webhooks) == 0 {
		return a.store
	}
	return notifications.NewDispatcher(notifications.Options{
		Webhooks:     a.cfg.Notify.Webhooks,
		FailuresOnly: a.cfg.Notify.FailuresOnly,
		Timeout:      a.cfg.Notify.Timeout,
		Next:         a.store,
		Logger:       a.logger,
	})
}

func (a *app) previewRequest() preview.Request {
	q := preview.Default()
	q.Mode = render.Mode(a.cfg.Preview.Mode)
	q.Viewport = a.cfg.Preview.Viewport
	q.QRURL = a.cfg.Export.QRURL
	return q
}

// record logs a CLI change in the activity log.
func (a *app) record(ctx context.Context, e audit.Entry) {
	e.Source = audit.SourceCLI
	audit.Record(ctx, a.activity, e, a.logger)
}

// warnPersist reports a change that holds in memory but did not reach the
// database.
func (a *app) warnPersist(err error) error {
	if err != nil {
		return fmt.Errorf("change not saved: %w", err)
	}
	return nil
}
