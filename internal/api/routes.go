// Package api exposes the editor over HTTP.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/ziadkadry99/menu-studio/internal/audit"
	"github.com/ziadkadry99/menu-studio/internal/export"
	"github.com/ziadkadry99/menu-studio/internal/importer"
	"github.com/ziadkadry99/menu-studio/internal/menu"
	"github.com/ziadkadry99/menu-studio/internal/mutator"
	"github.com/ziadkadry99/menu-studio/internal/onboarding"
	"github.com/ziadkadry99/menu-studio/internal/presets"
	"github.com/ziadkadry99/menu-studio/internal/preview"
	"github.com/ziadkadry99/menu-studio/internal/raster"
	"github.com/ziadkadry99/menu-studio/internal/render"
	"github.com/ziadkadry99/menu-studio/internal/session"
)

// History lists past exports. *store.StateStore implements it.
type History interface {
	ListExports(ctx context.Context, limit int) ([]export.Run, error)
}

// Deps are the services the routes use.
type Deps struct {
	Session  *session.Session
	Presets  *presets.Catalog
	Importer importer.Importer
	Exporter *export.Exporter
	History  History
	Settler  export.Settler
	Raster   export.Rasterizer
	Preview  preview.Request
	// Activity records every change; nil records nothing.
	Activity audit.Logger
	Logger   zerolog.Logger
}

var validate = validator.New()

// RegisterRoutes mounts the editor API routes.
func RegisterRoutes(r chi.Router, d Deps) {
	r.Route("/api", func(r chi.Router) {
		r.Get("/state", handleState(d))
		r.Post("/commands", handleCommand(d))
		r.Post("/reset", handleReset(d))
		r.Post("/import", handleImport(d))
		r.Post("/onboarding", handleOnboarding(d))

		r.Get("/presets", handlePresets(d))
		r.Post("/presets/{id}/apply", handleApplyPreset(d))

		r.Get("/preview", handlePreview(d))
		r.Get("/preview.png", handlePreviewPNG(d))

		r.Get("/export/status", handleExportStatus(d))
		r.Get("/export/history", handleExportHistory(d))
		r.Post("/export/{kind}", handleExport(d))
	})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	body, _ := json.Marshal(map[string]string{"error": msg})
	http.Error(w, string(body), code)
}

func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errors.New("invalid request body")
	}
	if err := validate.Struct(v); err != nil {
		return err
	}
	return nil
}

// applied answers a mutation with the new state. A failed save still
// changed the document, so it is logged and the state returned.
func applied(d Deps, w http.ResponseWriter, r *http.Request, e audit.Entry, st menu.AppState, err error) {
	if err != nil {
		d.Logger.Warn().Err(err).Msg("state changed but not persisted")
	}
	e.Source = audit.SourceAPI
	audit.Record(r.Context(), d.Activity, e, d.Logger)
	writeJSON(w, http.StatusOK, st)
}

func handleState(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, d.Session.State())
	}
}

func handleCommand(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var cmd mutator.Command
		if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		st, err := d.Session.Execute(r.Context(), cmd)
		if errors.Is(err, mutator.ErrInvalidCommand) {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		applied(d, w, r, audit.Command(audit.SourceAPI, cmd), st, err)
	}
}

func handleReset(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st, err := d.Session.Reset(r.Context())
		applied(d, w, r, audit.Entry{Action: audit.ActionReset, Summary: "Reset the menu"}, st, err)
	}
}

type importRequest struct {
	Text string `json:"text" validate:"required,max=200000"`
}

func handleImport(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req importRequest
		if err := decode(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		fm, err := d.Importer.Import(r.Context(), req.Text)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		st, err := d.Session.Apply(r.Context(), func(st menu.AppState) menu.AppState {
			return d.Session.Mutator().ReplaceMenu(st, fm)
		})
		applied(d, w, r, audit.Entry{
			Action:  audit.ActionImport,
			Summary: fmt.Sprintf("Imported %d section(s)", len(fm.Sections)),
		}, st, err)
	}
}

type onboardingRequest struct {
	Manual     bool   `json:"manual"`
	Text       string `json:"text" validate:"required_unless=Manual true,max=200000"`
	Restaurant string `json:"restaurant"`
	Vibe       string `json:"vibe"`
}

func handleOnboarding(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req onboardingRequest
		if err := decode(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		flow := onboarding.Flow{Importer: d.Importer, Presets: d.Presets, Mutator: d.Session.Mutator()}
		plan := onboarding.Plan{Manual: req.Manual, Text: req.Text, Restaurant: req.Restaurant, Vibe: req.Vibe}

		// Import before taking the session lock; the result is applied to
		// whatever state is current then.
		done, err := flow.Complete(r.Context(), d.Session.State(), plan)
		if errors.Is(err, onboarding.ErrNoText) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		st, err := d.Session.Apply(r.Context(), func(st menu.AppState) menu.AppState {
			st.Menu, st.Brand, st.HasOnboarded = done.Menu, done.Brand, true
			return st
		})
		applied(d, w, r, audit.Entry{
			Action:  audit.ActionOnboarding,
			Target:  strings.Trim(req.Restaurant+" "+req.Vibe, " "),
			Summary: fmt.Sprintf("Onboarded with %d section(s)", len(st.Menu.Sections)),
		}, st, err)
	}
}

func handlePresets(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, d.Presets.Categories)
	}
}

func handleApplyPreset(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := d.Presets.Find(chi.URLParam(r, "id"))
		if !ok {
			writeError(w, http.StatusNotFound, "preset not found")
			return
		}
		st, err := d.Session.Apply(r.Context(), func(st menu.AppState) menu.AppState {
			return d.Session.Mutator().ApplyPreset(st, p.Brand)
		})
		applied(d, w, r, audit.Entry{Action: audit.ActionApplyPreset, Target: p.ID, Summary: "Applied preset " + p.Name}, st, err)
	}
}

func previewTree(d Deps, r *http.Request) (*render.Node, error) {
	q, err := preview.FromQuery(r.URL.Query(), d.Preview)
	if err != nil {
		return nil, err
	}
	return preview.Render(d.Session.State(), q)
}

func handlePreview(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tree, err := previewTree(d, r)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if r.URL.Query().Get("format") == "text" {
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
			w.Write([]byte(render.Dump(tree)))
			return
		}
		writeJSON(w, http.StatusOK, tree)
	}
}

func handlePreviewPNG(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tree, err := previewTree(d, r)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		scale := 1.0
		if s := r.URL.Query().Get("scale"); s != "" {
			v, err := strconv.ParseFloat(s, 64)
			if err != nil || v <= 0 || v > 4 {
				writeError(w, http.StatusBadRequest, "scale must be in (0, 4]")
				return
			}
			scale = v
		}
		if err := d.Settler.Settle(r.Context(), tree); err != nil {
			writeError(w, http.StatusServiceUnavailable, err.Error())
			return
		}
		img, err := d.Raster.Rasterize(r.Context(), tree, raster.Options{Scale: scale})
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		var buf bytes.Buffer
		if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Write(buf.Bytes())
	}
}

func handleExportStatus(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"exporting": d.Exporter.Exporting()})
	}
}

func handleExportHistory(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := 20
		if s := r.URL.Query().Get("limit"); s != "" {
			v, err := strconv.Atoi(s)
			if err != nil || v < 1 {
				writeError(w, http.StatusBadRequest, "limit must be a positive integer")
				return
			}
			limit = v
		}
		runs, err := d.History.ListExports(r.Context(), limit)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if runs == nil {
			runs = []export.Run{}
		}
		writeJSON(w, http.StatusOK, runs)
	}
}

// CarouselArchive is the download name of a carousel export.
const CarouselArchive = "menu-carousel.zip"

func handleExport(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		kind := export.Kind(chi.URLParam(r, "kind"))
		if !kind.Valid() {
			writeError(w, http.StatusNotFound, fmt.Sprintf("unknown export kind %q", kind))
			return
		}
		files, err := d.Exporter.Run(r.Context(), kind, d.Session.State())
		switch {
		case errors.Is(err, export.ErrExportInProgress):
			writeError(w, http.StatusConflict, err.Error())
			return
		case err != nil:
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}

		name, contentType, body := files[0].Name, files[0].ContentType, files[0].Data
		if kind == export.KindCarousel {
			body, err = export.Zip(files)
			if err != nil {
				writeError(w, http.StatusInternalServerError, err.Error())
				return
			}
			name, contentType = CarouselArchive, "application/zip"
		}
		w.Header().Set("Content-Type", contentType)
		w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename=%q`, name))
		w.Write(body)
	}
}
