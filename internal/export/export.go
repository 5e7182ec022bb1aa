// Package export captures menus as image and HTML files.
package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"sync"
	"sync/atomic"
	"time"

	"github.com/disintegration/imaging"
	"github.com/rs/zerolog"

	"github.com/ziadkadry99/menu-studio/internal/menu"
	"github.com/ziadkadry99/menu-studio/internal/progress"
	"github.com/ziadkadry99/menu-studio/internal/raster"
	"github.com/ziadkadry99/menu-studio/internal/render"
)

var (
	// ErrExportFailed wraps every failure of a started export.
	ErrExportFailed = errors.New("export failed")
	// ErrExportInProgress is returned when an export is requested while
	// another one runs.
	ErrExportInProgress = errors.New("an export is already running")
)

// Kind selects an export format.
type Kind string

const (
	KindStory    Kind = "story"
	KindPrint    Kind = "print"
	KindCarousel Kind = "carousel"
	KindHTML     Kind = "html"
)

// Kinds lists every export kind.
var Kinds = []Kind{KindStory, KindPrint, KindCarousel, KindHTML}

func (k Kind) Valid() bool {
	for _, v := range Kinds {
		if k == v {
			return true
		}
	}
	return false
}

// Output file names.
const (
	StoryFile    = "menu-export-storia.png"
	PrintFile    = "menu-export-a4.png"
	HTMLFile     = "menu-export.html"
	CoverFile    = "01-copertina.png"
	ContactsFile = "99-contatti.png"
)

// SectionFile names the carousel slide of section i (zero-based).
func SectionFile(i int) string {
	return fmt.Sprintf("%02d-sezione-%d.png", i+2, i+1)
}

// DefaultScale is the device pixel ratio of PNG captures.
const DefaultScale = 2

// Rasterizer paints a mounted tree.
type Rasterizer interface {
	Rasterize(ctx context.Context, tree *render.Node, opts raster.Options) (*image.RGBA, error)
}

// Run is the outcome of one export, as kept in the export history.
type Run struct {
	ID         string    `json:"id"`
	Kind       Kind      `json:"kind"`
	Files      []string  `json:"files"`
	Status     string    `json:"status"`
	Error      string    `json:"error,omitempty"`
	StartedAt  time.Time `json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt"`
}

// Run statuses.
const (
	StatusSucceeded = "succeeded"
	StatusFailed    = "failed"
)

// Recorder persists export runs.
type Recorder interface {
	RecordExport(ctx context.Context, run Run) error
}

// Options configure an Exporter. Zero values pick defaults.
type Options struct {
	Scale    float64
	QRURL    string
	Reporter progress.Reporter
	Recorder Recorder
	Logger   zerolog.Logger
}

// Exporter drives mount, settle, rasterize and save for every export. It
// owns one surface, so exports never overlap.
type Exporter struct {
	surface  Surface
	settler  Settler
	raster   Rasterizer
	sink     Sink
	scale    float64
	qrURL    string
	reporter progress.Reporter
	recorder Recorder
	logger   zerolog.Logger

	busy atomic.Bool
	mu   sync.Mutex
}

// New builds an Exporter.
func New(surface Surface, settler Settler, r Rasterizer, sink Sink, opts Options) *Exporter {
	e := &Exporter{
		surface:  surface,
		settler:  settler,
		raster:   r,
		sink:     sink,
		scale:    opts.Scale,
		qrURL:    opts.QRURL,
		reporter: opts.Reporter,
		recorder: opts.Recorder,
		logger:   opts.Logger,
	}
	if e.scale <= 0 {
		e.scale = DefaultScale
	}
	if e.reporter == nil {
		e.reporter = progress.Nop{}
	}
	return e
}

// Exporting reports whether an export is running.
func (e *Exporter) Exporting() bool { return e.busy.Load() }

// Story exports the 9:16 story image.
func (e *Exporter) Story(ctx context.Context, st menu.AppState) ([]File, error) {
	return e.Run(ctx, KindStory, st)
}

// Print exports the A4 page image.
func (e *Exporter) Print(ctx context.Context, st menu.AppState) ([]File, error) {
	return e.Run(ctx, KindPrint, st)
}

// Carousel exports the cover, one slide per section and the contacts
// slide, in that order.
func (e *Exporter) Carousel(ctx context.Context, st menu.AppState) ([]File, error) {
	return e.Run(ctx, KindCarousel, st)
}

// HTML exports the standalone page.
func (e *Exporter) HTML(ctx context.Context, st menu.AppState) ([]File, error) {
	return e.Run(ctx, KindHTML, st)
}

type job struct {
	name   string
	mode   render.Mode
	params render.Params
}

func (e *Exporter) plan(kind Kind, st menu.AppState) []job {
	switch kind {
	case KindStory:
		return []job{{name: StoryFile, mode: render.ModeStory}}
	case KindPrint:
		return []job{{name: PrintFile, mode: render.ModePrint, params: render.Params{QRURL: e.qrURL}}}
	case KindHTML:
		return []job{{name: HTMLFile}}
	}
	var jobs []job
	for _, sl := range render.Slides(st.Menu) {
		name := CoverFile
		switch sl.Kind {
		case render.SlideSection:
			name = SectionFile(sl.Index)
		case render.SlideContacts:
			name = ContactsFile
		}
		jobs = append(jobs, job{name: name, mode: render.ModeCarousel, params: render.Params{Slide: sl}})
	}
	return jobs
}

// Run executes one export of kind. The state is never modified. On
// failure it reports once through the Reporter and returns an error
// wrapping ErrExportFailed; files saved before the failure stay saved.
func (e *Exporter) Run(ctx context.Context, kind Kind, st menu.AppState) ([]File, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("unknown export kind %q", kind)
	}
	if !e.busy.CompareAndSwap(false, true) {
		return nil, ErrExportInProgress
	}
	defer e.busy.Store(false)
	e.mu.Lock()
	defer e.mu.Unlock()

	run := Run{Kind: kind, StartedAt: time.Now().UTC()}
	jobs := e.plan(kind, st)
	log := e.logger.With().Str("kind", string(kind)).Logger()
	log.Info().Int("files", len(jobs)).Msg("export started")

	e.reporter.Start(len(jobs))
	var files []File
	for i, j := range jobs {
		f, err := e.produce(ctx, st, kind, j)
		if err == nil {
			err = e.sink.Save(ctx, f)
		}
		if err != nil {
			err = fmt.Errorf("%w: %s: %w", ErrExportFailed, j.name, err)
			e.reporter.Fail(err)
			log.Error().Err(err).Msg("export failed")
			run.Files, run.Status, run.Error = names(files), StatusFailed, err.Error()
			e.record(ctx, run)
			return files, err
		}
		files = append(files, f)
		e.reporter.Update(i+1, j.name)
	}
	e.reporter.Finish()

	run.Files, run.Status = names(files), StatusSucceeded
	e.record(ctx, run)
	log.Info().Strs("files", run.Files).Msg("export finished")
	return files, nil
}

func (e *Exporter) produce(ctx context.Context, st menu.AppState, kind Kind, j job) (File, error) {
	if err := ctx.Err(); err != nil {
		return File{}, err
	}
	if kind == KindHTML {
		data, err := Snapshot(st)
		if err != nil {
			return File{}, err
		}
		return File{Name: j.name, ContentType: "text/html; charset=utf-8", Data: data}, nil
	}

	tree, err := e.surface.Mount(ctx, st, j.mode, j.params)
	if err != nil {
		return File{}, fmt.Errorf("mounting: %w", err)
	}
	if err := e.settler.Settle(ctx, tree); err != nil {
		return File{}, fmt.Errorf("settling: %w", err)
	}
	img, err := e.raster.Rasterize(ctx, tree, raster.Options{Scale: e.scale})
	if err != nil {
		return File{}, fmt.Errorf("rasterizing: %w", err)
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return File{}, fmt.Errorf("encoding png: %w", err)
	}
	return File{Name: j.name, ContentType: "image/png", Data: buf.Bytes()}, nil
}

func (e *Exporter) record(ctx context.Context, run Run) {
	if e.recorder == nil {
		return
	}
	run.FinishedAt = time.Now().UTC()
	// History is best effort and must outlive a canceled request.
	if err := e.recorder.RecordExport(context.WithoutCancel(ctx), run); err != nil {
		e.logger.Warn().Err(err).Msg("recording export run")
	}
}

func names(files []File) []string {
	out := make([]string, len(files))
	for i, f := range files {
		out[i] = f.Name
	}
	return out
}
