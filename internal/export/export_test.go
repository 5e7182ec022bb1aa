package export

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ziadkadry99/menu-studio/internal/menu"
	"github.com/ziadkadry99/menu-studio/internal/raster"
	"github.com/ziadkadry99/menu-studio/internal/render"
)

type fakeRaster struct {
	mu     sync.Mutex
	trees  []*render.Node
	failOn int // 1-based call that fails; 0 never
	block  chan struct{}
}

func (f *fakeRaster) Rasterize(ctx context.Context, tree *render.Node, _ raster.Options) (*image.RGBA, error) {
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.trees = append(f.trees, tree)
	if f.failOn == len(f.trees) {
		return nil, errors.New("canvas unavailable")
	}
	return image.NewRGBA(image.Rect(0, 0, 2, 2)), nil
}

type fakeReporter struct {
	started, updates, finished int
	failures                   []error
}

func (r *fakeReporter) Start(int)          { r.started++ }
func (r *fakeReporter) Update(int, string) { r.updates++ }
func (r *fakeReporter) Finish()            { r.finished++ }
func (r *fakeReporter) Fail(err error)     { r.failures = append(r.failures, err) }

type fakeRecorder struct{ runs []Run }

func (r *fakeRecorder) RecordExport(_ context.Context, run Run) error {
	r.runs = append(r.runs, run)
	return nil
}

type nopSettler struct{}

func (nopSettler) Settle(context.Context, *render.Node) error { return nil }

func threeSections() menu.AppState {
	st := menu.NewAppState()
	st.Menu.Sections = []menu.MenuSection{
		{ID: "a", Title: "Antipasti", Items: []menu.MenuItem{}},
		{ID: "b", Title: "Primi", Items: []menu.MenuItem{}},
		{ID: "c", Title: "Dolci", Items: []menu.MenuItem{}},
	}
	return st
}

func TestSectionFile(t *testing.T) {
	assert.Equal(t, "02-sezione-1.png", SectionFile(0))
	assert.Equal(t, "10-sezione-9.png", SectionFile(8))
}

func TestCarouselOrderAndNames(t *testing.T) {
	fr := &fakeRaster{}
	sink := &MemorySink{}
	rep := &fakeReporter{}
	e := New(RenderSurface{}, nopSettler{}, fr, sink, Options{Reporter: rep})

	files, err := e.Carousel(context.Background(), threeSections())
	require.NoError(t, err)

	want := []string{"01-copertina.png", "02-sezione-1.png", "03-sezione-2.png", "04-sezione-3.png", "99-contatti.png"}
	assert.Equal(t, want, names(files))
	assert.Equal(t, want, names(sink.Files()))

	require.Len(t, fr.trees, 5)
	assert.Equal(t, "Antipasti", render.Find(fr.trees[1], render.RoleSectionTitle).Text)
	assert.Equal(t, "Dolci", render.Find(fr.trees[3], render.RoleSectionTitle).Text)
	assert.NotNil(t, render.Find(fr.trees[4], render.RoleCallToAction))

	assert.Equal(t, 1, rep.started)
	assert.Equal(t, 5, rep.updates)
	assert.Equal(t, 1, rep.finished)
	assert.Empty(t, rep.failures)
}

func TestCarouselWithoutSections(t *testing.T) {
	e := New(RenderSurface{}, nopSettler{}, &fakeRaster{}, Discard{}, Options{})
	st := menu.NewAppState()
	st.Menu.Sections = nil

	files, err := e.Carousel(context.Background(), st)
	require.NoError(t, err)
	assert.Equal(t, []string{CoverFile, ContactsFile}, names(files))
}

func TestStoryRendersRealPNG(t *testing.T) {
	fonts, err := raster.NewFontBank()
	require.NoError(t, err)
	images := raster.NewLoader(nil, 0)
	r := raster.New(fonts, images, nil, zerolog.Nop())
	sink := &MemorySink{}
	e := New(RenderSurface{}, nopSettler{}, r, sink, Options{Scale: 1})

	st := menu.NewAppState()
	st.Brand.BackgroundImageURL = ""
	st.Brand.LogoURL = ""
	files, err := e.Story(context.Background(), st)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, StoryFile, files[0].Name)
	assert.Equal(t, "image/png", files[0].ContentType)

	img, err := png.Decode(bytes.NewReader(files[0].Data))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, render.StoryWidth, render.StoryHeight), img.Bounds())
}

func TestPrintUsesQRURL(t *testing.T) {
	fr := &fakeRaster{}
	e := New(RenderSurface{}, nopSettler{}, fr, Discard{}, Options{QRURL: "https://trattoria.example/menu"})

	files, err := e.Print(context.Background(), menu.NewAppState())
	require.NoError(t, err)
	assert.Equal(t, []string{PrintFile}, names(files))
	qr := render.Find(fr.trees[0], render.RoleQR)
	require.NotNil(t, qr)
	assert.Equal(t, "https://trattoria.example/menu", qr.Text)
}

func TestFailureStopsAndReportsOnce(t *testing.T) {
	fr := &fakeRaster{failOn: 2}
	sink := &MemorySink{}
	rep := &fakeReporter{}
	rec := &fakeRecorder{}
	e := New(RenderSurface{}, nopSettler{}, fr, sink, Options{Reporter: rep, Recorder: rec})

	st := threeSections()
	before := st.Clone()
	files, err := e.Carousel(context.Background(), st)

	require.ErrorIs(t, err, ErrExportFailed)
	assert.ErrorContains(t, err, "02-sezione-1.png")
	assert.ErrorContains(t, err, "canvas unavailable")
	assert.Equal(t, []string{CoverFile}, names(files))
	assert.Len(t, fr.trees, 2, "no slide after the failing one is captured")
	assert.Len(t, rep.failures, 1)
	assert.Zero(t, rep.finished)
	assert.False(t, e.Exporting())
	assert.Equal(t, before, st)

	require.Len(t, rec.runs, 1)
	assert.Equal(t, StatusFailed, rec.runs[0].Status)
	assert.Equal(t, []string{CoverFile}, rec.runs[0].Files)
	assert.NotEmpty(t, rec.runs[0].Error)
}

func TestSuccessIsRecorded(t *testing.T) {
	rec := &fakeRecorder{}
	e := New(RenderSurface{}, nopSettler{}, &fakeRaster{}, Discard{}, Options{Recorder: rec})

	_, err := e.HTML(context.Background(), menu.NewAppState())
	require.NoError(t, err)
	require.Len(t, rec.runs, 1)
	assert.Equal(t, KindHTML, rec.runs[0].Kind)
	assert.Equal(t, StatusSucceeded, rec.runs[0].Status)
	assert.Equal(t, []string{HTMLFile}, rec.runs[0].Files)
	assert.False(t, rec.runs[0].FinishedAt.Before(rec.runs[0].StartedAt))
}

func TestConcurrentExportRejected(t *testing.T) {
	fr := &fakeRaster{block: make(chan struct{})}
	e := New(RenderSurface{}, nopSettler{}, fr, Discard{}, Options{})

	done := make(chan error, 1)
	go func() {
		_, err := e.Story(context.Background(), menu.NewAppState())
		done <- err
	}()
	require.Eventually(t, e.Exporting, time.Second, 5*time.Millisecond)

	_, err := e.Print(context.Background(), menu.NewAppState())
	assert.ErrorIs(t, err, ErrExportInProgress)

	close(fr.block)
	require.NoError(t, <-done)
	assert.False(t, e.Exporting())
}

func TestCanceledExport(t *testing.T) {
	rep := &fakeReporter{}
	e := New(RenderSurface{}, nopSettler{}, &fakeRaster{}, Discard{}, Options{Reporter: rep})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := e.Story(ctx, menu.NewAppState())
	assert.ErrorIs(t, err, ErrExportFailed)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Len(t, rep.failures, 1)
}

func TestUnknownKind(t *testing.T) {
	e := New(RenderSurface{}, nopSettler{}, &fakeRaster{}, Discard{}, Options{})
	_, err := e.Run(context.Background(), Kind("gif"), menu.NewAppState())
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrExportFailed)
}

type fakePreloader struct {
	urls  []string
	block bool
	err   error
}

func (p *fakePreloader) Preload(ctx context.Context, urls []string) error {
	p.urls = urls
	if p.block {
		<-ctx.Done()
		return ctx.Err()
	}
	return p.err
}

func TestImageSettlerPreloadsTreeImages(t *testing.T) {
	pre := &fakePreloader{}
	s := &ImageSettler{Images: pre, Logger: zerolog.Nop()}
	st := menu.NewAppState()
	st.Brand.BackgroundImageURL = "https://img.example/bg.jpg"
	st.Brand.LogoURL = "https://img.example/logo.png"
	tree := render.Render(st.Menu, st.Brand, render.ModeStory, render.Params{})

	require.NoError(t, s.Settle(context.Background(), tree))
	assert.Equal(t, []string{"https://img.example/bg.jpg", "https://img.example/logo.png"}, pre.urls)
}

func TestImageSettlerTimeoutIsNotFatal(t *testing.T) {
	s := &ImageSettler{Images: &fakePreloader{block: true}, Timeout: 20 * time.Millisecond, Logger: zerolog.Nop()}
	tree := &render.Node{Kind: render.KindCanvas, Width: 10, Height: 10, Children: []*render.Node{
		{Kind: render.KindBackground, Image: "https://slow.example/bg.jpg"},
	}}

	start := time.Now()
	require.NoError(t, s.Settle(context.Background(), tree))
	assert.Less(t, time.Since(start), time.Second)
}

func TestImageSettlerLoadErrorsAreNotFatal(t *testing.T) {
	s := &ImageSettler{Images: &fakePreloader{err: errors.New("404")}, Logger: zerolog.Nop()}
	tree := &render.Node{Kind: render.KindCanvas, Width: 10, Height: 10, Children: []*render.Node{
		{Kind: render.KindBackground, Image: "https://gone.example/bg.jpg"},
	}}
	assert.NoError(t, s.Settle(context.Background(), tree))
}

func TestImageSettlerDelayHonorsCancel(t *testing.T) {
	s := &ImageSettler{Delay: time.Hour, Logger: zerolog.Nop()}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	err := s.Settle(ctx, &render.Node{Kind: render.KindCanvas})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
