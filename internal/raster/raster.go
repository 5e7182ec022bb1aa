// Package raster lays out and paints render trees into images.
package raster

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"math"
	"sync"

	"github.com/rs/zerolog"

	"github.com/ziadkadry99/menu-studio/internal/render"
	"github.com/ziadkadry99/menu-studio/internal/style"
)

// ErrEmptyTree is returned for a tree with no canvas width.
var ErrEmptyTree = errors.New("render tree has no width")

// Options control one rasterization.
type Options struct {
	// Scale is the device pixel ratio; 0 means 1.
	Scale float64
	// Background overrides the tree's canvas color. "transparent" leaves
	// the canvas unpainted.
	Background string
}

// Rasterizer turns render trees into RGBA images.
type Rasterizer struct {
	fonts  *FontBank
	images ImageSource
	qr     QRPainter
	logger zerolog.Logger

	// Font faces are not safe for concurrent use.
	mu sync.Mutex
}

// New returns a Rasterizer. A nil qr draws PlaceholderQR codes.
func New(fonts *FontBank, images ImageSource, qr QRPainter, logger zerolog.Logger) *Rasterizer {
	if qr == nil {
		qr = PlaceholderQR{}
	}
	return &Rasterizer{fonts: fonts, images: images, qr: qr, logger: logger}
}

// Rasterize paints tree at opts.Scale. Images the source cannot provide
// are left blank.
func (r *Rasterizer) Rasterize(ctx context.Context, tree *render.Node, opts Options) (*image.RGBA, error) {
	if tree == nil || tree.Width <= 0 {
		return nil, ErrEmptyTree
	}
	scale := opts.Scale
	if scale <= 0 {
		scale = 1
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	l := &layouter{ctx: ctx, s: scale, fonts: r.fonts, images: r.images}
	root := &box{font: render.FontSans, opacity: 1}
	b := l.measure(tree, root, l.px(tree.Width), true)
	l.place(b, 0, 0, b.h)
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("laying out: %w", err)
	}

	w, h := int(math.Ceil(b.w)), int(math.Ceil(b.h))
	if w <= 0 || h <= 0 {
		return nil, ErrEmptyTree
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))

	bg := tree.Background
	if opts.Background != "" {
		bg = opts.Background
	}
	if c, err := style.ParseColor(bg); err == nil && c.A > 0 {
		draw.Draw(dst, dst.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
	}

	// The canvas color is already down; paint the root's children only.
	p := &painter{layouter: l, dst: dst, qr: r.qr, log: r.logger}
	for _, c := range b.children {
		p.paint(c)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("painting: %w", err)
	}

	r.logger.Debug().
		Int("width", w).
		Int("height", h).
		Float64("scale", scale).
		Msg("rasterized tree")
	return dst, nil
}
