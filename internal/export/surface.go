package export

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/ziadkadry99/menu-studio/internal/menu"
	"github.com/ziadkadry99/menu-studio/internal/render"
)

// Surface is the off-screen panel exports are mounted on. Mounting
// replaces whatever the surface showed before.
type Surface interface {
	Mount(ctx context.Context, st menu.AppState, mode render.Mode, p render.Params) (*render.Node, error)
}

// RenderSurface mounts trees in-process with render.Render.
type RenderSurface struct{}

func (RenderSurface) Mount(ctx context.Context, st menu.AppState, mode render.Mode, p render.Params) (*render.Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return render.Render(st.Menu, st.Brand, mode, p), nil
}

// Settler blocks until a mounted tree is ready to capture.
type Settler interface {
	Settle(ctx context.Context, tree *render.Node) error
}

// Preloader fetches images ahead of rasterization. *raster.Loader
// implements it.
type Preloader interface {
	Preload(ctx context.Context, urls []string) error
}

// ImageSettler waits until every image the tree references has been
// preloaded, for at most Timeout. Images that fail or time out are logged
// and skipped; the capture renders without them. Delay adds a fixed pause
// after preloading.
type ImageSettler struct {
	Images  Preloader
	Timeout time.Duration
	Delay   time.Duration
	Logger  zerolog.Logger
}

func (s *ImageSettler) Settle(ctx context.Context, tree *render.Node) error {
	if urls := render.ImageURLs(tree); len(urls) > 0 && s.Images != nil {
		pctx := ctx
		if s.Timeout > 0 {
			var cancel context.CancelFunc
			pctx, cancel = context.WithTimeout(ctx, s.Timeout)
			defer cancel()
		}
		if err := s.Images.Preload(pctx, urls); err != nil {
			// Only the caller's own cancellation aborts the capture.
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if errors.Is(err, context.DeadlineExceeded) {
				s.Logger.Warn().Dur("timeout", s.Timeout).Msg("images still loading, capturing anyway")
			} else {
				s.Logger.Warn().Err(err).Msg("some images could not be loaded")
			}
		}
	}
	if s.Delay > 0 {
		t := time.NewTimer(s.Delay)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return fmt.Errorf("settling: %w", ctx.Err())
		case <-t.C:
		}
	}
	return nil
}
