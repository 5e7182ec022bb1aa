package raster

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/disintegration/imaging"
	"golang.org/x/sync/errgroup"

	// WebP is what image CDNs hand out for auto-format requests.
	_ "golang.org/x/image/webp"
)

// ImageSource resolves an image URL to a decoded image.
type ImageSource interface {
	Image(ctx context.Context, url string) (image.Image, error)
}

// DefaultMaxImageBytes caps a single download.
const DefaultMaxImageBytes = 20 << 20

// ErrImageTooLarge is returned for payloads over the loader's limit.
var ErrImageTooLarge = errors.New("image exceeds size limit")

// Loader fetches http(s) URLs, local paths, file:// and data: URLs,
// decodes them and keeps the results for reuse.
type Loader struct {
	client   *http.Client
	maxBytes int64

	mu    sync.Mutex
	cache map[string]image.Image
}

// NewLoader returns a Loader. A nil client gets a 30s timeout client;
// maxBytes <= 0 means DefaultMaxImageBytes.
func NewLoader(client *http.Client, maxBytes int64) *Loader {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	if maxBytes <= 0 {
		maxBytes = DefaultMaxImageBytes
	}
	return &Loader{client: client, maxBytes: maxBytes, cache: map[string]image.Image{}}
}

// Image returns the decoded image at u, fetching it on first use.
func (l *Loader) Image(ctx context.Context, u string) (image.Image, error) {
	l.mu.Lock()
	img, ok := l.cache[u]
	l.mu.Unlock()
	if ok {
		return img, nil
	}

	data, err := l.fetch(ctx, u)
	if err != nil {
		return nil, err
	}
	img, err = imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", shorten(u), err)
	}

	l.mu.Lock()
	l.cache[u] = img
	l.mu.Unlock()
	return img, nil
}

// Cached reports whether u has already been decoded.
func (l *Loader) Cached(u string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.cache[u]
	return ok
}

// Preload fetches every URL, at most four at a time. A failing URL does
// not stop the others; the returned error joins every failure.
func (l *Loader) Preload(ctx context.Context, urls []string) error {
	var (
		mu   sync.Mutex
		errs []error
	)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for _, u := range urls {
		g.Go(func() error {
			if _, err := l.Image(ctx, u); err != nil {
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return errors.Join(errs...)
}

func (l *Loader) fetch(ctx context.Context, u string) ([]byte, error) {
	switch {
	case strings.HasPrefix(u, "data:"):
		return decodeDataURL(u)
	case strings.HasPrefix(u, "http://"), strings.HasPrefix(u, "https://"):
		return l.fetchHTTP(ctx, u)
	case strings.HasPrefix(u, "file://"):
		pu, err := url.Parse(u)
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", u, err)
		}
		return l.readFile(pu.Path)
	}
	return l.readFile(u)
}

func (l *Loader) fetchHTTP(ctx context.Context, u string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("building request for %s: %w", u, err)
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", u, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching %s: status %d", u, resp.StatusCode)
	}
	return l.readLimited(resp.Body, u)
}

func (l *Loader) readFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening image: %w", err)
	}
	defer f.Close()
	return l.readLimited(f, path)
}

func (l *Loader) readLimited(r io.Reader, name string) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, l.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", shorten(name), err)
	}
	if int64(len(data)) > l.maxBytes {
		return nil, fmt.Errorf("%s: %w", shorten(name), ErrImageTooLarge)
	}
	return data, nil
}

// decodeDataURL handles "data:<mime>;base64,<payload>" and the plain
// percent-encoded form.
func decodeDataURL(u string) ([]byte, error) {
	meta, payload, ok := strings.Cut(strings.TrimPrefix(u, "data:"), ",")
	if !ok {
		return nil, fmt.Errorf("malformed data URL")
	}
	if strings.HasSuffix(meta, ";base64") {
		data, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return nil, fmt.Errorf("decoding data URL: %w", err)
		}
		return data, nil
	}
	s, err := url.PathUnescape(payload)
	if err != nil {
		return nil, fmt.Errorf("decoding data URL: %w", err)
	}
	return []byte(s), nil
}

// shorten keeps data URLs out of error messages.
func shorten(u string) string {
	if strings.HasPrefix(u, "data:") && len(u) > 32 {
		return u[:32] + "..."
	}
	return u
}
