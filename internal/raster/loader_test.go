package raster

import (
	"bytes"
	"context"
	"encoding/base64"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, solid(w, h, color.RGBA{10, 20, 30, 255})))
	return buf.Bytes()
}

func TestLoaderDataURL(t *testing.T) {
	l := NewLoader(nil, 0)
	u := "data:image/png;base64," + base64.StdEncoding.EncodeToString(pngBytes(t, 3, 2))

	img, err := l.Image(context.Background(), u)
	require.NoError(t, err)
	assert.Equal(t, 3, img.Bounds().Dx())
	assert.Equal(t, 2, img.Bounds().Dy())
	assert.True(t, l.Cached(u))
}

func TestLoaderMalformedDataURL(t *testing.T) {
	l := NewLoader(nil, 0)
	_, err := l.Image(context.Background(), "data:image/png;base64")
	assert.Error(t, err)

	_, err = l.Image(context.Background(), "data:image/png;base64,!!!")
	assert.Error(t, err)
}

func TestLoaderHTTPCachesResult(t *testing.T) {
	data := pngBytes(t, 4, 4)
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if r.URL.Path == "/missing.png" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Write(data)
	}))
	defer srv.Close()

	l := NewLoader(srv.Client(), 0)
	for i := 0; i < 3; i++ {
		_, err := l.Image(context.Background(), srv.URL+"/logo.png")
		require.NoError(t, err)
	}
	assert.Equal(t, int32(1), hits.Load())

	_, err := l.Image(context.Background(), srv.URL+"/missing.png")
	assert.ErrorContains(t, err, "status 404")
}

func TestLoaderSizeLimit(t *testing.T) {
	data := pngBytes(t, 64, 64)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(data)
	}))
	defer srv.Close()

	l := NewLoader(srv.Client(), 16)
	_, err := l.Image(context.Background(), srv.URL)
	assert.ErrorIs(t, err, ErrImageTooLarge)
}

func TestLoaderLocalFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logo.png")
	require.NoError(t, os.WriteFile(path, pngBytes(t, 5, 5), 0o644))

	l := NewLoader(nil, 0)
	_, err := l.Image(context.Background(), path)
	require.NoError(t, err)
	_, err = l.Image(context.Background(), "file://"+path)
	require.NoError(t, err)
}

func TestPreloadContinuesPastFailures(t *testing.T) {
	data := pngBytes(t, 2, 2)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/bad" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write(data)
	}))
	defer srv.Close()

	l := NewLoader(srv.Client(), 0)
	urls := []string{srv.URL + "/a", srv.URL + "/bad", srv.URL + "/b"}
	err := l.Preload(context.Background(), urls)
	require.Error(t, err)
	assert.ErrorContains(t, err, "/bad")
	assert.True(t, l.Cached(srv.URL+"/a"))
	assert.True(t, l.Cached(srv.URL+"/b"))
	assert.False(t, l.Cached(srv.URL+"/bad"))
}
