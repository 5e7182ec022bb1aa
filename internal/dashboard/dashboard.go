// Package dashboard serves the browser landing page: document stats,
// recent activity, a live PNG preview and export downloads.
package dashboard

import (
	"context"
	_ "embed"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ziadkadry99/menu-studio/internal/audit"
	"github.com/ziadkadry99/menu-studio/internal/export"
	"github.com/ziadkadry99/menu-studio/internal/session"
)

// ExportHistory lists past exports.
type ExportHistory interface {
	ListExports(ctx context.Context, limit int) ([]export.Run, error)
}

// ActivityLog lists recorded changes.
type ActivityLog interface {
	Query(ctx context.Context, filter audit.QueryFilter) ([]audit.Entry, error)
}

// Dashboard provides the landing page and its data endpoints.
type Dashboard struct {
	session  *session.Session
	exports  ExportHistory
	activity ActivityLog
}

// New creates a new Dashboard. exports and activity may be nil.
func New(sess *session.Session, exports ExportHistory, activity ActivityLog) *Dashboard {
	return &Dashboard{session: sess, exports: exports, activity: activity}
}

// RegisterRoutes mounts all dashboard routes onto the given router.
func (d *Dashboard) RegisterRoutes(r chi.Router) {
	r.Get("/", d.ServeIndex)
	r.Get("/api/dashboard/stats", d.handleStats)
	r.Get("/api/dashboard/recent", d.handleRecent)
}

//go:embed index.html
var indexHTML []byte

// ServeIndex serves the landing page. It talks to /api and /ws/preview.
func (d *Dashboard) ServeIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(indexHTML)
}
