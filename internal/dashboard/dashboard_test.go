package dashboard

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/ziadkadry99/menu-studio/internal/audit"
	"github.com/ziadkadry99/menu-studio/internal/db"
	"github.com/ziadkadry99/menu-studio/internal/export"
	"github.com/ziadkadry99/menu-studio/internal/menu"
	"github.com/ziadkadry99/menu-studio/internal/mutator"
	"github.com/ziadkadry99/menu-studio/internal/session"
	"github.com/ziadkadry99/menu-studio/internal/store"
)

type testEnv struct {
	router   chi.Router
	sess     *session.Session
	store    *store.StateStore
	activity *audit.Store
}

func setupTest(t *testing.T) *testEnv {
	t.Helper()

	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	ids := &menu.SequenceIDs{Prefix: "d"}
	st := store.New(database, ids, zerolog.Nop())
	sess := session.New(menu.NewAppState(), mutator.New(ids), st, zerolog.Nop())
	activity := audit.NewStore(database)

	r := chi.NewRouter()
	New(sess, st, activity).RegisterRoutes(r)
	return &testEnv{router: r, sess: sess, store: st, activity: activity}
}

func (e *testEnv) get(t *testing.T, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func TestStatsEndpoint(t *testing.T) {
	env := setupTest(t)
	ctx := t.Context()

	_, err := env.sess.Apply(ctx, func(st menu.AppState) menu.AppState {
		st.Menu.Title = "Osteria Bianchi"
		st.Menu.Sections = []menu.MenuSection{
			{ID: "s1", Title: "Antipasti", Items: []menu.MenuItem{
				{ID: "i1", Name: "Bruschetta", Highlight: true},
				{ID: "i2", Name: "Olive"},
			}},
			{ID: "s2", Title: "Dolci", Items: []menu.MenuItem{
				{ID: "i3", Name: "Tiramisù", Highlight: true},
			}},
		}
		return st
	})
	if err != nil {
		t.Fatalf("applying state: %v", err)
	}

	finished := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	if err := env.store.RecordExport(ctx, export.Run{
		ID: "run-1", Kind: export.KindStory, Status: export.StatusSucceeded,
		Files: []string{export.StoryFile}, StartedAt: finished.Add(-time.Second), FinishedAt: finished,
	}); err != nil {
		t.Fatalf("recording export: %v", err)
	}

	w := env.get(t, "/api/dashboard/stats")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var stats statsResponse
	if err := json.NewDecoder(w.Body).Decode(&stats); err != nil {
		t.Fatalf("decoding stats: %v", err)
	}
	if stats.Title != "Osteria Bianchi" {
		t.Errorf("expected title Osteria Bianchi, got %q", stats.Title)
	}
	if stats.Sections != 2 {
		t.Errorf("expected 2 sections, got %d", stats.Sections)
	}
	if stats.Items != 3 {
		t.Errorf("expected 3 items, got %d", stats.Items)
	}
	if stats.Highlighted != 2 {
		t.Errorf("expected 2 highlighted items, got %d", stats.Highlighted)
	}
	if stats.LastExport == nil || !stats.LastExport.Equal(finished) {
		t.Errorf("expected last export %v, got %v", finished, stats.LastExport)
	}
}

func TestStatsWithoutExports(t *testing.T) {
	env := setupTest(t)

	w := env.get(t, "/api/dashboard/stats")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if strings.Contains(w.Body.String(), "last_export") {
		t.Errorf("expected no last_export field, got %s", w.Body.String())
	}
}

func TestRecentEndpoint(t *testing.T) {
	env := setupTest(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	for i, action := range []audit.Action{audit.ActionImport, audit.ActionApplyPreset} {
		if err := env.activity.Log(ctx, audit.Entry{
			Timestamp: base.Add(time.Duration(i) * time.Minute),
			Source:    audit.SourceAPI,
			Action:    action,
			Summary:   string(action),
		}); err != nil {
			t.Fatalf("logging activity: %v", err)
		}
	}
	if err := env.store.RecordExport(ctx, export.Run{
		ID: "run-1", Kind: export.KindCarousel, Status: export.StatusFailed,
		Error: "export failed", StartedAt: base, FinishedAt: base,
	}); err != nil {
		t.Fatalf("recording export: %v", err)
	}

	w := env.get(t, "/api/dashboard/recent")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp recentResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(resp.Activity) != 2 {
		t.Fatalf("expected 2 activity entries, got %d", len(resp.Activity))
	}
	if resp.Activity[0].Action != audit.ActionApplyPreset {
		t.Errorf("expected newest entry first, got %q", resp.Activity[0].Action)
	}
	if len(resp.Exports) != 1 || resp.Exports[0].Status != export.StatusFailed {
		t.Errorf("expected one failed export, got %+v", resp.Exports)
	}
}

func TestRecentWithoutStores(t *testing.T) {
	sess := session.New(menu.NewAppState(), mutator.New(&menu.SequenceIDs{Prefix: "d"}), nil, zerolog.Nop())
	r := chi.NewRouter()
	New(sess, nil, nil).RegisterRoutes(r)

	req := httptest.NewRequest(http.MethodGet, "/api/dashboard/recent", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	body := strings.TrimSpace(w.Body.String())
	if body != `{"activity":[],"exports":[]}` {
		t.Errorf("expected empty lists, got %s", body)
	}
}

func TestServeIndex(t *testing.T) {
	env := setupTest(t)

	w := env.get(t, "/")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("expected text/html, got %q", ct)
	}
	body := w.Body.String()
	for _, want := range []string{"<title>Menu Studio</title>", "/ws/preview", "/api/preview.png", "/api/export/"} {
		if !strings.Contains(body, want) {
			t.Errorf("index page missing %q", want)
		}
	}
}
