package audit

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/ziadkadry99/menu-studio/internal/db"
	"github.com/ziadkadry99/menu-studio/internal/mutator"
)

func setupStore(t *testing.T) *Store {
	t.Helper()
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return NewStore(database)
}

var base = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func seed(t *testing.T, store *Store) {
	t.Helper()
	entries := []Entry{
		{ID: "e1", Timestamp: base, Source: SourceCLI, Action: ActionImport, Summary: "Imported 3 sections"},
		{ID: "e2", Timestamp: base.Add(time.Minute), Source: SourceAPI, Action: "set_menu_field", Target: "title", Summary: "Set title"},
		{ID: "e3", Timestamp: base.Add(2 * time.Minute), Source: SourcePreview, Action: ActionReorder, Target: "section 0", Summary: "Moved Antipasti"},
		{ID: "e4", Timestamp: base.Add(2*time.Minute + 150*time.Millisecond), Source: SourceAPI, Action: ActionApplyPreset, Target: "xmas", Summary: "Applied Natale"},
	}
	for _, e := range entries {
		if err := store.Log(context.Background(), e); err != nil {
			t.Fatalf("Log(%s): %v", e.ID, err)
		}
	}
}

func TestLogAndGetByID(t *testing.T) {
	store := setupStore(t)
	seed(t, store)

	got, err := store.GetByID(context.Background(), "e2")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Source != SourceAPI {
		t.Errorf("Source = %q, want %q", got.Source, SourceAPI)
	}
	if got.Action != "set_menu_field" {
		t.Errorf("Action = %q, want set_menu_field", got.Action)
	}
	if got.Target != "title" {
		t.Errorf("Target = %q, want title", got.Target)
	}
	if !got.Timestamp.Equal(base.Add(time.Minute)) {
		t.Errorf("Timestamp = %v, want %v", got.Timestamp, base.Add(time.Minute))
	}
}

func TestLogGeneratesIDAndTimestamp(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	before := time.Now().Add(-time.Second)
	if err := store.Log(ctx, Entry{Source: SourceMCP, Action: ActionReset, Summary: "Reset"}); err != nil {
		t.Fatalf("Log: %v", err)
	}
	entries, err := store.Query(ctx, QueryFilter{})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	if entries[0].ID == "" {
		t.Error("expected a generated ID")
	}
	if entries[0].Timestamp.Before(before) {
		t.Errorf("Timestamp = %v, want about now", entries[0].Timestamp)
	}
}

func TestQueryNewestFirst(t *testing.T) {
	store := setupStore(t)
	seed(t, store)

	entries, err := store.Query(context.Background(), QueryFilter{})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	want := []string{"e4", "e3", "e2", "e1"}
	if len(entries) != len(want) {
		t.Fatalf("got %d entries, want %d", len(entries), len(want))
	}
	for i, id := range want {
		if entries[i].ID != id {
			t.Errorf("entries[%d] = %s, want %s", i, entries[i].ID, id)
		}
	}
}

func TestQueryFilters(t *testing.T) {
	store := setupStore(t)
	seed(t, store)
	since := base.Add(90 * time.Second)

	tests := []struct {
		name   string
		filter QueryFilter
		want   []string
	}{
		{"by source", QueryFilter{Source: SourceAPI}, []string{"e4", "e2"}},
		{"by action", QueryFilter{Action: ActionReorder}, []string{"e3"}},
		{"since", QueryFilter{Since: &since}, []string{"e4", "e3"}},
		{"limit offset", QueryFilter{Limit: 2, Offset: 1}, []string{"e3", "e2"}},
		{"no match", QueryFilter{Source: SourceMCP}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries, err := store.Query(context.Background(), tt.filter)
			if err != nil {
				t.Fatalf("Query: %v", err)
			}
			if len(entries) != len(tt.want) {
				t.Fatalf("got %d entries, want %d", len(entries), len(tt.want))
			}
			for i, id := range tt.want {
				if entries[i].ID != id {
					t.Errorf("entries[%d] = %s, want %s", i, entries[i].ID, id)
				}
			}
		})
	}
}

func TestDeleteBefore(t *testing.T) {
	store := setupStore(t)
	seed(t, store)
	ctx := context.Background()

	n, err := store.DeleteBefore(ctx, base.Add(90*time.Second))
	if err != nil {
		t.Fatalf("DeleteBefore: %v", err)
	}
	if n != 2 {
		t.Errorf("deleted %d, want 2", n)
	}
	entries, _ := store.Query(ctx, QueryFilter{})
	if len(entries) != 2 {
		t.Errorf("remaining = %d, want 2", len(entries))
	}
}

func TestGetByIDNotFound(t *testing.T) {
	store := setupStore(t)
	_, err := store.GetByID(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func setupRouter(t *testing.T) chi.Router {
	t.Helper()
	store := setupStore(t)
	seed(t, store)
	r := chi.NewRouter()
	RegisterRoutes(r, store)
	return r
}

func TestHTTPQuery(t *testing.T) {
	r := setupRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/activity/?source=api&limit=1", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var entries []Entry
	if err := json.NewDecoder(w.Body).Decode(&entries); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(entries) != 1 || entries[0].ID != "e4" {
		t.Errorf("entries = %+v, want only e4", entries)
	}
}

func TestHTTPGetByID(t *testing.T) {
	r := setupRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/activity/e3", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var e Entry
	if err := json.NewDecoder(w.Body).Decode(&e); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if e.Action != ActionReorder {
		t.Errorf("Action = %q, want %q", e.Action, ActionReorder)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/activity/nope", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestCommandEntry(t *testing.T) {
	e := Command(SourceAPI, mutator.Command{Op: mutator.OpSetItemField, Section: mutator.Int(1), Item: mutator.Int(0), Field: "price"})
	if e.Action != "set_item_field" {
		t.Errorf("Action = %q", e.Action)
	}
	if e.Target != "section 1 item 0 price" {
		t.Errorf("Target = %q", e.Target)
	}
	if e.Summary != "set_item_field on section 1 item 0 price" {
		t.Errorf("Summary = %q", e.Summary)
	}

	e = Command(SourceCLI, mutator.Command{Op: mutator.OpAddSection})
	if e.Target != "" || e.Summary != "add_section" {
		t.Errorf("entry = %+v", e)
	}
}

type failingLogger struct{ calls int }

func (f *failingLogger) Log(context.Context, Entry) error {
	f.calls++
	return errors.New("disk full")
}

func TestRecord(t *testing.T) {
	Record(context.Background(), nil, Entry{}, zerolog.Nop())

	f := &failingLogger{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	Record(ctx, f, Entry{Action: ActionReset}, zerolog.Nop())
	if f.calls != 1 {
		t.Errorf("calls = %d, want 1", f.calls)
	}
}
