package dashboard

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ziadkadry99/menu-studio/internal/audit"
	"github.com/ziadkadry99/menu-studio/internal/export"
)

const recentLimit = 10

// statsResponse is the JSON response for the stats endpoint.
type statsResponse struct {
	Title        string     `json:"title"`
	Sections     int        `json:"sections"`
	Items        int        `json:"items"`
	Highlighted  int        `json:"highlighted"`
	HasOnboarded bool       `json:"has_onboarded"`
	LastExport   *time.Time `json:"last_export,omitempty"`
}

// recentResponse is the JSON response for the recent activity endpoint.
type recentResponse struct {
	Activity []audit.Entry `json:"activity"`
	Exports  []export.Run  `json:"exports"`
}

func (d *Dashboard) handleStats(w http.ResponseWriter, r *http.Request) {
	st := d.session.State()
	stats := statsResponse{
		Title:        st.Menu.Title,
		Sections:     len(st.Menu.Sections),
		HasOnboarded: st.HasOnboarded,
	}
	for _, sec := range st.Menu.Sections {
		stats.Items += len(sec.Items)
		for _, it := range sec.Items {
			if it.Highlight {
				stats.Highlighted++
			}
		}
	}

	if d.exports != nil {
		runs, err := d.exports.ListExports(r.Context(), 1)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		if len(runs) > 0 {
			stats.LastExport = &runs[0].FinishedAt
		}
	}

	writeJSON(w, http.StatusOK, stats)
}

func (d *Dashboard) handleRecent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	resp := recentResponse{Activity: []audit.Entry{}, Exports: []export.Run{}}

	if d.activity != nil {
		entries, err := d.activity.Query(ctx, audit.QueryFilter{Limit: recentLimit})
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		resp.Activity = append(resp.Activity, entries...)
	}
	if d.exports != nil {
		runs, err := d.exports.ListExports(ctx, recentLimit)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		resp.Exports = append(resp.Exports, runs...)
	}

	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
