package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/examforge/examforge-admin/internal/audit"
)

// RunsHandler lists recent run events, newest first.
func RunsHandler(repo *audit.Repo) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := parseIntDefault(r.URL.Query().Get("limit"), 50)
		events, err := repo.Recent(r.Context(), limit)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"events": decorate(events)})
	}
}

// RunEventsHandler returns one run's events in order.
func RunEventsHandler(repo *audit.Repo) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		runID := chi.URLParam(r, "runID")
		events, err := repo.ForRun(r.Context(), runID)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"run_id": runID, "events": decorate(events)})
	}
}

// decorate inlines the stored JSON payloads so clients get objects, not
// double-encoded strings.
func decorate(events []audit.Event) []map[string]any {
	out := make([]map[string]any, 0, len(events))
	for _, e := range events {
		var data any
		if err := json.Unmarshal([]byte(e.DataJSON), &data); err != nil {
			data = e.DataJSON
		}
		out = append(out, map[string]any{
			"offset":     e.Offset,
			"run_id":     e.RunID,
			"type":       e.Type,
			"data":       data,
			"created_at": e.CreatedAt,
		})
	}
	return out
}
