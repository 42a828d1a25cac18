package http

import (
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/examforge/examforge-admin/internal/storage"
)

// AudioAssetHandler serves cached preview clips for sampled questions.
// GET /assets/audio/{questionID}?ref=<audioRef> — ref fills the cache on a
// miss; without it only already-mirrored clips are served.
func AudioAssetHandler(cache *storage.AudioCache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		questionID := chi.URLParam(r, "questionID")
		if questionID == "" {
			http.Error(w, "question id required", http.StatusBadRequest)
			return
		}
		audioRef := strings.TrimSpace(r.URL.Query().Get("ref"))

		rc, err := cache.Open(r.Context(), questionID, audioRef)
		if err != nil {
			http.Error(w, "not found: "+err.Error(), http.StatusNotFound)
			return
		}
		defer rc.Close()
		w.Header().Set("Content-Type", "audio/mpeg")
		_, _ = io.Copy(w, rc)
	}
}
