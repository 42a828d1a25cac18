package http

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/examforge/examforge-admin/internal/bank"
)

// QuestionCountHandler proxies the bank's count query so the operator can
// validate a target count before sampling.
func QuestionCountHandler(bc *bank.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		moduleID := strings.TrimSpace(r.URL.Query().Get("module_id"))
		if moduleID == "" {
			http.Error(w, "module_id required", http.StatusBadRequest)
			return
		}
		sel := bank.Selector{
			ModuleID: moduleID,
			LevelID:  strings.TrimSpace(r.URL.Query().Get("level_id")),
			TopicID:  strings.TrimSpace(r.URL.Query().Get("topic_id")),
		}
		count, err := bc.CountQuestions(r.Context(), sel)
		if err != nil {
			writeTaxonomyError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]int{"available_count": count})
	}
}

// AudioAvailabilityHandler proxies the synthesis availability probe.
func AudioAvailabilityHandler(bc *bank.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		avail, err := bc.AudioAvailability(r.Context())
		if err != nil {
			writeTaxonomyError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, avail)
	}
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil && v >= 0 {
		return v
	}
	return def
}
