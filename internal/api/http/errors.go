package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/examforge/examforge-admin/internal/assembly"
	"github.com/examforge/examforge-admin/internal/bank"
)

// writeTaxonomyError maps pipeline errors onto statuses and keeps the
// detail (counts, ids, missing fields) the operator needs to correct the
// input and retry.
func writeTaxonomyError(w http.ResponseWriter, err error) {
	var insufficient *assembly.InsufficientQuestionsError
	var audioDown *assembly.AudioServiceUnavailableError
	var incomplete *assembly.AssemblyIncompleteError

	switch {
	case errors.Is(err, bank.ErrBankUnavailable):
		writeJSONError(w, http.StatusServiceUnavailable, err.Error(), nil)
	case errors.As(err, &insufficient):
		writeJSONError(w, http.StatusConflict, err.Error(), map[string]any{
			"available": insufficient.Available,
			"requested": insufficient.Requested,
		})
	case errors.As(err, &audioDown):
		writeJSONError(w, http.StatusBadGateway, err.Error(), map[string]any{
			"missing_dependencies": audioDown.MissingDependencies,
		})
	case errors.As(err, &incomplete):
		writeJSONError(w, http.StatusUnprocessableEntity, err.Error(), map[string]any{
			"question_id":    incomplete.QuestionID,
			"missing_fields": incomplete.MissingFields,
		})
	case errors.Is(err, assembly.ErrInvalidRequest), errors.Is(err, assembly.ErrNoQuestions):
		writeJSONError(w, http.StatusBadRequest, err.Error(), nil)
	default:
		writeJSONError(w, http.StatusInternalServerError, err.Error(), nil)
	}
}

func writeJSONError(w http.ResponseWriter, status int, msg string, fields map[string]any) {
	body := map[string]any{"error": msg}
	for k, v := range fields {
		body[k] = v
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
