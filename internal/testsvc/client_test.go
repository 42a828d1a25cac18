package testsvc

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/examforge/examforge-admin/internal/assembly"
	"github.com/examforge/examforge-admin/internal/bank"
)

func TestCreateTest(t *testing.T) {
	var got struct {
		ModuleID  string           `json:"module_id"`
		Questions []map[string]any `json:"questions"`
		Metadata  map[string]any   `json:"metadata"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/tests" || r.Method != http.MethodPost {
			http.NotFound(w, r)
			return
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"test_id": "t-99"})
	}))
	t.Cleanup(srv.Close)

	c := NewWithHTTP(srv.URL, srv.Client())
	test := assembly.AssembledTest{
		ModuleID: "READING",
		Questions: []assembly.SampledQuestion{{
			Question:         bank.Question{ID: "q1", ModuleID: "READING"},
			RepeatCount:      1,
			ProjectedUsage:   2,
			RepetitionStatus: "repeating_first_time",
		}},
	}

	id, err := c.CreateTest(context.Background(), test, map[string]any{"title": "T"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != "t-99" {
		t.Fatalf("expected t-99, got %q", id)
	}
	if got.ModuleID != "READING" || len(got.Questions) != 1 || got.Metadata["title"] != "T" {
		t.Fatalf("request body not shaped as expected: %+v", got)
	}
}

func TestCreateTestRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "duplicate test title", http.StatusConflict)
	}))
	t.Cleanup(srv.Close)

	c := NewWithHTTP(srv.URL, srv.Client())
	if _, err := c.CreateTest(context.Background(), assembly.AssembledTest{ModuleID: "READING"}, nil); err == nil {
		t.Fatalf("expected error on non-2xx")
	}
}
