package http

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/examforge/examforge-admin/internal/assembly"
	"github.com/examforge/examforge-admin/internal/storage"
	"github.com/examforge/examforge-admin/internal/voice"
)

var validate = validator.New()

// AssemblyDeps are the collaborators an assembly run needs. AudioBackend
// may be nil for deployments without a synthesis service.
type AssemblyDeps struct {
	Sampler      *assembly.Sampler
	AudioBackend assembly.AudioBackend
	Tests        assembly.TestCreator
	Audit        assembly.EventSink
	Voices       *voice.Registry
	Cache        *storage.AudioCache // optional preview mirror
}

type assembleRequest struct {
	ModuleID           string         `json:"module_id" validate:"required"`
	LevelID            string         `json:"level_id"`
	TopicID            string         `json:"topic_id"`
	TargetCount        int            `json:"target_count" validate:"required,min=1"`
	AcceptWithoutAudio bool           `json:"accept_without_audio"`
	VoiceProfile       string         `json:"voice_profile"`
	Metadata           map[string]any `json:"metadata"`
}

func (req assembleRequest) sampling() assembly.SamplingRequest {
	return assembly.SamplingRequest{
		ModuleID:    req.ModuleID,
		LevelID:     req.LevelID,
		TopicID:     req.TopicID,
		TargetCount: req.TargetCount,
	}
}

// AssembleHandler runs the full pipeline synchronously and returns the run
// report, or a taxonomy-mapped error with enough detail to correct and
// retry.
func AssembleHandler(deps AssemblyDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req assembleRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if err := validate.Struct(req); err != nil {
			http.Error(w, "invalid request: "+err.Error(), http.StatusBadRequest)
			return
		}

		asm, err := buildAssembler(deps, req.VoiceProfile)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		report, err := asm.Run(r.Context(), req.sampling(), assembly.RunOptions{
			AcceptWithoutAudio: req.AcceptWithoutAudio,
			Metadata:           req.Metadata,
		})
		if err != nil {
			writeTaxonomyError(w, err)
			return
		}

		mirrorAudio(r.Context(), deps.Cache, report.Audio)
		writeJSON(w, http.StatusOK, report)
	}
}

// PreviewHandler samples and classifies without audio or persistence, so
// the operator can review repetition statuses first.
func PreviewHandler(deps AssemblyDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req assembleRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if err := validate.Struct(req); err != nil {
			http.Error(w, "invalid request: "+err.Error(), http.StatusBadRequest)
			return
		}

		questions, err := deps.Sampler.Sample(r.Context(), req.sampling())
		if err != nil {
			writeTaxonomyError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"questions": questions})
	}
}

func buildAssembler(deps AssemblyDeps, voiceProfile string) (*assembly.Assembler, error) {
	asm := &assembly.Assembler{
		Sampler: deps.Sampler,
		Tests:   deps.Tests,
		Audit:   deps.Audit,
	}
	if deps.AudioBackend != nil {
		prof, ok := deps.Voices.Get(voiceProfile)
		if !ok {
			return nil, &unknownVoiceError{name: voiceProfile}
		}
		asm.Audio = assembly.NewAudioOrchestrator(deps.AudioBackend, prof.Config())
	}
	return asm, nil
}

type unknownVoiceError struct{ name string }

func (e *unknownVoiceError) Error() string { return "unknown voice profile: " + e.name }

// mirrorAudio copies fresh clips into the preview cache. Best-effort: a
// cache failure is logged, never surfaced.
func mirrorAudio(ctx context.Context, cache *storage.AudioCache, report assembly.AudioReport) {
	if cache == nil {
		return
	}
	for _, job := range report.Successes {
		if err := cache.Mirror(ctx, job.QuestionID, job.AudioRef); err != nil {
			log.Printf("audio cache: %v", err)
		}
	}
}
