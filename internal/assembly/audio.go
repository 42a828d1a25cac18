package assembly

import (
	"context"

	"github.com/examforge/examforge-admin/internal/bank"
)

// AudioBackend is the slice of the bank client the orchestrator needs.
type AudioBackend interface {
	AudioAvailability(ctx context.Context) (bank.Availability, error)
	GenerateAudio(ctx context.Context, req bank.GenerateAudioRequest) (string, error)
}

// ProgressFunc receives monotonic batch progress after each generation call.
type ProgressFunc func(completed, total int)

// AudioOrchestrator drives per-question speech synthesis for audio-bearing
// modules. Generation is sequential by design: it bounds load on a
// CPU-bound synthesis backend and keeps operator-visible progress strictly
// monotonic. Do not parallelize.
type AudioOrchestrator struct {
	Backend  AudioBackend
	Voice    bank.VoiceConfig
	Progress ProgressFunc // optional
}

func NewAudioOrchestrator(backend AudioBackend, voice bank.VoiceConfig) *AudioOrchestrator {
	return &AudioOrchestrator{Backend: backend, Voice: voice}
}

// Probe checks synthesis availability before any generation is attempted.
// Unavailability is an operator decision point, not an automatic fallback.
func (o *AudioOrchestrator) Probe(ctx context.Context) error {
	avail, err := o.Backend.AudioAvailability(ctx)
	if err != nil {
		return &AudioServiceUnavailableError{MissingDependencies: []string{err.Error()}}
	}
	if !avail.Available {
		return &AudioServiceUnavailableError{MissingDependencies: avail.MissingDependencies}
	}
	return nil
}

// Run generates audio for every sampled question that lacks it, one at a
// time, mutating the slice in place on success. A single failed item never
// aborts the batch; it lands in the report's Failures instead. The batch
// respects ctx between calls, so an abandoned run stops at the next
// suspension point with no compensating action.
func (o *AudioOrchestrator) Run(ctx context.Context, questions []SampledQuestion) (AudioReport, error) {
	if err := o.Probe(ctx); err != nil {
		return AudioReport{}, err
	}

	var pending []int
	for i := range questions {
		if needsAudio(&questions[i]) {
			pending = append(pending, i)
		}
	}

	report := AudioReport{}
	total := len(pending)
	completed := 0
	for _, i := range pending {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		q := &questions[i]
		job := AudioJob{QuestionID: q.ID, Text: q.Sentence.Text, Status: AudioPending}

		ref, err := o.Backend.GenerateAudio(ctx, bank.GenerateAudioRequest{
			Text:       q.Sentence.Text,
			QuestionID: q.ID,
			ModuleID:   q.ModuleID,
			LevelID:    q.LevelID,
			Voice:      o.Voice,
		})
		if err != nil {
			job.Status = AudioFailed
			job.ErrorMessage = err.Error()
			report.Failures = append(report.Failures, job)
		} else {
			job.Status = AudioSuccess
			job.AudioRef = ref
			q.Sentence.AudioRef = ref
			q.HasAudio = true
			report.Successes = append(report.Successes, job)
		}

		completed++
		if o.Progress != nil {
			o.Progress(completed, total)
		}
	}
	return report, nil
}

func needsAudio(q *SampledQuestion) bool {
	return q.Sentence != nil && !q.HasAudio && q.Sentence.Text != ""
}
