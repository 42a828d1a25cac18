package assembly

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// TestCreator is the Test Persistence Service boundary. Creating the test
// is the only point where usage counts are committed, and it happens on the
// service side.
type TestCreator interface {
	CreateTest(ctx context.Context, t AssembledTest, meta map[string]any) (string, error)
}

// EventSink records run lifecycle events. Implementations must be
// best-effort; the assembler ignores sink errors.
type EventSink interface {
	Append(ctx context.Context, runID, typ string, data any) error
}

// Assembler wires the pipeline stages for one sampling+assembly run:
// sample → classify → (audio) → gate → persist. It holds no state across
// runs; abandonment is context cancellation and leaves nothing behind.
type Assembler struct {
	Sampler *Sampler
	Audio   *AudioOrchestrator // nil disables audio entirely
	Tests   TestCreator
	Audit   EventSink // optional
}

// RunOptions are the operator's per-run choices.
type RunOptions struct {
	// AcceptWithoutAudio lets an audio-required module proceed when the
	// synthesis service is down or individual generations failed.
	AcceptWithoutAudio bool
	// Metadata is passed through to test creation untouched.
	Metadata map[string]any
	// Progress receives audio generation progress, if any.
	Progress ProgressFunc
}

// RunReport is everything the operator needs to review the outcome.
type RunReport struct {
	RunID     string            `json:"run_id"`
	TestID    string            `json:"test_id,omitempty"`
	Questions []SampledQuestion `json:"questions"`
	Audio     AudioReport       `json:"audio"`
}

// Run executes the full pipeline and returns the created test id on
// success. Systemic errors (bank unavailable, insufficient questions,
// incomplete assembly) abort the run and propagate unmodified; per-question
// audio failures are absorbed into the report.
func (a *Assembler) Run(ctx context.Context, req SamplingRequest, opts RunOptions) (RunReport, error) {
	report := RunReport{RunID: uuid.NewString()}
	a.event(ctx, report.RunID, "run_started", req)

	questions, err := a.Sampler.Sample(ctx, req)
	if err != nil {
		a.fail(ctx, report.RunID, err)
		return report, err
	}
	report.Questions = questions
	a.event(ctx, report.RunID, "sampled", map[string]any{"count": len(questions)})

	if prof := ProfileFor(req.ModuleID); prof.RequiresAudio && a.Audio != nil {
		orch := *a.Audio
		if opts.Progress != nil {
			orch.Progress = opts.Progress
		}
		audio, err := orch.Run(ctx, questions)
		report.Audio = audio
		switch {
		case err == nil:
			a.event(ctx, report.RunID, "audio_generated", map[string]any{
				"succeeded": len(audio.Successes), "failed": len(audio.Failures),
			})
			for _, job := range audio.Failures {
				a.event(ctx, report.RunID, "audio_failed", job)
			}
		case isAudioUnavailable(err) && opts.AcceptWithoutAudio:
			// Operator chose to proceed without audio; the gate will let the
			// silent questions through below.
			a.event(ctx, report.RunID, "audio_skipped", map[string]any{"reason": err.Error()})
		default:
			a.fail(ctx, report.RunID, err)
			return report, err
		}
	}

	gate := Gate{AcceptWithoutAudio: opts.AcceptWithoutAudio}
	test, err := gate.Finalize(req, questions)
	if err != nil {
		a.fail(ctx, report.RunID, err)
		return report, err
	}
	a.event(ctx, report.RunID, "assembled", map[string]any{"count": len(test.Questions)})

	testID, err := a.Tests.CreateTest(ctx, test, opts.Metadata)
	if err != nil {
		err = fmt.Errorf("create test: %w", err)
		a.fail(ctx, report.RunID, err)
		return report, err
	}
	report.TestID = testID
	a.event(ctx, report.RunID, "persisted", map[string]any{"test_id": testID})
	return report, nil
}

// Preview runs sampling and classification only, so the operator can review
// repetition statuses before committing to audio generation or persistence.
func (a *Assembler) Preview(ctx context.Context, req SamplingRequest) ([]SampledQuestion, error) {
	return a.Sampler.Sample(ctx, req)
}

func (a *Assembler) event(ctx context.Context, runID, typ string, data any) {
	if a.Audit == nil {
		return
	}
	_ = a.Audit.Append(ctx, runID, typ, data)
}

func (a *Assembler) fail(ctx context.Context, runID string, err error) {
	a.event(ctx, runID, "run_failed", map[string]any{"error": err.Error()})
}

func isAudioUnavailable(err error) bool {
	var unavailable *AudioServiceUnavailableError
	return errors.As(err, &unavailable)
}
