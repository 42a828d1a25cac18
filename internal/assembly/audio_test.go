package assembly

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/examforge/examforge-admin/internal/bank"
)

type fakeAudioBackend struct {
	avail    bank.Availability
	availErr error

	calls   []string // question ids in call order
	failIDs map[string]bool
}

func (f *fakeAudioBackend) AudioAvailability(context.Context) (bank.Availability, error) {
	return f.avail, f.availErr
}

func (f *fakeAudioBackend) GenerateAudio(_ context.Context, req bank.GenerateAudioRequest) (string, error) {
	f.calls = append(f.calls, req.QuestionID)
	if f.failIDs[req.QuestionID] {
		return "", errors.New("synthesis worker crashed")
	}
	return "audio/" + req.QuestionID + ".mp3", nil
}

func listeningSet(n, withAudio int) []SampledQuestion {
	out := make([]SampledQuestion, 0, n)
	for i := 0; i < n; i++ {
		q := SampledQuestion{Question: bank.Question{
			ID:       fmt.Sprintf("q-%d", i),
			ModuleID: "LISTENING",
			Sentence: &bank.SentencePayload{Text: fmt.Sprintf("sentence %d", i)},
		}}
		if i < withAudio {
			q.HasAudio = true
			q.Sentence.AudioRef = "audio/preexisting.mp3"
		}
		out = append(out, q)
	}
	return out
}

func TestAudioRunGeneratesOnlyMissing(t *testing.T) {
	backend := &fakeAudioBackend{avail: bank.Availability{Available: true}}
	var progress [][2]int
	o := &AudioOrchestrator{
		Backend:  backend,
		Voice:    bank.VoiceConfig{Voice: "en-US-standard", Language: "en-US", Speed: 1},
		Progress: func(completed, total int) { progress = append(progress, [2]int{completed, total}) },
	}

	// 5 sampled, 2 already have audio: exactly 3 sequential calls.
	qs := listeningSet(5, 2)
	report, err := o.Run(context.Background(), qs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(backend.calls) != 3 {
		t.Fatalf("expected 3 generation calls, got %d", len(backend.calls))
	}
	if len(report.Successes) != 3 || len(report.Failures) != 0 {
		t.Fatalf("expected 3 successes, got %d/%d", len(report.Successes), len(report.Failures))
	}

	want := [][2]int{{1, 3}, {2, 3}, {3, 3}}
	if len(progress) != len(want) {
		t.Fatalf("expected %d progress ticks, got %d", len(want), len(progress))
	}
	for i := range want {
		if progress[i] != want[i] {
			t.Fatalf("progress[%d] = %v, want %v", i, progress[i], want[i])
		}
	}

	for _, q := range qs {
		if !q.HasAudio {
			t.Fatalf("question %s not merged with audio", q.ID)
		}
		if q.Sentence.AudioRef == "" {
			t.Fatalf("question %s missing audio ref after merge", q.ID)
		}
	}
}

func TestAudioRunIsolatesFailures(t *testing.T) {
	backend := &fakeAudioBackend{
		avail:   bank.Availability{Available: true},
		failIDs: map[string]bool{"q-2": true},
	}
	o := NewAudioOrchestrator(backend, bank.VoiceConfig{Voice: "v", Language: "en"})

	qs := listeningSet(5, 0)
	report, err := o.Run(context.Background(), qs)
	if err != nil {
		t.Fatalf("batch must not abort on a single failure: %v", err)
	}
	if len(backend.calls) != 5 {
		t.Fatalf("expected the batch to continue past the failure, got %d calls", len(backend.calls))
	}
	if len(report.Successes) != 4 || len(report.Failures) != 1 {
		t.Fatalf("expected 4 successes and 1 failure, got %d/%d", len(report.Successes), len(report.Failures))
	}
	fail := report.Failures[0]
	if fail.QuestionID != "q-2" || fail.Status != AudioFailed || fail.ErrorMessage == "" {
		t.Fatalf("failure not recorded with detail: %+v", fail)
	}
	for _, q := range qs {
		if q.ID == "q-2" {
			if q.HasAudio {
				t.Fatalf("failed question must keep has_audio=false")
			}
			continue
		}
		if !q.HasAudio {
			t.Fatalf("question %s should have merged audio", q.ID)
		}
	}
}

func TestAudioRunFailsFastWhenUnavailable(t *testing.T) {
	backend := &fakeAudioBackend{
		avail: bank.Availability{Available: false, MissingDependencies: []string{"espeak-ng", "ffmpeg"}},
	}
	o := NewAudioOrchestrator(backend, bank.VoiceConfig{})

	_, err := o.Run(context.Background(), listeningSet(3, 0))
	var unavailable *AudioServiceUnavailableError
	if !errors.As(err, &unavailable) {
		t.Fatalf("expected AudioServiceUnavailableError, got %v", err)
	}
	if len(unavailable.MissingDependencies) != 2 {
		t.Fatalf("expected missing dependency detail, got %v", unavailable.MissingDependencies)
	}
	if len(backend.calls) != 0 {
		t.Fatalf("no generation calls may be issued when unavailable, got %d", len(backend.calls))
	}
}

func TestAudioRunStopsAtCancellation(t *testing.T) {
	backend := &fakeAudioBackend{avail: bank.Availability{Available: true}}
	ctx, cancel := context.WithCancel(context.Background())
	o := &AudioOrchestrator{
		Backend: backend,
		Progress: func(completed, total int) {
			if completed == 1 {
				cancel() // abandon between per-question calls
			}
		},
	}

	report, err := o.Run(ctx, listeningSet(4, 0))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(backend.calls) != 1 {
		t.Fatalf("expected generation to stop after cancellation, got %d calls", len(backend.calls))
	}
	if len(report.Successes) != 1 {
		t.Fatalf("completed work before abandonment should be reported, got %d", len(report.Successes))
	}
}
