package assembly

import (
	"errors"
	"testing"

	"github.com/examforge/examforge-admin/internal/bank"
)

func mcqQuestion(id string) SampledQuestion {
	return SampledQuestion{Question: bank.Question{
		ID:       id,
		ModuleID: "READING",
		MCQ: &bank.MCQPayload{
			Prompt: "Pick one",
			Options: []bank.MCQOption{
				{Key: "A", Text: "one"}, {Key: "B", Text: "two"},
				{Key: "C", Text: "three"}, {Key: "D", Text: "four"},
			},
			AnswerKey: "C",
		},
	}}
}

func TestGateAcceptsCompleteMCQSet(t *testing.T) {
	req := SamplingRequest{ModuleID: "READING", LevelID: "B2", TargetCount: 2}
	test, err := Gate{}.Finalize(req, []SampledQuestion{mcqQuestion("q1"), mcqQuestion("q2")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if test.ModuleID != "READING" || test.LevelID != "B2" || len(test.Questions) != 2 {
		t.Fatalf("assembled test not packaged from request: %+v", test)
	}
}

func TestGateRejectsEmptySet(t *testing.T) {
	_, err := Gate{}.Finalize(SamplingRequest{ModuleID: "READING"}, nil)
	if !errors.Is(err, ErrNoQuestions) {
		t.Fatalf("expected ErrNoQuestions, got %v", err)
	}
}

func TestGateMCQContract(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*SampledQuestion)
		missing string
	}{
		{"empty prompt", func(q *SampledQuestion) { q.MCQ.Prompt = "  " }, "prompt"},
		{"three options", func(q *SampledQuestion) { q.MCQ.Options = q.MCQ.Options[:3] }, "options"},
		{"duplicate option text", func(q *SampledQuestion) { q.MCQ.Options[3].Text = q.MCQ.Options[0].Text }, "options"},
		{"answer key not among options", func(q *SampledQuestion) { q.MCQ.AnswerKey = "E" }, "answer key"},
		{"no payload", func(q *SampledQuestion) { q.MCQ = nil }, "mcq payload"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			q := mcqQuestion("q1")
			tc.mutate(&q)
			_, err := Gate{}.Finalize(SamplingRequest{ModuleID: "READING", TargetCount: 1}, []SampledQuestion{q})

			var incomplete *AssemblyIncompleteError
			if !errors.As(err, &incomplete) {
				t.Fatalf("expected AssemblyIncompleteError, got %v", err)
			}
			if incomplete.QuestionID != "q1" {
				t.Fatalf("error must carry the question id, got %q", incomplete.QuestionID)
			}
			found := false
			for _, f := range incomplete.MissingFields {
				if f == tc.missing {
					found = true
				}
			}
			if !found {
				t.Fatalf("expected %q among missing fields %v", tc.missing, incomplete.MissingFields)
			}
		})
	}
}

func TestGateListeningRequiresAudio(t *testing.T) {
	q := SampledQuestion{Question: bank.Question{
		ID:       "q1",
		ModuleID: "LISTENING",
		Sentence: &bank.SentencePayload{Text: "She walks to school."},
	}}
	req := SamplingRequest{ModuleID: "LISTENING", TargetCount: 1}

	_, err := Gate{}.Finalize(req, []SampledQuestion{q})
	var incomplete *AssemblyIncompleteError
	if !errors.As(err, &incomplete) {
		t.Fatalf("expected audio-less listening question to be rejected, got %v", err)
	}

	// The operator's explicit accept flag lets the same set through.
	if _, err := (Gate{AcceptWithoutAudio: true}).Finalize(req, []SampledQuestion{q}); err != nil {
		t.Fatalf("accept-without-audio must admit silent questions: %v", err)
	}

	// With audio present, no flag is needed.
	q.HasAudio = true
	q.Sentence.AudioRef = "audio/q1.mp3"
	if _, err := (Gate{}).Finalize(req, []SampledQuestion{q}); err != nil {
		t.Fatalf("unexpected error with audio present: %v", err)
	}
}

func TestGateSentenceRequiresText(t *testing.T) {
	q := SampledQuestion{Question: bank.Question{
		ID:       "q1",
		ModuleID: "SPEAKING",
		Sentence: &bank.SentencePayload{Text: "   "},
	}}
	_, err := Gate{}.Finalize(SamplingRequest{ModuleID: "SPEAKING", TargetCount: 1}, []SampledQuestion{q})
	var incomplete *AssemblyIncompleteError
	if !errors.As(err, &incomplete) {
		t.Fatalf("expected AssemblyIncompleteError, got %v", err)
	}
}

func TestGateTechnicalContract(t *testing.T) {
	complete := func() SampledQuestion {
		return SampledQuestion{Question: bank.Question{
			ID:       "q1",
			ModuleID: "CODING",
			Technical: &bank.TechnicalPayload{
				Title:     "Reverse a list",
				Statement: "Write a function that reverses a list.",
				Language:  "python",
				TestCases: []bank.TestCase{{Input: "[1,2,3]", Expected: "[3,2,1]"}},
			},
		}}
	}
	req := SamplingRequest{ModuleID: "CODING", TargetCount: 1}

	if _, err := (Gate{}).Finalize(req, []SampledQuestion{complete()}); err != nil {
		t.Fatalf("unexpected error for complete technical question: %v", err)
	}

	t.Run("missing language and cases", func(t *testing.T) {
		q := complete()
		q.Technical.Language = ""
		q.Technical.TestCases = nil
		_, err := Gate{}.Finalize(req, []SampledQuestion{q})
		var incomplete *AssemblyIncompleteError
		if !errors.As(err, &incomplete) {
			t.Fatalf("expected AssemblyIncompleteError, got %v", err)
		}
		if len(incomplete.MissingFields) != 2 {
			t.Fatalf("expected both gaps reported, got %v", incomplete.MissingFields)
		}
	})

	t.Run("mcq-style technical question", func(t *testing.T) {
		q := mcqQuestion("q9")
		q.ModuleID = "CODING"
		if _, err := (Gate{}).Finalize(req, []SampledQuestion{q}); err != nil {
			t.Fatalf("MCQ-style technical question must pass the MCQ contract: %v", err)
		}
	})
}
