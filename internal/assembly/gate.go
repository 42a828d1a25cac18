package assembly

import (
	"errors"
	"strings"
)

// ErrNoQuestions: a test can never be assembled from an empty set.
var ErrNoQuestions = errors.New("no questions to assemble")

// Gate is the final validation before handoff to test persistence. It
// rejects the whole batch on the first incomplete question; partial tests
// are never created.
type Gate struct {
	// AcceptWithoutAudio is the operator's explicit decision to ship an
	// audio-required module with silent questions. The gate receives it as
	// input; it never infers it.
	AcceptWithoutAudio bool
}

// Finalize validates every sampled question against its module's
// required-field contract and packages the set for persistence.
func (g Gate) Finalize(req SamplingRequest, questions []SampledQuestion) (AssembledTest, error) {
	if len(questions) == 0 {
		return AssembledTest{}, ErrNoQuestions
	}
	prof := ProfileFor(req.ModuleID)
	for i := range questions {
		if missing := g.missingFields(prof, &questions[i]); len(missing) > 0 {
			return AssembledTest{}, &AssemblyIncompleteError{QuestionID: questions[i].ID, MissingFields: missing}
		}
	}
	return AssembledTest{
		ModuleID:  req.ModuleID,
		LevelID:   req.LevelID,
		TopicID:   req.TopicID,
		Questions: questions,
	}, nil
}

func (g Gate) missingFields(prof Profile, q *SampledQuestion) []string {
	switch prof.ContentType {
	case ContentMCQ:
		return mcqGaps(q)
	case ContentSentence:
		var missing []string
		if q.Sentence == nil || strings.TrimSpace(q.Sentence.Text) == "" {
			missing = append(missing, "text")
		}
		if prof.RequiresAudio && !q.HasAudio && !g.AcceptWithoutAudio {
			missing = append(missing, "audio")
		}
		return missing
	case ContentTechnical:
		// MCQ-style technical questions satisfy the MCQ contract instead.
		if q.Technical == nil && q.MCQ != nil {
			return mcqGaps(q)
		}
		var missing []string
		if q.Technical == nil {
			return []string{"technical payload"}
		}
		if strings.TrimSpace(q.Technical.Title) == "" {
			missing = append(missing, "title")
		}
		if strings.TrimSpace(q.Technical.Statement) == "" {
			missing = append(missing, "statement")
		}
		if strings.TrimSpace(q.Technical.Language) == "" {
			missing = append(missing, "language")
		}
		if !hasRunnableCase(q) {
			missing = append(missing, "test cases")
		}
		return missing
	}
	return []string{"content type"}
}

func mcqGaps(q *SampledQuestion) []string {
	if q.MCQ == nil {
		return []string{"mcq payload"}
	}
	var missing []string
	if strings.TrimSpace(q.MCQ.Prompt) == "" {
		missing = append(missing, "prompt")
	}
	if len(q.MCQ.Options) != 4 {
		missing = append(missing, "options")
	} else {
		texts := map[string]bool{}
		for _, opt := range q.MCQ.Options {
			t := strings.TrimSpace(opt.Text)
			if t == "" || texts[t] {
				missing = append(missing, "options")
				break
			}
			texts[t] = true
		}
	}
	keyOK := false
	for _, opt := range q.MCQ.Options {
		if opt.Key == q.MCQ.AnswerKey {
			keyOK = true
			break
		}
	}
	if q.MCQ.AnswerKey == "" || !keyOK {
		missing = append(missing, "answer key")
	}
	return missing
}

func hasRunnableCase(q *SampledQuestion) bool {
	for _, tc := range q.Technical.TestCases {
		if strings.TrimSpace(tc.Input) != "" && strings.TrimSpace(tc.Expected) != "" {
			return true
		}
	}
	return false
}
