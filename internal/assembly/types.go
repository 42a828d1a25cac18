package assembly

import "github.com/examforge/examforge-admin/internal/bank"

// SamplingRequest selects which part of the bank to draw from and how many
// distinct questions the assembled test needs.
type SamplingRequest struct {
	ModuleID    string `json:"module_id"`
	LevelID     string `json:"level_id,omitempty"`
	TopicID     string `json:"topic_id,omitempty"`
	TargetCount int    `json:"target_count"`
}

func (r SamplingRequest) selector() bank.Selector {
	return bank.Selector{ModuleID: r.ModuleID, LevelID: r.LevelID, TopicID: r.TopicID}
}

// SampledQuestion is a bank question drawn into the current run, annotated
// with its historical reuse.
type SampledQuestion struct {
	bank.Question

	// RepeatCount is used_count at sampling time; ProjectedUsage counts the
	// test being assembled as one more use.
	RepeatCount      int    `json:"repeat_count"`
	ProjectedUsage   int    `json:"projected_usage"`
	RepetitionStatus string `json:"repetition_status"`
}

type AudioJobStatus string

const (
	AudioPending AudioJobStatus = "pending"
	AudioSuccess AudioJobStatus = "success"
	AudioFailed  AudioJobStatus = "failed"
)

// AudioJob tracks one per-question generation attempt.
type AudioJob struct {
	QuestionID   string         `json:"question_id"`
	Text         string         `json:"text"`
	Status       AudioJobStatus `json:"status"`
	AudioRef     string         `json:"audio_ref,omitempty"`
	ErrorMessage string         `json:"error_message,omitempty"`
}

// AudioReport is the outcome of one orchestrator batch. Failures never
// abort the batch; they are surfaced here for the operator.
type AudioReport struct {
	Successes []AudioJob `json:"successes"`
	Failures  []AudioJob `json:"failures"`
}

// Total is the number of questions that needed generation in this batch.
func (r AudioReport) Total() int { return len(r.Successes) + len(r.Failures) }

// AssembledTest is the terminal artifact handed to the Test Persistence
// Service. Every question has passed the module's required-field contract.
type AssembledTest struct {
	ModuleID  string            `json:"module_id"`
	LevelID   string            `json:"level_id,omitempty"`
	TopicID   string            `json:"topic_id,omitempty"`
	Questions []SampledQuestion `json:"questions"`
}
