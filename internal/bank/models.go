package bank

// Question is a bank entry. The bank owns its lifecycle and its used_count;
// this service only reads them.
type Question struct {
	ID       string `json:"id"`
	ModuleID string `json:"module_id"`
	LevelID  string `json:"level_id,omitempty"`
	TopicID  string `json:"topic_id,omitempty"` // empty = untopicked

	UsedCount int  `json:"used_count"`
	HasAudio  bool `json:"has_audio,omitempty"`

	// Exactly one of these is set, depending on the module's content type.
	MCQ       *MCQPayload       `json:"mcq,omitempty"`
	Sentence  *SentencePayload  `json:"sentence,omitempty"`
	Technical *TechnicalPayload `json:"technical,omitempty"`
}

type MCQPayload struct {
	Prompt    string      `json:"prompt"`
	Options   []MCQOption `json:"options"`
	AnswerKey string      `json:"answer_key"`
}

type MCQOption struct {
	Key  string `json:"key"`
	Text string `json:"text"`
}

type SentencePayload struct {
	Text     string `json:"text"`
	AudioRef string `json:"audio_ref,omitempty"`
}

type TechnicalPayload struct {
	Title     string     `json:"title"`
	Statement string     `json:"statement"`
	Language  string     `json:"language"`
	TestCases []TestCase `json:"test_cases"`
}

type TestCase struct {
	Input    string `json:"input"`
	Expected string `json:"expected"`
}

// Selector narrows a bank query to a module, optionally a level and topic.
type Selector struct {
	ModuleID string `json:"module_id"`
	LevelID  string `json:"level_id,omitempty"`
	TopicID  string `json:"topic_id,omitempty"`
}

// Page is one slice of a bulk-selection result.
type Page struct {
	Items      []Question `json:"questions"`
	TotalCount int        `json:"total_count"`
	HasMore    bool       `json:"has_more"`
}

// Availability reports whether the bank's audio synthesis backend can
// currently generate audio, and if not, which runtime dependencies it lacks.
type Availability struct {
	Available           bool     `json:"available"`
	MissingDependencies []string `json:"missing_dependencies,omitempty"`
}

type GenerateAudioRequest struct {
	Text       string      `json:"text"`
	QuestionID string      `json:"question_id"`
	ModuleID   string      `json:"module_id"`
	LevelID    string      `json:"level_id,omitempty"`
	Voice      VoiceConfig `json:"voice"`
}

// VoiceConfig is the synthesis voice passed on every generate-audio call.
type VoiceConfig struct {
	Voice    string  `json:"voice"`
	Language string  `json:"language"`
	Speed    float64 `json:"speed,omitempty"`
}
