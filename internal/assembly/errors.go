package assembly

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidRequest covers malformed sampling requests (target_count < 1,
// missing module). Caller input error, not a bank problem.
var ErrInvalidRequest = errors.New("invalid sampling request")

// InsufficientQuestionsError: the reachable pool cannot supply the requested
// number of distinct questions. Recoverable by operator action (lower the
// count or add bank content); never retried automatically and never papered
// over with duplicates.
type InsufficientQuestionsError struct {
	Available int
	Requested int
}

func (e *InsufficientQuestionsError) Error() string {
	return fmt.Sprintf("insufficient questions: bank has %d, requested %d", e.Available, e.Requested)
}

// AudioServiceUnavailableError: the synthesis backend cannot generate audio
// at all. The operator decides whether to proceed without audio; nothing is
// retried automatically.
type AudioServiceUnavailableError struct {
	MissingDependencies []string
}

func (e *AudioServiceUnavailableError) Error() string {
	if len(e.MissingDependencies) == 0 {
		return "audio generation service unavailable"
	}
	return "audio generation service unavailable, missing: " + strings.Join(e.MissingDependencies, ", ")
}

// AssemblyIncompleteError rejects the whole batch when any sampled question
// lacks required fields for its module's content type. Partial tests are
// never created.
type AssemblyIncompleteError struct {
	QuestionID    string
	MissingFields []string
}

func (e *AssemblyIncompleteError) Error() string {
	return fmt.Sprintf("assembly incomplete: question %s missing %s", e.QuestionID, strings.Join(e.MissingFields, ", "))
}
