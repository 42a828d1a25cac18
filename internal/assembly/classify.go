package assembly

import "fmt"

// Usage is the reuse annotation attached to a sampled question. Purely
// informational for the operator reviewing the set; it never affects
// sampling admissibility.
type Usage struct {
	RepeatCount      int
	ProjectedUsage   int
	RepetitionStatus string
}

// Classify derives the repetition status from a question's historical
// used_count. Pure function: projected usage counts the test being
// assembled as one more use.
func Classify(usedCount int) Usage {
	projected := usedCount + 1
	var status string
	switch projected {
	case 1:
		status = "first_time"
	case 2:
		status = "repeating_first_time"
	case 3:
		status = "repeating_second_time"
	default:
		status = fmt.Sprintf("repeating_%d_time", projected-1)
	}
	return Usage{RepeatCount: usedCount, ProjectedUsage: projected, RepetitionStatus: status}
}
