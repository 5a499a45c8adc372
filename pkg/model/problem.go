package model

import "fmt"

// Difficulty is the severity of a problem. It feeds the review score directly.
type Difficulty int

const (
	DifficultyEasy   Difficulty = 0
	DifficultyMedium Difficulty = 1
	DifficultyHard   Difficulty = 2
)

// String returns the display name of the difficulty.
func (d Difficulty) String() string {
	switch d {
	case DifficultyEasy:
		return "Easy"
	case DifficultyMedium:
		return "Medium"
	case DifficultyHard:
		return "Hard"
	}
	return fmt.Sprintf("Difficulty(%d)", int(d))
}

// Valid reports whether d is one of the three known levels.
func (d Difficulty) Valid() bool {
	return d >= DifficultyEasy && d <= DifficultyHard
}

// SolvedState records whether and when a problem was last solved.
// Date is epoch milliseconds; 0 means never solved (or unknown).
type SolvedState struct {
	Value bool  `json:"value" yaml:"value"`
	Date  int64 `json:"date" yaml:"date"`
	Tries int   `json:"tries" yaml:"tries"`
}

// Problem is a single practice problem as tracked by the extension.
type Problem struct {
	ID          string      `json:"id" yaml:"id"`
	Name        string      `json:"name,omitempty" yaml:"name,omitempty"`
	URL         string      `json:"url,omitempty" yaml:"url,omitempty"`
	Difficulty  Difficulty  `json:"difficulty" yaml:"difficulty"`
	Solved      SolvedState `json:"solved" yaml:"solved"`
	Ignored     bool        `json:"ignored" yaml:"ignored"`
	Grandparent string      `json:"grandparent,omitempty" yaml:"grandparent,omitempty"`
	ParentTopic string      `json:"parent_topic,omitempty" yaml:"parent_topic,omitempty"`
}

// ProblemState is the scheduling class a problem falls into.
type ProblemState string

const (
	ProblemStateUnsolved ProblemState = "unsolved"
	ProblemStateSolved   ProblemState = "solved"
	ProblemStateIgnored  ProblemState = "ignored"
)

// State classifies the problem. Ignored wins over solved.
func (p Problem) State() ProblemState {
	switch {
	case p.Ignored:
		return ProblemStateIgnored
	case p.Solved.Value:
		return ProblemStateSolved
	default:
		return ProblemStateUnsolved
	}
}

// Validate checks the record against the shape the scheduler expects.
// The scheduler itself never calls this; ingestion does.
func (p Problem) Validate() error {
	var details []FieldError
	if !p.Difficulty.Valid() {
		details = append(details, FieldError{Field: "difficulty", Message: fmt.Sprintf("must be 0, 1 or 2, got %d", int(p.Difficulty))})
	}
	if p.Solved.Tries < 0 {
		details = append(details, FieldError{Field: "solved.tries", Message: "must not be negative"})
	}
	if p.Solved.Date < 0 {
		details = append(details, FieldError{Field: "solved.date", Message: "must not be negative"})
	}
	if len(details) == 0 {
		return nil
	}
	return &MalformedProblemError{ID: p.ID, Index: -1, Details: details}
}

// Attempt is one recorded submission against a problem.
type Attempt struct {
	ID          string `json:"id"`
	ProblemID   string `json:"problem_id"`
	Accepted    bool   `json:"accepted"`
	AttemptedAt int64  `json:"attempted_at"` // epoch ms
}
