package tutor

import (
	"context"
	"errors"
	"strings"

	"github.com/neyapai/server/internal/course"
)

// ErrGradingUnavailable signals that the grading backend failed after the
// bounded retry policy was exhausted. The engine recovers from it by
// advancing with a neutral message; it never reaches the caller.
var ErrGradingUnavailable = errors.New("grading unavailable")

// Verdict is the outcome of grading a learner's answer.
type Verdict struct {
	Correct bool
	// Explanation tells the learner why the answer was right or wrong.
	Explanation string
	// Continuation is an optional transition sentence to the next step.
	Continuation string
}

// Grader decides whether a learner's answer passes a step.
type Grader interface {
	Grade(ctx context.Context, step course.Step, input string) (Verdict, error)
}

// MatchGrader grades deterministically: the answer is correct iff the
// lowercased input contains any expected response as a substring.
// It never returns an error and never calls the LLM.
type MatchGrader struct{}

func (MatchGrader) Grade(_ context.Context, step course.Step, input string) (Verdict, error) {
	normalized := normalize(input)
	for _, expected := range step.ExpectedResponses {
		if strings.Contains(normalized, strings.ToLower(expected)) {
			return Verdict{Correct: true}, nil
		}
	}
	return Verdict{Correct: false}, nil
}
