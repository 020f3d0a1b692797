package tutor

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/neyapai/server/internal/course"
	"github.com/neyapai/server/internal/llm"
)

// ErrLLMUnavailable is returned when an open-chat turn cannot be answered
// because the LLM failed after all retries. Graded turns never surface
// this: they fall back to a deterministic degraded response instead.
var ErrLLMUnavailable = errors.New("llm unavailable")

// Policy names the progression decisions that are deliberately swappable.
type Policy struct {
	// AdvanceOnIncorrect moves the learner one step forward after a
	// wrong graded answer (explain, then continue) instead of keeping
	// them on the step until they pass.
	AdvanceOnIncorrect bool
}

// DefaultPolicy advances on incorrect answers: a stuck learner is worse
// than an imperfect one.
func DefaultPolicy() Policy {
	return Policy{AdvanceOnIncorrect: true}
}

// Turn is the outcome of processing one learner input: the new position
// and the text to show. The caller persists both.
type Turn struct {
	Position Position
	Output   string
}

// Engine is the lesson progression state machine. It routes each input
// through the classifier, grades when needed (deterministic substring
// match first, LLM judge only on a miss), and computes the next position
// per the step's next_action directive.
//
// Expected degraded conditions (judge outage, unparseable judge reply,
// out-of-range stored positions) are absorbed into the returned Turn;
// the only error callers see is ErrLLMUnavailable from open chat.
type Engine struct {
	match  Grader
	judge  Grader
	chat   Chat
	policy Policy
	log    *zap.SugaredLogger
}

// NewEngine creates an Engine with the given judge and open-chat backends.
func NewEngine(judge Grader, chat Chat, policy Policy, log *zap.SugaredLogger) *Engine {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Engine{
		match:  MatchGrader{},
		judge:  judge,
		chat:   chat,
		policy: policy,
		log:    log,
	}
}

// ProcessTurn computes the next position and output for one learner input.
// The history is the conversation so far, oldest first, excluding the
// current input; it is only consulted on the open-chat path.
func (e *Engine) ProcessTurn(ctx context.Context, crs *course.Course, pos Position, history []llm.Message, input string) (Turn, error) {
	if pos.Completed {
		return Turn{Position: pos, Output: msgAlreadyCompleted}, nil
	}

	if pos.AwaitingStart() {
		if Classify(pos, course.Step{}, input) == ClassReady {
			start := Position{Section: 0, Step: 0}
			return Turn{Position: start, Output: crs.Sections[0].Steps[0].Content}, nil
		}
		return Turn{Position: pos, Output: msgConfirmReady}, nil
	}

	pos = e.clamp(crs, pos)
	step := crs.Sections[pos.Section].Steps[pos.Step]

	switch Classify(pos, step, input) {
	case ClassOpenChat:
		reply, err := e.chat.Reply(ctx, crs, pos, history, input)
		if err != nil {
			return Turn{}, fmt.Errorf("%w: %v", ErrLLMUnavailable, err)
		}
		return Turn{Position: pos, Output: reply}, nil

	case ClassSkip:
		// Skip never grades and never calls the LLM.
		next := nextPosition(crs, pos)
		return Turn{
			Position: next,
			Output:   msgSkipPrefix + "\n\n" + e.arrival(crs, pos, next, ""),
		}, nil
	}

	return e.grade(ctx, crs, pos, step, input), nil
}

// grade runs the two-tier grading policy: substring match short-circuits,
// the LLM judge decides the rest, and judge failure fails open.
func (e *Engine) grade(ctx context.Context, crs *course.Course, pos Position, step course.Step, input string) Turn {
	if v, _ := e.match.Grade(ctx, step, input); v.Correct {
		return e.pass(crs, pos, step, Verdict{Correct: true, Explanation: msgCorrect})
	}

	v, err := e.judge.Grade(ctx, step, input)
	if err != nil {
		// Fail open: the learner should not be blocked by an LLM outage.
		e.log.Warnw("grading unavailable, advancing with neutral message",
			"section", pos.Section, "step", pos.Step, "error", err)
		next := nextPosition(crs, pos)
		return Turn{
			Position: next,
			Output:   msgDegraded + "\n\n" + e.arrival(crs, pos, next, ""),
		}
	}

	if v.Correct {
		return e.pass(crs, pos, step, v)
	}

	explanation := v.Explanation
	if explanation == "" {
		explanation = incorrectExplanation(step.ExpectedResponses[0])
	}

	if !e.policy.AdvanceOnIncorrect {
		return Turn{
			Position: pos,
			Output:   explanation + "\n\n" + msgRetry,
		}
	}
	next := nextPosition(crs, pos)
	return Turn{
		Position: next,
		Output:   explanation + "\n\n" + e.arrival(crs, pos, next, msgContinueIncorrect),
	}
}

// pass applies the step's next_action after a correct answer.
func (e *Engine) pass(crs *course.Course, pos Position, step course.Step, v Verdict) Turn {
	head := v.Explanation
	if v.Continuation != "" {
		head += "\n\n" + v.Continuation
	}

	var next Position
	var lead string
	switch step.NextAction {
	case course.ActionFinish:
		next = Position{Section: pos.Section, Step: pos.Step, Completed: true}
	case course.ActionReview:
		next = pos
		lead = msgReviewStep
	case course.ActionNext:
		next = startOfNextSection(crs, pos)
	default: // CONTINUE
		next = nextPosition(crs, pos)
		lead = msgContinueCorrect
	}

	return Turn{
		Position: next,
		Output:   head + "\n\n" + e.arrival(crs, pos, next, lead),
	}
}

// arrival renders the destination of a move: completion, a section
// transition with the new section's intro, or just the step content,
// prefixed by lead when staying within the section.
func (e *Engine) arrival(crs *course.Course, from, to Position, lead string) string {
	if to.Completed {
		return msgCourseCompleted
	}

	step := crs.Sections[to.Section].Steps[to.Step]
	if to.Section != from.Section {
		sec := crs.Sections[to.Section]
		parts := []string{sectionTransition(sec.Title)}
		if sec.Content != "" {
			parts = append(parts, sec.Content)
		}
		parts = append(parts, step.Content)
		return strings.Join(parts, "\n\n")
	}

	if lead != "" {
		return lead + "\n\n" + step.Content
	}
	return step.Content
}

// clamp repairs a stored position that points past the end of the course,
// e.g. after a course edit shrank its content. The nearest valid position
// wins; an out-of-range fault must never reach the caller.
func (e *Engine) clamp(crs *course.Course, pos Position) Position {
	fixed := pos
	if fixed.Section >= len(crs.Sections) {
		fixed.Section = len(crs.Sections) - 1
		fixed.Step = len(crs.Sections[fixed.Section].Steps) - 1
	} else if fixed.Step >= len(crs.Sections[fixed.Section].Steps) {
		fixed.Step = len(crs.Sections[fixed.Section].Steps) - 1
	}
	if fixed != pos {
		e.log.Warnw("stored position out of range, clamped",
			"section", pos.Section, "step", pos.Step,
			"clamped_section", fixed.Section, "clamped_step", fixed.Step)
	}
	return fixed
}

// nextPosition advances exactly one step, crossing into the next section
// (or completing the course) when the step list runs out. Skip and graded
// advancement share this boundary rule.
func nextPosition(crs *course.Course, pos Position) Position {
	if pos.Step+1 < len(crs.Sections[pos.Section].Steps) {
		return Position{Section: pos.Section, Step: pos.Step + 1}
	}
	return startOfNextSection(crs, pos)
}

// startOfNextSection moves to step 0 of the following section, or marks
// the course complete when none remains.
func startOfNextSection(crs *course.Course, pos Position) Position {
	if pos.Section+1 < len(crs.Sections) {
		return Position{Section: pos.Section + 1, Step: 0}
	}
	return Position{Section: pos.Section, Step: pos.Step, Completed: true}
}
