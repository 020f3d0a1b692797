package tutor

import (
	"strings"

	"github.com/neyapai/server/internal/course"
)

// Classification is the routing decision for a single learner input.
type Classification int

const (
	// ClassReady confirms the learner wants to start the course.
	ClassReady Classification = iota
	// ClassNotReady keeps the learner at the start confirmation.
	ClassNotReady
	// ClassSkip moves past the current step without grading.
	ClassSkip
	// ClassGrade routes the input to a grading strategy.
	ClassGrade
	// ClassOpenChat forwards the input to the LLM as free conversation.
	ClassOpenChat
)

// readyTokens are the affirmative answers accepted at the start
// confirmation. Matching is loose substring containment so free-form
// phrasings like "evet, hazırım!" pass.
var readyTokens = []string{"evet", "hazırım", "başlayalım"}

// skipTokens mark refusal or skip intent on a graded step.
var skipTokens = []string{"bilmiyorum", "hayır", "istemiyorum", "geç", "pass", "skip"}

// Classify decides how the engine handles raw learner input at the given
// position. The step argument is ignored while awaiting the start
// confirmation.
func Classify(pos Position, step course.Step, input string) Classification {
	normalized := normalize(input)

	if pos.AwaitingStart() {
		if containsAny(normalized, readyTokens) {
			return ClassReady
		}
		return ClassNotReady
	}

	if !step.Graded() {
		return ClassOpenChat
	}
	if containsAny(normalized, skipTokens) {
		return ClassSkip
	}
	return ClassGrade
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func containsAny(normalized string, tokens []string) bool {
	for _, t := range tokens {
		if strings.Contains(normalized, t) {
			return true
		}
	}
	return false
}
