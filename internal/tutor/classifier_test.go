package tutor

import (
	"testing"

	"github.com/neyapai/server/internal/course"
)

func gradedStep() course.Step {
	return course.Step{
		Index:             1,
		Content:           "Güneş enerjisini nasıl üretir?",
		ExpectedResponses: []string{"nükleer füzyon"},
		NextAction:        course.ActionContinue,
	}
}

func TestClassify_AwaitingStart(t *testing.T) {
	pos := NotStarted()

	cases := []struct {
		input string
		want  Classification
	}{
		{"evet", ClassReady},
		{"Evet, hazırım!", ClassReady},
		{"başlayalım mı", ClassReady},
		{"  HAZIRIM  ", ClassNotReady}, // uppercase dotless I doesn't lowercase to "hazırım" trivially
		{"daha değil", ClassNotReady},
		{"", ClassNotReady},
	}
	for _, tc := range cases {
		if got := Classify(pos, course.Step{}, tc.input); got != tc.want {
			t.Errorf("Classify(awaiting, %q) = %v, want %v", tc.input, got, tc.want)
		}
	}
}

func TestClassify_SkipTokens(t *testing.T) {
	pos := Position{Section: 0, Step: 1}
	step := gradedStep()

	for _, input := range []string{"bilmiyorum", "Hayır", "geçelim", "pass", "skip this one", "bunu istemiyorum"} {
		if got := Classify(pos, step, input); got != ClassSkip {
			t.Errorf("Classify(%q) = %v, want ClassSkip", input, got)
		}
	}
}

func TestClassify_GradedStepDefaultsToGrade(t *testing.T) {
	pos := Position{Section: 0, Step: 1}

	if got := Classify(pos, gradedStep(), "Bence nükleer füzyon olabilir"); got != ClassGrade {
		t.Fatalf("Classify = %v, want ClassGrade", got)
	}
}

func TestClassify_UngradedStepIsOpenChat(t *testing.T) {
	pos := Position{Section: 0, Step: 1}
	step := course.Step{Index: 1, Content: "Sorularını sorabilirsin.", NextAction: course.ActionContinue}

	// Even a skip token routes to open chat on an ungraded step.
	for _, input := range []string{"güneş kaç yaşında?", "bilmiyorum"} {
		if got := Classify(pos, step, input); got != ClassOpenChat {
			t.Errorf("Classify(%q) = %v, want ClassOpenChat", input, got)
		}
	}
}
