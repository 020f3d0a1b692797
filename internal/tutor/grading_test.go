package tutor

import (
	"context"
	"errors"
	"testing"

	"github.com/neyapai/server/internal/course"
	"github.com/neyapai/server/internal/llm"
)

func TestMatchGrader_SubstringMatch(t *testing.T) {
	step := gradedStep()
	g := MatchGrader{}

	cases := []struct {
		input string
		want  bool
	}{
		{"nükleer füzyon", true},
		{"Bence nükleer füzyon olabilir", true},
		{"NÜKLEER FÜZYON", true},
		{"füzyon", false},
		{"fisyon", false},
		{"", false},
	}
	for _, tc := range cases {
		v, err := g.Grade(context.Background(), step, tc.input)
		if err != nil {
			t.Fatalf("Grade(%q): %v", tc.input, err)
		}
		if v.Correct != tc.want {
			t.Errorf("Grade(%q).Correct = %v, want %v", tc.input, v.Correct, tc.want)
		}
	}
}

func TestMatchGrader_AnyExpectedResponseMatches(t *testing.T) {
	step := course.Step{
		Content:           "Işığı yakalayan madde nedir?",
		ExpectedResponses: []string{"klorofil", "yeşil pigment"},
	}

	v, _ := MatchGrader{}.Grade(context.Background(), step, "sanırım yeşil pigment")
	if !v.Correct {
		t.Fatal("expected second expected response to match")
	}
}

func TestJudgeGrader_ParsesLabeledReply(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Text: "DEĞERLENDİRME: DOĞRU\nAÇIKLAMA: Anlamca doğru.\nDEVAM: Devam edelim.",
	})
	g := NewJudgeGrader(mock, DefaultJudgeConfig())

	v, err := g.Grade(context.Background(), gradedStep(), "güneşte atomlar birleşiyor")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !v.Correct {
		t.Fatal("expected correct verdict")
	}
	if v.Explanation != "Anlamca doğru." {
		t.Fatalf("unexpected explanation: %q", v.Explanation)
	}

	if len(mock.Calls) != 1 {
		t.Fatalf("expected 1 provider call, got %d", len(mock.Calls))
	}
	req := mock.Calls[0]
	if req.System == "" {
		t.Fatal("expected a system prompt")
	}
	if len(req.Messages) != 1 || req.Messages[0].Role != llm.RoleUser {
		t.Fatalf("expected a single user message, got %+v", req.Messages)
	}
}

func TestJudgeGrader_ProviderFailure(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Err: &llm.ErrProviderUnavailable{Err: errors.New("down")},
	})
	g := NewJudgeGrader(mock, DefaultJudgeConfig())

	_, err := g.Grade(context.Background(), gradedStep(), "bir cevap")
	if !errors.Is(err, ErrGradingUnavailable) {
		t.Fatalf("expected ErrGradingUnavailable, got %v", err)
	}
}
