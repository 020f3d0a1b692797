package tutor

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/neyapai/server/internal/course"
	"github.com/neyapai/server/internal/llm"
)

// stubGrader returns a fixed verdict or error and counts calls.
type stubGrader struct {
	verdict Verdict
	err     error
	calls   int
}

func (s *stubGrader) Grade(context.Context, course.Step, string) (Verdict, error) {
	s.calls++
	return s.verdict, s.err
}

// stubChat returns a fixed reply or error and counts calls.
type stubChat struct {
	reply string
	err   error
	calls int
}

func (s *stubChat) Reply(context.Context, *course.Course, Position, []llm.Message, string) (string, error) {
	s.calls++
	return s.reply, s.err
}

func testCourse() *course.Course {
	return &course.Course{
		Title:       "Güneş Sistemi",
		Description: "Güneş ve gezegenler.",
		Sections: []course.Section{
			{
				Title:   "Güneş",
				Content: "Güneş'i tanıyalım.",
				Order:   1,
				Steps: []course.Step{
					{Index: 0, Content: "Güneş enerjisini nasıl üretir?", ExpectedResponses: []string{"nükleer füzyon"}, NextAction: course.ActionContinue},
					{Index: 1, Content: "Hangi element helyuma dönüşür?", ExpectedResponses: []string{"hidrojen"}, NextAction: course.ActionNext},
				},
			},
			{
				Title:   "Gezegenler",
				Content: "Şimdi gezegenlere bakalım.",
				Order:   2,
				Steps: []course.Step{
					{Index: 0, Content: "Güneş'e en yakın gezegen hangisidir?", ExpectedResponses: []string{"merkür"}, NextAction: course.ActionReview},
					{Index: 1, Content: "Merak ettiklerini sorabilirsin.", NextAction: course.ActionContinue},
					{Index: 2, Content: "Üzerinde yaşadığımız gezegen hangisidir?", ExpectedResponses: []string{"dünya"}, NextAction: course.ActionFinish},
				},
			},
		},
	}
}

func newTestEngine(judge Grader, chat Chat) *Engine {
	return NewEngine(judge, chat, DefaultPolicy(), nil)
}

func TestEngine_ReadyStartsCourse(t *testing.T) {
	e := newTestEngine(&stubGrader{}, &stubChat{})
	crs := testCourse()

	turn, err := e.ProcessTurn(context.Background(), crs, NotStarted(), nil, "evet, hazırım")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if turn.Position != (Position{Section: 0, Step: 0}) {
		t.Fatalf("unexpected position: %+v", turn.Position)
	}
	if turn.Output != crs.Sections[0].Steps[0].Content {
		t.Fatalf("unexpected output: %q", turn.Output)
	}
}

func TestEngine_NotReadyStaysPut(t *testing.T) {
	e := newTestEngine(&stubGrader{}, &stubChat{})

	turn, err := e.ProcessTurn(context.Background(), testCourse(), NotStarted(), nil, "daha değil")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !turn.Position.AwaitingStart() {
		t.Fatalf("position must stay at awaiting start, got %+v", turn.Position)
	}
	if turn.Output != msgConfirmReady {
		t.Fatalf("unexpected output: %q", turn.Output)
	}
}

func TestEngine_MatchShortCircuitsJudge(t *testing.T) {
	judge := &stubGrader{err: errors.New("judge must not run")}
	e := newTestEngine(judge, &stubChat{})
	crs := testCourse()

	turn, err := e.ProcessTurn(context.Background(), crs, Position{Section: 0, Step: 0}, nil, "Bence nükleer füzyon olabilir")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if judge.calls != 0 {
		t.Fatalf("judge called %d times, want 0", judge.calls)
	}
	if turn.Position != (Position{Section: 0, Step: 1}) {
		t.Fatalf("unexpected position: %+v", turn.Position)
	}
	if !strings.Contains(turn.Output, crs.Sections[0].Steps[1].Content) {
		t.Fatalf("output missing next step content: %q", turn.Output)
	}
}

func TestEngine_JudgeCorrectFollowsNextAction(t *testing.T) {
	judge := &stubGrader{verdict: Verdict{Correct: true, Explanation: "Anlamca doğru.", Continuation: "Devam edelim."}}
	e := newTestEngine(judge, &stubChat{})
	crs := testCourse()

	// Step (0,1) has next_action NEXT; a correct answer crosses the section.
	turn, err := e.ProcessTurn(context.Background(), crs, Position{Section: 0, Step: 1}, nil, "atom çekirdekleri birleşir")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if judge.calls != 1 {
		t.Fatalf("judge called %d times, want 1", judge.calls)
	}
	if turn.Position != (Position{Section: 1, Step: 0}) {
		t.Fatalf("unexpected position: %+v", turn.Position)
	}
	for _, want := range []string{"Anlamca doğru.", sectionTransition("Gezegenler"), crs.Sections[1].Steps[0].Content} {
		if !strings.Contains(turn.Output, want) {
			t.Fatalf("output missing %q: %q", want, turn.Output)
		}
	}
}

func TestEngine_JudgeIncorrectAdvancesByDefault(t *testing.T) {
	judge := &stubGrader{verdict: Verdict{Correct: false, Explanation: "Doğru cevap nükleer füzyon olacaktı."}}
	e := newTestEngine(judge, &stubChat{})

	turn, err := e.ProcessTurn(context.Background(), testCourse(), Position{Section: 0, Step: 0}, nil, "güneş yanıyor")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if turn.Position != (Position{Section: 0, Step: 1}) {
		t.Fatalf("unexpected position: %+v", turn.Position)
	}
	if !strings.Contains(turn.Output, "Doğru cevap nükleer füzyon olacaktı.") {
		t.Fatalf("output missing explanation: %q", turn.Output)
	}
}

func TestEngine_JudgeIncorrectStaysWithRetryPolicy(t *testing.T) {
	judge := &stubGrader{verdict: Verdict{Correct: false, Explanation: "Maalesef yanlış."}}
	e := NewEngine(judge, &stubChat{}, Policy{AdvanceOnIncorrect: false}, nil)

	pos := Position{Section: 0, Step: 0}
	turn, err := e.ProcessTurn(context.Background(), testCourse(), pos, nil, "güneş yanıyor")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if turn.Position != pos {
		t.Fatalf("position must not move, got %+v", turn.Position)
	}
	if !strings.Contains(turn.Output, msgRetry) {
		t.Fatalf("output missing retry prompt: %q", turn.Output)
	}
}

func TestEngine_GradingFailureFailsOpen(t *testing.T) {
	judge := &stubGrader{err: ErrGradingUnavailable}
	e := newTestEngine(judge, &stubChat{})
	crs := testCourse()

	turn, err := e.ProcessTurn(context.Background(), crs, Position{Section: 0, Step: 0}, nil, "güneş yanıyor")
	if err != nil {
		t.Fatalf("grading failure must not surface an error, got %v", err)
	}
	if turn.Position != (Position{Section: 0, Step: 1}) {
		t.Fatalf("expected advance of exactly one step, got %+v", turn.Position)
	}
	if !strings.HasPrefix(turn.Output, msgDegraded) {
		t.Fatalf("output missing degraded notice: %q", turn.Output)
	}
	if !strings.Contains(turn.Output, crs.Sections[0].Steps[1].Content) {
		t.Fatalf("output missing next step content: %q", turn.Output)
	}
}

func TestEngine_SkipAdvancesWithoutLLM(t *testing.T) {
	judge := &stubGrader{}
	chat := &stubChat{}
	e := newTestEngine(judge, chat)
	crs := testCourse()

	turn, err := e.ProcessTurn(context.Background(), crs, Position{Section: 0, Step: 0}, nil, "bilmiyorum")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if judge.calls != 0 || chat.calls != 0 {
		t.Fatalf("skip must not call the LLM (judge=%d chat=%d)", judge.calls, chat.calls)
	}
	if turn.Position != (Position{Section: 0, Step: 1}) {
		t.Fatalf("unexpected position: %+v", turn.Position)
	}
	if !strings.HasPrefix(turn.Output, msgSkipPrefix) {
		t.Fatalf("output missing skip prefix: %q", turn.Output)
	}
}

func TestEngine_SkipCrossesSectionBoundary(t *testing.T) {
	e := newTestEngine(&stubGrader{}, &stubChat{})

	turn, err := e.ProcessTurn(context.Background(), testCourse(), Position{Section: 0, Step: 1}, nil, "geç")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if turn.Position != (Position{Section: 1, Step: 0}) {
		t.Fatalf("unexpected position: %+v", turn.Position)
	}
	if !strings.Contains(turn.Output, sectionTransition("Gezegenler")) {
		t.Fatalf("output missing section transition: %q", turn.Output)
	}
}

func TestEngine_OpenChatLeavesPositionUnchanged(t *testing.T) {
	chat := &stubChat{reply: "Güneş yaklaşık 4,6 milyar yaşında."}
	e := newTestEngine(&stubGrader{}, chat)

	pos := Position{Section: 1, Step: 1}
	turn, err := e.ProcessTurn(context.Background(), testCourse(), pos, nil, "güneş kaç yaşında?")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if chat.calls != 1 {
		t.Fatalf("chat called %d times, want 1", chat.calls)
	}
	if turn.Position != pos {
		t.Fatalf("open chat must not move the position, got %+v", turn.Position)
	}
	if turn.Output != chat.reply {
		t.Fatalf("expected verbatim chat reply, got %q", turn.Output)
	}
}

func TestEngine_OpenChatFailureSurfaces(t *testing.T) {
	chat := &stubChat{err: errors.New("down")}
	e := newTestEngine(&stubGrader{}, chat)

	_, err := e.ProcessTurn(context.Background(), testCourse(), Position{Section: 1, Step: 1}, nil, "bir soru")
	if !errors.Is(err, ErrLLMUnavailable) {
		t.Fatalf("expected ErrLLMUnavailable, got %v", err)
	}
}

func TestEngine_ReviewRepeatsStep(t *testing.T) {
	judge := &stubGrader{verdict: Verdict{Correct: true, Explanation: "Doğru."}}
	e := newTestEngine(judge, &stubChat{})
	crs := testCourse()

	pos := Position{Section: 1, Step: 0}
	turn, err := e.ProcessTurn(context.Background(), crs, pos, nil, "güneşe en yakın olan")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if turn.Position != pos {
		t.Fatalf("REVIEW must return to the same position, got %+v", turn.Position)
	}
	if !strings.Contains(turn.Output, msgReviewStep) {
		t.Fatalf("output missing review lead: %q", turn.Output)
	}
	if !strings.Contains(turn.Output, crs.Sections[1].Steps[0].Content) {
		t.Fatalf("output missing step content: %q", turn.Output)
	}
}

func TestEngine_FinishCompletesCourse(t *testing.T) {
	e := newTestEngine(&stubGrader{}, &stubChat{})
	crs := testCourse()

	turn, err := e.ProcessTurn(context.Background(), crs, Position{Section: 1, Step: 2}, nil, "dünya")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !turn.Position.Completed {
		t.Fatalf("expected completed position, got %+v", turn.Position)
	}
	if !strings.Contains(turn.Output, msgCourseCompleted) {
		t.Fatalf("output missing completion message: %q", turn.Output)
	}
}

func TestEngine_CompletedIsIdempotent(t *testing.T) {
	judge := &stubGrader{}
	chat := &stubChat{}
	e := newTestEngine(judge, chat)

	pos := Position{Section: 1, Step: 2, Completed: true}
	for i := 0; i < 3; i++ {
		turn, err := e.ProcessTurn(context.Background(), testCourse(), pos, nil, "tekrar başlayalım")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if turn.Position != pos {
			t.Fatalf("completed position must not change, got %+v", turn.Position)
		}
		if turn.Output != msgAlreadyCompleted {
			t.Fatalf("unexpected output: %q", turn.Output)
		}
	}
	if judge.calls != 0 || chat.calls != 0 {
		t.Fatalf("completed turns must not call the LLM (judge=%d chat=%d)", judge.calls, chat.calls)
	}
}

func TestEngine_ClampsOutOfRangePosition(t *testing.T) {
	e := newTestEngine(&stubGrader{}, &stubChat{})
	crs := testCourse()

	// Stored position points past the course end, e.g. after a course edit.
	turn, err := e.ProcessTurn(context.Background(), crs, Position{Section: 7, Step: 9}, nil, "dünya")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Clamped to the last step, whose correct answer finishes the course.
	if !turn.Position.Completed {
		t.Fatalf("expected completion after clamp, got %+v", turn.Position)
	}
}

func TestEngine_SuccessfulGradingNeverMovesBackward(t *testing.T) {
	judge := &stubGrader{verdict: Verdict{Correct: true, Explanation: "Doğru."}}
	e := newTestEngine(judge, &stubChat{})
	crs := testCourse()

	positions := []Position{
		{Section: 0, Step: 0},
		{Section: 0, Step: 1},
		{Section: 1, Step: 2},
	}
	for _, pos := range positions {
		turn, err := e.ProcessTurn(context.Background(), crs, pos, nil, "çekirdek tepkimesi")
		if err != nil {
			t.Fatalf("unexpected error at %+v: %v", pos, err)
		}
		if turn.Position.Before(pos) {
			t.Fatalf("position moved backward: %+v -> %+v", pos, turn.Position)
		}
	}
}
