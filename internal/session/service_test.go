package session

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/neyapai/server/internal/course"
	"github.com/neyapai/server/internal/llm"
	"github.com/neyapai/server/internal/store"
	"github.com/neyapai/server/internal/tutor"
)

// fakeProgressRepo is an in-memory ProgressRepo.
type fakeProgressRepo struct {
	records map[string]*store.Progress
}

func newFakeProgressRepo() *fakeProgressRepo {
	return &fakeProgressRepo{records: make(map[string]*store.Progress)}
}

func (r *fakeProgressRepo) Get(_ context.Context, userID string) (*store.Progress, error) {
	p, ok := r.records[userID]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProgressRepo) Upsert(_ context.Context, p *store.Progress) error {
	cp := *p
	r.records[p.UserID] = &cp
	return nil
}

func (r *fakeProgressRepo) Delete(_ context.Context, userID string) error {
	delete(r.records, userID)
	return nil
}

// fakeConversationRepo is an in-memory ConversationRepo.
type fakeConversationRepo struct {
	logs map[string][]store.Message
}

func newFakeConversationRepo() *fakeConversationRepo {
	return &fakeConversationRepo{logs: make(map[string][]store.Message)}
}

func (r *fakeConversationRepo) Get(_ context.Context, userID string) ([]store.Message, error) {
	return append([]store.Message{}, r.logs[userID]...), nil
}

func (r *fakeConversationRepo) Reset(_ context.Context, userID string, messages []store.Message) error {
	r.logs[userID] = append([]store.Message{}, messages...)
	return nil
}

func (r *fakeConversationRepo) Append(_ context.Context, userID string, messages ...store.Message) error {
	r.logs[userID] = append(r.logs[userID], messages...)
	return nil
}

func (r *fakeConversationRepo) Delete(_ context.Context, userID string) error {
	delete(r.logs, userID)
	return nil
}

const testCourseYAML = `title: Güneş Sistemi
description: Güneş'i ve gezegenleri keşfet.
sections:
  - title: Güneş
    content: Güneş'i tanıyalım.
    order: 1
    steps:
      - step: 0
        content: Güneş enerjisini nasıl üretir?
        expected_responses:
          - nükleer füzyon
        next_action: CONTINUE
      - step: 1
        content: Üzerinde yaşadığımız gezegen hangisidir?
        expected_responses:
          - dünya
        next_action: FINISH
`

type fixture struct {
	svc           *Service
	progress      *fakeProgressRepo
	conversations *fakeConversationRepo
}

func newFixture(t *testing.T, judgeResponses ...llm.MockResponse) fixture {
	t.Helper()

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "gunes.yaml"), []byte(testCourseYAML), 0o644); err != nil {
		t.Fatal(err)
	}
	catalog := course.NewCatalog(course.NewLoader(dir))

	provider := llm.NewMockProvider(judgeResponses...)
	engine := tutor.NewEngine(
		tutor.NewJudgeGrader(provider, tutor.DefaultJudgeConfig()),
		tutor.NewLLMChat(provider, tutor.DefaultChatConfig()),
		tutor.DefaultPolicy(),
		nil,
	)

	progress := newFakeProgressRepo()
	conversations := newFakeConversationRepo()
	return fixture{
		svc:           NewService(catalog, progress, conversations, engine, nil),
		progress:      progress,
		conversations: conversations,
	}
}

func TestService_StartCourseIsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.svc.StartCourse(ctx, "gunes", "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := f.svc.StartCourse(ctx, "gunes", "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.Content != second.Content {
		t.Fatalf("welcome output differs: %q vs %q", first.Content, second.Content)
	}
	if !strings.Contains(first.Content, "Güneş Sistemi") {
		t.Fatalf("welcome missing course title: %q", first.Content)
	}

	history, _ := f.svc.History(ctx, "u1")
	if len(history) != 1 {
		t.Fatalf("expected exactly 1 message after restart, got %d", len(history))
	}
	if history[0].Role != store.RoleAssistant {
		t.Fatalf("unexpected role: %q", history[0].Role)
	}

	p, _ := f.progress.Get(ctx, "u1")
	if p == nil || p.Step != tutor.StepAwaitingStart {
		t.Fatalf("expected awaiting-start progress, got %+v", p)
	}
}

func TestService_StartCourseUnknownCourse(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.StartCourse(context.Background(), "yok", "u1")
	if !errors.Is(err, course.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestService_ProcessTurnWithoutCourse(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.ProcessTurn(context.Background(), "u1", "evet")
	if !errors.Is(err, ErrNoActiveCourse) {
		t.Fatalf("expected ErrNoActiveCourse, got %v", err)
	}
}

func TestService_TurnAppendsUserThenAssistant(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.svc.StartCourse(ctx, "gunes", "u1"); err != nil {
		t.Fatal(err)
	}
	output, err := f.svc.ProcessTurn(ctx, "u1", "evet")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	history, _ := f.svc.History(ctx, "u1")
	if len(history) != 3 {
		t.Fatalf("expected welcome + user + assistant, got %d messages", len(history))
	}
	if history[1].Role != store.RoleUser || history[1].Content != "evet" {
		t.Fatalf("unexpected user message: %+v", history[1])
	}
	if history[2].Role != store.RoleAssistant || history[2].Content != output {
		t.Fatalf("unexpected assistant message: %+v", history[2])
	}
}

func TestService_CourseWalkthrough(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.svc.StartCourse(ctx, "gunes", "u1"); err != nil {
		t.Fatal(err)
	}

	// Confirm start, then answer both graded steps via substring match.
	// After each turn the reported state must match the transition table.
	turns := []struct {
		input       string
		wantSection int
		wantStep    int
	}{
		{"evet", 0, 0},
		{"nükleer füzyon", 0, 1},
		{"dünya", 0, 1}, // FINISH keeps the position and sets completed
	}
	for _, tc := range turns {
		if _, err := f.svc.ProcessTurn(ctx, "u1", tc.input); err != nil {
			t.Fatalf("turn %q: %v", tc.input, err)
		}
		state, err := f.svc.State(ctx, "u1")
		if err != nil {
			t.Fatalf("state after %q: %v", tc.input, err)
		}
		if state.CurrentSection != tc.wantSection || state.CurrentStep != tc.wantStep {
			t.Fatalf("state after %q = %+v, want (%d,%d)", tc.input, state, tc.wantSection, tc.wantStep)
		}
	}

	p, _ := f.progress.Get(ctx, "u1")
	if p == nil || !p.Completed {
		t.Fatalf("expected completed progress, got %+v", p)
	}
	if p.CompletedAt == nil {
		t.Fatal("expected CompletedAt to be set")
	}

	// Further turns keep returning the completed message without new state.
	before := *p
	out, err := f.svc.ProcessTurn(ctx, "u1", "tekrar")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out == "" {
		t.Fatal("expected non-empty completed message")
	}
	after, _ := f.progress.Get(ctx, "u1")
	if after.Section != before.Section || after.Step != before.Step || !after.Completed {
		t.Fatalf("completed state mutated: %+v -> %+v", before, after)
	}
}

func TestService_FailOpenAdvancesAndPersists(t *testing.T) {
	// Empty mock queue: every judge call fails, grading falls open.
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.svc.StartCourse(ctx, "gunes", "u1"); err != nil {
		t.Fatal(err)
	}
	if _, err := f.svc.ProcessTurn(ctx, "u1", "evet"); err != nil {
		t.Fatal(err)
	}

	output, err := f.svc.ProcessTurn(ctx, "u1", "güneş yanıyor bence")
	if err != nil {
		t.Fatalf("fail-open turn must not error, got %v", err)
	}
	if output == "" {
		t.Fatal("expected degraded-but-non-empty output")
	}

	p, _ := f.progress.Get(ctx, "u1")
	if p.Section != 0 || p.Step != 1 {
		t.Fatalf("expected advance of exactly one step, got %+v", p)
	}

	history, _ := f.svc.History(ctx, "u1")
	// welcome + (ready turn) 2 + (failed-grading turn) 2
	if len(history) != 5 {
		t.Fatalf("expected 5 messages, got %d", len(history))
	}
}

func TestService_StateDefaultsToZero(t *testing.T) {
	f := newFixture(t)

	state, err := f.svc.State(context.Background(), "kimse")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if state.CurrentSection != 0 || state.CurrentStep != 0 {
		t.Fatalf("expected zero state, got %+v", state)
	}
}

func TestService_StateReportsSentinelBeforeStart(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.svc.StartCourse(ctx, "gunes", "u1"); err != nil {
		t.Fatal(err)
	}
	state, err := f.svc.State(ctx, "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if state.CurrentStep != tutor.StepAwaitingStart {
		t.Fatalf("expected sentinel step, got %+v", state)
	}
}

func TestService_Reset(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.svc.StartCourse(ctx, "gunes", "u1"); err != nil {
		t.Fatal(err)
	}
	if err := f.svc.Reset(ctx, "u1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := f.svc.ProcessTurn(ctx, "u1", "evet"); !errors.Is(err, ErrNoActiveCourse) {
		t.Fatalf("expected ErrNoActiveCourse after reset, got %v", err)
	}
	history, _ := f.svc.History(ctx, "u1")
	if len(history) != 0 {
		t.Fatalf("expected empty history after reset, got %d", len(history))
	}
}
