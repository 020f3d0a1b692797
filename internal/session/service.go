package session

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/neyapai/server/internal/course"
	"github.com/neyapai/server/internal/llm"
	"github.com/neyapai/server/internal/store"
	"github.com/neyapai/server/internal/tutor"
)

// State is the read-only projection of a user's course position.
type State struct {
	CurrentSection int `json:"current_section"`
	CurrentStep    int `json:"current_step"`
}

// Service is the tutoring façade: it glues the course catalog, the two
// per-user stores, and the progression engine together per request.
//
// Known limitation: Progress is read-modify-write without locking, so
// concurrent turns for the same user are last-writer-wins. Turns for
// different users are fully independent.
type Service struct {
	catalog       *course.Catalog
	progress      store.ProgressRepo
	conversations store.ConversationRepo
	engine        *tutor.Engine
	log           *zap.SugaredLogger
}

// NewService creates the tutoring façade.
func NewService(catalog *course.Catalog, progress store.ProgressRepo, conversations store.ConversationRepo, engine *tutor.Engine, log *zap.SugaredLogger) *Service {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Service{
		catalog:       catalog,
		progress:      progress,
		conversations: conversations,
		engine:        engine,
		log:           log,
	}
}

// StartCourse enrolls the user in the course, resetting any prior
// progress and conversation. Calling it again for the same user simply
// re-enrolls them: the operation is idempotent.
func (s *Service) StartCourse(ctx context.Context, courseID, userID string) (store.Message, error) {
	c, err := s.catalog.Get(courseID)
	if err != nil {
		return store.Message{}, err
	}

	welcome := store.NewMessage(store.RoleAssistant, tutor.WelcomeMessage(c.Title))

	pos := tutor.NotStarted()
	err = s.progress.Upsert(ctx, &store.Progress{
		UserID:   userID,
		CourseID: courseID,
		Section:  pos.Section,
		Step:     pos.Step,
	})
	if err != nil {
		return store.Message{}, fmt.Errorf("reset progress: %w", err)
	}

	if err := s.conversations.Reset(ctx, userID, []store.Message{welcome}); err != nil {
		return store.Message{}, fmt.Errorf("reset conversation: %w", err)
	}

	s.log.Infow("course started", "course_id", courseID, "user_id", userID)
	return welcome, nil
}

// ProcessTurn runs one learner input through the progression engine and
// persists the outcome: the new position first, then exactly one user and
// one assistant message appended to the conversation, in that order.
// Nothing is written when the engine fails.
func (s *Service) ProcessTurn(ctx context.Context, userID, input string) (string, error) {
	p, err := s.progress.Get(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("load progress: %w", err)
	}
	if p == nil {
		return "", ErrNoActiveCourse
	}

	history, err := s.conversations.Get(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("load conversation: %w", err)
	}

	c, err := s.catalog.Get(p.CourseID)
	if err != nil {
		return "", err
	}

	pos := tutor.Position{Section: p.Section, Step: p.Step, Completed: p.Completed}
	turn, err := s.engine.ProcessTurn(ctx, c, pos, toLLMMessages(history), input)
	if err != nil {
		return "", err
	}

	p.Section = turn.Position.Section
	p.Step = turn.Position.Step
	if turn.Position.Completed && !p.Completed {
		now := time.Now()
		p.Completed = true
		p.CompletedAt = &now
	}
	if err := s.progress.Upsert(ctx, p); err != nil {
		return "", fmt.Errorf("persist progress: %w", err)
	}

	err = s.conversations.Append(ctx, userID,
		store.NewMessage(store.RoleUser, input),
		store.NewMessage(store.RoleAssistant, turn.Output),
	)
	if err != nil {
		// Progress is already written; the conversation append failing
		// leaves this turn's messages missing from history.
		s.log.Errorw("conversation append failed after progress write",
			"user_id", userID, "error", err)
		return "", fmt.Errorf("persist conversation: %w", err)
	}

	return turn.Output, nil
}

// History returns the user's conversation, oldest first. Users with no
// conversation get an empty list, not an error.
func (s *Service) History(ctx context.Context, userID string) ([]store.Message, error) {
	return s.conversations.Get(ctx, userID)
}

// State returns the user's current course position, zero values when the
// user has no active course.
func (s *Service) State(ctx context.Context, userID string) (State, error) {
	p, err := s.progress.Get(ctx, userID)
	if err != nil {
		return State{}, fmt.Errorf("load progress: %w", err)
	}
	if p == nil {
		return State{}, nil
	}
	return State{CurrentSection: p.Section, CurrentStep: p.Step}, nil
}

// CourseContent returns the full course document.
func (s *Service) CourseContent(courseID string) (*course.Course, error) {
	return s.catalog.Get(courseID)
}

// Courses lists the available course documents.
func (s *Service) Courses() ([]course.Summary, error) {
	return s.catalog.List()
}

// Reset removes the user's progress and conversation entirely.
func (s *Service) Reset(ctx context.Context, userID string) error {
	if err := s.progress.Delete(ctx, userID); err != nil {
		return err
	}
	return s.conversations.Delete(ctx, userID)
}

func toLLMMessages(messages []store.Message) []llm.Message {
	out := make([]llm.Message, 0, len(messages))
	for _, m := range messages {
		role := llm.RoleUser
		if m.Role == store.RoleAssistant {
			role = llm.RoleAssistant
		}
		out = append(out, llm.Message{Role: role, Content: m.Content})
	}
	return out
}
