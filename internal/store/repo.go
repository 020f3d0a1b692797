package store

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Message roles. These are the only two parties in a conversation.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Progress is the persisted per-user cursor into a course.
type Progress struct {
	UserID      string
	CourseID    string
	Section     int
	Step        int
	Completed   bool
	CompletedAt *time.Time
	UpdatedAt   time.Time
}

// Message is one conversation entry. Immutable once appended.
type Message struct {
	ID      string `json:"id"`
	Role    string `json:"role"`
	Content string `json:"content"`
}

// NewMessage creates a Message with a fresh id.
func NewMessage(role, content string) Message {
	return Message{
		ID:      uuid.NewString(),
		Role:    role,
		Content: content,
	}
}

// ProgressRepo manages per-user progress records.
type ProgressRepo interface {
	// Get returns the user's progress, or nil if none exists.
	Get(ctx context.Context, userID string) (*Progress, error)

	// Upsert creates or fully replaces the user's progress record.
	Upsert(ctx context.Context, p *Progress) error

	// Delete removes the user's progress record if present.
	Delete(ctx context.Context, userID string) error
}

// ConversationRepo manages per-user message logs.
type ConversationRepo interface {
	// Get returns the user's messages in order, empty if none exist.
	Get(ctx context.Context, userID string) ([]Message, error)

	// Reset replaces the user's conversation with the given messages.
	Reset(ctx context.Context, userID string, messages []Message) error

	// Append adds messages to the end of the user's conversation,
	// creating it if needed.
	Append(ctx context.Context, userID string, messages ...Message) error

	// Delete removes the user's conversation if present.
	Delete(ctx context.Context, userID string) error
}
