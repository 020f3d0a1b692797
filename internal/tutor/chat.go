package tutor

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"text/template"

	"github.com/neyapai/server/internal/course"
	"github.com/neyapai/server/internal/llm"
)

// Chat answers ungraded open questions with course and step context.
type Chat interface {
	Reply(ctx context.Context, c *course.Course, pos Position, history []llm.Message, input string) (string, error)
}

// ChatConfig holds configuration for open conversation replies.
type ChatConfig struct {
	MaxTokens   int
	Temperature float64
	// HistoryLimit caps how many trailing conversation messages are sent
	// as context. 0 means send everything.
	HistoryLimit int
}

// DefaultChatConfig returns sensible defaults.
func DefaultChatConfig() ChatConfig {
	return ChatConfig{
		MaxTokens:    1024,
		Temperature:  0.7,
		HistoryLimit: 20,
	}
}

// LLMChat implements Chat on an llm.Provider. Each call builds a fresh
// request from (course, conversation so far); no agent state is kept
// between turns.
type LLMChat struct {
	provider llm.Provider
	cfg      ChatConfig
}

// NewLLMChat creates an LLM-backed open chat.
func NewLLMChat(provider llm.Provider, cfg ChatConfig) *LLMChat {
	return &LLMChat{provider: provider, cfg: cfg}
}

func (c *LLMChat) Reply(ctx context.Context, crs *course.Course, pos Position, history []llm.Message, input string) (string, error) {
	ctx = llm.WithPurpose(ctx, "open-chat")

	system, err := buildChatSystemPrompt(crs, pos)
	if err != nil {
		return "", fmt.Errorf("build chat prompt: %w", err)
	}

	messages := append(trimHistory(history, c.cfg.HistoryLimit), llm.Message{
		Role:    llm.RoleUser,
		Content: input,
	})

	resp, err := c.provider.Generate(ctx, llm.Request{
		System:      system,
		Messages:    messages,
		MaxTokens:   c.cfg.MaxTokens,
		Temperature: c.cfg.Temperature,
	})
	if err != nil {
		return "", err
	}
	return resp.Text, nil
}

func trimHistory(history []llm.Message, limit int) []llm.Message {
	if limit <= 0 || len(history) <= limit {
		return history
	}
	return history[len(history)-limit:]
}

const chatSystemTemplate = `Sen bir öğretmen asistanısın. Öğrencilere ders içeriğini adım adım öğretmekle görevlisin.

Görevlerin:
1. Her adımı sırayla ve detaylı şekilde anlatmak
2. Öğrencinin sorularını mevcut adım bağlamında yanıtlamak
3. Öğrenciyi motive etmek

Kurallar:
1. Her seferinde sadece mevcut adımın içeriğine odaklan
2. Öğrenciyi Türkçe olarak yanıtla

Kurs: {{.CourseTitle}}
Açıklama: {{.CourseDescription}}
Mevcut Bölüm: {{.SectionTitle}}
Mevcut Adım: {{.StepIndex}}
İçerik: {{.StepContent}}
Beklenen Yanıtlar: {{.Expected}}`

var chatSystemTmpl = template.Must(template.New("chat").Parse(chatSystemTemplate))

func buildChatSystemPrompt(crs *course.Course, pos Position) (string, error) {
	sec := crs.Sections[pos.Section]
	step := sec.Steps[pos.Step]

	expected := "Serbest yanıt"
	if step.Graded() {
		expected = strings.Join(step.ExpectedResponses, ", ")
	}

	var buf bytes.Buffer
	err := chatSystemTmpl.Execute(&buf, struct {
		CourseTitle       string
		CourseDescription string
		SectionTitle      string
		StepIndex         int
		StepContent       string
		Expected          string
	}{
		CourseTitle:       crs.Title,
		CourseDescription: crs.Description,
		SectionTitle:      sec.Title,
		StepIndex:         step.Index,
		StepContent:       step.Content,
		Expected:          expected,
	})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}
