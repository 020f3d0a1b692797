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

// JudgeConfig holds configuration for the LLM judge.
type JudgeConfig struct {
	MaxTokens   int
	Temperature float64
}

// DefaultJudgeConfig returns sensible defaults. The temperature is kept
// low so verdicts stay consistent across retries.
func DefaultJudgeConfig() JudgeConfig {
	return JudgeConfig{
		MaxTokens:   512,
		Temperature: 0.2,
	}
}

// JudgeGrader grades free-text answers with an LLM. The reply must follow
// a labeled line format (verdict, explanation, continuation) which is
// parsed leniently; a provider failure surfaces as ErrGradingUnavailable.
type JudgeGrader struct {
	provider llm.Provider
	cfg      JudgeConfig
}

// NewJudgeGrader creates an LLM-backed grader.
func NewJudgeGrader(provider llm.Provider, cfg JudgeConfig) *JudgeGrader {
	return &JudgeGrader{provider: provider, cfg: cfg}
}

func (j *JudgeGrader) Grade(ctx context.Context, step course.Step, input string) (Verdict, error) {
	ctx = llm.WithPurpose(ctx, "answer-grading")

	userMsg, err := buildJudgeMessage(step, input)
	if err != nil {
		return Verdict{}, fmt.Errorf("build judge prompt: %w", err)
	}

	resp, err := j.provider.Generate(ctx, llm.Request{
		System: judgeSystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: userMsg},
		},
		MaxTokens:   j.cfg.MaxTokens,
		Temperature: j.cfg.Temperature,
	})
	if err != nil {
		return Verdict{}, fmt.Errorf("%w: %v", ErrGradingUnavailable, err)
	}

	return parseJudgeReply(resp.Text), nil
}

const judgeSystemPrompt = `Sen bir öğretmen asistanısın. Öğrencinin cevabını beklenen cevaplarla karşılaştırıp değerlendiriyorsun.

Kurallar:
1. Cevabın anlamca beklenen cevaplardan birine denk gelip gelmediğine bak, birebir aynı olması gerekmez.
2. Doğruysa neden doğru olduğunu, yanlışsa doğru cevabı kısaca açıkla.
3. Öğrenciyi Türkçe olarak yanıtla.
4. Cevabını tam olarak şu formatta ver, başka hiçbir şey ekleme:
DEĞERLENDİRME: DOĞRU veya YANLIŞ
AÇIKLAMA: <kısa açıklama>
DEVAM: <öğrenciye söylenecek kısa geçiş cümlesi>`

var judgeUserTemplate = template.Must(template.New("judge").Parse(`Adım içeriği: {{.StepContent}}
Öğrenci cevabı: {{.Input}}
Beklenen cevaplar: {{.Expected}}

Öğrencinin cevabı doğru mu?`))

func buildJudgeMessage(step course.Step, input string) (string, error) {
	var buf bytes.Buffer
	err := judgeUserTemplate.Execute(&buf, struct {
		StepContent string
		Input       string
		Expected    string
	}{
		StepContent: step.Content,
		Input:       input,
		Expected:    strings.Join(step.ExpectedResponses, ", "),
	})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}
