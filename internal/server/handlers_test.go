package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neyapai/server/internal/course"
	"github.com/neyapai/server/internal/llm"
	"github.com/neyapai/server/internal/session"
	"github.com/neyapai/server/internal/store"
	"github.com/neyapai/server/internal/tutor"
)

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
        content: Sorularını sorabilirsin.
        next_action: CONTINUE
`

// memProgressRepo and memConversationRepo keep the HTTP tests free of a
// real database.
type memProgressRepo struct {
	records map[string]*store.Progress
}

func (r *memProgressRepo) Get(_ context.Context, userID string) (*store.Progress, error) {
	p, ok := r.records[userID]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *memProgressRepo) Upsert(_ context.Context, p *store.Progress) error {
	cp := *p
	r.records[p.UserID] = &cp
	return nil
}

func (r *memProgressRepo) Delete(_ context.Context, userID string) error {
	delete(r.records, userID)
	return nil
}

type memConversationRepo struct {
	logs map[string][]store.Message
}

func (r *memConversationRepo) Get(_ context.Context, userID string) ([]store.Message, error) {
	return append([]store.Message{}, r.logs[userID]...), nil
}

func (r *memConversationRepo) Reset(_ context.Context, userID string, messages []store.Message) error {
	r.logs[userID] = append([]store.Message{}, messages...)
	return nil
}

func (r *memConversationRepo) Append(_ context.Context, userID string, messages ...store.Message) error {
	r.logs[userID] = append(r.logs[userID], messages...)
	return nil
}

func (r *memConversationRepo) Delete(_ context.Context, userID string) error {
	delete(r.logs, userID)
	return nil
}

func newTestRouter(t *testing.T, responses ...llm.MockResponse) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "gunes.yaml"), []byte(testCourseYAML), 0o644))

	provider := llm.NewMockProvider(responses...)
	engine := tutor.NewEngine(
		tutor.NewJudgeGrader(provider, tutor.DefaultJudgeConfig()),
		tutor.NewLLMChat(provider, tutor.DefaultChatConfig()),
		tutor.DefaultPolicy(),
		nil,
	)
	svc := session.NewService(
		course.NewCatalog(course.NewLoader(dir)),
		&memProgressRepo{records: make(map[string]*store.Progress)},
		&memConversationRepo{logs: make(map[string][]store.Message)},
		engine,
		nil,
	)

	cfg := DefaultConfig()
	cfg.CoursesDir = dir
	return NewRouter(cfg, NewHandler(svc, nil))
}

func doRequest(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRoot(t *testing.T) {
	router := newTestRouter(t)

	w := doRequest(router, http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"NeYapAI API"}`, w.Body.String())
}

func TestStartCourse(t *testing.T) {
	router := newTestRouter(t)

	w := doRequest(router, http.MethodPost, "/start-course/gunes?user_id=u1", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Message store.Message `json:"message"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, store.RoleAssistant, resp.Message.Role)
	assert.Contains(t, resp.Message.Content, "Güneş Sistemi")
	assert.NotEmpty(t, resp.Message.ID)
}

func TestStartCourse_UnknownCourseIs404(t *testing.T) {
	router := newTestRouter(t)

	w := doRequest(router, http.MethodPost, "/start-course/yok", "")
	require.Equal(t, http.StatusNotFound, w.Code)

	var resp ErrorEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "course_not_found", resp.Error.Code)
}

func TestCompletions_NoActiveCourseIs400(t *testing.T) {
	router := newTestRouter(t)

	w := doRequest(router, http.MethodPost, "/completions?user_id=u1", `{"input":"evet"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp ErrorEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "no_active_course", resp.Error.Code)
}

func TestCompletions_MissingInputIs400(t *testing.T) {
	router := newTestRouter(t)

	w := doRequest(router, http.MethodPost, "/completions", `{}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCompletions_ReadyTurn(t *testing.T) {
	router := newTestRouter(t)

	doRequest(router, http.MethodPost, "/start-course/gunes?user_id=u1", "")
	w := doRequest(router, http.MethodPost, "/completions?user_id=u1", `{"input":"evet"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp CompletionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Güneş enerjisini nasıl üretir?", resp.Output)
}

func TestCompletions_OpenChatOutageIs503(t *testing.T) {
	// No canned responses: the mock provider fails every call.
	router := newTestRouter(t)

	doRequest(router, http.MethodPost, "/start-course/gunes?user_id=u1", "")
	doRequest(router, http.MethodPost, "/completions?user_id=u1", `{"input":"evet"}`)
	// Advance onto the ungraded step via substring match.
	doRequest(router, http.MethodPost, "/completions?user_id=u1", `{"input":"nükleer füzyon"}`)

	w := doRequest(router, http.MethodPost, "/completions?user_id=u1", `{"input":"güneş kaç yaşında?"}`)
	require.Equal(t, http.StatusServiceUnavailable, w.Code)

	var resp ErrorEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "llm_unavailable", resp.Error.Code)
}

func TestHistory(t *testing.T) {
	router := newTestRouter(t)

	doRequest(router, http.MethodPost, "/start-course/gunes?user_id=u1", "")
	w := doRequest(router, http.MethodGet, "/history/u1", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Messages []store.Message `json:"messages"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Messages, 1)
	assert.Equal(t, store.RoleAssistant, resp.Messages[0].Role)
}

func TestHistory_EmptyForUnknownUser(t *testing.T) {
	router := newTestRouter(t)

	w := doRequest(router, http.MethodGet, "/history/kimse", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"messages":[]}`, w.Body.String())
}

func TestCourseContent(t *testing.T) {
	router := newTestRouter(t)

	w := doRequest(router, http.MethodGet, "/course-content/gunes", "")
	require.Equal(t, http.StatusOK, w.Code)

	var crs course.Course
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &crs))
	assert.Equal(t, "Güneş Sistemi", crs.Title)
	require.Len(t, crs.Sections, 1)
	assert.Len(t, crs.Sections[0].Steps, 2)
}

func TestCourseContent_UnknownIs404(t *testing.T) {
	router := newTestRouter(t)

	w := doRequest(router, http.MethodGet, "/course-content/yok", "")
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestCourseState(t *testing.T) {
	router := newTestRouter(t)

	// Unknown user gets the zero state.
	w := doRequest(router, http.MethodGet, "/course-state/kimse", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"current_section":0,"current_step":0}`, w.Body.String())

	// A started course reports the awaiting-start sentinel.
	doRequest(router, http.MethodPost, "/start-course/gunes?user_id=u1", "")
	w = doRequest(router, http.MethodGet, "/course-state/u1", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"current_section":0,"current_step":-1}`, w.Body.String())
}

func TestAvailableCourses(t *testing.T) {
	router := newTestRouter(t)

	w := doRequest(router, http.MethodGet, "/available-courses", "")
	require.Equal(t, http.StatusOK, w.Code)

	var summaries []course.Summary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summaries))
	require.Len(t, summaries, 1)
	assert.Equal(t, "gunes", summaries[0].ID)
	assert.Equal(t, "Güneş Sistemi", summaries[0].Title)
}
