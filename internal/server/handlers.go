package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/neyapai/server/internal/session"
	"github.com/neyapai/server/internal/store"
)

// defaultUserID is used when a request carries no user_id query param.
const defaultUserID = "default_user"

// CompletionRequest is the body of POST /completions.
type CompletionRequest struct {
	Input string `json:"input" binding:"required"`
}

// CompletionResponse is the body of a successful completion.
type CompletionResponse struct {
	Output string `json:"output"`
}

// Handler serves the tutoring HTTP API.
type Handler struct {
	svc *session.Service
	log *zap.SugaredLogger
}

// NewHandler creates a Handler around the tutoring service.
func NewHandler(svc *session.Service, log *zap.SugaredLogger) *Handler {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Handler{svc: svc, log: log}
}

// Root answers GET / with a service banner.
func (h *Handler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "NeYapAI API"})
}

// StartCourse handles POST /start-course/:courseId.
func (h *Handler) StartCourse(c *gin.Context) {
	courseID := c.Param("courseId")
	userID := c.DefaultQuery("user_id", defaultUserID)

	welcome, err := h.svc.StartCourse(c.Request.Context(), courseID, userID)
	if err != nil {
		h.log.Errorw("start course failed", "course_id", courseID, "user_id", userID, "error", err)
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": welcome})
}

// Completions handles POST /completions: one learner turn in, one
// assistant reply out.
func (h *Handler) Completions(c *gin.Context) {
	var req CompletionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid_request", "input is required")
		return
	}
	userID := c.DefaultQuery("user_id", defaultUserID)

	output, err := h.svc.ProcessTurn(c.Request.Context(), userID, req.Input)
	if err != nil {
		h.log.Errorw("completion failed", "user_id", userID, "error", err)
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, CompletionResponse{Output: output})
}

// History handles GET /history/:userId.
func (h *Handler) History(c *gin.Context) {
	userID := c.Param("userId")

	messages, err := h.svc.History(c.Request.Context(), userID)
	if err != nil {
		h.log.Errorw("history failed", "user_id", userID, "error", err)
		respondServiceError(c, err)
		return
	}
	if messages == nil {
		messages = []store.Message{}
	}
	c.JSON(http.StatusOK, gin.H{"messages": messages})
}

// CourseContent handles GET /course-content/:courseId.
func (h *Handler) CourseContent(c *gin.Context) {
	courseID := c.Param("courseId")

	crs, err := h.svc.CourseContent(courseID)
	if err != nil {
		h.log.Errorw("course content failed", "course_id", courseID, "error", err)
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, crs)
}

// CourseState handles GET /course-state/:userId. Users without an
// active course get the zero state, not an error.
func (h *Handler) CourseState(c *gin.Context) {
	userID := c.Param("userId")

	state, err := h.svc.State(c.Request.Context(), userID)
	if err != nil {
		h.log.Errorw("course state failed", "user_id", userID, "error", err)
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

// AvailableCourses handles GET /available-courses.
func (h *Handler) AvailableCourses(c *gin.Context) {
	courses, err := h.svc.Courses()
	if err != nil {
		h.log.Errorw("list courses failed", "error", err)
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, courses)
}
