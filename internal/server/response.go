package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/neyapai/server/internal/course"
	"github.com/neyapai/server/internal/session"
	"github.com/neyapai/server/internal/tutor"
)

// APIError is the wire shape of a failed request.
type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// ErrorEnvelope wraps an APIError for JSON responses.
type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, ErrorEnvelope{Error: APIError{Message: message, Code: code}})
}

// respondServiceError maps service errors onto HTTP statuses. Unknown
// errors become a generic 500 so internals never leak to clients.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, course.ErrNotFound):
		respondError(c, http.StatusNotFound, "course_not_found", "course not found")
	case errors.Is(err, session.ErrNoActiveCourse):
		respondError(c, http.StatusBadRequest, "no_active_course", "no active course found")
	case errors.Is(err, tutor.ErrLLMUnavailable):
		respondError(c, http.StatusServiceUnavailable, "llm_unavailable", "assistant temporarily unavailable")
	default:
		respondError(c, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
