package server

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// NewRouter builds the gin engine with CORS and all API routes.
func NewRouter(cfg Config, h *Handler) *gin.Engine {
	router := gin.Default()

	router.Use(cors.New(corsConfig(cfg.AllowOrigins)))

	router.GET("/", h.Root)
	router.POST("/start-course/:courseId", h.StartCourse)
	router.POST("/completions", h.Completions)
	router.GET("/history/:userId", h.History)
	router.GET("/course-content/:courseId", h.CourseContent)
	router.GET("/course-state/:userId", h.CourseState)
	router.GET("/available-courses", h.AvailableCourses)

	return router
}

func corsConfig(origins []string) cors.Config {
	c := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	// gin-contrib/cors rejects credentials together with a wildcard.
	if len(origins) == 1 && origins[0] == "*" {
		c.AllowAllOrigins = true
		return c
	}
	c.AllowOrigins = origins
	c.AllowCredentials = true
	return c
}
