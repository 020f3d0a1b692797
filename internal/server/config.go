package server

import (
	"os"
	"strconv"
	"strings"
)

// Config holds the HTTP server settings.
type Config struct {
	// Port the server listens on.
	Port int
	// AllowOrigins for CORS. "*" allows every origin.
	AllowOrigins []string
	// CoursesDir is the directory holding course YAML documents.
	CoursesDir string
}

// DefaultConfig returns the server defaults.
func DefaultConfig() Config {
	return Config{
		Port:         8000,
		AllowOrigins: []string{"*"},
		CoursesDir:   "courses",
	}
}

// ConfigFromEnv builds a Config from NEYAPAI_-prefixed environment
// variables, falling back to defaults.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()

	if v := os.Getenv("NEYAPAI_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil && p > 0 {
			cfg.Port = p
		}
	}
	if v := os.Getenv("NEYAPAI_CORS_ORIGINS"); v != "" {
		var origins []string
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		if len(origins) > 0 {
			cfg.AllowOrigins = origins
		}
	}
	if v := os.Getenv("NEYAPAI_COURSES_DIR"); v != "" {
		cfg.CoursesDir = v
	}

	return cfg
}
