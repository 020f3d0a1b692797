package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/neyapai/server/internal/course"
	"github.com/neyapai/server/internal/llm"
	"github.com/neyapai/server/internal/server"
	"github.com/neyapai/server/internal/session"
	"github.com/neyapai/server/internal/store"
	"github.com/neyapai/server/internal/tutor"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd)
	},
}

func runServe(cmd *cobra.Command) error {
	// Missing .env is fine; the environment may be set directly.
	_ = godotenv.Load()

	log, err := newLogger()
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	cfg := server.ConfigFromEnv()

	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return fmt.Errorf("resolve database path: %w", err)
	}

	s, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer s.Close()

	catalog := course.NewCatalog(course.NewLoader(cfg.CoursesDir))

	ctx := cmd.Context()
	provider, err := llm.NewProviderFromEnv(ctx, log)
	if err != nil {
		return fmt.Errorf("init LLM provider: %w", err)
	}

	engine := tutor.NewEngine(
		tutor.NewJudgeGrader(provider, tutor.DefaultJudgeConfig()),
		tutor.NewLLMChat(provider, tutor.DefaultChatConfig()),
		tutor.DefaultPolicy(),
		log,
	)

	svc := session.NewService(catalog, s.ProgressRepo(), s.ConversationRepo(), engine, log)
	router := server.NewRouter(cfg, server.NewHandler(svc, log))

	addr := fmt.Sprintf(":%d", cfg.Port)
	log.Infow("server starting", "addr", addr, "courses_dir", cfg.CoursesDir, "db", dbPath)
	return router.Run(addr)
}

// newLogger builds the process logger. NEYAPAI_DEBUG=1 switches to the
// human-readable development config.
func newLogger() (*zap.SugaredLogger, error) {
	var (
		l   *zap.Logger
		err error
	)
	if os.Getenv("NEYAPAI_DEBUG") == "1" {
		l, err = zap.NewDevelopment()
	} else {
		l, err = zap.NewProduction()
	}
	if err != nil {
		return nil, err
	}
	return l.Sugar(), nil
}
