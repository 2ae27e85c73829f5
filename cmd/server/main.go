package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"studyultra/internal/auth"
	"studyultra/internal/config"
	"studyultra/internal/domain/models"
	"studyultra/internal/handler"
	"studyultra/internal/language"
	"studyultra/internal/middleware"
	"studyultra/internal/prompt"
	"studyultra/internal/repository"
	"studyultra/internal/service/attachment"
	serviceLLM "studyultra/internal/service/llm"
	"studyultra/internal/service/session"
	"studyultra/internal/service/tutor"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	// Missing secrets stop startup here
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, closeLog, err := config.NewLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer closeLog()

	if err := run(cfg, logger); err != nil {
		logger.Error("server stopped with error", zap.Error(err))
		closeLog()
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	logger.Info("server starting",
		zap.String("environment", cfg.Environment),
		zap.String("port", cfg.Port),
		zap.String("history_backend", cfg.HistoryBackend),
		zap.String("completion_provider", cfg.CompletionProvider),
		zap.Bool("debug", cfg.Debug),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	verifier, err := auth.NewVerifier(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer verifier.Close()

	store, err := repository.NewHistoryStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := store.Close(closeCtx); err != nil {
			logger.Warn("failed to close history store", zap.Error(err))
		}
	}()

	completion, err := serviceLLM.SetupCompletionClient(cfg, logger)
	if err != nil {
		return err
	}

	prompts, err := prompt.NewBuilder()
	if err != nil {
		return err
	}

	sessions := session.NewRegistry(cfg.SessionIdleTimeout, logger)
	if err := sessions.StartSweeper(cfg.SessionSweepSpec); err != nil {
		return err
	}
	defer sessions.StopSweeper()

	tutorService := tutor.NewService(tutor.Deps{
		Classifier: language.NewKeywordClassifier(),
		Prompts:    prompts,
		Completion: completion,
		Store:      store,
		Analyzer:   attachment.NewAnalyzer(cfg.MaxAttachmentBytes, logger),
		Sessions:   sessions,
		Reload:     models.ReloadMode(cfg.HistoryReload),
		Logger:     logger,
	})

	logger.Info("services initialized")

	routes := handler.Routes{
		Sessions:       handler.NewSessionHandler(verifier, tutorService, logger),
		Questions:      handler.NewQuestionHandler(tutorService, cfg.MaxAttachmentBytes, logger),
		RequireSession: middleware.RequireSession(tutorService, handler.SessionExpiredMessage),
	}
	if cfg.Debug {
		routes.Debug = handler.NewDebugHandler(tutorService, logger)
		logger.Warn("Debug route registered: GET /api/sessions/current/snapshots (raw stored snapshots)")
	}

	// Create HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()
	handler.RegisterRoutes(mux, routes)

	// Apply middleware in reverse order (they wrap each other)
	// Order: CORS → Recovery → Request logging → Routes
	var h http.Handler = mux
	h = middleware.RequestLogger(logger)(h)
	h = middleware.Recovery(logger)(h)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "X-Session-ID"},
		AllowCredentials: true,
	})
	h = corsHandler.Handler(h)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      h,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second, // completion latency
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
