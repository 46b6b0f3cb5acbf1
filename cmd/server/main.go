package main

import (
	"context"
	"fmt"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/architect/adaptive-tutor/internal/common/database"
	commonHandlers "github.com/architect/adaptive-tutor/internal/common/handlers"
	"github.com/architect/adaptive-tutor/internal/common/health"
	"github.com/architect/adaptive-tutor/internal/common/middleware"
	"github.com/architect/adaptive-tutor/internal/common/ratelimit"
	"github.com/architect/adaptive-tutor/internal/llm"
	"github.com/architect/adaptive-tutor/internal/tutor/dedup"
	"github.com/architect/adaptive-tutor/internal/tutor/generation"
	tutorHandlers "github.com/architect/adaptive-tutor/internal/tutor/handlers"
	"github.com/architect/adaptive-tutor/internal/tutor/models"
	"github.com/architect/adaptive-tutor/internal/tutor/repository"
	"github.com/architect/adaptive-tutor/internal/tutor/services"
	"github.com/architect/adaptive-tutor/pkg/config"
	"github.com/architect/adaptive-tutor/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	if err := logger.Init(cfg.Server.Env); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Initialize database (SQLite for development, PostgreSQL for production)
	if err := database.InitWithType(cfg.Database.Type, cfg.Database.DSN); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.Close()

	if err := database.Migrate(
		&models.LearnerProfile{},
		&models.AttemptRecord{},
		&models.QuestionPoolEntry{},
	); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Completion backends
	genRouter := generation.NewRouter(cfg.Engine.BackendTimeout, cfg.Engine.Denylist)

	openaiProvider, err := llm.NewOpenAIProvider(cfg.Backends.OpenAIKey, cfg.Backends.OpenAIModel)
	if err != nil {
		log.Fatalf("Failed to configure openai backend: %v", err)
	}
	genRouter.Register(openaiProvider)

	anthropicProvider, err := llm.NewAnthropicProvider(cfg.Backends.AnthropicKey, cfg.Backends.AnthropicModel)
	if err != nil {
		log.Fatalf("Failed to configure anthropic backend: %v", err)
	}
	genRouter.Register(anthropicProvider)

	// Rate limiter: process-local by default, shared counter store when
	// running more than one instance.
	retention := time.Duration(cfg.RateLimit.RetentionMinutes) * time.Minute
	var limiter ratelimit.Limiter
	switch cfg.RateLimit.Store {
	case "redis":
		limiter = ratelimit.NewRedisLimiter(cfg.RateLimit.RedisAddr, cfg.RateLimit.RequestsPerMin, retention)
		logger.Info("using redis rate limit store", zap.String("addr", cfg.RateLimit.RedisAddr))
	default:
		memLimiter := ratelimit.NewMemoryLimiter(cfg.RateLimit.RequestsPerMin, retention)
		defer memLimiter.Stop()
		limiter = memLimiter
	}

	guard := dedup.NewHistoryGuard(repository.AttemptHistory{}, cfg.Engine.LookbackDays)
	services.Init(genRouter, guard, cfg.Engine)

	// Background pool population
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if cfg.Engine.PoolEnabled {
		go services.StartPoolPopulator(ctx)
	}

	// Create Gin engine
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())

	// Apply middleware
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.ErrorHandler())

	// Health check endpoints
	healthChecker := health.NewHealthChecker(database.GetDB(), "1.0.0")
	healthHandler := commonHandlers.NewHealthHandler(healthChecker)
	router.GET("/health", healthHandler.Health)
	router.GET("/health/readiness", healthHandler.Readiness)
	router.GET("/health/liveness", healthHandler.Liveness)
	router.GET("/health/metrics", healthHandler.Metrics)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		questions := v1.Group("/questions", middleware.AuthRequired())
		{
			questions.POST("/generate", middleware.RateLimit(limiter), tutorHandlers.GenerateQuestion)
			questions.POST("/generate-batch", middleware.RateLimit(limiter), tutorHandlers.GenerateBatch)
			questions.POST("/submit", tutorHandlers.SubmitAttempt)
			questions.POST("/hint", middleware.RateLimit(limiter), tutorHandlers.GetHint)
		}

		learners := v1.Group("/learners", middleware.AuthRequired())
		{
			learners.GET("/stats", tutorHandlers.GetLearnerStats)
		}
	}

	// Start server
	address := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	logger.Info("Starting adaptive tutor server", zap.String("address", address))

	if err := router.Run(address); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
