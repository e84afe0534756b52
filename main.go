package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"

	"github.com/skillbridge-inc/pathway-engine/pkg/config"
	"github.com/skillbridge-inc/pathway-engine/pkg/database"
	"github.com/skillbridge-inc/pathway-engine/pkg/handlers"
	"github.com/skillbridge-inc/pathway-engine/pkg/llm"
	"github.com/skillbridge-inc/pathway-engine/pkg/logging"
	"github.com/skillbridge-inc/pathway-engine/pkg/repositories"
	"github.com/skillbridge-inc/pathway-engine/pkg/retry"
	"github.com/skillbridge-inc/pathway-engine/pkg/services"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	if err := run(); err != nil {
		log.Fatalf("pathway-engine: %v", err)
	}
}

func run() error {
	ctx := context.Background()

	cfg, err := config.Load(Version)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := logging.New(cfg.Env)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Configuration loaded",
		zap.String("env", cfg.Env),
		zap.String("version", cfg.Version),
		zap.String("ai_provider", cfg.AI.Provider),
		zap.String("ai_model", cfg.AI.Model),
		zap.String("database", logging.SanitizeConnectionString(cfg.Database.URL())))

	// Databases restarting alongside the service are the common case, so
	// the initial connection retries with backoff. Request-path calls never do.
	db, err := retry.DoWithResult(ctx, retry.DefaultConfig(), func() (*database.DB, error) {
		return database.NewConnection(ctx, &database.Config{
			URL:            cfg.Database.URL(),
			MaxConnections: cfg.Database.MaxConnections,
		})
	})
	if err != nil {
		// Connection errors can echo the DSN, password included.
		return fmt.Errorf("connect database: %s", logging.SanitizeError(err))
	}
	defer db.Close()

	migrationDB := stdlib.OpenDBFromPool(db.Pool)
	if err := database.RunMigrations(migrationDB, cfg.Database.MigrationsPath, logger); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	if err := migrationDB.Close(); err != nil {
		logger.Warn("Failed to close migration connection", zap.Error(err))
	}

	llmClient, err := newLLMClient(cfg, logger)
	if err != nil {
		return fmt.Errorf("init llm client: %w", err)
	}
	circuitBreaker := llm.NewCircuitBreaker(llm.DefaultCircuitBreakerConfig())
	workerPool := llm.NewWorkerPool(llm.WorkerPoolConfig{MaxConcurrent: cfg.Research.MaxWorkers}, logger)

	learnerRepo := repositories.NewLearnerRepository(db)
	resourceRepo := repositories.NewResourceRepository(db)
	pathwayRepo := repositories.NewPathwayRepository(db)

	analyzer := services.NewGoalAnalyzer(llmClient, circuitBreaker, cfg.AI.Temperature, logger)
	researcher := services.NewResourceResearcher(resourceRepo, llmClient, circuitBreaker, workerPool, cfg.Research.CoursesPerSkill, cfg.AI.Temperature, logger)
	synthesizer := services.NewRoadmapSynthesizer(logger)
	orchestrator := services.NewPathwayOrchestrator(analyzer, researcher, synthesizer, pathwayRepo, logger)

	mux := http.NewServeMux()
	handlers.NewHealthHandler(cfg, logger).RegisterRoutes(mux)
	handlers.NewLearnerHandler(learnerRepo, logger).RegisterRoutes(mux)
	handlers.NewPathwayHandler(orchestrator, pathwayRepo, logger).RegisterRoutes(mux)

	addr := cfg.BindAddr + ":" + cfg.Port
	logger.Info("Starting pathway-engine",
		zap.String("addr", addr),
		zap.String("version", cfg.Version))
	if err := http.ListenAndServe(addr, mux); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

func newLLMClient(cfg *config.Config, logger *zap.Logger) (llm.LLMClient, error) {
	llmCfg := &llm.Config{
		Endpoint: cfg.AI.BaseURL,
		Model:    cfg.AI.Model,
		APIKey:   cfg.AI.APIKey,
	}
	if cfg.AI.Provider == "anthropic" {
		return llm.NewAnthropicClient(llmCfg, logger)
	}
	return llm.NewClient(llmCfg, logger)
}
