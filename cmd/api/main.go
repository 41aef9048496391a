package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"hackquest/agent-api/internal/auth"
	"hackquest/agent-api/internal/config"
	"hackquest/agent-api/internal/handlers"
	"hackquest/agent-api/internal/pipeline"
	"hackquest/agent-api/internal/repositories"
	"hackquest/agent-api/internal/services"
)

func main() {
	cfg := config.Load()

	log, err := buildLogger(cfg.Server.Env)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx := context.Background()

	// Database
	db, err := config.InitDatabase(cfg)
	if err != nil {
		log.Fatal("failed to initialize database", zap.Error(err))
	}
	log.Info("database connected and migrated")

	// Repositories
	userRepo := repositories.NewUserRepository(db)
	hackathonRepo := repositories.NewHackathonRepository(db)
	runRepo := repositories.NewAgentRunRepository(db)

	// External services
	geminiService, err := services.NewGeminiService(ctx, cfg.Gemini.APIKey)
	if err != nil {
		log.Fatal("failed to initialize gemini", zap.Error(err))
	}

	qdrantService, err := services.NewQdrantService(
		cfg.Qdrant.URL,
		cfg.Qdrant.APIKey,
		cfg.Qdrant.Collection,
	)
	if err != nil {
		log.Fatal("failed to initialize qdrant", zap.Error(err))
	}
	if err := qdrantService.InitCollection(ctx); err != nil {
		log.Fatal("failed to initialize qdrant collection", zap.Error(err))
	}
	log.Info("qdrant collection ready", zap.String("collection", cfg.Qdrant.Collection))

	githubService := services.NewGitHubService(cfg.GitHub.Token)

	cacheService := services.NewCacheService(
		cfg.Redis.Addr,
		cfg.Redis.Password,
		cfg.Redis.DB,
		cfg.Agent.CacheTTL,
		log,
	)
	if err := cacheService.Ping(ctx); err != nil {
		log.Warn("redis unreachable, caching degraded", zap.Error(err))
	}

	storageService := services.NewStorageService(cfg.Storage.SubmissionPath)
	if err := storageService.EnsureDir(); err != nil {
		log.Fatal("failed to create submission directory", zap.Error(err))
	}

	// Pipeline
	timeout := cfg.Agent.CallTimeout
	pipe := pipeline.New(
		pipeline.NewProfileAggregator(githubService, timeout, log),
		pipeline.NewMatcher(geminiService, qdrantService, cfg.Agent.TopK, timeout, log),
		pipeline.NewJudge(geminiService, timeout, log),
		pipeline.NewGenerator(geminiService, timeout, log),
		log,
	)

	// Worker
	worker := services.NewWorker(
		runRepo,
		userRepo,
		pipe,
		storageService,
		cacheService,
		cfg.Worker.Concurrency,
		cfg.Worker.PollInterval,
		log,
	)
	worker.Start(ctx)
	log.Info("worker started", zap.Int("concurrency", cfg.Worker.Concurrency))

	// Auth
	authService, err := auth.NewService(userRepo, cfg.JWT.Secret, cfg.JWT.TTL)
	if err != nil {
		log.Fatal("failed to initialize auth", zap.Error(err))
	}

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	profileHandler := handlers.NewProfileHandler(userRepo)
	hackathonHandler := handlers.NewHackathonHandler(hackathonRepo)
	agentHandler := handlers.NewAgentHandler(runRepo, cacheService, storageService, worker)
	wsHandler := handlers.NewWSHandler(authService, userRepo, pipe, cacheService, log)

	// Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "HackQuest Agent API",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		ErrorHandler: customErrorHandler,
	})

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PATCH,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	// Routes
	api := app.Group("/api/v1")

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	api.Post("/auth/register", authHandler.HandleRegister)
	api.Post("/auth/login", authHandler.HandleLogin)

	api.Get("/hackathons", hackathonHandler.HandleList)
	api.Get("/hackathons/:id", hackathonHandler.HandleGet)

	protected := api.Group("", handlers.AuthRequired(authService))
	protected.Get("/profile", profileHandler.HandleGetProfile)
	protected.Patch("/profile", profileHandler.HandleUpdateProfile)
	protected.Post("/agent/run", agentHandler.HandleRun)
	protected.Get("/agent/result/:id", agentHandler.HandleGetResult)
	protected.Get("/agent/result/:id/download", agentHandler.HandleDownload)

	ws := app.Group("/ws", wsHandler.Upgrade)
	ws.Get("/agent", wsHandler.HandleAgent())
	ws.Get("/notifications", wsHandler.HandleNotifications())

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Info("shutting down server")
		worker.Stop()
		if err := app.Shutdown(); err != nil {
			log.Error("server forced to shutdown", zap.Error(err))
		}
	}()

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Info("server starting", zap.String("addr", addr))

	if err := app.Listen(addr); err != nil {
		log.Fatal("failed to start server", zap.Error(err))
	}
}

func buildLogger(env string) (*zap.Logger, error) {
	if env == "development" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
		"code":  code,
	})
}
