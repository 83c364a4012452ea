package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	"github.com/spec-agent/backend/internal/api/handlers"
	"github.com/spec-agent/backend/internal/cache/redis"
	"github.com/spec-agent/backend/internal/extract"
	"github.com/spec-agent/backend/internal/feedback"
	"github.com/spec-agent/backend/internal/generator"
	"github.com/spec-agent/backend/internal/history"
	"github.com/spec-agent/backend/internal/metrics"
	"github.com/spec-agent/backend/internal/middleware/ratelimit"
	"github.com/spec-agent/backend/internal/middleware/security"
	"github.com/spec-agent/backend/internal/middleware/validation"
	"github.com/spec-agent/backend/internal/reward"
	"github.com/spec-agent/backend/internal/scoring"
	"github.com/spec-agent/backend/internal/storage/sqlite"
	"github.com/spec-agent/backend/internal/training"
	"github.com/spec-agent/backend/pkg/config"
	appLogger "github.com/spec-agent/backend/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	err = appLogger.Init(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.OutputPath)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer appLogger.Sync()

	appLogger.Info("Starting Spec Agent API Server")

	metrics.Init()

	sqliteClient, err := sqlite.NewClient(cfg.SQLite.Path)
	if err != nil {
		appLogger.Fatal("Failed to create SQLite client", zap.Error(err))
	}
	defer sqliteClient.Close()

	err = sqliteClient.InitSchema()
	if err != nil {
		appLogger.Fatal("Failed to initialize schema", zap.Error(err))
	}

	var cacheClient *redis.Client
	if cfg.Redis.Enabled {
		cacheClient, err = redis.NewClient(cfg.Redis.Host, cfg.Redis.Port, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			appLogger.Warn("Redis unavailable, continuing without evaluation cache", zap.Error(err))
			cacheClient = nil
		} else {
			defer cacheClient.Close()
		}
	}

	fileStore, err := history.NewFileStore(cfg.History.FallbackPath)
	if err != nil {
		appLogger.Fatal("Failed to create history fallback store", zap.Error(err))
	}

	hist := history.NewSQLStore(sqliteClient, fileStore, cfg.Training.HighScoreThreshold)

	extractor := extract.NewExtractor()
	gen := generator.NewGenerator(extractor)
	scorer := scoring.NewScorer()
	explorer := feedback.NewExplorer(cfg.Training.ExplorationRate)
	policy := feedback.NewPolicy(explorer)

	controller := training.NewController(
		gen,
		policy,
		training.PureEvaluator{},
		scorer,
		hist,
		explorer,
		cfg.Training.HighScoreThreshold,
	)

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    cfg.Server.BodyLimit,
	})

	app.Use(recover.New())
	app.Use(fiberlogger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, DELETE, OPTIONS",
	}))
	app.Use(security.HeadersMiddleware(security.HeadersConfig{}))

	limiter := ratelimit.New(ratelimit.Config{
		MaxRequestsPerMinute: cfg.RateLimit.MaxRequestsPerMinute,
	})
	defer limiter.Stop()
	app.Use(limiter.Middleware())

	app.Use(validation.Middleware(validation.Config{}))

	defaultMode := reward.ParseMode(cfg.Training.RewardMode)

	specHandler := handlers.NewSpecHandler(gen, scorer, cacheClient)
	trainingHandler := handlers.NewTrainingHandler(controller, hist, cfg.Training.MaxIterations, defaultMode)
	streamHandler := handlers.NewStreamHandler(controller, cfg.Training.MaxIterations, defaultMode)

	api := app.Group("/api/v1")

	api.Post("/specs", specHandler.HandleGenerate)
	api.Post("/training/run", trainingHandler.HandleRun)
	api.Get("/training/sessions/:id", trainingHandler.HandleGetSession)

	api.Use("/training/stream", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	api.Get("/training/stream", websocket.New(streamHandler.HandleConnection))

	app.Get("/metrics", metrics.MetricsHandler())

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Unix(),
		})
	})

	api.Get("/ready", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ready",
		})
	})

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	appLogger.Info("Server starting", zap.String("address", addr))

	go func() {
		if err := app.Listen(addr); err != nil {
			appLogger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Server shutting down gracefully...")
	app.Shutdown()
	appLogger.Info("Server stopped")
}
