// @title Brand Plan API
// @version 1.0
// @description Generates personal-branding marketing plans and tracks their checklist progress.
// @host localhost:8090
// @BasePath /api
// @schemes http https
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
// @description Type 'Bearer YOUR_SESSION_TOKEN' to authorize.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"brand-plan/internal/adapter"
	"brand-plan/internal/adapter/llm"
	"brand-plan/internal/cache"
	"brand-plan/internal/config"
	"brand-plan/internal/database"
	"brand-plan/internal/handler"
	"brand-plan/internal/logger"
	"brand-plan/internal/middleware"
	"brand-plan/internal/repository"
	"brand-plan/internal/service"

	_ "brand-plan/cmd/api/docs"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"go.uber.org/zap"
)

const (
	// lockMargin keeps the generation lock alive past the generation timeout.
	lockMargin      = 30 * time.Second
	shutdownTimeout = 10 * time.Second
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	if err := logger.Initialize(cfg.Logger); err != nil {
		panic(err)
	}
	appLogger := logger.Get()
	defer logger.Sync()

	// Initialize Redis Client
	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		appLogger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	appLogger.Info("Successfully connected to Redis")
	cacheAdapter := adapter.NewRedisCacheAdapter(redisClient)
	sessionStore := repository.NewRedisSessionStore(redisClient, cfg.Session.TTL, nil)

	// Connect to the plan archive
	if cfg.DB.AutoMigrate {
		if err := database.RunMigrations(cfg.DB.Driver, cfg.GetDSN(), database.Up); err != nil {
			appLogger.Fatal("Failed to run migrations", zap.Error(err))
		}
	}
	db, err := database.NewSQLXDB(cfg.DB.Driver, cfg.GetDSN())
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	planArchive := repository.NewPlanDatabaseAdapter(db)

	// Initialize the LLM generator. A missing credential is not fatal: plan
	// generation reports it and the config watcher installs the new key.
	generator := llm.NewGenerator(context.Background(), cfg.LLM, llm.NewModel)
	cfg.WatchLLMKey(func(apiKey string) {
		if err := generator.Reload(context.Background(), apiKey); err != nil {
			appLogger.Error("Failed to reload LLM credential", zap.Error(err))
			return
		}
		appLogger.Info("LLM credential reloaded")
	})

	// Initialize services
	tokens, err := service.NewSessionTokenService(cfg.Session.JWTSecret, cfg.Session.TokenTTL)
	if err != nil {
		appLogger.Fatal("Failed to create session token service", zap.Error(err))
	}
	planService := service.NewPlanService(sessionStore, planArchive, generator, cacheAdapter, tokens, service.PlanServiceConfig{
		GenerationTimeout: cfg.LLM.Timeout,
		LockTTL:           cfg.LLM.Timeout + lockMargin,
	})
	draftService := service.NewDraftService(sessionStore, generator, cacheAdapter, service.DraftServiceConfig{
		Timeout:  cfg.LLM.Timeout,
		LockTTL:  cfg.Draft.LockTTL,
		CacheTTL: cfg.Draft.CacheTTL,
	})
	exportService := service.NewExportService(sessionStore)

	// Initialize handlers
	sessionHandler := handler.NewSessionHandler(planService, draftService, exportService)
	healthHandler := handler.NewHealthHandler(map[string]handler.HealthCheck{
		"redis":    cacheAdapter.Ping,
		"database": db.PingContext,
	})

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.ReadTimeout,
		BodyLimit:    cfg.Server.BodyLimit,
		ErrorHandler: middleware.ErrorHandler(),
	})

	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(middleware.RequestLogger())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
		MaxAge:       300,
	}))

	app.Get("/swagger/*", swagger.HandlerDefault)
	handler.RegisterRoutes(app, sessionHandler, healthHandler, tokens)

	// Start server
	go func() {
		appLogger.Info("Starting server", zap.Int("port", cfg.Server.Port), zap.String("env", cfg.Logger.Env))
		if err := app.Listen(":" + strconv.Itoa(cfg.Server.Port)); err != nil {
			appLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := app.ShutdownWithContext(ctx); err != nil {
		appLogger.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := planService.Shutdown(ctx); err != nil {
		appLogger.Warn("Plan generations still running at shutdown", zap.Error(err))
	}
	if err := db.Close(); err != nil {
		appLogger.Warn("Failed to close database", zap.Error(err))
	}
	if err := redisClient.Close(); err != nil {
		appLogger.Warn("Failed to close Redis client", zap.Error(err))
	}
	appLogger.Info("Server exited gracefully")
}
