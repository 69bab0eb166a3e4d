package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/vendite/backend/internal/application/ingest"
	salesapp "github.com/vendite/backend/internal/application/sales"
	"github.com/vendite/backend/internal/infrastructure/config"
	"github.com/vendite/backend/internal/infrastructure/logger"
	"github.com/vendite/backend/internal/infrastructure/persistence"
	"github.com/vendite/backend/internal/interfaces/http/handler"
	"github.com/vendite/backend/internal/interfaces/http/middleware"
	"github.com/vendite/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting vendite backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Create GORM logger backed by zap
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()

	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to migrate database", zap.Error(err))
	}
	log.Info("Database connected successfully",
		zap.String("driver", cfg.Database.Driver),
	)

	// Initialize repositories and services
	salesRepo := persistence.NewGormSalesRecordRepository(db.DB)
	dashboardService := salesapp.NewDashboardService(salesRepo, log)
	loaderService := ingest.NewLoaderService(salesRepo, log, ingest.Options{
		SkipDuplicates: cfg.Ingest.SkipDuplicates,
	})

	// Ingest the configured CSV once before accepting requests. A missing
	// file is not fatal: the store may already hold data, or records can
	// arrive later via the import endpoint.
	if cfg.Ingest.OnStartup {
		runStartupIngest(loaderService, cfg.Ingest.CSVPath, log)
	}

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup validation
	middleware.SetupValidator()

	engine := gin.New()
	engine.Use(logger.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))

	// Register route groups
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Register(handler.NewSalesHandler(dashboardService, loaderService))
	r.Register(handler.NewSystemHandler(db))
	r.Setup()

	// Create HTTP server with config
	srv := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      engine,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

func runStartupIngest(loader *ingest.LoaderService, path string, log *zap.Logger) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		log.Warn("Startup ingest skipped, source file not found", zap.String("path", path))
		return
	}

	result, err := loader.LoadFile(context.Background(), path)
	if err != nil {
		log.Fatal("Startup ingest failed", zap.String("path", path), zap.Error(err))
	}
	log.Info("Startup ingest completed",
		zap.String("path", path),
		zap.Int("total_rows", result.TotalRows),
		zap.Int("inserted_rows", result.InsertedRows),
		zap.Int("skipped_rows", result.SkippedRows),
		zap.Int("error_rows", result.ErrorRows),
	)
}
