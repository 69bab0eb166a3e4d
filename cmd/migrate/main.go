package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/vendite/backend/internal/application/ingest"
	"github.com/vendite/backend/internal/infrastructure/config"
	"github.com/vendite/backend/internal/infrastructure/logger"
	"github.com/vendite/backend/internal/infrastructure/persistence"
	"go.uber.org/zap"
)

// Creates or updates the vendite schema, optionally seeding it from a
// CSV file. Useful for preparing a database without starting the server.
func main() {
	var (
		logLevel string
		seedPath string
	)

	flag.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.StringVar(&seedPath, "seed", "", "CSV file to ingest after migrating (optional)")
	flag.Parse()

	log, err := logger.New(&logger.Config{
		Level:  logLevel,
		Format: "console",
		Output: "stdout",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	db, err := persistence.NewDatabase(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()

	if err := db.Migrate(); err != nil {
		log.Fatal("Migration failed", zap.Error(err))
	}
	log.Info("Migration completed", zap.String("driver", cfg.Database.Driver))

	if seedPath == "" {
		return
	}

	repo := persistence.NewGormSalesRecordRepository(db.DB)
	loader := ingest.NewLoaderService(repo, log, ingest.Options{
		SkipDuplicates: cfg.Ingest.SkipDuplicates,
	})

	result, err := loader.LoadFile(context.Background(), seedPath)
	if err != nil {
		log.Fatal("Seed ingest failed", zap.String("path", seedPath), zap.Error(err))
	}
	log.Info("Seed ingest completed",
		zap.String("path", seedPath),
		zap.Int("total_rows", result.TotalRows),
		zap.Int("inserted_rows", result.InsertedRows),
		zap.Int("skipped_rows", result.SkippedRows),
		zap.Int("error_rows", result.ErrorRows),
	)
}
