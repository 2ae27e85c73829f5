package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"studyultra/internal/config"
	"studyultra/internal/repository"
	"studyultra/internal/seed"
)

func main() {
	// Parse command-line flags
	userID := flag.String("user", "", "Google subject (sub) to seed history for")
	turns := flag.Int("turns", 3, "Number of generated turns, one snapshot each")
	dropTables := flag.Bool("drop-tables", false, "Drop the postgres history tables and exit")
	flag.Parse()

	// Load .env file
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, closeLog, err := config.NewLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer closeLog()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if *dropTables {
		if err := repository.DropHistoryTables(ctx, cfg, logger); err != nil {
			logger.Fatal("failed to drop history tables", zap.Error(err))
		}
		return
	}

	if *userID == "" {
		logger.Fatal("-user is required")
	}

	store, err := repository.NewHistoryStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to open history store", zap.Error(err))
	}
	defer store.Close(ctx)

	history, err := seed.NewHistorySeeder(store, logger).SeedUser(ctx, *userID, *turns)
	if err != nil {
		logger.Fatal("seeding failed", zap.Error(err))
	}

	logger.Info("seed complete",
		zap.String("backend", cfg.HistoryBackend),
		zap.String("user_id", *userID),
		zap.Int("turns", len(history)))
}
