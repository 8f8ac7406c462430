package main

import (
	"flag"
	"log"

	"brand-plan/internal/config"
	"brand-plan/internal/database"
	"brand-plan/internal/logger"

	"go.uber.org/zap"
)

func main() {
	direction := flag.String("direction", string(database.Up), "migration direction: up or down")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	l := logger.Get()
	defer logger.Sync()

	l.Info("Running migrations", zap.String("driver", cfg.DB.Driver), zap.String("direction", *direction))
	if err := database.RunMigrations(cfg.DB.Driver, cfg.GetDSN(), database.Direction(*direction)); err != nil {
		l.Fatal("Failed to run migrations", zap.Error(err))
	}
}
