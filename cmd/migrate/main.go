package main

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/project-roulette/engine/internal/models"
	"github.com/project-roulette/engine/pkg/config"
	"github.com/project-roulette/engine/pkg/database"
	"github.com/project-roulette/engine/pkg/logger"
)

func main() {
	cfg := config.MustLoad()
	log, err := logger.Init(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is required for migrations")
	}

	db, err := database.OpenPostgres(context.Background(), cfg.DatabaseURL, cfg.AppEnv, log.Named("gorm"))
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}

	if err := runMigrations(db); err != nil {
		log.Fatal("migration failed", zap.Error(err))
	}

	fmt.Fprintln(os.Stdout, "migrations completed")
}

// runMigrations creates or updates every table the engine uses.
func runMigrations(db *gorm.DB) error {
	return db.AutoMigrate(&models.KVEntry{})
}
