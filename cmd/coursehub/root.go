package main

import (
	"database/sql"
	"fmt"

	"github.com/coursehub/backend/internal/config"
	"github.com/coursehub/backend/internal/database"
	"github.com/coursehub/backend/internal/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var rootCmd = &cobra.Command{
	Use:           "coursehub",
	Short:         "CourseHub e-learning backend",
	SilenceUsage: true,
}

// bootstrap loads the configuration, initializes the logger and opens the database
func bootstrap() (*config.Config, *sql.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(cfg.Logging.Level); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	db, err := database.Open(cfg.Database.Driver, cfg.DSN())
	if err != nil {
		logger.Logger.Error("Failed to connect to database", zap.String("driver", cfg.Database.Driver), zap.Error(err))
		return nil, nil, err
	}

	return cfg, db, nil
}
