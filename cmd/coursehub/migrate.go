package main

import (
	"fmt"
	"strconv"

	"github.com/coursehub/backend/internal/database"
	"github.com/coursehub/backend/internal/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the database schema",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, db, err := bootstrap()
		if err != nil {
			return err
		}
		defer logger.Sync()
		defer db.Close()

		if err := database.RunMigrations(db, cfg.Database.Driver); err != nil {
			return err
		}
		logger.Logger.Info("Migrations applied", zap.String("driver", cfg.Database.Driver))
		return nil
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down [steps]",
	Short: "Roll back migrations (one step by default)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		steps := 1
		if len(args) == 1 {
			n, err := strconv.Atoi(args[0])
			if err != nil || n <= 0 {
				return fmt.Errorf("invalid steps: %s", args[0])
			}
			steps = n
		}

		cfg, db, err := bootstrap()
		if err != nil {
			return err
		}
		defer logger.Sync()
		defer db.Close()

		if err := database.RollbackMigrations(db, cfg.Database.Driver, steps); err != nil {
			return err
		}
		logger.Logger.Info("Migrations rolled back", zap.Int("steps", steps))
		return nil
	},
}

var migrateVersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the current schema version",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, db, err := bootstrap()
		if err != nil {
			return err
		}
		defer logger.Sync()
		defer db.Close()

		version, dirty, err := database.MigrationVersion(db, cfg.Database.Driver)
		if err != nil {
			return err
		}
		cmd.Printf("version %d (dirty: %t)\n", version, dirty)
		return nil
	},
}

func init() {
	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd, migrateVersionCmd)
	rootCmd.AddCommand(migrateCmd)
}
