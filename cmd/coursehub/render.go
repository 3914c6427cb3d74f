package main

import (
	"github.com/coursehub/backend/internal/database"
	"github.com/coursehub/backend/internal/logger"
	"github.com/coursehub/backend/internal/repositories"
	"github.com/coursehub/backend/internal/services"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var renderCertificatesCmd = &cobra.Command{
	Use:   "render-certificates",
	Short: "Render certificate images that are missing a stored file",
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

		renderer, fileStorage, certNotifier := certificateDeps(cfg)
		certService := services.NewCertificateService(
			repositories.NewCertificateRepository(db),
			renderer,
			fileStorage,
			certNotifier,
			cfg.Media.BasePath,
			logger.Logger,
		)
		rendered, err := certService.RenderMissing(cmd.Context())
		logger.Logger.Info("Certificates rendered", zap.Int("count", rendered))
		return err
	},
}

func init() {
	rootCmd.AddCommand(renderCertificatesCmd)
}
