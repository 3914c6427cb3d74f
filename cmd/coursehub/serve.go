package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/coursehub/backend/internal/auth/middleware"
	"github.com/coursehub/backend/internal/auth/service"
	"github.com/coursehub/backend/internal/certificates"
	"github.com/coursehub/backend/internal/config"
	"github.com/coursehub/backend/internal/database"
	"github.com/coursehub/backend/internal/handlers"
	"github.com/coursehub/backend/internal/logger"
	loggerMiddleware "github.com/coursehub/backend/internal/logger/middleware"
	"github.com/coursehub/backend/internal/middlewares"
	"github.com/coursehub/backend/internal/notifier"
	"github.com/coursehub/backend/internal/repositories"
	"github.com/coursehub/backend/internal/services"
	"github.com/coursehub/backend/internal/storage"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	"github.com/spf13/cobra"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"
)

const maxRequestSize = 10 * 1024 * 1024 // 10MB

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, db, err := bootstrap()
		if err != nil {
			return err
		}
		defer logger.Sync()
		defer db.Close()

		logger.Logger.Info("Starting CourseHub API")

		if err := database.RunMigrations(db, cfg.Database.Driver); err != nil {
			logger.Logger.Error("Failed to run migrations", zap.Error(err))
			return err
		}

		// Initialize JWT token generator
		tokenGenerator := service.NewTokenGenerator(
			cfg.JWT.Secret,
			cfg.JWT.AccessTokenExpiry,
			cfg.JWT.RefreshTokenExpiry,
		)

		// Initialize repositories
		userRepo := repositories.NewUserRepository(db, logger.Logger)
		courseRepo := repositories.NewCourseRepository(db)
		moduleRepo := repositories.NewModuleRepository(db)
		lessonRepo := repositories.NewLessonRepository(db)
		enrollmentRepo := repositories.NewEnrollmentRepository(db)
		progressRepo := repositories.NewProgressRepository(db)
		certificateRepo := repositories.NewCertificateRepository(db)
		txManager := repositories.NewTxManager(db)

		// Initialize services
		renderer, fileStorage, certNotifier := certificateDeps(cfg)
		certificateService := services.NewCertificateService(certificateRepo, renderer, fileStorage, certNotifier, cfg.Media.BasePath, logger.Logger)
		defer certificateService.Wait()

		authService := services.NewAuthService(userRepo, tokenGenerator, services.SystemClock, logger.Logger)
		userService := services.NewUserService(userRepo)
		courseService := services.NewCourseService(courseRepo, moduleRepo, lessonRepo, enrollmentRepo, progressRepo, services.SystemClock)
		moduleService := services.NewModuleService(courseRepo, moduleRepo, lessonRepo, enrollmentRepo, progressRepo)
		lessonService := services.NewLessonService(courseRepo, lessonRepo, enrollmentRepo, progressRepo)
		enrollmentService := services.NewEnrollmentService(
			courseRepo,
			enrollmentRepo,
			progressRepo,
			certificateRepo,
			txManager,
			certificateService,
			services.SystemClock,
			logger.Logger,
		)

		// Initialize handlers
		authHandler := handlers.NewAuthHandler(authService, cfg.JWT.AccessTokenExpiry, cfg.JWT.RefreshTokenExpiry, logger.Logger)
		userHandler := handlers.NewUserHandler(userService, logger.Logger)
		courseHandler := handlers.NewCourseHandler(courseService, moduleService, enrollmentService, logger.Logger)
		moduleHandler := handlers.NewModuleHandler(moduleService, lessonService, logger.Logger)
		lessonHandler := handlers.NewLessonHandler(lessonService, enrollmentService, logger.Logger)
		certificateHandler := handlers.NewCertificateHandler(certificateService, logger.Logger)

		authMiddleware := middleware.AuthMiddleware(tokenGenerator)

		r := chi.NewRouter()

		// Apply middleware
		r.Use(middlewares.RequestIDMiddleware)
		r.Use(loggerMiddleware.LoggerMiddleware(logger.Logger))
		r.Use(middlewares.RecoveryMiddleware(logger.Logger))
		r.Use(middlewares.CORSMiddleware(cfg.CORS.AllowedOrigins))
		r.Use(httprate.LimitByIP(cfg.Server.RateLimitPerMinute, time.Minute))
		r.Use(middlewares.RequestSizeLimitMiddleware(maxRequestSize))

		// Swagger documentation
		r.Get("/swagger/*", httpSwagger.Handler(
			httpSwagger.URL(fmt.Sprintf("http://localhost:%d/swagger/doc.json", cfg.Server.Port)),
		))

		r.Route("/api/v1", func(r chi.Router) {
			authHandler.RegisterRoutes(r)
			userHandler.RegisterRoutes(r, authMiddleware)
			courseHandler.RegisterRoutes(r, authMiddleware)
			moduleHandler.RegisterRoutes(r, authMiddleware)
			lessonHandler.RegisterRoutes(r, authMiddleware)
			certificateHandler.RegisterRoutes(r, authMiddleware)
		})

		srv := &http.Server{
			Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
			Handler:      r,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		serverErr := make(chan error, 1)
		go func() {
			logger.Logger.Info("Server starting", zap.Int("port", cfg.Server.Port))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				serverErr <- err
			}
			close(serverErr)
		}()

		select {
		case err := <-serverErr:
			if err != nil {
				logger.Logger.Error("Server failed to start", zap.Error(err))
				return err
			}
		case <-ctx.Done():
		}

		logger.Logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Logger.Error("Server forced to shutdown", zap.Error(err))
		}

		logger.Logger.Info("Server exited")
		return nil
	},
}

// certificateDeps builds the certificate renderer, storage and notifier
func certificateDeps(cfg *config.Config) (services.CertificateRenderer, services.Storage, services.Notifier) {
	renderer, err := certificates.NewRenderer(cfg.Certificate.FontPath)
	if renderer.UsesFallbackFont() {
		logger.Logger.Warn("Using built-in certificate font",
			zap.String("font_path", cfg.Certificate.FontPath),
			zap.Error(err),
		)
	}

	var n services.Notifier = notifier.NewNoopNotifier()
	if cfg.SMTP.Host != "" {
		n = notifier.NewMailNotifier(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password, cfg.SMTP.From)
	}

	return renderer, storage.NewLocalStorage(cfg.Media.BasePath), n
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
