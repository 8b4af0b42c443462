package app

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/treyzar/lotto-advisor/internal/config"
	"github.com/treyzar/lotto-advisor/internal/database"
	"github.com/treyzar/lotto-advisor/internal/handlers"
	"github.com/treyzar/lotto-advisor/internal/middleware"
	"github.com/treyzar/lotto-advisor/internal/services"
)

type App struct {
	config   *config.Config
	logger   *logrus.Logger
	db       *database.Database
	services *services.Services
	handlers *handlers.Handlers
	router   *gin.Engine
}

func New(cfg *config.Config) (*App, error) {
	app := &App{
		config: cfg,
		logger: setupLogger(cfg),
	}

	db, err := database.New(cfg, app.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	services, err := services.New(cfg, app.logger, db)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}
	app.services = services

	app.handlers, err = handlers.New(app.logger, services)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize handlers: %w", err)
	}

	app.setupRouter()

	return app, nil
}

func (a *App) Router() *gin.Engine {
	return a.router
}

func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("Shutting down application...")

	if err := a.services.MessageBus.Close(); err != nil {
		a.logger.WithError(err).Error("Error closing message bus")
	}

	if err := a.db.Close(); err != nil {
		a.logger.WithError(err).Error("Error closing database connections")
		return err
	}

	return nil
}

func setupLogger(cfg *config.Config) *logrus.Logger {
	logger := logrus.New()

	level, err := logrus.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	if cfg.Logging.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	return logger
}

func (a *App) setupRouter() {
	if a.config.Server.Mode == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(middleware.Logger(a.logger))
	router.Use(middleware.Recovery(a.logger))
	router.Use(middleware.CORS(a.config))

	// Health check endpoint
	router.GET("/health", a.handlers.Health.Check)

	// Prometheus metrics endpoint
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API routes
	api := router.Group("/api/v1")
	{
		api.Use(middleware.RateLimit(
			a.db.Redis.Hot,
			a.config.Security.RateLimit.RequestsPerMinute,
			time.Minute,
			a.logger,
		))

		// Catalog routes
		api.GET("/catalog", a.handlers.Catalog.Get)

		// Scoring endpoint
		api.POST("/best_of", a.handlers.Recommendation.BestOf)

		// Questionnaire session routes
		sessions := api.Group("/sessions")
		{
			sessions.POST("", a.handlers.Session.Create)
			sessions.GET("/:id", a.handlers.Session.Get)
			sessions.POST("/:id/answers", a.handlers.Session.Answer)
			sessions.POST("/:id/advance", a.handlers.Session.Advance)
			sessions.POST("/:id/retreat", a.handlers.Session.Retreat)
			sessions.GET("/:id/history", a.handlers.Session.History)
		}

		// Recommendation routes
		recommendations := api.Group("/recommendations")
		{
			recommendations.POST("", a.handlers.Recommendation.Shortlist)
			recommendations.POST("/final", a.handlers.Recommendation.Final)
		}
	}

	a.router = router
}
