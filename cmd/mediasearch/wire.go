package main

import (
	"database/sql"
	"fmt"
	"os"

	"github.com/tagvault/mediasearch/internal/config"
	"github.com/tagvault/mediasearch/internal/database"
	"github.com/tagvault/mediasearch/internal/handlers"
	"github.com/tagvault/mediasearch/internal/logger"
	"github.com/tagvault/mediasearch/internal/repositories"
	"github.com/tagvault/mediasearch/internal/services"
	"go.uber.org/zap"
)

// components holds the services shared by the shell and the HTTP API
type components struct {
	auth     handlers.AuthService
	search   handlers.SearchService
	history  handlers.HistoryService
	ratings  handlers.RatingService
	activity handlers.ActivityService
}

// setup loads configuration and initializes the shared logger.
// defaultLevel applies when neither --log-level nor LOG_LEVEL is set.
func setup(defaultLevel string) (*config.Config, error) {
	cfg, err := config.Load(envFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	level := logLevel
	if level == "" {
		level = cfg.Logging.Level
		if os.Getenv("LOG_LEVEL") == "" {
			level = defaultLevel
		}
	}
	if err := logger.Init(level); err != nil {
		return nil, err
	}

	return cfg, nil
}

// openStore connects to MySQL and applies pending migrations
func openStore(cfg *config.Config, maxOpenConns int) (*sql.DB, error) {
	db, err := database.Connect(cfg.DSN(), maxOpenConns)
	if err != nil {
		logger.Logger.Error("failed to connect to database", zap.Error(err),
			zap.String("host", cfg.Database.Host), zap.String("database", cfg.Database.DBName))
		return nil, fmt.Errorf("failed to connect to MySQL: %w", err)
	}

	if err := database.RunMigrations(db, cfg.MigrationsPath); err != nil {
		db.Close()
		logger.Logger.Error("failed to run migrations", zap.Error(err))
		return nil, err
	}
	logger.Logger.Debug("migrations applied")

	return db, nil
}

// buildComponents wires repositories into services
func buildComponents(db *sql.DB, cfg *config.Config, log *zap.Logger) components {
	tagRepo := repositories.NewTagRepository(db, log)
	mediaRepo := repositories.NewMediaRepository(db, log)
	ratingRepo := repositories.NewRatingRepository(db, log)
	historyRepo := repositories.NewViewHistoryRepository(db, log)
	userRepo := repositories.NewUserRepository(db, log)

	ratings := services.NewRatingService(ratingRepo, log)
	activity := services.NewActivityService(historyRepo, ratingRepo, log)
	search := services.NewSearchService(
		services.NewTagService(tagRepo, log),
		services.NewMediaService(mediaRepo, cfg.MediaRootPath, log),
		ratings,
		activity,
		log,
	)

	return components{
		auth:     services.NewAuthService(userRepo, log),
		search:   search,
		history:  services.NewHistoryService(historyRepo, mediaRepo, log),
		ratings:  ratings,
		activity: activity,
	}
}
