package setup

import (
	"catatin/app"
	"catatin/config"
	"catatin/database"
	"catatin/pkg/transcriber"
	"fmt"
	"log/slog"
)

// InitDatabase opens the store and brings the schema up to date
func InitDatabase(driver, dbPath string, logger *slog.Logger) (*database.DB, error) {
	db, err := database.New(driver, dbPath)
	if err != nil {
		return nil, err
	}

	if err := db.Migrate(); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("database initialized", "path", dbPath, "driver", driver)
	return db, nil
}

// TranscriberConfig maps the speech settings onto the transcriber
func TranscriberConfig(cfg *config.Config) transcriber.Config {
	return transcriber.Config{
		Provider: cfg.SpeechProvider,
		APIKey:   cfg.SpeechAPIKey,
		APIURL:   cfg.SpeechAPIURL,
		Language: cfg.SpeechLanguage,
	}
}

// InitApp initializes the application with all dependencies
func InitApp(cfg *config.Config, db *database.DB, logger *slog.Logger) (*app.App, error) {
	repo := database.NewRepository(db)

	categories, err := config.LoadCategories(cfg.CategoriesFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load categories: %w", err)
	}

	tr := transcriber.New(TranscriberConfig(cfg))
	logger.Info("transcriber configured", "engine", tr.Engine())

	application := app.New(repo, categories, tr, logger)
	logger.Info("application initialized")

	return application, nil
}

// Shutdown releases what InitDatabase opened
func Shutdown(db *database.DB, logger *slog.Logger) {
	logger.Info("shutting down services...")

	if db != nil {
		if err := db.Close(); err != nil {
			logger.Error("failed to close database", "error", err)
			return
		}
		logger.Info("database closed")
	}
}
