package app

import (
	"catatin/database"
	"catatin/live"
	"catatin/models"
	"catatin/pkg/transcriber"
	"catatin/services"
	"catatin/validator"
	"log/slog"
)

// App holds all application dependencies
// This struct is the central point for dependency injection
type App struct {
	Repo        *database.Repository
	Notes       *services.NoteService
	Tasks       *services.TaskService
	Ledger      *services.LedgerService
	Transcriber *transcriber.Transcriber
	Validator   *validator.Validator
	Logger      *slog.Logger
}

// New creates a new App instance with all dependencies. The three services
// share one write queue so mutations land in the order they were issued.
func New(repo *database.Repository, categories models.CategorySuggestions, tr *transcriber.Transcriber, logger *slog.Logger) *App {
	writes := services.NewQueue()
	changes := repo.Changes()
	watch := live.WithLogger(logger)

	return &App{
		Repo:        repo,
		Notes:       services.NewNoteService(repo, changes, writes, watch),
		Tasks:       services.NewTaskService(repo, changes, writes, watch),
		Ledger:      services.NewLedgerService(repo, changes, writes, categories, watch),
		Transcriber: tr,
		Validator:   validator.New(),
		Logger:      logger,
	}
}
