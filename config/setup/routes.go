package setup

import (
	"catatin/app"
	"catatin/handlers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RegisterRoutes registers all application routes
func RegisterRoutes(fiberApp *fiber.App, application *app.App) {
	fiberApp.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "transcriber": application.Transcriber.Engine()})
	})
	fiberApp.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := fiberApp.Group("/api")

	notes := api.Group("/notes")
	notes.Get("/", handlers.ListNotes(application))
	notes.Get("/stream", handlers.StreamNotes(application))
	notes.Get("/:id", handlers.GetNote(application))
	notes.Get("/:id/stream", handlers.StreamNote(application))
	notes.Post("/", handlers.CreateNote(application))
	notes.Put("/:id", handlers.UpdateNote(application))
	notes.Delete("/:id", handlers.DeleteNote(application))

	tasks := api.Group("/tasks")
	tasks.Get("/", handlers.ListTasks(application))
	tasks.Get("/stream", handlers.StreamTasks(application))
	tasks.Get("/:id", handlers.GetTask(application))
	tasks.Get("/:id/stream", handlers.StreamTask(application))
	tasks.Post("/", handlers.CreateTask(application))
	tasks.Put("/:id", handlers.UpdateTask(application))
	tasks.Patch("/:id/completed", handlers.SetTaskCompleted(application))
	tasks.Delete("/:id", handlers.DeleteTask(application))

	ledger := api.Group("/ledger")
	ledger.Get("/", handlers.ListLedgerEntries(application))
	ledger.Get("/stream", handlers.StreamLedger(application))
	ledger.Get("/summary", handlers.LedgerSummary(application))
	ledger.Get("/summary/stream", handlers.StreamLedgerSummary(application))
	ledger.Get("/categories", handlers.LedgerCategories(application))
	ledger.Get("/totals", handlers.LedgerCategoryTotals(application))
	ledger.Get("/totals/stream", handlers.StreamLedgerCategoryTotals(application))
	ledger.Get("/:id", handlers.GetLedgerEntry(application))
	ledger.Get("/:id/stream", handlers.StreamLedgerEntry(application))
	ledger.Post("/", handlers.CreateLedgerEntry(application))
	ledger.Put("/:id", handlers.UpdateLedgerEntry(application))
	ledger.Delete("/:id", handlers.DeleteLedgerEntry(application))

	api.Post("/voice/transcribe", handlers.TranscribeAudio(application))
}
