package handlers

import (
	"catatin/app"
	"catatin/database"
	"catatin/live"
	"catatin/models"
	"catatin/services"
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// ListNotes returns every note, or only voice notes with ?voice=1
func ListNotes(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		filter := database.NoteFilter{VoiceOnly: c.QueryBool("voice", false)}

		notes, err := a.Notes.List(c.UserContext(), filter)
		if err != nil {
			return serverErrorWithDetails(c, "Failed to fetch notes", err)
		}

		return success(c, fiber.Map{"notes": notes})
	}
}

// GetNote retrieves a single note
func GetNote(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := paramID(c)
		if err != nil {
			return err
		}

		note, err := a.Notes.Get(c.UserContext(), id)
		if errors.Is(err, services.ErrNoteNotFound) {
			return notFound(c, "Note not found")
		}
		if err != nil {
			return serverErrorWithDetails(c, "Failed to fetch note", err)
		}

		return success(c, fiber.Map{"note": note})
	}
}

// CreateNote stores a new note stamped with the current time
func CreateNote(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req models.CreateNoteRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "Invalid request body")
		}
		if err := a.Validator.Validate(req); err != nil {
			return validationFailed(c, err)
		}

		note, err := a.Notes.Create(c.UserContext(), models.Note{
			Title:     strings.TrimSpace(req.Title),
			Body:      req.Body,
			CreatedAt: stamp(),
			IsVoice:   req.IsVoice,
		}).Wait(c.UserContext())
		if err != nil {
			return serverErrorWithDetails(c, "Failed to save note", err)
		}

		return created(c, fiber.Map{"note": note})
	}
}

// UpdateNote replaces title and body; the voice flag and creation time are kept
func UpdateNote(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := paramID(c)
		if err != nil {
			return err
		}

		var req models.UpdateNoteRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "Invalid request body")
		}
		if err := a.Validator.Validate(req); err != nil {
			return validationFailed(c, err)
		}

		existing, err := a.Notes.Get(c.UserContext(), id)
		if errors.Is(err, services.ErrNoteNotFound) {
			return notFound(c, "Note not found")
		}
		if err != nil {
			return serverErrorWithDetails(c, "Failed to fetch note", err)
		}

		existing.Title = strings.TrimSpace(req.Title)
		existing.Body = req.Body

		note, err := a.Notes.Update(c.UserContext(), *existing).Wait(c.UserContext())
		if errors.Is(err, services.ErrNoteNotFound) {
			return notFound(c, "Note not found")
		}
		if err != nil {
			return serverErrorWithDetails(c, "Failed to update note", err)
		}

		return success(c, fiber.Map{"note": note})
	}
}

// DeleteNote removes a note; deleting a missing note still succeeds
func DeleteNote(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := paramID(c)
		if err != nil {
			return err
		}

		if _, err := a.Notes.Delete(c.UserContext(), id).Wait(c.UserContext()); err != nil {
			return serverErrorWithDetails(c, "Failed to delete note", err)
		}

		return success(c, fiber.Map{"message": "Note deleted successfully"})
	}
}

// StreamNotes serves the live note list as server-sent events
func StreamNotes(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		filter := database.NoteFilter{VoiceOnly: c.QueryBool("voice", false)}
		return streamSnapshots(c, func(ctx context.Context) (*live.Subscription[[]models.Note], error) {
			return a.Notes.Watch(ctx, filter)
		})
	}
}

// StreamNote serves one note as server-sent events; the snapshot is null
// while the note does not exist.
func StreamNote(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := paramID(c)
		if err != nil {
			return err
		}
		return streamSnapshots(c, func(ctx context.Context) (*live.Subscription[*models.Note], error) {
			return a.Notes.WatchNote(ctx, id)
		})
	}
}
