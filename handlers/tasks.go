package handlers

import (
	"catatin/app"
	"catatin/live"
	"catatin/models"
	"catatin/services"
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
)

func parseStatus(s string) (models.TaskStatus, error) {
	switch status := models.TaskStatus(strings.ToLower(s)); status {
	case models.TaskStatusAll, models.TaskStatusActive, models.TaskStatusCompleted:
		return status, nil
	default:
		return "", fiber.NewError(fiber.StatusBadRequest, "status must be active or completed")
	}
}

// priorityOrDefault decodes an already validated priority; empty means NORMAL.
func priorityOrDefault(s string) models.Priority {
	if s == "" {
		return models.PriorityNormal
	}
	p, _ := models.ParsePriority(s)
	return p
}

// ListTasks returns tasks, optionally only ?status=active or ?status=completed
func ListTasks(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		status, err := parseStatus(c.Query("status"))
		if err != nil {
			return err
		}

		tasks, err := a.Tasks.List(c.UserContext(), status)
		if err != nil {
			return serverErrorWithDetails(c, "Failed to fetch tasks", err)
		}

		return success(c, fiber.Map{"tasks": tasks})
	}
}

func GetTask(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := paramID(c)
		if err != nil {
			return err
		}

		task, err := a.Tasks.Get(c.UserContext(), id)
		if errors.Is(err, services.ErrTaskNotFound) {
			return notFound(c, "Task not found")
		}
		if err != nil {
			return serverErrorWithDetails(c, "Failed to fetch task", err)
		}

		return success(c, fiber.Map{"task": task})
	}
}

func CreateTask(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req models.CreateTaskRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "Invalid request body")
		}
		if err := a.Validator.Validate(req); err != nil {
			return validationFailed(c, err)
		}

		task, err := a.Tasks.Create(c.UserContext(), models.Task{
			Title:       strings.TrimSpace(req.Title),
			Description: req.Description,
			CreatedAt:   stamp(),
			DueAt:       req.DueAt,
			Priority:    priorityOrDefault(req.Priority),
		}).Wait(c.UserContext())
		if err != nil {
			return serverErrorWithDetails(c, "Failed to save task", err)
		}

		return created(c, fiber.Map{"task": task})
	}
}

// UpdateTask replaces every field except the creation time
func UpdateTask(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := paramID(c)
		if err != nil {
			return err
		}

		var req models.UpdateTaskRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "Invalid request body")
		}
		if err := a.Validator.Validate(req); err != nil {
			return validationFailed(c, err)
		}

		if _, err := a.Tasks.Update(c.UserContext(), models.Task{
			ID:          id,
			Title:       strings.TrimSpace(req.Title),
			Description: req.Description,
			Completed:   req.Completed,
			DueAt:       req.DueAt,
			Priority:    priorityOrDefault(req.Priority),
		}).Wait(c.UserContext()); err != nil {
			if errors.Is(err, services.ErrTaskNotFound) {
				return notFound(c, "Task not found")
			}
			return serverErrorWithDetails(c, "Failed to update task", err)
		}

		task, err := a.Tasks.Get(c.UserContext(), id)
		if err != nil {
			return serverErrorWithDetails(c, "Failed to fetch task", err)
		}

		return success(c, fiber.Map{"task": task})
	}
}

// SetTaskCompleted toggles only the completion flag
func SetTaskCompleted(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := paramID(c)
		if err != nil {
			return err
		}

		var req models.SetCompletedRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "Invalid request body")
		}

		if _, err := a.Tasks.SetCompleted(c.UserContext(), id, req.Completed).Wait(c.UserContext()); err != nil {
			if errors.Is(err, services.ErrTaskNotFound) {
				return notFound(c, "Task not found")
			}
			return serverErrorWithDetails(c, "Failed to update task status", err)
		}

		return success(c, fiber.Map{"id": id, "completed": req.Completed})
	}
}

func DeleteTask(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := paramID(c)
		if err != nil {
			return err
		}

		if _, err := a.Tasks.Delete(c.UserContext(), id).Wait(c.UserContext()); err != nil {
			return serverErrorWithDetails(c, "Failed to delete task", err)
		}

		return success(c, fiber.Map{"message": "Task deleted successfully"})
	}
}

func StreamTasks(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		status, err := parseStatus(c.Query("status"))
		if err != nil {
			return err
		}
		return streamSnapshots(c, func(ctx context.Context) (*live.Subscription[[]models.Task], error) {
			return a.Tasks.Watch(ctx, status)
		})
	}
}

func StreamTask(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := paramID(c)
		if err != nil {
			return err
		}
		return streamSnapshots(c, func(ctx context.Context) (*live.Subscription[*models.Task], error) {
			return a.Tasks.WatchTask(ctx, id)
		})
	}
}
