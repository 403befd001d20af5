package middleware

import (
	"context"

	"github.com/gofiber/fiber/v2"
)

// BaseContext makes ctx the user context of every request, so handlers
// that outlive their request (event streams) end when ctx is cancelled.
func BaseContext(ctx context.Context) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.SetUserContext(ctx)
		return c.Next()
	}
}
