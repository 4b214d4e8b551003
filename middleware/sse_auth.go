// middleware/sse_auth.go
package middleware

import (
	"context"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// UserLookup reports whether a user id exists.
type UserLookup func(ctx context.Context, userID string) error

// SSEUserMiddleware identifies EventSource clients, which cannot set custom
// headers, from the user_id query parameter. X-User-ID still wins when present.
//
// Usage:
//
//	app.Get("/notifications/stream", middleware.SSEUserMiddleware(lookup), handler)
func SSEUserMiddleware(lookup UserLookup) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := c.Get("X-User-ID")
		if userID == "" {
			userID = strings.TrimSpace(c.Query("user_id"))
		}
		if userID == "" {
			log.Printf("❌ [SSEAuth] Missing user_id for %s", c.Path())
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Missing user_id in query",
			})
		}

		if err := lookup(c.UserContext(), userID); err != nil {
			log.Printf("❌ [SSEAuth] Unknown user %s: %v", userID, err)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Unauthorized",
			})
		}

		c.Locals("user_id", userID)
		return c.Next()
	}
}
