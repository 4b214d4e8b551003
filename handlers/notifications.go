package handlers

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"brainer-platform/middleware"

	"github.com/gofiber/fiber/v2"
)

func SetupNotificationRoutes(app *fiber.App, secured fiber.Router, d *Deps) {
	secured.Get("/notifications", func(c *fiber.Ctx) error {
		after := int64(c.QueryInt("after", 0))
		return c.JSON(d.Notifications.Since(middleware.UserID(c), after))
	})

	lookup := func(ctx context.Context, userID string) error {
		_, err := d.Repo.GetUser(ctx, userID)
		return err
	}
	app.Get("/notifications/stream", middleware.SSEUserMiddleware(lookup), func(c *fiber.Ctx) error {
		return streamNotifications(c, d)
	})
}

// streamNotifications pushes the caller's new notifications as SSE events,
// polling the hub with a sequence cursor.
func streamNotifications(c *fiber.Ctx, d *Deps) error {
	userID := middleware.UserID(c)
	interval := d.PollInterval
	if interval <= 0 {
		interval = 2 * time.Second
	}
	cursor := int64(c.QueryInt("after", -1))
	if cursor < 0 {
		cursor = d.Notifications.Latest(userID)
	}

	c.Set("Content-Type", "text/event-stream")
	c.Set("Cache-Control", "no-cache")
	c.Set("Connection", "keep-alive")
	c.Set("X-Accel-Buffering", "no") // nginx

	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		w.WriteString(":\n\n")
		if err := w.Flush(); err != nil {
			return
		}

		for range ticker.C {
			batch := d.Notifications.Since(userID, cursor)
			if len(batch) == 0 {
				// Keepalive so disconnects surface as flush errors.
				w.WriteString(":\n\n")
			}
			for _, n := range batch {
				payload, _ := json.Marshal(n)
				fmt.Fprintf(w, "id: %d\nevent: %s\ndata: %s\n\n", n.Seq, n.Kind, payload)
				cursor = n.Seq
			}
			if err := w.Flush(); err != nil {
				// Client disconnected
				return
			}
		}
	})
	return nil
}
