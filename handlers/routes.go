// handlers/routes.go
package handlers

import (
	"time"

	"brainer-platform/middleware"
	"brainer-platform/services"
	"brainer-platform/storage"

	"github.com/gofiber/fiber/v2"
)

// Deps bundles everything the HTTP layer talks to.
type Deps struct {
	Repo          storage.Repository
	Catalog       *storage.Catalog
	Accounts      *services.AccountService
	Registrations *services.RegistrationService
	Schools       *services.SchoolService
	Leaderboard   *services.LeaderboardService
	Coach         *services.CoachService
	Notifications *services.NotificationHub
	PollInterval  time.Duration
}

// SetupRoutes mounts the public routes at the root and the user-scoped ones
// under /s/ (X-User-ID required) and /s/school/ (school admins).
func SetupRoutes(app *fiber.App, d *Deps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		if err := d.Repo.Ping(c.UserContext()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "unavailable", "cause": err.Error()})
		}
		return c.JSON(fiber.Map{"status": "ok"})
	})

	SetupCatalogRoutes(app, d)
	SetupAccountRoutes(app, d)

	secured := app.Group("/s", middleware.UserContextMiddleware())
	SetupRegistrationRoutes(secured, d)
	SetupCoachRoutes(secured, d)
	SetupNotificationRoutes(app, secured, d)
	SetupSchoolRoutes(secured.Group("/school"), d)
}
