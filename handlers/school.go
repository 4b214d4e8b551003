package handlers

import (
	"brainer-platform/middleware"
	"brainer-platform/models"

	"github.com/gofiber/fiber/v2"
)

type bulkRequest struct {
	CompetitionID int      `json:"competition_id"`
	StudentIDs    []string `json:"student_ids"`
	DiscountCode  string   `json:"discount_code"`
}

func SetupSchoolRoutes(admin fiber.Router, d *Deps) {
	admin.Get("/dashboard", func(c *fiber.Ctx) error {
		dash, err := d.Schools.Dashboard(c.UserContext(), middleware.UserID(c))
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(dash)
	})

	decide := func(approve bool) fiber.Handler {
		return func(c *fiber.Ctx) error {
			u, err := d.Schools.DecideApproval(c.UserContext(), middleware.UserID(c), c.Params("id"), approve)
			if err != nil {
				return respondError(c, err)
			}
			return c.JSON(u)
		}
	}
	admin.Post("/students/:id/approve", decide(true))
	admin.Post("/students/:id/reject", decide(false))

	admin.Post("/plan", func(c *fiber.Ctx) error {
		var req struct {
			Plan models.SubscriptionPlan `json:"plan"`
		}
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "invalid JSON", err)
		}
		school, changed, err := d.Schools.UpgradePlan(c.UserContext(), middleware.UserID(c), req.Plan)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(fiber.Map{"school": school, "changed": changed})
	})

	admin.Post("/bulk/quote", func(c *fiber.Ctx) error {
		var req bulkRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "invalid JSON", err)
		}
		q, ids, err := d.Registrations.QuoteBulkRegistration(c.UserContext(), middleware.UserID(c), req.CompetitionID, req.StudentIDs, req.DiscountCode)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(fiber.Map{"quote": q, "student_ids": ids})
	})

	admin.Post("/bulk/checkout", func(c *fiber.Ctx) error {
		var req bulkRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "invalid JSON", err)
		}
		co, err := d.Registrations.StartBulkCheckout(c.UserContext(), middleware.UserID(c), req.CompetitionID, req.StudentIDs, req.DiscountCode)
		if err != nil {
			return respondError(c, err)
		}
		return c.Status(fiber.StatusAccepted).JSON(co)
	})

	admin.Post("/logo", func(c *fiber.Ctx) error {
		fh, err := c.FormFile("logo")
		if err != nil {
			return badRequest(c, "logo file is required", err)
		}
		f, err := fh.Open()
		if err != nil {
			return badRequest(c, "failed to open file", err)
		}
		defer f.Close()
		school, err := d.Schools.UploadLogo(c.UserContext(), middleware.UserID(c), fh.Filename, fh.Header.Get("Content-Type"), f)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(school)
	})
}
