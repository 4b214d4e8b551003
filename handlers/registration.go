package handlers

import (
	"brainer-platform/middleware"
	"brainer-platform/models"
	"brainer-platform/storage"

	"github.com/gofiber/fiber/v2"
)

type codeRequest struct {
	DiscountCode string `json:"discount_code"`
}

func SetupRegistrationRoutes(secured fiber.Router, d *Deps) {
	secured.Get("/me", func(c *fiber.Ctx) error {
		userID := middleware.UserID(c)
		u, err := d.Accounts.GetUser(c.UserContext(), userID)
		if err != nil {
			return respondError(c, err)
		}
		badges := make([]models.Badge, 0, len(u.Badges))
		for _, id := range u.Badges {
			if b, ok := models.BadgeByID(id); ok {
				badges = append(badges, b)
			}
		}
		resp := fiber.Map{"user": u, "badges": badges}
		if u.IsSchoolAffiliated() {
			if school, err := d.Repo.GetSchool(c.UserContext(), *u.SchoolID); err == nil {
				resp["school"] = school
			}
		}
		return c.JSON(resp)
	})

	secured.Post("/me/picture", func(c *fiber.Ctx) error {
		fh, err := c.FormFile("picture")
		if err != nil {
			return badRequest(c, "picture file is required", err)
		}
		f, err := fh.Open()
		if err != nil {
			return badRequest(c, "failed to open file", err)
		}
		defer f.Close()
		u, err := d.Accounts.UploadProfilePicture(c.UserContext(), middleware.UserID(c), fh.Filename, fh.Header.Get("Content-Type"), f)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(u)
	})

	secured.Get("/registrations", func(c *fiber.Ctx) error {
		mine, err := d.Registrations.ListForUser(c.UserContext(), middleware.UserID(c))
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(mine)
	})

	secured.Post("/competitions/:id/quote", func(c *fiber.Ctx) error {
		id, ok := paramInt(c, "id")
		if !ok {
			return badRequest(c, "invalid competition id", nil)
		}
		var req codeRequest
		if len(c.Body()) > 0 {
			if err := c.BodyParser(&req); err != nil {
				return badRequest(c, "invalid JSON", err)
			}
		}
		q, err := d.Registrations.QuoteRegistration(c.UserContext(), middleware.UserID(c), id, req.DiscountCode)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(q)
	})

	secured.Post("/competitions/:id/checkout", func(c *fiber.Ctx) error {
		id, ok := paramInt(c, "id")
		if !ok {
			return badRequest(c, "invalid competition id", nil)
		}
		var req codeRequest
		if len(c.Body()) > 0 {
			if err := c.BodyParser(&req); err != nil {
				return badRequest(c, "invalid JSON", err)
			}
		}
		co, err := d.Registrations.StartCheckout(c.UserContext(), middleware.UserID(c), id, req.DiscountCode)
		if err != nil {
			return respondError(c, err)
		}
		return c.Status(fiber.StatusAccepted).JSON(co)
	})

	secured.Get("/checkouts/:id", func(c *fiber.Ctx) error {
		co, err := d.Registrations.GetCheckout(c.Params("id"))
		if err != nil {
			return respondError(c, err)
		}
		if co.PayerID != middleware.UserID(c) {
			return respondError(c, storage.ErrNotFound)
		}
		return c.JSON(co)
	})

	secured.Post("/checkouts/:id/cancel", func(c *fiber.Ctx) error {
		co, err := d.Registrations.GetCheckout(c.Params("id"))
		if err != nil {
			return respondError(c, err)
		}
		if co.PayerID != middleware.UserID(c) {
			return respondError(c, storage.ErrNotFound)
		}
		co, err = d.Registrations.CancelCheckout(co.ID)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(co)
	})

	secured.Post("/courses/:id/enroll", func(c *fiber.Ctx) error {
		id, ok := paramInt(c, "id")
		if !ok {
			return badRequest(c, "invalid course id", nil)
		}
		res, progress, err := d.Registrations.Enroll(c.UserContext(), middleware.UserID(c), id)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(fiber.Map{"enrollment": res, "progress": progress})
	})
}
