package handlers

import (
	"brainer-platform/models"

	"github.com/gofiber/fiber/v2"
)

// signupRequest is the wire form of models.SignupRequest; Role selects the
// variant.
type signupRequest struct {
	Role          models.Role `json:"role"`
	Name          string      `json:"name"`
	Email         string      `json:"email"`
	SchoolID      string      `json:"school_id"`
	SchoolName    string      `json:"school_name"`
	ContactPerson string      `json:"contact_person"`
	StudentCount  int         `json:"student_count"`
	PromoCode     string      `json:"promo_code"`
}

func (r signupRequest) variant() (models.SignupRequest, bool) {
	switch r.Role {
	case models.RoleStudent, "":
		return models.StudentSignup{Name: r.Name, Email: r.Email, SchoolID: r.SchoolID}, true
	case models.RoleSchoolAdmin:
		return models.SchoolAdminSignup{
			SchoolName:    r.SchoolName,
			ContactPerson: r.ContactPerson,
			Email:         r.Email,
			StudentCount:  r.StudentCount,
			PromoCode:     r.PromoCode,
		}, true
	default:
		return nil, false
	}
}

func SetupAccountRoutes(app *fiber.App, d *Deps) {
	app.Post("/auth/signup", func(c *fiber.Ctx) error {
		var req signupRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "invalid JSON", err)
		}
		variant, ok := req.variant()
		if !ok {
			return badRequest(c, "unknown role", nil)
		}
		res, err := d.Accounts.Signup(c.UserContext(), variant)
		if err != nil {
			return respondError(c, err)
		}
		status := fiber.StatusCreated
		if res.Existing {
			status = fiber.StatusOK
		}
		return c.Status(status).JSON(res)
	})

	app.Post("/auth/login", func(c *fiber.Ctx) error {
		var req struct {
			Email string `json:"email"`
		}
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "invalid JSON", err)
		}
		u, err := d.Accounts.Login(c.UserContext(), req.Email)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(u)
	})

	// Used by the signup form to pick a school.
	app.Get("/auth/schools", func(c *fiber.Ctx) error {
		schools, err := d.Accounts.SearchSchools(c.UserContext(), c.Query("q"))
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(schools)
	})
}
