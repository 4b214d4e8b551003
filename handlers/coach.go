package handlers

import (
	"brainer-platform/models"

	"github.com/gofiber/fiber/v2"
)

func SetupCoachRoutes(secured fiber.Router, d *Deps) {
	secured.Post("/coach/study-tips", func(c *fiber.Ctx) error {
		var req struct {
			CompetitionID int `json:"competition_id"`
		}
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "invalid JSON", err)
		}
		comp, err := d.Catalog.Competition(req.CompetitionID)
		if err != nil {
			return respondError(c, err)
		}
		text := d.Coach.StudyTips(c.UserContext(), comp.Title, comp.Category)
		return c.JSON(models.Message{Sender: models.SenderAI, Text: text})
	})

	secured.Post("/coach/course-help", func(c *fiber.Ctx) error {
		var req struct {
			CourseID     int              `json:"course_id"`
			Conversation []models.Message `json:"conversation"`
		}
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "invalid JSON", err)
		}
		course, err := d.Catalog.Course(req.CourseID)
		if err != nil {
			return respondError(c, err)
		}
		if len(req.Conversation) == 0 {
			return badRequest(c, "conversation must not be empty", nil)
		}
		text := d.Coach.CourseHelp(c.UserContext(), course, req.Conversation)
		return c.JSON(models.Message{Sender: models.SenderAI, Text: text})
	})
}
