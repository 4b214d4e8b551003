package handlers

import (
	"strconv"

	"brainer-platform/models"

	"github.com/gofiber/fiber/v2"
)

func SetupCatalogRoutes(app *fiber.App, d *Deps) {
	app.Get("/competitions", func(c *fiber.Ctx) error {
		category := c.Query("category")
		out := make([]models.Competition, 0, len(d.Catalog.Competitions))
		for _, comp := range d.Catalog.Competitions {
			if category != "" && comp.Category != category {
				continue
			}
			out = append(out, comp)
		}
		return c.JSON(out)
	})

	// :ref is either the numeric id or the slug.
	app.Get("/competitions/:ref", func(c *fiber.Ctx) error {
		ref := c.Params("ref")
		var (
			comp *models.Competition
			err  error
		)
		if id, convErr := strconv.Atoi(ref); convErr == nil {
			comp, err = d.Catalog.Competition(id)
		} else {
			comp, err = d.Catalog.CompetitionBySlug(ref)
		}
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(comp)
	})

	app.Get("/courses", func(c *fiber.Ctx) error {
		return c.JSON(d.Catalog.Courses)
	})

	app.Get("/courses/:ref", func(c *fiber.Ctx) error {
		ref := c.Params("ref")
		var (
			course *models.Course
			err    error
		)
		if id, convErr := strconv.Atoi(ref); convErr == nil {
			course, err = d.Catalog.Course(id)
		} else {
			course, err = d.Catalog.CourseBySlug(ref)
		}
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(course)
	})

	app.Get("/badges", func(c *fiber.Ctx) error {
		return c.JSON(models.Badges)
	})

	app.Get("/leaderboard", func(c *fiber.Ctx) error {
		limit := c.QueryInt("limit", 50)
		if limit <= 0 || limit > 100 {
			limit = 50
		}
		entries, err := d.Leaderboard.Top(c.UserContext(), c.Query("school_id"), limit)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(entries)
	})
}
