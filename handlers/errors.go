package handlers

import (
	"errors"
	"log"
	"strconv"

	"brainer-platform/services"
	"brainer-platform/storage"

	"github.com/gofiber/fiber/v2"
)

// respondError maps service errors to HTTP statuses.
func respondError(c *fiber.Ctx, err error) error {
	var ve *services.ValidationError
	switch {
	case errors.As(err, &ve):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error": ve.Message,
			"field": ve.Field,
		})
	case errors.Is(err, storage.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not found", "cause": err.Error()})
	case errors.Is(err, services.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "forbidden", "cause": err.Error()})
	case errors.Is(err, services.ErrCheckoutSettled), errors.Is(err, storage.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "conflict", "cause": err.Error()})
	default:
		log.Printf("❌ [HTTP] %s %s: %v", c.Method(), c.Path(), err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal error", "cause": err.Error()})
	}
}

func badRequest(c *fiber.Ctx, msg string, err error) error {
	body := fiber.Map{"error": msg}
	if err != nil {
		body["cause"] = err.Error()
	}
	return c.Status(fiber.StatusBadRequest).JSON(body)
}

func paramInt(c *fiber.Ctx, name string) (int, bool) {
	n, err := strconv.Atoi(c.Params(name))
	return n, err == nil
}
