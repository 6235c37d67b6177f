package handlers

import (
	"katalog/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// validationFailed writes the 400 body shared by every endpoint that validates input.
func validationFailed(c *fiber.Ctx, violations validation.Violations) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": "Validation failed",
		"errors":  violations,
	})
}

func badRequest(c *fiber.Ctx, message string, err error) error {
	body := fiber.Map{"message": message}
	if err != nil {
		body["error"] = err.Error()
	}
	return c.Status(fiber.StatusBadRequest).JSON(body)
}
