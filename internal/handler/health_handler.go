package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

func RegisterHealthRoutes(app fiber.Router) {
	app.Get("/health", HealthHandler(time.Now))
}

func HealthHandler(now func() time.Time) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status":    "ok",
			"timestamp": now().UTC().Format(time.RFC3339Nano),
		})
	}
}
