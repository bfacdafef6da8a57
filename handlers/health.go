package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/sahilchouksey/lms-api/utils/response"
)

// HealthCheck handles GET /health
func HealthCheck(c *fiber.Ctx) error {
	return response.Success(c, "OK", fiber.Map{
		"status": "healthy",
	})
}
