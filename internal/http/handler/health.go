package handler

import (
	"database/sql"
	"time"

	"github.com/gofiber/fiber/v2"

	"agentmail/internal/database"
)

// HealthCheck checks database connectivity and reports connection pool usage.
//
// @Summary  Readiness check
// @Tags     health
// @Produce  json
// @Success  200 {object} map[string]interface{}
// @Failure  503 {object} errorPayload
// @Router   /health [get]
func HealthCheck(db *sql.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		pool, err := database.Check(c.UserContext(), db, 2*time.Second)
		if err != nil {
			return writeError(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "dependency unavailable")
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "healthy", "database": pool})
	}
}

// LivenessProbe is the dependency-free liveness endpoint.
func LivenessProbe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}
}
