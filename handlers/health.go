package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/SanmishaTech/jssp-sub003/database"
	"github.com/SanmishaTech/jssp-sub003/utils/response"
)

// HandleCheckHealth reports API and database liveness
func HandleCheckHealth(store *database.GORMStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := store.HealthCheck(); err != nil {
			return response.Error(c, fiber.StatusServiceUnavailable, "Database is unreachable", "DB_UNAVAILABLE")
		}
		return response.SuccessWithMessage(c, "pong", fiber.Map{"status": "healthy"})
	}
}
