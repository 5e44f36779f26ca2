package middleware

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/SanmishaTech/jssp-sub003/model"
)

// AdminAuditLog records an audit trail row for an admin mutation.
// Must run after RequireAdmin so the acting user is in context.
func AdminAuditLog(db *gorm.DB, action, resource string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, ok := GetUser(c)
		if !ok {
			return c.Next() // continue without logging if user not found
		}

		// Parse resource ID from params if available
		var resourceID uint
		if id := c.Params("id"); id != "" {
			if parsedID, err := strconv.ParseUint(id, 10, 32); err == nil {
				resourceID = uint(parsedID)
			}
		}

		// Execute the actual handler
		err := c.Next()

		// Only log mutations that did not fail outright
		if err != nil {
			return err
		}

		auditLog := model.AdminAuditLog{
			AdminID:     user.ID,
			Action:      action,
			Resource:    resource,
			ResourceID:  resourceID,
			IPAddress:   c.IP(),
			Description: c.Method() + " " + c.Path(),
		}
		db.Create(&auditLog)

		return nil
	}
}
