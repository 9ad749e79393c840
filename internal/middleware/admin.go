package middleware

import (
	"github.com/aleynaerrsln/meeting-management-system/internal/dto"
	"github.com/gofiber/fiber/v2"
)

// AdminOnly rejects authenticated users whose role is not admin.
func AdminOnly() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := CurrentUser(c)
		if user == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Message: "Not authorized"})
		}
		if !user.IsAdmin() {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Message: "Admin access required"})
		}
		return c.Next()
	}
}
