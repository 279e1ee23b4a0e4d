package handlers

import (
	"strings"

	"bizdir/internal/log"
	"bizdir/internal/services"

	"github.com/gofiber/fiber/v2"
)

// RequireToken gates mutating routes behind a verified token. The token may
// arrive as a bearer header or a "token" cookie.
func RequireToken(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := strings.TrimPrefix(c.Get(fiber.HeaderAuthorization), "Bearer ")
		if token == "" {
			token = c.Cookies("token")
		}
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "authentication required"})
		}
		userID, err := auth.VerifyToken(token)
		if err != nil {
			log.Security(c, "access.denied", nil)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "authentication required"})
		}
		c.Locals("user_id", userID)
		return c.Next()
	}
}
