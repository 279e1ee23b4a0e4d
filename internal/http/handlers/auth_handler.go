package handlers

import (
	"bizdir/internal/log"
	"bizdir/internal/services"
	"bizdir/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	Auth *services.AuthService
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var body struct {
		Phone    string `json:"phone"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	phone, ok := validate.Phone(body.Phone)
	if !ok {
		log.Security(c, "auth.login.fail", map[string]any{"reason": "bad_phone_format"})
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid phone or password"})
	}

	token, err := h.Auth.Login(phone, body.Password)
	if err != nil {
		log.Security(c, "auth.login.fail", map[string]any{"phone": phone})
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid phone or password"})
	}

	log.Audit(c, "auth.login.success", map[string]any{"phone": phone})
	return c.JSON(fiber.Map{"message": "Login successful", "data": fiber.Map{"token": token}})
}
