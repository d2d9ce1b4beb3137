package handler

import (
	"errors"
	"log"

	"carstok-backend/internal/model"
	"carstok-backend/internal/service"

	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	admin *service.AdminService
}

func NewAuthHandler(admin *service.AdminService) *AuthHandler {
	return &AuthHandler{admin: admin}
}

// POST /api/v1/admin/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req model.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
	}
	if req.Password == "" {
		return c.Status(400).JSON(fiber.Map{"error": "password is required"})
	}

	resp, err := h.admin.Login(c.Context(), &req)
	if err != nil {
		return authError(c, err)
	}
	return c.JSON(resp)
}

// PUT /api/v1/admin/password
func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	var req model.ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := h.admin.ChangePassword(c.Context(), &req); err != nil {
		return authError(c, err)
	}
	return c.JSON(fiber.Map{"ok": true})
}

func authError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		return c.Status(401).JSON(fiber.Map{"error": "invalid password"})
	case errors.Is(err, service.ErrWeakPassword):
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	default:
		log.Printf("[AUTH ERROR] %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "internal server error"})
	}
}
