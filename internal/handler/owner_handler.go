package handler

import (
	"log"

	"carstok-backend/internal/service"

	"github.com/gofiber/fiber/v2"
)

type OwnerHandler struct {
	feeds *service.FeedService
}

func NewOwnerHandler(feeds *service.FeedService) *OwnerHandler {
	return &OwnerHandler{feeds: feeds}
}

// GET /api/v1/owners
func (h *OwnerHandler) List(c *fiber.Ctx) error {
	owners, err := h.feeds.Owners(c.Context())
	if err != nil {
		log.Printf("[OWNERS] list error: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "failed to load owners"})
	}
	return c.JSON(fiber.Map{"owners": owners})
}

// GET /api/v1/owners/:id
func (h *OwnerHandler) Profile(c *fiber.Ctx) error {
	profile, err := h.feeds.OwnerProfile(c.Context(), c.Params("id"))
	if err != nil {
		return carError(c, err)
	}
	return c.JSON(profile)
}
