package handler

import (
	"log"

	"carstok-backend/internal/service"

	"github.com/gofiber/fiber/v2"
)

// PublicHandler serves the stats bar and the scan overlay.
type PublicHandler struct {
	stats *service.StatsService
	scan  *service.ScanService
}

func NewPublicHandler(stats *service.StatsService, scan *service.ScanService) *PublicHandler {
	return &PublicHandler{stats: stats, scan: scan}
}

// GET /api/v1/stats
func (h *PublicHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.stats.Stats(c.Context())
	if err != nil {
		log.Printf("[STATS] error: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "failed to load stats"})
	}
	return c.JSON(stats)
}

// POST /api/v1/scan
func (h *PublicHandler) Scan(c *fiber.Ctx) error {
	result, err := h.scan.Scan(c.Context())
	if err != nil {
		log.Printf("[SCAN] error: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "scan failed"})
	}
	return c.JSON(result)
}
