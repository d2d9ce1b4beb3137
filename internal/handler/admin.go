package handler

import (
	"encoding/json"
	"log"

	"carstok-backend/internal/model"
	"carstok-backend/internal/service"

	"github.com/gofiber/fiber/v2"
)

// ServerAnnouncer relays dashboard announcements outside the WebSocket.
type ServerAnnouncer interface {
	AnnounceServer(message string)
}

type AdminHandler struct {
	cars      *service.CarService
	stats     *service.StatsService
	wsHub     *service.WSHub
	announcer ServerAnnouncer
}

func NewAdminHandler(cars *service.CarService, stats *service.StatsService, wsHub *service.WSHub, announcer ServerAnnouncer) *AdminHandler {
	return &AdminHandler{cars: cars, stats: stats, wsHub: wsHub, announcer: announcer}
}

// GET /api/v1/admin/cars
func (h *AdminHandler) ListCars(c *fiber.Ctx) error {
	cars, err := h.cars.List(c.Context(), model.AdminFilters{
		SearchTerm: c.Query("q"),
		Status:     c.Query("status", "all"),
		SellerType: model.SellerType(c.Query("seller_type", "all")),
		Location:   c.Query("location", "all"),
	})
	if err != nil {
		log.Printf("[ADMIN] list cars error: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "failed to list cars"})
	}
	return c.JSON(fiber.Map{"cars": cars, "total": len(cars)})
}

// GET /api/v1/admin/cars/:id
func (h *AdminHandler) GetCar(c *fiber.Ctx) error {
	car, err := h.cars.Get(c.Context(), c.Params("id"))
	if err != nil {
		return carError(c, err)
	}
	return c.JSON(car)
}

// POST /api/v1/admin/cars
func (h *AdminHandler) CreateCar(c *fiber.Ctx) error {
	var req model.CarInput
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
	}
	car, err := h.cars.Create(c.Context(), &req)
	if err != nil {
		return carError(c, err)
	}
	return c.Status(201).JSON(car)
}

// PUT /api/v1/admin/cars/:id
func (h *AdminHandler) UpdateCar(c *fiber.Ctx) error {
	var req model.CarInput
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
	}
	car, err := h.cars.Update(c.Context(), c.Params("id"), &req)
	if err != nil {
		return carError(c, err)
	}
	return c.JSON(car)
}

// DELETE /api/v1/admin/cars/:id
func (h *AdminHandler) DeleteCar(c *fiber.Ctx) error {
	if err := h.cars.Delete(c.Context(), c.Params("id")); err != nil {
		return carError(c, err)
	}
	return c.JSON(fiber.Map{"ok": true})
}

// POST /api/v1/admin/cars/:id/toggle
func (h *AdminHandler) ToggleCar(c *fiber.Ctx) error {
	car, err := h.cars.ToggleActive(c.Context(), c.Params("id"))
	if err != nil {
		return carError(c, err)
	}
	return c.JSON(car)
}

// GET /api/v1/admin/stats
func (h *AdminHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.stats.Stats(c.Context())
	if err != nil {
		log.Printf("[ADMIN] stats error: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "failed to load stats"})
	}
	return c.JSON(stats)
}

// POST /api/v1/admin/announce
func (h *AdminHandler) Announce(c *fiber.Ctx) error {
	var req model.WSAnnounce
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
	}

	if req.Message == "" {
		return c.Status(400).JSON(fiber.Map{"error": "message is required"})
	}

	data, _ := json.Marshal(req)
	h.wsHub.Broadcast(&model.WSEvent{
		Type: model.EventServerAnnounce,
		Data: data,
	})
	if h.announcer != nil {
		h.announcer.AnnounceServer(req.Message)
	}

	return c.JSON(fiber.Map{"ok": true, "online": h.wsHub.OnlineCount()})
}
