package handler

import (
	"errors"
	"log"
	"strconv"
	"strings"

	"carstok-backend/internal/model"
	"carstok-backend/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CarHandler serves the public feed, search and listing pages.
type CarHandler struct {
	feeds *service.FeedService
	cars  *service.CarService
}

func NewCarHandler(feeds *service.FeedService, cars *service.CarService) *CarHandler {
	return &CarHandler{feeds: feeds, cars: cars}
}

// GET /api/v1/feed
func (h *CarHandler) Feed(c *fiber.Ctx) error {
	feedType := model.FeedType(c.Query("type", string(model.FeedSales)))
	if feedType != model.FeedSales && feedType != model.FeedRental {
		return c.Status(400).JSON(fiber.Map{"error": "type must be sales or rental"})
	}

	cars, err := h.feeds.Feed(c.Context(), feedType, parseSearchFilters(c))
	if err != nil {
		log.Printf("[FEED] feed error: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "failed to load feed"})
	}
	return c.JSON(fiber.Map{"cars": cars, "total": len(cars)})
}

// GET /api/v1/explore
func (h *CarHandler) Explore(c *fiber.Ctx) error {
	cars, err := h.feeds.Explore(c.Context(), model.ExploreFilters{
		SearchTerm: c.Query("q"),
		Brand:      c.Query("brand"),
		Category:   c.Query("category", "all"),
	})
	if err != nil {
		log.Printf("[FEED] explore error: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "failed to load listings"})
	}
	return c.JSON(fiber.Map{"cars": cars, "total": len(cars)})
}

// GET /api/v1/search/facets
func (h *CarHandler) Facets(c *fiber.Ctx) error {
	facets, err := h.feeds.Facets(c.Context())
	if err != nil {
		log.Printf("[FEED] facets error: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "failed to load facets"})
	}
	return c.JSON(facets)
}

// GET /api/v1/cars/:id
func (h *CarHandler) Get(c *fiber.Ctx) error {
	car, err := h.feeds.Car(c.Context(), c.Params("id"))
	if err != nil {
		return carError(c, err)
	}
	return c.JSON(car)
}

// POST /api/v1/cars/:id/view
func (h *CarHandler) View(c *fiber.Ctx) error {
	id := c.Params("id")
	if _, err := h.feeds.Car(c.Context(), id); err != nil {
		return carError(c, err)
	}
	views, err := h.cars.RecordView(c.Context(), id)
	if err != nil {
		return carError(c, err)
	}
	return c.JSON(fiber.Map{"id": id, "views": views})
}

// GET /api/v1/cars/:id/contact?type=sales|rental
func (h *CarHandler) Contact(c *fiber.Ctx) error {
	rental := c.Query("type") == string(model.FeedRental)
	url, err := h.feeds.ContactURL(c.Context(), c.Params("id"), rental)
	if err != nil {
		return carError(c, err)
	}
	return c.JSON(fiber.Map{"url": url})
}

func parseSearchFilters(c *fiber.Ctx) model.SearchFilters {
	f := model.SearchFilters{
		SearchTerm:      c.Query("q"),
		Brand:           c.Query("brand"),
		Transmission:    model.Transmission(c.Query("transmission")),
		Location:        c.Query("location"),
		TransactionType: model.TransactionType(c.Query("transaction", string(model.TransactionBoth))),
		SortBy:          c.Query("sort_by"),
		Price:           model.Range{Min: queryInt(c, "min_price"), Max: queryInt(c, "max_price")},
		Year:            model.Range{Min: queryInt(c, "min_year"), Max: queryInt(c, "max_year")},
		Mileage:         model.Range{Min: queryInt(c, "min_mileage"), Max: queryInt(c, "max_mileage")},
	}
	if fuel := c.Query("fuel"); fuel != "" {
		for _, v := range strings.Split(fuel, ",") {
			if v = strings.TrimSpace(v); v != "" {
				f.Fuel = append(f.Fuel, model.FuelType(v))
			}
		}
	}
	return f
}

func queryInt(c *fiber.Ctx, key string) int64 {
	v, err := strconv.ParseInt(c.Query(key), 10, 64)
	if err != nil || v < 0 {
		return 0
	}
	return v
}

func carError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrCarNotFound):
		return c.Status(404).JSON(fiber.Map{"error": "car not found"})
	case errors.Is(err, service.ErrOwnerNotFound):
		return c.Status(404).JSON(fiber.Map{"error": "owner not found"})
	case errors.Is(err, service.ErrBrandModelRequired),
		errors.Is(err, service.ErrInvalidPrice),
		errors.Is(err, service.ErrInvalidYear),
		errors.Is(err, service.ErrInvalidMileage),
		errors.Is(err, service.ErrInvalidTrendScore),
		errors.Is(err, service.ErrInvalidFuelType),
		errors.Is(err, service.ErrInvalidTransmission),
		errors.Is(err, service.ErrInvalidSellerType),
		errors.Is(err, service.ErrInvalidLocation),
		errors.Is(err, service.ErrInvalidOriginalPrice),
		errors.Is(err, service.ErrUnknownOwner):
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	default:
		log.Printf("[CARS ERROR] %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "internal server error"})
	}
}
