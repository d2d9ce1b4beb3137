package handler

import (
	"time"

	"carstok-backend/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

// Routes groups the handlers mounted by Register. WS may be nil, which
// leaves /ws unmounted.
type Routes struct {
	Health *HealthHandler
	Cars   *CarHandler
	Owners *OwnerHandler
	Public *PublicHandler
	Media  *MediaHandler
	Auth   *AuthHandler
	Admin  *AdminHandler
	WS     *WSHandler

	Tokens   middleware.TokenValidator
	AdminKey string
}

func (r *Routes) Register(app *fiber.App) {
	app.Get("/health", r.Health.Health)
	app.Get("/ready", r.Health.Ready)
	app.Get("/media/:bucket/*", r.Media.Serve)

	v1 := app.Group("/api/v1")

	// Feed and catalogue (public)
	v1.Get("/feed", r.Cars.Feed)
	v1.Get("/explore", r.Cars.Explore)
	v1.Get("/search/facets", r.Cars.Facets)
	v1.Get("/cars/:id", r.Cars.Get)
	v1.Post("/cars/:id/view", middleware.RateLimit(60, time.Minute), r.Cars.View)
	v1.Get("/cars/:id/contact", r.Cars.Contact)
	v1.Get("/owners", r.Owners.List)
	v1.Get("/owners/:id", r.Owners.Profile)
	v1.Get("/stats", r.Public.Stats)
	v1.Post("/scan", middleware.RateLimit(20, time.Minute), r.Public.Scan)

	// Login is registered before the protected admin group
	v1.Post("/admin/login", middleware.RateLimit(10, time.Minute), r.Auth.Login)

	admin := v1.Group("/admin", middleware.AdminAuth(r.Tokens, r.AdminKey))
	admin.Get("/cars", r.Admin.ListCars)
	admin.Post("/cars", r.Admin.CreateCar)
	admin.Get("/cars/:id", r.Admin.GetCar)
	admin.Put("/cars/:id", r.Admin.UpdateCar)
	admin.Delete("/cars/:id", r.Admin.DeleteCar)
	admin.Post("/cars/:id/toggle", r.Admin.ToggleCar)
	admin.Post("/cars/:id/media", r.Media.Upload)
	admin.Delete("/media/:id", r.Media.Remove)
	admin.Get("/stats", r.Admin.Stats)
	admin.Put("/password", r.Auth.ChangePassword)
	admin.Post("/announce", r.Admin.Announce)

	if r.WS != nil {
		app.Get("/ws", r.WS.Upgrade)
	}
}
