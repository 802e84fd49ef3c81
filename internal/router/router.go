package router

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/noah-isme/user-activity-api/internal/config"
	"github.com/noah-isme/user-activity-api/internal/handler"
	"github.com/noah-isme/user-activity-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	ActivityHandler *handler.UserActivityHandler
	DB              *gorm.DB
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	app.Get("/metrics", observability.MetricsHandler())

	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))
	if deps.DB != nil {
		api.Get("/health/db", handler.DatabaseHealthCheck(deps.DB))
	}

	if deps.ActivityHandler != nil {
		deps.ActivityHandler.Register(api)
	}
}
