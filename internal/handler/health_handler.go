package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/noah-isme/user-activity-api/internal/config"
	"github.com/noah-isme/user-activity-api/internal/database"
	"github.com/noah-isme/user-activity-api/internal/utils"
)

// HealthResponse represents the payload returned by the health endpoint.
type HealthResponse struct {
	Status      string    `json:"status"`
	Timestamp   time.Time `json:"timestamp"`
	Service     string    `json:"service"`
	Environment string    `json:"environment"`
}

// DatabaseHealthResponse reports the outcome of the connectivity probe.
type DatabaseHealthResponse struct {
	Status    string    `json:"status"`
	Database  string    `json:"database"`
	Timestamp time.Time `json:"timestamp"`
}

// HealthCheck returns a handler that reports application health information.
func HealthCheck(cfg config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		payload := HealthResponse{
			Status:      "ok",
			Timestamp:   time.Now().UTC(),
			Service:     cfg.AppName,
			Environment: cfg.AppEnv,
		}

		return utils.SendSuccess(c, payload)
	}
}

// DatabaseHealthCheck returns a handler probing database connectivity.
func DatabaseHealthCheck(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := database.Ping(c.Context(), db); err != nil {
			return utils.SendError(c, fiber.StatusServiceUnavailable, "Service Unavailable", "database unreachable")
		}

		return utils.SendSuccess(c, DatabaseHealthResponse{
			Status:    "ok",
			Database:  "reachable",
			Timestamp: time.Now().UTC(),
		})
	}
}
