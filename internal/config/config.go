package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Pagination bounds the timeline page window.
type Pagination struct {
	MinPageSize     int
	MaxPageSize     int
	DefaultPageSize int
}

// Config holds runtime configuration values for the API service.
type Config struct {
	AppName     string
	AppEnv      string
	AppPort     string
	DatabaseURL string
	Pagination  Pagination
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("ACTIVITY")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "User Activity API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("pagination.min_size", 1)
	v.SetDefault("pagination.max_size", 100)
	v.SetDefault("pagination.default_size", 20)

	cfg := Config{
		AppName:     v.GetString("app.name"),
		AppEnv:      v.GetString("app.env"),
		AppPort:     v.GetString("app.port"),
		DatabaseURL: v.GetString("database.url"),
		Pagination: Pagination{
			MinPageSize:     v.GetInt("pagination.min_size"),
			MaxPageSize:     v.GetInt("pagination.max_size"),
			DefaultPageSize: v.GetInt("pagination.default_size"),
		},
	}

	if cfg.Pagination.MinPageSize < 1 {
		cfg.Pagination.MinPageSize = 1
	}

	if cfg.Pagination.MaxPageSize < cfg.Pagination.MinPageSize {
		return Config{}, fmt.Errorf("pagination max size %d must not be below min size %d", cfg.Pagination.MaxPageSize, cfg.Pagination.MinPageSize)
	}

	if cfg.Pagination.DefaultPageSize < cfg.Pagination.MinPageSize || cfg.Pagination.DefaultPageSize > cfg.Pagination.MaxPageSize {
		cfg.Pagination.DefaultPageSize = cfg.Pagination.MinPageSize
	}

	return cfg, nil
}
