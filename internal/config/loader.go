// Package config loads environment driven configuration for the portal
// service.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config captures the process configuration. The token secret is the only
// required value; everything else has a workable default.
type Config struct {
	HTTPPort      int           `env:"PORTAL_HTTP_PORT" envDefault:"8080"`
	SQLiteDSN     string        `env:"PORTAL_SQLITE_DSN" envDefault:"file:portal.db"`
	TokenSecret   string        `env:"PORTAL_TOKEN_SECRET"`
	TokenTTL      time.Duration `env:"PORTAL_TOKEN_TTL" envDefault:"24h"`
	UpcomingLimit int           `env:"PORTAL_UPCOMING_LIMIT" envDefault:"5"`

	// Optional first-run administrator bootstrap. When both email and
	// password are present, the account is provisioned at startup.
	AdminEmail    string `env:"PORTAL_ADMIN_EMAIL"`
	AdminName     string `env:"PORTAL_ADMIN_NAME" envDefault:"Administrator"`
	AdminPassword string `env:"PORTAL_ADMIN_PASSWORD"`
}

// Load parses configuration from the current process environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse environment: %w", err)
	}

	if strings.TrimSpace(cfg.TokenSecret) == "" {
		return Config{}, fmt.Errorf("config: PORTAL_TOKEN_SECRET is required")
	}
	if cfg.HTTPPort <= 0 {
		return Config{}, fmt.Errorf("config: PORTAL_HTTP_PORT must be positive")
	}
	if cfg.TokenTTL <= 0 {
		return Config{}, fmt.Errorf("config: PORTAL_TOKEN_TTL must be positive")
	}
	if cfg.UpcomingLimit <= 0 {
		return Config{}, fmt.Errorf("config: PORTAL_UPCOMING_LIMIT must be positive")
	}
	if cfg.AdminEmail != "" && cfg.AdminPassword == "" {
		return Config{}, fmt.Errorf("config: PORTAL_ADMIN_PASSWORD is required when PORTAL_ADMIN_EMAIL is set")
	}

	return cfg, nil
}

// BootstrapAdmin reports whether an administrator account should be
// provisioned at startup.
func (c Config) BootstrapAdmin() bool {
	return c.AdminEmail != "" && c.AdminPassword != ""
}
