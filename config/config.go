package config

import (
	"os"
	"strings"
)

// AppConfig is the main application configuration struct that composes
// domain-specific configuration from separate files.
//
// Configuration is loaded from environment variables using the
// github.com/caarlos0/env library. See individual domain config
// files for details on available environment variables:
//   - backend.go: REST backend the console talks to
//   - database.go: Database and cache configuration
//   - http.go: HTTP server configuration
//   - observability.go: Logging and metrics
//   - services.go: Service mode configuration
type AppConfig struct {
	// IsDev controls development mode behavior (templates from disk, no static caching).
	// Set DEV=true or NODE_ENV=development for development mode.
	IsDev bool `env:"DEV" envDefault:"false"`

	// Database configuration
	Postgres DBConfig    `envPrefix:"DB_"`
	Redis    RedisConfig `envPrefix:"REDIS_"`
	Cache    CacheConfig

	// HTTP server configuration
	HTTP HTTPConfig

	// Backend the console reads and writes through.
	Backend BackendConfig `envPrefix:"BACKEND_"`

	// UI holds console presentation settings.
	UI UIConfig

	// Service mode configuration
	Services string `env:"SERVICES" envDefault:"api,ui"`

	// Observability configuration
	Observability ObservabilityConfig
}

// UIConfig contains console settings.
type UIConfig struct {
	// PageSize is the default number of rows per list page.
	PageSize int `env:"UI_PAGE_SIZE" envDefault:"20"`
}

// Sanitize applies guardrails to UI configuration values.
func (u *UIConfig) Sanitize() {
	if u.PageSize < 1 {
		u.PageSize = 20
	}
	if u.PageSize > 100 {
		u.PageSize = 100
	}
}

// Sanitize applies guardrails to configuration values loaded from env.
// This should be called after loading configuration from environment variables.
func (c *AppConfig) Sanitize() {
	c.HTTP.Sanitize()
	c.Backend.Sanitize()
	c.Cache.Sanitize()
	c.UI.Sanitize()
	c.Observability.Sanitize()

	// Check NODE_ENV for dev mode
	c.detectDevMode()
}

// detectDevMode checks both DEV and NODE_ENV environment variables.
// This is called by Sanitize() to ensure IsDev is set correctly.
// NODE_ENV is checked as a fallback (common in frontend tooling).
func (c *AppConfig) detectDevMode() {
	if !c.IsDev {
		nodeEnv := strings.ToLower(os.Getenv("NODE_ENV"))
		c.IsDev = nodeEnv == "development" || nodeEnv == "dev"
	}
}

// GetEnabledServices returns the enabled services based on the Services field.
func (c *AppConfig) GetEnabledServices() (map[ServiceMode]bool, error) {
	return ParseServices(c.Services)
}

// IsAPIEnabled returns true if the REST API over the database is enabled.
func (c *AppConfig) IsAPIEnabled() bool {
	services, err := c.GetEnabledServices()
	if err != nil {
		return false
	}
	return services[ServiceModeAPI]
}

// IsUIEnabled returns true if the admin console is enabled.
func (c *AppConfig) IsUIEnabled() bool {
	services, err := c.GetEnabledServices()
	if err != nil {
		return false
	}
	return services[ServiceModeUI]
}
