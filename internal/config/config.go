package config

import (
	"fmt"

	pkgconfig "github.com/ovenshare/storefront/pkg/config"
)

// Config holds all configuration for the storefront service.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort int `env:"HTTP_PORT" envDefault:"8080"`

	// Redis
	RedisAddr string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPass string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB   int    `env:"REDIS_DB" envDefault:"0"`

	// Cart TTL in hours (default: 7 days)
	CartTTL int `env:"CART_TTL_HOURS" envDefault:"168"`

	// Upstream marketplace API
	BackendBaseURL string `env:"BACKEND_BASE_URL" envDefault:"http://localhost:8000"`

	// Hours from checkout to the scheduled pickup slot
	PickupOffsetHours int `env:"PICKUP_OFFSET_HOURS" envDefault:"2"`

	// Kafka
	KafkaBrokers []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:","`

	// Rate limiting
	RateLimitRPS   int `env:"RATE_LIMIT_RPS" envDefault:"50"`
	RateLimitBurst int `env:"RATE_LIMIT_BURST" envDefault:"100"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load storefront config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate checks configuration invariants.
func (c *Config) validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}
	if c.BackendBaseURL == "" {
		return fmt.Errorf("backend base URL is required")
	}
	if c.PickupOffsetHours < 0 {
		return fmt.Errorf("invalid pickup offset: %d", c.PickupOffsetHours)
	}
	return nil
}
