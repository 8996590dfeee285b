// Package config loads server configuration from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Store drivers accepted in STORE_DRIVER.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config holds server configuration.
type Config struct {
	Port            string        `env:"PORT" envDefault:"3000"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	StoreDriver     string        `env:"STORE_DRIVER" envDefault:"sqlite"`
	DatabaseURL     string        `env:"DATABASE_URL" envDefault:"./data/antakshari.db"`
	DictionaryFile  string        `env:"DICTIONARY_FILE"`
	ClientOrigin    string        `env:"CLIENT_ORIGIN" envDefault:"*"`
	RequestTimeout  time.Duration `env:"REQUEST_TIMEOUT" envDefault:"10s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"5s"`
	RoundTTL        time.Duration `env:"ROUND_TTL" envDefault:"1h"`
	MaxRounds       int           `env:"MAX_ROUNDS" envDefault:"10000"`
}

// Load parses the environment into a Config and validates it.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	switch cfg.StoreDriver {
	case DriverSQLite, DriverPostgres, DriverMemory:
	default:
		return Config{}, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
	}
	if cfg.RoundTTL < 0 || cfg.MaxRounds < 0 {
		return Config{}, fmt.Errorf("ROUND_TTL and MAX_ROUNDS must not be negative")
	}
	if cfg.StoreDriver != DriverMemory && cfg.DatabaseURL == "" {
		return Config{}, fmt.Errorf("DATABASE_URL is required for STORE_DRIVER=%s", cfg.StoreDriver)
	}
	return cfg, nil
}

// Addr returns the listen address for Port.
func (c Config) Addr() string { return ":" + c.Port }
