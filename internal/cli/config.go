package cli

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds settings read from the environment. Command-line flags
// override each field.
type Config struct {
	Database      string `env:"RATLIST_DB" envDefault:"ratlist.db"`
	Format        string `env:"RATLIST_FORMAT" envDefault:"text"`
	BusyTimeoutMS int    `env:"RATLIST_BUSY_TIMEOUT_MS" envDefault:"5000"`
}

// BusyTimeout returns the configured lock wait as a duration.
func (c Config) BusyTimeout() time.Duration {
	return time.Duration(c.BusyTimeoutMS) * time.Millisecond
}

// LoadConfig parses Config from environment variables.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.BusyTimeoutMS < 0 {
		return Config{}, fmt.Errorf("parse env: RATLIST_BUSY_TIMEOUT_MS must not be negative, got %d", cfg.BusyTimeoutMS)
	}
	return cfg, nil
}
