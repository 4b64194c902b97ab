package cardsvc

import (
	"fmt"

	"github.com/caarlos0/env/v10"
)

// Config is a configuration for the card generator service
type Config struct {
	HTTPAddr string `env:"HTTP_ADDR"`
	// MaxBatch caps the count accepted by POST /cards.
	MaxBatch int `env:"MAX_BATCH"`
	// SecurePrefixFill makes BIN-anchored cards use crypto/rand for filler
	// digits instead of math/rand.
	SecurePrefixFill bool   `env:"SECURE_PREFIX_FILL"`
	LogLevel         string `env:"LOG_LEVEL"`
}

func DefaultConfig() *Config {
	return &Config{
		HTTPAddr: "localhost:9090",
		MaxBatch: 20,
		LogLevel: "info",
	}
}

// LoadConfig applies environment overrides on top of DefaultConfig.
func LoadConfig() (*Config, error) {
	cfg := DefaultConfig()
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing env: %w", err)
	}
	if cfg.MaxBatch <= 0 {
		return nil, fmt.Errorf("MAX_BATCH must be positive (got %d)", cfg.MaxBatch)
	}
	return cfg, nil
}
