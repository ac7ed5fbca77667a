// Package config holds the application configuration, loaded from the
// environment with an optional .env file.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type LogLevel string

const (
	Debug  LogLevel = "debug"
	Info   LogLevel = "info"
	Notice LogLevel = "notice"
	Warn   LogLevel = "warn"
	Error  LogLevel = "error"
)

type Config struct {
	DBPath    string   `env:"STEAMLIB_DB_PATH" envDefault:"db/steamlib.db"`
	LogLevel  LogLevel `env:"STEAMLIB_LOG_LEVEL" envDefault:"info"`
	LogFolder string   `env:"STEAMLIB_LOG_FOLDER"`
	Debug     bool     `env:"STEAMLIB_DEBUG"`
	Seed      bool     `env:"STEAMLIB_SEED" envDefault:"true"`
}

// Load reads the configuration from the environment. A .env file in the
// working directory is applied first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if cfg.Debug {
		cfg.LogLevel = Debug
	}
	return cfg, nil
}
