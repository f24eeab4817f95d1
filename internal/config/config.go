package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	EnvLocal = "local"
	EnvDev   = "dev"
	EnvProd  = "prod"
)

// Config holds application configuration sourced from environment variables.
type Config struct {
	Env             string        `env:"APP_ENV" env-default:"local" env-description:"local, dev or prod"`
	DBPath          string        `env:"DB_PATH" env-default:"./dev.db"`
	Port            string        `env:"PORT" env-default:"8080"`
	LogLevel        string        `env:"LOG_LEVEL" env-default:"INFO"`
	SeedFile        string        `env:"SEED_FILE" env-description:"optional YAML catalog of rooms, employees and extras"`
	MetricsEnabled  bool          `env:"METRICS_ENABLED" env-default:"true"`
	HistoryLimit    int           `env:"HISTORY_LIMIT" env-default:"500"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" env-default:"10s"`
}

// Load reads the optional .env file and the environment into a Config.
func Load() (Config, error) {
	// Production injects real environment variables; .env is a dev convenience.
	if err := loadDotEnv(".env"); err != nil {
		slog.Warn("could not read .env", "error", err)
	}

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("read environment: %w", err)
	}

	if cfg.HistoryLimit <= 0 {
		slog.Warn("HISTORY_LIMIT must be positive, using default", "value", cfg.HistoryLimit)
		cfg.HistoryLimit = 500
	}
	switch cfg.Env {
	case EnvLocal, EnvDev, EnvProd:
	default:
		slog.Warn("unknown APP_ENV, treating as local", "value", cfg.Env)
		cfg.Env = EnvLocal
	}

	return cfg, nil
}

// IsDev reports whether the process runs outside production.
func (c Config) IsDev() bool {
	return c.Env == EnvLocal || c.Env == EnvDev
}

// Addr is the HTTP listen address.
func (c Config) Addr() string {
	return ":" + c.Port
}
