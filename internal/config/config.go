package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	HTTPAddr string     `env:"HTTP_ADDR" envDefault:":8080" validate:"required"`
	LogLevel slog.Level `env:"LOG_LEVEL" envDefault:"INFO"`

	APIBaseURL   string        `env:"API_BASE_URL" envDefault:"https://hack-genai.azurewebsites.net" validate:"required,url"`
	APITimeout   time.Duration `env:"API_TIMEOUT" envDefault:"15s" validate:"gt=0"`
	APIRateLimit float64       `env:"API_RATE_LIMIT" envDefault:"10" validate:"gt=0"`
	APIBurst     int           `env:"API_BURST" envDefault:"10" validate:"gte=1"`

	// BoardTTL is how long a fetched board is served before the next page
	// view refetches it. Zero refetches on every view.
	BoardTTL time.Duration `env:"BOARD_TTL" envDefault:"15s" validate:"gte=0"`
	// BoardIdleTimeout drops the cached board of a quiz nobody has viewed
	// for this long.
	BoardIdleTimeout time.Duration `env:"BOARD_IDLE_TIMEOUT" envDefault:"10m" validate:"gt=0"`
}

var validate = validator.New()

// Load reads the environment, after applying a .env file when one exists
// in the working directory. Variables already set win over the file.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return &cfg, nil
}
