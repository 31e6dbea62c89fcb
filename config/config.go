package config

import (
	"fmt"
	"log/slog"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
)

type Config struct {
	Env         string `env:"ENV" envDefault:"local" validate:"required,oneof=local staging production"`
	Port        string `env:"PORT" envDefault:"8080" validate:"required"`
	MetricsPort string `env:"METRICS_PORT" envDefault:"9090"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info" validate:"oneof=debug info warn error"`

	DatabaseURL string `env:"DATABASE_URL,required" validate:"required"`

	JWTSecret string `env:"JWT_SECRET,required" validate:"required,min=32"`

	AllowedEmailDomain string `env:"ALLOWED_EMAIL_DOMAIN" envDefault:"kristujayanti.com" validate:"required"`
	AdminName          string `env:"ADMIN_NAME" envDefault:"Admin"`
	AdminEmail         string `env:"ADMIN_EMAIL,required" validate:"required,email"`
	AdminPassword      string `env:"ADMIN_PASSWORD,required" validate:"required,min=8"`

	PublicBaseURL string `env:"PUBLIC_BASE_URL" envDefault:"http://localhost:8080"`
	ResetBaseURL  string `env:"RESET_BASE_URL"  envDefault:"http://localhost:4200/reset"`

	SweepSchedule string `env:"SWEEP_SCHEDULE" envDefault:"@daily" validate:"required"`

	ResendAPIKey string `env:"RESEND_API_KEY" validate:"required_if=Env production,required_if=Env staging"`
	ResendFrom   string `env:"RESEND_FROM"    validate:"required_if=Env production,required_if=Env staging"`

	MinioEndpoint  string `env:"MINIO_ENDPOINT" envDefault:"localhost:9000" validate:"required"`
	MinioAccessKey string `env:"MINIO_ACCESS_KEY,required" validate:"required"`
	MinioSecretKey string `env:"MINIO_SECRET_KEY,required" validate:"required"`
	MinioBucket    string `env:"MINIO_BUCKET" envDefault:"lostandfound" validate:"required"`
	MinioUseSSL    bool   `env:"MINIO_USE_SSL" envDefault:"false"`
}

func Load() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
