// Package config provides environment-based configuration.
//
// Loads from .env file (godotenv), maps to Config struct via go-simpler/env struct tags.
// Validates required fields per sheet backend and the time zone.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/joho/godotenv"
	"go-simpler.org/env"
)

// Sheet backends.
const (
	BackendGoogle = "google"
	BackendPebble = "pebble"
	BackendMemory = "memory"
)

type Config struct {
	AppEnv    string `env:"APP_ENV" default:"development"`
	Port      string `env:"PORT" default:"8080"`
	LogLevel  string `env:"LOG_LEVEL" default:"info"`
	LogFormat string `env:"LOG_FORMAT" default:"text"`

	Passphrase   string `env:"PASSPHRASE"`
	DefaultActor string `env:"DEFAULT_ACTOR" default:"anonymous"`
	TimeZone     string `env:"TIMEZONE" default:"UTC"`

	SheetBackend       string `env:"SHEET_BACKEND" default:"google"`
	SheetID            string `env:"SHEET_ID"`
	GoogleClientID     string `env:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `env:"GOOGLE_CLIENT_SECRET"`
	RefreshToken       string `env:"REFRESH_TOKEN"`
	GoogleTokenURL     string `env:"GOOGLE_TOKEN_URL" default:"https://oauth2.googleapis.com/token"`
	SheetsEndpoint     string `env:"SHEETS_ENDPOINT"`
	PebblePath         string `env:"PEBBLE_PATH" default:"data/waitlist"`

	APIRateLimit float64 `env:"API_RATE_LIMIT" default:"5"`
	APIRateBurst int     `env:"API_RATE_BURST" default:"10"`

	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" default:"10s"`
}

// Location resolves TimeZone. Valid after Load.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Load reads the configuration for the HTTP server.
func Load() (*Config, error) {
	return load(true)
}

// LoadForCLI reads the configuration for the operator CLI, which talks to the
// sheet store directly and needs no API passphrase.
func LoadForCLI() (*Config, error) {
	return load(false)
}

func load(requirePassphrase bool) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file found, using environment variables")
	}

	var cfg Config
	if err := env.Load(&cfg, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := validate(&cfg, requirePassphrase); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func validate(cfg *Config, requirePassphrase bool) error {
	if requirePassphrase && cfg.Passphrase == "" {
		return errors.New("PASSPHRASE is required")
	}

	switch cfg.SheetBackend {
	case BackendGoogle:
		required := []struct{ name, value string }{
			{"SHEET_ID", cfg.SheetID},
			{"GOOGLE_CLIENT_ID", cfg.GoogleClientID},
			{"GOOGLE_CLIENT_SECRET", cfg.GoogleClientSecret},
			{"REFRESH_TOKEN", cfg.RefreshToken},
		}
		for _, r := range required {
			if r.value == "" {
				return fmt.Errorf("%s is required when SHEET_BACKEND=google", r.name)
			}
		}
	case BackendPebble:
		if cfg.PebblePath == "" {
			return errors.New("PEBBLE_PATH is required when SHEET_BACKEND=pebble")
		}
	case BackendMemory:
		if cfg.AppEnv == "production" {
			return errors.New("SHEET_BACKEND=memory is not allowed in production")
		}
	default:
		return fmt.Errorf("SHEET_BACKEND must be one of google, pebble, memory, got %q", cfg.SheetBackend)
	}

	if _, err := time.LoadLocation(cfg.TimeZone); err != nil {
		return fmt.Errorf("TIMEZONE is invalid: %w", err)
	}

	if cfg.APIRateLimit <= 0 || cfg.APIRateBurst <= 0 {
		return errors.New("API_RATE_LIMIT and API_RATE_BURST must be positive")
	}

	return nil
}
