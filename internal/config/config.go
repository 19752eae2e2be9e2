package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v9"
	"go.uber.org/zap/zapcore"
)

// Config holds all configuration for the application.
type Config struct {
	Flickr   FlickrConfig
	Database DatabaseConfig
	Callback CallbackConfig
	Log      LogConfig
}

// FlickrConfig holds remote API configuration.
type FlickrConfig struct {
	APIKey         string        `env:"FLICKR_API_KEY"`
	SharedSecret   string        `env:"FLICKR_SHARED_SECRET"`
	RESTURL        string        `env:"FLICKR_REST_URL" envDefault:"https://api.flickr.com/services/rest/"`
	AuthURL        string        `env:"FLICKR_AUTH_URL" envDefault:"https://www.flickr.com/services/auth/"`
	FileShim       string        `env:"FLICKR_FILE_SHIM"` // Directory of canned responses (disables real API)
	LenientParsing bool          `env:"FLICKR_LENIENT_PARSING" envDefault:"false"`
	HTTPTimeout    time.Duration `env:"FLICKR_HTTP_TIMEOUT" envDefault:"30s"`
}

// DatabaseConfig holds database configuration.
type DatabaseConfig struct {
	Driver string `env:"DB_DRIVER" envDefault:"sqlite3"`
	DSN    string `env:"DB_DSN" envDefault:"data/flickrkit.db"`
}

// CallbackConfig holds the web-auth callback server configuration.
type CallbackConfig struct {
	Host string `env:"CALLBACK_HOST" envDefault:"127.0.0.1"`
	Port int    `env:"CALLBACK_PORT" envDefault:"8765"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `env:"LOG_LEVEL" envDefault:"info"`
	Development bool   `env:"LOG_DEVELOPMENT" envDefault:"false"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(&cfg.Flickr); err != nil {
		return nil, fmt.Errorf("parsing flickr config: %w", err)
	}
	if err := env.Parse(&cfg.Database); err != nil {
		return nil, fmt.Errorf("parsing database config: %w", err)
	}
	if err := env.Parse(&cfg.Callback); err != nil {
		return nil, fmt.Errorf("parsing callback config: %w", err)
	}
	if err := env.Parse(&cfg.Log); err != nil {
		return nil, fmt.Errorf("parsing log config: %w", err)
	}

	return cfg, nil
}

// Addr returns the callback server address in host:port format.
func (c *CallbackConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	// If using file shim, a real API key is not required
	if c.Flickr.FileShim == "" && c.Flickr.APIKey == "" {
		return fmt.Errorf("FLICKR_API_KEY is required (or set FLICKR_FILE_SHIM for testing)")
	}

	switch c.Database.Driver {
	case "sqlite3", "postgres":
	default:
		return fmt.Errorf("DB_DRIVER must be sqlite3 or postgres, got %q", c.Database.Driver)
	}

	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("LOG_LEVEL is invalid: %w", err)
	}

	if c.Callback.Port <= 0 || c.Callback.Port > 65535 {
		return fmt.Errorf("CALLBACK_PORT must be between 1 and 65535, got %d", c.Callback.Port)
	}

	return nil
}

// UseFileShim returns true if the file shim should be used instead of the real API.
func (c *Config) UseFileShim() bool {
	return c.Flickr.FileShim != ""
}
