package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("FLICKR_API_KEY", "abc123")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Flickr.RESTURL != "https://api.flickr.com/services/rest/" {
		t.Errorf("unexpected REST URL %q", cfg.Flickr.RESTURL)
	}
	if cfg.Flickr.AuthURL != "https://www.flickr.com/services/auth/" {
		t.Errorf("unexpected auth URL %q", cfg.Flickr.AuthURL)
	}
	if cfg.Flickr.HTTPTimeout != 30*time.Second {
		t.Errorf("expected 30s timeout, got %s", cfg.Flickr.HTTPTimeout)
	}
	if cfg.Database.Driver != "sqlite3" || cfg.Database.DSN != "data/flickrkit.db" {
		t.Errorf("unexpected database config %+v", cfg.Database)
	}
	if cfg.Callback.Addr() != "127.0.0.1:8765" {
		t.Errorf("unexpected callback addr %q", cfg.Callback.Addr())
	}
	if cfg.Log.Level != "info" {
		t.Errorf("expected info log level, got %q", cfg.Log.Level)
	}
	if cfg.UseFileShim() {
		t.Error("file shim should be off by default")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error: %v", err)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("FLICKR_SHARED_SECRET", "000005fab4534d05")
	t.Setenv("FLICKR_FILE_SHIM", "testdata")
	t.Setenv("FLICKR_LENIENT_PARSING", "true")
	t.Setenv("FLICKR_HTTP_TIMEOUT", "5s")
	t.Setenv("CALLBACK_PORT", "9000")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if !cfg.UseFileShim() || !cfg.Flickr.LenientParsing {
		t.Errorf("expected file shim and lenient parsing, got %+v", cfg.Flickr)
	}
	if cfg.Flickr.HTTPTimeout != 5*time.Second {
		t.Errorf("expected 5s timeout, got %s", cfg.Flickr.HTTPTimeout)
	}
	if cfg.Callback.Port != 9000 {
		t.Errorf("expected port 9000, got %d", cfg.Callback.Port)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("file shim config should not need an API key: %v", err)
	}
}

func TestLoad_BadValue(t *testing.T) {
	t.Setenv("CALLBACK_PORT", "not-a-port")

	if _, err := Load(); err == nil {
		t.Error("expected parse error")
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Flickr:   FlickrConfig{APIKey: "abc"},
			Database: DatabaseConfig{Driver: "sqlite3"},
			Callback: CallbackConfig{Port: 8765},
			Log:      LogConfig{Level: "info"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"postgres", func(c *Config) { c.Database.Driver = "postgres" }, false},
		{"missing api key", func(c *Config) { c.Flickr.APIKey = "" }, true},
		{"missing api key with shim", func(c *Config) { c.Flickr.APIKey = ""; c.Flickr.FileShim = "dir" }, false},
		{"unknown driver", func(c *Config) { c.Database.Driver = "mysql" }, true},
		{"bad log level", func(c *Config) { c.Log.Level = "loud" }, true},
		{"bad port", func(c *Config) { c.Callback.Port = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
