// Package config provides configuration loading from YAML files.
package config

import (
	"os"

	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	Server    ServerConfig            `yaml:"server"`
	Log       LogConfig               `yaml:"log"`
	Source    SourceConfig            `yaml:"source"`
	Aggregate AggregateConfig         `yaml:"aggregate"`
	Filters   map[string]FilterConfig `yaml:"filters"`
	Messages  MessagesConfig          `yaml:"messages"`
}

// ServerConfig represents server configuration.
type ServerConfig struct {
	Addr     string      `yaml:"addr" default:":8080"`
	Token    string      `yaml:"token"` // Optional token required by RPC calls and by HTTP routes that start or clear a run
	Hostname string      `yaml:"hostname" default:"https://youtube-chrono.vercel.app" validate:"url"`
	Hooks    HooksConfig `yaml:"hooks"`
}

// HooksConfig represents shell commands run around the server lifecycle.
type HooksConfig struct {
	OnStarted []string `yaml:"on_started"`
	OnStopped []string `yaml:"on_stopped"`
}

// LogConfig represents logging configuration.
type LogConfig struct {
	Level string `yaml:"level" default:"info" validate:"oneof=debug info warn warning error"`
	File  string `yaml:"file"`
}

// SourceConfig selects the playlist platform and carries its settings.
type SourceConfig struct {
	Type     string         `yaml:"type" default:"youtube" validate:"oneof=youtube spotify"`
	Settings map[string]any `yaml:"settings"`
}

// AggregateConfig represents aggregation pipeline configuration.
type AggregateConfig struct {
	PageSize int `yaml:"page_size" default:"50" validate:"gte=1,lte=50"`
}

// FilterConfig represents a filter's configuration.
type FilterConfig struct {
	Enabled  bool           `yaml:"enabled"`
	Settings map[string]any `yaml:"settings,omitempty"`
}

// MessagesConfig represents user-facing messages.
type MessagesConfig struct {
	Success        string `yaml:"success" default:"Playlist duration calculated"`
	InvalidURL     string `yaml:"invalid_url" default:"Invalid playlist URL"`
	NotFound       string `yaml:"not_found" default:"Playlist not found or invalid"`
	EmptyPlaylist  string `yaml:"empty_playlist" default:"This playlist has no available videos"`
	TransportError string `yaml:"transport_error" default:"Could not reach the video platform, please try again"`
	Busy           string `yaml:"busy" default:"A playlist is already being calculated"`
	DefaultError   string `yaml:"default_error" default:"Something went wrong"`
}

// Load loads configuration from a YAML file.
// Environment variables take precedence over file values for sensitive fields.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config file")
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to parse config file")
	}

	return finish(&cfg)
}

// Default returns a configuration built from defaults and environment variables only.
func Default() (*Config, error) {
	return finish(&Config{})
}

func finish(cfg *Config) (*Config, error) {
	cfg.overrideFromEnv()

	if err := defaults.Set(cfg); err != nil {
		return nil, errors.Wrap(err, "failed to set defaults")
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "config validation failed")
	}

	return cfg, nil
}

// overrideFromEnv overrides config values with environment variables.
func (c *Config) overrideFromEnv() {
	if c.Source.Settings == nil {
		c.Source.Settings = make(map[string]any)
	}
	if v := os.Getenv("CHRONO_SOURCE"); v != "" {
		c.Source.Type = v
	}
	if v := os.Getenv("YOUTUBE_API_KEY"); v != "" && c.sourceIs("youtube") {
		c.Source.Settings["api_key"] = v
	}
	if v := os.Getenv("SPOTIFY_CLIENT_ID"); v != "" && c.sourceIs("spotify") {
		c.Source.Settings["client_id"] = v
	}
	if v := os.Getenv("SPOTIFY_CLIENT_SECRET"); v != "" && c.sourceIs("spotify") {
		c.Source.Settings["client_secret"] = v
	}
	if v := os.Getenv("CHRONO_API_TOKEN"); v != "" {
		c.Server.Token = v
	}
}

// sourceIs reports whether the configured source type is t. An empty type means youtube.
func (c *Config) sourceIs(t string) bool {
	if c.Source.Type == "" {
		return t == "youtube"
	}
	return c.Source.Type == t
}

// GetMessage returns the message for the given code.
func (c *Config) GetMessage(code string) string {
	switch code {
	case "success":
		return c.Messages.Success
	case "invalid_url":
		return c.Messages.InvalidURL
	case "not_found":
		return c.Messages.NotFound
	case "empty_playlist":
		return c.Messages.EmptyPlaylist
	case "transport_error":
		return c.Messages.TransportError
	case "busy":
		return c.Messages.Busy
	default:
		return c.Messages.DefaultError
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(err, "struct validation failed")
	}
	return nil
}

// IsFilterEnabled checks if a filter is enabled.
func (c *Config) IsFilterEnabled(filterName string) bool {
	if f, ok := c.Filters[filterName]; ok {
		return f.Enabled
	}
	return false
}
