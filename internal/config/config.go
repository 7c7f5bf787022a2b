// Package config provides configuration management for the cloudbox CLI.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/ini.v1"
)

// Config holds the settings the CLI needs to reach the CloudBox API.
//
// Config file location: ~/.config/cloudbox/config
//
// INI format:
//
//	[cloudbox]
//	api_url = http://localhost:8080/api
//
//	[cloudbox.notifications]
//	enabled = true
//	poll_interval_seconds = 30
//
// Precedence, lowest to highest: defaults, config file, environment
// (CLOUDBOX_API_URL, CLOUDBOX_TOKEN), command-line flags.
type Config struct {
	// APIBaseURL selects the API origin. All endpoint paths are
	// relative to it.
	APIBaseURL string `ini:"api_url"`

	// Token is the bearer credential, when supplied out of band
	// (env var or flag) instead of an interactive login.
	Token string `ini:"-"`

	// Notifications configures the polled notification feed.
	Notifications NotificationConfig
}

// NotificationConfig contains settings for the notification poller.
type NotificationConfig struct {
	// Enabled controls whether desktop toasts are shown.
	Enabled bool `ini:"enabled"`

	// PollIntervalSeconds is the feed polling interval.
	// Minimum: 5, Default: 30.
	PollIntervalSeconds int `ini:"poll_interval_seconds"`
}

// Validation errors.
var (
	ErrMissingAPIURL      = errors.New("api_url is required")
	ErrInvalidPollSeconds = errors.New("poll_interval_seconds must be at least 5")
)

// DefaultConfigDir returns the directory holding the config file and
// the saved session token.
func DefaultConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".config", "cloudbox"), nil
}

// DefaultConfigPath returns the default path for the config file.
func DefaultConfigPath() (string, error) {
	dir, err := DefaultConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config"), nil
}

// New returns a Config with default values.
func New() *Config {
	return &Config{
		APIBaseURL: "http://localhost:8080/api",
		Notifications: NotificationConfig{
			Enabled:             true,
			PollIntervalSeconds: 30,
		},
	}
}

// Load reads configuration from an INI file and applies environment
// overrides. A missing file is not an error: defaults are returned.
func Load(path string) (*Config, error) {
	cfg := New()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			f, err := ini.Load(path)
			if err != nil {
				return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
			}
			if err := f.Section("cloudbox").MapTo(cfg); err != nil {
				return nil, fmt.Errorf("failed to map config file %s: %w", path, err)
			}
			if err := f.Section("cloudbox.notifications").MapTo(&cfg.Notifications); err != nil {
				return nil, fmt.Errorf("failed to map notification config: %w", err)
			}
		}
	}

	if v := os.Getenv("CLOUDBOX_API_URL"); v != "" {
		cfg.APIBaseURL = v
	}
	if v := os.Getenv("CLOUDBOX_TOKEN"); v != "" {
		cfg.Token = v
	}

	cfg.APIBaseURL = strings.TrimSuffix(cfg.APIBaseURL, "/")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration to an INI file, creating the parent
// directory if needed. The token is never written here; see the
// session package.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f := ini.Empty()
	if err := f.Section("cloudbox").ReflectFrom(c); err != nil {
		return fmt.Errorf("failed to build config file: %w", err)
	}
	if err := f.Section("cloudbox.notifications").ReflectFrom(&c.Notifications); err != nil {
		return fmt.Errorf("failed to build notification config: %w", err)
	}
	if err := f.SaveTo(path); err != nil {
		return fmt.Errorf("failed to write config file %s: %w", path, err)
	}
	return nil
}

// Validate checks the configuration for obvious mistakes.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.APIBaseURL) == "" {
		return ErrMissingAPIURL
	}
	if c.Notifications.PollIntervalSeconds < 5 {
		return ErrInvalidPollSeconds
	}
	return nil
}

// PollInterval returns the notification polling interval as a Duration.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.Notifications.PollIntervalSeconds) * time.Second
}
