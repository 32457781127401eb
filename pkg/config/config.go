package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration options for the Twitch API client
type Config struct {
	// Twitch application credentials
	Twitch TwitchConfig `yaml:"twitch" json:"twitch"`

	// Rate limiting configuration
	RateLimit RateLimitConfig `yaml:"rate_limit" json:"rate_limit"`

	// HTTP transport settings
	HTTP HTTPConfig `yaml:"http" json:"http"`

	// Watcher settings
	Watch WatchConfig `yaml:"watch" json:"watch"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// TwitchConfig holds Twitch application credentials
type TwitchConfig struct {
	ClientID  string `yaml:"client_id" json:"client_id"`
	AuthToken string `yaml:"auth_token" json:"auth_token"`
}

// RateLimitConfig holds rate limiting configuration.
// The Helix API grants a point budget per rolling window; every request
// in the current endpoint set costs one point.
type RateLimitConfig struct {
	MaxPoints    int           `yaml:"max_points" json:"max_points"`
	Window       time.Duration `yaml:"window" json:"window"`
	PollInterval time.Duration `yaml:"poll_interval" json:"poll_interval"`
}

// HTTPConfig holds HTTP transport settings
type HTTPConfig struct {
	Timeout time.Duration `yaml:"timeout" json:"timeout"`
}

// WatchConfig holds live-status watcher settings
type WatchConfig struct {
	Interval      time.Duration `yaml:"interval" json:"interval"`
	MaxConcurrent int           `yaml:"max_concurrent" json:"max_concurrent"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
	File  string `yaml:"file" json:"file"`
}

// DefaultConfig returns a Config instance with sensible defaults.
// The rate limit defaults match the Helix quota of 800 points per minute.
func DefaultConfig() *Config {
	return &Config{
		RateLimit: RateLimitConfig{
			MaxPoints:    800,
			Window:       60 * time.Second,
			PollInterval: 10 * time.Millisecond,
		},
		HTTP: HTTPConfig{
			Timeout: 30 * time.Second,
		},
		Watch: WatchConfig{
			Interval:      time.Minute,
			MaxConcurrent: 3,
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  "",
		},
	}
}

// LoadFromEnv loads configuration from environment variables
func (c *Config) LoadFromEnv() error {
	if clientID := os.Getenv("TWITCHAPI_CLIENT_ID"); clientID != "" {
		c.Twitch.ClientID = clientID
	}
	if authToken := os.Getenv("TWITCHAPI_AUTH_TOKEN"); authToken != "" {
		c.Twitch.AuthToken = authToken
	}

	if maxPoints := os.Getenv("TWITCHAPI_MAX_POINTS"); maxPoints != "" {
		var val int
		fmt.Sscanf(maxPoints, "%d", &val)
		if val > 0 {
			c.RateLimit.MaxPoints = val
		}
	}
	if window := os.Getenv("TWITCHAPI_RATE_WINDOW"); window != "" {
		if d, err := time.ParseDuration(window); err == nil && d > 0 {
			c.RateLimit.Window = d
		}
	}

	if logLevel := os.Getenv("TWITCHAPI_LOG_LEVEL"); logLevel != "" {
		c.Logging.Level = logLevel
	}

	return nil
}

// LoadFromFile loads configuration from a YAML file
func (c *Config) LoadFromFile(path string) error {
	// If path is empty, try default locations
	if path == "" {
		path = c.findConfigFile()
		if path == "" {
			return nil // No config file found, not an error
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// findConfigFile searches for config file in standard locations
func (c *Config) findConfigFile() string {
	locations := []string{
		".twitchapi.yaml",
		".twitchapi.yml",
		filepath.Join(os.Getenv("HOME"), ".config", "twitchapi", "config.yaml"),
		filepath.Join(os.Getenv("HOME"), ".config", "twitchapi", "config.yml"),
		filepath.Join(os.Getenv("HOME"), ".twitchapi.yaml"),
		filepath.Join(os.Getenv("HOME"), ".twitchapi.yml"),
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	var errs []error

	if c.Twitch.ClientID == "" {
		errs = append(errs, errors.New("Twitch client ID is required"))
	}
	if c.Twitch.AuthToken == "" {
		errs = append(errs, errors.New("Twitch auth token is required"))
	}

	if c.RateLimit.MaxPoints <= 0 {
		errs = append(errs, errors.New("max points must be positive"))
	}
	if c.RateLimit.Window <= 0 {
		errs = append(errs, errors.New("rate limit window must be positive"))
	}
	if c.RateLimit.PollInterval <= 0 {
		errs = append(errs, errors.New("poll interval must be positive"))
	}

	if c.HTTP.Timeout <= 0 {
		errs = append(errs, errors.New("HTTP timeout must be positive"))
	}

	if c.Watch.Interval <= 0 {
		errs = append(errs, errors.New("watch interval must be positive"))
	}
	if c.Watch.MaxConcurrent <= 0 {
		errs = append(errs, errors.New("max concurrent fetches must be positive"))
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, errors.New("invalid log level"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// Save saves the configuration to a file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// MergeCommandLineFlags merges command line flags into the configuration
func (c *Config) MergeCommandLineFlags(flags map[string]interface{}) {
	if clientID, ok := flags["client-id"].(string); ok && clientID != "" {
		c.Twitch.ClientID = clientID
	}
	if authToken, ok := flags["auth-token"].(string); ok && authToken != "" {
		c.Twitch.AuthToken = authToken
	}
	if maxPoints, ok := flags["max-points"].(int); ok && maxPoints > 0 {
		c.RateLimit.MaxPoints = maxPoints
	}
	if interval, ok := flags["interval"].(time.Duration); ok && interval > 0 {
		c.Watch.Interval = interval
	}
	if logLevel, ok := flags["log-level"].(string); ok && logLevel != "" {
		c.Logging.Level = logLevel
	}
}

// Load loads configuration from all sources with proper precedence.
// Precedence order: Command line flags > Environment variables > .env file > Config file > Defaults
func Load(configPath string, flags map[string]interface{}) (*Config, error) {
	config, err := LoadUnvalidated(configPath, flags)
	if err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// LoadUnvalidated loads configuration from all sources but skips the final
// validation, so callers can fill credentials from another source first
func LoadUnvalidated(configPath string, flags map[string]interface{}) (*Config, error) {
	// Try to load .env files (don't fail if they don't exist)
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".env"))
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".twitchapi.env"))

	// Start with defaults
	config := DefaultConfig()

	if err := config.LoadFromFile(configPath); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	if err := config.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	config.MergeCommandLineFlags(flags)

	return config, nil
}
