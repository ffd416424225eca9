package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration options for the ClickUp CLI
type Config struct {
	// API connection settings
	API APIConfig `yaml:"api" json:"api"`

	// Rate limiting configuration
	RateLimit RateLimitConfig `yaml:"rate_limit" json:"rate_limit"`

	// Output settings
	Output OutputConfig `yaml:"output" json:"output"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// APIConfig holds ClickUp API connection settings
type APIConfig struct {
	Token          string `yaml:"token" json:"token"`
	BaseURL        string `yaml:"base_url" json:"base_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds" json:"timeout_seconds"`
}

// RateLimitConfig holds the client-side rate limiter settings
type RateLimitConfig struct {
	RequestsPerMinute int  `yaml:"requests_per_minute" json:"requests_per_minute"`
	BufferSeconds     int  `yaml:"buffer_seconds" json:"buffer_seconds"`
	MaxRetries        int  `yaml:"max_retries" json:"max_retries"`
	AutoRetry         bool `yaml:"auto_retry" json:"auto_retry"`
}

// OutputConfig holds terminal output settings
type OutputConfig struct {
	Format string `yaml:"format" json:"format"`
	Color  bool   `yaml:"color" json:"color"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
	File  string `yaml:"file" json:"file"`
}

// DefaultConfig returns a Config instance with sensible defaults.
// The rate limit defaults track the ClickUp free-plan quota of 100
// requests per minute.
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:        "https://api.clickup.com/api/v2",
			TimeoutSeconds: 30,
		},
		RateLimit: RateLimitConfig{
			RequestsPerMinute: 100,
			BufferSeconds:     5,
			MaxRetries:        3,
			AutoRetry:         true,
		},
		Output: OutputConfig{
			Format: "table",
			Color:  true,
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  "",
		},
	}
}

// LoadFromEnv loads configuration from environment variables
func (c *Config) LoadFromEnv() error {
	if token := os.Getenv("CLICKUP_API_TOKEN"); token != "" {
		c.API.Token = token
	}
	if baseURL := os.Getenv("CLICKUP_BASE_URL"); baseURL != "" {
		c.API.BaseURL = baseURL
	}

	if rpm := os.Getenv("CLICKUP_REQUESTS_PER_MINUTE"); rpm != "" {
		var val int
		fmt.Sscanf(rpm, "%d", &val)
		if val > 0 {
			c.RateLimit.RequestsPerMinute = val
		}
	}
	if buffer := os.Getenv("CLICKUP_BUFFER_SECONDS"); buffer != "" {
		var val int
		fmt.Sscanf(buffer, "%d", &val)
		if val >= 0 {
			c.RateLimit.BufferSeconds = val
		}
	}
	if retries := os.Getenv("CLICKUP_MAX_RETRIES"); retries != "" {
		var val int
		fmt.Sscanf(retries, "%d", &val)
		if val >= 0 {
			c.RateLimit.MaxRetries = val
		}
	}
	if autoRetry := os.Getenv("CLICKUP_AUTO_RETRY"); autoRetry != "" {
		c.RateLimit.AutoRetry = strings.ToLower(autoRetry) == "true"
	}

	if format := os.Getenv("CLICKUP_OUTPUT_FORMAT"); format != "" {
		c.Output.Format = format
	}
	if logLevel := os.Getenv("CLICKUP_LOG_LEVEL"); logLevel != "" {
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
		".clickup.yaml",
		".clickup.yml",
		filepath.Join(os.Getenv("HOME"), ".config", "clickup-utils", "config.yaml"),
		filepath.Join(os.Getenv("HOME"), ".config", "clickup-utils", "config.yml"),
		filepath.Join(os.Getenv("HOME"), ".clickup.yaml"),
		filepath.Join(os.Getenv("HOME"), ".clickup.yml"),
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

	if c.API.BaseURL == "" {
		errs = append(errs, errors.New("API base URL is required"))
	}
	if c.API.TimeoutSeconds <= 0 {
		errs = append(errs, errors.New("API timeout must be positive"))
	}

	if c.RateLimit.RequestsPerMinute <= 0 {
		errs = append(errs, errors.New("requests per minute must be positive"))
	}
	if c.RateLimit.BufferSeconds < 0 {
		errs = append(errs, errors.New("buffer seconds cannot be negative"))
	}
	if c.RateLimit.MaxRetries < 0 {
		errs = append(errs, errors.New("max retries cannot be negative"))
	}

	validFormats := map[string]bool{"table": true, "json": true}
	if !validFormats[strings.ToLower(c.Output.Format)] {
		errs = append(errs, errors.New("invalid output format"))
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

	// 0600: the file may contain the API token
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// MergeCommandLineFlags merges command line flags into the configuration
func (c *Config) MergeCommandLineFlags(flags map[string]interface{}) {
	if token, ok := flags["token"].(string); ok && token != "" {
		c.API.Token = token
	}
	if rpm, ok := flags["requests-per-minute"].(int); ok && rpm > 0 {
		c.RateLimit.RequestsPerMinute = rpm
	}
	if buffer, ok := flags["buffer-seconds"].(int); ok && buffer >= 0 {
		c.RateLimit.BufferSeconds = buffer
	}
	if retries, ok := flags["max-retries"].(int); ok && retries >= 0 {
		c.RateLimit.MaxRetries = retries
	}
	if autoRetry, ok := flags["auto-retry"].(bool); ok {
		c.RateLimit.AutoRetry = autoRetry
	}
	if format, ok := flags["output"].(string); ok && format != "" {
		c.Output.Format = format
	}
	if logLevel, ok := flags["log-level"].(string); ok && logLevel != "" {
		c.Logging.Level = logLevel
	}
}

// Load loads configuration from all sources with proper precedence
// Precedence order: Command line flags > Environment variables > .env file > Config file > Defaults
func Load(configPath string, flags map[string]interface{}) (*Config, error) {
	// Try to load .env files (don't fail if they don't exist)
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".clickup.env"))

	config := DefaultConfig()

	if err := config.LoadFromFile(configPath); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	// Override with environment variables (includes values from .env)
	if err := config.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	config.MergeCommandLineFlags(flags)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}
