package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config.RateLimit.RequestsPerMinute != 100 {
		t.Errorf("Expected default requests per minute to be 100, got %d", config.RateLimit.RequestsPerMinute)
	}
	if config.RateLimit.BufferSeconds != 5 {
		t.Errorf("Expected default buffer seconds to be 5, got %d", config.RateLimit.BufferSeconds)
	}
	if config.RateLimit.MaxRetries != 3 {
		t.Errorf("Expected default max retries to be 3, got %d", config.RateLimit.MaxRetries)
	}
	if !config.RateLimit.AutoRetry {
		t.Error("Expected auto retry to be enabled by default")
	}
	if config.API.BaseURL != "https://api.clickup.com/api/v2" {
		t.Errorf("Unexpected default base URL: %s", config.API.BaseURL)
	}
	if config.Output.Format != "table" {
		t.Errorf("Expected default output format to be table, got %s", config.Output.Format)
	}
}

func TestLoadFromEnv(t *testing.T) {
	os.Setenv("CLICKUP_API_TOKEN", "pk_test_token")
	os.Setenv("CLICKUP_REQUESTS_PER_MINUTE", "30")
	os.Setenv("CLICKUP_BUFFER_SECONDS", "2")
	os.Setenv("CLICKUP_MAX_RETRIES", "5")
	os.Setenv("CLICKUP_AUTO_RETRY", "false")
	os.Setenv("CLICKUP_LOG_LEVEL", "debug")

	defer func() {
		os.Unsetenv("CLICKUP_API_TOKEN")
		os.Unsetenv("CLICKUP_REQUESTS_PER_MINUTE")
		os.Unsetenv("CLICKUP_BUFFER_SECONDS")
		os.Unsetenv("CLICKUP_MAX_RETRIES")
		os.Unsetenv("CLICKUP_AUTO_RETRY")
		os.Unsetenv("CLICKUP_LOG_LEVEL")
	}()

	config := DefaultConfig()
	if err := config.LoadFromEnv(); err != nil {
		t.Fatalf("Failed to load from environment: %v", err)
	}

	if config.API.Token != "pk_test_token" {
		t.Errorf("Expected token to be pk_test_token, got %s", config.API.Token)
	}
	if config.RateLimit.RequestsPerMinute != 30 {
		t.Errorf("Expected requests per minute to be 30, got %d", config.RateLimit.RequestsPerMinute)
	}
	if config.RateLimit.BufferSeconds != 2 {
		t.Errorf("Expected buffer seconds to be 2, got %d", config.RateLimit.BufferSeconds)
	}
	if config.RateLimit.MaxRetries != 5 {
		t.Errorf("Expected max retries to be 5, got %d", config.RateLimit.MaxRetries)
	}
	if config.RateLimit.AutoRetry {
		t.Error("Expected auto retry to be disabled")
	}
	if config.Logging.Level != "debug" {
		t.Errorf("Expected log level to be debug, got %s", config.Logging.Level)
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "clickup.yaml")

	content := `
api:
  token: "pk_file_token"
  timeout_seconds: 15
rate_limit:
  requests_per_minute: 50
  buffer_seconds: 1
  max_retries: 2
  auto_retry: true
output:
  format: json
  color: false
logging:
  level: warn
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	config := DefaultConfig()
	if err := config.LoadFromFile(path); err != nil {
		t.Fatalf("Failed to load config file: %v", err)
	}

	if config.API.Token != "pk_file_token" {
		t.Errorf("Expected token pk_file_token, got %s", config.API.Token)
	}
	if config.API.TimeoutSeconds != 15 {
		t.Errorf("Expected timeout 15, got %d", config.API.TimeoutSeconds)
	}
	if config.RateLimit.RequestsPerMinute != 50 {
		t.Errorf("Expected requests per minute 50, got %d", config.RateLimit.RequestsPerMinute)
	}
	if config.Output.Format != "json" {
		t.Errorf("Expected output format json, got %s", config.Output.Format)
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	config := DefaultConfig()
	if err := config.LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("Expected error for missing explicit config file")
	}
}

func TestValidate(t *testing.T) {
	config := DefaultConfig()
	if err := config.Validate(); err != nil {
		t.Errorf("Default config should validate: %v", err)
	}

	config.RateLimit.RequestsPerMinute = 0
	if err := config.Validate(); err == nil {
		t.Error("Expected validation error for zero requests per minute")
	}

	config = DefaultConfig()
	config.RateLimit.BufferSeconds = -1
	if err := config.Validate(); err == nil {
		t.Error("Expected validation error for negative buffer")
	}

	config = DefaultConfig()
	config.Output.Format = "csv"
	if err := config.Validate(); err == nil {
		t.Error("Expected validation error for unknown output format")
	}

	config = DefaultConfig()
	config.Logging.Level = "verbose"
	if err := config.Validate(); err == nil {
		t.Error("Expected validation error for unknown log level")
	}
}

func TestMergeCommandLineFlags(t *testing.T) {
	config := DefaultConfig()

	config.MergeCommandLineFlags(map[string]interface{}{
		"token":               "pk_flag_token",
		"requests-per-minute": 10,
		"auto-retry":          false,
		"output":              "json",
	})

	if config.API.Token != "pk_flag_token" {
		t.Errorf("Expected flag token to win, got %s", config.API.Token)
	}
	if config.RateLimit.RequestsPerMinute != 10 {
		t.Errorf("Expected requests per minute 10, got %d", config.RateLimit.RequestsPerMinute)
	}
	if config.RateLimit.AutoRetry {
		t.Error("Expected auto retry disabled via flag")
	}
	if config.Output.Format != "json" {
		t.Errorf("Expected output format json, got %s", config.Output.Format)
	}
}

func TestSaveAndReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sub", "config.yaml")

	config := DefaultConfig()
	config.API.Token = "pk_saved"
	config.RateLimit.RequestsPerMinute = 42

	if err := config.Save(path); err != nil {
		t.Fatalf("Failed to save config: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Saved config missing: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("Expected 0600 permissions, got %v", info.Mode().Perm())
	}

	reloaded := DefaultConfig()
	if err := reloaded.LoadFromFile(path); err != nil {
		t.Fatalf("Failed to reload config: %v", err)
	}
	if reloaded.API.Token != "pk_saved" {
		t.Errorf("Expected reloaded token pk_saved, got %s", reloaded.API.Token)
	}
	if reloaded.RateLimit.RequestsPerMinute != 42 {
		t.Errorf("Expected reloaded requests per minute 42, got %d", reloaded.RateLimit.RequestsPerMinute)
	}
}
