package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/davidshq/clickup-utils-sub000/pkg/auth"
	"github.com/davidshq/clickup-utils-sub000/pkg/ui"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration files",
	Long: `Manage clickup configuration files.

Configuration can be loaded from:
  - Command line flags (highest priority)
  - Environment variables (CLICKUP_*)
  - Configuration file
  - Default values (lowest priority)`,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create an example configuration file",
	Long: `Create an example configuration file with all available options.

The file is created in the current directory as '.clickup.yaml'
unless a different path is given with the --config flag.`,
	RunE: runConfigInit,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Long: `Show the effective configuration merged from all sources.

The API token is masked.`,
	RunE: runConfigShow,
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a configuration file",
	RunE:  runConfigValidate,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configValidateCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	configPath := configFile
	if configPath == "" {
		configPath = ".clickup.yaml"
	}

	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("configuration file already exists: %s", configPath)
	}

	exampleConfig := `# ClickUp CLI configuration file
#
# Every option can also be set with an environment variable prefixed
# with CLICKUP_, for example CLICKUP_API_TOKEN.

api:
  # Personal API token (starts with pk_). Prefer 'clickup auth set'
  # over storing the token in this file.
  token: ""

  # API base URL
  base_url: "https://api.clickup.com/api/v2"

  # Request timeout in seconds
  timeout_seconds: 30

# Rate limiting configuration
rate_limit:
  # Requests per minute allowed against the API
  requests_per_minute: 100

  # Safety margin in seconds added to computed waits
  buffer_seconds: 5

  # Retries when the API answers 429
  max_retries: 3

  # Automatically wait and resend on 429
  auto_retry: true

# Output configuration
output:
  # Output format: table, json
  format: "table"

  # Colored output
  color: true

# Logging configuration
logging:
  # Log level: debug, info, warn, error
  level: "info"

  # Log file path (optional, stderr when empty)
  file: ""
`

	if err := os.WriteFile(configPath, []byte(exampleConfig), 0600); err != nil {
		return fmt.Errorf("failed to create configuration file: %w", err)
	}

	ui.PrintSuccess("Configuration file created: " + configPath)
	fmt.Println("\nNext steps:")
	fmt.Println("1. Store your API token with 'clickup auth set'")
	fmt.Println("2. Run 'clickup config validate' to check the configuration")
	fmt.Println("3. List your workspaces with 'clickup team list'")
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	displayCfg := *cfg
	if displayCfg.API.Token != "" {
		displayCfg.API.Token = auth.MaskToken(displayCfg.API.Token)
	}

	data, err := yaml.Marshal(&displayCfg)
	if err != nil {
		return fmt.Errorf("failed to format configuration: %w", err)
	}

	ui.PrintInfo("Configuration", "effective values")
	fmt.Println()
	fmt.Print(string(data))

	fmt.Println("\nConfiguration sources (in order of priority):")
	fmt.Println("1. Command line flags")
	fmt.Println("2. Environment variables (CLICKUP_*)")
	if configFile != "" {
		fmt.Printf("3. Configuration file: %s\n", configFile)
	} else {
		fmt.Println("3. Configuration file: (auto-discovered)")
	}
	fmt.Println("4. Default values")
	return nil
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	path := configFile
	if path == "" {
		possiblePaths := []string{
			".clickup.yaml",
			".clickup.yml",
			"clickup.yaml",
			filepath.Join(os.Getenv("HOME"), ".clickup.yaml"),
			filepath.Join(os.Getenv("HOME"), ".config", "clickup", "config.yaml"),
		}
		for _, p := range possiblePaths {
			if _, err := os.Stat(p); err == nil {
				path = p
				break
			}
		}
		if path == "" {
			return fmt.Errorf("no configuration file found: specify one with --config")
		}
	}

	ui.PrintInfo("Validating configuration", path)

	// cfg already passed Validate during loading; here we re-check the
	// file on its own plus things Validate does not cover
	var warnings []string

	if cfg.API.Token == "" {
		warnings = append(warnings, "no API token configured (set one with 'clickup auth set')")
	}
	if cfg.RateLimit.RequestsPerMinute > 100 {
		warnings = append(warnings, "requests_per_minute above 100 exceeds ClickUp's free-plan quota")
	}
	if cfg.Logging.File != "" {
		dir := filepath.Dir(cfg.Logging.File)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("cannot create log directory: %w", err)
		}
	}

	if len(warnings) > 0 {
		ui.PrintWarning("Configuration warnings:")
		for _, warn := range warnings {
			fmt.Printf("  - %s\n", warn)
		}
		fmt.Println()
	}

	ui.PrintSuccess("Configuration is valid")

	fmt.Println("\nConfiguration summary:")
	fmt.Printf("  Base URL: %s\n", cfg.API.BaseURL)
	fmt.Printf("  Rate limit: %d requests/minute (buffer %ds)\n", cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.BufferSeconds)
	fmt.Printf("  Max retries: %d (auto retry: %t)\n", cfg.RateLimit.MaxRetries, cfg.RateLimit.AutoRetry)
	fmt.Printf("  Output format: %s\n", cfg.Output.Format)
	fmt.Printf("  Log level: %s\n", cfg.Logging.Level)
	return nil
}
