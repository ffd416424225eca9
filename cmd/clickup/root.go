package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/davidshq/clickup-utils-sub000/pkg/auth"
	"github.com/davidshq/clickup-utils-sub000/pkg/clickup"
	"github.com/davidshq/clickup-utils-sub000/pkg/config"
	"github.com/davidshq/clickup-utils-sub000/pkg/logger"
	"github.com/davidshq/clickup-utils-sub000/pkg/ui"
)

var (
	// Version information, overridden at build time
	version   = "1.0.0"
	gitCommit = "unknown"
	buildDate = "unknown"

	// Global flags
	configFile   string
	logLevel     string
	outputFormat string
	rateLimit    int
	noColor      bool

	// cfg is populated by the persistent pre-run for every command
	cfg *config.Config
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "clickup",
	Short: "A command-line client for the ClickUp API",
	Long: `clickup is a command-line tool for working with ClickUp workspaces,
spaces, lists and tasks.

Features:
  - Secure API token storage using the system keychain
  - Client-side rate limiting that respects ClickUp's per-minute quota
  - Automatic retry with exponential backoff on transient failures
  - Table or JSON output for every listing command`,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, gitCommit, buildDate),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		flags := make(map[string]interface{})
		if logLevel != "" {
			flags["log-level"] = logLevel
		}
		if outputFormat != "" {
			flags["output"] = outputFormat
		}
		if rateLimit > 0 {
			flags["requests-per-minute"] = rateLimit
		}

		var err error
		cfg, err = config.Load(configFile, flags)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		if noColor || !cfg.Output.Color {
			ui.DisableColor()
		}

		logger.Initialize(&cfg.Logging)
		return nil
	},
}

// Execute runs the root command with the given context
func Execute(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		ui.PrintError("Error", err.Error())
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (default is $HOME/.clickup.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "", "output format (table, json)")
	rootCmd.PersistentFlags().IntVar(&rateLimit, "rate-limit", 0, "requests per minute (overrides config)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	rootCmd.SetVersionTemplate(`clickup {{.Version}}
Go Version: ` + runtime.Version() + `
OS/Arch: ` + runtime.GOOS + `/` + runtime.GOARCH + `
`)

	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

// newAPIClient resolves the API token and builds a client. Token
// resolution order: config/env, then the secure token stores.
func newAPIClient() (*clickup.Client, error) {
	if cfg.API.Token == "" {
		manager, err := auth.NewManager()
		if err != nil {
			return nil, fmt.Errorf("failed to initialize token manager: %w", err)
		}
		token, err := manager.Retrieve()
		if err != nil {
			return nil, fmt.Errorf("no API token configured: run 'clickup auth set' or export CLICKUP_API_TOKEN")
		}
		cfg.API.Token = token.Value
	}

	return clickup.NewClient(cfg, logger.GetLogger()), nil
}

// printResult renders v as JSON when requested, otherwise prints the
// pre-rendered table
func printResult(v interface{}, table string) error {
	if cfg.Output.Format == "json" {
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode output: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	fmt.Println(table)
	return nil
}
