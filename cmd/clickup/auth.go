package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/davidshq/clickup-utils-sub000/pkg/auth"
	"github.com/davidshq/clickup-utils-sub000/pkg/ui"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage the API token",
	Long: `Manage the stored ClickUp API token.

The token is stored using:
  - System keychain (when available)
  - Encrypted file with PBKDF2 key derivation
  - CLICKUP_API_TOKEN environment variable (read-only fallback)

Never share your token or config files!`,
}

var authSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Store the API token securely",
	Long: `Store the ClickUp API token in the system keychain or an
encrypted file. You will be prompted for the token; input is hidden.`,
	Example: `  clickup auth set`,
	RunE:    runAuthSet,
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether a token is stored",
	RunE:  runAuthStatus,
}

var authRemoveCmd = &cobra.Command{
	Use:   "remove",
	Short: "Remove the stored token",
	RunE:  runAuthRemove,
}

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(authSetCmd)
	authCmd.AddCommand(authStatusCmd)
	authCmd.AddCommand(authRemoveCmd)
}

func runAuthSet(cmd *cobra.Command, args []string) error {
	manager, err := auth.NewManager()
	if err != nil {
		return fmt.Errorf("failed to initialize token manager: %w", err)
	}

	reader := bufio.NewReader(os.Stdin)

	if manager.Exists() {
		fmt.Print("A token is already stored. Replace it? (y/N): ")
		input, _ := reader.ReadString('\n')
		if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(input)), "y") {
			return nil
		}
	} else {
		auth.ShowQuickTokenGuide()
		fmt.Println()
	}

	fmt.Print("API token (input hidden): ")
	value, err := readPassword()
	if err != nil {
		return fmt.Errorf("failed to read token: %w", err)
	}

	token := &auth.Token{
		Value:        strings.TrimSpace(value),
		LastModified: time.Now(),
	}

	if err := manager.Store(token); err != nil {
		return fmt.Errorf("failed to store token: %w", err)
	}

	ui.PrintSuccess("Token stored: " + auth.MaskToken(token.Value))
	fmt.Println("\nTry it out:")
	fmt.Println("  clickup team list")
	return nil
}

func runAuthStatus(cmd *cobra.Command, args []string) error {
	manager, err := auth.NewManager()
	if err != nil {
		return fmt.Errorf("failed to initialize token manager: %w", err)
	}

	token, err := manager.Retrieve()
	if err != nil {
		ui.PrintWarning("No token stored")
		fmt.Println("\nStore one with 'clickup auth set' or export CLICKUP_API_TOKEN.")
		return nil
	}

	ui.PrintInfo("Token", auth.MaskToken(token.Value))
	if !token.LastModified.IsZero() {
		ui.PrintInfo("Last modified", token.LastModified.Format("2006-01-02 15:04:05"))
	}
	return nil
}

func runAuthRemove(cmd *cobra.Command, args []string) error {
	manager, err := auth.NewManager()
	if err != nil {
		return fmt.Errorf("failed to initialize token manager: %w", err)
	}

	reader := bufio.NewReader(os.Stdin)
	fmt.Print("Remove the stored token? (y/N): ")
	input, _ := reader.ReadString('\n')
	if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(input)), "y") {
		return nil
	}

	if err := manager.Delete(); err != nil {
		return fmt.Errorf("failed to remove token: %w", err)
	}

	ui.PrintSuccess("Token removed")
	return nil
}

// readPassword reads a value from stdin without echoing
func readPassword() (string, error) {
	if term.IsTerminal(int(syscall.Stdin)) {
		password, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Println()
		if err == nil {
			return string(password), nil
		}
	}

	// Fallback to regular input
	reader := bufio.NewReader(os.Stdin)
	input, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(input), nil
}
