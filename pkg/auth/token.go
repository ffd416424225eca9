package auth

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"
)

// Token represents a stored ClickUp API token
type Token struct {
	Value        string    `json:"value"`
	LastModified time.Time `json:"last_modified"`
}

// TokenStore is the interface for storing and retrieving the API token
type TokenStore interface {
	// Store saves the token
	Store(token *Token) error

	// Retrieve gets the stored token
	Retrieve() (*Token, error)

	// Delete removes the stored token
	Delete() error

	// Exists checks if a token is stored
	Exists() bool
}

// Manager handles token storage with fallback mechanisms
type Manager struct {
	stores []TokenStore
}

// NewManager creates a new token manager with appropriate storage backends
func NewManager() (*Manager, error) {
	var stores []TokenStore

	// Try keyring first (system keychain)
	keyringStore, err := NewKeyringStore()
	if err == nil {
		stores = append(stores, keyringStore)
	}

	// Always add encrypted file store as fallback
	configDir, err := getConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get config directory: %w", err)
	}

	encryptedStore, err := NewEncryptedFileStore(filepath.Join(configDir, "token.enc"))
	if err != nil {
		return nil, fmt.Errorf("failed to create encrypted store: %w", err)
	}
	stores = append(stores, encryptedStore)

	// Add environment store as last resort
	stores = append(stores, NewEnvironmentStore())

	return &Manager{stores: stores}, nil
}

// Store saves the token using the first available store
func (m *Manager) Store(token *Token) error {
	if token == nil || token.Value == "" {
		return ErrInvalidToken
	}
	if !looksLikeToken(token.Value) {
		return fmt.Errorf("%w: expected a personal token starting with pk_", ErrInvalidToken)
	}

	token.LastModified = time.Now()

	var lastErr error
	for _, store := range m.stores {
		if err := store.Store(token); err == nil {
			return nil
		} else {
			lastErr = err
		}
	}

	if lastErr != nil {
		return fmt.Errorf("failed to store token: %w", lastErr)
	}
	return errors.New("no available token stores")
}

// Retrieve gets the token from the first store that has it
func (m *Manager) Retrieve() (*Token, error) {
	for _, store := range m.stores {
		if token, err := store.Retrieve(); err == nil && token != nil {
			return token, nil
		}
	}
	return nil, ErrTokenNotFound
}

// Delete removes the token from all stores
func (m *Manager) Delete() error {
	var deleted bool
	var lastErr error

	for _, store := range m.stores {
		if err := store.Delete(); err == nil {
			deleted = true
		} else {
			lastErr = err
		}
	}

	if !deleted && lastErr != nil {
		return fmt.Errorf("failed to delete token: %w", lastErr)
	}
	if !deleted {
		return ErrTokenNotFound
	}

	return nil
}

// Exists reports whether any store holds a token
func (m *Manager) Exists() bool {
	for _, store := range m.stores {
		if store.Exists() {
			return true
		}
	}
	return false
}

// looksLikeToken does a shallow format check; ClickUp personal tokens
// carry a pk_ prefix
func looksLikeToken(s string) bool {
	return strings.HasPrefix(s, "pk_") && len(s) > 8
}

// getConfigDir returns the configuration directory path
func getConfigDir() (string, error) {
	var configDir string

	switch runtime.GOOS {
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		configDir = filepath.Join(home, "Library", "Application Support", "clickup-utils")
	case "windows":
		configDir = filepath.Join(os.Getenv("APPDATA"), "clickup-utils")
	default: // Linux and others
		if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
			configDir = filepath.Join(xdgConfig, "clickup-utils")
		} else {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", err
			}
			configDir = filepath.Join(home, ".config", "clickup-utils")
		}
	}

	if err := os.MkdirAll(configDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	return configDir, nil
}

// MaskToken masks all but the first 4 and last 4 characters of a token
func MaskToken(s string) string {
	if len(s) <= 8 {
		return "********"
	}
	return s[:4] + "..." + s[len(s)-4:]
}

// Errors
var (
	ErrTokenNotFound    = errors.New("token not found")
	ErrInvalidToken     = errors.New("invalid token")
	ErrStoreUnavailable = errors.New("token store unavailable")
)
