package auth

import (
	"encoding/json"
	"fmt"

	"github.com/zalando/go-keyring"
)

const (
	keyringService = "clickup-utils"
	keyringKey     = "api_token"
)

// KeyringStore implements TokenStore using the system keychain
type KeyringStore struct{}

// NewKeyringStore creates a new keyring-based token store
func NewKeyringStore() (*KeyringStore, error) {
	// Test if keyring is available
	testKey := "test_availability"
	err := keyring.Set(keyringService, testKey, "test")
	if err != nil {
		return nil, fmt.Errorf("keyring not available: %w", err)
	}
	_ = keyring.Delete(keyringService, testKey)

	return &KeyringStore{}, nil
}

// Store saves the token to the system keychain
func (k *KeyringStore) Store(token *Token) error {
	if token == nil || token.Value == "" {
		return ErrInvalidToken
	}

	data, err := json.Marshal(token)
	if err != nil {
		return fmt.Errorf("failed to marshal token: %w", err)
	}

	if err := keyring.Set(keyringService, keyringKey, string(data)); err != nil {
		return fmt.Errorf("failed to store in keyring: %w", err)
	}

	return nil
}

// Retrieve gets the token from the system keychain
func (k *KeyringStore) Retrieve() (*Token, error) {
	data, err := keyring.Get(keyringService, keyringKey)
	if err != nil {
		if err == keyring.ErrNotFound {
			return nil, ErrTokenNotFound
		}
		return nil, fmt.Errorf("failed to retrieve from keyring: %w", err)
	}

	var token Token
	if err := json.Unmarshal([]byte(data), &token); err != nil {
		return nil, fmt.Errorf("failed to unmarshal token: %w", err)
	}

	return &token, nil
}

// Delete removes the token from the system keychain
func (k *KeyringStore) Delete() error {
	err := keyring.Delete(keyringService, keyringKey)
	if err != nil {
		if err == keyring.ErrNotFound {
			return ErrTokenNotFound
		}
		return fmt.Errorf("failed to delete from keyring: %w", err)
	}

	return nil
}

// Exists checks if a token exists in the keychain
func (k *KeyringStore) Exists() bool {
	_, err := keyring.Get(keyringService, keyringKey)
	return err == nil
}
