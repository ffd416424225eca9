package auth

import (
	"os"
	"time"
)

// EnvironmentStore implements TokenStore using the CLICKUP_API_TOKEN
// environment variable. It is read-only.
type EnvironmentStore struct{}

// NewEnvironmentStore creates a new environment-based token store
func NewEnvironmentStore() *EnvironmentStore {
	return &EnvironmentStore{}
}

// Store is not supported for environment variables
func (e *EnvironmentStore) Store(token *Token) error {
	return ErrStoreUnavailable
}

// Retrieve gets the token from the environment
func (e *EnvironmentStore) Retrieve() (*Token, error) {
	value := os.Getenv("CLICKUP_API_TOKEN")
	if value == "" {
		return nil, ErrTokenNotFound
	}

	return &Token{
		Value:        value,
		LastModified: time.Now(),
	}, nil
}

// Delete is not supported for environment variables
func (e *EnvironmentStore) Delete() error {
	return ErrStoreUnavailable
}

// Exists checks if the environment token is set
func (e *EnvironmentStore) Exists() bool {
	return os.Getenv("CLICKUP_API_TOKEN") != ""
}
