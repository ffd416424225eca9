package auth

import (
	"sync"
)

// MockStore implements TokenStore for testing purposes
type MockStore struct {
	token *Token
	mu    sync.RWMutex

	// Error injection for testing
	StoreError    error
	RetrieveError error
	DeleteError   error
}

// NewMockStore creates a new mock token store
func NewMockStore() *MockStore {
	return &MockStore{}
}

// Store saves the token to the mock store
func (m *MockStore) Store(token *Token) error {
	if m.StoreError != nil {
		return m.StoreError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if token == nil || token.Value == "" {
		return ErrInvalidToken
	}

	tokenCopy := *token
	m.token = &tokenCopy

	return nil
}

// Retrieve gets the token from the mock store
func (m *MockStore) Retrieve() (*Token, error) {
	if m.RetrieveError != nil {
		return nil, m.RetrieveError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.token == nil {
		return nil, ErrTokenNotFound
	}

	tokenCopy := *m.token
	return &tokenCopy, nil
}

// Delete removes the token from the mock store
func (m *MockStore) Delete() error {
	if m.DeleteError != nil {
		return m.DeleteError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.token == nil {
		return ErrTokenNotFound
	}

	m.token = nil
	return nil
}

// Exists checks if a token is held by the mock store
func (m *MockStore) Exists() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.token != nil
}

// Clear removes the token from the mock store (useful for test cleanup)
func (m *MockStore) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.token = nil
}

// NewMockManager creates a Manager with a mock store for testing
func NewMockManager() (*Manager, *MockStore) {
	mockStore := NewMockStore()
	manager := &Manager{
		stores: []TokenStore{mockStore},
	}
	return manager, mockStore
}

// NewMockManagerWithStores creates a Manager with multiple stores for testing
func NewMockManagerWithStores(stores ...TokenStore) *Manager {
	return &Manager{
		stores: stores,
	}
}
