// Copyright (c) 2025 Bimigrate
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package keychain provides centralized, thread-safe keychain operations for bimigrate.
// This module manages all interactions with the OS keychain/credential store,
// providing a unified interface for storing and retrieving sensitive data such as
// the platform auth token and the staging database DSN.
//
// The package supports multiple operating systems including macOS Keychain and
// Windows Credential Manager, with thread-safe operations and proper error handling.
package keychain

import (
	"errors"
	"runtime"
	"sync"

	"github.com/99designs/keyring"
)

// Global keychain manager instance
var (
	globalManager *Manager
	globalError   error
	mu            sync.Mutex
)

// Manager provides centralized, thread-safe operations for the OS keychain.
type Manager struct {
	mu      sync.RWMutex
	ring    keyring.Keyring
	backend keychainBackend
}

// keychainBackend defines the interface for keychain operations.
type keychainBackend interface {
	Set(key, value string) error
	Get(key string) (string, error)
	Delete(key string) error
}

// ServiceName identifies our keychain/credential store namespace.
const ServiceName = "bimigrate"

// Keys used for storing secrets in the OS keychain.
const (
	KeyAuthToken  = "auth_token"
	KeyStagingDSN = "staging_dsn"
)

// NewManager creates a new keychain manager with the OS keyring initialized.
func NewManager() (*Manager, error) {
	// Try native security backend first on macOS
	if runtime.GOOS == "darwin" {
		backend, err := newSecurityBackend()
		if err == nil {
			return &Manager{backend: backend}, nil
		}
		// Fall through to keyring library if security command fails
	}

	ring, err := openRing()
	if err != nil {
		return nil, err
	}

	return &Manager{
		ring: ring,
	}, nil
}

// GetManager returns the global keychain manager instance.
// If not initialized, it will be created on first call.
// If initialization fails, it will retry on subsequent calls.
func GetManager() (*Manager, error) {
	mu.Lock()
	defer mu.Unlock()

	if globalManager != nil {
		return globalManager, nil
	}

	globalManager, globalError = NewManager()
	if globalError != nil {
		return nil, globalError
	}

	return globalManager, nil
}

// openRing opens the OS keyring using native platform backends where
// available, with the encrypted file backend as a last resort so Linux
// operators without a secret service are not locked out.
func openRing() (keyring.Keyring, error) {
	var allowedBackends []keyring.BackendType
	switch runtime.GOOS {
	case "darwin":
		allowedBackends = []keyring.BackendType{
			keyring.KeychainBackend,
			keyring.PassBackend,
		}
	case "windows":
		allowedBackends = []keyring.BackendType{keyring.WinCredBackend}
	default:
		allowedBackends = []keyring.BackendType{
			keyring.SecretServiceBackend,
			keyring.PassBackend,
		}
	}

	cfg := keyring.Config{
		ServiceName:     ServiceName,
		AllowedBackends: allowedBackends,
		PassPrefix:      ServiceName,
	}
	if runtime.GOOS == "windows" {
		cfg.WinCredPrefix = ServiceName
	}

	ring, err := keyring.Open(cfg)
	if err != nil {
		if runtime.GOOS == "darwin" {
			return nil, errors.New("macOS Keychain unavailable. On macOS 26.0+, install 'pass': brew install pass gnupg && gpg --generate-key && pass init <gpg-key-id>")
		}
		return nil, err
	}

	return ring, nil
}

// SaveAuthToken stores the platform auth token in the OS keychain.
// This method is thread-safe.
func (m *Manager) SaveAuthToken(token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.backend != nil {
		return m.backend.Set(KeyAuthToken, token)
	}
	return m.ring.Set(keyring.Item{Key: KeyAuthToken, Data: []byte(token)})
}

// LoadAuthToken retrieves the platform auth token from the keychain.
// This method is thread-safe.
func (m *Manager) LoadAuthToken() (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.backend != nil {
		token, err := m.backend.Get(KeyAuthToken)
		if err != nil {
			return "", err
		}
		if token == "" {
			return "", errors.New("empty auth token")
		}
		return token, nil
	}

	it, err := m.ring.Get(KeyAuthToken)
	if err != nil {
		return "", err
	}
	if len(it.Data) == 0 {
		return "", errors.New("empty auth token")
	}
	return string(it.Data), nil
}

// ClearAuth removes the auth token from the keychain.
// This method is thread-safe.
func (m *Manager) ClearAuth() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.backend != nil {
		_ = m.backend.Delete(KeyAuthToken)
		return nil
	}
	_ = m.ring.Remove(KeyAuthToken)
	return nil
}

// SaveStagingDSN stores the staging database DSN in the keychain.
// This method is thread-safe.
func (m *Manager) SaveStagingDSN(dsn string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.backend != nil {
		return m.backend.Set(KeyStagingDSN, dsn)
	}
	return m.ring.Set(keyring.Item{Key: KeyStagingDSN, Data: []byte(dsn)})
}

// LoadStagingDSN retrieves the staging database DSN from the keychain.
// This method is thread-safe.
func (m *Manager) LoadStagingDSN() (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.backend != nil {
		return m.backend.Get(KeyStagingDSN)
	}

	it, err := m.ring.Get(KeyStagingDSN)
	if err != nil {
		return "", err
	}
	return string(it.Data), nil
}

// ClearStagingDSN removes the staging DSN from the keychain.
// This method is thread-safe.
func (m *Manager) ClearStagingDSN() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.backend != nil {
		_ = m.backend.Delete(KeyStagingDSN)
		return nil
	}
	_ = m.ring.Remove(KeyStagingDSN)
	return nil
}

// ClearAll removes all secrets from the keychain.
// This method is thread-safe and should be used with caution.
func (m *Manager) ClearAll() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.backend != nil {
		_ = m.backend.Delete(KeyAuthToken)
		_ = m.backend.Delete(KeyStagingDSN)
		return nil
	}
	_ = m.ring.Remove(KeyAuthToken)
	_ = m.ring.Remove(KeyStagingDSN)
	return nil
}
