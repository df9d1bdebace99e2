// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package keychain provides centralized, thread-safe keychain operations for
// cypher-gremlin. Server passwords are stored per endpoint so that switching
// between servers does not overwrite credentials, and the PostgreSQL DSN used
// by the import command can be remembered the same way.
package keychain

import (
	"errors"
	"runtime"
	"strings"
	"sync"

	"github.com/99designs/keyring"
)

// Global keychain manager instance
var (
	globalManager *Manager
	globalError   error
	mu            sync.Mutex
)

// ErrNotFound is returned when no secret is stored under a key.
var ErrNotFound = errors.New("keychain: secret not found")

// Manager provides centralized, thread-safe operations for the OS keychain.
type Manager struct {
	mu   sync.RWMutex
	ring keyring.Keyring
}

// ServiceName identifies our keychain/credential store namespace.
const ServiceName = "cypher-gremlin"

// Keys used for storing secrets in the OS keychain.
const (
	keyPasswordPrefix = "server_password:"
	KeyPGDSN          = "pg_dsn"
)

// NewManager creates a new keychain manager with the OS keyring initialized.
func NewManager() (*Manager, error) {
	ring, err := openRing()
	if err != nil {
		return nil, err
	}
	return &Manager{ring: ring}, nil
}

// NewManagerWithRing wraps an already opened keyring.
func NewManagerWithRing(ring keyring.Keyring) *Manager {
	return &Manager{ring: ring}
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

// openRing opens the OS keyring using the native backend of each platform.
func openRing() (keyring.Keyring, error) {
	var allowedBackends []keyring.BackendType
	switch runtime.GOOS {
	case "darwin":
		allowedBackends = []keyring.BackendType{keyring.KeychainBackend, keyring.PassBackend}
	case "windows":
		allowedBackends = []keyring.BackendType{keyring.WinCredBackend}
	default:
		allowedBackends = []keyring.BackendType{
			keyring.SecretServiceBackend,
			keyring.KWalletBackend,
			keyring.PassBackend,
		}
	}

	cfg := keyring.Config{
		ServiceName:     ServiceName,
		AllowedBackends: allowedBackends,
		PassPrefix:      ServiceName,
		WinCredPrefix:   ServiceName,
	}

	ring, err := keyring.Open(cfg)
	if err != nil {
		return nil, errors.New("no usable OS keychain found; set CYPHER_GREMLIN_PASSWORD instead")
	}
	return ring, nil
}

// PasswordKey returns the keychain key for an endpoint URL.
func PasswordKey(endpoint string) string {
	return keyPasswordPrefix + strings.TrimRight(strings.ToLower(endpoint), "/")
}

// SavePassword stores the server password for endpoint.
// This method is thread-safe.
func (m *Manager) SavePassword(endpoint, password string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ring.Set(keyring.Item{Key: PasswordKey(endpoint), Data: []byte(password), Label: "cypher-gremlin " + endpoint})
}

// LoadPassword retrieves the server password for endpoint.
// This method is thread-safe.
func (m *Manager) LoadPassword(endpoint string) (string, error) {
	return m.get(PasswordKey(endpoint))
}

// ClearPassword removes the stored password for endpoint.
// This method is thread-safe.
func (m *Manager) ClearPassword(endpoint string) error {
	return m.remove(PasswordKey(endpoint))
}

// SavePGDSN stores the PostgreSQL DSN used by the import command.
// This method is thread-safe.
func (m *Manager) SavePGDSN(dsn string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ring.Set(keyring.Item{Key: KeyPGDSN, Data: []byte(dsn)})
}

// LoadPGDSN retrieves the stored PostgreSQL DSN.
// This method is thread-safe.
func (m *Manager) LoadPGDSN() (string, error) {
	return m.get(KeyPGDSN)
}

// ClearAll removes every cypher-gremlin secret from the keychain.
// This method is thread-safe and should be used with caution.
func (m *Manager) ClearAll() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	keys, err := m.ring.Keys()
	if err != nil {
		return err
	}
	for _, k := range keys {
		if k == KeyPGDSN || strings.HasPrefix(k, keyPasswordPrefix) {
			_ = m.ring.Remove(k)
		}
	}
	return nil
}

func (m *Manager) get(key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	it, err := m.ring.Get(key)
	if err != nil {
		if errors.Is(err, keyring.ErrKeyNotFound) {
			return "", ErrNotFound
		}
		return "", err
	}
	if len(it.Data) == 0 {
		return "", ErrNotFound
	}
	return string(it.Data), nil
}

func (m *Manager) remove(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.ring.Remove(key); err != nil && !errors.Is(err, keyring.ErrKeyNotFound) {
		return err
	}
	return nil
}
