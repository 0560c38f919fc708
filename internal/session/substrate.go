// Copyright (c) 2025 Bimigrate
// Licensed under the MIT License. See LICENSE file in the project root for details.

package session

import (
	"errors"
	"os"
	"path/filepath"

	"bimigrate/cli/internal/keychain"
	"bimigrate/cli/internal/xdg"
)

// Substrate is the persistence layer behind the session store. Implementations
// can be swapped (disk+keychain, memory) without touching callers.
type Substrate interface {
	LoadState() ([]byte, error)
	SaveState(data []byte) error
	ClearState() error

	LoadToken() (string, error)
	SaveToken(token string) error
	ClearToken() error
}

const stateFileName = "session.json"

// diskSubstrate persists non-secret state as JSON in the XDG state dir and
// the auth token in the OS keychain.
type diskSubstrate struct{}

// NewDiskSubstrate returns the default persistence substrate.
func NewDiskSubstrate() Substrate { return &diskSubstrate{} }

func (d *diskSubstrate) statePath() (string, error) {
	dir, err := xdg.StateDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, stateFileName), nil
}

func (d *diskSubstrate) LoadState() ([]byte, error) {
	p, err := d.statePath()
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	return data, nil
}

func (d *diskSubstrate) SaveState(data []byte) error {
	p, err := d.statePath()
	if err != nil {
		return err
	}
	return os.WriteFile(p, data, 0o600)
}

func (d *diskSubstrate) ClearState() error {
	p, err := d.statePath()
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func (d *diskSubstrate) LoadToken() (string, error) {
	km, err := keychain.GetManager()
	if err != nil {
		return "", err
	}
	token, err := km.LoadAuthToken()
	if err != nil {
		// A missing token is not an error: it means logged out.
		return "", nil
	}
	return token, nil
}

func (d *diskSubstrate) SaveToken(token string) error {
	km, err := keychain.GetManager()
	if err != nil {
		return err
	}
	return km.SaveAuthToken(token)
}

func (d *diskSubstrate) ClearToken() error {
	km, err := keychain.GetManager()
	if err != nil {
		return err
	}
	return km.ClearAuth()
}

// memorySubstrate keeps everything in process memory. It backs the degraded
// mode of the store and unit tests.
type memorySubstrate struct {
	state []byte
	token string
}

// NewMemorySubstrate returns a volatile substrate with no persistence.
func NewMemorySubstrate() Substrate { return &memorySubstrate{} }

func (m *memorySubstrate) LoadState() ([]byte, error)  { return m.state, nil }
func (m *memorySubstrate) SaveState(data []byte) error { m.state = data; return nil }
func (m *memorySubstrate) ClearState() error           { m.state = nil; return nil }
func (m *memorySubstrate) LoadToken() (string, error)  { return m.token, nil }
func (m *memorySubstrate) SaveToken(token string) error {
	m.token = token
	return nil
}
func (m *memorySubstrate) ClearToken() error { m.token = ""; return nil }
