// Copyright (c) 2025 Bimigrate
// Licensed under the MIT License. See LICENSE file in the project root for details.

package session

import (
	"encoding/json"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"bimigrate/cli/internal/errors"
	"bimigrate/cli/internal/logging"
	"bimigrate/cli/internal/platform"
)

// Store owns session identity, the auth token, and the selection pointers.
// All methods are safe for concurrent use. Persistence failures never block a
// call: the in-memory mirror is always updated first and a StorageUnavailable
// error is returned so the caller can warn.
type Store struct {
	mu       sync.RWMutex
	sub      Substrate
	st       state
	token    string
	loaded   bool
	degraded bool
}

// NewStore creates a session store over the given substrate.
func NewStore(sub Substrate) *Store {
	return &Store{sub: sub}
}

var (
	defaultOnce  sync.Once
	defaultStore *Store
)

// Default returns the process-wide session store over the disk substrate.
func Default() *Store {
	defaultOnce.Do(func() {
		defaultStore = NewStore(NewDiskSubstrate())
	})
	return defaultStore
}

// load pulls persisted state into the memory mirror once. Substrate failures
// flip the store into degraded (memory-only) mode.
func (s *Store) load() {
	if s.loaded {
		return
	}
	s.loaded = true

	data, err := s.sub.LoadState()
	if err != nil {
		s.degrade("load session state", err)
		return
	}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &s.st); err != nil {
			// Corrupt state is treated as logged out, not fatal.
			logging.L().Warn("session state unreadable, resetting",
				zap.Error(err))
			s.st = state{}
		}
	}
	token, err := s.sub.LoadToken()
	if err != nil {
		s.degrade("load auth token", err)
		return
	}
	s.token = token
}

func (s *Store) degrade(op string, err error) {
	if !s.degraded {
		logging.L().Warn("session storage unavailable, continuing in memory only",
			zap.String("op", op), zap.Error(err))
	}
	s.degraded = true
}

// persist writes the mirror back to the substrate. Returns a typed
// StorageUnavailable error on failure; memory state is already updated and is
// not rolled back (best-effort, not atomic).
func (s *Store) persist() error {
	if s.degraded {
		return errors.New(errors.StorageUnavailable, "session persistence degraded to memory only")
	}
	data, err := json.Marshal(s.st)
	if err != nil {
		return errors.Wrap(errors.StorageUnavailable, "encode session state", err)
	}
	if err := s.sub.SaveState(data); err != nil {
		s.degrade("save session state", err)
		return errors.Wrap(errors.StorageUnavailable, "save session state", err)
	}
	return nil
}

// SetSession records a fresh identity after login. Any previously selected
// project/workbook/dashboard is cleared: selection does not survive an
// identity change.
func (s *Store) SetSession(p platform.Platform, principalID, authToken string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.load()

	s.st = state{
		IsAuthenticated:  true,
		UserID:           principalID,
		PlatformIdentity: string(p),
	}
	s.token = authToken

	var firstErr error
	if !s.degraded {
		if err := s.sub.SaveToken(authToken); err != nil {
			s.degrade("save auth token", err)
			firstErr = errors.Wrap(errors.StorageUnavailable, "save auth token", err)
		}
	}
	if err := s.persist(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

// ClearSession removes every key this layer owns. Idempotent.
func (s *Store) ClearSession() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.load()

	s.st = state{}
	s.token = ""

	if s.degraded {
		return nil
	}
	var firstErr error
	if err := s.sub.ClearToken(); err != nil {
		firstErr = errors.Wrap(errors.StorageUnavailable, "clear auth token", err)
	}
	if err := s.sub.ClearState(); err != nil && firstErr == nil {
		firstErr = errors.Wrap(errors.StorageUnavailable, "clear session state", err)
	}
	return firstErr
}

// GetSession returns the current authenticated session, or nil when nobody is
// logged in. Pure read, never fails.
func (s *Store) GetSession() *Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.load()

	if !s.st.IsAuthenticated {
		return nil
	}
	return &Snapshot{
		Platform:    platform.Parse(s.st.PlatformIdentity),
		PrincipalID: s.st.UserID,
		AuthToken:   s.token,
	}
}

// SetSelection overwrites the given level and clears all deeper levels:
// setting a project clears workbook and dashboard, setting a workbook clears
// dashboard. This is the only place selection consistency is enforced.
func (s *Store) SetSelection(level Level, e Entity) error {
	if !level.Valid() {
		return fmt.Errorf("unknown selection level %q", level)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.load()

	switch level {
	case LevelProject:
		s.st.SelectedProject = &e
		s.st.SelectedWorkbook = nil
		s.st.SelectedDashboard = nil
	case LevelWorkbook:
		s.st.SelectedWorkbook = &e
		s.st.SelectedDashboard = nil
	case LevelDashboard:
		s.st.SelectedDashboard = &e
	}
	return s.persist()
}

// GetSelection returns the selection at the given level, or nil.
func (s *Store) GetSelection(level Level) *Entity {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.load()

	switch level {
	case LevelProject:
		return s.st.SelectedProject
	case LevelWorkbook:
		return s.st.SelectedWorkbook
	case LevelDashboard:
		return s.st.SelectedDashboard
	default:
		return nil
	}
}

// Degraded reports whether persistence has been lost for this process.
func (s *Store) Degraded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.degraded
}
