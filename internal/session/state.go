// Package session is the single source of truth for "who is logged in, to
// which platform, and what is currently selected". Every command reads and
// writes session state through this package instead of threading it around.
//
// State is split across two substrates: the auth token lives in the OS
// keychain, everything else in a JSON file in the XDG state dir. When either
// substrate is unavailable the store degrades to in-memory state for the rest
// of the process; losing persistence must not block the operator.
package session

import (
	"bimigrate/cli/internal/platform"
)

// Level names one of the three selection levels, ordered by depth.
type Level string

const (
	LevelProject   Level = "project"
	LevelWorkbook  Level = "workbook"
	LevelDashboard Level = "dashboard"
)

// depth returns the position of the level in the selection chain.
// Setting a level clears everything deeper than it.
func (l Level) depth() int {
	switch l {
	case LevelProject:
		return 0
	case LevelWorkbook:
		return 1
	case LevelDashboard:
		return 2
	default:
		return -1
	}
}

// Valid reports whether l is a known selection level.
func (l Level) Valid() bool { return l.depth() >= 0 }

// Entity is a selection pointer: enough identity to re-scope later requests,
// not a full resource record.
type Entity struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	// ProjectID and WorkbookID carry the parent chain for deeper levels.
	ProjectID  string `json:"projectId,omitempty"`
	WorkbookID string `json:"workbookId,omitempty"`
}

// Snapshot is a read-only view of the authenticated session.
type Snapshot struct {
	Platform    platform.Platform
	PrincipalID string
	AuthToken   string
}

// state is the persisted (non-secret) portion of the session.
// Field names mirror the stored key/value layout.
type state struct {
	IsAuthenticated   bool    `json:"isAuthenticated"`
	UserID            string  `json:"userId"`
	PlatformIdentity  string  `json:"platformIdentity"`
	SelectedProject   *Entity `json:"selectedProject,omitempty"`
	SelectedWorkbook  *Entity `json:"selectedWorkbook,omitempty"`
	SelectedDashboard *Entity `json:"selectedDashboard,omitempty"`
}
