package session

import (
	"errors"
	"testing"

	bmerrors "bimigrate/cli/internal/errors"
	"bimigrate/cli/internal/platform"
)

func newTestStore() *Store {
	return NewStore(NewMemorySubstrate())
}

func TestGetSessionBeforeLogin(t *testing.T) {
	s := newTestStore()
	if got := s.GetSession(); got != nil {
		t.Fatalf("GetSession() = %+v, want nil before login", got)
	}
}

func TestSetSessionThenGet(t *testing.T) {
	s := newTestStore()
	if err := s.SetSession(platform.Tableau, "user-42", "tok-abc"); err != nil {
		t.Fatalf("SetSession() error: %v", err)
	}

	snap := s.GetSession()
	if snap == nil {
		t.Fatal("GetSession() = nil after SetSession")
	}
	if snap.Platform != platform.Tableau {
		t.Errorf("Platform = %v, want %v", snap.Platform, platform.Tableau)
	}
	if snap.PrincipalID != "user-42" {
		t.Errorf("PrincipalID = %q, want %q", snap.PrincipalID, "user-42")
	}
	if snap.AuthToken != "tok-abc" {
		t.Errorf("AuthToken = %q, want %q", snap.AuthToken, "tok-abc")
	}
}

func TestSetSessionClearsSelections(t *testing.T) {
	s := newTestStore()
	if err := s.SetSession(platform.Tableau, "u1", "t1"); err != nil {
		t.Fatalf("SetSession() error: %v", err)
	}
	if err := s.SetSelection(LevelProject, Entity{ID: "p1", Name: "Finance"}); err != nil {
		t.Fatalf("SetSelection() error: %v", err)
	}

	// Identity change: selection must not survive.
	if err := s.SetSession(platform.MicroStrategy, "u2", "t2"); err != nil {
		t.Fatalf("SetSession() error: %v", err)
	}
	if got := s.GetSelection(LevelProject); got != nil {
		t.Errorf("GetSelection(project) = %+v after re-login, want nil", got)
	}
}

func TestClearSessionIdempotent(t *testing.T) {
	s := newTestStore()
	if err := s.SetSession(platform.Tableau, "u1", "t1"); err != nil {
		t.Fatalf("SetSession() error: %v", err)
	}
	if err := s.ClearSession(); err != nil {
		t.Fatalf("ClearSession() error: %v", err)
	}
	if got := s.GetSession(); got != nil {
		t.Fatalf("GetSession() = %+v after clear, want nil", got)
	}
	// Clearing again must not fail.
	if err := s.ClearSession(); err != nil {
		t.Fatalf("second ClearSession() error: %v", err)
	}
}

func TestSetSelectionClearsDeeperLevels(t *testing.T) {
	s := newTestStore()
	if err := s.SetSession(platform.Tableau, "u1", "t1"); err != nil {
		t.Fatalf("SetSession() error: %v", err)
	}

	mustSelect := func(level Level, e Entity) {
		t.Helper()
		if err := s.SetSelection(level, e); err != nil {
			t.Fatalf("SetSelection(%s) error: %v", level, err)
		}
	}

	mustSelect(LevelProject, Entity{ID: "p1"})
	mustSelect(LevelWorkbook, Entity{ID: "w1", ProjectID: "p1"})
	mustSelect(LevelDashboard, Entity{ID: "d1", WorkbookID: "w1"})

	// Re-selecting the project clears workbook and dashboard.
	mustSelect(LevelProject, Entity{ID: "p2"})
	if got := s.GetSelection(LevelWorkbook); got != nil {
		t.Errorf("GetSelection(workbook) = %+v, want nil", got)
	}
	if got := s.GetSelection(LevelDashboard); got != nil {
		t.Errorf("GetSelection(dashboard) = %+v, want nil", got)
	}
	if got := s.GetSelection(LevelProject); got == nil || got.ID != "p2" {
		t.Errorf("GetSelection(project) = %+v, want p2", got)
	}

	// Selecting a workbook clears only the dashboard.
	mustSelect(LevelWorkbook, Entity{ID: "w2", ProjectID: "p2"})
	mustSelect(LevelDashboard, Entity{ID: "d2", WorkbookID: "w2"})
	mustSelect(LevelWorkbook, Entity{ID: "w3", ProjectID: "p2"})
	if got := s.GetSelection(LevelDashboard); got != nil {
		t.Errorf("GetSelection(dashboard) = %+v after workbook change, want nil", got)
	}
	if got := s.GetSelection(LevelProject); got == nil || got.ID != "p2" {
		t.Errorf("GetSelection(project) = %+v, want p2 untouched", got)
	}
}

func TestSetSelectionUnknownLevel(t *testing.T) {
	s := newTestStore()
	if err := s.SetSelection(Level("site"), Entity{ID: "x"}); err == nil {
		t.Fatal("SetSelection(unknown level) error = nil, want error")
	}
}

// failingSubstrate refuses every write to exercise the degrade path.
type failingSubstrate struct{ Substrate }

func (f *failingSubstrate) SaveState(data []byte) error { return errors.New("disk full") }
func (f *failingSubstrate) SaveToken(tok string) error  { return errors.New("keychain locked") }

func TestStorageFailureDegradesToMemory(t *testing.T) {
	s := NewStore(&failingSubstrate{Substrate: NewMemorySubstrate()})

	err := s.SetSession(platform.Tableau, "u1", "t1")
	if err == nil {
		t.Fatal("SetSession() error = nil, want StorageUnavailable")
	}
	if !bmerrors.HasKind(err, bmerrors.StorageUnavailable) {
		t.Fatalf("SetSession() error = %v, want kind %s", err, bmerrors.StorageUnavailable)
	}

	// The in-memory mirror still took the write: navigation is not blocked.
	snap := s.GetSession()
	if snap == nil || snap.PrincipalID != "u1" {
		t.Fatalf("GetSession() = %+v, want in-memory session despite storage failure", snap)
	}
	if !s.Degraded() {
		t.Error("Degraded() = false, want true after storage failure")
	}

	// Further writes succeed silently in memory-only mode, apart from the
	// typed degradation error.
	if err := s.SetSelection(LevelProject, Entity{ID: "p1"}); err != nil {
		if !bmerrors.HasKind(err, bmerrors.StorageUnavailable) {
			t.Errorf("SetSelection() error = %v, want StorageUnavailable kind", err)
		}
	}
	if got := s.GetSelection(LevelProject); got == nil || got.ID != "p1" {
		t.Errorf("GetSelection(project) = %+v, want p1 from memory", got)
	}
}
