package guard

import (
	"testing"

	"bimigrate/cli/internal/platform"
)

func TestCheckDeniesSignedOut(t *testing.T) {
	d := Check(platform.None, false, platform.Tableau, "workbooks")
	if d.Allow {
		t.Fatal("signed-out access must be denied")
	}
	if d.Reason != ReasonNotAuthenticated {
		t.Fatalf("reason = %q, want %q", d.Reason, ReasonNotAuthenticated)
	}
	if d.Target != TargetLogin {
		t.Fatalf("target = %q, want %q", d.Target, TargetLogin)
	}
	if d.From != "workbooks" {
		t.Fatalf("from = %q, want workbooks", d.From)
	}
}

func TestCheckDeniesWrongPlatform(t *testing.T) {
	d := Check(platform.MicroStrategy, true, platform.Tableau, "views")
	if d.Allow {
		t.Fatal("cross-platform access must be denied")
	}
	if d.Reason != ReasonWrongPlatform {
		t.Fatalf("reason = %q, want %q", d.Reason, ReasonWrongPlatform)
	}
	if d.From != "views" {
		t.Fatalf("from = %q, want views", d.From)
	}
}

func TestCheckAllowsMatchingPlatform(t *testing.T) {
	d := Check(platform.Tableau, true, platform.Tableau, "views")
	if !d.Allow {
		t.Fatalf("matching platform must be allowed, got %+v", d)
	}
}

func TestCheckPlatformNoneOnlyNeedsSession(t *testing.T) {
	d := Check(platform.MicroStrategy, true, platform.None, "whoami")
	if !d.Allow {
		t.Fatalf("session-only check must pass for any platform, got %+v", d)
	}
	d = Check(platform.None, false, platform.None, "whoami")
	if d.Allow || d.Reason != ReasonNotAuthenticated {
		t.Fatalf("session-only check must still require sign-in, got %+v", d)
	}
}
