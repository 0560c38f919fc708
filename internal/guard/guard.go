// Copyright (c) 2025 Bimigrate
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package guard gates platform-scoped commands on the session state: a
// command that browses or converts Tableau resources must not run against a
// MicroStrategy session, and nothing platform-scoped runs signed out. The
// decision carries a machine-readable reason so callers can explain the
// redirect instead of failing with a bare error.
package guard

import "bimigrate/cli/internal/platform"

// Reason classifies why access was denied.
type Reason string

const (
	ReasonNotAuthenticated Reason = "not_authenticated"
	ReasonWrongPlatform    Reason = "wrong_platform"
)

// TargetLogin is the destination every denial points at.
const TargetLogin = "login"

// Decision is the outcome of a guard check.
type Decision struct {
	Allow bool
	// Target, Reason and From are set only on denial. From preserves the
	// originally requested command so a sign-in flow can resume it.
	Target string
	Reason Reason
	From   string
}

// Check decides whether a command requiring the given platform may proceed.
// required == platform.None means the command only needs a signed-in session,
// not a particular platform. from names the command being attempted and is
// carried through on denial.
func Check(active platform.Platform, authenticated bool, required platform.Platform, from string) Decision {
	if !authenticated {
		return Decision{Target: TargetLogin, Reason: ReasonNotAuthenticated, From: from}
	}
	if required != platform.None && active != required {
		return Decision{Target: TargetLogin, Reason: ReasonWrongPlatform, From: from}
	}
	return Decision{Allow: true}
}
