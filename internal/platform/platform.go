// Package platform defines the source platform identity and the backend
// selector. A session is authenticated against exactly one of two
// mutually-exclusive source BI platforms; there is no multi-tenant fan-out,
// only single-tenant selection, so the selector is a plain lookup.
package platform

import (
	"strings"

	"bimigrate/cli/internal/config"
	"bimigrate/cli/internal/errors"
)

// Platform identifies which source BI backend the current session targets.
type Platform string

const (
	// None is the zero identity: no platform selected, nobody logged in.
	None Platform = "none"
	// Tableau is the Tableau Server REST backend.
	Tableau Platform = "tableau"
	// MicroStrategy is the MicroStrategy REST backend.
	MicroStrategy Platform = "microstrategy"
)

// Parse maps a user-supplied platform name to a Platform identity.
// Unknown names map to None.
func Parse(s string) Platform {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "tableau":
		return Tableau
	case "microstrategy", "mstr":
		return MicroStrategy
	default:
		return None
	}
}

// Valid reports whether p is one of the two real platforms.
func (p Platform) Valid() bool {
	return p == Tableau || p == MicroStrategy
}

// ResolveBaseAddress maps a platform identity to its configured base address.
// It is a pure lookup: no state, no side effects. Any identity other than the
// two known platforms yields a NoActivePlatform error.
func ResolveBaseAddress(p Platform, cfg config.Config) (string, error) {
	switch p {
	case Tableau:
		return strings.TrimRight(cfg.TableauURL, "/"), nil
	case MicroStrategy:
		return strings.TrimRight(cfg.MicroStrategyURL, "/"), nil
	default:
		return "", errors.New(errors.NoActivePlatform, "no platform selected; run 'bimigrate login' first")
	}
}
