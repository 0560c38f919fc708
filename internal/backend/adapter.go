// Copyright (c) 2025 Bimigrate
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package backend provides the HTTP client for the two source BI platform
// REST backends. It defines the API contract for authentication, raw resource
// fetches, and the conversion-service endpoints. The package includes both
// interface definitions and the HTTP-based implementation; tests substitute
// mocks for the interface.
package backend

import (
	"context"

	"bimigrate/cli/internal/conversion"
)

// API defines backend operations the CLI depends on.
// Implementations may call real HTTP endpoints or provide mocks for tests.
type API interface {
	// SignIn exchanges credentials for a principal id and an opaque auth token.
	SignIn(ctx context.Context, principal, secret string) (principalID string, authToken string, err error)
	// SignOut invalidates the current auth token on the backend. Best effort.
	SignOut(ctx context.Context) error
	// GetVersion reports the backend build version when exposed.
	GetVersion(ctx context.Context) (string, error)

	// GetJSON issues a GET for the given path relative to the base address and
	// returns the status code and raw body. The endpoint resolver drives its
	// candidate probing through this single method.
	GetJSON(ctx context.Context, path string) (status int, body []byte, err error)

	// Conversion-service endpoints, scoped by an opaque scope id.
	StartConversion(ctx context.Context, scopeID string) error
	FetchConverted(ctx context.Context, scopeID string) ([]conversion.Converted, error)
	ConvertBatch(ctx context.Context, scopeID string, ids []string) ([]conversion.Converted, error)
}
