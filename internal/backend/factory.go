// Copyright (c) 2025 Bimigrate
// Licensed under the MIT License. See LICENSE file in the project root for details.

package backend

import (
	"bimigrate/cli/internal/platform"
)

// New creates a backend API implementation for the given base address and
// platform family. Returns the HTTP client (real backend).
func New(baseURL string, p platform.Platform) *HTTP {
	return newHTTP(baseURL, EndpointsFor(p))
}
