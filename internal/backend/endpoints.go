// Copyright (c) 2025 Bimigrate
// Licensed under the MIT License. See LICENSE file in the project root for details.

package backend

import "bimigrate/cli/internal/platform"

// Endpoints contains the REST endpoint paths for one platform family.
// The two backends expose the same logical operations under different routes;
// only these primary paths are considered stable. Secondary deep-link lookups
// go through the endpoint resolver's candidate probing instead.
type Endpoints struct {
	SignIn             string
	SignOut            string
	Version            string
	Projects           string
	Workbooks          string // takes an optional project filter query param
	ProjectDatasources string // printf template, project id

	ConversionStart   string // printf template, scope id
	ConversionResults string // printf template, scope id
	ConvertBatch      string // printf template, scope id
}

// EndpointsFor returns the endpoint table for the given platform family.
func EndpointsFor(p platform.Platform) Endpoints {
	switch p {
	case platform.MicroStrategy:
		return Endpoints{
			SignIn:             "/api/auth/login",
			SignOut:            "/api/auth/logout",
			Version:            "/api/status",
			Projects:           "/api/projects",
			Workbooks:          "/api/workbooks",
			ProjectDatasources: "/api/projects/%s/datasources",
			ConversionStart:    "/api/conversion/%s/start",
			ConversionResults:  "/api/conversion/%s/results",
			ConvertBatch:       "/api/conversion/%s/convert",
		}
	default: // Tableau is the original platform family and the default table.
		return Endpoints{
			SignIn:             "/api/3.4/auth/signin",
			SignOut:            "/api/3.4/auth/signout",
			Version:            "/api/3.4/serverinfo",
			Projects:           "/api/3.4/projects",
			Workbooks:          "/api/3.4/workbooks",
			ProjectDatasources: "/api/3.4/projects/%s/datasources",
			ConversionStart:    "/api/conversion/%s/start",
			ConversionResults:  "/api/conversion/%s/results",
			ConvertBatch:       "/api/conversion/%s/convert",
		}
	}
}
