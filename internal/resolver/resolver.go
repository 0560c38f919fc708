// Copyright (c) 2025 Bimigrate
// Licensed under the MIT License. See LICENSE file in the project root for details.

package resolver

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"bimigrate/cli/internal/errors"
	"bimigrate/cli/internal/logging"
)

// Getter issues GET requests against the active backend base address.
// *backend.HTTP satisfies this.
type Getter interface {
	GetJSON(ctx context.Context, path string) (status int, body []byte, err error)
}

// PrimaryEndpoints carries the stable single-endpoint routes for the primary
// listings of the active platform family.
type PrimaryEndpoints struct {
	Projects           string
	Workbooks          string // project filter appended as a query param
	ProjectDatasources string // printf template, project id
}

// Fetcher resolves logical resource requests against one backend.
type Fetcher struct {
	client  Getter
	primary PrimaryEndpoints
	log     *zap.Logger
}

// New creates a Fetcher over the given backend client.
func New(client Getter, primary PrimaryEndpoints) *Fetcher {
	return &Fetcher{client: client, primary: primary, log: logging.L()}
}

// Fetch returns the canonical sequence for the kind. Probed kinds never fail
// with "not found": exhausting every candidate yields an empty sequence, the
// same answer as a resource with zero children. Primary kinds propagate
// transport and status failures as PrimaryFetchFailed.
func (f *Fetcher) Fetch(ctx context.Context, kind Kind, p Params) ([]Resource, error) {
	if kind.Probed() {
		return f.probe(ctx, kind, p), nil
	}
	return f.fetchPrimary(ctx, kind, p)
}

// probe tries each candidate endpoint in order. The first 2xx wins and stops
// the probe even when its normalized result is empty: empty is a valid
// terminal answer, not a failure. A 404 means "this route does not exist in
// this deployment" and moves on; any other failure is recorded and the probe
// continues, so one candidate's transient failure cannot sink the lookup.
func (f *Fetcher) probe(ctx context.Context, kind Kind, p Params) []Resource {
	var lastErr error
	for _, path := range candidates(kind, p) {
		status, body, err := f.client.GetJSON(ctx, path)
		if err != nil {
			lastErr = err
			continue
		}
		if status >= 200 && status <= 299 {
			return normalizeEnvelope(body, kind.envelopeName())
		}
		if status == http.StatusNotFound {
			continue
		}
		lastErr = fmt.Errorf("%s: status %d", path, status)
	}

	// Every candidate exhausted. Policy: indistinguishable from a resource
	// with zero children, so the browsing experience degrades to an empty
	// listing instead of an error page. The last failure is logged for
	// operators chasing a real outage.
	if lastErr != nil {
		f.log.Warn("all candidate endpoints exhausted",
			zap.String("kind", string(kind)), zap.Error(lastErr))
	}
	return nil
}

// fetchPrimary issues the single canonical request for a primary kind.
func (f *Fetcher) fetchPrimary(ctx context.Context, kind Kind, p Params) ([]Resource, error) {
	path, err := f.primaryPath(kind, p)
	if err != nil {
		return nil, err
	}

	status, body, err := f.client.GetJSON(ctx, path)
	if err != nil {
		return nil, errors.Wrap(errors.PrimaryFetchFailed, string(kind), err)
	}
	if status < 200 || status > 299 {
		return nil, errors.Wrap(errors.PrimaryFetchFailed, string(kind),
			fmt.Errorf("%s: status %d", path, status))
	}
	return normalizeEnvelope(body, kind.envelopeName()), nil
}

func (f *Fetcher) primaryPath(kind Kind, p Params) (string, error) {
	switch kind {
	case KindProjects:
		return f.primary.Projects, nil
	case KindWorkbooks:
		path := f.primary.Workbooks
		if project := p["project"]; project != "" {
			path += "?projectId=" + url.QueryEscape(project)
		}
		return path, nil
	case KindProjectDatasources:
		project := p["project"]
		if project == "" {
			return "", fmt.Errorf("project id required for %s", kind)
		}
		return fmt.Sprintf(f.primary.ProjectDatasources, url.PathEscape(project)), nil
	default:
		return "", fmt.Errorf("unknown primary kind %q", kind)
	}
}
