package resolver

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	bmerrors "bimigrate/cli/internal/errors"
)

// scriptedGetter replays canned responses per path and records call order.
type scriptedGetter struct {
	responses map[string]scriptedResponse
	calls     []string
}

type scriptedResponse struct {
	status int
	body   string
	err    error
}

func (g *scriptedGetter) GetJSON(ctx context.Context, path string) (int, []byte, error) {
	g.calls = append(g.calls, path)
	r, ok := g.responses[path]
	if !ok {
		return http.StatusNotFound, nil, nil
	}
	return r.status, []byte(r.body), r.err
}

func testPrimary() PrimaryEndpoints {
	return PrimaryEndpoints{
		Projects:           "/api/3.4/projects",
		Workbooks:          "/api/3.4/workbooks",
		ProjectDatasources: "/api/3.4/projects/%s/datasources",
	}
}

func TestProbeStopsOnFirstSuccess(t *testing.T) {
	// First two candidates 404, third answers with a data envelope; the
	// fourth must never be called.
	g := &scriptedGetter{responses: map[string]scriptedResponse{
		"/api/3.4/views?workbookId=W1": {
			status: http.StatusOK,
			body:   `{"data":[{"id":"v1","name":"Sales"}]}`,
		},
	}}
	f := New(g, testPrimary())

	got, err := f.Fetch(context.Background(), KindWorkbookViews, Params{"workbook": "W1"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "v1", got[0].ID)
	assert.Equal(t, "Sales", got[0].Name)

	require.Len(t, g.calls, 3, "probe must stop after the first 2xx")
	assert.Equal(t, "/api/3.4/workbooks/W1/views", g.calls[0])
	assert.Equal(t, "/api/workbooks/W1/views", g.calls[1])
	assert.Equal(t, "/api/3.4/views?workbookId=W1", g.calls[2])
}

func TestProbeEmptySuccessIsTerminal(t *testing.T) {
	// An empty sequence from the first candidate is a valid answer; later
	// candidates must not be consulted.
	g := &scriptedGetter{responses: map[string]scriptedResponse{
		"/api/3.4/workbooks/W1/views": {status: http.StatusOK, body: `{"views":[]}`},
	}}
	f := New(g, testPrimary())

	got, err := f.Fetch(context.Background(), KindWorkbookViews, Params{"workbook": "W1"})
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Len(t, g.calls, 1)
}

func TestProbeContinuesPastTransientFailure(t *testing.T) {
	g := &scriptedGetter{responses: map[string]scriptedResponse{
		"/api/3.4/workbooks/W1/calculations": {err: errors.New("connection reset")},
		"/api/workbooks/W1/calculations":     {status: http.StatusInternalServerError},
		"/api/3.4/calculations?workbookId=W1": {
			status: http.StatusOK,
			body:   `{"calculations":[{"id":"c1","name":"Margin","formula":"[Profit]/[Sales]"}]}`,
		},
	}}
	f := New(g, testPrimary())

	got, err := f.Fetch(context.Background(), KindWorkbookCalculations, Params{"workbook": "W1"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "c1", got[0].ID)
	assert.Equal(t, "[Profit]/[Sales]", got[0].Expression)
}

func TestProbeExhaustionYieldsEmptyNotError(t *testing.T) {
	// Every candidate 404s: indistinguishable from a workbook with no views.
	g := &scriptedGetter{responses: map[string]scriptedResponse{}}
	f := New(g, testPrimary())

	got, err := f.Fetch(context.Background(), KindWorkbookViews, Params{"workbook": "W9"})
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Len(t, g.calls, len(candidateTables[KindWorkbookViews]))
}

func TestPrimaryFetchPropagatesErrors(t *testing.T) {
	g := &scriptedGetter{responses: map[string]scriptedResponse{
		"/api/3.4/projects": {status: http.StatusBadGateway},
	}}
	f := New(g, testPrimary())

	_, err := f.Fetch(context.Background(), KindProjects, nil)
	require.Error(t, err)
	assert.True(t, bmerrors.HasKind(err, bmerrors.PrimaryFetchFailed))
}

func TestPrimaryWorkbooksAppliesProjectFilter(t *testing.T) {
	g := &scriptedGetter{responses: map[string]scriptedResponse{
		"/api/3.4/workbooks?projectId=p7": {
			status: http.StatusOK,
			body:   `{"workbooks":[{"id":"w1","name":"Ops"}]}`,
		},
	}}
	f := New(g, testPrimary())

	got, err := f.Fetch(context.Background(), KindWorkbooks, Params{"project": "p7"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "w1", got[0].ID)
}
