package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// HTTP implements API over REST endpoints.
// It carries the base address picked by the backend selector and the auth
// token of the current session. The transport timeout is the only timeout
// this layer imposes.
type HTTP struct {
	// baseURL is the base address for all requests (e.g., "https://tableau.internal")
	baseURL string
	// endpoints contains the URL paths for the platform family
	endpoints Endpoints
	// client is the underlying HTTP client with configured timeout
	client *http.Client
	// token is the opaque auth token attached to authenticated requests
	token string
}

// newHTTP creates a new HTTP client with the given base address and endpoints.
// It configures a 10-second timeout for all requests.
func newHTTP(baseURL string, endpoints Endpoints) *HTTP {
	return &HTTP{
		baseURL:   strings.TrimRight(baseURL, "/"),
		endpoints: endpoints,
		client:    &http.Client{Timeout: 10 * time.Second},
	}
}

// SetToken attaches the session auth token to subsequent requests.
func (h *HTTP) SetToken(token string) { h.token = token }

// setStandardHeaders applies headers common to every request.
func (h *HTTP) setStandardHeaders(req *http.Request) {
	req.Header.Set("User-Agent", "bimigrate-cli/1.0")
	req.Header.Set("Accept", "application/json")
	if h.token != "" {
		req.Header.Set("Authorization", "Bearer "+h.token)
	}
}

// GetJSON issues a GET for the given path and returns status plus raw body.
// Non-2xx statuses are not errors at this level; the caller decides what a
// 404 or a 500 means for its probing policy.
func (h *HTTP) GetJSON(ctx context.Context, path string) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.baseURL+path, nil)
	if err != nil {
		return 0, nil, err
	}
	h.setStandardHeaders(req)

	resp, err := h.client.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, err
	}
	return resp.StatusCode, body, nil
}

// postJSON issues a POST with a JSON body and decodes a JSON response into out
// when out is non-nil. A non-2xx status is returned as an error carrying the
// trimmed response body.
func (h *HTTP) postJSON(ctx context.Context, path string, payload any, out any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.baseURL+path, body)
	if err != nil {
		return err
	}
	h.setStandardHeaders(req)
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%s failed: %d %s", path, resp.StatusCode, strings.TrimSpace(string(b)))
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// GetVersion calls the version endpoint and returns the version string when
// available. No authentication required; useful as a connectivity check.
func (h *HTTP) GetVersion(ctx context.Context) (string, error) {
	status, body, err := h.GetJSON(ctx, h.endpoints.Version)
	if err != nil {
		return "", err
	}
	if status != http.StatusOK {
		return "unknown", nil
	}
	var out struct {
		Version string `json:"version"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return "", err
	}
	if out.Version == "" {
		return "unknown", nil
	}
	return out.Version, nil
}
