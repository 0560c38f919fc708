// Copyright (c) 2025 Bimigrate
// Licensed under the MIT License. See LICENSE file in the project root for details.

package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"bimigrate/cli/internal/errors"
)

// SignIn posts credentials to the platform's auth endpoint and returns the
// principal id plus the opaque auth token. The two backends shape their auth
// responses differently, so the parser is liberal in what it accepts: decode
// into a map first, then try the known field spellings.
func (h *HTTP) SignIn(ctx context.Context, principal, secret string) (string, string, error) {
	payload := map[string]string{
		"username": principal,
		"password": secret,
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return "", "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.baseURL+h.endpoints.SignIn, strings.NewReader(string(data)))
	if err != nil {
		return "", "", err
	}
	h.setStandardHeaders(req)
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		return "", "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return "", "", errors.New(errors.SignInFailed, "credentials rejected by the platform")
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(resp.Body)
		return "", "", errors.Wrap(errors.SignInFailed, "sign-in failed",
			fmt.Errorf("%d %s", resp.StatusCode, strings.TrimSpace(string(b))))
	}

	var raw map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return "", "", err
	}

	token := extractAuthToken(raw)
	if token == "" {
		return "", "", errors.New(errors.SignInFailed, "auth response carried no token")
	}
	principalID := extractPrincipalID(raw)
	if principalID == "" {
		principalID = principal
	}
	return principalID, token, nil
}

// extractAuthToken extracts the auth token from various possible fields in the
// response, including the credentials envelope Tableau-family backends use.
func extractAuthToken(raw map[string]any) string {
	candidates := []string{"authToken", "auth_token", "token", "accessToken", "access_token"}
	for _, key := range candidates {
		if v, ok := raw[key].(string); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	if creds, ok := raw["credentials"].(map[string]any); ok {
		for _, key := range candidates {
			if v, ok := creds[key].(string); ok && strings.TrimSpace(v) != "" {
				return strings.TrimSpace(v)
			}
		}
	}
	return ""
}

// extractPrincipalID extracts the logged-in user's identifier, trying flat
// fields first and a nested user object second.
func extractPrincipalID(raw map[string]any) string {
	candidates := []string{"principalId", "principal_id", "userId", "user_id", "id"}
	for _, key := range candidates {
		if v, ok := raw[key].(string); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	for _, envelope := range []string{"user", "credentials"} {
		inner, ok := raw[envelope].(map[string]any)
		if !ok {
			continue
		}
		if user, ok := inner["user"].(map[string]any); ok {
			inner = user
		}
		for _, key := range candidates {
			if v, ok := inner[key].(string); ok && strings.TrimSpace(v) != "" {
				return strings.TrimSpace(v)
			}
		}
	}
	return ""
}

// SignOut invalidates the current token on the backend. Callers treat this as
// best-effort; local state is cleared regardless.
func (h *HTTP) SignOut(ctx context.Context) error {
	return h.postJSON(ctx, h.endpoints.SignOut, nil, nil)
}
