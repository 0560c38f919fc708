package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"bimigrate/cli/internal/conversion"
)

// StartConversion kicks off server-side background conversion for the scope.
// The backend acknowledges the kickoff but offers no completion signal;
// results surface through FetchConverted.
func (h *HTTP) StartConversion(ctx context.Context, scopeID string) error {
	return h.postJSON(ctx, fmt.Sprintf(h.endpoints.ConversionStart, url.PathEscape(scopeID)), nil, nil)
}

// FetchConverted reads the conversion service's cached results for the scope.
// The result envelope varies like every other listing on these backends, so
// the body goes through the same tolerant decode: bare array first, then the
// known wrapper fields.
func (h *HTTP) FetchConverted(ctx context.Context, scopeID string) ([]conversion.Converted, error) {
	status, body, err := h.GetJSON(ctx, fmt.Sprintf(h.endpoints.ConversionResults, url.PathEscape(scopeID)))
	if err != nil {
		return nil, err
	}
	if status < 200 || status > 299 {
		return nil, fmt.Errorf("conversion results: unexpected status %d", status)
	}
	return decodeConverted(body)
}

// ConvertBatch converts the given source ids in one synchronous request.
func (h *HTTP) ConvertBatch(ctx context.Context, scopeID string, ids []string) ([]conversion.Converted, error) {
	payload := map[string]any{"ids": ids}

	var raw json.RawMessage
	if err := h.postJSON(ctx, fmt.Sprintf(h.endpoints.ConvertBatch, url.PathEscape(scopeID)), payload, &raw); err != nil {
		return nil, err
	}
	return decodeConverted(raw)
}

// decodeConverted accepts either a bare array of converted items or an object
// wrapping one under "results" or "data".
func decodeConverted(body []byte) ([]conversion.Converted, error) {
	if len(body) == 0 {
		return nil, nil
	}

	var items []conversion.Converted
	if err := json.Unmarshal(body, &items); err == nil {
		return items, nil
	}

	var wrapped map[string]json.RawMessage
	if err := json.Unmarshal(body, &wrapped); err != nil {
		return nil, fmt.Errorf("undecodable conversion payload: %w", err)
	}
	for _, key := range []string{"results", "data"} {
		inner, ok := wrapped[key]
		if !ok {
			continue
		}
		if err := json.Unmarshal(inner, &items); err == nil {
			return items, nil
		}
	}
	return nil, nil
}
