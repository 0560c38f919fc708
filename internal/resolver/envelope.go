// Copyright (c) 2025 Bimigrate
// Licensed under the MIT License. See LICENSE file in the project root for details.

package resolver

import (
	"encoding/json"
	"strings"
)

// Resource is the canonical item every fetch produces, whatever shape the
// backend used that day.
type Resource struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	// Expression carries the calculation formula when the backend includes
	// one; empty for other kinds.
	Expression string `json:"expression,omitempty"`
}

// normalizeEnvelope converts an arbitrarily-shaped listing payload into a
// canonical resource sequence. The known shapes are tried in order:
//
//  1. bare array:              [...]
//  2. data field:              {"data": [...]}
//  3. named field:             {"views": [...]}
//  4. doubly nested:           {"views": {"views": [...]}}
//
// Anything else is treated as "no items". All the envelope guessing in the
// codebase lives here; call sites never poke at raw payload fields.
func normalizeEnvelope(body []byte, name string) []Resource {
	if len(body) == 0 {
		return nil
	}

	var arr []json.RawMessage
	if err := json.Unmarshal(body, &arr); err == nil {
		return decodeItems(arr)
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(body, &obj); err != nil {
		return nil
	}

	if inner, ok := obj["data"]; ok {
		if items := normalizeLevel(inner); items != nil {
			return items
		}
	}
	if inner, ok := obj[name]; ok {
		if items := normalizeLevel(inner); items != nil {
			return items
		}
		// Doubly nested: the named field wraps another object holding the
		// named field again.
		var nested map[string]json.RawMessage
		if err := json.Unmarshal(inner, &nested); err == nil {
			if deep, ok := nested[name]; ok {
				if items := normalizeLevel(deep); items != nil {
					return items
				}
			}
		}
	}
	return nil
}

// normalizeLevel decodes one candidate envelope level into resources, or nil
// when the level is not an array.
func normalizeLevel(raw json.RawMessage) []Resource {
	var arr []json.RawMessage
	if err := json.Unmarshal(raw, &arr); err != nil {
		return nil
	}
	return decodeItems(arr)
}

// decodeItems converts raw items into Resources, tolerating the id and name
// field spellings seen across both platform families. Items with no usable
// id are dropped.
func decodeItems(raw []json.RawMessage) []Resource {
	out := make([]Resource, 0, len(raw))
	for _, r := range raw {
		var item map[string]any
		if err := json.Unmarshal(r, &item); err != nil {
			continue
		}
		res := Resource{
			ID:         firstString(item, "id", "luid", "key"),
			Name:       firstString(item, "name", "label", "title", "caption"),
			Expression: firstString(item, "expression", "formula"),
		}
		if res.ID == "" {
			continue
		}
		out = append(out, res)
	}
	return out
}

func firstString(item map[string]any, keys ...string) string {
	for _, k := range keys {
		if v, ok := item[k].(string); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
