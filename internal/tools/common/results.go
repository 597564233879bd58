package common

import (
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// ToMap converts a Directory API object into a plain JSON object, keeping the
// API's field names and omitting unset fields.
func ToMap(v any) (map[string]any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %T: %w", v, err)
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to decode %T: %w", v, err)
	}
	if m == nil {
		m = map[string]any{}
	}
	return m, nil
}

// ToMaps converts a slice of API objects. The result is never nil so that
// an empty page encodes as [] rather than null.
func ToMaps[T any](items []T) ([]map[string]any, error) {
	out := make([]map[string]any, 0, len(items))
	for _, item := range items {
		m, err := ToMap(item)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

// ObjectResult returns an API object as structured tool output.
func ObjectResult(v any) (*mcp.CallToolResult, error) {
	m, err := ToMap(v)
	if err != nil {
		return nil, err
	}
	return StructuredResult(m)
}

// PageResult returns one page of a listing under key. nextPageToken is only
// set when the API returned one.
func PageResult[T any](key string, items []T, nextPageToken string) (*mcp.CallToolResult, error) {
	maps, err := ToMaps(items)
	if err != nil {
		return nil, err
	}
	page := map[string]any{key: maps}
	if nextPageToken != "" {
		page["nextPageToken"] = nextPageToken
	}
	return StructuredResult(page)
}

// StructuredResult returns m as structured content with its JSON encoding as
// the text fallback for clients without structured output support.
func StructuredResult(m map[string]any) (*mcp.CallToolResult, error) {
	text, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("failed to encode result: %w", err)
	}
	return mcp.NewToolResultStructured(m, string(text)), nil
}
