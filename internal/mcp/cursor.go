package mcp

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"

	"webcompat/internal/errors"
)

// DefaultPageSize is the default number of tools per page
const DefaultPageSize = 15

// ToolsCursorPayload contains pagination state for tools/list. The toolset
// hash invalidates cursors issued for a different set of tool definitions.
type ToolsCursorPayload struct {
	V           int    `json:"v"` // cursor version
	Offset      int    `json:"o"` // position in tool list
	ToolsetHash string `json:"h"` // hash of tool definitions
}

// EncodeToolsCursor encodes cursor data to a URL-safe base64 string
func EncodeToolsCursor(offset int, toolsetHash string) string {
	payload := ToolsCursorPayload{
		V:           1,
		Offset:      offset,
		ToolsetHash: toolsetHash,
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return ""
	}

	return base64.RawURLEncoding.EncodeToString(data)
}

// DecodeToolsCursor decodes and validates a cursor string.
// Returns the offset if valid, or an error if invalid/stale.
func DecodeToolsCursor(cursor string, currentHash string) (int, error) {
	if cursor == "" {
		return 0, nil // Empty cursor = first page
	}

	data, err := base64.RawURLEncoding.DecodeString(cursor)
	if err != nil {
		return 0, errors.NewInvalidParameterError("cursor", "invalid encoding")
	}

	var payload ToolsCursorPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return 0, errors.NewInvalidParameterError("cursor", "invalid format")
	}

	if payload.V != 1 {
		return 0, errors.NewInvalidParameterError("cursor", "version mismatch")
	}
	if payload.ToolsetHash != currentHash {
		return 0, errors.NewInvalidParameterError("cursor", "toolset changed since cursor was issued")
	}
	if payload.Offset < 0 {
		return 0, errors.NewInvalidParameterError("cursor", "invalid offset")
	}

	return payload.Offset, nil
}

// PaginateTools returns a page of tools and the next cursor, which is empty
// on the last page.
func PaginateTools(allTools []Tool, offset int, pageSize int, toolsetHash string) ([]Tool, string) {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if offset < 0 {
		offset = 0
	}

	total := len(allTools)
	if offset >= total {
		return []Tool{}, ""
	}

	end := offset + pageSize
	if end > total {
		end = total
	}

	var nextCursor string
	if end < total {
		nextCursor = EncodeToolsCursor(end, toolsetHash)
	}
	return allTools[offset:end], nextCursor
}

// ComputeToolsetHash hashes tool names, descriptions and schemas in
// listing order.
func ComputeToolsetHash(tools []Tool) string {
	h := sha256.New()
	for _, t := range tools {
		h.Write([]byte(t.Name))
		h.Write([]byte(t.Description))
		if t.InputSchema != nil {
			if data, err := json.Marshal(t.InputSchema); err == nil {
				h.Write(data)
			}
		}
		h.Write([]byte{0}) // separator
	}
	return hex.EncodeToString(h.Sum(nil))[:16]
}
