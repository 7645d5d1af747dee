package mcp

import (
	"encoding/json"
	"unicode/utf8"

	"webcompat/internal/envelope"
	"webcompat/internal/errors"
	"webcompat/internal/output"
)

// ToolResult is the outcome of a tool call before it is rendered in the
// requested format.
type ToolResult struct {
	builder  *envelope.Builder
	markdown func() string
	text     string
	isError  bool

	total    int
	returned int
}

// dataResult renders as markdown or as the JSON of the envelope's data.
func dataResult(b *envelope.Builder, markdown func() string) *ToolResult {
	return &ToolResult{builder: b, markdown: markdown}
}

// textResult renders text as-is in either format.
func textResult(b *envelope.Builder, text string) *ToolResult {
	return &ToolResult{builder: b, text: text}
}

// notFoundResult reports an unknown id with its suggestions. It is an
// answer, not a protocol error.
func notFoundResult(b *envelope.Builder, err *errors.WebCompatError) *ToolResult {
	b.Error(err)
	return &ToolResult{builder: b, text: err.Text()}
}

// failedResult reports an operation that could not complete.
func failedResult(err error) *ToolResult {
	b := envelope.New().Error(err)
	text := err.Error()
	if wcErr, ok := errors.AsWebCompatError(err); ok {
		text = wcErr.Text()
	}
	return &ToolResult{builder: b, text: "Error: " + text, isError: true}
}

// counts records result sizes for metrics.
func (r *ToolResult) counts(total, returned int) *ToolResult {
	r.total = total
	r.returned = returned
	return r
}

// renderedResult is a tools/call result plus what metrics need about it.
type renderedResult struct {
	result    map[string]interface{}
	truncated bool
	chars     int
}

// render produces the MCP tools/call result. JSON responses carry the
// envelope as structuredContent.
func (s *MCPServer) render(r *ToolResult, format string) (renderedResult, error) {
	text := r.text
	if text == "" {
		if format == FormatJSON {
			data, err := json.MarshalIndent(r.builder.Build().Data, "", "  ")
			if err != nil {
				return renderedResult{}, errors.NewOperationError("marshal response", err)
			}
			text = string(data)
		} else if r.markdown != nil {
			text = r.markdown()
		}
	}

	total := utf8.RuneCountInString(text)
	text, truncated := output.Truncate(text, s.characterLimit)
	if truncated {
		r.builder.WithTruncation(true, s.characterLimit, total, "character-limit")
	}

	result := map[string]interface{}{
		"content": []map[string]interface{}{
			{
				"type": "text",
				"text": text,
			},
		},
	}
	if format == FormatJSON {
		result["structuredContent"] = r.builder.Build()
	}
	if r.isError {
		result["isError"] = true
	}

	return renderedResult{result: result, truncated: truncated, chars: utf8.RuneCountInString(text)}, nil
}

// newResponse starts an envelope stamped with the loaded dataset versions.
func (s *MCPServer) newResponse() *envelope.Builder {
	return envelope.New().FromDatasets(s.datasetRefs()...)
}

func (s *MCPServer) datasetRefs() []envelope.DatasetRef {
	if s.engine == nil {
		return nil
	}
	meta := s.engine.BCD().Meta
	return []envelope.DatasetRef{
		{Name: "browser-compat-data", Version: meta.Version, Timestamp: meta.Timestamp},
		{Name: "web-features"},
	}
}
