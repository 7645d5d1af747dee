package mcp

import (
	"webcompat/internal/bcd"
	"webcompat/internal/query"
)

// Tool represents a tool exposed via MCP
type Tool struct {
	Name        string                 `json:"name"`
	Title       string                 `json:"title,omitempty"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
	Annotations *ToolAnnotations       `json:"annotations,omitempty"`
}

// ToolAnnotations are behaviour hints for clients.
type ToolAnnotations struct {
	ReadOnlyHint    bool `json:"readOnlyHint"`
	DestructiveHint bool `json:"destructiveHint"`
	IdempotentHint  bool `json:"idempotentHint"`
	OpenWorldHint   bool `json:"openWorldHint"`
}

// readOnly is shared by every tool: all of them answer from in-memory data.
var readOnly = &ToolAnnotations{ReadOnlyHint: true, IdempotentHint: true}

// ToolHandler handles a tool call. Parameter errors are returned as errors;
// everything the caller should read, including not-found answers, is a
// result.
type ToolHandler func(params map[string]interface{}) (*ToolResult, error)

// Tool parameter bounds.
const (
	MinSearchQueryLength = 1
	MaxSearchQueryLength = 100
	MinCompareFeatures   = 2
	MaxCompareFeatures   = 5
)

// Response formats.
const (
	FormatMarkdown = "markdown"
	FormatJSON     = "json"
)

func objectSchema(properties map[string]interface{}, required ...string) map[string]interface{} {
	properties["response_format"] = map[string]interface{}{
		"type":        "string",
		"enum":        []string{FormatMarkdown, FormatJSON},
		"default":     FormatMarkdown,
		"description": "Output format: 'markdown' for human-readable or 'json' for structured data",
	}
	schema := map[string]interface{}{
		"type":                 "object",
		"properties":           properties,
		"additionalProperties": false,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

func limitSchema() map[string]interface{} {
	return map[string]interface{}{
		"type":        "integer",
		"minimum":     1,
		"maximum":     query.MaxLimit,
		"default":     query.DefaultLimit,
		"description": "Maximum number of results to return (1-100, default: 20)",
	}
}

func offsetSchema() map[string]interface{} {
	return map[string]interface{}{
		"type":        "integer",
		"minimum":     0,
		"default":     0,
		"description": "Number of results to skip for pagination (default: 0)",
	}
}

func categorySchema(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"enum":        bcd.Categories,
		"description": description,
	}
}

func browsersSchema() map[string]interface{} {
	return map[string]interface{}{
		"type":        "array",
		"items":       map[string]interface{}{"type": "string"},
		"description": `Filter to specific browsers (e.g., ["chrome", "safari", "firefox"]). Omit for default desktop browsers.`,
	}
}

// GetToolDefinitions returns all tool definitions in listing order.
func (s *MCPServer) GetToolDefinitions() []Tool {
	return []Tool{
		{
			Name:  "compat_check",
			Title: "Check Browser Compatibility",
			Description: "Check browser compatibility for a web platform feature using MDN Browser Compat Data (BCD). " +
				"Returns version support across browsers, Baseline status, standard/experimental/deprecated flags and MDN/spec links. " +
				`Example: "Is Push API supported in Safari?" -> feature: "api.PushManager".`,
			InputSchema: objectSchema(map[string]interface{}{
				"feature": map[string]interface{}{
					"type":        "string",
					"minLength":   1,
					"description": `BCD feature identifier using dot notation (e.g., "api.PushManager", "css.properties.grid", "javascript.builtins.Array.at")`,
				},
				"browsers": browsersSchema(),
			}, "feature"),
			Annotations: readOnly,
		},
		{
			Name:  "compat_compare",
			Title: "Compare Browser Compatibility",
			Description: "Compare browser compatibility across 2-5 web platform features side by side. " +
				"Useful for choosing between alternative APIs. " +
				`Example: features: ["api.fetch", "api.XMLHttpRequest"].`,
			InputSchema: objectSchema(map[string]interface{}{
				"features": map[string]interface{}{
					"type":        "array",
					"items":       map[string]interface{}{"type": "string", "minLength": 1},
					"minItems":    MinCompareFeatures,
					"maxItems":    MaxCompareFeatures,
					"description": `Array of BCD feature identifiers to compare (e.g., ["api.fetch", "api.XMLHttpRequest"])`,
				},
				"browsers": browsersSchema(),
			}, "features"),
			Annotations: readOnly,
		},
		{
			Name:  "compat_search",
			Title: "Search Web Platform Features",
			Description: "Search BCD features by keyword. Use this to find the correct BCD identifier for compat_check. " +
				"Matches feature identifiers case-insensitively across APIs, CSS, HTML, JavaScript and more. " +
				`Example: "Find CSS grid features" -> query: "grid", category: "css".`,
			InputSchema: objectSchema(map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"minLength":   MinSearchQueryLength,
					"maxLength":   MaxSearchQueryLength,
					"description": `Search keyword to match against feature identifiers (e.g., "push", "grid", "service-worker")`,
				},
				"category": categorySchema(`Filter by BCD category (e.g., "api", "css", "html", "javascript")`),
				"limit":    limitSchema(),
				"offset":   offsetSchema(),
			}, "query"),
			Annotations: readOnly,
		},
		{
			Name:  "compat_get_baseline",
			Title: "Get Baseline Status",
			Description: "Get the Baseline status of a web platform feature from the W3C WebDX web-features data. " +
				`"high" means Widely Available, "low" Newly Available, false Not Baseline. ` +
				"Returns browser support versions, related BCD features and spec links. " +
				`Example: "Is container queries Baseline?" -> feature: "container-queries".`,
			InputSchema: objectSchema(map[string]interface{}{
				"feature": map[string]interface{}{
					"type":        "string",
					"minLength":   1,
					"description": `web-features identifier using kebab-case (e.g., "container-queries", "push", "view-transitions")`,
				},
			}, "feature"),
			Annotations: readOnly,
		},
		{
			Name:  "compat_list_baseline",
			Title: "List Features by Baseline Status",
			Description: "List web platform features filtered by Baseline status and group. " +
				`Example: "What CSS features are Newly Available?" -> status: "low", group: "css".`,
			InputSchema: objectSchema(map[string]interface{}{
				"status": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"high", "low", "false"},
					"description": `Filter by Baseline status: "high" (Widely Available), "low" (Newly Available), "false" (Not Baseline)`,
				},
				"group": map[string]interface{}{
					"type":        "string",
					"description": `Filter by web-features group (e.g., "css", "javascript", "forms")`,
				},
				"limit":  limitSchema(),
				"offset": offsetSchema(),
			}),
			Annotations: readOnly,
		},
		{
			Name:  "compat_search_baseline",
			Title: "Search Web Features",
			Description: "Search web-features by keyword across ids, names and descriptions. " +
				"Use this to find the kebab-case identifier for compat_get_baseline. " +
				`Example: query: "view transition".`,
			InputSchema: objectSchema(map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"minLength":   MinSearchQueryLength,
					"maxLength":   MaxSearchQueryLength,
					"description": "Search keyword matched case-insensitively against feature ids, names and descriptions",
				},
				"limit":  limitSchema(),
				"offset": offsetSchema(),
			}, "query"),
			Annotations: readOnly,
		},
		{
			Name:        "compat_list_browsers",
			Title:       "List Tracked Browsers",
			Description: "List all browsers tracked in MDN Browser Compat Data with their type, current version and release date.",
			InputSchema: objectSchema(map[string]interface{}{}),
			Annotations: readOnly,
		},
		{
			Name:  "compat_check_support",
			Title: "Check Browser Version Support",
			Description: "Find web platform features that were added in a specific browser version. " +
				`Example: "New CSS features in Chrome 120" -> browser: "chrome", version: "120", category: "css".`,
			InputSchema: objectSchema(map[string]interface{}{
				"browser": map[string]interface{}{
					"type":        "string",
					"minLength":   1,
					"description": `Browser identifier (e.g., "safari", "chrome", "firefox")`,
				},
				"version": map[string]interface{}{
					"type":        "string",
					"minLength":   1,
					"description": `Browser version (e.g., "17.0", "120", "121")`,
				},
				"category": categorySchema(`Filter by BCD category (e.g., "api", "css")`),
				"limit":    limitSchema(),
				"offset":   offsetSchema(),
			}, "browser", "version"),
			Annotations: readOnly,
		},
		{
			Name:        "compat_status",
			Title:       "Dataset Status",
			Description: "Report the loaded dataset versions, index sizes per category, browser count and web-feature cross-reference count.",
			InputSchema: objectSchema(map[string]interface{}{}),
			Annotations: readOnly,
		},
		{
			Name:        "compat_tool_metrics",
			Title:       "Tool Metrics",
			Description: "Report per-tool call counts, result sizes, truncation and latency for this session. Internal/debug tool.",
			InputSchema: objectSchema(map[string]interface{}{}),
			Annotations: readOnly,
		},
	}
}

// RegisterTools registers all tool handlers
func (s *MCPServer) RegisterTools() {
	s.tools["compat_check"] = s.toolCompatCheck
	s.tools["compat_compare"] = s.toolCompatCompare
	s.tools["compat_search"] = s.toolCompatSearch
	s.tools["compat_get_baseline"] = s.toolGetBaseline
	s.tools["compat_list_baseline"] = s.toolListBaseline
	s.tools["compat_search_baseline"] = s.toolSearchBaseline
	s.tools["compat_list_browsers"] = s.toolListBrowsers
	s.tools["compat_check_support"] = s.toolCheckSupport
	s.tools["compat_status"] = s.toolStatus
	s.tools["compat_tool_metrics"] = s.toolMetrics
}
