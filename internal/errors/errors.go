package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// ErrorCode represents stable error codes for all failure modes
type ErrorCode string

const (
	// FeatureNotFound indicates a BCD path that does not resolve to a feature
	FeatureNotFound ErrorCode = "FEATURE_NOT_FOUND"
	// WebFeatureNotFound indicates an unknown web-features id
	WebFeatureNotFound ErrorCode = "WEB_FEATURE_NOT_FOUND"
	// InvalidParameter indicates a malformed or out-of-range parameter
	InvalidParameter ErrorCode = "INVALID_PARAMETER"
	// ResourceNotFound indicates an unknown tool, resource or browser
	ResourceNotFound ErrorCode = "RESOURCE_NOT_FOUND"
	// DatasetUnavailable indicates a dataset could not be read or fetched
	DatasetUnavailable ErrorCode = "DATASET_UNAVAILABLE"
	// OperationFailed indicates an operation failed for an internal reason
	OperationFailed ErrorCode = "OPERATION_FAILED"
	// InternalError indicates unexpected error
	InternalError ErrorCode = "INTERNAL_ERROR"
)

// FixActionType represents the type of fix action
type FixActionType string

const (
	// RunCommand suggests running a command
	RunCommand FixActionType = "run-command"
	// CallTool suggests calling another tool
	CallTool FixActionType = "call-tool"
	// OpenDocs suggests opening documentation
	OpenDocs FixActionType = "open-docs"
)

// FixAction represents a suggested fix for an error
type FixAction struct {
	Type        FixActionType `json:"type"`
	Command     string        `json:"command,omitempty"`
	Tool        string        `json:"tool,omitempty"`
	Safe        bool          `json:"safe,omitempty"`
	Description string        `json:"description,omitempty"`
	URL         string        `json:"url,omitempty"`
}

// Drilldown represents a suggested follow-up query
type Drilldown struct {
	Label string `json:"label"`
	Query string `json:"query"`
}

// WebCompatError represents an error with code, message, and suggestions
type WebCompatError struct {
	Code           ErrorCode   `json:"code"`
	Message        string      `json:"message"`
	Details        interface{} `json:"details,omitempty"`
	Suggestions    []string    `json:"suggestions,omitempty"`
	SuggestedFixes []FixAction `json:"suggestedFixes,omitempty"`
	Drilldowns     []Drilldown `json:"drilldowns,omitempty"`
	cause          error       // Underlying error (not exported to JSON)
}

// NewWebCompatError creates a new WebCompatError
func NewWebCompatError(code ErrorCode, message string, cause error, suggestedFixes []FixAction, drilldowns []Drilldown) *WebCompatError {
	return &WebCompatError{
		Code:           code,
		Message:        message,
		cause:          cause,
		SuggestedFixes: suggestedFixes,
		Drilldowns:     drilldowns,
	}
}

// Error implements the error interface
func (e *WebCompatError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *WebCompatError) Unwrap() error {
	return e.cause
}

// WithDetails adds details to the error
func (e *WebCompatError) WithDetails(details interface{}) *WebCompatError {
	e.Details = details
	return e
}

// Text renders the message followed by its suggestions as a bulleted list.
func (e *WebCompatError) Text() string {
	if len(e.Suggestions) == 0 {
		return e.Message
	}

	var b strings.Builder
	b.WriteString(e.Message)
	b.WriteString("\n\nSuggestions:\n")
	for _, s := range e.Suggestions {
		b.WriteString("- ")
		b.WriteString(s)
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// NewFeatureNotFoundError reports an unknown BCD path with hints for
// the usual mistakes.
func NewFeatureNotFoundError(path string) *WebCompatError {
	var suggestions []string
	if !strings.Contains(path, ".") {
		suggestions = append(suggestions,
			fmt.Sprintf("Use dot notation with a category prefix, e.g. 'api.%s', 'css.properties.%s' or 'javascript.builtins.%s'", path, path, path))
	}
	if strings.Contains(path, "-") {
		suggestions = append(suggestions,
			fmt.Sprintf("BCD uses camelCase for some APIs, e.g. '%s'", kebabToCamel(path)))
	}
	suggestions = append(suggestions, "Use compat_search to find the exact feature id")

	err := NewWebCompatError(FeatureNotFound, fmt.Sprintf("Feature '%s' not found in browser-compat-data.", path), nil, nil, []Drilldown{
		{Label: "Search for the feature", Query: "compat_search " + lastSegment(path)},
	})
	err.Suggestions = suggestions
	return err
}

// NewWebFeatureNotFoundError reports an unknown web-features id.
func NewWebFeatureNotFoundError(id string) *WebCompatError {
	err := NewWebCompatError(WebFeatureNotFound, fmt.Sprintf("Web feature '%s' not found.", id), nil, nil, []Drilldown{
		{Label: "Search web features", Query: "compat_search_baseline " + id},
	})
	err.Suggestions = []string{
		"Web feature ids are kebab-case, e.g. 'container-queries', 'has', 'grid'",
		"Use compat_search_baseline to search web features by name",
		"Use compat_list_baseline to browse features by status or group",
	}
	return err
}

// NewInvalidParameterError reports a bad tool or CLI parameter.
func NewInvalidParameterError(name string, reason string) *WebCompatError {
	msg := fmt.Sprintf("invalid parameter '%s'", name)
	if reason != "" {
		msg += ": " + reason
	}
	return NewWebCompatError(InvalidParameter, msg, nil, nil, nil).WithDetails(map[string]string{"parameter": name})
}

// NewResourceNotFoundError reports an unknown named resource.
func NewResourceNotFoundError(kind, name string) *WebCompatError {
	return NewWebCompatError(ResourceNotFound, fmt.Sprintf("%s not found: %s", kind, name), nil, nil, nil)
}

// NewDatasetUnavailableError reports a dataset that could not be loaded.
func NewDatasetUnavailableError(dataset string, cause error) *WebCompatError {
	return NewWebCompatError(DatasetUnavailable, fmt.Sprintf("%s dataset unavailable", dataset), cause, GetSuggestedFixes(DatasetUnavailable), nil)
}

// NewOperationError wraps a failed internal operation.
func NewOperationError(operation string, cause error) *WebCompatError {
	return NewWebCompatError(OperationFailed, fmt.Sprintf("%s failed", operation), cause, nil, nil)
}

// ErrorActions maps error codes to suggested fix actions
var ErrorActions = map[ErrorCode][]FixAction{
	DatasetUnavailable: {
		{
			Type:        RunCommand,
			Command:     "webcompat data pull",
			Safe:        true,
			Description: "Download the datasets into the local cache",
		},
		{
			Type:        RunCommand,
			Command:     "webcompat config show",
			Safe:        true,
			Description: "Check the configured dataset paths and URLs",
		},
	},
	FeatureNotFound: {
		{
			Type:        CallTool,
			Tool:        "compat_search",
			Safe:        true,
			Description: "Search for the feature by keyword",
		},
	},
	WebFeatureNotFound: {
		{
			Type:        CallTool,
			Tool:        "compat_search_baseline",
			Safe:        true,
			Description: "Search web features by name",
		},
	},
}

// AsWebCompatError finds the first WebCompatError in err's chain.
func AsWebCompatError(err error) (*WebCompatError, bool) {
	var wcErr *WebCompatError
	if stderrors.As(err, &wcErr) {
		return wcErr, true
	}
	return nil, false
}

// GetSuggestedFixes returns suggested fixes for an error code
func GetSuggestedFixes(code ErrorCode) []FixAction {
	if fixes, ok := ErrorActions[code]; ok {
		return fixes
	}
	return nil
}

// kebabToCamel removes dashes and upper-cases the letter after each one.
func kebabToCamel(path string) string {
	parts := strings.Split(path, "-")
	for i := 1; i < len(parts); i++ {
		if parts[i] != "" {
			parts[i] = strings.ToUpper(parts[i][:1]) + parts[i][1:]
		}
	}
	return strings.Join(parts, "")
}

func lastSegment(path string) string {
	if i := strings.LastIndex(path, "."); i >= 0 {
		return path[i+1:]
	}
	return path
}
