package mcp

import (
	"encoding/json"
	"net/url"
	"strings"

	"webcompat/internal/errors"
	"webcompat/internal/output"
)

// ResourceScheme prefixes every resource URI.
const ResourceScheme = "webcompat://"

// Resource represents a static resource
type Resource struct {
	URI         string `json:"uri"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	MimeType    string `json:"mimeType,omitempty"`
}

// ResourceTemplate represents a dynamic resource with URI template
type ResourceTemplate struct {
	URITemplate string `json:"uriTemplate"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	MimeType    string `json:"mimeType,omitempty"`
}

const jsonMime = "application/json"

// Resources returns the static resources.
func Resources() []Resource {
	return []Resource{
		{URI: ResourceScheme + "categories", Name: "BCD Categories", Description: "Top-level BCD categories with indexed path counts", MimeType: jsonMime},
		{URI: ResourceScheme + "groups", Name: "Web Feature Groups", Description: "web-features group ids and names", MimeType: jsonMime},
		{URI: ResourceScheme + "browsers", Name: "Browsers", Description: "Browsers known to BCD with their current release", MimeType: jsonMime},
		{URI: ResourceScheme + "dataset", Name: "Dataset Status", Description: "Loaded dataset versions and index sizes", MimeType: jsonMime},
	}
}

// ResourceTemplates returns the parameterized resources.
func ResourceTemplates() []ResourceTemplate {
	return []ResourceTemplate{
		{URITemplate: ResourceScheme + "feature/{path}", Name: "Feature Compatibility", Description: "Support data for a BCD path, e.g. api.fetch", MimeType: jsonMime},
		{URITemplate: ResourceScheme + "baseline/{id}", Name: "Baseline Status", Description: "Baseline status for a web-features id, e.g. container-queries", MimeType: jsonMime},
	}
}

// readResource returns the JSON text of the resource at uri.
func (s *MCPServer) readResource(uri string) (string, error) {
	if !strings.HasPrefix(uri, ResourceScheme) {
		return "", errors.NewInvalidParameterError("uri", "expected "+ResourceScheme+" scheme")
	}
	if s.engine == nil {
		return "", errors.NewDatasetUnavailableError("BCD", nil)
	}

	rest := strings.TrimPrefix(uri, ResourceScheme)
	kind, arg, _ := strings.Cut(rest, "/")
	if arg != "" {
		unescaped, err := url.PathUnescape(arg)
		if err != nil {
			return "", errors.NewInvalidParameterError("uri", "invalid escape in "+arg)
		}
		arg = unescaped
	}

	var data interface{}
	switch {
	case kind == "categories" && arg == "":
		counts := s.engine.Status().PathsByCategory
		categories := make([]output.Listing, 0, len(s.engine.Categories()))
		for _, c := range s.engine.Categories() {
			categories = append(categories, output.Listing{"id": c, "paths": counts[c]})
		}
		data = categories
	case kind == "groups" && arg == "":
		data = s.engine.Groups()
	case kind == "browsers" && arg == "":
		data = s.engine.ListBrowsers()
	case kind == "dataset" && arg == "":
		data = output.Listing{
			"status":   s.engine.Status(),
			"datasets": s.datasetRefs(),
		}
	case kind == "feature" && arg != "":
		fc, ok := s.engine.GetFeatureCompat(arg, nil)
		if !ok {
			return "", errors.NewResourceNotFoundError("feature", arg)
		}
		data = fc
	case kind == "baseline" && arg != "":
		r, ok := s.engine.GetBaselineStatus(arg)
		if !ok {
			return "", errors.NewResourceNotFoundError("web feature", arg)
		}
		data = r
	default:
		return "", errors.NewResourceNotFoundError("resource", uri)
	}

	text, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", errors.NewOperationError("marshal resource", err)
	}
	return string(text), nil
}
