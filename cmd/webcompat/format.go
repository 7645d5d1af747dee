package main

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// OutputFormat represents the output format type
type OutputFormat string

const (
	FormatMarkdown OutputFormat = "markdown"
	FormatJSON     OutputFormat = "json"
	FormatYAML     OutputFormat = "yaml"
)

// resolveFormat picks the --format flag, else the configured default.
func resolveFormat(flag, configured string) (OutputFormat, error) {
	f := flag
	if f == "" {
		f = configured
	}
	if f == "" {
		return FormatMarkdown, nil
	}
	switch OutputFormat(f) {
	case FormatMarkdown, FormatJSON, FormatYAML:
		return OutputFormat(f), nil
	default:
		return "", fmt.Errorf("unsupported format: %s", f)
	}
}

// FormatResponse formats a response according to the specified format.
// markdown renders the markdown form and may be nil when only structured
// formats make sense.
func FormatResponse(resp interface{}, markdown func() string, format OutputFormat) (string, error) {
	switch format {
	case FormatJSON:
		return formatJSON(resp)
	case FormatYAML:
		return formatYAML(resp)
	case FormatMarkdown:
		if markdown == nil {
			return formatYAML(resp)
		}
		return markdown(), nil
	default:
		return "", fmt.Errorf("unsupported format: %s", format)
	}
}

// formatJSON formats the response as JSON
func formatJSON(resp interface{}) (string, error) {
	data, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return string(data), nil
}

// formatYAML formats the response as YAML. Values go through JSON first so
// that json tags and custom JSON marshalers decide the shape.
func formatYAML(resp interface{}) (string, error) {
	data, err := json.Marshal(resp)
	if err != nil {
		return "", fmt.Errorf("failed to marshal JSON: %w", err)
	}
	var generic yaml.Node
	if err := yaml.Unmarshal(data, &generic); err != nil {
		return "", fmt.Errorf("failed to convert to YAML: %w", err)
	}
	// JSON parses as flow style with quoted strings
	plainStyle(&generic)
	out, err := yaml.Marshal(&generic)
	if err != nil {
		return "", fmt.Errorf("failed to marshal YAML: %w", err)
	}
	return string(out), nil
}

// plainStyle resets node styles so the encoder picks block style and only
// quotes strings that would otherwise resolve to another type.
func plainStyle(n *yaml.Node) {
	n.Style = 0
	for _, c := range n.Content {
		plainStyle(c)
	}
}

// printResponse writes the formatted response followed by a newline.
func printResponse(w io.Writer, format OutputFormat, resp interface{}, markdown func() string) error {
	out, err := FormatResponse(resp, markdown, format)
	if err != nil {
		return err
	}
	if len(out) > 0 && out[len(out)-1] == '\n' {
		_, err = io.WriteString(w, out)
	} else {
		_, err = fmt.Fprintln(w, out)
	}
	return err
}
