package output

import (
	"fmt"
	"strings"
)

// NoSearchResults explains an empty keyword search.
func NoSearchResults(q, category string) string {
	lines := []string{
		fmt.Sprintf("No features found matching %q.", q),
		"",
		"Suggestions:",
		"  - Try a broader search term",
		"  - BCD uses camelCase for API names (e.g., 'PushManager' not 'push-manager')",
	}
	if category != "" {
		lines = append(lines, "  - Try without the category filter to search all categories")
	} else {
		lines = append(lines, "  - Try filtering by category: api, css, html, javascript")
	}
	return strings.Join(lines, "\n")
}

// NoBaselineResults explains an empty web feature listing or search.
func NoBaselineResults() string {
	return "No features found matching the specified filters."
}

// NoSupportResults explains an empty browser version query.
func NoSupportResults(browser, version, category string) string {
	scope := ""
	if category != "" {
		scope = fmt.Sprintf(" in category %q", category)
	}
	return fmt.Sprintf("No features found for %s version %s%s. Try a different version or check with `compat_list_browsers` for available browsers.", browser, version, scope)
}

// NoneFound explains a comparison where no path resolved.
func NoneFound(paths []string) string {
	return "None of the specified features were found: " + strings.Join(paths, ", ")
}
