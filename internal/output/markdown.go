package output

import (
	"fmt"
	"sort"
	"strings"

	"webcompat/internal/bcd"
	"webcompat/internal/query"
	"webcompat/internal/webfeatures"
)

// MaxRelatedFeatures caps the BCD paths listed under a web feature.
const MaxRelatedFeatures = 10

const none = "—"

// BaselineLabel returns the display label of a Baseline level.
func BaselineLabel(l webfeatures.Level) string {
	switch l {
	case webfeatures.High:
		return "✅ Widely Available"
	case webfeatures.Low:
		return "🟡 Newly Available"
	default:
		return "❌ Not Baseline"
	}
}

// FormatVersion renders a version_added value: true is "Yes", false or
// unknown is "❌ No", a version string gets a trailing "+".
func FormatVersion(v bcd.VersionValue) string {
	switch {
	case v.IsVersion():
		return v.Version + "+"
	case v.IsSupported():
		return "Yes"
	default:
		return "❌ No"
	}
}

// FormatCompatCheck renders a single feature's compatibility summary.
func FormatCompatCheck(fc *query.FeatureCompat) string {
	var lines []string
	lines = append(lines, "# "+fc.ID, "")

	var status []string
	if fc.Status.StandardTrack {
		status = append(status, "Standard Track")
	}
	if fc.Status.Experimental {
		status = append(status, "⚠️ Experimental")
	}
	if fc.Status.Deprecated {
		status = append(status, "⛔ Deprecated")
	}
	if len(status) > 0 {
		lines = append(lines, "**Status**: "+strings.Join(status, " | "))
	}

	if fc.Baseline != nil {
		line := "**Baseline**: " + BaselineLabel(fc.Baseline.Status)
		if fc.Baseline.LowDate != "" {
			line += fmt.Sprintf(" (%s~)", fc.Baseline.LowDate)
		}
		lines = append(lines, line)
	}
	lines = append(lines, "")

	lines = append(lines,
		"## Browser Support",
		"",
		"| Browser | Version | Notes |",
		"|---------|---------|-------|",
	)
	for _, browser := range fc.Browsers {
		info := fc.Support[browser]
		lines = append(lines, fmt.Sprintf("| %s | %s | %s |", browser, FormatVersion(info.VersionAdded), supportNotes(info)))
	}
	lines = append(lines, "")

	if fc.MDNURL != "" {
		lines = append(lines, fmt.Sprintf("📖 [MDN](%s)", fc.MDNURL))
	}
	if spec := fc.SpecURL.First(); spec != "" {
		lines = append(lines, fmt.Sprintf("📋 [Spec](%s)", spec))
	}

	return strings.Join(lines, "\n")
}

func supportNotes(info query.SupportInfo) string {
	var notes []string
	if info.PartialImplementation {
		notes = append(notes, "Partial")
	}
	if info.Flags {
		notes = append(notes, "Flag required")
	}
	if info.Prefix != "" {
		notes = append(notes, "Prefix: "+info.Prefix)
	}
	if info.VersionRemoved != nil && info.VersionRemoved.IsSupported() {
		notes = append(notes, "Removed in "+info.VersionRemoved.String())
	}
	return strings.Join(notes, ", ")
}

// FormatSearch renders a page of keyword search hits.
func FormatSearch(page query.Page[query.SearchItem], q string) string {
	var lines []string
	lines = append(lines,
		fmt.Sprintf("# Search Results: %q", q),
		"",
		foundLine(page.Total, page.Count()),
		"",
		"| Feature ID | Standard | Experimental | Deprecated |",
		"|------------|----------|--------------|------------|",
	)
	for _, item := range page.Items {
		lines = append(lines, fmt.Sprintf("| `%s` | %s | %s | %s |",
			item.ID,
			mark(item.StandardTrack, "✅", "❌"),
			mark(item.Experimental, "⚠️", none),
			mark(item.Deprecated, "⛔", none),
		))
	}
	lines = appendMore(lines, page.HasMore, page.Total-page.NextOffset())
	return strings.Join(lines, "\n")
}

// FormatBaseline renders the Baseline view of one web feature.
func FormatBaseline(r *query.BaselineResult) string {
	var lines []string
	lines = append(lines,
		"# "+r.Name,
		"",
		fmt.Sprintf("**ID**: `%s`", r.ID),
	)
	if r.RedirectedFrom != "" {
		lines = append(lines, fmt.Sprintf("**Moved from**: `%s`", r.RedirectedFrom))
	}
	lines = append(lines, "**Baseline**: "+BaselineLabel(r.Baseline.Status))
	if r.Baseline.LowDate != "" {
		lines = append(lines, "**Newly Available since**: "+r.Baseline.LowDate)
	}
	if r.Baseline.HighDate != "" {
		lines = append(lines, "**Widely Available since**: "+r.Baseline.HighDate)
	}
	if r.Discouraged {
		lines = append(lines, "**Discouraged**: ⛔ avoid in new code")
	}
	lines = append(lines, "")

	if r.Description != "" {
		lines = append(lines, r.Description, "")
	}

	lines = append(lines,
		"## Browser Support",
		"",
		"| Browser | Version |",
		"|---------|---------|",
	)
	for _, browser := range OrderBrowsers(r.BrowserSupport) {
		lines = append(lines, fmt.Sprintf("| %s | %s+ |", browser, r.BrowserSupport[browser]))
	}
	lines = append(lines, "")

	if len(r.CompatFeatures) > 0 {
		lines = append(lines, "## Related BCD Features", "")
		shown := r.CompatFeatures
		if len(shown) > MaxRelatedFeatures {
			shown = shown[:MaxRelatedFeatures]
		}
		for _, path := range shown {
			lines = append(lines, fmt.Sprintf("- `%s`", path))
		}
		if extra := len(r.CompatFeatures) - len(shown); extra > 0 {
			lines = append(lines, fmt.Sprintf("- ... and %d more", extra))
		}
		lines = append(lines, "")
	}

	if r.Spec != "" {
		lines = append(lines, fmt.Sprintf("📋 [Spec](%s)", r.Spec))
	}

	return strings.Join(lines, "\n")
}

// FormatBaselineList renders a page of web features. statusFilter, when
// non-empty, is shown in the title.
func FormatBaselineList(page query.Page[query.BaselineResult], statusFilter string) string {
	title := "Baseline Features"
	if statusFilter != "" {
		title = fmt.Sprintf("Baseline Features (%s)", statusFilter)
	}
	return formatBaselineTable(title, page)
}

// FormatBaselineSearch renders a page of web features matching q.
func FormatBaselineSearch(page query.Page[query.BaselineResult], q string) string {
	return formatBaselineTable(fmt.Sprintf("Web Features matching %q", q), page)
}

func formatBaselineTable(title string, page query.Page[query.BaselineResult]) string {
	var lines []string
	lines = append(lines,
		"# "+title,
		"",
		foundLine(page.Total, page.Count()),
		"",
		"| Feature | Baseline | Since |",
		"|---------|----------|-------|",
	)
	for _, r := range page.Items {
		since := r.Baseline.LowDate
		if since == "" {
			since = none
		}
		lines = append(lines, fmt.Sprintf("| %s (`%s`) | %s | %s |", r.Name, r.ID, BaselineLabel(r.Baseline.Status), since))
	}
	lines = appendMore(lines, page.HasMore, page.Total-page.NextOffset())
	return strings.Join(lines, "\n")
}

// FormatCompare renders features side by side, one row per browser.
func FormatCompare(result *query.CompareResult) string {
	var lines []string
	lines = append(lines, "# Feature Comparison", "")

	if len(result.NotFound) > 0 {
		quoted := make([]string, len(result.NotFound))
		for i, id := range result.NotFound {
			quoted[i] = "`" + id + "`"
		}
		lines = append(lines, "> ⚠️ Not found: "+strings.Join(quoted, ", "), "")
	}

	seen := make(map[string]bool)
	var browsers []string
	for _, fc := range result.Features {
		for _, b := range fc.Browsers {
			if !seen[b] {
				seen[b] = true
				browsers = append(browsers, b)
			}
		}
	}
	sort.Strings(browsers)

	header := "| Browser |"
	separator := "|---|"
	for _, fc := range result.Features {
		header += fmt.Sprintf(" `%s` |", fc.ID)
		separator += "---|"
	}
	lines = append(lines, header, separator)

	for _, browser := range browsers {
		row := fmt.Sprintf("| %s |", browser)
		for _, fc := range result.Features {
			info, ok := fc.Support[browser]
			if !ok {
				row += " " + none + " |"
				continue
			}
			cell := FormatVersion(info.VersionAdded)
			extras := ""
			if info.Flags {
				extras += "🚩"
			}
			if info.PartialImplementation {
				extras += "⚠️"
			}
			if extras != "" {
				cell += " " + extras
			}
			row += " " + cell + " |"
		}
		lines = append(lines, row)
	}
	lines = append(lines, "")

	hasBaseline := false
	for _, fc := range result.Features {
		if fc.Baseline != nil {
			hasBaseline = true
			break
		}
	}
	if hasBaseline {
		lines = append(lines, "## Baseline Status", "")
		for _, fc := range result.Features {
			label := "No data"
			if fc.Baseline != nil {
				label = BaselineLabel(fc.Baseline.Status)
			}
			lines = append(lines, fmt.Sprintf("- `%s`: %s", fc.ID, label))
		}
		lines = append(lines, "")
	}

	return strings.Join(lines, "\n")
}

// FormatBrowsers renders the browser catalogue grouped by browser type, in
// order of first appearance.
func FormatBrowsers(browsers []query.BrowserSummary) string {
	var lines []string
	lines = append(lines,
		"# Tracked Browsers",
		"",
		fmt.Sprintf("Total: **%d** browsers", len(browsers)),
		"",
	)

	var types []string
	grouped := make(map[string][]query.BrowserSummary)
	for _, b := range browsers {
		t := b.Type
		if t == "" {
			t = "unknown"
		}
		if _, ok := grouped[t]; !ok {
			types = append(types, t)
		}
		grouped[t] = append(grouped[t], b)
	}

	for _, t := range types {
		lines = append(lines,
			"## "+strings.ToUpper(t[:1])+t[1:],
			"",
			"| ID | Name | Current Version | Release Date |",
			"|----|------|-----------------|--------------|",
		)
		for _, b := range grouped[t] {
			lines = append(lines, fmt.Sprintf("| %s | %s | %s | %s |", b.ID, b.Name, orNone(b.CurrentVersion), orNone(b.ReleaseDate)))
		}
		lines = append(lines, "")
	}

	return strings.Join(lines, "\n")
}

// FormatCheckSupport renders features first supported in one browser
// version.
func FormatCheckSupport(browser, version string, page query.Page[query.VersionMatch]) string {
	var lines []string
	lines = append(lines,
		fmt.Sprintf("# Features added in %s %s", browser, version),
		"",
		foundLine(page.Total, page.Count()),
		"",
		"| Feature ID |",
		"|------------|",
	)
	for _, m := range page.Items {
		lines = append(lines, fmt.Sprintf("| `%s` |", m.ID))
	}
	lines = appendMore(lines, page.HasMore, page.Total-page.NextOffset())
	return strings.Join(lines, "\n")
}

// FormatStatus renders dataset versions and index sizes.
func FormatStatus(s query.DatasetStatus) string {
	var lines []string
	lines = append(lines,
		"# Dataset Status",
		"",
		"| Dataset | Value |",
		"|---------|-------|",
		fmt.Sprintf("| BCD version | %s |", orNone(s.BCDVersion)),
		fmt.Sprintf("| BCD timestamp | %s |", orNone(s.BCDTimestamp)),
		fmt.Sprintf("| Indexed paths | %d |", s.IndexedPaths),
		fmt.Sprintf("| Browsers | %d |", s.Browsers),
		fmt.Sprintf("| Web features | %d |", s.WebFeatures),
		fmt.Sprintf("| Web feature groups | %d |", s.WebFeatureGroups),
		fmt.Sprintf("| Cross references | %d |", s.CrossReferences),
		"",
		"## Paths by Category",
		"",
		"| Category | Paths |",
		"|----------|-------|",
	)
	for _, category := range bcd.Categories {
		if n, ok := s.PathsByCategory[category]; ok {
			lines = append(lines, fmt.Sprintf("| %s | %d |", category, n))
		}
	}
	return strings.Join(lines, "\n")
}

// OrderBrowsers returns the keys of a browser-keyed map with the Baseline
// core browsers first, in their canonical order, then the rest sorted.
func OrderBrowsers[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	known := make(map[string]bool, len(query.BaselineBrowsers))
	for _, b := range query.BaselineBrowsers {
		known[b] = true
		if _, ok := m[b]; ok {
			out = append(out, b)
		}
	}
	var rest []string
	for b := range m {
		if !known[b] {
			rest = append(rest, b)
		}
	}
	sort.Strings(rest)
	return append(out, rest...)
}

func foundLine(total, shown int) string {
	return fmt.Sprintf("Found **%d** features (showing %d)", total, shown)
}

func appendMore(lines []string, hasMore bool, remaining int) []string {
	if !hasMore {
		return lines
	}
	return append(lines, "", fmt.Sprintf("> %d more results available. Use `offset` parameter to paginate.", remaining))
}

func mark(ok bool, yes, no string) string {
	if ok {
		return yes
	}
	return no
}

func orNone(s string) string {
	if s == "" {
		return none
	}
	return s
}
