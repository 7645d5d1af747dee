package mcp

import (
	"fmt"
	"strings"

	"webcompat/internal/bcd"
	"webcompat/internal/envelope"
	"webcompat/internal/errors"
	"webcompat/internal/output"
	"webcompat/internal/query"
	"webcompat/internal/webfeatures"
)

// toolCompatCheck implements compat_check
func (s *MCPServer) toolCompatCheck(params map[string]interface{}) (*ToolResult, error) {
	p := toolParams(params)
	if err := p.allowOnly("feature", "browsers"); err != nil {
		return nil, err
	}
	feature, err := p.requiredString("feature", 0)
	if err != nil {
		return nil, err
	}
	browsers, err := p.stringSlice("browsers", 0, 0)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("Executing compat_check", "feature", feature, "browsers", browsers)

	fc, ok := s.engine.GetFeatureCompat(feature, browsers)
	if !ok {
		return notFoundResult(s.newResponse(), errors.NewFeatureNotFoundError(feature)), nil
	}

	b := s.newResponse().Data(fc).WithSources(true, fc.Baseline != nil)
	if missing := missingBrowsers(browsers, fc.Support); len(missing) > 0 {
		b.WarningWithCode("NO_BROWSER_DATA", "No support data for: "+strings.Join(missing, ", "))
	}
	if fc.WebFeature != "" {
		b.SuggestCalls([]errors.Drilldown{
			{Label: "Baseline status of the covering web feature", Query: "compat_get_baseline " + fc.WebFeature},
		})
	}

	return dataResult(b, func() string { return output.FormatCompatCheck(fc) }).counts(1, 1), nil
}

// toolCompatCompare implements compat_compare
func (s *MCPServer) toolCompatCompare(params map[string]interface{}) (*ToolResult, error) {
	p := toolParams(params)
	if err := p.allowOnly("features", "browsers"); err != nil {
		return nil, err
	}
	features, err := p.stringSlice("features", MinCompareFeatures, MaxCompareFeatures)
	if err != nil {
		return nil, err
	}
	browsers, err := p.stringSlice("browsers", 0, 0)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("Executing compat_compare", "features", features, "browsers", browsers)

	result := s.engine.Compare(features, browsers)
	if len(result.Features) == 0 {
		return textResult(s.newResponse(), output.NoneFound(result.NotFound)).counts(len(features), 0), nil
	}

	hasBaseline := true
	for _, fc := range result.Features {
		if fc.Baseline == nil {
			hasBaseline = false
		}
	}

	b := s.newResponse().Data(result).WithSources(true, hasBaseline)
	if len(result.NotFound) > 0 {
		b.WarningWithCode(string(errors.FeatureNotFound), "Not found: "+strings.Join(result.NotFound, ", "))
	}

	return dataResult(b, func() string { return output.FormatCompare(result) }).
		counts(len(features), len(result.Features)), nil
}

// toolCompatSearch implements compat_search
func (s *MCPServer) toolCompatSearch(params map[string]interface{}) (*ToolResult, error) {
	p := toolParams(params)
	if err := p.allowOnly("query", "category", "limit", "offset"); err != nil {
		return nil, err
	}
	q, err := p.requiredString("query", MaxSearchQueryLength)
	if err != nil {
		return nil, err
	}
	category, err := p.enum("category", bcd.Categories)
	if err != nil {
		return nil, err
	}
	limit, offset, err := s.window(p)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("Executing compat_search", "query", q, "category", category, "limit", limit, "offset", offset)

	page := s.engine.Search(q, category, limit, offset)
	if page.Total == 0 {
		return textResult(s.newResponse(), output.NoSearchResults(q, category)), nil
	}

	b := s.newResponse().
		Data(output.Paginated("features", page, nil)).
		WithPagination(page.Total, page.Count(), page.Offset, page.HasMore)
	if page.Count() > 0 {
		b.SuggestCalls([]errors.Drilldown{
			{Label: "Check compatibility of the first match", Query: "compat_check " + page.Items[0].ID},
		})
	}

	return dataResult(b, func() string { return output.FormatSearch(page, q) }).
		counts(page.Total, page.Count()), nil
}

// toolGetBaseline implements compat_get_baseline
func (s *MCPServer) toolGetBaseline(params map[string]interface{}) (*ToolResult, error) {
	p := toolParams(params)
	if err := p.allowOnly("feature"); err != nil {
		return nil, err
	}
	id, err := p.requiredString("feature", 0)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("Executing compat_get_baseline", "feature", id)

	result, ok := s.engine.GetBaselineStatus(id)
	if !ok {
		return notFoundResult(s.newResponse(), errors.NewWebFeatureNotFoundError(id)), nil
	}

	b := s.newResponse().Data(result).WithSources(len(result.CompatFeatures) > 0, true)
	if result.RedirectedFrom != "" {
		b.WarningWithCode("MOVED", fmt.Sprintf("'%s' has moved to '%s'", result.RedirectedFrom, result.ID))
	}
	if result.Discouraged {
		b.WarningWithCode("DISCOURAGED", "This feature is discouraged; avoid it in new code")
	}

	return dataResult(b, func() string { return output.FormatBaseline(result) }).counts(1, 1), nil
}

// toolListBaseline implements compat_list_baseline
func (s *MCPServer) toolListBaseline(params map[string]interface{}) (*ToolResult, error) {
	p := toolParams(params)
	if err := p.allowOnly("status", "group", "limit", "offset"); err != nil {
		return nil, err
	}
	status, err := p.enum("status", []string{"high", "low", "false"})
	if err != nil {
		return nil, err
	}
	group, err := p.optionalString("group")
	if err != nil {
		return nil, err
	}
	limit, offset, err := s.window(p)
	if err != nil {
		return nil, err
	}

	filter := query.BaselineFilter{Group: group}
	if status != "" {
		level, err := webfeatures.ParseLevel(status)
		if err != nil {
			return nil, errors.NewInvalidParameterError("status", err.Error())
		}
		filter.Status = level.Ptr()
	}

	s.logger.Debug("Executing compat_list_baseline", "status", status, "group", group, "limit", limit, "offset", offset)

	page := s.engine.ListByBaseline(filter, limit, offset)
	if page.Total == 0 {
		return textResult(s.newResponse(), output.NoBaselineResults()), nil
	}

	b := s.newResponse().
		Data(output.Paginated("features", page, nil)).
		WithPagination(page.Total, page.Count(), page.Offset, page.HasMore)

	return dataResult(b, func() string { return output.FormatBaselineList(page, status) }).
		counts(page.Total, page.Count()), nil
}

// toolSearchBaseline implements compat_search_baseline
func (s *MCPServer) toolSearchBaseline(params map[string]interface{}) (*ToolResult, error) {
	p := toolParams(params)
	if err := p.allowOnly("query", "limit", "offset"); err != nil {
		return nil, err
	}
	q, err := p.requiredString("query", MaxSearchQueryLength)
	if err != nil {
		return nil, err
	}
	limit, offset, err := s.window(p)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("Executing compat_search_baseline", "query", q, "limit", limit, "offset", offset)

	page := s.engine.SearchWebFeatures(q, limit, offset)
	if page.Total == 0 {
		return textResult(s.newResponse(), output.NoBaselineResults()), nil
	}

	b := s.newResponse().
		Data(output.Paginated("features", page, map[string]interface{}{"query": q})).
		WithPagination(page.Total, page.Count(), page.Offset, page.HasMore)

	return dataResult(b, func() string { return output.FormatBaselineSearch(page, q) }).
		counts(page.Total, page.Count()), nil
}

// toolListBrowsers implements compat_list_browsers
func (s *MCPServer) toolListBrowsers(params map[string]interface{}) (*ToolResult, error) {
	if err := toolParams(params).allowOnly(); err != nil {
		return nil, err
	}

	browsers := s.engine.ListBrowsers()
	b := s.newResponse().Data(output.Listing{
		"total":    len(browsers),
		"browsers": browsers,
	})

	return dataResult(b, func() string { return output.FormatBrowsers(browsers) }).
		counts(len(browsers), len(browsers)), nil
}

// toolCheckSupport implements compat_check_support
func (s *MCPServer) toolCheckSupport(params map[string]interface{}) (*ToolResult, error) {
	p := toolParams(params)
	if err := p.allowOnly("browser", "version", "category", "limit", "offset"); err != nil {
		return nil, err
	}
	browser, err := p.requiredString("browser", 0)
	if err != nil {
		return nil, err
	}
	version, err := p.requiredString("version", 0)
	if err != nil {
		return nil, err
	}
	category, err := p.enum("category", bcd.Categories)
	if err != nil {
		return nil, err
	}
	limit, offset, err := s.window(p)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("Executing compat_check_support",
		"browser", browser,
		"version", version,
		"category", category,
	)

	page := s.engine.FindByBrowserVersion(browser, version, category, limit, offset)
	if page.Total == 0 {
		b := s.newResponse()
		if !s.engine.HasBrowser(browser) {
			b.WarningWithCode(string(errors.ResourceNotFound), fmt.Sprintf("Unknown browser '%s'", browser))
		}
		return textResult(b, output.NoSupportResults(browser, version, category)), nil
	}

	b := s.newResponse().
		Data(output.Paginated("features", page, map[string]interface{}{
			"browser": browser,
			"version": version,
		})).
		WithPagination(page.Total, page.Count(), page.Offset, page.HasMore)

	return dataResult(b, func() string { return output.FormatCheckSupport(browser, version, page) }).
		counts(page.Total, page.Count()), nil
}

// toolStatus implements compat_status
func (s *MCPServer) toolStatus(params map[string]interface{}) (*ToolResult, error) {
	if err := toolParams(params).allowOnly(); err != nil {
		return nil, err
	}

	status := s.engine.Status()
	b := s.newResponse().Data(status)
	return dataResult(b, func() string { return output.FormatStatus(status) }), nil
}

// toolMetrics implements compat_tool_metrics
func (s *MCPServer) toolMetrics(params map[string]interface{}) (*ToolResult, error) {
	if err := toolParams(params).allowOnly(); err != nil {
		return nil, err
	}
	if s.metrics == nil {
		return textResult(envelope.New(), "Tool metrics are disabled."), nil
	}

	summaries := s.metrics.Summary()
	data := output.Listing{
		"sessionId": s.metrics.SessionID(),
		"tools":     summaries,
	}
	return dataResult(envelope.New().Data(data), func() string {
		return formatMetrics(s.metrics.SessionID(), summaries)
	}), nil
}

// missingBrowsers lists requested browsers that have no support entry.
func missingBrowsers(requested []string, support map[string]query.SupportInfo) []string {
	var missing []string
	for _, b := range requested {
		if _, ok := support[b]; !ok {
			missing = append(missing, b)
		}
	}
	return missing
}
