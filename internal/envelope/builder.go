package envelope

import (
	"strings"

	"webcompat/internal/errors"
)

// Builder constructs Response envelopes using a fluent API.
type Builder struct {
	resp *Response
}

// New creates a new envelope builder.
func New() *Builder {
	return &Builder{
		resp: &Response{
			SchemaVersion: CurrentSchemaVersion,
		},
	}
}

func (b *Builder) meta() *Meta {
	if b.resp.Meta == nil {
		b.resp.Meta = &Meta{}
	}
	return b.resp.Meta
}

// Data sets the tool-specific payload.
func (b *Builder) Data(data interface{}) *Builder {
	b.resp.Data = data
	return b
}

// FromDatasets records which datasets the response was computed from.
func (b *Builder) FromDatasets(refs ...DatasetRef) *Builder {
	if len(refs) == 0 {
		return b
	}
	m := b.meta()
	if m.Provenance == nil {
		m.Provenance = &Provenance{}
	}
	m.Provenance.Datasets = append(m.Provenance.Datasets, refs...)
	return b
}

// WithSources sets confidence from whether a BCD record and a Baseline
// status were found for the result.
func (b *Builder) WithSources(hasCompat, hasBaseline bool) *Builder {
	tier := TierFromSources(hasCompat, hasBaseline)
	score := 0.0
	switch tier {
	case TierHigh:
		score = 1.0
	case TierMedium:
		score = 0.75
	}

	c := &Confidence{
		Score:   score,
		Tier:    tier,
		Factors: sourceFactors(hasCompat, hasBaseline),
	}
	if !hasBaseline && hasCompat {
		c.Reasons = append(c.Reasons, "no-web-feature-mapping")
	}
	b.meta().Confidence = c
	return b
}

// WithPagination adds the listing window. A next offset is only reported
// when more items remain.
func (b *Builder) WithPagination(total, count, offset int, hasMore bool) *Builder {
	p := &Pagination{
		Total:   total,
		Count:   count,
		Offset:  offset,
		HasMore: hasMore,
	}
	if hasMore {
		next := offset + count
		p.NextOffset = &next
	}
	b.meta().Pagination = p
	return b
}

// WithTruncation adds truncation metadata.
func (b *Builder) WithTruncation(truncated bool, shown, total int, reason string) *Builder {
	if !truncated {
		return b
	}

	b.meta().Truncation = &Truncation{
		IsTruncated: true,
		Shown:       shown,
		Total:       total,
		Reason:      reason,
	}

	return b
}

// SuggestCalls converts drilldowns to structured suggested calls.
func (b *Builder) SuggestCalls(drilldowns []errors.Drilldown) *Builder {
	if len(drilldowns) == 0 {
		return b
	}

	b.resp.SuggestedNextCalls = make([]SuggestedCall, 0, len(drilldowns))
	for _, d := range drilldowns {
		call := ParseDrilldown(d)
		if call != nil {
			b.resp.SuggestedNextCalls = append(b.resp.SuggestedNextCalls, *call)
		}
	}

	return b
}

// Warning adds a warning message.
func (b *Builder) Warning(msg string) *Builder {
	b.resp.Warnings = append(b.resp.Warnings, Warning{Message: msg})
	return b
}

// WarningWithCode adds a warning with a code.
func (b *Builder) WarningWithCode(code, msg string) *Builder {
	b.resp.Warnings = append(b.resp.Warnings, Warning{Code: code, Message: msg})
	return b
}

// Error sets the error field. Suggested fixes and drilldowns carried by a
// WebCompatError become suggested next calls.
func (b *Builder) Error(err error) *Builder {
	if err == nil {
		return b
	}

	msg := err.Error()
	if wcErr, ok := errors.AsWebCompatError(err); ok {
		msg = wcErr.Text()
		b.SuggestCalls(wcErr.Drilldowns)
	}
	b.resp.Error = &msg
	return b
}

// Build returns the completed response envelope.
func (b *Builder) Build() *Response {
	return b.resp
}

// ParseDrilldown converts a drilldown to a SuggestedCall.
func ParseDrilldown(d errors.Drilldown) *SuggestedCall {
	// Drilldown.Query format: "toolName param1 --flag=value" or just "toolName featureId"
	parts := strings.Fields(d.Query)
	if len(parts) == 0 {
		return nil
	}

	tool := parts[0]
	params := make(map[string]interface{})

	for i := 1; i < len(parts); i++ {
		part := parts[i]
		if strings.HasPrefix(part, "--") {
			kv := strings.SplitN(strings.TrimPrefix(part, "--"), "=", 2)
			if len(kv) == 2 {
				params[kv[0]] = kv[1]
			}
		} else {
			paramName := inferPositionalParam(tool, i-1)
			params[paramName] = part
		}
	}

	return &SuggestedCall{
		Tool:   tool,
		Params: params,
		Reason: d.Label,
	}
}

// inferPositionalParam guesses the parameter name for positional args.
func inferPositionalParam(tool string, position int) string {
	toolParams := map[string][]string{
		"compat_check":           {"feature"},
		"compat_compare":         {"features"},
		"compat_search":          {"query"},
		"compat_get_baseline":    {"feature"},
		"compat_search_baseline": {"query"},
		"compat_list_baseline":   {"status"},
		"compat_check_support":   {"browser", "version"},
	}

	if params, ok := toolParams[tool]; ok && position < len(params) {
		return params[position]
	}
	return "arg"
}

// Operational creates a simple envelope for operational tools.
// These always have high confidence and no truncation concerns.
func Operational(data interface{}) *Response {
	return &Response{
		SchemaVersion: CurrentSchemaVersion,
		Data:          data,
		Meta: &Meta{
			Confidence: &Confidence{
				Score: 1.0,
				Tier:  TierHigh,
			},
		},
	}
}
