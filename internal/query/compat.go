package query

import (
	"webcompat/internal/bcd"
	"webcompat/internal/jsonutil"
	"webcompat/internal/webfeatures"
)

// SupportInfo is the normalized support of one feature in one browser.
type SupportInfo struct {
	VersionAdded          bcd.VersionValue  `json:"version_added"`
	VersionRemoved        *bcd.VersionValue `json:"version_removed,omitempty"`
	Flags                 bool              `json:"flags,omitempty"`
	PartialImplementation bool              `json:"partial_implementation,omitempty"`
	Prefix                string            `json:"prefix,omitempty"`
	AlternativeName       string            `json:"alternative_name,omitempty"`
	Notes                 string            `json:"notes,omitempty"`
}

// BaselineInfo is the Baseline triple attached to a feature.
type BaselineInfo struct {
	Status   webfeatures.Level `json:"status"`
	LowDate  string            `json:"low_date,omitempty"`
	HighDate string            `json:"high_date,omitempty"`
}

// FeatureCompat is the compatibility summary of one BCD feature.
type FeatureCompat struct {
	ID          string                 `json:"id"`
	Description string                 `json:"description,omitempty"`
	MDNURL      string                 `json:"mdn_url,omitempty"`
	SpecURL     jsonutil.StringList    `json:"spec_url,omitzero"`
	Status      bcd.Status             `json:"status"`
	Support     map[string]SupportInfo `json:"support"`
	Baseline    *BaselineInfo          `json:"baseline,omitempty"`
	WebFeature  string                 `json:"web_feature,omitempty"`

	// Browsers lists the keys of Support in request order.
	Browsers []string `json:"-"`
}

// Status descriptions.
const (
	DescriptionDeprecated   = "Deprecated"
	DescriptionExperimental = "Experimental"
)

// GetFeatureCompat returns the compatibility summary for a dotted BCD path.
// A nil browsers filter selects the engine's default browsers; an empty
// non-nil filter selects none. Browsers without data are omitted from the
// result.
func (e *Engine) GetFeatureCompat(path string, browsers []string) (*FeatureCompat, bool) {
	rec, ok := e.compat.Lookup(path)
	if !ok {
		return nil, false
	}

	if browsers == nil {
		browsers = e.defaultBrowsers
	}

	result := &FeatureCompat{
		ID:      path,
		MDNURL:  rec.MDNURL,
		SpecURL: rec.SpecURL,
		Support: make(map[string]SupportInfo, len(browsers)),
	}
	if rec.Status != nil {
		result.Status = *rec.Status
	}

	switch {
	case result.Status.Deprecated:
		result.Description = DescriptionDeprecated
	case result.Status.Experimental:
		result.Description = DescriptionExperimental
	}

	for _, browser := range browsers {
		if _, seen := result.Support[browser]; seen {
			continue
		}
		stmt, ok := rec.SupportFor(browser)
		if !ok {
			continue
		}
		result.Support[browser] = supportInfo(stmt)
		result.Browsers = append(result.Browsers, browser)
	}

	if id, ok := e.features.FindByCompatPath(path); ok {
		if f, ok := e.features.Feature(id); ok {
			result.WebFeature = id
			result.Baseline = baselineInfo(f)
		}
	}

	return result, true
}

func supportInfo(s bcd.Statement) SupportInfo {
	return SupportInfo{
		VersionAdded:          s.VersionAdded,
		VersionRemoved:        s.VersionRemoved,
		Flags:                 s.HasFlags(),
		PartialImplementation: s.PartialImplementation,
		Prefix:                s.Prefix,
		AlternativeName:       s.AlternativeName,
		Notes:                 s.Notes.Join("; "),
	}
}

func baselineInfo(f *webfeatures.Feature) *BaselineInfo {
	return &BaselineInfo{
		Status:   f.Status.Baseline,
		LowDate:  f.Status.BaselineLowDate,
		HighDate: f.Status.BaselineHighDate,
	}
}

// CompareResult holds the side-by-side comparison of several features.
type CompareResult struct {
	Features []*FeatureCompat `json:"features"`
	NotFound []string         `json:"not_found,omitempty"`
	Browsers []string         `json:"browsers"`
}

// Compare resolves each path independently. Unknown paths are reported in
// NotFound; the comparison is empty only when none resolved. The browsers
// filter follows GetFeatureCompat.
func (e *Engine) Compare(paths []string, browsers []string) *CompareResult {
	if browsers == nil {
		browsers = e.defaultBrowsers
	}

	result := &CompareResult{
		Features: make([]*FeatureCompat, 0, len(paths)),
		Browsers: browsers,
	}
	for _, path := range paths {
		fc, ok := e.GetFeatureCompat(path, browsers)
		if !ok {
			result.NotFound = append(result.NotFound, path)
			continue
		}
		result.Features = append(result.Features, fc)
	}
	return result
}
