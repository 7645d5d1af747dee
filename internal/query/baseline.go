package query

import (
	"strings"

	"webcompat/internal/webfeatures"
)

// BaselineResult is the Baseline view of one web feature.
type BaselineResult struct {
	ID             string            `json:"id"`
	Name           string            `json:"name"`
	Description    string            `json:"description,omitempty"`
	Baseline       BaselineInfo      `json:"baseline"`
	BrowserSupport map[string]string `json:"browser_support"`
	CompatFeatures []string          `json:"compat_features"`
	Spec           string            `json:"spec,omitempty"`
	Group          string            `json:"group,omitempty"`
	Groups         []string          `json:"groups,omitempty"`
	Caniuse        string            `json:"caniuse,omitempty"`
	Discouraged    bool              `json:"discouraged,omitempty"`
	RedirectedFrom string            `json:"redirected_from,omitempty"`
}

func baselineResult(f *webfeatures.Feature) BaselineResult {
	support := f.Status.Support
	if support == nil {
		support = map[string]string{}
	}
	compat := f.CompatFeatures
	if compat == nil {
		compat = []string{}
	}

	return BaselineResult{
		ID:             f.ID,
		Name:           f.Name,
		Description:    f.Description,
		Baseline:       *baselineInfo(f),
		BrowserSupport: support,
		CompatFeatures: compat,
		Spec:           f.Spec.First(),
		Group:          f.Group.First(),
		Groups:         f.Group.Values,
		Caniuse:        f.Caniuse.First(),
		Discouraged:    f.Discouraged != nil,
	}
}

// GetBaselineStatus returns the Baseline view of a web feature by id. A
// moved feature resolves to its new id.
func (e *Engine) GetBaselineStatus(id string) (*BaselineResult, bool) {
	f, ok := e.features.Resolve(id)
	if !ok {
		return nil, false
	}

	result := baselineResult(f)
	if f.ID != id {
		result.RedirectedFrom = id
	}
	return &result, true
}

// BaselineFilter selects web features for ListByBaseline. A nil Status
// matches every status; NotBaseline is a real filter value.
type BaselineFilter struct {
	Status *webfeatures.Level
	Group  string
}

func (f BaselineFilter) matches(feature *webfeatures.Feature) bool {
	if f.Status != nil && feature.Status.Baseline != *f.Status {
		return false
	}
	if f.Group != "" && !feature.InGroup(f.Group) {
		return false
	}
	return true
}

// ListByBaseline lists web features matching filter in document order.
func (e *Engine) ListByBaseline(filter BaselineFilter, limit, offset int) Page[BaselineResult] {
	var matches []*webfeatures.Feature
	for _, f := range e.features.Features() {
		if filter.matches(f) {
			matches = append(matches, f)
		}
	}
	return toBaselinePage(Paginate(matches, offset, limit))
}

// SearchWebFeatures matches query case-insensitively against feature ids,
// names and descriptions.
func (e *Engine) SearchWebFeatures(query string, limit, offset int) Page[BaselineResult] {
	needle := strings.ToLower(query)

	var matches []*webfeatures.Feature
	for _, f := range e.features.Features() {
		if strings.Contains(strings.ToLower(f.ID), needle) ||
			strings.Contains(strings.ToLower(f.Name), needle) ||
			strings.Contains(strings.ToLower(f.Description), needle) {
			matches = append(matches, f)
		}
	}
	return toBaselinePage(Paginate(matches, offset, limit))
}

// FindWebFeatureID returns the web feature that covers a BCD path.
func (e *Engine) FindWebFeatureID(path string) (string, bool) {
	return e.features.FindByCompatPath(path)
}

func toBaselinePage(page Page[*webfeatures.Feature]) Page[BaselineResult] {
	items := make([]BaselineResult, 0, len(page.Items))
	for _, f := range page.Items {
		items = append(items, baselineResult(f))
	}
	return Page[BaselineResult]{
		Items:   items,
		Total:   page.Total,
		Offset:  page.Offset,
		HasMore: page.HasMore,
	}
}
