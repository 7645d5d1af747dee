package query

import (
	"strings"

	"webcompat/internal/bcd"
)

// SearchItem is one keyword search hit.
type SearchItem struct {
	ID            string `json:"id"`
	Description   string `json:"description,omitempty"`
	Deprecated    bool   `json:"deprecated"`
	Experimental  bool   `json:"experimental"`
	StandardTrack bool   `json:"standard_track"`
}

// Search returns indexed paths containing query, case-insensitively, in
// document order. An empty category searches every category; an unknown one
// matches nothing.
func (e *Engine) Search(query, category string, limit, offset int) Page[SearchItem] {
	needle := strings.ToLower(query)

	var matches []string
	for _, path := range e.candidatePaths(category) {
		if strings.Contains(strings.ToLower(path), needle) {
			matches = append(matches, path)
		}
	}

	page := Paginate(matches, offset, limit)
	items := make([]SearchItem, 0, len(page.Items))
	for _, path := range page.Items {
		items = append(items, e.searchItem(path))
	}

	return Page[SearchItem]{
		Items:   items,
		Total:   page.Total,
		Offset:  page.Offset,
		HasMore: page.HasMore,
	}
}

func (e *Engine) candidatePaths(category string) []string {
	if category == "" {
		return e.compat.AllPaths()
	}
	if !bcd.IsCategory(category) {
		return nil
	}
	return e.compat.Paths(category)
}

func (e *Engine) searchItem(path string) SearchItem {
	item := SearchItem{ID: path}

	rec, ok := e.compat.Lookup(path)
	if !ok {
		return item
	}
	if rec.MDNURL != "" {
		item.Description = "MDN: " + rec.MDNURL
	}
	if rec.Status != nil {
		item.Deprecated = rec.Status.Deprecated
		item.Experimental = rec.Status.Experimental
		item.StandardTrack = rec.Status.StandardTrack
	}
	return item
}

// VersionMatch is a feature first supported in a given browser version.
type VersionMatch struct {
	ID           string `json:"id"`
	VersionAdded string `json:"version_added"`
}

// FindByBrowserVersion returns indexed features whose normalized support
// statement for browser has version_added exactly equal to version.
// Ranged values such as "≤37" only match the identical string.
func (e *Engine) FindByBrowserVersion(browser, version, category string, limit, offset int) Page[VersionMatch] {
	var matches []VersionMatch
	for _, path := range e.candidatePaths(category) {
		rec, ok := e.compat.Lookup(path)
		if !ok {
			continue
		}
		stmt, ok := rec.SupportFor(browser)
		if !ok || !stmt.VersionAdded.Equals(version) {
			continue
		}
		matches = append(matches, VersionMatch{ID: path, VersionAdded: version})
	}

	return Paginate(matches, offset, limit)
}
