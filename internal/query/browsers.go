package query

// BrowserSummary describes one browser and its current stable release.
type BrowserSummary struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Type           string `json:"type"`
	CurrentVersion string `json:"current_version,omitempty"`
	ReleaseDate    string `json:"release_date,omitempty"`
}

// ListBrowsers returns every browser in the BCD catalogue in document order.
// The list is computed once.
func (e *Engine) ListBrowsers() []BrowserSummary {
	e.browsersOnce.Do(func() {
		browsers := e.compat.Browsers()
		summaries := make([]BrowserSummary, 0, len(browsers))
		for _, b := range browsers {
			s := BrowserSummary{ID: b.ID, Name: b.Name, Type: b.Type}
			if rel, ok := b.CurrentRelease(); ok {
				s.CurrentVersion = rel.Version
				s.ReleaseDate = rel.ReleaseDate
			}
			summaries = append(summaries, s)
		}
		e.browsers = summaries
	})
	return e.browsers
}

// HasBrowser reports whether id is a browser known to BCD.
func (e *Engine) HasBrowser(id string) bool {
	_, ok := e.compat.Browser(id)
	return ok
}
