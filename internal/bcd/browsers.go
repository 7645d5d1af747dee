package bcd

// Browser is an entry of the top-level browsers catalogue.
type Browser struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Type        string    `json:"type"`
	PreviewName string    `json:"preview_name,omitempty"`
	Upstream    string    `json:"upstream,omitempty"`
	Releases    []Release `json:"releases"`
}

// Release is one browser version. Releases keep document order.
type Release struct {
	Version       string `json:"version"`
	ReleaseDate   string `json:"release_date,omitempty"`
	ReleaseNotes  string `json:"release_notes,omitempty"`
	Status        string `json:"status"`
	Engine        string `json:"engine,omitempty"`
	EngineVersion string `json:"engine_version,omitempty"`
}

// ReleaseCurrent is the status BCD gives the stable release of a browser.
const ReleaseCurrent = "current"

// CurrentRelease returns the first release, in document order, whose
// status is "current".
func (b Browser) CurrentRelease() (Release, bool) {
	for _, r := range b.Releases {
		if r.Status == ReleaseCurrent {
			return r, true
		}
	}
	return Release{}, false
}

// Browsers returns the browser catalogue in document order.
func (d *Data) Browsers() []Browser {
	return d.browsers
}

// Browser returns the catalogue entry for id.
func (d *Data) Browser(id string) (Browser, bool) {
	i, ok := d.browserIx[id]
	if !ok {
		return Browser{}, false
	}
	return d.browsers[i], true
}
