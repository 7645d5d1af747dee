package query

// DatasetStatus summarises the loaded datasets and their indices.
type DatasetStatus struct {
	BCDVersion       string         `json:"bcdVersion"`
	BCDTimestamp     string         `json:"bcdTimestamp,omitempty"`
	IndexedPaths     int            `json:"indexedPaths"`
	PathsByCategory  map[string]int `json:"pathsByCategory"`
	Browsers         int            `json:"browsers"`
	WebFeatures      int            `json:"webFeatures"`
	WebFeatureGroups int            `json:"webFeatureGroups"`
	CrossReferences  int            `json:"crossReferences"`
}

// Status reports dataset versions and index sizes. Calling it builds the
// indices if they have not been built yet.
func (e *Engine) Status() DatasetStatus {
	byCategory := make(map[string]int)
	total := 0
	for category, paths := range e.compat.PathIndex() {
		byCategory[category] = len(paths)
		total += len(paths)
	}

	return DatasetStatus{
		BCDVersion:       e.compat.Meta.Version,
		BCDTimestamp:     e.compat.Meta.Timestamp,
		IndexedPaths:     total,
		PathsByCategory:  byCategory,
		Browsers:         len(e.compat.Browsers()),
		WebFeatures:      len(e.features.Features()),
		WebFeatureGroups: len(e.features.Groups()),
		CrossReferences:  e.features.ReverseIndexSize(),
	}
}
