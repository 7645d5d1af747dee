package bcd

// Normalize collapses a support entry to one canonical statement: a single
// statement is returned as is; for a list, the first statement without flag
// requirements wins, falling back to the first statement. An empty list has
// no canonical statement.
func Normalize(entry SupportEntry) (Statement, bool) {
	ss := entry.Statements()
	if len(ss) == 0 {
		return Statement{}, false
	}
	if !entry.IsMultiple() {
		return ss[0], true
	}

	for _, s := range ss {
		if !s.HasFlags() {
			return s, true
		}
	}
	return ss[0], true
}

// SupportFor normalizes the entry for browser in rec.
func (rec *CompatRecord) SupportFor(browser string) (Statement, bool) {
	if rec == nil {
		return Statement{}, false
	}
	entry, ok := rec.Support[browser]
	if !ok {
		return Statement{}, false
	}
	return Normalize(entry)
}
