package output

import "webcompat/internal/query"

// Listing is a JSON object built from named entries. encoding/json and the
// YAML output both emit its keys sorted.
type Listing map[string]interface{}

// Paginated wraps a page as {key: items, total, count, offset, has_more}
// plus next_offset when more items remain. Extra entries are merged in.
func Paginated[T any](key string, page query.Page[T], extra map[string]interface{}) Listing {
	out := make(Listing, len(extra)+6)
	for k, v := range extra {
		out[k] = v
	}

	items := page.Items
	if items == nil {
		items = []T{}
	}
	out[key] = items
	out["total"] = page.Total
	out["count"] = page.Count()
	out["offset"] = page.Offset
	out["has_more"] = page.HasMore
	if page.HasMore {
		out["next_offset"] = page.NextOffset()
	}
	return out
}
