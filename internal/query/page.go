package query

// Page is one window of an ordered result list.
type Page[T any] struct {
	Items   []T  `json:"items"`
	Total   int  `json:"total"`
	Offset  int  `json:"offset"`
	HasMore bool `json:"has_more"`
}

// Count returns the number of items in the page.
func (p Page[T]) Count() int {
	return len(p.Items)
}

// NextOffset returns the offset of the following page, or -1 when this is
// the last one.
func (p Page[T]) NextOffset() int {
	if !p.HasMore {
		return -1
	}
	return p.Offset + len(p.Items)
}

// Paginate slices all to [offset, offset+limit). An offset at or beyond the
// end yields an empty page.
func Paginate[T any](all []T, offset, limit int) Page[T] {
	if offset < 0 {
		offset = 0
	}
	if limit < 0 {
		limit = 0
	}

	total := len(all)
	if offset >= total {
		return Page[T]{Items: []T{}, Total: total, Offset: offset}
	}

	end := offset + limit
	if end > total {
		end = total
	}

	items := all[offset:end]
	return Page[T]{
		Items:   items,
		Total:   total,
		Offset:  offset,
		HasMore: total > offset+len(items),
	}
}
