package bcd

import "strings"

// Categories are the top-level feature trees, in the order searches visit
// them.
var Categories = []string{
	"api",
	"css",
	"html",
	"http",
	"javascript",
	"mathml",
	"svg",
	"webassembly",
	"webdriver",
	"webextensions",
	"manifests",
}

// MaxIndexDepth bounds the path index traversal below a category root.
const MaxIndexDepth = 4

// IsCategory reports whether name is one of Categories.
func IsCategory(name string) bool {
	for _, c := range Categories {
		if c == name {
			return true
		}
	}
	return false
}

// PathIndex returns every indexed feature path grouped by category. The
// index is built on first call and shared afterwards; callers must not
// modify it.
func (d *Data) PathIndex() map[string][]string {
	d.indexOnce.Do(d.buildIndex)
	return d.index
}

// Paths returns the indexed paths for one category in document order.
func (d *Data) Paths(category string) []string {
	return d.PathIndex()[category]
}

// AllPaths returns the indexed paths of every category, categories in the
// order of Categories.
func (d *Data) AllPaths() []string {
	index := d.PathIndex()

	var n int
	for _, paths := range index {
		n += len(paths)
	}

	all := make([]string, 0, n)
	for _, c := range Categories {
		all = append(all, index[c]...)
	}
	return all
}

// IndexedCount returns the total number of indexed paths.
func (d *Data) IndexedCount() int {
	var n int
	for _, paths := range d.PathIndex() {
		n += len(paths)
	}
	return n
}

func (d *Data) buildIndex() {
	index := make(map[string][]string, len(Categories))
	for _, c := range Categories {
		node, ok := d.root.Child(c)
		if !ok {
			continue
		}
		var paths []string
		collectPaths(node, c, 0, &paths)
		index[c] = paths
	}
	d.index = index
}

// collectPaths appends, in document order, every descendant path of node
// that carries a compatibility record. Grouping nodes without a record are
// still descended into.
func collectPaths(node *Node, prefix string, depth int, out *[]string) {
	if depth > MaxIndexDepth {
		return
	}

	for _, key := range node.Keys() {
		if strings.HasPrefix(key, "__") {
			continue
		}
		child, _ := node.Child(key)
		path := prefix + "." + key
		if child.Compat != nil {
			*out = append(*out, path)
		}
		collectPaths(child, path, depth+1, out)
	}
}
