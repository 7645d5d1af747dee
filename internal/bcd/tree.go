package bcd

import "strings"

// Node is one level of the feature tree. A node may carry a compatibility
// record, children, or both.
type Node struct {
	Compat   *CompatRecord
	keys     []string
	children map[string]*Node
}

// NewNode returns an empty node. Used by tests and by the decoder.
func NewNode(compat *CompatRecord) *Node {
	return &Node{Compat: compat, children: make(map[string]*Node)}
}

// AddChild appends a child in order. A repeated name replaces the child but
// keeps its original position.
func (n *Node) AddChild(name string, child *Node) {
	if _, exists := n.children[name]; !exists {
		n.keys = append(n.keys, name)
	}
	n.children[name] = child
}

// Child returns the named child.
func (n *Node) Child(name string) (*Node, bool) {
	c, ok := n.children[name]
	return c, ok
}

// Keys returns child names in document order.
func (n *Node) Keys() []string {
	return n.keys
}

// Len returns the number of children.
func (n *Node) Len() int {
	return len(n.keys)
}

// Node walks the tree along a dotted path.
func (d *Data) Node(path string) (*Node, bool) {
	if path == "" {
		return nil, false
	}

	node := d.root
	for _, part := range strings.Split(path, ".") {
		next, ok := node.Child(part)
		if !ok {
			return nil, false
		}
		node = next
	}
	return node, true
}

// Lookup returns the compatibility record at path. A path that resolves to
// a grouping node without a record is not found.
func (d *Data) Lookup(path string) (*CompatRecord, bool) {
	node, ok := d.Node(path)
	if !ok || node.Compat == nil {
		return nil, false
	}
	return node.Compat, true
}
