// Package model defines the outline node treeline's loaders and UI share.
// The flatten engine itself is agnostic of this type — it reaches nodes only
// through accessors — but every concrete source in this repo produces *Node
// trees.
package model

import "time"

// Node is one entry of an outline document. Children order is the document
// order; sorting is a view concern applied by the flatten engine.
type Node struct {
	ID        string    `json:"id" yaml:"id"`
	Name      string    `json:"name" yaml:"name"`
	Kind      string    `json:"kind,omitempty" yaml:"kind,omitempty"`
	Tags      []string  `json:"tags,omitempty" yaml:"tags,omitempty"`
	CreatedAt time.Time `json:"created_at,omitempty" yaml:"created_at,omitempty"`
	Children  []*Node   `json:"children,omitempty" yaml:"children,omitempty"`
}

// Count returns the number of nodes in the subtree rooted at n, including n.
func (n *Node) Count() int {
	if n == nil {
		return 0
	}
	total := 1
	for _, c := range n.Children {
		total += c.Count()
	}
	return total
}

// Walk visits every node of the subtree in pre-order.
func (n *Node) Walk(visit func(*Node)) {
	if n == nil {
		return
	}
	visit(n)
	for _, c := range n.Children {
		c.Walk(visit)
	}
}

// FindByID returns the first node with the given id in pre-order, or nil.
func (n *Node) FindByID(id string) *Node {
	if n == nil {
		return nil
	}
	if n.ID == id {
		return n
	}
	for _, c := range n.Children {
		if found := c.FindByID(id); found != nil {
			return found
		}
	}
	return nil
}

// MaxDepth returns the depth of the deepest node, counting the root as 1.
func (n *Node) MaxDepth() int {
	if n == nil {
		return 0
	}
	deepest := 0
	for _, c := range n.Children {
		if d := c.MaxDepth(); d > deepest {
			deepest = d
		}
	}
	return deepest + 1
}
