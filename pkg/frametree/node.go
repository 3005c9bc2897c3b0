package frametree

import (
	"cmp"
	"slices"
)

// RootName is the display name of the synthetic root frame.
const RootName = "all"

// Node is one frame of the merged call tree.
type Node struct {
	Name  string
	Depth int

	Total float64 // baseline weight of every record through this node
	Self  float64 // Total minus the children's totals

	Total2 float64 // comparison channel; equals Total for non-differential input
	Self2  float64
	Delta  float64 // Total2 - Total

	parent   *Node
	children map[string]*Node
	sorted   []*Node
}

func newNode(name string, depth int, parent *Node) *Node {
	return &Node{Name: name, Depth: depth, parent: parent}
}

// Parent returns the enclosing frame, or nil for the root.
func (n *Node) Parent() *Node { return n.parent }

// Children returns the child frames in lexical order by name.
func (n *Node) Children() []*Node { return n.sorted }

// Child returns the child with the given name, or nil.
func (n *Node) Child(name string) *Node { return n.children[name] }

// IsRoot reports whether n is the synthetic root.
func (n *Node) IsRoot() bool { return n.parent == nil }

// Path returns the frame names from the first real frame down to n.
// The root's path is empty.
func (n *Node) Path() []string {
	var path []string
	for cur := n; cur.parent != nil; cur = cur.parent {
		path = append(path, cur.Name)
	}
	slices.Reverse(path)
	return path
}

func (n *Node) child(name string) (*Node, bool) {
	if c, ok := n.children[name]; ok {
		return c, false
	}
	if n.children == nil {
		n.children = make(map[string]*Node)
	}
	c := newNode(name, n.Depth+1, n)
	n.children[name] = c
	return c, true
}

// finalize derives self values, deltas and sibling order for the subtree.
// It must run only after every record has been added.
func (n *Node) finalize(differential bool) {
	n.sorted = make([]*Node, 0, len(n.children))
	var sum, sum2 float64
	for _, c := range n.children {
		c.finalize(differential)
		n.sorted = append(n.sorted, c)
		sum += c.Total
		sum2 += c.Total2
	}
	slices.SortFunc(n.sorted, func(a, b *Node) int { return cmp.Compare(a.Name, b.Name) })

	n.Self = max(0, n.Total-sum)
	n.Self2 = max(0, n.Total2-sum2)
	if differential {
		n.Delta = n.Total2 - n.Total
	}
}
