package frametree

import (
	"math"

	"github.com/matzehuels/stackflame/pkg/collapsed"
	"github.com/matzehuels/stackflame/pkg/errors"
)

// Tree is a fully merged call tree.
type Tree struct {
	Root *Node

	// Differential is set when at least one record carried two weights.
	Differential bool

	// Records is the number of records merged into the tree.
	Records int

	nodes    int
	maxDepth int
	maxDelta float64
}

// NodeCount returns the number of nodes, including the root.
func (t *Tree) NodeCount() int { return t.nodes }

// MaxDepth returns the depth of the deepest frame. The root has depth 0.
func (t *Tree) MaxDepth() int { return t.maxDepth }

// MaxDelta returns the largest absolute delta of any non-root frame.
// It is zero for non-differential trees.
func (t *Tree) MaxDelta() float64 { return t.maxDelta }

// Total returns the root's baseline total.
func (t *Tree) Total() float64 { return t.Root.Total }

// Walk visits nodes in pre-order, children in lexical order. Returning false
// from fn skips the node's subtree.
func (t *Tree) Walk(fn func(n *Node) bool) {
	walk(t.Root, fn)
}

func walk(n *Node, fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.sorted {
		walk(c, fn)
	}
}

// Option configures a Builder.
type Option func(*Builder)

// WithReverse merges every stack in inner-to-outer order, producing a
// callers view rooted at the leaf functions.
func WithReverse() Option { return func(b *Builder) { b.reverse = true } }

// Builder accumulates records into a tree.
// A Builder is not safe for concurrent use.
type Builder struct {
	root         *Node
	records      int
	nodes        int
	maxDepth     int
	differential bool
	reverse      bool
	built        bool
}

// NewBuilder returns an empty Builder.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{root: newNode(RootName, 0, nil), nodes: 1}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Add merges one record. Each node on the record's path, and the root, has
// the record's weights added to its totals.
func (b *Builder) Add(rec collapsed.Record) {
	if b.reverse {
		rec = rec.Reversed()
	}
	b.records++
	if rec.Differential {
		b.differential = true
	}

	n := b.root
	n.Total += rec.Value
	n.Total2 += rec.Value2
	for _, name := range rec.Frames {
		var created bool
		n, created = n.child(name)
		if created {
			b.nodes++
			b.maxDepth = max(b.maxDepth, n.Depth)
		}
		n.Total += rec.Value
		n.Total2 += rec.Value2
	}
}

// Records returns the number of records merged so far.
func (b *Builder) Records() int { return b.records }

// Tree finalizes and returns the merged tree. It fails with
// errors.ErrCodeNoStacks when no record was added. The Builder must not be
// used after Tree returns successfully.
func (b *Builder) Tree() (*Tree, error) {
	if b.records == 0 {
		return nil, errors.New(errors.ErrCodeNoStacks, "No stack counts found")
	}
	if !b.built {
		b.root.finalize(b.differential)
		b.built = true
	}

	t := &Tree{
		Root:         b.root,
		Differential: b.differential,
		Records:      b.records,
		nodes:        b.nodes,
		maxDepth:     b.maxDepth,
	}
	if b.differential {
		t.Walk(func(n *Node) bool {
			if !n.IsRoot() {
				t.maxDelta = math.Max(t.maxDelta, math.Abs(n.Delta))
			}
			return true
		})
	}
	return t, nil
}
