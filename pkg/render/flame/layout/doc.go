// Package layout assigns flame graph geometry to a merged call tree.
//
// Horizontal positions are computed in sample space first: the root spans
// [0, total*factor) and each node's children are packed left to right, in
// lexical order, from the node's own start offset, each as wide as its own
// total times the factor. Whatever a node does not hand out to its children
// is its self time and stays visible as the trailing part of the node's
// rectangle.
//
// Sample space is then mapped to pixels. Nodes narrower than the minimum
// width are dropped together with their subtrees; their weight remains part
// of every ancestor's total, so percentages elsewhere are unaffected.
//
// The vertical mapping depends on [Direction]: a [Normal] flame graph grows
// upward from the root at the bottom, an [Inverted] one (an icicle graph)
// hangs down from the root at the top.
package layout
