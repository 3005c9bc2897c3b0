// Package nodelink renders a merged stack tree as a call graph.
//
// Where a flame graph keeps every call path apart, a call graph folds all
// frames with the same function name into one node and draws an edge for
// every caller/callee pair that occurs in the input. Node boxes show the
// share of samples spent in and below the function; edge pen width grows
// with the share of samples that flowed along the call.
//
// # Usage
//
//	g := nodelink.Build(tree, nodelink.Options{MinShare: 0.005})
//	dot := nodelink.ToDOT(g, nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG conversion goes through [render.ToPDF] and
// [render.ToPNG] and requires librsvg (rsvg-convert).
package nodelink
