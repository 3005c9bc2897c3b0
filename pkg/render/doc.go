// Package render holds the output side of stackflame.
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions convert any SVG to other formats using
// the external rsvg-convert tool (from librsvg). Both the flame graph and
// the call graph renderers go through them.
//
//	pdf, err := render.ToPDF(ctx, svg)
//	png, err := render.ToPNG(ctx, svg, 2.0)  // 2x scale
//
// # Flame Graphs
//
// The flame subpackages turn a merged stack tree into an SVG:
//   - [flame/layout]: frame geometry and narrow-frame pruning
//   - [flame/palette]: frame colors and persisted color maps
//   - [flame/frameattrs]: per-function tooltip and attribute overrides
//   - [flame/sink]: SVG and JSON output
//
// # Call Graphs
//
// The [nodelink] subpackage folds the same tree by function name and draws
// it with Graphviz.
//
// [flame/layout]: github.com/matzehuels/stackflame/pkg/render/flame/layout
// [flame/palette]: github.com/matzehuels/stackflame/pkg/render/flame/palette
// [flame/frameattrs]: github.com/matzehuels/stackflame/pkg/render/flame/frameattrs
// [flame/sink]: github.com/matzehuels/stackflame/pkg/render/flame/sink
// [nodelink]: github.com/matzehuels/stackflame/pkg/render/nodelink
package render
