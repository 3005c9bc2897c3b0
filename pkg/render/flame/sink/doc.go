// Package sink serializes a flame graph [layout.Layout] into output formats.
//
// # SVG Output
//
// [RenderSVG] writes a standalone SVG document: a background gradient, a
// title and optional subtitle, the details, search and reset-zoom controls,
// and one group per surviving frame holding a tooltip, a colored rectangle
// and a label. Unless suppressed, an interaction script that adds
// click-to-zoom and regular expression search is embedded verbatim.
//
//	err := sink.RenderSVG(w, l,
//	    sink.WithTitle("Flame Graph"),
//	    sink.WithFill(func(f layout.Frame) palette.Color { return r.Color(f.Node.Name) }),
//	    sink.WithPretty(),
//	)
//
// The output is a pure function of the layout and options: rendering the
// same input twice yields identical bytes.
//
// # JSON Output
//
// [RenderJSON] exports frame geometry and sample values for external
// tooling.
package sink
