// Package pkg holds the libraries behind stackflame, a flame graph renderer
// for collapsed stack samples.
//
// # Overview
//
// A collapsed stack line names the frames of one sampled call stack,
// outermost first, followed by a count:
//
//	main;parse;lex 3
//	main;render 2
//
// Stackflame merges any number of such streams into one tree of frames,
// assigns each frame a horizontal extent proportional to its samples and
// writes an interactive SVG:
//
//	collapsed lines (any number of streams)
//	         ↓
//	    [collapsed] parse each line, count rejects
//	         ↓
//	    [frametree] merge into a tree, self values, deltas
//	         ↓
//	    [render/flame/layout] offsets, widths, pruning, pixels
//	         ↓
//	    [render/flame/palette] frame colors
//	         ↓
//	    [render/flame/sink] SVG or JSON
//
// # Quick Start
//
//	err := pipeline.FromReader(ctx, pipeline.Options{Title: "CPU"}, os.Stdin, os.Stdout)
//
// # Main Packages
//
// [pipeline] - The complete parse → merge → layout → render pipeline used by
// the CLI and the render server, with run-level diagnostics and an optional
// artifact cache.
//
// [collapsed] - Line parser and per-run counters.
//
// [frametree] - Order-independent merge of records into a frame tree,
// differential deltas.
//
// [render/flame] - Flame graph layout, colors, frame attribute files and the
// SVG and JSON sinks.
//
// [render/nodelink] - Call graphs folded from the frame tree, rendered with
// Graphviz.
//
// [render] - SVG to PDF/PNG conversion.
//
// [cache] - Artifact cache backends (file, Redis, null).
//
// [observability] - Hooks for pipeline stages, cache and HTTP events.
//
// [errors] - Coded errors shared by every package.
//
// # Testing
//
//	go test ./pkg/...
//	go test -run Example ./pkg/...
package pkg
