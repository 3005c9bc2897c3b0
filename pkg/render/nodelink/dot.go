package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/stackflame/pkg/render"
	"github.com/matzehuels/stackflame/pkg/render/flame/palette"
)

// Options configures call graph construction and rendering.
type Options struct {
	// MinShare drops functions with less than this fraction of all samples.
	MinShare float64

	// Detailed adds self and total sample counts to node labels.
	// When false, labels show the name and total share only.
	Detailed bool

	// Fill colors a node by function name. Nil leaves nodes white.
	Fill func(name string) palette.Color
}

// ToDOT converts a call graph to Graphviz DOT format.
// The resulting DOT string can be rendered using [RenderSVG], [RenderPDF], or [RenderPNG].
func ToDOT(g *Graph, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  edge [color=\"#555555\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for _, f := range g.Funcs {
		attrs := []string{fmt.Sprintf("label=%q", fmtLabel(f, g.Total, opts.Detailed))}
		if opts.Fill != nil {
			attrs = append(attrs, fmt.Sprintf("fillcolor=%q", opts.Fill(f.Name).Hex()))
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", f.Name, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, c := range g.Calls {
		fmt.Fprintf(&buf, "  %q -> %q [penwidth=%s, label=%q];\n",
			c.From, c.To, penWidth(c.Weight, g.Total), formatShare(c.Weight, g.Total))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(f Func, total float64, detailed bool) string {
	if !detailed {
		return f.Name + "\n" + formatShare(f.Total, total)
	}
	return fmt.Sprintf("%s\nself: %s (%s)\ntotal: %s (%s)", f.Name,
		strconv.FormatFloat(f.Self, 'f', -1, 64), formatShare(f.Self, total),
		strconv.FormatFloat(f.Total, 'f', -1, 64), formatShare(f.Total, total))
}

func formatShare(v, total float64) string {
	if total <= 0 {
		return "0%"
	}
	return fmt.Sprintf("%.2f%%", 100*v/total)
}

func penWidth(w, total float64) string {
	share := 0.0
	if total > 0 {
		share = w / total
	}
	return strconv.FormatFloat(1+4*share, 'f', 2, 64)
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
// Returns the SVG bytes ready for display or further conversion with [render.ToPDF] or [render.ToPNG].
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's point-based <svg> tag with a
// viewBox-only one so the graph scales to its container.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}

// RenderPDF renders a DOT graph as PDF via SVG conversion.
func RenderPDF(ctx context.Context, dot string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(ctx, svg)
}

// RenderPNG renders a DOT graph as PNG via SVG conversion.
// A scale of 2.0 produces a 2x resolution image suitable for high-DPI displays.
func RenderPNG(ctx context.Context, dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(ctx, svg, scale)
}
