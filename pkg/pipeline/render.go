package pipeline

import (
	"bytes"
	"context"
	"fmt"

	"github.com/matzehuels/stackflame/pkg/frametree"
	"github.com/matzehuels/stackflame/pkg/render"
	"github.com/matzehuels/stackflame/pkg/render/flame/layout"
	"github.com/matzehuels/stackflame/pkg/render/flame/palette"
	"github.com/matzehuels/stackflame/pkg/render/flame/sink"
)

// fillFor returns the frame color function of one render. Differential
// trees are shaded by delta; all others go through a fresh resolver so that
// the seeded generator starts over for every render.
func fillFor(t *frametree.Tree, opts *Options) func(layout.Frame) palette.Color {
	if t.Differential {
		maxDelta := t.MaxDelta()
		return func(f layout.Frame) palette.Color {
			return palette.Differential(f.Node.Delta, maxDelta, opts.NegateDifferentials)
		}
	}

	var ropts []palette.Option
	if opts.Hash {
		ropts = append(ropts, palette.WithHash())
	}
	if opts.PaletteMap != nil {
		ropts = append(ropts, palette.WithMap(opts.PaletteMap))
	}
	ropts = append(ropts, palette.WithSeed(opts.Seed))
	r := palette.NewResolver(opts.Palette, ropts...)
	return func(f layout.Frame) palette.Color { return r.Color(f.Node.Name) }
}

func svgOptions(t *frametree.Tree, opts *Options) []sink.SVGOption {
	svgOpts := []sink.SVGOption{
		sink.WithTitle(opts.Title),
		sink.WithSubtitle(opts.Subtitle),
		sink.WithNotes(opts.Notes),
		sink.WithFont(opts.FontType, opts.FontSize, opts.FontWidth),
		sink.WithLabels(opts.CountName, opts.NameType),
		sink.WithSearchColor(opts.SearchColor),
		sink.WithBackground(opts.BackgroundColors),
		sink.WithFill(fillFor(t, opts)),
		sink.WithFrameAttrs(opts.FuncFrameAttrs),
	}
	if t.Differential {
		svgOpts = append(svgOpts, sink.WithDifferential())
	}
	if opts.PrettyXML {
		svgOpts = append(svgOpts, sink.WithPretty())
	}
	if opts.NoJavaScript {
		svgOpts = append(svgOpts, sink.WithoutScript())
	}
	return svgOpts
}

// renderArtifact writes the laid out tree in opts.Format.
func renderArtifact(ctx context.Context, t *frametree.Tree, l layout.Layout, opts *Options) ([]byte, error) {
	if opts.Format == FormatJSON {
		jsonOpts := []sink.JSONOption{sink.WithJSONFill(fillFor(t, opts))}
		if t.Differential {
			jsonOpts = append(jsonOpts, sink.WithJSONDifferential())
		}
		return sink.RenderJSON(l, jsonOpts...)
	}

	var buf bytes.Buffer
	if err := sink.RenderSVG(&buf, l, svgOptions(t, opts)...); err != nil {
		return nil, fmt.Errorf("render svg: %w", err)
	}

	switch opts.Format {
	case FormatPNG:
		return render.ToPNG(ctx, buf.Bytes(), 2.0)
	case FormatPDF:
		return render.ToPDF(ctx, buf.Bytes())
	default:
		return buf.Bytes(), nil
	}
}
