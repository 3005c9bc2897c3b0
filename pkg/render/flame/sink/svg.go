package sink

import (
	_ "embed"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/matzehuels/stackflame/pkg/render/flame/frameattrs"
	"github.com/matzehuels/stackflame/pkg/render/flame/layout"
	"github.com/matzehuels/stackflame/pkg/render/flame/palette"
)

//go:embed assets/flamegraph.js
var flamegraphJS string

const (
	DefaultTitle       = "Flame Graph"
	DefaultFontType    = "Verdana"
	DefaultFontSize    = 12.0
	DefaultFontWidth   = 0.59
	DefaultCountName   = "samples"
	DefaultNameType    = "Function:"
	DefaultSearchColor = "rgb(230,0,230)"

	fgNamespace = "http://github.com/matzehuels/stackflame"
)

type SVGOption func(*svgRenderer)

type svgRenderer struct {
	title, subtitle, notes string
	fontType               string
	fontSize, fontWidth    float64
	countName, nameType    string
	searchColor            string
	background             palette.Background
	fill                   func(layout.Frame) palette.Color
	attrs                  *frameattrs.Map
	differential           bool
	pretty                 bool
	noScript               bool
}

func WithTitle(s string) SVGOption    { return func(r *svgRenderer) { r.title = s } }
func WithSubtitle(s string) SVGOption { return func(r *svgRenderer) { r.subtitle = s } }
func WithNotes(s string) SVGOption    { return func(r *svgRenderer) { r.notes = s } }
func WithPretty() SVGOption           { return func(r *svgRenderer) { r.pretty = true } }
func WithoutScript() SVGOption        { return func(r *svgRenderer) { r.noScript = true } }
func WithDifferential() SVGOption     { return func(r *svgRenderer) { r.differential = true } }

func WithFont(fontType string, size, width float64) SVGOption {
	return func(r *svgRenderer) {
		r.fontType, r.fontSize, r.fontWidth = fontType, size, width
	}
}

// WithLabels sets the unit shown in tooltips ("samples") and the prefix of
// the details line ("Function:").
func WithLabels(countName, nameType string) SVGOption {
	return func(r *svgRenderer) { r.countName, r.nameType = countName, nameType }
}

func WithSearchColor(c string) SVGOption { return func(r *svgRenderer) { r.searchColor = c } }

func WithBackground(bg palette.Background) SVGOption {
	return func(r *svgRenderer) { r.background = bg }
}

// WithFill sets the color function. It is called once per frame in render
// order.
func WithFill(fn func(layout.Frame) palette.Color) SVGOption {
	return func(r *svgRenderer) { r.fill = fn }
}

func WithFrameAttrs(m *frameattrs.Map) SVGOption { return func(r *svgRenderer) { r.attrs = m } }

func newSVGRenderer(opts ...SVGOption) svgRenderer {
	r := svgRenderer{
		title:       DefaultTitle,
		fontType:    DefaultFontType,
		fontSize:    DefaultFontSize,
		fontWidth:   DefaultFontWidth,
		countName:   DefaultCountName,
		nameType:    DefaultNameType,
		searchColor: DefaultSearchColor,
	}
	for _, opt := range opts {
		opt(&r)
	}
	if r.background.IsZero() {
		r.background = palette.DefaultBackground(palette.Hot)
	}
	if r.fill == nil {
		res := palette.NewResolver(palette.Hot, palette.WithHash())
		r.fill = func(f layout.Frame) palette.Color { return res.Color(f.Node.Name) }
	}
	return r
}

// RenderSVG writes l as an SVG document to w.
func RenderSVG(w io.Writer, l layout.Layout, opts ...SVGOption) error {
	r := newSVGRenderer(opts...)
	x := &xmlWriter{pretty: r.pretty}

	width, height := l.FrameWidth, l.FrameHeight
	x.raw(`<?xml version="1.0" standalone="no"?>`)
	x.raw(`<!DOCTYPE svg PUBLIC "-//W3C//DTD SVG 1.1//EN" "http://www.w3.org/Graphics/SVG/1.1/DTD/svg11.dtd">`)

	root := []attr{
		a("version", "1.1"),
		a("width", num(width)),
		a("height", num(height)),
	}
	if !r.noScript {
		root = append(root, a("onload", "init(evt)"))
	}
	root = append(root,
		a("viewBox", fmt.Sprintf("0 0 %s %s", num(width), num(height))),
		a("xmlns", "http://www.w3.org/2000/svg"),
		a("xmlns:xlink", "http://www.w3.org/1999/xlink"),
		a("xmlns:fg", fgNamespace),
	)
	x.open("svg", root...)

	if r.notes != "" {
		x.text("desc", r.notes)
	}
	r.renderDefs(x)
	r.renderStyle(x)
	if !r.noScript {
		r.renderScript(x, l)
	}
	r.renderChrome(x, l)

	x.open("g", a("id", "frames"))
	for _, f := range l.Frames {
		r.renderFrame(x, l, f)
	}
	x.close("g")
	x.close("svg")

	_, err := w.Write(x.buf.Bytes())
	return err
}

func (r *svgRenderer) renderDefs(x *xmlWriter) {
	x.open("defs")
	x.open("linearGradient", a("id", "background"), a("y1", "0"), a("y2", "1"), a("x1", "0"), a("x2", "0"))
	x.empty("stop", a("stop-color", r.background.Top), a("offset", "5%"))
	x.empty("stop", a("stop-color", r.background.Bottom), a("offset", "95%"))
	x.close("linearGradient")
	x.close("defs")
}

func (r *svgRenderer) renderStyle(x *xmlWriter) {
	css := fmt.Sprintf("text { font-family:%s; font-size:%spx; fill:rgb(0,0,0); } "+
		"#title { text-anchor:middle; font-size:%spx; } "+
		"#subtitle { text-anchor:middle; fill:rgb(160,160,160); } "+
		"#search, #ignorecase { opacity:0.1; cursor:pointer; } "+
		"#search:hover, #search.show, #ignorecase:hover, #ignorecase.show { opacity:1; } "+
		"#unzoom { cursor:pointer; } "+
		"#frames > *:hover { stroke:black; stroke-width:0.5; cursor:pointer; } "+
		".hide { display:none; } .parent { opacity:0.5; }",
		r.fontType, num(r.fontSize), num(r.fontSize+5))
	x.text("style", css, a("type", "text/css"))
}

func (r *svgRenderer) renderScript(x *xmlWriter, l layout.Layout) {
	vars := fmt.Sprintf("var nametype = %s; var fontsize = %s; var fontwidth = %s; "+
		"var xpad = %s; var inverted = %t; var searchcolor = %s;",
		jsString(r.nameType), num(r.fontSize), exact(r.fontWidth),
		num(l.Options.SidePad), l.Options.Direction == layout.Inverted, jsString(r.searchColor))

	x.open("script", a("type", "text/ecmascript"))
	x.raw("<![CDATA[" + vars + "]]>")
	x.buf.WriteString("<![CDATA[")
	x.buf.WriteString(flamegraphJS)
	x.buf.WriteString("]]>\n")
	x.close("script")
}

func jsString(s string) string {
	return strconv.Quote(strings.ReplaceAll(s, "]]>", "]] >"))
}

func (r *svgRenderer) renderChrome(x *xmlWriter, l layout.Layout) {
	width, height := l.FrameWidth, l.FrameHeight
	pad := l.Options.SidePad
	headY := num(r.fontSize * 2)
	footY := num(height - l.Options.BottomPad/2)

	x.empty("rect", a("x", "0"), a("y", "0"), a("width", "100%"), a("height", num(height)), a("fill", "url(#background)"))
	x.text("text", r.title, a("id", "title"), a("x", num(width/2)), a("y", headY))
	if r.subtitle != "" {
		x.text("text", r.subtitle, a("id", "subtitle"), a("x", num(width/2)), a("y", num(r.fontSize*4)))
	}
	x.text("text", " ", a("id", "details"), a("x", num(pad)), a("y", footY))
	if r.noScript {
		return
	}
	x.text("text", "Reset Zoom", a("id", "unzoom"), a("class", "hide"), a("x", num(pad)), a("y", headY))
	x.text("text", "Search", a("id", "search"), a("x", num(width-pad-100)), a("y", headY))
	x.text("text", "ic", a("id", "ignorecase"), a("x", num(width-pad-16)), a("y", headY))
	x.text("text", " ", a("id", "matched"), a("x", num(width-pad-100)), a("y", footY))
}

func (r *svgRenderer) renderFrame(x *xmlWriter, l layout.Layout, f layout.Frame) {
	name := f.Node.Name
	info := r.tooltip(l, f)

	var extra *frameattrs.Attrs
	if f.Depth > 0 {
		extra, _ = r.attrs.Lookup(name)
	}

	var group []attr
	if extra != nil {
		if extra.Title != "" {
			info = extra.Title
			group = append(group, a("data-name", name))
		}
		for _, at := range extra.Group {
			group = append(group, a(at.Name, at.Value))
		}
		if len(extra.Link) > 0 {
			link := make([]attr, 0, len(extra.Link))
			for _, at := range extra.Link {
				link = append(link, a(at.Name, at.Value))
			}
			x.open("a", link...)
			defer x.close("a")
		}
	}

	x.open("g", group...)
	x.text("title", info)
	x.empty("rect",
		a("x", num(f.Left)),
		a("y", num(f.Top)),
		a("width", num(f.Width())),
		a("height", num(f.Height())),
		a("fill", r.fill(f).String()),
		a("fg:x", exact(f.Start)),
		a("fg:w", exact(f.Samples())),
	)
	x.text("text", r.label(name, f.Width()),
		a("x", num(f.Left+3)),
		a("y", num(3+f.CenterY())),
	)
	x.close("g")
}

// tooltip formats "name (1,234 samples, 12.34%)". Differential graphs
// append the change relative to the whole graph.
func (r *svgRenderer) tooltip(l layout.Layout, f layout.Frame) string {
	samples := f.Samples()
	count := commas(samples) + " " + r.countName
	if f.Depth == 0 {
		return fmt.Sprintf("%s (%s, 100%%)", f.Node.Name, count)
	}

	var pct float64
	if l.Total > 0 {
		pct = 100 * samples / l.Total
	}
	name := displayName(f.Node.Name)
	if !r.differential {
		return fmt.Sprintf("%s (%s, %.2f%%)", name, count, pct)
	}

	var delta float64
	if l.Total > 0 {
		delta = 100 * f.Node.Delta * l.Options.Factor / l.Total
	}
	sign := ""
	if delta > 0 {
		sign = "+"
	}
	return fmt.Sprintf("%s (%s, %.2f%%; %s%.2f%%)", name, count, pct, sign, delta)
}

// label fits name into a frame of the given pixel width, truncating with
// ".." and dropping labels with room for fewer than three characters.
func (r *svgRenderer) label(name string, width float64) string {
	chars := int(width / (r.fontSize * r.fontWidth))
	if chars < 3 {
		return ""
	}
	runes := []rune(displayName(name))
	if len(runes) <= chars {
		return string(runes)
	}
	return string(runes[:chars-2]) + ".."
}

// displayName strips profiler annotations such as "_[k]".
func displayName(name string) string {
	if n := len(name); n > 4 && name[n-4] == '_' && name[n-3] == '[' && name[n-1] == ']' {
		switch name[n-2] {
		case 'k', 'w', 'i', 'j':
			return name[:n-4]
		}
	}
	return name
}

// commas formats a sample count rounded to an integer with thousands
// separators.
func commas(v float64) string {
	s := strconv.FormatFloat(math.Round(v), 'f', 0, 64)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	var b strings.Builder
	for i, c := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}
