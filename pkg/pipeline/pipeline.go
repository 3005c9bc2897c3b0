// Package pipeline turns collapsed stack input into a rendered flame graph.
//
// This package implements the complete parse → merge → layout → render
// pipeline used by the CLI and the render server. Stages run strictly in
// order because each needs the complete output of the previous one: self
// values and layout are meaningless before every record has been merged.
//
// # Usage
//
// Render one stream:
//
//	err := pipeline.FromReader(ctx, pipeline.Options{Title: "CPU"}, os.Stdin, os.Stdout)
//
// Render several streams as one input, with a logger and an artifact cache:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	err := runner.FromReaders(ctx, opts, []io.Reader{f1, f2}, w)
//
// # Diagnostics
//
// Problems with individual lines never stop a render. After the whole input
// has been read the runner logs at most one warning per category: one for
// malformed lines ("Ignored N lines with invalid format") and one if any
// weight was written with a fractional part. Input with no usable line is
// logged and returned as an errors.ErrCodeNoStacks error.
//
// # Palette Maps
//
// When Options.PaletteMap is set, the render reads colors from it and adds
// the colors of names it has not seen. The caller saves the map afterwards.
package pipeline

import (
	"fmt"
	"math"
	"time"

	"github.com/matzehuels/stackflame/pkg/collapsed"
	"github.com/matzehuels/stackflame/pkg/errors"
	"github.com/matzehuels/stackflame/pkg/frametree"
	"github.com/matzehuels/stackflame/pkg/render/flame/frameattrs"
	"github.com/matzehuels/stackflame/pkg/render/flame/layout"
	"github.com/matzehuels/stackflame/pkg/render/flame/palette"
	"github.com/matzehuels/stackflame/pkg/render/flame/sink"
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatJSON = "json"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatJSON: true,
	FormatPNG:  true,
	FormatPDF:  true,
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: svg, json, png, pdf)", format)
	}
	return nil
}

// Options configures a single render. Zero values select the defaults shown
// in the field comments. The JSON encoding identifies a render for caching;
// the two caller-owned maps are excluded from it.
type Options struct {
	Title     string           `json:"title"`    // "Flame Graph"
	Subtitle  string           `json:"subtitle"` // none
	Notes     string           `json:"notes"`    // embedded as <desc>
	Direction layout.Direction `json:"direction"`

	// Factor scales every sample value; zero means 1.
	Factor float64 `json:"factor"`

	// Palette selects the color scheme of non-differential graphs.
	Palette palette.Palette `json:"palette"`
	// BackgroundColors defaults to the palette's gradient.
	BackgroundColors palette.Background `json:"bgcolors"`
	// Hash colors frames by name hash instead of the seeded generator.
	Hash bool `json:"hash"`
	// Seed seeds the generator used when Hash is false; zero means 42.
	Seed uint64 `json:"seed"`
	// NegateDifferentials swaps the red and blue of differential graphs.
	NegateDifferentials bool `json:"negate"`

	PrettyXML    bool `json:"pretty_xml"`
	NoJavaScript bool `json:"no_javascript"`

	// MinWidth prunes frames narrower than this many pixels; zero means 0.1.
	MinWidth float64 `json:"min_width"`

	ImageWidth  float64 `json:"width"`        // 1200
	FrameHeight float64 `json:"frame_height"` // 16
	FontType    string  `json:"font_type"`    // "Verdana"
	FontSize    float64 `json:"font_size"`    // 12
	FontWidth   float64 `json:"font_width"`   // 0.59
	CountName   string  `json:"count_name"`   // "samples"
	NameType    string  `json:"name_type"`    // "Function:"
	SearchColor string  `json:"search_color"` // "rgb(230,0,230)"

	// Reverse merges every stack leaf first.
	Reverse bool `json:"reverse"`

	// Format is the output format; empty means svg.
	Format string `json:"format"`

	// PaletteMap pins colors by name across renders. The render adds new
	// names to it; the caller persists it.
	PaletteMap *palette.Map `json:"-"`
	// FuncFrameAttrs overrides tooltips and attributes by name.
	FuncFrameAttrs *frameattrs.Map `json:"-"`
}

// ValidateAndSetDefaults checks option values and fills in defaults. It is
// idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.Title == "" {
		o.Title = sink.DefaultTitle
	}
	if o.Factor == 0 {
		o.Factor = 1
	}
	if o.Seed == 0 {
		o.Seed = palette.DefaultSeed
	}
	if o.MinWidth == 0 {
		o.MinWidth = layout.DefaultMinWidth
	}
	if o.ImageWidth == 0 {
		o.ImageWidth = layout.DefaultImageWidth
	}
	if o.FrameHeight == 0 {
		o.FrameHeight = layout.DefaultFrameHeight
	}
	if o.FontType == "" {
		o.FontType = sink.DefaultFontType
	}
	if o.FontSize == 0 {
		o.FontSize = sink.DefaultFontSize
	}
	if o.FontWidth == 0 {
		o.FontWidth = sink.DefaultFontWidth
	}
	if o.CountName == "" {
		o.CountName = sink.DefaultCountName
	}
	if o.NameType == "" {
		o.NameType = sink.DefaultNameType
	}
	if o.SearchColor == "" {
		o.SearchColor = sink.DefaultSearchColor
	}
	if o.Format == "" {
		o.Format = FormatSVG
	}
	if o.BackgroundColors.IsZero() {
		o.BackgroundColors = palette.DefaultBackground(o.Palette)
	}

	if err := errors.ValidateFactor(o.Factor); err != nil {
		return err
	}
	if err := errors.ValidateMinWidth(o.MinWidth); err != nil {
		return err
	}
	for _, d := range []struct {
		name string
		v    float64
	}{
		{"width", o.ImageWidth},
		{"height", o.FrameHeight},
		{"font size", o.FontSize},
		{"font width", o.FontWidth},
	} {
		if err := errors.ValidateDimension(d.name, d.v); err != nil {
			return err
		}
	}
	if o.ImageWidth <= 2*layout.DefaultSidePad {
		return errors.New(errors.ErrCodeInvalidOption, "width must exceed %g pixels, got %g", 2*layout.DefaultSidePad, o.ImageWidth)
	}
	return ValidateFormat(o.Format)
}

// layoutOptions maps render options to layout geometry. The title rows sit
// above the frames and the details line below them.
func (o *Options) layoutOptions() layout.Options {
	top := o.FontSize * 3
	if o.Subtitle != "" {
		top += o.FontSize * 2
	}
	return layout.Options{
		Factor:      o.Factor,
		ImageWidth:  o.ImageWidth,
		FrameHeight: o.FrameHeight,
		MinWidth:    o.MinWidth,
		Direction:   o.Direction,
		SidePad:     layout.DefaultSidePad,
		TopPad:      math.Ceil(top),
		BottomPad:   math.Ceil(o.FontSize*2 + 10),
	}
}

func (o *Options) treeOptions() []frametree.Option {
	if o.Reverse {
		return []frametree.Option{frametree.WithReverse()}
	}
	return nil
}

// Result holds the outputs of a pipeline run.
type Result struct {
	// Artifact is the rendered output in Options.Format.
	Artifact []byte

	// Tree and Layout are nil/zero when the artifact came from the cache.
	Tree   *frametree.Tree
	Layout layout.Layout

	// Input holds the parse counters of all input streams.
	Input collapsed.Stats

	Stats    Stats
	CacheHit bool
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Frames     int
	Pruned     int
	ParseTime  time.Duration
	LayoutTime time.Duration
	RenderTime time.Duration
}

func (s Stats) String() string {
	return fmt.Sprintf("%d frames (%d pruned), parse %s, layout %s, render %s",
		s.Frames, s.Pruned, s.ParseTime, s.LayoutTime, s.RenderTime)
}
