package layout

import (
	"fmt"
	"strings"

	"github.com/matzehuels/stackflame/pkg/errors"
	"github.com/matzehuels/stackflame/pkg/frametree"
)

// Direction selects the vertical orientation of the graph.
type Direction int

const (
	// Normal places the root at the bottom.
	Normal Direction = iota
	// Inverted places the root at the top (icicle graph).
	Inverted
)

func (d Direction) String() string {
	if d == Inverted {
		return "inverted"
	}
	return "normal"
}

// ParseDirection parses "normal" or "inverted".
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(s) {
	case "", "normal":
		return Normal, nil
	case "inverted", "icicle":
		return Inverted, nil
	default:
		return Normal, errors.New(errors.ErrCodeInvalidDirection, "unknown direction %q (must be 'normal' or 'inverted')", s)
	}
}

// Defaults for Options fields left at zero.
const (
	DefaultImageWidth  = 1200.0
	DefaultFrameHeight = 16.0
	DefaultMinWidth    = 0.1
	DefaultSidePad     = 10.0

	framePad = 1.0
)

// Options controls the geometry of a layout.
type Options struct {
	Factor      float64 // sample multiplier; zero means 1
	ImageWidth  float64 // total SVG width in pixels
	FrameHeight float64 // row height in pixels, including the 1px gap
	MinWidth    float64 // frames narrower than this many pixels are pruned
	Direction   Direction

	// Padding around the frame area. TopPad holds the title rows,
	// BottomPad the details line.
	SidePad, TopPad, BottomPad float64
}

func (o Options) withDefaults() Options {
	if o.Factor == 0 {
		o.Factor = 1
	}
	if o.ImageWidth == 0 {
		o.ImageWidth = DefaultImageWidth
	}
	if o.FrameHeight == 0 {
		o.FrameHeight = DefaultFrameHeight
	}
	if o.MinWidth == 0 {
		o.MinWidth = DefaultMinWidth
	}
	if o.SidePad == 0 {
		o.SidePad = DefaultSidePad
	}
	return o
}

// Layout is the positioned, pruned frame set.
type Layout struct {
	// Frames in pre-order; a parent always precedes its children.
	Frames []Frame

	FrameWidth  float64 // image width
	FrameHeight float64 // image height
	RowHeight   float64
	Options     Options

	// Total is the root total in scaled sample units.
	Total float64

	// MaxDepth is the depth of the deepest surviving frame.
	MaxDepth int

	// Pruned counts nodes dropped for being narrower than MinWidth,
	// including the descendants of pruned nodes.
	Pruned int
}

// Build lays out every node of t that is at least opts.MinWidth pixels wide.
// The root is always kept.
func Build(t *frametree.Tree, opts Options) Layout {
	opts = opts.withDefaults()

	l := Layout{
		FrameWidth: opts.ImageWidth,
		RowHeight:  opts.FrameHeight,
		Options:    opts,
		Total:      t.Total() * opts.Factor,
	}

	var scale float64
	if l.Total > 0 {
		scale = (opts.ImageWidth - 2*opts.SidePad) / l.Total
	}

	b := builder{opts: opts, scale: scale, layout: &l}
	b.place(t.Root, 0)

	l.FrameHeight = float64(l.MaxDepth+1)*opts.FrameHeight + opts.TopPad + opts.BottomPad
	for i := range l.Frames {
		l.Frames[i].Top, l.Frames[i].Bottom = l.rowBounds(l.Frames[i].Depth)
	}
	return l
}

type builder struct {
	opts   Options
	scale  float64
	layout *Layout
}

func (b *builder) place(n *frametree.Node, start float64) {
	end := start + n.Total*b.opts.Factor
	left := b.opts.SidePad + start*b.scale
	right := b.opts.SidePad + end*b.scale
	if n.IsRoot() {
		right = b.opts.ImageWidth - b.opts.SidePad
	} else if right-left < b.opts.MinWidth {
		b.layout.Pruned += subtreeSize(n)
		return
	}

	b.layout.Frames = append(b.layout.Frames, Frame{
		Node:  n,
		Depth: n.Depth,
		Start: start,
		End:   end,
		Left:  left,
		Right: right,
	})
	b.layout.MaxDepth = max(b.layout.MaxDepth, n.Depth)

	offset := start
	for _, c := range n.Children() {
		b.place(c, offset)
		offset += c.Total * b.opts.Factor
	}
}

func subtreeSize(n *frametree.Node) int {
	size := 1
	for _, c := range n.Children() {
		size += subtreeSize(c)
	}
	return size
}

// rowBounds returns the pixel top and bottom of a row at the given depth.
func (l Layout) rowBounds(depth int) (top, bottom float64) {
	h := l.Options.FrameHeight
	d := float64(depth)
	if l.Options.Direction == Inverted {
		top = l.Options.TopPad + d*h
		return top, top + h - framePad
	}
	bottom = l.FrameHeight - l.Options.BottomPad - d*h
	return bottom - h + framePad, bottom
}

// String summarizes the layout for debug logging.
func (l Layout) String() string {
	return fmt.Sprintf("%d frames, depth %d, %d pruned, %.0fx%.0f",
		len(l.Frames), l.MaxDepth, l.Pruned, l.FrameWidth, l.FrameHeight)
}
