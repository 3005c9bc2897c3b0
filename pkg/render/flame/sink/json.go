package sink

import (
	"encoding/json"

	"github.com/matzehuels/stackflame/pkg/render/flame/layout"
	"github.com/matzehuels/stackflame/pkg/render/flame/palette"
)

// JSONOption configures JSON rendering via [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	fill         func(layout.Frame) palette.Color
	differential bool
}

// WithJSONFill records each frame's color, computed as for [WithFill].
func WithJSONFill(fn func(layout.Frame) palette.Color) JSONOption {
	return func(r *jsonRenderer) { r.fill = fn }
}

// WithJSONDifferential includes the second sample channel and deltas.
func WithJSONDifferential() JSONOption { return func(r *jsonRenderer) { r.differential = true } }

type jsonOutput struct {
	Width     float64     `json:"width"`
	Height    float64     `json:"height"`
	Direction string      `json:"direction"`
	Total     float64     `json:"total"`
	MaxDepth  int         `json:"max_depth"`
	Pruned    int         `json:"pruned,omitempty"`
	Frames    []jsonFrame `json:"frames"`
}

type jsonFrame struct {
	Name   string   `json:"name"`
	Path   []string `json:"path,omitempty"`
	Depth  int      `json:"depth"`
	Total  float64  `json:"total"`
	Self   float64  `json:"self"`
	Total2 *float64 `json:"total2,omitempty"`
	Delta  *float64 `json:"delta,omitempty"`
	X      float64  `json:"x"`
	Y      float64  `json:"y"`
	Width  float64  `json:"width"`
	Height float64  `json:"height"`
	Color  string   `json:"color,omitempty"`
}

// RenderJSON exports the layout as a pretty-printed JSON document: frame
// geometry in pixels, sample values in input units and, when requested,
// colors and differential values. Frames appear in render order.
func RenderJSON(l layout.Layout, opts ...JSONOption) ([]byte, error) {
	r := jsonRenderer{}
	for _, opt := range opts {
		opt(&r)
	}

	out := jsonOutput{
		Width:     l.FrameWidth,
		Height:    l.FrameHeight,
		Direction: l.Options.Direction.String(),
		Total:     l.Total,
		MaxDepth:  l.MaxDepth,
		Pruned:    l.Pruned,
		Frames:    make([]jsonFrame, 0, len(l.Frames)),
	}
	for _, f := range l.Frames {
		n := f.Node
		jf := jsonFrame{
			Name:   n.Name,
			Path:   n.Path(),
			Depth:  f.Depth,
			Total:  n.Total,
			Self:   n.Self,
			X:      f.Left,
			Y:      f.Top,
			Width:  f.Width(),
			Height: f.Height(),
		}
		if r.differential {
			total2, delta := n.Total2, n.Delta
			jf.Total2, jf.Delta = &total2, &delta
		}
		if r.fill != nil {
			jf.Color = r.fill(f).String()
		}
		out.Frames = append(out.Frames, jf)
	}
	return json.MarshalIndent(out, "", "  ")
}
