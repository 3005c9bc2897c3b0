package layout

import "github.com/matzehuels/stackflame/pkg/frametree"

// Frame is one renderable rectangle.
// Pixel coordinates follow SVG conventions: Top < Bottom.
type Frame struct {
	Node  *frametree.Node
	Depth int

	// Start and End delimit the frame in scaled sample units.
	Start, End float64

	Left, Right float64
	Top, Bottom float64
}

// Samples returns the frame's scaled sample span.
func (f Frame) Samples() float64 { return f.End - f.Start }

// Width returns the horizontal span of the frame.
func (f Frame) Width() float64 { return f.Right - f.Left }

// Height returns the vertical span of the frame.
func (f Frame) Height() float64 { return f.Bottom - f.Top }

// CenterX returns the horizontal center point of the frame.
func (f Frame) CenterX() float64 { return (f.Left + f.Right) / 2 }

// CenterY returns the vertical center point of the frame.
func (f Frame) CenterY() float64 { return (f.Top + f.Bottom) / 2 }
