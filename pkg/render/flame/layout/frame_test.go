package layout

import "testing"

func TestFrameGeometry(t *testing.T) {
	tests := []struct {
		name             string
		frame            Frame
		width, height    float64
		centerX, centerY float64
		samples          float64
	}{
		{
			name:    "unit frame",
			frame:   Frame{Start: 0, End: 3, Left: 10, Right: 40, Top: 1, Bottom: 16},
			width:   30,
			height:  15,
			centerX: 25,
			centerY: 8.5,
			samples: 3,
		},
		{
			name:    "zero width",
			frame:   Frame{Start: 2, End: 2, Left: 10, Right: 10, Top: 0, Bottom: 15},
			width:   0,
			height:  15,
			centerX: 10,
			centerY: 7.5,
			samples: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := tt.frame
			if got := f.Width(); got != tt.width {
				t.Errorf("Width() = %v, want %v", got, tt.width)
			}
			if got := f.Height(); got != tt.height {
				t.Errorf("Height() = %v, want %v", got, tt.height)
			}
			if got := f.CenterX(); got != tt.centerX {
				t.Errorf("CenterX() = %v, want %v", got, tt.centerX)
			}
			if got := f.CenterY(); got != tt.centerY {
				t.Errorf("CenterY() = %v, want %v", got, tt.centerY)
			}
			if got := f.Samples(); got != tt.samples {
				t.Errorf("Samples() = %v, want %v", got, tt.samples)
			}
		})
	}
}
