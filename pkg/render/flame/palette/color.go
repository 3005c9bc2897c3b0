package palette

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/matzehuels/stackflame/pkg/errors"
)

// Color is an opaque RGB color.
type Color struct {
	R, G, B uint8
}

// String formats the color as an SVG rgb() value.
func (c Color) String() string {
	return fmt.Sprintf("rgb(%d,%d,%d)", c.R, c.G, c.B)
}

// Hex formats the color as #rrggbb.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// ParseColor parses "rgb(r,g,b)" (spaces allowed) or "#rrggbb".
func ParseColor(s string) (Color, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "#") {
		if err := errors.ValidateHexColor(s); err != nil {
			return Color{}, err
		}
		v, _ := strconv.ParseUint(s[1:], 16, 32)
		return Color{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, nil
	}

	inner, ok := strings.CutPrefix(s, "rgb(")
	if !ok || !strings.HasSuffix(inner, ")") {
		return Color{}, errors.New(errors.ErrCodeInvalidColor, "invalid color %q", s)
	}
	parts := strings.Split(strings.TrimSuffix(inner, ")"), ",")
	if len(parts) != 3 {
		return Color{}, errors.New(errors.ErrCodeInvalidColor, "invalid color %q", s)
	}
	var rgb [3]uint8
	for i, p := range parts {
		v, err := strconv.ParseUint(strings.TrimSpace(p), 10, 8)
		if err != nil {
			return Color{}, errors.Wrap(errors.ErrCodeInvalidColor, err, "invalid color %q", s)
		}
		rgb[i] = uint8(v)
	}
	return Color{R: rgb[0], G: rgb[1], B: rgb[2]}, nil
}

// Fixed colors for frames that separate stacks rather than name functions.
var (
	greySeparator = Color{200, 200, 200} // "-"
	greyDivider   = Color{160, 160, 160} // "--"
)

// Background is a vertical gradient drawn behind the frames.
type Background struct {
	Top, Bottom string
}

var backgrounds = map[string]Background{
	"yellow": {"#eeeeee", "#eeeeb0"},
	"blue":   {"#eeeeee", "#e0e0ff"},
	"green":  {"#eef2ee", "#e0ffe0"},
	"grey":   {"#f8f8f8", "#e8e8e8"},
}

// ParseBackground parses a named gradient (yellow, blue, green, grey) or a
// flat "#rrggbb" color.
func ParseBackground(s string) (Background, error) {
	if bg, ok := backgrounds[strings.ToLower(s)]; ok {
		return bg, nil
	}
	if err := errors.ValidateHexColor(s); err != nil {
		return Background{}, errors.New(errors.ErrCodeInvalidColor,
			"unknown background %q (must be yellow, blue, green, grey or #rrggbb)", s)
	}
	return Background{Top: s, Bottom: s}, nil
}

// IsZero reports whether no background was configured.
func (b Background) IsZero() bool { return b.Top == "" && b.Bottom == "" }

// DefaultBackground returns the gradient that suits p.
func DefaultBackground(p Palette) Background {
	switch p {
	case Mem:
		return backgrounds["green"]
	case IO, Wakeup:
		return backgrounds["blue"]
	default:
		return backgrounds["yellow"]
	}
}

// Differential shades a frame by its delta. Growth runs from white to red,
// reduction from white to blue, in proportion to |delta| / maxDelta. With
// negate, the two directions swap.
func Differential(delta, maxDelta float64, negate bool) Color {
	if negate {
		delta = -delta
	}
	if delta == 0 || maxDelta <= 0 {
		return Color{255, 255, 255}
	}
	ratio := min(1, max(-1, delta/maxDelta))
	if ratio > 0 {
		v := uint8(210 * (1 - ratio))
		return Color{255, v, v}
	}
	v := uint8(210 * (1 + ratio))
	return Color{v, v, 255}
}
