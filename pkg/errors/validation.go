package errors

import (
	"math"
	"regexp"
)

// ValidateFactor checks the sample scale multiplier.
// A factor must be finite and strictly positive; zero would collapse every
// frame to nothing.
func ValidateFactor(factor float64) error {
	if math.IsNaN(factor) || math.IsInf(factor, 0) {
		return New(ErrCodeInvalidOption, "factor must be a finite number")
	}
	if factor <= 0 {
		return New(ErrCodeInvalidOption, "factor must be greater than zero, got %g", factor)
	}
	return nil
}

// ValidateMinWidth checks the pruning threshold in pixels.
func ValidateMinWidth(w float64) error {
	if math.IsNaN(w) || w < 0 {
		return New(ErrCodeInvalidOption, "minwidth must be a non-negative number, got %g", w)
	}
	return nil
}

// ValidateDimension checks an image width, frame height or font size.
func ValidateDimension(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return New(ErrCodeInvalidOption, "%s must be a positive number, got %g", name, v)
	}
	return nil
}

var hexColorRe = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// ValidateHexColor checks a "#rrggbb" color string.
func ValidateHexColor(s string) error {
	if !hexColorRe.MatchString(s) {
		return New(ErrCodeInvalidColor, "invalid color %q (want #rrggbb)", s)
	}
	return nil
}
