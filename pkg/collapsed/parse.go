package collapsed

import (
	"math"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"unicode"
)

// Status classifies the outcome of parsing one line.
type Status int

const (
	// OK means the line produced a usable Record.
	OK Status = iota
	// Empty means the line was blank. Empty lines are not counted as invalid.
	Empty
	// Malformed means the line could not be split into a stack and numeric weight(s).
	Malformed
)

func (s Status) String() string {
	switch s {
	case OK:
		return "ok"
	case Empty:
		return "empty"
	case Malformed:
		return "malformed"
	default:
		return "unknown"
	}
}

// Record is one accepted input line.
type Record struct {
	Frames []string // frame names, outermost call first
	Value  float64  // baseline weight
	Value2 float64  // comparison weight; equals Value unless Differential

	// Differential is set when the line carried two weights.
	Differential bool

	// Fractional is set when a weight, as literally written, had a non-zero
	// fractional part. "3.00" is not fractional.
	Fractional bool
}

// Reversed returns a copy of r with its frames in inner-to-outer order.
func (r Record) Reversed() Record {
	frames := make([]string, len(r.Frames))
	for i, f := range r.Frames {
		frames[len(frames)-1-i] = f
	}
	r.Frames = frames
	return r
}

// ParseLine parses a single collapsed stack line.
//
// The last whitespace-separated token is the weight. When the token before it
// is numeric as well, the line is differential and the two tokens are the
// baseline and comparison weights. Everything before the weight(s) is the
// stack, split on ';'; a stack with an empty frame name is malformed.
// Weights are unsigned decimal numbers with an optional exponent.
func ParseLine(line string) (Record, Status) {
	line = strings.TrimSpace(line)
	if line == "" {
		return Record{}, Empty
	}

	stack, last, ok := splitLast(line)
	if !ok {
		return Record{}, Malformed
	}
	v, frac, ok := parseWeight(last)
	if !ok {
		return Record{}, Malformed
	}

	rec := Record{Value: v, Value2: v, Fractional: frac}
	if rest, prev, ok := splitLast(stack); ok {
		if v1, frac1, ok := parseWeight(prev); ok {
			rec.Value = v1
			rec.Differential = true
			rec.Fractional = frac || frac1
			stack = rest
		}
	}

	if stack == "" {
		return Record{}, Malformed
	}
	rec.Frames = strings.Split(stack, ";")
	if slices.Contains(rec.Frames, "") {
		return Record{}, Malformed
	}
	return rec, OK
}

// splitLast splits s at its last run of whitespace.
func splitLast(s string) (head, tail string, ok bool) {
	i := strings.LastIndexFunc(s, unicode.IsSpace)
	if i < 0 {
		return "", "", false
	}
	return strings.TrimRightFunc(s[:i], unicode.IsSpace), s[i+1:], true
}

var decimalWeight = regexp.MustCompile(`^(?:[0-9]+(?:\.[0-9]*)?|\.[0-9]+)(?:[eE][+-]?[0-9]+)?$`)

// parseWeight parses a sample weight and reports whether its literal text
// has a non-zero fractional part.
func parseWeight(s string) (v float64, fractional bool, ok bool) {
	if !decimalWeight.MatchString(s) {
		return 0, false, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(v, 0) {
		return 0, false, false
	}
	return v, isFractional(s, v), true
}

func isFractional(s string, v float64) bool {
	if strings.ContainsAny(s, "eE") {
		return v != math.Trunc(v)
	}
	dot := strings.IndexByte(s, '.')
	if dot < 0 {
		return false
	}
	return strings.Trim(s[dot+1:], "0") != ""
}
