package palette

import (
	"slices"
	"strings"

	"github.com/matzehuels/stackflame/pkg/errors"
)

// Palette names a color scheme. The zero value is Hot.
type Palette int

// Basic families.
const (
	Hot Palette = iota
	Mem
	IO
	Red
	Green
	Blue
	Aqua
	Yellow
	Purple
	Orange
)

// Language-aware schemes.
const (
	Java Palette = iota + 100
	JS
	Perl
	Python
	Rust
	Wakeup
)

var names = map[Palette]string{
	Hot: "hot", Mem: "mem", IO: "io", Red: "red", Green: "green", Blue: "blue",
	Aqua: "aqua", Yellow: "yellow", Purple: "purple", Orange: "orange",
	Java: "java", JS: "js", Perl: "perl", Python: "python", Rust: "rust", Wakeup: "wakeup",
}

func (p Palette) String() string {
	if s, ok := names[p]; ok {
		return s
	}
	return "unknown"
}

// Names returns every palette name, sorted.
func Names() []string {
	out := make([]string, 0, len(names))
	for _, s := range names {
		out = append(out, s)
	}
	slices.Sort(out)
	return out
}

// Parse looks a palette up by name.
func Parse(s string) (Palette, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return Hot, nil
	}
	for p, name := range names {
		if name == s {
			return p, nil
		}
	}
	return Hot, errors.New(errors.ErrCodeInvalidPalette,
		"unknown palette %q (must be one of %s)", s, strings.Join(Names(), ", "))
}

// classify maps a frame name to the basic family it is drawn in.
func (p Palette) classify(name string) Palette {
	switch p {
	case Java:
		return classifyJava(name)
	case JS:
		return classifyJS(name)
	case Perl:
		return classifyPerl(name)
	case Python:
		return classifyPython(name)
	case Rust:
		return classifyRust(name)
	case Wakeup:
		return Aqua
	default:
		return p
	}
}

var javaPackages = []string{"java", "javax", "jdk", "net", "org", "com", "io", "sun"}

func isJavaPackage(name string) bool {
	name = strings.TrimPrefix(name, "L")
	for _, pkg := range javaPackages {
		if strings.HasPrefix(name, pkg+"/") || strings.HasPrefix(name, pkg+".") {
			return true
		}
	}
	return false
}

func classifyJava(name string) Palette {
	switch {
	case strings.HasSuffix(name, "_[j]"):
		return Green
	case strings.HasSuffix(name, "_[i]"):
		return Aqua
	case isJavaPackage(name):
		return Green
	case strings.HasSuffix(name, "_[k]"):
		return Orange
	case strings.Contains(name, "::"):
		return Yellow
	default:
		return Red
	}
}

func classifyJS(name string) Palette {
	switch {
	case strings.HasSuffix(name, "_[j]"):
		if strings.Contains(name, "/") {
			return Green
		}
		return Aqua
	case strings.Contains(name, "::"):
		return Yellow
	case strings.Contains(name, ".js"):
		return Green
	case strings.HasSuffix(name, "_[k]"):
		return Orange
	case strings.Contains(name, ":"):
		return Aqua
	case name == " ":
		return Green
	default:
		return Red
	}
}

func classifyPerl(name string) Palette {
	switch {
	case strings.Contains(name, "::"):
		return Yellow
	case strings.Contains(name, "Perl") || strings.Contains(name, ".pl"):
		return Green
	case strings.HasSuffix(name, "_[k]"):
		return Orange
	default:
		return Red
	}
}

func classifyPython(name string) Palette {
	switch {
	case strings.HasSuffix(name, "_[k]"):
		return Orange
	case strings.Contains(name, "site-packages") || strings.Contains(name, "dist-packages"):
		return Aqua
	case strings.HasPrefix(name, "<built-in") || strings.HasPrefix(name, "<frozen"):
		return Green
	case strings.Contains(name, ".py"):
		return Yellow
	default:
		return Red
	}
}

func classifyRust(name string) Palette {
	switch {
	case strings.HasSuffix(name, "_[k]"):
		return Aqua
	case strings.HasPrefix(name, "core::") || strings.HasPrefix(name, "std::") || strings.HasPrefix(name, "alloc::"):
		return Orange
	case strings.Contains(name, "::"):
		return Yellow
	default:
		return Red
	}
}

// basic computes a color of a basic family from three unit values.
func basic(p Palette, v1, v2, v3 float64) Color {
	c := func(base, span int, v float64) uint8 { return uint8(base + int(float64(span)*v)) }
	switch p {
	case Mem:
		return Color{0, c(190, 50, v2), c(0, 210, v1)}
	case IO:
		x := c(80, 60, v1)
		return Color{x, x, c(190, 55, v2)}
	case Red:
		x := c(50, 80, v1)
		return Color{c(200, 55, v1), x, x}
	case Green:
		x := c(50, 60, v1)
		return Color{x, c(200, 55, v1), x}
	case Blue:
		x := c(80, 60, v1)
		return Color{x, x, c(205, 50, v1)}
	case Aqua:
		x := c(165, 55, v1)
		return Color{c(50, 60, v1), x, x}
	case Yellow:
		x := c(175, 55, v1)
		return Color{x, x, c(50, 20, v1)}
	case Purple:
		x := c(190, 65, v1)
		return Color{x, c(80, 60, v1), x}
	case Orange:
		return Color{c(190, 65, v1), c(90, 65, v1), 0}
	default:
		return Color{c(205, 50, v3), c(0, 230, v1), c(0, 55, v2)}
	}
}
