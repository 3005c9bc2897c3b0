// Package frameattrs loads per-function overrides for rendered frames.
//
// The file holds one function per line, the name followed by tab-separated
// key=value pairs:
//
//	main	title=entry point	class=hot	href=https://example.com/main
//
// "title" replaces the tooltip. "href", "target" and "xlink:href" move the
// frame into an <a> element. Every other key becomes an attribute of the
// frame's <g> element, in file order. Values may be wrapped in double quotes.
package frameattrs

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/matzehuels/stackflame/pkg/errors"
)

// Attr is one name/value pair.
type Attr struct {
	Name, Value string
}

// Attrs are the overrides for one function.
type Attrs struct {
	Title string // replaces the generated tooltip when set
	Group []Attr // extra attributes on <g>
	Link  []Attr // attributes of the wrapping <a>; none means no link
}

// Map holds overrides by function name. It is read-only during a render.
type Map struct {
	byName map[string]*Attrs
}

// Lookup returns the overrides for name. A nil map has none.
func (m *Map) Lookup(name string) (*Attrs, bool) {
	if m == nil {
		return nil, false
	}
	a, ok := m.byName[name]
	return a, ok
}

// Len returns the number of functions with overrides.
func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return len(m.byName)
}

func isLinkAttr(name string) bool {
	switch name {
	case "href", "xlink:href", "target":
		return true
	}
	return false
}

// Read parses an attributes file. Lines repeating a name add to the earlier
// entry. Blank lines are skipped.
func Read(r io.Reader) (*Map, error) {
	m := &Map{byName: make(map[string]*Attrs)}
	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimRight(sc.Text(), "\r\n")
		if strings.TrimSpace(line) == "" {
			continue
		}
		fields := strings.Split(line, "\t")
		name := fields[0]
		a, ok := m.byName[name]
		if !ok {
			a = &Attrs{}
			m.byName[name] = a
		}
		for _, f := range fields[1:] {
			if f == "" {
				continue
			}
			key, value, ok := strings.Cut(f, "=")
			if !ok || key == "" {
				return nil, errors.New(errors.ErrCodeInvalidFormat,
					"frame attributes line %d: %q is not key=value", lineNo, f)
			}
			value = strings.Trim(value, `"`)
			switch {
			case key == "title":
				a.Title = value
			case isLinkAttr(key):
				a.Link = append(a.Link, Attr{key, value})
			default:
				a.Group = append(a.Group, Attr{key, value})
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInput, err, "read frame attributes")
	}
	return m, nil
}

// LoadFile reads an attributes file from path.
func LoadFile(path string) (*Map, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "frame attributes %s", path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInput, err, "open frame attributes %s", path)
	}
	defer f.Close()
	return Read(f)
}
