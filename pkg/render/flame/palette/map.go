package palette

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/matzehuels/stackflame/pkg/errors"
)

// Map pins frame names to colors across renders. It is owned by the caller,
// mutated by a render that uses it, and persisted by the caller afterwards.
// The zero value is ready to use.
type Map struct {
	colors map[string]Color
}

// NewMap returns an empty map.
func NewMap() *Map { return &Map{} }

// Get returns the color pinned for name.
func (m *Map) Get(name string) (Color, bool) {
	c, ok := m.colors[name]
	return c, ok
}

// Set pins name to c.
func (m *Map) Set(name string, c Color) {
	if m.colors == nil {
		m.colors = make(map[string]Color)
	}
	m.colors[name] = c
}

// Len returns the number of pinned names.
func (m *Map) Len() int { return len(m.colors) }

// Names returns the pinned names in lexical order.
func (m *Map) Names() []string {
	names := make([]string, 0, len(m.colors))
	for name := range m.colors {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Clone returns an independent copy of m.
func (m *Map) Clone() *Map {
	out := &Map{colors: make(map[string]Color, len(m.colors))}
	for k, v := range m.colors {
		out.colors[k] = v
	}
	return out
}

// ReadMap parses "name->rgb(r,g,b)" lines. Blank lines are skipped.
func ReadMap(r io.Reader) (*Map, error) {
	m := NewMap()
	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		i := strings.LastIndex(line, "->")
		if i < 0 {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "palette map line %d: missing \"->\"", lineNo)
		}
		c, err := ParseColor(line[i+2:])
		if err != nil {
			return nil, fmt.Errorf("palette map line %d: %w", lineNo, err)
		}
		m.Set(line[:i], c)
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInput, err, "read palette map")
	}
	return m, nil
}

// WriteTo writes m in the format read by [ReadMap], sorted by name.
func (m *Map) WriteTo(w io.Writer) (int64, error) {
	bw := bufio.NewWriter(w)
	var n int64
	for _, name := range m.Names() {
		k, err := fmt.Fprintf(bw, "%s->%s\n", name, m.colors[name])
		n += int64(k)
		if err != nil {
			return n, err
		}
	}
	return n, bw.Flush()
}

// LoadMapFile reads a palette map from path. A missing file yields an
// empty map; the file is not created.
func LoadMapFile(path string) (*Map, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return NewMap(), nil
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInput, err, "open palette map %s", path)
	}
	defer f.Close()
	return ReadMap(f)
}

// SaveFile writes m to path, replacing it atomically.
func (m *Map) SaveFile(path string) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".palette-*")
	if err != nil {
		return fmt.Errorf("save palette map: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := m.WriteTo(tmp); err != nil {
		tmp.Close()
		return fmt.Errorf("save palette map: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("save palette map: %w", err)
	}
	return os.Rename(tmp.Name(), path)
}
