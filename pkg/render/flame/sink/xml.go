package sink

import (
	"bytes"
	"encoding/xml"
	"strconv"
	"strings"
)

type attr struct {
	name, value string
}

func a(name, value string) attr { return attr{name, value} }

// xmlWriter emits one element per line. Pretty output indents each line by
// its nesting depth.
type xmlWriter struct {
	buf    bytes.Buffer
	pretty bool
	depth  int
}

func (w *xmlWriter) indent() {
	if w.pretty {
		w.buf.WriteString(strings.Repeat("  ", w.depth))
	}
}

func (w *xmlWriter) tag(name string, attrs []attr) {
	w.buf.WriteByte('<')
	w.buf.WriteString(name)
	for _, at := range attrs {
		w.buf.WriteByte(' ')
		w.buf.WriteString(at.name)
		w.buf.WriteString(`="`)
		w.buf.WriteString(escapeXML(at.value))
		w.buf.WriteByte('"')
	}
}

func (w *xmlWriter) raw(s string) {
	w.indent()
	w.buf.WriteString(s)
	w.buf.WriteByte('\n')
}

func (w *xmlWriter) open(name string, attrs ...attr) {
	w.indent()
	w.tag(name, attrs)
	w.buf.WriteString(">\n")
	w.depth++
}

func (w *xmlWriter) close(name string) {
	w.depth--
	w.indent()
	w.buf.WriteString("</" + name + ">\n")
}

func (w *xmlWriter) empty(name string, attrs ...attr) {
	w.indent()
	w.tag(name, attrs)
	w.buf.WriteString("/>\n")
}

func (w *xmlWriter) text(name, content string, attrs ...attr) {
	w.indent()
	w.tag(name, attrs)
	w.buf.WriteByte('>')
	w.buf.WriteString(escapeXML(content))
	w.buf.WriteString("</" + name + ">\n")
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

// num formats a pixel coordinate with at most two decimals.
func num(v float64) string {
	s := strconv.FormatFloat(v, 'f', 2, 64)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}

// exact formats a sample value without losing precision.
func exact(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
