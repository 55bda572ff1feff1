package cellml

import (
	"bufio"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Namespaces.
const (
	NamespaceCellML = "http://www.cellml.org/cellml/2.0#"
	NamespaceMathML = "http://www.w3.org/1998/Math/MathML"
	NamespaceXLink  = "http://www.w3.org/1999/xlink"
)

type attr struct {
	Name  string
	Value string
}

// writer emits indented XML, two spaces per level. The first error sticks.
type writer struct {
	w     *bufio.Writer
	depth int
	err   error
}

func (w *writer) line(s string) {
	if w.err != nil {
		return
	}
	_, w.err = fmt.Fprintf(w.w, "%s%s\n", strings.Repeat("  ", w.depth), s)
}

func tag(name string, attrs []attr) string {
	var b strings.Builder
	b.WriteString("<" + name)
	for _, a := range attrs {
		if a.Value == "" {
			continue
		}
		b.WriteString(" " + a.Name + `="` + escape(a.Value) + `"`)
	}
	return b.String()
}

func escape(s string) string {
	var b bytes.Buffer
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}

func (w *writer) open(name string, attrs ...attr) {
	w.line(tag(name, attrs) + ">")
	w.depth++
}

func (w *writer) close(name string) {
	w.depth--
	w.line("</" + name + ">")
}

func (w *writer) empty(name string, attrs ...attr) {
	w.line(tag(name, attrs) + "/>")
}

func (w *writer) leaf(name, text string, attrs ...attr) {
	w.line(tag(name, attrs) + ">" + escape(text) + "</" + name + ">")
}

// Encode writes m as a CellML 2.0 document.
func Encode(out io.Writer, m *Model) error {
	w := &writer{w: bufio.NewWriter(out)}
	w.line(`<?xml version="1.0" encoding="UTF-8"?>`)

	attrs := []attr{{"xmlns", NamespaceCellML}}
	if len(m.Imports) > 0 {
		attrs = append(attrs, attr{"xmlns:xlink", NamespaceXLink})
	}
	w.open("model", append(attrs, attr{"name", m.Name})...)

	for _, imp := range m.Imports {
		w.open("import", attr{"xlink:href", imp.Href})
		for _, u := range imp.Units {
			w.empty("units", attr{"name", u}, attr{"units_ref", u})
		}
		for _, c := range imp.Components {
			w.empty("component", attr{"name", c.Name}, attr{"component_ref", c.Ref})
		}
		w.close("import")
	}

	for _, u := range m.Units {
		w.open("units", attr{"name", u.Name})
		for _, p := range u.Parts {
			exp := ""
			if p.Exponent != 1 {
				exp = fmt.Sprint(p.Exponent)
			}
			w.empty("unit", attr{"units", p.Base}, attr{"prefix", p.Prefix}, attr{"exponent", exp})
		}
		w.close("units")
	}

	for _, c := range m.Components {
		if len(c.Variables) == 0 && len(c.Equations) == 0 {
			w.empty("component", attr{"name", c.Name})
			continue
		}
		w.open("component", attr{"name", c.Name})
		for _, v := range c.Variables {
			w.empty("variable",
				attr{"name", v.Name},
				attr{"units", v.Units},
				attr{"initial_value", v.Initial},
				attr{"interface", v.Interface})
		}
		if len(c.Equations) > 0 {
			w.open("math", attr{"xmlns", NamespaceMathML}, attr{"xmlns:cellml", NamespaceCellML})
			for _, eq := range c.Equations {
				eq.write(w)
			}
			w.close("math")
		}
		w.close("component")
	}

	for _, conn := range m.Connections {
		w.open("connection", attr{"component_1", conn.Component1}, attr{"component_2", conn.Component2})
		for _, mp := range conn.Mappings {
			w.empty("map_variables", attr{"variable_1", mp.Variable1}, attr{"variable_2", mp.Variable2})
		}
		w.close("connection")
	}

	w.close("model")
	if w.err != nil {
		return fmt.Errorf("encode %s: %w", m.Name, w.err)
	}
	return w.w.Flush()
}

// Marshal returns the encoded document.
func Marshal(m *Model) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, m); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteFile writes m to dir/<name>.cellml and returns the path.
func WriteFile(dir string, m *Model) (string, error) {
	data, err := Marshal(m)
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, m.FileName())
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}
