package ir

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// MarshalCanonical produces RFC 8785 canonical JSON for hashing.
// This is the ONLY serialization that may be used to compute content
// addresses.
//
// Differences from json.Marshal:
//  1. Object keys sorted by UTF-16 code units
//  2. No HTML escaping
//  3. Strings are NFC normalized
func MarshalCanonical(v Value) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeCanonical(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeCanonical(buf *bytes.Buffer, v Value) error {
	switch val := v.(type) {
	case nil:
		return fmt.Errorf("null is forbidden in canonical JSON")
	case String:
		return writeCanonicalString(buf, string(val))
	case Int:
		fmt.Fprintf(buf, "%d", int64(val))
	case Bool:
		if val {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case Array:
		buf.WriteByte('[')
		for i, elem := range val {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeCanonical(buf, elem); err != nil {
				return fmt.Errorf("array[%d]: %w", i, err)
			}
		}
		buf.WriteByte(']')
	case Object:
		buf.WriteByte('{')
		for i, k := range val.SortedKeys() {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeCanonicalString(buf, k); err != nil {
				return fmt.Errorf("key %q: %w", k, err)
			}
			buf.WriteByte(':')
			if err := writeCanonical(buf, val[k]); err != nil {
				return fmt.Errorf("value for key %q: %w", k, err)
			}
		}
		buf.WriteByte('}')
	default:
		return fmt.Errorf("unsupported type for canonical JSON: %T", v)
	}
	return nil
}

// writeCanonicalString escapes only control characters, backslash and quote.
// U+2028 and U+2029 are emitted literally.
func writeCanonicalString(buf *bytes.Buffer, s string) error {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(norm.NFC.String(s)); err != nil {
		return err
	}
	out := bytes.TrimSuffix(tmp.Bytes(), []byte{'\n'})
	if bytes.Contains(out, []byte(`\u202`)) {
		out = []byte(unescapeLineSeparators(string(out)))
	}
	buf.Write(out)
	return nil
}

// unescapeLineSeparators turns \u2028 and \u2029 escapes back into literal
// characters unless the backslash is itself escaped.
func unescapeLineSeparators(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			if strings.HasPrefix(s[i:], `\u2028`) {
				b.WriteString("\u2028")
				i += 5
				continue
			}
			if strings.HasPrefix(s[i:], `\u2029`) {
				b.WriteString("\u2029")
				i += 5
				continue
			}
			// Any other escape: copy both bytes so an escaped backslash
			// is never reinterpreted.
			b.WriteByte(s[i])
			b.WriteByte(s[i+1])
			i++
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

// Canonical returns the canonical document describing the network. Only
// non-zero coefficients are listed, keyed by species name, so the document
// is independent of row and column order.
func (n *Network) Canonical() Object {
	species := make(Object, len(n.Species))
	for _, c := range n.Species {
		species[c.Name] = String(c.Kind)
	}

	reactions := make(Object, len(n.Reactions))
	for j, r := range n.Reactions {
		reactions[r.Name] = Object{
			"kind":    String(r.Kind),
			"forward": n.side(Forward, j),
			"reverse": n.side(Reverse, j),
		}
	}

	return Object{
		"ir_version": String(IRVersion),
		"species":    species,
		"reactions":  reactions,
	}
}

func (n *Network) side(d Direction, j int) Object {
	obj := Object{}
	for _, i := range n.Participants(d, j) {
		obj[n.Species[i].Name] = Rat(n.Coeff(d, i, j))
	}
	return obj
}
