package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/roach88/bondgraph/internal/expr"
)

// marshalPoly converts a polynomial to JSON TEXT for storage. Terms are
// already in canonical order, so equal polynomials store identical text.
func marshalPoly(p expr.Poly) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false) // symbol names may contain '*' and '/'
	if err := enc.Encode(p); err != nil {
		return "", fmt.Errorf("marshal poly: %w", err)
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

// unmarshalPoly converts JSON TEXT back to a polynomial.
func unmarshalPoly(data string) (expr.Poly, error) {
	var p expr.Poly
	if err := json.Unmarshal([]byte(data), &p); err != nil {
		return expr.Poly{}, fmt.Errorf("unmarshal poly: %w", err)
	}
	return p, nil
}
