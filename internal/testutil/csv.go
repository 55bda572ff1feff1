package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/roach88/bondgraph/internal/ir"
)

// MatrixCSV renders one stoichiometric matrix in the two-header-row layout
// the loader reads.
func MatrixCSV(n *ir.Network, d ir.Direction) string {
	var b strings.Builder
	types := []string{"*", "*"}
	names := []string{"*", "*"}
	for _, r := range n.Reactions {
		types = append(types, string(r.Kind))
		names = append(names, r.Name)
	}
	b.WriteString(strings.Join(types, ",") + "\n")
	b.WriteString(strings.Join(names, ",") + "\n")
	for i, s := range n.Species {
		row := []string{string(s.Kind), s.Name}
		for j := range n.Reactions {
			row = append(row, n.Coeff(d, i, j).RatString())
		}
		b.WriteString(strings.Join(row, ",") + "\n")
	}
	return b.String()
}

// WriteCSV writes <name>_f.csv and <name>_r.csv into dir and returns the
// forward path.
func WriteCSV(t testing.TB, dir string, n *ir.Network) string {
	t.Helper()
	fwd := filepath.Join(dir, n.Name+"_f.csv")
	rev := filepath.Join(dir, n.Name+"_r.csv")
	WriteFile(t, fwd, MatrixCSV(n, ir.Forward))
	WriteFile(t, rev, MatrixCSV(n, ir.Reverse))
	return fwd
}

// WriteFile writes content to path, failing the test on error.
func WriteFile(t testing.TB, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
