package compiler

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/roach88/bondgraph/internal/expr"
	"github.com/roach88/bondgraph/internal/ir"
)

// Matrix files carry two header rows (reaction types, reaction names) and
// two leading columns (component type, component name):
//
//	*,*,Re,Re
//	*,*,R1,R2
//	Ce,A,1,0
//	Se,S,1,0
const (
	headerRows = 2
	headerCols = 2
)

// ReversePath derives the reverse matrix file from the forward one by
// replacing the trailing "_f.csv" with "_r.csv".
func ReversePath(forwardPath string) (string, error) {
	if !strings.HasSuffix(forwardPath, "_f.csv") {
		return "", &InputFormatError{
			File:    forwardPath,
			Code:    ErrReversePath,
			Message: `cannot derive reverse matrix: forward file name must end in "_f.csv"`,
		}
	}
	return strings.TrimSuffix(forwardPath, "_f.csv") + "_r.csv", nil
}

// NetworkName is the stem of the forward file up to its first underscore:
// "enzyme_f.csv" names the network "enzyme".
func NetworkName(forwardPath string) string {
	stem := strings.TrimSuffix(filepath.Base(forwardPath), filepath.Ext(forwardPath))
	name, _, _ := strings.Cut(stem, "_")
	return name
}

// LoadStoichiometry reads a forward/reverse matrix pair into a network.
// An empty reversePath defaults to ReversePath(forwardPath).
func LoadStoichiometry(forwardPath, reversePath string) (*ir.Network, error) {
	if reversePath == "" {
		p, err := ReversePath(forwardPath)
		if err != nil {
			return nil, err
		}
		reversePath = p
	}

	fwd, err := readGrid(forwardPath)
	if err != nil {
		return nil, err
	}
	rev, err := readGrid(reversePath)
	if err != nil {
		return nil, err
	}
	return buildNetwork(NetworkName(forwardPath), forwardPath, fwd, reversePath, rev)
}

// ReadStoichiometry is LoadStoichiometry over readers. The file names are
// used only in error messages.
func ReadStoichiometry(name string, forward io.Reader, forwardFile string, reverse io.Reader, reverseFile string) (*ir.Network, error) {
	fwd, err := parseGrid(forward, forwardFile)
	if err != nil {
		return nil, err
	}
	rev, err := parseGrid(reverse, reverseFile)
	if err != nil {
		return nil, err
	}
	return buildNetwork(name, forwardFile, fwd, reverseFile, rev)
}

func readGrid(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &InputFormatError{File: path, Code: ErrReadFile, Message: err.Error()}
	}
	defer f.Close()
	return parseGrid(f, path)
}

func parseGrid(r io.Reader, file string) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var rows [][]string
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &InputFormatError{File: file, Code: ErrReadFile, Message: err.Error()}
		}
		for i := range rec {
			rec[i] = strings.TrimSpace(rec[i])
		}
		rows = append(rows, rec)
	}
	return rows, nil
}

func buildNetwork(name, fwdFile string, fwd [][]string, revFile string, rev [][]string) (*ir.Network, error) {
	if len(fwd) <= headerRows {
		return nil, &InputFormatError{File: fwdFile, Code: ErrEmptyNetwork, Message: "matrix has no component rows"}
	}
	width := len(fwd[0])
	if width <= headerCols {
		return nil, &InputFormatError{File: fwdFile, Row: 1, Code: ErrEmptyNetwork, Message: "matrix has no reaction columns"}
	}
	if err := checkGrid(fwd, fwdFile, width, true); err != nil {
		return nil, err
	}
	if len(rev) != len(fwd) {
		return nil, &InputFormatError{
			File:    revFile,
			Code:    ErrShapeMismatch,
			Message: fmt.Sprintf("reverse matrix has %d rows, forward has %d", len(rev), len(fwd)),
		}
	}
	if err := checkGrid(rev, revFile, width, false); err != nil {
		return nil, err
	}

	reactions := make([]ir.Component, 0, width-headerCols)
	seenReaction := map[string]bool{}
	for col := headerCols; col < width; col++ {
		rname := fwd[1][col]
		kind, err := ir.ParseKind(fwd[0][col])
		if err != nil {
			return nil, &InputFormatError{File: fwdFile, Row: 1, Col: col + 1, Name: rname, Code: ErrUnknownKind, Message: err.Error()}
		}
		if !kind.IsReaction() {
			return nil, &InputFormatError{File: fwdFile, Row: 1, Col: col + 1, Name: rname, Code: ErrReactionKind,
				Message: fmt.Sprintf("%q is a species type and cannot label a column", kind)}
		}
		if seenReaction[rname] {
			return nil, &InputFormatError{File: fwdFile, Row: 2, Col: col + 1, Name: rname, Code: ErrDuplicateReaction, Message: "duplicate reaction name"}
		}
		seenReaction[rname] = true
		reactions = append(reactions, ir.Component{Name: rname, Kind: kind})
	}

	species := make([]ir.Component, 0, len(fwd)-headerRows)
	seenSpecies := map[string]bool{}
	for row := headerRows; row < len(fwd); row++ {
		sname := fwd[row][1]
		kind, err := ir.ParseKind(fwd[row][0])
		if err != nil {
			return nil, &InputFormatError{File: fwdFile, Row: row + 1, Col: 1, Name: sname, Code: ErrUnknownKind, Message: err.Error()}
		}
		if !kind.IsSpecies() {
			return nil, &InputFormatError{File: fwdFile, Row: row + 1, Col: 1, Name: sname, Code: ErrSpeciesKind,
				Message: fmt.Sprintf("%q is a reaction type and cannot label a row", kind)}
		}
		if seenSpecies[sname] {
			return nil, &InputFormatError{File: fwdFile, Row: row + 1, Col: 2, Name: sname, Code: ErrDuplicateSpecies, Message: "duplicate component name"}
		}
		seenSpecies[sname] = true
		species = append(species, ir.Component{Name: sname, Kind: kind})
	}

	net := ir.NewNetwork(name, species, reactions)
	for _, side := range []struct {
		d    ir.Direction
		file string
		grid [][]string
	}{{ir.Forward, fwdFile, fwd}, {ir.Reverse, revFile, rev}} {
		m := net.Matrix(side.d)
		for row := headerRows; row < len(side.grid); row++ {
			for col := headerCols; col < width; col++ {
				c, err := expr.ParseRat(side.grid[row][col])
				if err != nil {
					return nil, &InputFormatError{File: side.file, Row: row + 1, Col: col + 1, Name: species[row-headerRows].Name,
						Code: ErrBadNumber, Message: err.Error()}
				}
				if c.Sign() < 0 {
					return nil, &InputFormatError{File: side.file, Row: row + 1, Col: col + 1, Name: species[row-headerRows].Name,
						Code: ErrNegativeCoefficient, Message: fmt.Sprintf("negative coefficient %s", c.RatString())}
				}
				m[row-headerRows][col-headerCols] = c
			}
		}
	}

	if errs := Validate(net); len(errs) > 0 {
		first := errs[0]
		return nil, &InputFormatError{File: fwdFile, Name: first.Name, Code: first.Code, Message: first.Message}
	}
	return net, nil
}

// checkGrid rejects ragged rows and blank cells. The two leading columns of
// the header rows are placeholders; with labels false (the reverse file) the
// two leading columns are ignored entirely, as are its header names.
func checkGrid(grid [][]string, file string, width int, labels bool) error {
	for r, rec := range grid {
		if len(rec) != width {
			return &InputFormatError{
				File:    file,
				Row:     r + 1,
				Code:    ErrRaggedRow,
				Message: fmt.Sprintf("row has %d fields, header has %d", len(rec), width),
			}
		}
		for c, cell := range rec {
			if c < headerCols && (r < headerRows || !labels) {
				continue
			}
			if r < headerRows && !labels {
				continue
			}
			if cell == "" {
				return &InputFormatError{File: file, Row: r + 1, Col: c + 1, Code: ErrEmptyCell, Message: "empty cell"}
			}
		}
	}
	return nil
}
