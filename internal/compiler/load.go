package compiler

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/roach88/bondgraph/internal/ir"
)

// ErrUnknownNetwork is the code for a requested network name that the
// input does not declare.
const ErrUnknownNetwork = "E216"

// Load reads a network from path: a forward matrix CSV (with reverse
// defaulting to ReversePath), a single CUE file, or a directory holding a
// CUE package. For CUE input, name selects one of the declared networks;
// empty selects the first.
func Load(path, reverse, name string) (*ir.Network, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, &InputFormatError{File: path, Code: ErrReadFile, Message: err.Error()}
	}

	var nets []*ir.Network
	switch {
	case info.IsDir():
		nets, err = LoadCUE(path)
	case strings.EqualFold(filepath.Ext(path), ".cue"):
		data, rerr := os.ReadFile(path)
		if rerr != nil {
			return nil, &InputFormatError{File: path, Code: ErrReadFile, Message: rerr.Error()}
		}
		nets, err = CompileString(string(data), path)
	default:
		net, err := LoadStoichiometry(path, reverse)
		if err != nil {
			return nil, err
		}
		if name != "" && name != net.Name {
			return nil, &InputFormatError{File: path, Code: ErrUnknownNetwork, Name: name, Message: "network not declared"}
		}
		return net, nil
	}
	if err != nil {
		return nil, err
	}
	return selectNetwork(path, nets, name)
}

func selectNetwork(path string, nets []*ir.Network, name string) (*ir.Network, error) {
	if len(nets) == 0 {
		return nil, &InputFormatError{File: path, Code: ErrEmptyNetwork, Message: "no networks declared"}
	}
	if name == "" {
		return nets[0], nil
	}
	names := make([]string, len(nets))
	for i, n := range nets {
		if n.Name == name {
			return n, nil
		}
		names[i] = n.Name
	}
	return nil, &InputFormatError{
		File:    path,
		Code:    ErrUnknownNetwork,
		Name:    name,
		Message: fmt.Sprintf("network not declared (have %s)", strings.Join(names, ", ")),
	}
}
