package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/roach88/bondgraph/internal/config"
	"github.com/roach88/bondgraph/internal/expr"
)

// Scenario defines a conformance test scenario: one network, one
// derivation, and the outcome it must produce.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Network is a forward matrix CSV, a CUE file, or a CUE package
	// directory. Relative paths resolve against the scenario file.
	Network string `yaml:"network"`

	// Reverse overrides the reverse matrix path for CSV input.
	Reverse string `yaml:"reverse,omitempty"`

	// Select names one network of a CUE input.
	Select string `yaml:"select,omitempty"`

	// Reaction selects the flux to derive. Empty selects the first.
	Reaction string `yaml:"reaction,omitempty"`

	// Method is linear, diagram or auto. Defaults to auto.
	Method string `yaml:"method,omitempty"`

	// Expect is the derivation outcome.
	Expect Expect `yaml:"expect"`

	// Assertions are further checks on a successful derivation.
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// Expect describes the derivation outcome. Empty fields are not checked.
type Expect struct {
	// Error is the expected failure kind. When set, nothing else is checked.
	Error string `yaml:"error,omitempty"`

	Method     string        `yaml:"method,omitempty"`
	Fallback   *bool         `yaml:"fallback,omitempty"`
	Num        string        `yaml:"num,omitempty"`
	Den        string        `yaml:"den,omitempty"`
	Params     []ExpectParam `yaml:"params,omitempty"`
	Quantities []string      `yaml:"quantities,omitempty"`
}

// ExpectParam is one expected lumped parameter.
type ExpectParam struct {
	Name  string `yaml:"name"`
	Expr  string `yaml:"expr"`
	Units string `yaml:"units,omitempty"`
}

// Assertion is an additional check.
type Assertion struct {
	// Type selects the check:
	// - "numeric_agrees": symbolic flux matches a numeric solve
	// - "methods_agree": linear and diagram results are equivalent
	// - "cellml_family": the emitted model names, in order
	// - "cache_hit": a second derivation is served from the cache
	// - "flux_symbols": the exact symbol set of the unlumped flux
	Type string `yaml:"type"`

	// Samples and Tolerance bound numeric_agrees.
	Samples   int     `yaml:"samples,omitempty"`
	Tolerance float64 `yaml:"tolerance,omitempty"`
	Seed      uint64  `yaml:"seed,omitempty"`

	// Models lists model names for cellml_family.
	Models []string `yaml:"models,omitempty"`

	// Symbols lists names for flux_symbols.
	Symbols []string `yaml:"symbols,omitempty"`
}

// Assertion type constants.
const (
	AssertNumericAgrees = "numeric_agrees"
	AssertMethodsAgree  = "methods_agree"
	AssertCellMLFamily  = "cellml_family"
	AssertCacheHit      = "cache_hit"
	AssertFluxSymbols   = "flux_symbols"
)

// Error kinds for Expect.Error.
const (
	KindInputFormat         = "input_format"
	KindUnsupportedTopology = "unsupported_topology"
	KindUnsupportedScale    = "unsupported_scale"
	KindDegenerateNetwork   = "degenerate_network"
	KindZeroDenominator     = "zero_denominator"
	KindOther               = "error"
)

var errorKinds = []string{
	KindInputFormat, KindUnsupportedTopology, KindUnsupportedScale,
	KindDegenerateNetwork, KindZeroDenominator, KindOther,
}

// LoadScenario reads and parses a scenario YAML file. The network path
// resolves against the directory of path.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	return LoadScenarioWithBasePath(path, filepath.Dir(path))
}

// LoadScenarioWithBasePath reads and parses a scenario YAML file,
// resolving network paths relative to the provided base path.
func LoadScenarioWithBasePath(path, basePath string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Strict decoding catches typos like "assertion:" vs "assertions:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	// Resolve paths BEFORE validation
	scenario.Network = resolve(basePath, scenario.Network)
	scenario.Reverse = resolve(basePath, scenario.Reverse)

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

func resolve(base, p string) string {
	if p == "" || filepath.IsAbs(p) || base == "" {
		return p
	}
	return filepath.Join(base, p)
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if s.Network == "" {
		return fmt.Errorf("network is required")
	}
	if _, err := os.Stat(s.Network); os.IsNotExist(err) {
		return fmt.Errorf("network file not found: %s", s.Network)
	}

	switch s.Method {
	case "", config.MethodAuto, "linear", "diagram":
	default:
		return fmt.Errorf("method must be one of: linear diagram auto, got %q", s.Method)
	}

	if err := validateExpect(&s.Expect); err != nil {
		return err
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}

	return nil
}

func validateExpect(e *Expect) error {
	if e.Error != "" {
		for _, k := range errorKinds {
			if e.Error == k {
				return nil
			}
		}
		return fmt.Errorf("expect.error: unknown error kind %q", e.Error)
	}

	if e.Method == "" && e.Num == "" && e.Den == "" && len(e.Params) == 0 && len(e.Quantities) == 0 {
		return fmt.Errorf("expect is required and must be non-empty")
	}
	for _, s := range []struct{ field, text string }{{"num", e.Num}, {"den", e.Den}} {
		if s.text == "" {
			continue
		}
		if _, err := expr.ParsePoly(s.text); err != nil {
			return fmt.Errorf("expect.%s: %w", s.field, err)
		}
	}
	for i, p := range e.Params {
		if p.Name == "" {
			return fmt.Errorf("expect.params[%d]: name is required", i)
		}
		if _, err := expr.ParsePoly(p.Expr); err != nil {
			return fmt.Errorf("expect.params[%d]: %w", i, err)
		}
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertNumericAgrees:
		if a.Samples < 0 {
			return fmt.Errorf("assertions[%d]: samples must be non-negative for numeric_agrees", index)
		}
		if a.Tolerance < 0 {
			return fmt.Errorf("assertions[%d]: tolerance must be non-negative for numeric_agrees", index)
		}
	case AssertMethodsAgree, AssertCacheHit:
	case AssertCellMLFamily:
		if len(a.Models) == 0 {
			return fmt.Errorf("assertions[%d]: models list is required for cellml_family", index)
		}
	case AssertFluxSymbols:
		if len(a.Symbols) == 0 {
			return fmt.Errorf("assertions[%d]: symbols list is required for flux_symbols", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
