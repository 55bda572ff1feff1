// Package config loads bg2cellml configuration: code defaults overlaid by
// an optional YAML file and environment variables, then validated.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/roach88/bondgraph/internal/bg"
	"github.com/roach88/bondgraph/internal/expr"
	"github.com/roach88/bondgraph/internal/steady"
)

// MethodAuto lets the orchestrator choose the solver.
const MethodAuto = "auto"

// DefaultAutoThreshold is the chemodynamic species count above which auto
// prefers the diagram method.
const DefaultAutoThreshold = 4

// Environment variables overriding the file.
const (
	EnvMethod = "BG2CELLML_METHOD"
	EnvCache  = "BG2CELLML_CACHE"
)

// Solver selects and bounds the steady-state solvers.
type Solver struct {
	Method           string `yaml:"method" validate:"oneof=linear diagram auto"`
	AutoThreshold    int    `yaml:"auto_threshold" validate:"gte=1"`
	MaxLinearSpecies int    `yaml:"max_linear_species" validate:"gte=1,lte=64"`
	MaxDiagramEdges  int    `yaml:"max_diagram_edges" validate:"gte=1,lte=4096"`
	MaxTerms         int    `yaml:"max_terms" validate:"gte=1"`
}

// Cache locates the derivation cache. An empty path disables it.
type Cache struct {
	Path string `yaml:"path"`
}

// Output configures emitted models.
type Output struct {
	Dir string `yaml:"dir" validate:"required"`
	VOI string `yaml:"voi" validate:"required,varname"`
}

// Config is the complete configuration.
type Config struct {
	Solver    Solver             `yaml:"solver"`
	Constants map[string]float64 `yaml:"constants" validate:"dive,keys,oneof=F R T,endkeys,gt=0"`
	Cache     Cache              `yaml:"cache"`
	Output    Output             `yaml:"output"`
}

// Default returns the built-in configuration.
func Default() *Config {
	constants := map[string]float64{}
	for _, c := range bg.Constants {
		constants[c.Name] = c.Value
	}
	return &Config{
		Solver: Solver{
			Method:           MethodAuto,
			AutoThreshold:    DefaultAutoThreshold,
			MaxLinearSpecies: steady.DefaultMaxLinearSpecies,
			MaxDiagramEdges:  steady.DefaultMaxDiagramEdges,
			MaxTerms:         steady.DefaultMaxTerms,
		},
		Constants: constants,
		Output:    Output{Dir: ".", VOI: "t"},
	}
}

// Load reads path over the defaults. An empty path skips the file. The
// environment is applied last.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("config: %w", err)
		}
		defer f.Close()
		if err := cfg.decode(f); err != nil {
			return nil, fmt.Errorf("config %s: %w", path, err)
		}
	}
	cfg.applyEnv(os.LookupEnv)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes YAML over the defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := cfg.decode(bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) decode(r io.Reader) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true) // Reject unknown fields
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}
	return nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup(EnvMethod); ok && v != "" {
		c.Solver.Method = v
	}
	if v, ok := lookup(EnvCache); ok {
		c.Cache.Path = v
	}
}

var validate = newValidator()

var varName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// newValidator reports fields by their YAML names and adds the varname
// tag for CellML identifiers.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("yaml"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	if err := v.RegisterValidation("varname", func(fl validator.FieldLevel) bool {
		return varName.MatchString(fl.Field().String())
	}); err != nil {
		panic(err)
	}
	return v
}

// Validate checks every field against its tag.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return formatValidationError(err)
	}
	return nil
}

func formatValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		msgs = append(msgs, formatFieldError(e))
	}
	return fmt.Errorf("config: %s", strings.Join(msgs, "; "))
}

func formatFieldError(e validator.FieldError) string {
	field := e.Namespace()
	if i := strings.IndexByte(field, '.'); i >= 0 {
		field = field[i+1:]
	}
	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, e.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", field, e.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, e.Param())
	case "lte":
		return fmt.Sprintf("%s must be at most %s", field, e.Param())
	case "varname":
		return fmt.Sprintf("%s must be a variable name", field)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

// Options maps the solver section onto steady.Options.
func (c *Config) Options(reaction string) steady.Options {
	return steady.Options{
		Reaction:         reaction,
		MaxLinearSpecies: c.Solver.MaxLinearSpecies,
		MaxDiagramEdges:  c.Solver.MaxDiagramEdges,
		MaxTerms:         c.Solver.MaxTerms,
	}
}

// Env returns the physical constants as an evaluation environment.
func (c *Config) Env() expr.Env {
	env := expr.Env{}
	for k, v := range c.Constants {
		env[k] = v
	}
	return env
}
