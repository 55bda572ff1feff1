package harness

import (
	"github.com/roach88/bondgraph/internal/derive"
	"github.com/roach88/bondgraph/internal/ir"
)

// Result is the outcome of a test scenario execution.
type Result struct {
	// Pass indicates overall test success.
	// True if the expect clause and all assertions match.
	Pass bool `json:"pass"`

	// Snapshot is the derivation outcome used for golden comparison.
	Snapshot Snapshot `json:"snapshot"`

	// Errors contains validation error messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// Derivation is the successful derivation, nil on failure.
	Derivation *derive.Result `json:"-"`

	// Network is the loaded network, nil if loading failed.
	Network *ir.Network `json:"-"`
}

// Snapshot captures a derivation outcome in printable form.
type Snapshot struct {
	Scenario   string          `json:"scenario"`
	Network    string          `json:"network,omitempty"`
	Hash       string          `json:"hash,omitempty"`
	Reaction   string          `json:"reaction,omitempty"`
	Method     string          `json:"method,omitempty"`
	Fallback   bool            `json:"fallback,omitempty"`
	Num        string          `json:"num,omitempty"`
	Den        string          `json:"den,omitempty"`
	Params     []SnapshotParam `json:"params,omitempty"`
	Quantities []SnapshotParam `json:"quantities,omitempty"`
	Error      string          `json:"error,omitempty"`
}

// SnapshotParam is a named expression with units.
type SnapshotParam struct {
	Name  string `json:"name"`
	Expr  string `json:"expr,omitempty"`
	Units string `json:"units"`
}

// NewResult creates a new passing result.
// Used as the starting point for test execution.
func NewResult(name string) *Result {
	return &Result{
		Pass:     true,
		Snapshot: Snapshot{Scenario: name},
		Errors:   []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// record fills the snapshot from a finished derivation.
func (s *Snapshot) record(res *derive.Result) {
	s.Hash = res.Hash
	s.Reaction = res.Flux.Reaction
	s.Method = string(res.Method)
	s.Fallback = res.Fallback
	s.Num = res.Lumped.Num.String()
	s.Den = res.Lumped.Den.String()
	for _, p := range res.Lumped.P {
		s.Params = append(s.Params, SnapshotParam{Name: p.Name, Expr: p.Expr.String(), Units: p.Units})
	}
	for _, q := range res.Lumped.Q {
		s.Quantities = append(s.Quantities, SnapshotParam{Name: q.Name, Units: q.Units})
	}
}

// canonical converts the snapshot for ir.MarshalCanonical, which only
// handles IR values.
func (s *Snapshot) canonical() ir.Object {
	obj := ir.Object{"scenario": ir.String(s.Scenario)}
	set := func(k, v string) {
		if v != "" {
			obj[k] = ir.String(v)
		}
	}
	set("network", s.Network)
	set("hash", s.Hash)
	set("reaction", s.Reaction)
	set("method", s.Method)
	set("num", s.Num)
	set("den", s.Den)
	set("error", s.Error)
	if s.Fallback {
		obj["fallback"] = ir.Bool(true)
	}
	list := func(ps []SnapshotParam) ir.Array {
		arr := make(ir.Array, len(ps))
		for i, p := range ps {
			o := ir.Object{"name": ir.String(p.Name), "units": ir.String(p.Units)}
			if p.Expr != "" {
				o["expr"] = ir.String(p.Expr)
			}
			arr[i] = o
		}
		return arr
	}
	if len(s.Params) > 0 {
		obj["params"] = list(s.Params)
	}
	if len(s.Quantities) > 0 {
		obj["quantities"] = list(s.Quantities)
	}
	return obj
}
