package steady

import (
	"errors"

	"github.com/roach88/bondgraph/internal/bg"
	"github.com/roach88/bondgraph/internal/expr"
)

// Flux is the steady-state flux of one reaction in lowest terms. The
// denominator is primitive with a positive leading coefficient.
type Flux struct {
	Method   Method     `json:"method"`
	Reaction string     `json:"reaction"`
	Ratio    expr.Ratio `json:"-"`
}

// Num returns the numerator.
func (f *Flux) Num() expr.Poly { return f.Ratio.Num }

// Den returns the denominator.
func (f *Flux) Den() expr.Poly { return f.Ratio.Den }

func (f *Flux) String() string { return f.Ratio.String() }

// newFlux cancels num/den to lowest terms. A gcd that outgrows
// opts.MaxTerms is reported as *UnsupportedScaleError.
func newFlux(method Method, reaction string, num, den expr.Poly, opts Options) (*Flux, error) {
	r, err := expr.NewRatio(num, den)
	if err != nil {
		return nil, err
	}
	r, err = r.CancelBounded(opts.MaxTerms)
	var limit *expr.TermLimitError
	if errors.As(err, &limit) {
		return nil, &UnsupportedScaleError{Metric: limit.Metric, Value: limit.Value, Limit: limit.Limit}
	}
	if err != nil {
		return nil, err
	}
	return &Flux{Method: method, Reaction: reaction, Ratio: r}, nil
}

func total() expr.Poly { return expr.Var(bg.TotalAmount) }
