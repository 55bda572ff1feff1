// Package sweep evaluates a steady-state flux across a range of one
// parameter and plots the result.
package sweep

import (
	"errors"
	"fmt"
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/roach88/bondgraph/internal/bg"
	"github.com/roach88/bondgraph/internal/expr"
)

// Point is one evaluation.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Series is a flux sampled over Param.
type Series struct {
	Param  string  `json:"param"`
	Points []Point `json:"points"`
}

// Plot dimensions.
const (
	Width  = 6 * vg.Inch
	Height = 4 * vg.Inch
)

// Symbols returns the names a sweep may vary or must bind for r. The
// voltage factor is replaced by V_m and the constants it is built from.
func Symbols(r expr.Ratio) []string {
	var out []string
	for _, s := range r.Symbols() {
		if s == expr.VoltageFactor {
			out = append(out, bg.Voltage, bg.Faraday, bg.GasConstant, bg.Temperature)
			continue
		}
		out = append(out, s)
	}
	slices.Sort(out)
	return slices.Compact(out)
}

// Run evaluates r at steps evenly spaced values of param in [from, to].
// Every other symbol is taken from env, which is not modified.
func Run(r expr.Ratio, param string, from, to float64, steps int, env expr.Env) (*Series, error) {
	if steps < 2 {
		return nil, fmt.Errorf("sweep: need at least 2 steps, got %d", steps)
	}
	if from == to {
		return nil, errors.New("sweep: empty range")
	}
	if !slices.Contains(Symbols(r), param) {
		return nil, fmt.Errorf("sweep: %s does not appear in the flux", param)
	}

	local := expr.Env{}
	for k, v := range env {
		local[k] = v
	}
	xs := floats.Span(make([]float64, steps), from, to)
	s := &Series{Param: param, Points: make([]Point, 0, steps)}
	for _, x := range xs {
		local[param] = x
		y, err := r.Eval(local)
		if err != nil {
			return nil, fmt.Errorf("sweep: %s=%g: %w", param, x, err)
		}
		s.Points = append(s.Points, Point{X: x, Y: y})
	}
	return s, nil
}

// Range returns the smallest and largest flux in s.
func (s *Series) Range() (lo, hi float64) {
	ys := make([]float64, len(s.Points))
	for i, p := range s.Points {
		ys[i] = p.Y
	}
	return floats.Min(ys), floats.Max(ys)
}

// Plot renders s as a line plot. The image format follows the extension
// of path: .png, .svg, .pdf and .eps are supported.
func Plot(s *Series, title, path string) error {
	if len(s.Points) == 0 {
		return errors.New("sweep: nothing to plot")
	}
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = s.Param
	p.Y.Label.Text = "v (" + bg.Chemical.Flow.Units + ")"
	p.Add(plotter.NewGrid())

	xys := make(plotter.XYs, len(s.Points))
	for i, pt := range s.Points {
		xys[i].X, xys[i].Y = pt.X, pt.Y
	}
	line, err := plotter.NewLine(xys)
	if err != nil {
		return fmt.Errorf("sweep: %w", err)
	}
	p.Add(line)

	if err := p.Save(Width, Height, path); err != nil {
		return fmt.Errorf("sweep: %w", err)
	}
	return nil
}
