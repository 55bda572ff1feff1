package steady

// Default ceilings.
const (
	DefaultMaxLinearSpecies = 8
	DefaultMaxDiagramEdges  = 64
	DefaultMaxTerms         = 20000
)

// Method names a solver.
type Method string

const (
	MethodLinear  Method = "linear"
	MethodDiagram Method = "diagram"
)

// Options configures a solve. Zero fields take their defaults.
type Options struct {
	// Reaction selects the reaction whose flux is reported. Empty selects
	// the first reaction.
	Reaction string

	// MaxLinearSpecies bounds the size of the reduced linear system.
	MaxLinearSpecies int

	// MaxDiagramEdges bounds the number of reaction edges in the diagram
	// method.
	MaxDiagramEdges int

	// MaxTerms bounds the number of terms of any intermediate polynomial.
	MaxTerms int
}

// DefaultOptions returns options with every ceiling at its default.
func DefaultOptions() Options {
	return Options{}.withDefaults()
}

func (o Options) withDefaults() Options {
	if o.MaxLinearSpecies <= 0 {
		o.MaxLinearSpecies = DefaultMaxLinearSpecies
	}
	if o.MaxDiagramEdges <= 0 {
		o.MaxDiagramEdges = DefaultMaxDiagramEdges
	}
	if o.MaxTerms <= 0 {
		o.MaxTerms = DefaultMaxTerms
	}
	return o
}

func (o Options) checkTerms(n int) error {
	if n > o.MaxTerms {
		return &UnsupportedScaleError{Metric: "terms", Value: n, Limit: o.MaxTerms}
	}
	return nil
}
