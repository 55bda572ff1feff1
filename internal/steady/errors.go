package steady

import (
	"errors"
	"fmt"
	"strings"
)

// DegenerateNetworkError reports a singular reduced linear system: the
// stoichiometry has more dependencies than the single one the closure row
// replaces.
type DegenerateNetworkError struct {
	// Species lists the chemodynamic species of the reduced system.
	Species []string

	// Reactions lists the reactions of the network.
	Reactions []string

	// Reason is a human-readable description.
	Reason string
}

// Error implements the error interface.
func (e *DegenerateNetworkError) Error() string {
	return fmt.Sprintf("degenerate network: %s (species=%s, reactions=%s)",
		e.Reason, strings.Join(e.Species, ","), strings.Join(e.Reactions, ","))
}

// UnsupportedTopologyError reports a network shape a solver cannot handle,
// such as a partial diagram that is not a spanning tree or a non-linear
// chemodynamic coefficient.
type UnsupportedTopologyError struct {
	// Reaction names the offending reaction (edge), if any.
	Reaction string

	// Species names the offending species, if any.
	Species string

	// Reason is a human-readable description.
	Reason string
}

// Error implements the error interface.
func (e *UnsupportedTopologyError) Error() string {
	var ctx []string
	if e.Reaction != "" {
		ctx = append(ctx, "reaction="+e.Reaction)
	}
	if e.Species != "" {
		ctx = append(ctx, "species="+e.Species)
	}
	if len(ctx) == 0 {
		return "unsupported topology: " + e.Reason
	}
	return fmt.Sprintf("unsupported topology: %s (%s)", e.Reason, strings.Join(ctx, ", "))
}

// UnsupportedScaleError reports that a network exceeds a configured
// complexity ceiling.
type UnsupportedScaleError struct {
	// Metric names the bounded quantity, e.g. "terms".
	Metric string

	// Value is the observed value.
	Value int

	// Limit is the configured ceiling.
	Limit int
}

// Error implements the error interface.
func (e *UnsupportedScaleError) Error() string {
	return fmt.Sprintf("unsupported scale: %s %d exceeds limit %d", e.Metric, e.Value, e.Limit)
}

// IsDegenerateNetworkError reports whether err wraps a
// *DegenerateNetworkError.
func IsDegenerateNetworkError(err error) bool {
	var target *DegenerateNetworkError
	return errors.As(err, &target)
}

// IsUnsupportedTopologyError reports whether err wraps an
// *UnsupportedTopologyError.
func IsUnsupportedTopologyError(err error) bool {
	var target *UnsupportedTopologyError
	return errors.As(err, &target)
}

// IsUnsupportedScaleError reports whether err wraps an
// *UnsupportedScaleError.
func IsUnsupportedScaleError(err error) bool {
	var target *UnsupportedScaleError
	return errors.As(err, &target)
}
