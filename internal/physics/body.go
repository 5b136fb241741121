package physics

import (
	"fmt"
	"math"

	"github.com/san-kum/nbody/internal/dynamo"
	"gonum.org/v1/gonum/spatial/r3"
)

// Body is a point mass. Label is used for diagnostics only.
type Body struct {
	Label string
	Pos   r3.Vec
	Vel   r3.Vec
	Mass  float64
}

// Handle identifies a body by its index in the body slice.
type Handle int

// Validate reports whether b can take part in a simulation.
func (b Body) Validate() error {
	if !(b.Mass > 0) || math.IsInf(b.Mass, 0) {
		return fmt.Errorf("%w: %q: mass must be positive and finite, got %v", dynamo.ErrInvalidBody, b.Label, b.Mass)
	}
	if !finite(b.Pos) {
		return fmt.Errorf("%w: %q: position %v", dynamo.ErrInvalidBody, b.Label, b.Pos)
	}
	if !finite(b.Vel) {
		return fmt.Errorf("%w: %q: velocity %v", dynamo.ErrInvalidBody, b.Label, b.Vel)
	}
	return nil
}

// ValidateSystem checks a body sequence and a reference handle before a run.
// A reference body without positive mass is reported as a *dynamo.DomainError.
func ValidateSystem(bodies []Body, ref Handle) error {
	if len(bodies) == 0 {
		return dynamo.ErrEmptySystem
	}
	if ref < 0 || int(ref) >= len(bodies) {
		return fmt.Errorf("%w: %d not in [0, %d)", dynamo.ErrReferenceIndex, ref, len(bodies))
	}
	if err := checkReference(bodies[ref]); err != nil {
		return err
	}
	for i := range bodies {
		if err := bodies[i].Validate(); err != nil {
			return fmt.Errorf("body %d: %w", i, err)
		}
	}
	return nil
}

// Clone returns an independent copy of bodies.
func Clone(bodies []Body) []Body {
	c := make([]Body, len(bodies))
	copy(c, bodies)
	return c
}

func finite(v r3.Vec) bool {
	for _, c := range [3]float64{v.X, v.Y, v.Z} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}
