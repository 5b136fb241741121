package physics

import (
	"fmt"
	"math"

	"github.com/san-kum/nbody/internal/dynamo"
	"gonum.org/v1/gonum/spatial/r3"
)

// OffsetMomentum sets the velocity of bodies[ref] so that the total momentum
// of the system is zero. Only that one velocity changes. A reference body
// without positive mass is a domain error and leaves bodies untouched.
// The sum skips the reference; for a reference at rest this equals the
// classic form -Σ m·v / m_ref over all bodies.
func OffsetMomentum(bodies []Body, ref Handle) error {
	if ref < 0 || int(ref) >= len(bodies) {
		return fmt.Errorf("%w: %d not in [0, %d)", dynamo.ErrReferenceIndex, ref, len(bodies))
	}
	if err := checkReference(bodies[ref]); err != nil {
		return err
	}
	b := &bodies[ref]

	var p r3.Vec
	for i := range bodies {
		if Handle(i) == ref {
			continue
		}
		p = r3.Add(p, r3.Scale(bodies[i].Mass, bodies[i].Vel))
	}
	b.Vel = r3.Vec{
		X: -p.X / b.Mass,
		Y: -p.Y / b.Mass,
		Z: -p.Z / b.Mass,
	}
	return nil
}

func checkReference(b Body) error {
	if !(b.Mass > 0) || math.IsInf(b.Mass, 0) {
		return &dynamo.DomainError{
			Op:     "offset momentum",
			Body:   b.Label,
			Reason: fmt.Sprintf("reference mass must be positive and finite, got %v", b.Mass),
		}
	}
	return nil
}

// Momentum returns the total linear momentum of the system.
func Momentum(bodies []Body) r3.Vec {
	var p r3.Vec
	for i := range bodies {
		p = r3.Add(p, r3.Scale(bodies[i].Mass, bodies[i].Vel))
	}
	return p
}

// AngularMomentum returns the total angular momentum about the origin.
func AngularMomentum(bodies []Body) r3.Vec {
	var l r3.Vec
	for i := range bodies {
		b := &bodies[i]
		l = r3.Add(l, r3.Scale(b.Mass, r3.Cross(b.Pos, b.Vel)))
	}
	return l
}
